package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Prediction options the game accepts. "high"/"low" and "pump"/"dump" are the
// volatility-flavored aliases the frontend exposes alongside plain direction.
var ValidPredictionOptions = []string{"bullish", "bearish", "high", "low", "pump", "dump"}

var walletAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidatePredictionOption checks the selected option against the bounded set.
func ValidatePredictionOption(option string) error {
	for _, valid := range ValidPredictionOptions {
		if option == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid option. Must be one of: %s", strings.Join(ValidPredictionOptions, ", "))
}

// ValidateWalletAddress checks the 0x-prefixed 20-byte hex form.
func ValidateWalletAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !walletAddressRegex.MatchString(address) {
		return fmt.Errorf("address must be a 0x-prefixed 40-character hex string")
	}
	return nil
}

// NormalizeWalletAddress lowercases an address for use as the user natural key.
func NormalizeWalletAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
