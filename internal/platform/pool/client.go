// Package pool sends the admin resolve() call to the on-chain staking pool
// after a day is resolved locally. Everything here is best-effort: the local
// resolution is authoritative and never waits on the chain.
package pool

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	dialTimeout     = 10 * time.Second
	resolveGasLimit = 200_000
)

const poolABIJSON = `[
	{"type":"function","name":"resolve","stateMutability":"nonpayable","inputs":[{"name":"winner","type":"uint8"}],"outputs":[]}
]`

// outcomeOptions maps a resolved market outcome to the contract's option index.
var outcomeOptions = map[string]uint8{
	"bullish": 0,
	"bearish": 1,
	"high":    2,
}

type Client struct {
	contractAddress string
	adminKey        string
	rpcURL          string
	poolABI         abi.ABI
}

func NewClient(contractAddress, adminKey, rpcURL string) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(poolABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse pool ABI: %w", err)
	}
	return &Client{
		contractAddress: contractAddress,
		adminKey:        adminKey,
		rpcURL:          rpcURL,
		poolABI:         parsed,
	}, nil
}

// Enabled reports whether the contract and admin key are configured.
func (c *Client) Enabled() bool {
	return c != nil && c.contractAddress != "" && c.adminKey != ""
}

// TriggerResolution submits resolve(winner) for the given outcome and returns
// the transaction hash. It does not wait for the receipt.
func (c *Client) TriggerResolution(ctx context.Context, outcome string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("pool contract not configured")
	}

	option, ok := outcomeOptions[outcome]
	if !ok {
		return "", fmt.Errorf("unknown outcome %q", outcome)
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	client, err := ethclient.DialContext(dialCtx, c.rpcURL)
	if err != nil {
		return "", fmt.Errorf("dial rpc: %w", err)
	}
	defer client.Close()

	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.adminKey, "0x"))
	if err != nil {
		return "", fmt.Errorf("parse admin key: %w", err)
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("chain id: %w", err)
	}

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("pending nonce: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("gas price: %w", err)
	}

	data, err := c.poolABI.Pack("resolve", option)
	if err != nil {
		return "", fmt.Errorf("pack resolve: %w", err)
	}

	contract := common.HexToAddress(c.contractAddress)
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Value:    big.NewInt(0),
		Gas:      resolveGasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}

	return signed.Hash().Hex(), nil
}
