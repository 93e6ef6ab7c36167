package config

import (
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	DB struct {
		Path string `env:"DB_PATH" envDefault:"fatefi.db"`
	}

	Redis struct {
		// Empty addr disables the snapshot mirror entirely.
		Addr     string `env:"REDIS_ADDR" envDefault:""`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Auth struct {
		JWTSecret string `env:"JWT_SECRET" envDefault:"fatefi-dev-secret"`
	}

	PriceFeed struct {
		URL string `env:"PRICE_FEED_URL" envDefault:"https://api.coingecko.com/api/v3/simple/price?ids=ethereum&vs_currencies=usd"`
	}

	Oracle struct {
		URL   string `env:"OPENCLAW_URL" envDefault:"http://127.0.0.1:18789"`
		Token string `env:"OPENCLAW_TOKEN" envDefault:""`
	}

	Pool struct {
		// Contract left empty disables on-chain resolution.
		ContractAddress string `env:"POOL_CONTRACT_ADDRESS" envDefault:""`
		AdminKey        string `env:"POOL_ADMIN_KEY" envDefault:""`
		RPCURL          string `env:"BASE_RPC_URL" envDefault:"https://mainnet.base.org"`
	}
}

func Load() *Config {
	// Missing .env is fine: in production the variables are set directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
