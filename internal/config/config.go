// internal/config/config.go
package config

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/fantan-dapp/fantan/internal/models"
)

// Config holds everything the client needs to reach the casino contract.
// Values come from the environment (a .env file is loaded by the godotenv
// autoload import in main).
type Config struct {
	RPCURL          string
	WSURL           string
	ContractAddress string
	PrivateKey      string
	ChainID         int64
	MinBet          *big.Int // wei
	MaxBet          *big.Int // wei
	LogLevel        string
}

// Load reads config from the environment:
//   - FANTAN_RPC_URL (default "http://localhost:8545")
//   - FANTAN_WS_URL (optional; defaults to FANTAN_RPC_URL)
//   - FANTAN_CONTRACT_ADDRESS (required)
//   - FANTAN_PRIVATE_KEY (required)
//   - FANTAN_CHAIN_ID (optional; 0 queries the node)
//   - FANTAN_MIN_BET / FANTAN_MAX_BET (ether, defaults "0.001" / "1")
//   - FANTAN_LOG_LEVEL (default "info")
func Load() (*Config, error) {
	cfg := &Config{
		RPCURL:          getEnv("FANTAN_RPC_URL", "http://localhost:8545"),
		ContractAddress: os.Getenv("FANTAN_CONTRACT_ADDRESS"),
		PrivateKey:      os.Getenv("FANTAN_PRIVATE_KEY"),
		ChainID:         getEnvInt64("FANTAN_CHAIN_ID", 0),
		LogLevel:        getEnv("FANTAN_LOG_LEVEL", "info"),
	}
	cfg.WSURL = getEnv("FANTAN_WS_URL", cfg.RPCURL)

	if cfg.ContractAddress == "" {
		return nil, fmt.Errorf("FANTAN_CONTRACT_ADDRESS is required")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("FANTAN_PRIVATE_KEY is required")
	}

	var err error
	if cfg.MinBet, err = parseBet("FANTAN_MIN_BET", "0.001"); err != nil {
		return nil, err
	}
	if cfg.MaxBet, err = parseBet("FANTAN_MAX_BET", "1"); err != nil {
		return nil, err
	}
	if cfg.MinBet.Cmp(cfg.MaxBet) > 0 {
		return nil, fmt.Errorf("FANTAN_MIN_BET exceeds FANTAN_MAX_BET")
	}
	return cfg, nil
}

func parseBet(key, def string) (*big.Int, error) {
	wei, err := models.ParseEther(getEnv(key, def))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return wei, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt64 is a helper to parse an environment variable as integer, else a default value.
func getEnvInt64(key string, def int64) int64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return v
}
