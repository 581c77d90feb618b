package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/joho/godotenv"
)

const configFile = "config.json"

// Load reads config from dir (or creates defaults). dir defaults to ~/.w3dash.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".w3dash")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	cfg.fill()
	return cfg, nil
}

// LoadEnv loads KEY=value pairs from the given .env files into the process
// environment. Missing files are not an error; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("loading env: %w", err)
	}
	return nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// Connected reports whether a wallet is connected.
func (c *Config) Connected() bool {
	return c.ActiveWallet != ""
}

// AddRPC adds a custom RPC URL for a chain ID.
func (c *Config) AddRPC(chainID int64, url string) error {
	k := chainKey(chainID)
	if slices.Contains(c.CustomRPCs[k], url) {
		return fmt.Errorf("RPC %s already exists for chain %d", url, chainID)
	}
	c.CustomRPCs[k] = append(c.CustomRPCs[k], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a chain ID.
func (c *Config) RemoveRPC(chainID int64, url string) error {
	k := chainKey(chainID)
	rpcs := c.CustomRPCs[k]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for chain %d", url, chainID)
	}
	c.CustomRPCs[k] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a chain ID.
func (c *Config) GetRPCs(chainID int64) []string {
	return c.CustomRPCs[chainKey(chainID)]
}

// GetProviderKey returns the API key for a provider. For "alchemy" the
// ALCHEMY_API_KEY environment variable takes priority over the stored key.
func (c *Config) GetProviderKey(provider string) string {
	if provider == "alchemy" {
		if v := os.Getenv(AlchemyKeyEnv); v != "" {
			return v
		}
	}
	return c.ProviderKeys[provider]
}

// SetProviderKey stores the API key for a provider. An empty key removes it.
func (c *Config) SetProviderKey(provider, key string) {
	if key == "" {
		delete(c.ProviderKeys, provider)
		return
	}
	c.ProviderKeys[provider] = key
}

// --- helpers ---

func defaults(dir string) *Config {
	cfg := &Config{configDir: dir}
	cfg.fill()
	return cfg
}

// fill replaces zero values with defaults.
func (c *Config) fill() {
	if c.ChainID == 0 {
		c.ChainID = ChainIDBase
	}
	if c.TokenAddress == "" {
		c.TokenAddress = DefaultTokenAddress
	}
	if c.IPFSGateway == "" {
		c.IPFSGateway = DefaultIPFSGateway
	}
	if c.Confirmations == 0 {
		c.Confirmations = 1
	}
	if c.RPCAlgorithm == "" {
		c.RPCAlgorithm = DefaultAlgorithm
	}
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if c.ProviderKeys == nil {
		c.ProviderKeys = make(map[string]string)
	}
}

func chainKey(chainID int64) string {
	return strconv.FormatInt(chainID, 10)
}
