package config

// Config holds all w3dash configuration.
type Config struct {
	ChainID       int64               `json:"chain_id"`
	ActiveWallet  string              `json:"active_wallet"` // empty = disconnected
	TokenAddress  string              `json:"token_address"`
	IPFSGateway   string              `json:"ipfs_gateway"`
	Confirmations uint64              `json:"confirmations"`
	RPCAlgorithm  string              `json:"rpc_algorithm"` // "fastest" | "failover"
	CustomRPCs    map[string][]string `json:"custom_rpcs"`   // keyed by decimal chain ID
	ProviderKeys  map[string]string   `json:"provider_keys"` // e.g. "alchemy"

	// internal: config dir path used for Save()
	configDir string
}
