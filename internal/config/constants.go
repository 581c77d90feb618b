package config

import "time"

// Gas limits used when the node cannot estimate the transaction.
const (
	GasLimitETHTransfer   = uint64(21_000)  // native ETH transfer
	GasLimitERC20Transfer = uint64(60_000)  // ERC-20 transfer, approve or burn
	GasLimitERC20Mint     = uint64(80_000)  // ERC-20 mint
	GasLimitNFTTransfer   = uint64(120_000) // ERC-721 safeTransferFrom
)

// Timeouts.
const (
	RPCSelectTimeout = 10 * time.Second // endpoint benchmark / selection
	TxConfirmTimeout = 3 * time.Minute  // transaction confirmation wait
	ReceiptPollEvery = 2 * time.Second  // receipt polling cadence
	MetadataTimeout  = 15 * time.Second // single NFT metadata fetch
)

// Chain IDs of the two supported networks.
const (
	ChainIDBase        = int64(8453)
	ChainIDBaseSepolia = int64(84532)
)

// Defaults.
const (
	DefaultTokenAddress = "0x749734bd9c1760ca0aeC8962ac4e184496e1BC25"
	DefaultIPFSGateway  = "https://ipfs.io/ipfs/"
	DefaultAlgorithm    = "failover"

	// MaxNFTs caps how many owned tokens one enumeration walks.
	MaxNFTs = 20
)

// AlchemyKeyEnv is the environment variable holding the Alchemy API key used
// to build the production endpoint.
const AlchemyKeyEnv = "ALCHEMY_API_KEY"
