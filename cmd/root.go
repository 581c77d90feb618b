package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/logging"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3dash/cmd.Version=1.2.3" .
var Version = "0.1.0"

// ConfigDirEnv overrides the --config default.
const ConfigDirEnv = "W3DASH_CONFIG_DIR"

var (
	cfgDir  string
	cfg     *config.Config
	log     = zap.NewNop()
	verbose bool
	testnet bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3dash",
	Short: "Token and NFT dashboard for Base",
	Long: `w3dash connects a wallet to Base, shows its ETH, token and NFT
balances, and submits transfers with live confirmation tracking.

The active network is persisted with "w3dash network use". Global flags
--testnet and --mainnet switch to the counterpart network for one call.

A .env file in the working directory is loaded on start; ALCHEMY_API_KEY
selects the Alchemy endpoint for Base mainnet.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		log = l

		if err := config.LoadEnv(); err != nil {
			log.Warn("ignoring .env", zap.Error(err))
		}
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		log.Debug("config loaded", zap.String("dir", cfg.Dir()), zap.Int64("chain_id", cfg.ChainID))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Banner())
		return cmd.Help()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errLine(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	if envDir := os.Getenv(ConfigDirEnv); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.w3dash)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use the test network for this call")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use the production network for this call")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		walletCmd,
		networkCmd,
		balanceCmd,
		tokenCmd,
		sendCmd,
		nftCmd,
		configCmd,
	)
}
