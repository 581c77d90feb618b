package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3dash/internal/chain"
	"github.com/Mohsinsiddi/w3dash/internal/config"
	"github.com/Mohsinsiddi/w3dash/internal/contract"
	"github.com/Mohsinsiddi/w3dash/internal/nft"
	"github.com/Mohsinsiddi/w3dash/internal/providers"
	"github.com/Mohsinsiddi/w3dash/internal/rpc"
	"github.com/Mohsinsiddi/w3dash/internal/transfer"
	"github.com/Mohsinsiddi/w3dash/internal/ui"
	"github.com/Mohsinsiddi/w3dash/internal/wallet"
)

var errNotConnected = errors.New("no wallet connected")

// newWalletManager opens the wallet store and OS keychain under the config
// dir. Tests swap it for an in-memory manager.
var newWalletManager = func() (*wallet.Manager, error) {
	ks, err := wallet.OpenKeystore(cfg.Dir())
	if err != nil {
		return nil, err
	}
	store := wallet.NewJSONStore(filepath.Join(cfg.Dir(), "wallets.json"))
	return wallet.NewManager(wallet.WithStore(store), wallet.WithKeyStore(ks)), nil
}

// dialNetwork connects to the best endpoint for n. Tests swap it for an
// httptest-backed client.
var dialNetwork = func(ctx context.Context, n *chain.Network) (*chain.EVMClient, error) {
	ctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	return rpc.Connect(ctx, providers.Build(n, cfg), rpc.ParseAlgorithm(cfg.RPCAlgorithm), config.RPCSelectTimeout, log)
}

// activeNetwork returns the configured network, switched to its
// counterpart when --testnet or --mainnet asks for the other one.
func activeNetwork() (*chain.Network, error) {
	reg := chain.NewRegistry()
	n, err := reg.GetByChainID(cfg.ChainID)
	if err != nil {
		return nil, fmt.Errorf("configured chain %d: %w", cfg.ChainID, err)
	}
	if (testnet && !n.Testnet) || (mainnet && n.Testnet) {
		if c := reg.Counterpart(n); c != nil {
			n = c
		}
	}
	return n, nil
}

// session is one command's view of the network and connected wallet.
type session struct {
	net    *chain.Network
	client *chain.EVMClient
	mgr    *wallet.Manager
	wallet *wallet.Wallet // nil when no wallet is needed
}

// openSession dials the active network. When needWallet is set the
// wallet named by override, or the connected wallet, is loaded.
func openSession(cmd *cobra.Command, override string, needWallet bool) (*session, error) {
	n, err := activeNetwork()
	if err != nil {
		return nil, err
	}
	s := &session{net: n}

	if needWallet {
		if s.mgr, err = newWalletManager(); err != nil {
			return nil, err
		}
		if s.wallet, err = connectedWallet(s.mgr, override); err != nil {
			return nil, err
		}
	}

	err = ui.Spin(cmd.ErrOrStderr(), "Connecting to "+n.DisplayName+"...", func() error {
		s.client, err = dialNetwork(cmd.Context(), n)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", n.DisplayName, err)
	}
	log.Debug("connected")
	return s, nil
}

func (s *session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// account is the connected wallet's address.
func (s *session) account() common.Address { return s.wallet.Account() }

// signingAdapter binds the client to the wallet's key.
func (s *session) signingAdapter() (chain.Adapter, error) {
	signer, err := s.mgr.Signer(s.wallet.Name)
	if err != nil {
		return nil, err
	}
	return chain.NewSigningClient(s.client, signer, cfg.Confirmations), nil
}

func connectedWallet(mgr *wallet.Manager, override string) (*wallet.Wallet, error) {
	name := override
	if name == "" {
		name = cfg.ActiveWallet
	}
	if name == "" {
		return nil, errNotConnected
	}
	return mgr.Get(name)
}

// resolveAddress accepts a 0x address or a wallet name.
func resolveAddress(mgr *wallet.Manager, s string) (common.Address, error) {
	if addr, err := transfer.ParseAddress(s); err == nil {
		return addr, nil
	}
	w, err := mgr.Get(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%q is neither an address nor a wallet: %w", s, err)
	}
	return w.Account(), nil
}

func tokenAddress() (common.Address, error) {
	addr, err := transfer.ParseAddress(cfg.TokenAddress)
	if err != nil {
		return common.Address{}, fmt.Errorf("configured token: %w", err)
	}
	return addr, nil
}

// tokenAsset reads the configured token's decimals and symbol.
func tokenAsset(ctx context.Context, r chain.Reader, kind transfer.Kind) (transfer.Asset, error) {
	addr, err := tokenAddress()
	if err != nil {
		return transfer.Asset{}, err
	}
	tok := contract.NewToken(r, addr)
	dec, err := tok.Decimals(ctx)
	if err != nil {
		return transfer.Asset{}, err
	}
	sym, err := tok.Symbol(ctx)
	if err != nil {
		return transfer.Asset{}, err
	}
	return transfer.TokenAsset(kind, addr, dec, sym), nil
}

// errLine renders a command error with a follow-up hint where one helps.
func errLine(err error) string {
	msg := ui.Err(err.Error())
	var hint string
	switch {
	case errors.Is(err, errNotConnected):
		hint = "Connect one with: w3dash wallet connect <name>"
	case errors.Is(err, wallet.ErrWalletNotFound):
		hint = "List wallets with: w3dash wallet list"
	case errors.Is(err, wallet.ErrWatchOnly):
		hint = "Add a signing wallet with: w3dash wallet add <name> --key <hex>"
	case errors.Is(err, rpc.ErrNoHealthyRPC):
		hint = "Add an endpoint with: w3dash config add-rpc <url>"
	case errors.Is(err, nft.ErrNotEnumerable):
		hint = "The contract must implement ERC721Enumerable and tokenURI."
	case errors.Is(err, chain.ErrConfirmTimeout):
		hint = "The transaction may still confirm; check the explorer link above."
	}
	if hint == "" {
		return msg
	}
	return msg + "\n" + ui.Hint(hint)
}
