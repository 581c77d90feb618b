package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// WalletSnapshot is one refresh of the wallet info view.
type WalletSnapshot struct {
	Network  string
	ChainID  int64
	Wallet   string
	Address  string
	Block    uint64
	GasGwei  string
	Nonce    uint64
	Balance  string
	Symbol   string
	Explorer string
}

// RenderWalletInfo renders a snapshot as a key-value block.
func RenderWalletInfo(s WalletSnapshot) string {
	return KeyValueBlock("Wallet · "+s.Wallet, [][2]string{
		{"Address", s.Address},
		{"Network", fmt.Sprintf("%s (%d)", s.Network, s.ChainID)},
		{"Block", fmt.Sprintf("%d", s.Block)},
		{"Gas price", s.GasGwei + " gwei"},
		{"Nonce", fmt.Sprintf("%d", s.Nonce)},
		{"Balance", s.Balance + " " + s.Symbol},
		{"Explorer", s.Explorer},
	})
}

// SnapshotFunc fetches a fresh snapshot.
type SnapshotFunc func(ctx context.Context) (WalletSnapshot, error)

type dashboardModel struct {
	ctx        context.Context
	snap       *WalletSnapshot
	lastUpdate time.Time
	interval   time.Duration
	quitting   bool
	fetch      SnapshotFunc
	err        string
}

type tickMsg time.Time
type snapshotMsg WalletSnapshot
type snapshotErrMsg string

func newDashboard(ctx context.Context, interval time.Duration, fetch SnapshotFunc) dashboardModel {
	return dashboardModel{ctx: ctx, interval: interval, fetch: fetch}
}

// RunDashboard shows the live wallet view, refreshing every interval until
// the user quits or ctx is done.
func RunDashboard(ctx context.Context, interval time.Duration, fetch SnapshotFunc) error {
	p := tea.NewProgram(newDashboard(ctx, interval, fetch), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(m.interval))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tick(m.interval))

	case snapshotMsg:
		s := WalletSnapshot(msg)
		m.snap = &s
		m.lastUpdate = time.Now()
		m.err = ""

	case snapshotErrMsg:
		m.err = string(msg)
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("⚡ Live Wallet") + "\n")
	if !m.lastUpdate.IsZero() {
		sb.WriteString(Meta(fmt.Sprintf("Updated %s · q to quit", m.lastUpdate.Format("15:04:05"))) + "\n\n")
	}
	if m.err != "" {
		sb.WriteString(Err(m.err) + "\n")
	}
	if m.snap == nil {
		sb.WriteString(Meta("Loading...") + "\n")
	} else {
		sb.WriteString(RenderWalletInfo(*m.snap) + "\n")
	}
	return sb.String()
}

func (m dashboardModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.fetch(m.ctx)
		if err != nil {
			return snapshotErrMsg(err.Error())
		}
		return snapshotMsg(s)
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
