/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package plugins assembles the Coinbase plugin pack: it loads the
// configuration once, constructs the shared clients, and wires every plugin
// from them.
package plugins

import (
	"context"
	"fmt"
	"path/filepath"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/advanced"
	"chainguard.dev/coinbaseaf/coinbase/auth"
	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/coinbase/commerce"
	"chainguard.dev/coinbaseaf/coinbase/rest"
	"chainguard.dev/coinbaseaf/config"
	"chainguard.dev/coinbaseaf/payouts"
	"chainguard.dev/coinbaseaf/plugins/advancedtrade"
	commerceplugin "chainguard.dev/coinbaseaf/plugins/commerce"
	"chainguard.dev/coinbaseaf/plugins/masspay"
	"chainguard.dev/coinbaseaf/plugins/tokencontract"
	"chainguard.dev/coinbaseaf/plugins/trade"
	"chainguard.dev/coinbaseaf/plugins/webhooks"
	"chainguard.dev/coinbaseaf/runtime"
)

const meterName = "coinbaseaf"

// Wallet credential settings persisted back to the runtime when a wallet is
// generated on first use.
const (
	settingWalletID   = "COINBASE_GENERATED_WALLET_ID"
	settingWalletSeed = "COINBASE_GENERATED_WALLET_HEX_SEED"
)

// Pack holds the constructed plugins and the shared collaborators behind
// them.
type Pack struct {
	cfg     *config.Config
	plugins []runtime.Plugin
}

// New loads configuration through the runtime and assembles the full plugin
// pack.
func New(ctx context.Context, rt runtime.Runtime) (*Pack, error) {
	cfg, err := config.Load(ctx, config.RuntimeLookuper(rt))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	signer, err := auth.NewSigner(cfg.APIKeyName, cfg.APIPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("constructing request signer: %w", err)
	}

	extractor, err := extract.New(ctx, extract.Settings{
		SmallModel:      cfg.SmallModel,
		LargeModel:      cfg.LargeModel,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		GoogleAPIKey:    cfg.GoogleAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("constructing extractor: %w", err)
	}

	wallets := cdp.NewService(rest.NewClient(cdp.DefaultHost(), signer), &runtimeStore{rt: rt, cfg: cfg})
	brokerage := advanced.NewClient(signer)
	charges := commerce.NewClient(cfg.CommerceAPIKey)
	actionMetrics := metrics.NewActions(meterName)

	transactionSink := auditlog.NewSink(filepath.Join(cfg.DataDir, "transactions.csv"), payouts.AuditHeader)
	executor := payouts.NewExecutor(wallets, cfg.TransferPollInterval, cfg.TransferTimeout)
	splitter := payouts.FeeSplitter{Enabled: cfg.FeeSplitEnabled, Addresses: cfg.FeeAddresses}
	orchestrator := payouts.NewOrchestrator(wallets, executor, splitter, transactionSink)

	return &Pack{
		cfg: cfg,
		plugins: []runtime.Plugin{
			masspay.New(masspay.Deps{
				Extractor:    extractor,
				Wallets:      wallets,
				Orchestrator: orchestrator,
				Sink:         transactionSink,
				Metrics:      actionMetrics,
			}),
			trade.New(trade.Deps{
				Extractor: extractor,
				Wallets:   wallets,
				Executor:  executor,
				Splitter:  splitter,
				Sink:      auditlog.NewSink(filepath.Join(cfg.DataDir, "trades.csv"), trade.AuditHeader),
				Metrics:   actionMetrics,
				Poll:      cfg.TransferPollInterval,
				Timeout:   cfg.TransferTimeout,
			}),
			commerceplugin.New(commerceplugin.Deps{
				Extractor: extractor,
				Charges:   charges,
				Metrics:   actionMetrics,
			}),
			tokencontract.New(tokencontract.Deps{
				Extractor: extractor,
				Wallets:   wallets,
				Sink:      auditlog.NewSink(filepath.Join(cfg.DataDir, "contracts.csv"), tokencontract.AuditHeader),
				Metrics:   actionMetrics,
			}),
			webhooks.New(webhooks.Deps{
				Extractor:       extractor,
				Webhooks:        wallets,
				Sink:            auditlog.NewSink(filepath.Join(cfg.DataDir, "webhooks.csv"), webhooks.AuditHeader),
				Metrics:         actionMetrics,
				NotificationURI: cfg.NotificationURI,
			}),
			advancedtrade.New(advancedtrade.Deps{
				Extractor: extractor,
				Brokerage: brokerage,
				Sink:      auditlog.NewSink(filepath.Join(cfg.DataDir, "advanced_trades.csv"), advancedtrade.AuditHeader),
				Metrics:   actionMetrics,
			}),
		},
	}, nil
}

// All returns the individual plugins.
func (p *Pack) All() []runtime.Plugin { return p.plugins }

// Merged returns a single plugin carrying every action and provider.
func (p *Pack) Merged() runtime.Plugin {
	return runtime.Merge("coinbase", "Unified Coinbase plugin pack", p.plugins...)
}

// runtimeStore persists generated wallet credentials into the agent's
// runtime settings so subsequent runs reuse the same wallet.
type runtimeStore struct {
	rt  runtime.Runtime
	cfg *config.Config
}

func (s *runtimeStore) StoredWallet() (string, string) {
	return s.cfg.GeneratedWalletID, s.cfg.GeneratedWalletHexSeed
}

func (s *runtimeStore) Persist(id, seed string) error {
	s.rt.SetSetting(settingWalletID, id, true)
	s.rt.SetSetting(settingWalletSeed, seed, true)
	s.cfg.GeneratedWalletID = id
	s.cfg.GeneratedWalletHexSeed = seed
	return nil
}
