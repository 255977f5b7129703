/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"context"
	"fmt"
	"time"

	"chainguard.dev/coinbaseaf/coinbase/networks"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/sethvargo/go-envconfig"
)

// Config is assembled once at plugin construction and passed by reference.
// Handlers never consult settings ad hoc mid-flow.
type Config struct {
	// Wallet-service API credentials. The private key is the PEM-encoded EC
	// key issued alongside the key name.
	APIKeyName    string `env:"COINBASE_API_KEY"`
	APIPrivateKey string `env:"COINBASE_PRIVATE_KEY"`

	// Commerce API key, sent as X-CC-Api-Key.
	CommerceAPIKey string `env:"COINBASE_COMMERCE_KEY"`

	// Webhook notification endpoint.
	NotificationURI string `env:"COINBASE_NOTIFICATION_URI"`

	// Credentials of a wallet generated on a previous run, if any.
	GeneratedWalletID      string `env:"COINBASE_GENERATED_WALLET_ID"`
	GeneratedWalletHexSeed string `env:"COINBASE_GENERATED_WALLET_HEX_SEED"`

	// Fee splitting. FeeAddresses is assembled from FEE_ADDRESS_<NETWORK>
	// variables rather than a single value; see Load.
	FeeSplitEnabled bool              `env:"FEE_SPLIT_ENABLED"`
	FeeAddresses    map[string]string

	// Directory holding the append-only CSV audit logs.
	DataDir string `env:"COINBASE_DATA_DIR, default=."`

	// Transfer confirmation polling.
	TransferPollInterval time.Duration `env:"TRANSFER_POLL_INTERVAL, default=1s"`
	TransferTimeout      time.Duration `env:"TRANSFER_CONFIRM_TIMEOUT, default=20s"`

	// Parameter-extraction model selection and credentials.
	SmallModel      string `env:"EXTRACTOR_SMALL_MODEL"`
	LargeModel      string `env:"EXTRACTOR_LARGE_MODEL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
}

// Load processes the configuration through the given lookuper, falling back
// to the process environment when nil. Per-network fee destinations are
// collected from FEE_ADDRESS_<NETWORK> for every known network identifier
// and tradeable short name.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("processing configuration: %w", err)
	}

	cfg.FeeAddresses = feeAddresses(lookuper)
	return &cfg, nil
}

// feeAddresses collects configured fee destinations keyed by the network
// name used in requests.
func feeAddresses(lookuper envconfig.Lookuper) map[string]string {
	candidates := append(networks.Tradeable(), networks.All()...)

	out := make(map[string]string)
	for _, network := range candidates {
		if addr, ok := lookuper.Lookup("FEE_ADDRESS_" + networks.ConfigKey(network)); ok && addr != "" {
			out[network] = addr
		}
	}
	return out
}

// runtimeLookuper resolves settings through the agent runtime first and the
// process environment second, matching how the hosting runtime layers its
// character secrets over the environment.
type runtimeLookuper struct {
	rt runtime.Runtime
	os envconfig.Lookuper
}

// RuntimeLookuper returns a Lookuper backed by the given runtime's settings
// with environment fallback.
func RuntimeLookuper(rt runtime.Runtime) envconfig.Lookuper {
	return &runtimeLookuper{rt: rt, os: envconfig.OsLookuper()}
}

func (l *runtimeLookuper) Lookup(key string) (string, bool) {
	if v := l.rt.Setting(key); v != "" {
		return v, true
	}
	return l.os.Lookup(key)
}
