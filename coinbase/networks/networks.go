/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package networks defines the network identifiers understood by the wallet
// service and the short names accepted in trade and payout requests.
package networks

import "strings"

// Full wallet-service network identifiers.
const (
	BaseSepolia     = "base-sepolia"
	BaseMainnet     = "base-mainnet"
	EthereumHolesky = "ethereum-holesky"
	EthereumMainnet = "ethereum-mainnet"
	PolygonMainnet  = "polygon-mainnet"
	SolanaDevnet    = "solana-devnet"
	SolanaMainnet   = "solana-mainnet"
	ArbitrumMainnet = "arbitrum-mainnet"
)

// All lists every supported wallet-service network identifier.
func All() []string {
	return []string{
		BaseSepolia,
		BaseMainnet,
		EthereumHolesky,
		EthereumMainnet,
		PolygonMainnet,
		SolanaDevnet,
		SolanaMainnet,
		ArbitrumMainnet,
	}
}

// Tradeable lists the short network names accepted by trade requests.
func Tradeable() []string {
	return []string{"base", "sol", "eth", "arb", "pol"}
}

// IsTradeable reports whether the short network name is accepted for trades.
func IsTradeable(network string) bool {
	for _, n := range Tradeable() {
		if strings.EqualFold(network, n) {
			return true
		}
	}
	return false
}

// Expand maps a tradeable short name to its full mainnet identifier.
// Unknown names pass through unchanged so full identifiers also work.
func Expand(network string) string {
	switch strings.ToLower(network) {
	case "base":
		return BaseMainnet
	case "sol":
		return SolanaMainnet
	case "eth":
		return EthereumMainnet
	case "arb":
		return ArbitrumMainnet
	case "pol":
		return PolygonMainnet
	}
	return network
}

// IsSolana reports whether the network uses Solana addresses. Every other
// supported network is EVM-based and uses hex addresses.
func IsSolana(network string) bool {
	n := strings.ToLower(network)
	return n == "sol" || strings.HasPrefix(n, "solana")
}

// ConfigKey renders a network identifier as an environment-variable suffix,
// e.g. "base-mainnet" becomes "BASE_MAINNET".
func ConfigKey(network string) string {
	return strings.ToUpper(strings.ReplaceAll(network, "-", "_"))
}
