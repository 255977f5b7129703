/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package cdp is the custodial wallet client. The Service interface is what
the plugins program against: resolve-or-create wallet, balances, transfers,
trades, contract deployment and invocation, and webhook registration. The
HTTP implementation maps each method onto one platform API endpoint.

Wallets are created lazily: the first operation for an agent creates a
wallet on the requested network and persists its credentials through a
CredentialStore, so subsequent runs resolve the same wallet.
*/
package cdp
