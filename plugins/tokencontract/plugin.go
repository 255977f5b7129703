/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package tokencontract exposes contract lifecycle actions: deploying ERC20
// and ERC721 contracts from the agent wallet, invoking state-changing
// methods, and reading view methods.
package tokencontract

import (
	"context"
	"encoding/json"
	"fmt"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
	"github.com/shopspring/decimal"
)

const pluginName = "coinbaseTokenContract"

// AuditHeader is the column layout of the contract audit log.
var AuditHeader = []string{"Contract Type", "Name", "Symbol", "Network", "Contract Address", "Transaction URL", "Base URI", "Total Supply"}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor extract.Extractor
	Wallets   cdp.Service
	Sink      *auditlog.Sink
	Metrics   *metrics.Actions
}

// DeployArgs are the contract-deployment parameters extracted from the
// conversation.
type DeployArgs struct {
	ContractType string  `json:"contractType" jsonschema:"required,description=The contract standard to deploy: ERC20 or ERC721"`
	Name         string  `json:"name" jsonschema:"required,description=The token or collection name"`
	Symbol       string  `json:"symbol" jsonschema:"required,description=The token or collection symbol"`
	Network      string  `json:"network" jsonschema:"required,description=The network to deploy on, such as base-sepolia"`
	BaseURI      string  `json:"baseURI,omitempty" jsonschema:"description=The metadata base URI for ERC721 collections"`
	TotalSupply  float64 `json:"totalSupply,omitempty" jsonschema:"description=The total supply for ERC20 tokens"`
}

// InvokeArgs are the contract-invocation parameters extracted from the
// conversation.
type InvokeArgs struct {
	ContractAddress string         `json:"contractAddress" jsonschema:"required,description=The address of the contract to invoke"`
	Method          string         `json:"method" jsonschema:"required,description=The method name to invoke"`
	Network         string         `json:"network" jsonschema:"required,description=The network the contract lives on"`
	Args            map[string]any `json:"args,omitempty" jsonschema:"description=The method arguments keyed by parameter name"`
	Amount          float64        `json:"amount,omitempty" jsonschema:"description=The amount of the asset to send with the invocation"`
	AssetID         string         `json:"assetId,omitempty" jsonschema:"description=The asset to send with the invocation"`
}

// ReadArgs are the contract-read parameters extracted from the conversation.
type ReadArgs struct {
	ContractAddress string         `json:"contractAddress" jsonschema:"required,description=The address of the contract to read"`
	Method          string         `json:"method" jsonschema:"required,description=The view method name to call"`
	Network         string         `json:"network" jsonschema:"required,description=The network the contract lives on"`
	Args            map[string]any `json:"args,omitempty" jsonschema:"description=The method arguments keyed by parameter name"`
}

var (
	deployTemplate = promptbuilder.MustNewPrompt(`Extract the contract deployment parameters from the conversation below. The user wants to deploy a token contract from their wallet.

Recent conversation:
{{recent_messages}}`)

	invokeTemplate = promptbuilder.MustNewPrompt(`Extract the contract invocation parameters from the conversation below. The user wants to call a state-changing method on a deployed contract.

Recent conversation:
{{recent_messages}}`)

	readTemplate = promptbuilder.MustNewPrompt(`Extract the contract read parameters from the conversation below. The user wants to call a view method on a deployed contract.

Recent conversation:
{{recent_messages}}`)
)

// New assembles the token-contract plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Deploy, invoke, and read token contracts from the agent wallet.",
		Actions: []runtime.Action{
			deployAction(d),
			invokeAction(d),
			readAction(d),
		},
	}
}

func validateCredentials(_ context.Context, rt runtime.Runtime, _ runtime.Message) (bool, error) {
	return rt.Setting("COINBASE_API_KEY") != "" && rt.Setting("COINBASE_PRIVATE_KEY") != "", nil
}

func deployAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "DEPLOY_TOKEN_CONTRACT",
		Similes:     []string{"DEPLOY_CONTRACT", "CREATE_TOKEN", "MINT_TOKEN", "CREATE_NFT_COLLECTION"},
		Description: "Deploy an ERC20 or ERC721 token contract using the agent wallet.",
		Validate:    validateCredentials,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "DEPLOY_TOKEN_CONTRACT", err) }()
			log := clog.FromContext(ctx).With("plugin", pluginName)

			if state == nil {
				if state, err = rt.ComposeState(ctx, msg); err != nil {
					return fmt.Errorf("composing state: %w", err)
				}
			}
			prompt, err := deployTemplate.BindText("recent_messages", state.RecentMessages)
			if err != nil {
				return fmt.Errorf("binding conversation: %w", err)
			}
			args, err := extract.Object[DeployArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
			if err != nil {
				cb(runtime.Reply{Text: "I couldn't work out the deployment details. Please specify the contract type, name, symbol, and network."})
				return fmt.Errorf("extracting deployment parameters: %w", err)
			}

			wallet, err := d.Wallets.ResolveOrCreateWallet(ctx, args.Network)
			if err != nil {
				cb(runtime.Reply{Text: "The deployment could not start: the wallet is unavailable."})
				return fmt.Errorf("resolving wallet: %w", err)
			}

			var contract *cdp.SmartContract
			switch normalizeContractType(args.ContractType) {
			case "erc20":
				contract, err = d.Wallets.DeployToken(ctx, wallet, cdp.TokenDeployment{
					Name:        args.Name,
					Symbol:      args.Symbol,
					TotalSupply: decimal.NewFromFloat(args.TotalSupply),
				})
			case "erc721":
				contract, err = d.Wallets.DeployNFT(ctx, wallet, cdp.NFTDeployment{
					Name:    args.Name,
					Symbol:  args.Symbol,
					BaseURI: args.BaseURI,
				})
			default:
				cb(runtime.Reply{Text: fmt.Sprintf("Contract type %q is not supported. Supported types: ERC20, ERC721.", args.ContractType)})
				return fmt.Errorf("unsupported contract type %q", args.ContractType)
			}
			if err != nil {
				cb(runtime.Reply{Text: fmt.Sprintf("Deploying the %s contract %s failed.", args.ContractType, args.Name)})
				return fmt.Errorf("deploying %s contract: %w", args.ContractType, err)
			}

			if appendErr := d.Sink.Append(ctx, []string{
				normalizeContractType(args.ContractType), args.Name, args.Symbol, args.Network,
				contract.ContractAddress, contract.TransactionLink, args.BaseURI,
				decimal.NewFromFloat(args.TotalSupply).String(),
			}); appendErr != nil {
				log.Errorf("recording deployment: %v", appendErr)
			}

			cb(runtime.Reply{Text: fmt.Sprintf("Token contract deployed successfully:\n- Type: %s\n- Name: %s\n- Symbol: %s\n- Network: %s\n- Contract address: %s\n- Transaction: %s",
				args.ContractType, args.Name, args.Symbol, args.Network, contract.ContractAddress, contract.TransactionLink)})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Deploy an ERC20 token named MyToken with symbol MTK and a total supply of 1000000 on base-sepolia."},
			{User: "agent", Text: "Token contract deployed successfully.", Action: "DEPLOY_TOKEN_CONTRACT"},
		}},
	}
}

func invokeAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "INVOKE_CONTRACT",
		Similes:     []string{"CALL_CONTRACT", "EXECUTE_CONTRACT", "INTERACT_WITH_CONTRACT"},
		Description: "Invoke a method on a deployed smart contract using the agent wallet.",
		Validate:    validateCredentials,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "INVOKE_CONTRACT", err) }()

			if state == nil {
				if state, err = rt.ComposeState(ctx, msg); err != nil {
					return fmt.Errorf("composing state: %w", err)
				}
			}
			prompt, err := invokeTemplate.BindText("recent_messages", state.RecentMessages)
			if err != nil {
				return fmt.Errorf("binding conversation: %w", err)
			}
			args, err := extract.Object[InvokeArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
			if err != nil {
				cb(runtime.Reply{Text: "I couldn't work out the invocation details. Please specify the contract address, method, and network."})
				return fmt.Errorf("extracting invocation parameters: %w", err)
			}

			wallet, err := d.Wallets.ResolveOrCreateWallet(ctx, args.Network)
			if err != nil {
				cb(runtime.Reply{Text: "The invocation could not start: the wallet is unavailable."})
				return fmt.Errorf("resolving wallet: %w", err)
			}

			invocation, err := d.Wallets.InvokeContract(ctx, wallet, cdp.ContractInvocation{
				ContractAddress: args.ContractAddress,
				Method:          args.Method,
				ABI:             erc20ABI,
				Args:            args.Args,
				Amount:          decimal.NewFromFloat(args.Amount),
				AssetID:         args.AssetID,
			})
			if err != nil {
				cb(runtime.Reply{Text: fmt.Sprintf("Invoking %s on %s failed.", args.Method, args.ContractAddress)})
				return fmt.Errorf("invoking %s on %s: %w", args.Method, args.ContractAddress, err)
			}

			cb(runtime.Reply{Text: fmt.Sprintf("Contract method %s invoked on %s.\n- Status: %s\n- Transaction: %s",
				args.Method, args.ContractAddress, invocation.Status, invocation.TransactionLink)})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Invoke the transfer method on contract 0x123 to send 100 tokens to 0x456 on base-sepolia."},
			{User: "agent", Text: "Contract method invoked successfully.", Action: "INVOKE_CONTRACT"},
		}},
	}
}

func readAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "READ_CONTRACT",
		Similes:     []string{"QUERY_CONTRACT", "GET_CONTRACT_DATA", "VIEW_CONTRACT"},
		Description: "Read data from a deployed smart contract without spending gas.",
		Validate:    validateCredentials,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "READ_CONTRACT", err) }()

			if state == nil {
				if state, err = rt.ComposeState(ctx, msg); err != nil {
					return fmt.Errorf("composing state: %w", err)
				}
			}
			prompt, err := readTemplate.BindText("recent_messages", state.RecentMessages)
			if err != nil {
				return fmt.Errorf("binding conversation: %w", err)
			}
			args, err := extract.Object[ReadArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
			if err != nil {
				cb(runtime.Reply{Text: "I couldn't work out the read details. Please specify the contract address, method, and network."})
				return fmt.Errorf("extracting read parameters: %w", err)
			}

			value, err := d.Wallets.ReadContract(ctx, cdp.ReadContractRequest{
				NetworkID:       args.Network,
				ContractAddress: args.ContractAddress,
				Method:          args.Method,
				ABI:             erc20ABI,
				Args:            args.Args,
			})
			if err != nil {
				cb(runtime.Reply{Text: fmt.Sprintf("Reading %s from %s failed.", args.Method, args.ContractAddress)})
				return fmt.Errorf("reading %s from %s: %w", args.Method, args.ContractAddress, err)
			}

			rendered, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("rendering contract result: %w", err)
			}
			cb(runtime.Reply{Text: fmt.Sprintf("Contract read result for %s on %s: %s", args.Method, args.ContractAddress, rendered)})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Read the balanceOf 0x456 from contract 0x123 on base-sepolia."},
			{User: "agent", Text: "Contract read result returned.", Action: "READ_CONTRACT"},
		}},
	}
}

// normalizeContractType folds user-facing spellings like "ERC-20" onto the
// wallet service's identifiers.
func normalizeContractType(t string) string {
	switch t {
	case "erc20", "ERC20", "ERC-20", "erc-20":
		return "erc20"
	case "erc721", "ERC721", "ERC-721", "erc-721":
		return "erc721"
	}
	return t
}
