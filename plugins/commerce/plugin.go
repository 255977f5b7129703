/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package commerce exposes charge management against the Coinbase Commerce
// API: creating payment charges and reading them back.
package commerce

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/coinbase/commerce"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
)

const pluginName = "coinbaseCommerce"

// ChargeService is the slice of the Commerce API the plugin needs;
// satisfied by commerce.Client.
type ChargeService interface {
	CreateCharge(ctx context.Context, req commerce.ChargeRequest) (*commerce.Charge, error)
	GetCharge(ctx context.Context, chargeID string) (*commerce.Charge, error)
	ListCharges(ctx context.Context) ([]commerce.Charge, error)
}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor extract.Extractor
	Charges   ChargeService
	Metrics   *metrics.Actions
}

// ChargeArgs are the parameters extracted from the conversation.
type ChargeArgs struct {
	Price       float64 `json:"price" jsonschema:"required,description=The price of the charge"`
	Currency    string  `json:"currency" jsonschema:"required,description=The currency code, such as USD or EUR"`
	Type        string  `json:"type" jsonschema:"required,description=The pricing type: fixed_price or no_price"`
	Name        string  `json:"name" jsonschema:"required,description=The name of the charge"`
	Description string  `json:"description" jsonschema:"required,description=A description of what the charge is for"`
}

// ChargeIDArgs identify one existing charge.
type ChargeIDArgs struct {
	ChargeID string `json:"charge_id" jsonschema:"required,description=The identifier of the charge to look up"`
}

var (
	chargeTemplate = promptbuilder.MustNewPrompt(`Extract the charge parameters from the conversation below. The user wants to create a Coinbase Commerce payment charge.

Recent conversation:
{{recent_messages}}`)

	chargeIDTemplate = promptbuilder.MustNewPrompt(`Extract the charge identifier from the conversation below. The user wants the details of one Coinbase Commerce charge.

Recent conversation:
{{recent_messages}}`)
)

// New assembles the Commerce plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Integration with Coinbase Commerce for creating and managing charges.",
		Actions: []runtime.Action{
			createChargeAction(d),
			listChargesAction(d),
			chargeDetailsAction(d),
		},
		Providers: []runtime.Provider{provider(d)},
	}
}

func validateCommerceKey(_ context.Context, rt runtime.Runtime, _ runtime.Message) (bool, error) {
	return rt.Setting("COINBASE_COMMERCE_KEY") != "", nil
}

func createChargeAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "CREATE_CHARGE",
		Similes:     []string{"MAKE_CHARGE", "INITIATE_CHARGE", "GENERATE_CHARGE"},
		Description: "Create a charge using Coinbase Commerce.",
		Validate:    validateCommerceKey,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "CREATE_CHARGE", err) }()

			if state == nil {
				if state, err = rt.ComposeState(ctx, msg); err != nil {
					return fmt.Errorf("composing state: %w", err)
				}
			}
			prompt, err := chargeTemplate.BindText("recent_messages", state.RecentMessages)
			if err != nil {
				return fmt.Errorf("binding conversation: %w", err)
			}
			args, err := extract.Object[ChargeArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
			if err != nil {
				cb(runtime.Reply{Text: "I couldn't work out the charge details. Please specify the name, description, price, and currency."})
				return fmt.Errorf("extracting charge parameters: %w", err)
			}
			if args.Type != commerce.PricingFixed && args.Type != commerce.PricingNoPrice {
				args.Type = commerce.PricingFixed
			}

			charge, err := d.Charges.CreateCharge(ctx, commerce.ChargeRequest{
				Name:        args.Name,
				Description: args.Description,
				PricingType: args.Type,
				LocalPrice: commerce.Price{
					Amount:   strconv.FormatFloat(args.Price, 'f', -1, 64),
					Currency: args.Currency,
				},
			})
			if err != nil {
				cb(runtime.Reply{Text: "The charge could not be created. Please check the Commerce API key and try again."})
				return fmt.Errorf("creating charge: %w", err)
			}

			clog.FromContext(ctx).With("charge", charge.ID).Infof("charge created")
			cb(runtime.Reply{Text: fmt.Sprintf("Charge created successfully: %s for %s %s. Payment URL: %s",
				charge.Name, charge.LocalPrice.Amount, charge.LocalPrice.Currency, charge.HostedURL)})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Create a charge for $100 USD for Premium Membership."},
			{User: "agent", Text: "Charge created successfully: Premium Membership for 100 USD.", Action: "CREATE_CHARGE"},
		}},
	}
}

func listChargesAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "GET_ALL_CHARGES",
		Similes:     []string{"FETCH_ALL_CHARGES", "RETRIEVE_ALL_CHARGES", "LIST_CHARGES"},
		Description: "Fetch all charges using Coinbase Commerce.",
		Validate:    validateCommerceKey,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "GET_ALL_CHARGES", err) }()

			charges, err := d.Charges.ListCharges(ctx)
			if err != nil {
				cb(runtime.Reply{Text: "The charges could not be fetched. Please check the Commerce API key and try again."})
				return fmt.Errorf("listing charges: %w", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Successfully fetched %d charges:\n", len(charges))
			for _, c := range charges {
				fmt.Fprintf(&b, "- %s (%s): %s %s\n", c.Name, c.ID, c.LocalPrice.Amount, c.LocalPrice.Currency)
			}
			cb(runtime.Reply{Text: b.String()})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Fetch all charges."},
			{User: "agent", Text: "Successfully fetched all charges.", Action: "GET_ALL_CHARGES"},
		}},
	}
}

func chargeDetailsAction(d Deps) runtime.Action {
	return runtime.Action{
		Name:        "GET_CHARGE_DETAILS",
		Similes:     []string{"FETCH_CHARGE_DETAILS", "RETRIEVE_CHARGE_DETAILS", "GET_CHARGE"},
		Description: "Fetch details of a specific charge using Coinbase Commerce.",
		Validate:    validateCommerceKey,
		Handler: func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
			defer func() { d.Metrics.RecordInvocation(ctx, pluginName, "GET_CHARGE_DETAILS", err) }()

			if state == nil {
				if state, err = rt.ComposeState(ctx, msg); err != nil {
					return fmt.Errorf("composing state: %w", err)
				}
			}
			prompt, err := chargeIDTemplate.BindText("recent_messages", state.RecentMessages)
			if err != nil {
				return fmt.Errorf("binding conversation: %w", err)
			}
			args, err := extract.Object[ChargeIDArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
			if err != nil || args.ChargeID == "" {
				cb(runtime.Reply{Text: "I couldn't work out which charge you mean. Please provide the charge ID."})
				return fmt.Errorf("extracting charge id: %w", err)
			}

			charge, err := d.Charges.GetCharge(ctx, args.ChargeID)
			if err != nil {
				cb(runtime.Reply{Text: fmt.Sprintf("The details for charge %s could not be fetched.", args.ChargeID)})
				return fmt.Errorf("fetching charge %s: %w", args.ChargeID, err)
			}

			cb(runtime.Reply{Text: fmt.Sprintf("Charge details:\n- Name: %s\n- Description: %s\n- Price: %s %s\n- Payment URL: %s",
				charge.Name, charge.Description, charge.LocalPrice.Amount, charge.LocalPrice.Currency, charge.HostedURL)})
			return nil
		},
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Fetch details of charge ID: 123456."},
			{User: "agent", Text: "Successfully fetched charge details.", Action: "GET_CHARGE_DETAILS"},
		}},
	}
}

// provider surfaces the current charge list so the runtime can answer
// questions about existing charges without a fresh action.
func provider(d Deps) runtime.Provider {
	return runtime.Provider{
		Name: "chargeProvider",
		Get: func(ctx context.Context, _ runtime.Runtime, _ runtime.Message) (string, error) {
			charges, err := d.Charges.ListCharges(ctx)
			if err != nil {
				return "", fmt.Errorf("listing charges: %w", err)
			}
			if len(charges) == 0 {
				return "No charges found.", nil
			}
			var b strings.Builder
			b.WriteString("Current charges:\n")
			for _, c := range charges {
				fmt.Fprintf(&b, "- %s (%s): %s %s\n", c.Name, c.ID, c.LocalPrice.Amount, c.LocalPrice.Currency)
			}
			return b.String(), nil
		},
	}
}
