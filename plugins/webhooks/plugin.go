/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package webhooks exposes on-chain event subscriptions: registering webhook
// notifications for transfers and wallet activity, with an audit trail of
// every registration.
package webhooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/agents/promptbuilder"
	"chainguard.dev/coinbaseaf/auditlog"
	"chainguard.dev/coinbaseaf/coinbase/cdp"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/chainguard-dev/clog"
)

const (
	pluginName = "coinbaseWebhooks"
	actionName = "CREATE_WEBHOOK"
)

// AuditHeader is the column layout of the webhook audit log. Event filters
// are JSON-encoded into a single column.
var AuditHeader = []string{"Webhook ID", "Network ID", "Event Type", "Event Filters", "Notification URI"}

// WebhookService is the slice of the wallet service the plugin needs.
type WebhookService interface {
	CreateWebhook(ctx context.Context, req cdp.WebhookRequest) (*cdp.Webhook, error)
	ListWebhooks(ctx context.Context) ([]cdp.Webhook, error)
}

// Deps are the collaborators the plugin needs, wired once at construction.
type Deps struct {
	Extractor extract.Extractor
	Webhooks  WebhookService
	Sink      *auditlog.Sink
	Metrics   *metrics.Actions

	// NotificationURI receives the webhook deliveries. Registration fails
	// without one.
	NotificationURI string
}

// WebhookArgs are the parameters extracted from the conversation.
type WebhookArgs struct {
	Network         string `json:"networkId" jsonschema:"required,description=The network to watch, such as base-mainnet"`
	EventType       string `json:"eventType" jsonschema:"required,description=The event type: erc20_transfer, erc721_transfer, or wallet_activity"`
	ContractAddress string `json:"contractAddress,omitempty" jsonschema:"description=Restrict delivery to events from this contract"`
	FromAddress     string `json:"fromAddress,omitempty" jsonschema:"description=Restrict delivery to transfers from this address"`
	ToAddress       string `json:"toAddress,omitempty" jsonschema:"description=Restrict delivery to transfers to this address"`
}

var webhookTemplate = promptbuilder.MustNewPrompt(`Extract the webhook parameters from the conversation below. The user wants to be notified about on-chain events.

Recent conversation:
{{recent_messages}}`)

// New assembles the webhooks plugin.
func New(d Deps) runtime.Plugin {
	return runtime.Plugin{
		Name:        pluginName,
		Description: "Register webhooks for on-chain events using the Coinbase SDK.",
		Actions:     []runtime.Action{action(d)},
		Providers:   []runtime.Provider{provider(d)},
	}
}

func action(d Deps) runtime.Action {
	return runtime.Action{
		Name:        actionName,
		Similes:     []string{"SUBSCRIBE_EVENTS", "REGISTER_WEBHOOK", "WATCH_ADDRESS"},
		Description: "Create a new webhook subscription for on-chain events.",
		Validate: func(_ context.Context, rt runtime.Runtime, _ runtime.Message) (bool, error) {
			return rt.Setting("COINBASE_API_KEY") != "" &&
				rt.Setting("COINBASE_PRIVATE_KEY") != "" &&
				rt.Setting("COINBASE_NOTIFICATION_URI") != "", nil
		},
		Handler: handler(d),
		Examples: [][]runtime.Example{{
			{User: "user", Text: "Notify me about USDC transfers to 0x1111111111111111111111111111111111111111 on base-mainnet."},
			{User: "agent", Text: "Webhook created successfully for erc20_transfer events on base-mainnet.", Action: actionName},
		}},
	}
}

func handler(d Deps) runtime.Handler {
	return func(ctx context.Context, rt runtime.Runtime, msg runtime.Message, state *runtime.State, cb runtime.Callback) (err error) {
		defer func() { d.Metrics.RecordInvocation(ctx, pluginName, actionName, err) }()
		log := clog.FromContext(ctx).With("plugin", pluginName, "action", actionName)

		if d.NotificationURI == "" {
			cb(runtime.Reply{Text: "Webhook creation needs a notification URI. Set COINBASE_NOTIFICATION_URI and try again."})
			return fmt.Errorf("notification URI not configured")
		}

		if state == nil {
			if state, err = rt.ComposeState(ctx, msg); err != nil {
				return fmt.Errorf("composing state: %w", err)
			}
		}
		prompt, err := webhookTemplate.BindText("recent_messages", state.RecentMessages)
		if err != nil {
			return fmt.Errorf("binding conversation: %w", err)
		}
		args, err := extract.Object[WebhookArgs](ctx, d.Extractor, prompt, extract.SizeSmall)
		if err != nil {
			cb(runtime.Reply{Text: "I couldn't work out the webhook details. Please specify the network and event type."})
			return fmt.Errorf("extracting webhook parameters: %w", err)
		}

		var filters []cdp.WebhookFilter
		if args.ContractAddress != "" || args.FromAddress != "" || args.ToAddress != "" {
			filters = append(filters, cdp.WebhookFilter{
				ContractAddress: args.ContractAddress,
				FromAddress:     args.FromAddress,
				ToAddress:       args.ToAddress,
			})
		}

		webhook, err := d.Webhooks.CreateWebhook(ctx, cdp.WebhookRequest{
			NetworkID:       args.Network,
			EventType:       args.EventType,
			EventFilters:    filters,
			NotificationURI: d.NotificationURI,
		})
		if err != nil {
			cb(runtime.Reply{Text: "The webhook could not be created. Please check the Coinbase credentials and try again."})
			return fmt.Errorf("creating webhook: %w", err)
		}

		encodedFilters, err := json.Marshal(filters)
		if err != nil {
			return fmt.Errorf("encoding filters: %w", err)
		}
		if appendErr := d.Sink.Append(ctx, []string{
			webhook.ID, args.Network, args.EventType, string(encodedFilters), d.NotificationURI,
		}); appendErr != nil {
			log.Errorf("recording webhook: %v", appendErr)
		}

		cb(runtime.Reply{Text: fmt.Sprintf("Webhook created successfully for %s events on %s. Deliveries go to %s.",
			args.EventType, args.Network, d.NotificationURI)})
		return nil
	}
}

// provider surfaces the registered webhooks so the runtime can answer
// questions about existing subscriptions.
func provider(d Deps) runtime.Provider {
	return runtime.Provider{
		Name: "webhookProvider",
		Get: func(ctx context.Context, _ runtime.Runtime, _ runtime.Message) (string, error) {
			webhooks, err := d.Webhooks.ListWebhooks(ctx)
			if err != nil {
				return "", fmt.Errorf("listing webhooks: %w", err)
			}
			if len(webhooks) == 0 {
				return "No webhooks registered.", nil
			}
			var b strings.Builder
			b.WriteString("Registered webhooks:\n")
			for _, w := range webhooks {
				fmt.Fprintf(&b, "- %s: %s on %s -> %s\n", w.ID, w.EventType, w.NetworkID, w.NotificationURI)
			}
			return b.String(), nil
		},
	}
}
