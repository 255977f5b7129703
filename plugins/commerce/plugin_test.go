/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package commerce

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chainguard.dev/coinbaseaf/agents/extract"
	"chainguard.dev/coinbaseaf/agents/metrics"
	"chainguard.dev/coinbaseaf/coinbase/commerce"
	"chainguard.dev/coinbaseaf/runtime"
	"github.com/invopop/jsonschema"
)

type fakeRuntime struct {
	settings map[string]string
}

func (f *fakeRuntime) AgentID() string            { return "agent-1" }
func (f *fakeRuntime) Setting(name string) string { return f.settings[name] }
func (f *fakeRuntime) SetSetting(name, value string, _ bool) {}
func (f *fakeRuntime) ComposeState(context.Context, runtime.Message) (*runtime.State, error) {
	return &runtime.State{RecentMessages: "user: create a charge"}, nil
}

type fakeExtractor struct {
	response string
}

func (f *fakeExtractor) Extract(context.Context, string, *jsonschema.Schema, extract.Size) (string, error) {
	return f.response, nil
}

type fakeCharges struct {
	created commerce.ChargeRequest
	charges []commerce.Charge
	err     error
}

func (f *fakeCharges) CreateCharge(_ context.Context, req commerce.ChargeRequest) (*commerce.Charge, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = req
	return &commerce.Charge{
		ID:          "charge-1",
		Name:        req.Name,
		Description: req.Description,
		PricingType: req.PricingType,
		LocalPrice:  req.LocalPrice,
		HostedURL:   "https://commerce.coinbase.com/charges/charge-1",
	}, nil
}

func (f *fakeCharges) GetCharge(_ context.Context, chargeID string) (*commerce.Charge, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.charges {
		if c.ID == chargeID {
			return &c, nil
		}
	}
	return nil, errors.New("charge not found")
}

func (f *fakeCharges) ListCharges(context.Context) ([]commerce.Charge, error) {
	return f.charges, f.err
}

func action(t *testing.T, p runtime.Plugin, name string) runtime.Action {
	t.Helper()
	for _, a := range p.Actions {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("plugin has no action %q", name)
	return runtime.Action{}
}

func TestCreateCharge(t *testing.T) {
	t.Parallel()

	ex := &fakeExtractor{response: `{"price": 100, "currency": "USD", "type": "fixed_price",
		"name": "Premium Membership", "description": "Monthly premium membership"}`}
	charges := &fakeCharges{}
	p := New(Deps{Extractor: ex, Charges: charges, Metrics: metrics.NewActions("test")})

	var reply runtime.Reply
	err := action(t, p, "CREATE_CHARGE").Handler(context.Background(), &fakeRuntime{}, runtime.Message{}, nil, func(r runtime.Reply) { reply = r })
	if err != nil {
		t.Fatalf("Handler() = %v", err)
	}
	if charges.created.Name != "Premium Membership" || charges.created.PricingType != commerce.PricingFixed {
		t.Errorf("created = %+v", charges.created)
	}
	if charges.created.LocalPrice.Amount != "100" || charges.created.LocalPrice.Currency != "USD" {
		t.Errorf("local price = %+v", charges.created.LocalPrice)
	}
	if !strings.Contains(reply.Text, "https://commerce.coinbase.com/charges/charge-1") {
		t.Errorf("reply missing payment URL: %q", reply.Text)
	}
}

func TestCreateChargeDefaultsPricingType(t *testing.T) {
	t.Parallel()

	ex := &fakeExtractor{response: `{"price": 5, "currency": "USD", "type": "bogus", "name": "Tip", "description": "A tip"}`}
	charges := &fakeCharges{}
	p := New(Deps{Extractor: ex, Charges: charges, Metrics: metrics.NewActions("test")})

	if err := action(t, p, "CREATE_CHARGE").Handler(context.Background(), &fakeRuntime{}, runtime.Message{}, nil, func(runtime.Reply) {}); err != nil {
		t.Fatalf("Handler() = %v", err)
	}
	if charges.created.PricingType != commerce.PricingFixed {
		t.Errorf("pricing type = %q, want fixed_price fallback", charges.created.PricingType)
	}
}

func TestListCharges(t *testing.T) {
	t.Parallel()

	charges := &fakeCharges{charges: []commerce.Charge{
		{ID: "c1", Name: "First", LocalPrice: commerce.Price{Amount: "10", Currency: "USD"}},
		{ID: "c2", Name: "Second", LocalPrice: commerce.Price{Amount: "20", Currency: "EUR"}},
	}}
	p := New(Deps{Extractor: &fakeExtractor{}, Charges: charges, Metrics: metrics.NewActions("test")})

	var reply runtime.Reply
	err := action(t, p, "GET_ALL_CHARGES").Handler(context.Background(), &fakeRuntime{}, runtime.Message{}, nil, func(r runtime.Reply) { reply = r })
	if err != nil {
		t.Fatalf("Handler() = %v", err)
	}
	if !strings.Contains(reply.Text, "fetched 2 charges") || !strings.Contains(reply.Text, "Second") {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestChargeDetails(t *testing.T) {
	t.Parallel()

	ex := &fakeExtractor{response: `{"charge_id": "c1"}`}
	charges := &fakeCharges{charges: []commerce.Charge{{
		ID:          "c1",
		Name:        "First",
		Description: "The first charge",
		LocalPrice:  commerce.Price{Amount: "10", Currency: "USD"},
		HostedURL:   "https://commerce.coinbase.com/charges/c1",
	}}}
	p := New(Deps{Extractor: ex, Charges: charges, Metrics: metrics.NewActions("test")})

	var reply runtime.Reply
	err := action(t, p, "GET_CHARGE_DETAILS").Handler(context.Background(), &fakeRuntime{}, runtime.Message{}, nil, func(r runtime.Reply) { reply = r })
	if err != nil {
		t.Fatalf("Handler() = %v", err)
	}
	if !strings.Contains(reply.Text, "The first charge") || !strings.Contains(reply.Text, "10 USD") {
		t.Errorf("reply = %q", reply.Text)
	}
}

func TestValidateRequiresCommerceKey(t *testing.T) {
	t.Parallel()

	p := New(Deps{Extractor: &fakeExtractor{}, Charges: &fakeCharges{}, Metrics: metrics.NewActions("test")})
	validate := action(t, p, "CREATE_CHARGE").Validate

	ok, err := validate(context.Background(), &fakeRuntime{settings: map[string]string{}}, runtime.Message{})
	if err != nil || ok {
		t.Errorf("Validate() without key = %t, %v; want false", ok, err)
	}
	ok, err = validate(context.Background(), &fakeRuntime{settings: map[string]string{"COINBASE_COMMERCE_KEY": "k"}}, runtime.Message{})
	if err != nil || !ok {
		t.Errorf("Validate() with key = %t, %v; want true", ok, err)
	}
}

func TestProviderListsCharges(t *testing.T) {
	t.Parallel()

	charges := &fakeCharges{charges: []commerce.Charge{{ID: "c1", Name: "First", LocalPrice: commerce.Price{Amount: "10", Currency: "USD"}}}}
	p := New(Deps{Extractor: &fakeExtractor{}, Charges: charges, Metrics: metrics.NewActions("test")})

	got, err := p.Providers[0].Get(context.Background(), &fakeRuntime{}, runtime.Message{})
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if !strings.Contains(got, "First") {
		t.Errorf("provider output = %q", got)
	}
}
