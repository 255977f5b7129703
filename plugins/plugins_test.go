/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package plugins

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"chainguard.dev/coinbaseaf/runtime"
)

type fakeRuntime struct {
	settings map[string]string
	secrets  map[string]bool
}

func (f *fakeRuntime) AgentID() string            { return "agent-1" }
func (f *fakeRuntime) Setting(name string) string { return f.settings[name] }
func (f *fakeRuntime) SetSetting(name, value string, secret bool) {
	f.settings[name] = value
	f.secrets[name] = secret
}
func (f *fakeRuntime) ComposeState(context.Context, runtime.Message) (*runtime.State, error) {
	return &runtime.State{}, nil
}

func testKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshaling key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func testRuntime(t *testing.T) *fakeRuntime {
	t.Helper()
	return &fakeRuntime{
		settings: map[string]string{
			"COINBASE_API_KEY":     "organizations/abc/apiKeys/def",
			"COINBASE_PRIVATE_KEY": testKey(t),
			"COINBASE_DATA_DIR":    t.TempDir(),
		},
		secrets: map[string]bool{},
	}
}

func TestNewAssemblesFullPack(t *testing.T) {
	pack, err := New(context.Background(), testRuntime(t))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	if got, want := len(pack.All()), 6; got != want {
		t.Fatalf("pack has %d plugins, want %d", got, want)
	}

	merged := pack.Merged()
	if got, want := len(merged.Actions), 10; got != want {
		t.Errorf("merged plugin has %d actions, want %d", got, want)
	}
	if got, want := len(merged.Providers), 5; got != want {
		t.Errorf("merged plugin has %d providers, want %d", got, want)
	}

	wantActions := map[string]bool{
		"SEND_MASS_PAYOUT":       false,
		"EXECUTE_TRADE":          false,
		"CREATE_CHARGE":          false,
		"GET_ALL_CHARGES":        false,
		"GET_CHARGE_DETAILS":     false,
		"DEPLOY_TOKEN_CONTRACT":  false,
		"INVOKE_CONTRACT":        false,
		"READ_CONTRACT":          false,
		"CREATE_WEBHOOK":         false,
		"EXECUTE_ADVANCED_TRADE": false,
	}
	for _, a := range merged.Actions {
		if _, ok := wantActions[a.Name]; !ok {
			t.Errorf("unexpected action %q", a.Name)
			continue
		}
		wantActions[a.Name] = true
	}
	for name, seen := range wantActions {
		if !seen {
			t.Errorf("merged plugin missing action %q", name)
		}
	}
}

func TestNewRejectsMissingCredentials(t *testing.T) {
	rt := testRuntime(t)
	delete(rt.settings, "COINBASE_PRIVATE_KEY")

	if _, err := New(context.Background(), rt); err == nil {
		t.Fatal("New() = nil, want error without a private key")
	}
}

func TestRuntimeStorePersistsWalletAsSecret(t *testing.T) {
	rt := testRuntime(t)
	pack, err := New(context.Background(), rt)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}

	store := &runtimeStore{rt: rt, cfg: pack.cfg}
	if id, seed := store.StoredWallet(); id != "" || seed != "" {
		t.Errorf("StoredWallet() = %q, %q before any persist", id, seed)
	}

	if err := store.Persist("wallet-1", "deadbeef"); err != nil {
		t.Fatalf("Persist() = %v", err)
	}
	if rt.settings[settingWalletID] != "wallet-1" || rt.settings[settingWalletSeed] != "deadbeef" {
		t.Errorf("settings = %v", rt.settings)
	}
	if !rt.secrets[settingWalletID] || !rt.secrets[settingWalletSeed] {
		t.Error("wallet credentials not stored as secrets")
	}
	if id, seed := store.StoredWallet(); id != "wallet-1" || seed != "deadbeef" {
		t.Errorf("StoredWallet() = %q, %q after persist", id, seed)
	}
}
