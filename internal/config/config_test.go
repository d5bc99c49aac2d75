/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"testing"
	"time"
)

// memStore keeps tests off the real OS keyring.
type memStore struct{ vals map[string]string }

func (m *memStore) Get(service, key string) (string, error) {
	v, ok := m.vals[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (m *memStore) Set(service, key, value string) error {
	if m.vals == nil {
		m.vals = map[string]string{}
	}
	m.vals[service+"/"+key] = value
	return nil
}
func (m *memStore) Delete(service, key string) error {
	delete(m.vals, service+"/"+key)
	return nil
}

func withMemStore(t *testing.T) *memStore {
	t.Helper()
	old := tokenStore
	ms := &memStore{}
	tokenStore = ms
	t.Cleanup(func() { tokenStore = old })
	return ms
}

func TestEnvOverridesCompositorURL(t *testing.T) {
	withMemStore(t)
	t.Setenv(EnvCompositorURL, "https://example.test:8443")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Compositor.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Compositor.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withMemStore(t)
	t.Setenv(EnvTelemetryOptIn, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesEditorDefaults(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.SplitRatio = 0.7
	src.Editor.SnapEnabled = false
	src.Editor.SnapThreshold = 2.5
	mergeInto(&dst, &src)
	if dst.Editor.SplitRatio != 0.7 || dst.Editor.SnapEnabled || dst.Editor.SnapThreshold != 2.5 {
		t.Fatalf("editor fields not merged: %#v", dst.Editor)
	}
}

func TestMergeRejectsInvalidSplitRatio(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Editor.SplitRatio = 1.4
	mergeInto(&dst, &src)
	if dst.Editor.SplitRatio != Defaults().Editor.SplitRatio {
		t.Fatalf("invalid split ratio should not merge, got %v", dst.Editor.SplitRatio)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withMemStore(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/cf.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/cf.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverridesEnableServer(t *testing.T) {
	withMemStore(t)
	if Defaults().General.EnableServer {
		t.Fatalf("server must be disabled by default")
	}
	t.Setenv(EnvEnableServer, "1")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.EnableServer {
		t.Fatalf("General.EnableServer expected true from env override")
	}
}

func TestEffectiveTimeoutFallsBack(t *testing.T) {
	cfg := Defaults()
	cfg.Compositor.TimeoutMs = 0
	if got := cfg.EffectiveTimeout(); got != 15*time.Second {
		t.Fatalf("EffectiveTimeout = %v, want 15s default", got)
	}
	cfg.Compositor.TimeoutMs = 2500
	if got := cfg.EffectiveTimeout(); got != 2500*time.Millisecond {
		t.Fatalf("EffectiveTimeout = %v, want 2.5s", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ms := withMemStore(t)
	if err := ms.Set(keyringService, keyringToken, "secret"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	_, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "secret" {
		t.Fatalf("token = %q, want secret", tok)
	}
	if err := ClearToken(); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	if _, err := ms.Get(keyringService, keyringToken); err == nil {
		t.Fatalf("token should be deleted")
	}
}
