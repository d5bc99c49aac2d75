/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and saves the user-editable ClipFrame configuration.
// The config is a YAML file in the user scope; environment variables act as
// read-only overrides at runtime. The compositor API token never touches the
// file — it lives in the OS keychain.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// CompositorConfig configures the remote compositing service client.
type CompositorConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// Token is not stored on disk; it lives in the OS keychain.
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark"
	EnableServer   bool   `yaml:"enable_server"`
}

// EditorConfig holds defaults applied when a new editing session starts.
type EditorConfig struct {
	SplitRatio    float64 `yaml:"split_ratio"`
	SnapEnabled   bool    `yaml:"snap_enabled"`
	SnapThreshold float64 `yaml:"snap_threshold"` // percent of frame width
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int              `yaml:"config_version"`
	General       GeneralConfig    `yaml:"general"`
	Compositor    CompositorConfig `yaml:"compositor"`
	Editor        EditorConfig     `yaml:"editor"`
	Logging       LoggingConfig    `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system", EnableServer: false},
		Compositor:    CompositorConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Editor:        EditorConfig{SplitRatio: 0.6, SnapEnabled: true, SnapThreshold: 1.5},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvCompositorURL       = "CF_COMPOSITOR_URL"
	EnvCompositorTimeoutMs = "CF_COMPOSITOR_TIMEOUT_MS"
	EnvCompositorTLSInsec  = "CF_TLS_INSECURE"
	EnvTelemetryOptIn      = "CF_TELEMETRY_OPT_IN"
	EnvEnableServer        = "CF_ENABLE_SERVER"
	EnvLogLevel            = "CF_LOG_LEVEL"
	EnvLogFormat           = "CF_LOG_FORMAT"
	EnvLogSource           = "CF_LOG_SOURCE"
	EnvLogFile             = "CF_LOG_FILE"
)

// Service/keys for the OS keyring.
const (
	keyringService = "ClipFrame"
	keyringToken   = "compositor_token"
)

// TokenStore abstracts the keyring so tests can stub it.
type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// tokenStore is replaced by a memory stub in tests.
var tokenStore TokenStore = osKeyring{}

// osKeyring implements TokenStore via github.com/zalando/go-keyring.
type osKeyring struct{}

func (osKeyring) Get(service, key string) (string, error) { return keyring.Get(service, key) }
func (osKeyring) Set(service, key, value string) error    { return keyring.Set(service, key, value) }
func (osKeyring) Delete(service, key string) error        { return keyring.Delete(service, key) }

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ClipFrame")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ClipFrame")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "clipframe")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The compositor token is loaded from the keyring and
// returned separately so it never lives in the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS keyring
// (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// ClearToken removes the compositor token from the keyring.
func ClearToken() error { return tokenStore.Delete(keyringService, keyringToken) }

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from the file so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	dst.General.EnableServer = src.General.EnableServer
	if src.Compositor.BaseURL != "" {
		dst.Compositor.BaseURL = src.Compositor.BaseURL
	}
	if src.Compositor.TimeoutMs != 0 {
		dst.Compositor.TimeoutMs = src.Compositor.TimeoutMs
	}
	dst.Compositor.TLSInsecure = src.Compositor.TLSInsecure
	if src.Editor.SplitRatio > 0 && src.Editor.SplitRatio < 1 {
		dst.Editor.SplitRatio = src.Editor.SplitRatio
	}
	dst.Editor.SnapEnabled = src.Editor.SnapEnabled
	if src.Editor.SnapThreshold > 0 {
		dst.Editor.SnapThreshold = src.Editor.SnapThreshold
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvCompositorURL)); v != "" {
		cfg.Compositor.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCompositorTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Compositor.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvCompositorTLSInsec)); v != "" {
		cfg.Compositor.TLSInsecure = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnableServer)); v != "" {
		cfg.General.EnableServer = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// EffectiveTimeout returns the compositor request timeout as a duration,
// falling back to the default when unset.
func (c AppConfig) EffectiveTimeout() time.Duration {
	ms := c.Compositor.TimeoutMs
	if ms <= 0 {
		ms = Defaults().Compositor.TimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}
