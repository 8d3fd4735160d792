// Package config resolves the project's .claudekit/config.json and the
// user's ~/.claude/settings.json into a per-hook configuration object,
// grounded on the merge-with-overrides pattern the prior CLI's
// EntireSettings/mergeSettingsJSON used for its own settings.json pair.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ProjectConfigFile is the project-level config path, resolved by walking up
// from the working directory.
const ProjectConfigFile = ".claudekit/config.json"

// UserSettingsFile is the user-level settings path, read from $HOME.
const UserSettingsFile = ".claude/settings.json"

// FocusArea is one self-review focus area with its candidate questions.
type FocusArea struct {
	Name      string   `json:"name"`
	Questions []string `json:"questions"`
}

// HookConfig is the per-hook record under hooks.<id> in config.json. Not
// every field applies to every hook; see spec §6 for the recognized keys
// per hook-id prefix. Unset fields are nil/zero and fall back to the hook's
// own default.
type HookConfig struct {
	Command        string      `json:"command,omitempty"`
	Timeout        *int        `json:"timeout,omitempty"` // seconds, 1..300
	Fix            bool        `json:"fix,omitempty"`
	Extensions     []string    `json:"extensions,omitempty"`
	Prefix         string      `json:"prefix,omitempty"`
	MaxCheckpoints *int        `json:"maxCheckpoints,omitempty"`
	TargetPatterns []string    `json:"targetPatterns,omitempty"`
	FocusAreas     []FocusArea `json:"focusAreas,omitempty"`
	Include        []string    `json:"include,omitempty"`
	Exclude        []string    `json:"exclude,omitempty"`
	Format         string      `json:"format,omitempty"`
	Level          *int        `json:"level,omitempty"` // 0..3
	Enabled        *bool       `json:"enabled,omitempty"`
}

// GlobalConfig holds hooks.global defaults applied to every hook.
type GlobalConfig struct {
	Timeout   *int  `json:"timeout,omitempty"`
	Enabled   *bool `json:"enabled,omitempty"`
	Telemetry *bool `json:"telemetry,omitempty"`
}

// Config is the fully parsed, merged project+user configuration.
type Config struct {
	Hooks       map[string]HookConfig `json:"hooks,omitempty"`
	Global      GlobalConfig          `json:"-"`
	Environment map[string]string     `json:"environment,omitempty"`

	// Warning is set when schema parsing fell back to defaults.
	Warning string `json:"-"`
}

// rawConfig mirrors config.json's JSON shape before hooks.global is split out.
type rawConfig struct {
	Hooks       map[string]json.RawMessage `json:"hooks"`
	Environment map[string]string          `json:"environment"`
}

// Default returns an empty configuration with no hook overrides.
func Default() *Config {
	return &Config{Hooks: map[string]HookConfig{}}
}

// Load locates .claudekit/config.json by walking up from cwd, merges
// ~/.claude/settings.json as a lower-precedence base, and returns the
// resolved Config. Schema failures never error out: they fall back to
// Default() with Warning set, per spec §4.2/§7 (InputInvalid -> recover).
func Load(cwd string) *Config {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, UserSettingsFile)
		if data, err := os.ReadFile(userPath); err == nil {
			if err := mergeInto(cfg, data); err != nil {
				cfg.Warning = fmt.Sprintf("parsing %s: %v; using defaults", userPath, err)
			}
		}
	}

	projectPath, found := findUp(cwd, ProjectConfigFile)
	if found {
		data, err := os.ReadFile(projectPath) //nolint:gosec // path resolved by findUp against a fixed basename
		if err != nil {
			cfg.Warning = fmt.Sprintf("reading %s: %v; using defaults", projectPath, err)
			return cfg
		}
		if err := mergeInto(cfg, data); err != nil {
			cfg.Warning = fmt.Sprintf("parsing %s: %v; using defaults", projectPath, err)
		}
	}

	return cfg
}

// findUp walks up from dir looking for relPath, returning the first match.
func findUp(dir, relPath string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, relPath)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func mergeInto(cfg *Config, data []byte) error {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	for id, msg := range raw.Hooks {
		if id == "global" {
			var g GlobalConfig
			if err := json.Unmarshal(msg, &g); err != nil {
				return fmt.Errorf("hooks.global: %w", err)
			}
			mergeGlobal(&cfg.Global, g)
			continue
		}
		var hc HookConfig
		if err := json.Unmarshal(msg, &hc); err != nil {
			return fmt.Errorf("hooks.%s: %w", id, err)
		}
		cfg.Hooks[id] = mergeHook(cfg.Hooks[id], hc)
	}

	for k, v := range raw.Environment {
		if cfg.Environment == nil {
			cfg.Environment = map[string]string{}
		}
		cfg.Environment[k] = v
	}

	return nil
}

func mergeGlobal(dst *GlobalConfig, src GlobalConfig) {
	if src.Timeout != nil {
		dst.Timeout = src.Timeout
	}
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
	if src.Telemetry != nil {
		dst.Telemetry = src.Telemetry
	}
}

func mergeHook(dst, src HookConfig) HookConfig {
	if src.Command != "" {
		dst.Command = src.Command
	}
	if src.Timeout != nil {
		dst.Timeout = src.Timeout
	}
	if src.Fix {
		dst.Fix = src.Fix
	}
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.Prefix != "" {
		dst.Prefix = src.Prefix
	}
	if src.MaxCheckpoints != nil {
		dst.MaxCheckpoints = src.MaxCheckpoints
	}
	if len(src.TargetPatterns) > 0 {
		dst.TargetPatterns = src.TargetPatterns
	}
	if len(src.FocusAreas) > 0 {
		dst.FocusAreas = src.FocusAreas
	}
	if len(src.Include) > 0 {
		dst.Include = src.Include
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Level != nil {
		dst.Level = src.Level
	}
	if src.Enabled != nil {
		dst.Enabled = src.Enabled
	}
	return dst
}

// HookConfig returns the effective configuration for hookID: hooks.global
// defaults merged under hooks.<id>'s own values (the per-hook value wins).
func (c *Config) HookConfig(hookID string) HookConfig {
	hc := c.Hooks[hookID]
	if hc.Timeout == nil {
		hc.Timeout = c.Global.Timeout
	}
	if hc.Enabled == nil {
		hc.Enabled = c.Global.Enabled
	}
	return hc
}

// TelemetryEnabled reports whether hooks.global.telemetry is explicitly true.
func (c *Config) TelemetryEnabled() bool {
	return c.Global.Telemetry != nil && *c.Global.Telemetry
}

// Debug reports whether the DEBUG environment variable requests verbose
// stderr diagnostics, per spec §4.2.
func Debug() bool {
	return os.Getenv("DEBUG") == "true"
}
