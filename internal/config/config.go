package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete arena-access configuration
type Config struct {
	Panels     PanelConfig      `mapstructure:"panels"`
	Focus      FocusConfig      `mapstructure:"focus"`
	Navigator  NavigatorConfig  `mapstructure:"navigator"`
	Duel       DuelConfig       `mapstructure:"duel"`
	ManaPicker ManaPickerConfig `mapstructure:"mana_picker"`
	Priority   PriorityConfig   `mapstructure:"priority"`
	Speech     SpeechConfig     `mapstructure:"speech"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
}

// PanelConfig controls the overlay detector's cadence and matching.
type PanelConfig struct {
	// CheckIntervalFrames runs the detector every N frames (default: 10)
	CheckIntervalFrames int `mapstructure:"check_interval_frames"`
	// RescanMultiplier re-scans the whole scene every CheckIntervalFrames*N frames (default: 6)
	RescanMultiplier int `mapstructure:"rescan_multiplier"`
	// VisibleThreshold is the opacity at or above which a panel counts as shown
	VisibleThreshold float64 `mapstructure:"visible_threshold"`
	// HiddenThreshold is the opacity at or below which a panel counts as hidden
	HiddenThreshold float64 `mapstructure:"hidden_threshold"`
	// Patterns are name substrings identifying candidate panels
	Patterns []string `mapstructure:"patterns"`
	// PopupPatterns mark a candidate as a popup for ranking
	PopupPatterns []string `mapstructure:"popup_patterns"`
	// CloneSuffix marks runtime-instantiated objects
	CloneSuffix string `mapstructure:"clone_suffix"`
}

// FocusConfig controls focus tracking.
type FocusConfig struct {
	// DropdownItemPattern is a regular expression matching open dropdown item names
	DropdownItemPattern string `mapstructure:"dropdown_item_pattern"`
}

// NavigatorConfig controls screen navigators.
type NavigatorConfig struct {
	// ValidateIntervalFrames re-validates discovered elements every N frames (default: 30)
	ValidateIntervalFrames int `mapstructure:"validate_interval_frames"`
	// AssetPrepStep announces download progress every N percent (default: 10)
	AssetPrepStep int `mapstructure:"asset_prep_step"`
	// DuelScenes name the scenes where menus are only navigable inside a panel
	DuelScenes []string `mapstructure:"duel_scenes"`
}

// DuelConfig controls the target and discard navigators.
type DuelConfig struct {
	// DiscardRecountDelayMs waits this long after a discard toggle before re-reading the count
	DiscardRecountDelayMs int `mapstructure:"discard_recount_delay_ms"`
}

// ManaPickerConfig controls the mana-color picker navigator.
type ManaPickerConfig struct {
	// TypeName is the host type discovered at runtime
	TypeName string `mapstructure:"type_name"`
	// PollIntervalMs polls for an open picker this often (default: 100)
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	// MaxOptions is the number of digit keys mapped to options (default: 6)
	MaxOptions int `mapstructure:"max_options"`
}

// PriorityConfig controls the auto-pass and phase-stop bridge.
type PriorityConfig struct {
	AutoPassType  string `mapstructure:"auto_pass_type"`
	PhaseStopType string `mapstructure:"phase_stop_type"`
}

// SpeechConfig controls announcement behavior.
type SpeechConfig struct {
	// Verbose enables AnnounceVerbose output
	Verbose bool `mapstructure:"verbose"`
	// Language selects the string catalog (only "en" ships built in)
	Language string `mapstructure:"language"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `mapstructure:"level"`
	// File is the log destination; empty logs to stderr
	File string `mapstructure:"file"`
}

// ServerConfig controls the MCP server.
type ServerConfig struct {
	// Transport is stdio or streamable-http
	Transport string `mapstructure:"transport"`
	// Port is the listen port for streamable-http
	Port int `mapstructure:"port"`
	// SceneCacheTTLMs keeps flattened scenes this long between steps (0 disables)
	SceneCacheTTLMs int `mapstructure:"scene_cache_ttl_ms"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Panels: PanelConfig{
			CheckIntervalFrames: 10,
			RescanMultiplier:    6,
			VisibleThreshold:    0.99,
			HiddenThreshold:     0.01,
			Patterns: []string{
				"Popup", "Dialog", "Modal", "Panel", "Overlay", "Blade", "Menu",
			},
			PopupPatterns: []string{"Popup", "Dialog", "Modal"},
			CloneSuffix:   "(Clone)",
		},
		Focus: FocusConfig{
			DropdownItemPattern: `^Item \d+:`,
		},
		Navigator: NavigatorConfig{
			ValidateIntervalFrames: 30,
			AssetPrepStep:          10,
			DuelScenes:             []string{"DuelScene"},
		},
		Duel: DuelConfig{
			DiscardRecountDelayMs: 200,
		},
		ManaPicker: ManaPickerConfig{
			TypeName:       "ManaColorSelector",
			PollIntervalMs: 100,
			MaxOptions:     6,
		},
		Priority: PriorityConfig{
			AutoPassType:  "AutoPassController",
			PhaseStopType: "PhaseStopControl",
		},
		Speech: SpeechConfig{
			Verbose:  false,
			Language: "en",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Transport:       "stdio",
			Port:            8080,
			SceneCacheTTLMs: 500,
		},
	}
}

// DiscardRecountDelay returns the discard re-count delay as a Duration
func (c *DuelConfig) DiscardRecountDelay() time.Duration {
	return time.Duration(c.DiscardRecountDelayMs) * time.Millisecond
}

// PollInterval returns the picker poll interval as a Duration
func (c *ManaPickerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// SceneCacheTTL returns the scene cache TTL as a Duration
func (c *ServerConfig) SceneCacheTTL() time.Duration {
	return time.Duration(c.SceneCacheTTLMs) * time.Millisecond
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("panels.check_interval_frames", defaults.Panels.CheckIntervalFrames)
	v.SetDefault("panels.rescan_multiplier", defaults.Panels.RescanMultiplier)
	v.SetDefault("panels.visible_threshold", defaults.Panels.VisibleThreshold)
	v.SetDefault("panels.hidden_threshold", defaults.Panels.HiddenThreshold)
	v.SetDefault("panels.patterns", defaults.Panels.Patterns)
	v.SetDefault("panels.popup_patterns", defaults.Panels.PopupPatterns)
	v.SetDefault("panels.clone_suffix", defaults.Panels.CloneSuffix)

	v.SetDefault("focus.dropdown_item_pattern", defaults.Focus.DropdownItemPattern)

	v.SetDefault("navigator.validate_interval_frames", defaults.Navigator.ValidateIntervalFrames)
	v.SetDefault("navigator.asset_prep_step", defaults.Navigator.AssetPrepStep)
	v.SetDefault("navigator.duel_scenes", defaults.Navigator.DuelScenes)

	v.SetDefault("duel.discard_recount_delay_ms", defaults.Duel.DiscardRecountDelayMs)

	v.SetDefault("mana_picker.type_name", defaults.ManaPicker.TypeName)
	v.SetDefault("mana_picker.poll_interval_ms", defaults.ManaPicker.PollIntervalMs)
	v.SetDefault("mana_picker.max_options", defaults.ManaPicker.MaxOptions)

	v.SetDefault("priority.auto_pass_type", defaults.Priority.AutoPassType)
	v.SetDefault("priority.phase_stop_type", defaults.Priority.PhaseStopType)

	v.SetDefault("speech.verbose", defaults.Speech.Verbose)
	v.SetDefault("speech.language", defaults.Speech.Language)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)

	v.SetDefault("server.transport", defaults.Server.Transport)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.scene_cache_ttl_ms", defaults.Server.SceneCacheTTLMs)
}

// Load reads configuration from path (optional) and ARENA_ACCESS_* environment
// variables, validates it, and returns the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("ARENA_ACCESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}
