package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ValidationError represents a single configuration validation error
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d configuration errors:", len(e))
	for _, err := range e {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validatePanels()...)
	errs = append(errs, c.validateFocus()...)
	errs = append(errs, c.validateTimings()...)
	errs = append(errs, c.validateLogging()...)
	errs = append(errs, c.validateServer()...)
	return errs
}

func (c *Config) validatePanels() []ValidationError {
	var errs []ValidationError
	p := c.Panels
	if p.CheckIntervalFrames < 1 {
		errs = append(errs, ValidationError{"panels.check_interval_frames", p.CheckIntervalFrames, "must be at least 1"})
	}
	if p.RescanMultiplier < 1 {
		errs = append(errs, ValidationError{"panels.rescan_multiplier", p.RescanMultiplier, "must be at least 1"})
	}
	if p.HiddenThreshold < 0 || p.VisibleThreshold > 1 || p.HiddenThreshold >= p.VisibleThreshold {
		errs = append(errs, ValidationError{
			"panels.visible_threshold",
			fmt.Sprintf("%v/%v", p.VisibleThreshold, p.HiddenThreshold),
			"thresholds must satisfy 0 <= hidden < visible <= 1",
		})
	}
	if len(p.Patterns) == 0 {
		errs = append(errs, ValidationError{"panels.patterns", p.Patterns, "at least one pattern is required"})
	}
	return errs
}

func (c *Config) validateFocus() []ValidationError {
	if _, err := regexp.Compile(c.Focus.DropdownItemPattern); err != nil {
		return []ValidationError{{"focus.dropdown_item_pattern", c.Focus.DropdownItemPattern, "invalid regular expression"}}
	}
	return nil
}

func (c *Config) validateTimings() []ValidationError {
	var errs []ValidationError
	if c.Navigator.ValidateIntervalFrames < 1 {
		errs = append(errs, ValidationError{"navigator.validate_interval_frames", c.Navigator.ValidateIntervalFrames, "must be at least 1"})
	}
	if c.Navigator.AssetPrepStep < 1 || c.Navigator.AssetPrepStep > 100 {
		errs = append(errs, ValidationError{"navigator.asset_prep_step", c.Navigator.AssetPrepStep, "must be between 1 and 100"})
	}
	if c.Duel.DiscardRecountDelayMs < 0 {
		errs = append(errs, ValidationError{"duel.discard_recount_delay_ms", c.Duel.DiscardRecountDelayMs, "must not be negative"})
	}
	if c.ManaPicker.PollIntervalMs < 1 {
		errs = append(errs, ValidationError{"mana_picker.poll_interval_ms", c.ManaPicker.PollIntervalMs, "must be at least 1"})
	}
	if c.ManaPicker.MaxOptions < 1 || c.ManaPicker.MaxOptions > 9 {
		errs = append(errs, ValidationError{"mana_picker.max_options", c.ManaPicker.MaxOptions, "must be between 1 and 9"})
	}
	if c.ManaPicker.TypeName == "" {
		errs = append(errs, ValidationError{"mana_picker.type_name", c.ManaPicker.TypeName, "must not be empty"})
	}
	return errs
}

func (c *Config) validateLogging() []ValidationError {
	level := strings.ToLower(c.Logging.Level)
	if !slices.Contains(ValidLogLevels(), level) {
		return []ValidationError{{"logging.level", c.Logging.Level, "must be one of " + strings.Join(ValidLogLevels(), ", ")}}
	}
	return nil
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError
	switch c.Server.Transport {
	case "stdio", "streamable-http":
	default:
		errs = append(errs, ValidationError{"server.transport", c.Server.Transport, "must be stdio or streamable-http"})
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port", c.Server.Port, "must be between 1 and 65535"})
	}
	if c.Server.SceneCacheTTLMs < 0 {
		errs = append(errs, ValidationError{"server.scene_cache_ttl_ms", c.Server.SceneCacheTTLMs, "must not be negative"})
	}
	return errs
}
