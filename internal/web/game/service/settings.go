package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
)

// Settings controls input validation and resource limits.
type Settings struct {
	// ValidationEnabled turns on the extension allow-lists and the
	// player_id/score field constraints.
	ValidationEnabled bool
	// ForbidUnknownFields rejects JSON fields the payload does not declare.
	ForbidUnknownFields bool
	// MaxUploadBytes caps a single upload; 0 means unlimited.
	MaxUploadBytes int64
	// RequestTimeout bounds each storage round trip; 0 means no deadline.
	RequestTimeout time.Duration
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ValidationEnabled:   true,
		ForbidUnknownFields: true,
	}
}

// LoadSettingsFromConfig reads Settings from the shared configuration.
func LoadSettingsFromConfig() Settings {
	def := DefaultSettings()
	return Settings{
		ValidationEnabled:   boolFromConfig("settings.api.validation.enabled", def.ValidationEnabled),
		ForbidUnknownFields: boolFromConfig("settings.api.validation.forbid_unknown_fields", def.ForbidUnknownFields),
		MaxUploadBytes:      int64FromConfig("settings.api.max_upload_bytes", def.MaxUploadBytes),
		RequestTimeout:      time.Duration(int64FromConfig("settings.api.request_timeout_seconds", 0)) * time.Second,
	}
}

// boolFromConfig retrieves a boolean configuration value with a default fallback.
// It accepts the same spellings as the startup config check.
func boolFromConfig(key string, def bool) bool {
	if v, ok := parseConfigBool(gconfig.S.Get(key)); ok {
		return v
	}
	return def
}

// int64FromConfig retrieves an integer configuration value with a default fallback.
func int64FromConfig(key string, def int64) int64 {
	if v, ok := parseConfigInt64(gconfig.S.Get(key)); ok {
		return v
	}
	return def
}

func parseConfigBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case int:
		return v != 0, true
	case int64:
		return v != 0, true
	case float64:
		if math.Trunc(v) != v {
			return false, false
		}
		return v != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

func parseConfigInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if math.Trunc(v) != v {
			return 0, false
		}
		return int64(v), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
