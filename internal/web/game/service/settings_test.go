package service

import (
	"testing"
	"time"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/stretchr/testify/require"
)

func setConfig(t *testing.T, values map[string]any) {
	t.Helper()
	for key, val := range values {
		gconfig.S.Set(key, val)
	}
	t.Cleanup(func() {
		for key := range values {
			gconfig.S.Set(key, nil)
		}
	})
}

func TestParseConfigBool(t *testing.T) {
	truthy := []any{true, 1, int64(2), float64(1), "true", "True", "YES", "Yes", "yes", " 1 "}
	for _, v := range truthy {
		got, ok := parseConfigBool(v)
		require.True(t, ok, "%#v", v)
		require.True(t, got, "%#v", v)
	}

	falsy := []any{false, 0, int64(0), float64(0), "false", "FALSE", "No", "NO", "no ", "0"}
	for _, v := range falsy {
		got, ok := parseConfigBool(v)
		require.True(t, ok, "%#v", v)
		require.False(t, got, "%#v", v)
	}

	for _, v := range []any{nil, "", "maybe", 0.5, []any{true}} {
		_, ok := parseConfigBool(v)
		require.False(t, ok, "%#v", v)
	}
}

func TestParseConfigInt64(t *testing.T) {
	for raw, want := range map[any]int64{
		10:          10,
		int64(-3):   -3,
		float64(20): 20,
		" 30 ":      30,
	} {
		got, ok := parseConfigInt64(raw)
		require.True(t, ok, "%#v", raw)
		require.Equal(t, want, got)
	}

	for _, v := range []any{nil, "10MB", "", 1.5, true} {
		_, ok := parseConfigInt64(v)
		require.False(t, ok, "%#v", v)
	}
}

func TestLoadSettingsFromConfig(t *testing.T) {
	require.Equal(t, DefaultSettings(), LoadSettingsFromConfig())

	setConfig(t, map[string]any{
		"settings.api.validation.enabled":               "No",
		"settings.api.validation.forbid_unknown_fields": "YES",
		"settings.api.max_upload_bytes":                 "1024",
		"settings.api.request_timeout_seconds":          5,
	})

	got := LoadSettingsFromConfig()
	require.False(t, got.ValidationEnabled)
	require.True(t, got.ForbidUnknownFields)
	require.EqualValues(t, 1024, got.MaxUploadBytes)
	require.Equal(t, 5*time.Second, got.RequestTimeout)
}

func TestLoadSettingsFromConfigFallsBack(t *testing.T) {
	setConfig(t, map[string]any{
		"settings.api.validation.enabled": "maybe",
		"settings.api.max_upload_bytes":   "10MB",
	})

	got := LoadSettingsFromConfig()
	require.True(t, got.ValidationEnabled)
	require.Zero(t, got.MaxUploadBytes)
}
