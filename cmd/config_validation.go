package cmd

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"
	"strings"

	errors "github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
)

// configGetter retrieves raw configuration values by dotted key path.
type configGetter func(key string) any

// validateStartupConfig validates startup configuration from the shared config source.
// It returns an error when any configured value is malformed or violates constraints.
func validateStartupConfig() error {
	return validateStartupConfigWithGetter(func(key string) any {
		return gconfig.S.Get(key)
	})
}

// validateStartupConfigWithGetter validates startup configuration via a key-value getter.
// It reports every problem at once.
func validateStartupConfigWithGetter(get configGetter) error {
	if get == nil {
		return errors.New("config getter is nil")
	}

	validationErrs := make([]string, 0)

	validateListenConfig(get, &validationErrs)
	validateDBConfig(get, &validationErrs)
	validateAPIConfig(get, &validationErrs)
	validateCORSConfig(get, &validationErrs)

	if len(validationErrs) == 0 {
		return nil
	}

	return errors.Errorf("invalid configuration:\n - %s", strings.Join(validationErrs, "\n - "))
}

// validateListenConfig validates the listen address.
func validateListenConfig(get configGetter, errs *[]string) {
	raw := get("listen")
	if raw == nil {
		return
	}

	addr, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "listen must be a string address")
		return
	}

	if _, _, err := net.SplitHostPort(strings.TrimSpace(addr)); err != nil {
		appendValidationError(errs, "listen must be like host:port")
	}
}

// validateDBConfig validates the store driver and the settings it needs.
func validateDBConfig(get configGetter, errs *[]string) {
	driver := driverMongo
	if raw := get("settings.db.driver"); raw != nil {
		value, parseErr := parseStrictString(raw)
		if parseErr != nil {
			appendValidationError(errs, "settings.db.driver must be a string")
			return
		}
		if normalized := strings.ToLower(strings.TrimSpace(value)); normalized != "" {
			driver = normalized
		}
	}

	switch driver {
	case driverMongo:
		validateMongoConfig(get, errs)
	case driverSQLite:
		validateOptionalStringNonEmpty(get, "settings.db.sqlite.path", errs)
	default:
		appendValidationError(errs, "settings.db.driver must be one of [%s, %s]", driverMongo, driverSQLite)
	}
}

// validateMongoConfig requires either a connection URI or a host address.
func validateMongoConfig(get configGetter, errs *[]string) {
	uri := optionalTrimmedString(get, "settings.db.mongo.uri", errs)
	addr := optionalTrimmedString(get, "settings.db.mongo.addr", errs)
	if uri == "" && addr == "" {
		appendValidationError(errs, "settings.db.mongo.uri or settings.db.mongo.addr is required")
	}

	// never echo the uri, it may carry credentials
	if uri != "" && !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		appendValidationError(errs, "settings.db.mongo.uri must start with mongodb:// or mongodb+srv://")
	}

	validateOptionalStringNonEmpty(get, "settings.db.mongo.db", errs)
	validateOptionalStringNonEmpty(get, "settings.db.mongo.auth_db", errs)
}

// validateAPIConfig validates validation toggles and resource limits.
func validateAPIConfig(get configGetter, errs *[]string) {
	validateOptionalBool(get, "settings.api.validation.enabled", errs)
	validateOptionalBool(get, "settings.api.validation.forbid_unknown_fields", errs)
	validateOptionalInt64Min(get, "settings.api.max_upload_bytes", 0, errs)
	validateOptionalIntMin(get, "settings.api.request_timeout_seconds", 0, errs)
}

// validateCORSConfig validates the allowed origin list.
func validateCORSConfig(get configGetter, errs *[]string) {
	const key = "settings.web.cors.allowed_origins"
	raw := get(key)
	if raw == nil {
		return
	}

	origins, ok := toStringSlice(raw)
	if !ok {
		appendValidationError(errs, "%s must be a list of strings", key)
		return
	}

	for i, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "*" {
			continue
		}

		parsed, err := url.Parse(trimmed)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			appendValidationError(errs, "%s[%d] must be an absolute origin or *", key, i)
		}
	}
}

// optionalTrimmedString returns the trimmed string at key, or "" if unset.
// Non-string values are reported.
func optionalTrimmedString(get configGetter, key string, errs *[]string) string {
	raw := get(key)
	if raw == nil {
		return ""
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return ""
	}

	return strings.TrimSpace(value)
}

// validateOptionalBool validates an optionally configured boolean key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalBool(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	if _, ok := parseStrictBool(raw); !ok {
		appendValidationError(errs, "%s must be a boolean", key)
	}
}

// validateOptionalIntMin validates an optionally configured integer key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalIntMin(get configGetter, key string, min int, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalInt64Min validates an optionally configured int64 key with a minimum constraint.
// It accepts a getter, the key, a minimum value, and an error collector pointer and appends validation errors.
func validateOptionalInt64Min(get configGetter, key string, min int64, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictInt64(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be an integer", key)
		return
	}

	if value < min {
		appendValidationError(errs, "%s must be >= %d", key, min)
	}
}

// validateOptionalStringNonEmpty validates an optionally configured non-empty string key.
// It accepts a getter, the key, and an error collector pointer and appends validation errors.
func validateOptionalStringNonEmpty(get configGetter, key string, errs *[]string) {
	raw := get(key)
	if raw == nil {
		return
	}

	value, parseErr := parseStrictString(raw)
	if parseErr != nil {
		appendValidationError(errs, "%s must be a string", key)
		return
	}

	if strings.TrimSpace(value) == "" {
		appendValidationError(errs, "%s must not be empty", key)
	}
}

// parseStrictBool parses a value as boolean using strict conversion rules.
// It accepts a raw value and returns the parsed boolean and whether parsing succeeded.
func parseStrictBool(value any) (bool, bool) {
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
		return int64(v) != 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false, false
		}
		switch strings.ToLower(trimmed) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

// parseStrictInt parses a value as a strict integer.
// It accepts a raw value and returns the parsed int and an error when parsing fails.
func parseStrictInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if math.Trunc(v) != v {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, errors.New("empty integer string")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, errors.Wrap(err, "atoi")
		}
		return parsed, nil
	default:
		return 0, errors.Errorf("unsupported int type %T", value)
	}
}

// parseStrictInt64 parses a value as a strict int64.
func parseStrictInt64(value any) (int64, error) {
	parsed, err := parseStrictInt(value)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int64(parsed), nil
}

// parseStrictString parses a value as a strict string.
// It accepts a raw value and returns the parsed string and an error when parsing fails.
func parseStrictString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.Errorf("unsupported string type %T", value)
	}
}

// toStringSlice accepts a YAML list or a comma separated string.
func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, true
		}
		return strings.Split(v, ","), true
	default:
		return nil, false
	}
}

// appendValidationError appends a formatted validation error to the collector.
// It accepts an error slice pointer, a format string, and format arguments, and has no return value.
func appendValidationError(errs *[]string, format string, args ...any) {
	if errs == nil {
		return
	}
	*errs = append(*errs, fmt.Sprintf(format, args...))
}
