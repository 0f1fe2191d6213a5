package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"

	"github.com/Laisky/game-media-api/internal/web/game/dto"
	"github.com/Laisky/game-media-api/internal/web/game/model"
)

const (
	// maxScoreBodyBytes caps the JSON body of a score submission.
	maxScoreBodyBytes = 1 << 20
)

// scoreSubmissionFields are the json names of dto.ScoreSubmission.
var scoreSubmissionFields = []string{"player_id", "score"}

// playerIDRegexp blocks query operators and path characters such as `$` and `.`.
var playerIDRegexp = regexp.MustCompile(`^[a-zA-Z0-9_ -]+$`)

// newValidator returns a validator that reports json field names and
// knows the player_id rule.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("player_id", func(fl validator.FieldLevel) bool {
		return playerIDRegexp.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register player_id validation: %v", err))
	}

	return v
}

// fileExtension returns the lower-cased extension of filename, including
// the dot. Leading dots of the base name do not start an extension, so
// ".png" has none.
func fileExtension(filename string) string {
	base := filename
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimLeft(base, ".")

	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// validateFileUpload checks filename against the kind's allow-list.
func validateFileUpload(kind model.AssetKind, filename string) error {
	allowed := kind.AllowedExtensions()
	ext := fileExtension(filename)
	if ext != "" {
		for _, a := range allowed {
			if ext == a {
				return nil
			}
		}
	}

	return model.NewInputError(model.ErrCodeInvalidFileType,
		fmt.Sprintf("Invalid file type: %s. Allowed types are: %s", ext, strings.Join(allowed, ", ")))
}

// decodeScoreSubmission parses a score payload. Type mismatches, syntax
// errors and (if forbidUnknown) undeclared fields become payload errors.
func decodeScoreSubmission(body io.Reader, forbidUnknown bool) (*dto.ScoreSubmission, error) {
	raw, err := io.ReadAll(io.LimitReader(body, maxScoreBodyBytes+1))
	if err != nil {
		return nil, model.NewStorageError("read body", err)
	}
	if len(raw) > maxScoreBodyBytes {
		return nil, model.NewInputError(model.ErrCodePayloadTooLarge, "Request body too large")
	}

	// encoding/json matches keys case-insensitively, so exact names are
	// checked on the raw object first.
	if forbidUnknown {
		if fields := scoreKeyErrors(raw); len(fields) != 0 {
			return nil, model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload", fields...)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if forbidUnknown {
		dec.DisallowUnknownFields()
	}

	sub := new(dto.ScoreSubmission)
	if err = dec.Decode(sub); err != nil {
		return nil, model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload", jsonFieldError(err))
	}
	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload", invalidJSONField())
	}

	return sub, nil
}

// scoreKeyErrors compares the object's keys with the declared json names.
// Declared keys that are absent are reported missing, undeclared keys as
// extra, sorted by name. Bodies that are not a JSON object return nil and
// are left to the typed decoder.
func scoreKeyErrors(raw []byte) []model.FieldError {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil
	}

	var extra []string
	for key := range obj {
		if !slices.Contains(scoreSubmissionFields, key) {
			extra = append(extra, key)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)

	var fields []model.FieldError
	for _, key := range scoreSubmissionFields {
		if _, ok := obj[key]; !ok {
			fields = append(fields, missingField(key))
		}
	}
	for _, key := range extra {
		fields = append(fields, extraField(key))
	}

	return fields
}

func extraField(field string) model.FieldError {
	return model.FieldError{
		Field:   field,
		Message: "Extra inputs are not permitted",
		Type:    "extra_forbidden",
	}
}

func invalidJSONField() model.FieldError {
	return model.FieldError{Message: "JSON decode error", Type: "json_invalid"}
}

func jsonFieldError(err error) model.FieldError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		fe := model.FieldError{Field: typeErr.Field}
		switch typeErr.Type.Kind() {
		case reflect.String:
			fe.Message, fe.Type = "Input should be a valid string", "string_type"
		case reflect.Int, reflect.Int32, reflect.Int64:
			fe.Message, fe.Type = "Input should be a valid integer", "int_type"
		default:
			fe.Message, fe.Type = "Input should be a valid object", "model_type"
		}
		return fe
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return extraField(strings.Trim(field, `"`))
	}

	return invalidJSONField()
}

// checkScoreSubmission applies the declarative field rules. With rules
// disabled only presence is checked.
func (s *Service) checkScoreSubmission(sub *dto.ScoreSubmission) error {
	if !s.settings.ValidationEnabled {
		var missing []model.FieldError
		if sub.PlayerID == nil {
			missing = append(missing, missingField("player_id"))
		}
		if sub.Score == nil {
			missing = append(missing, missingField("score"))
		}
		if len(missing) != 0 {
			return model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload", missing...)
		}
		return nil
	}

	err := s.validate.Struct(sub)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return model.NewStorageError("validate score payload", err)
	}

	fields := make([]model.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describeFieldError(fe))
	}
	return model.NewInputError(model.ErrCodeInvalidPayload, "invalid score payload", fields...)
}

func missingField(field string) model.FieldError {
	return model.FieldError{Field: field, Message: "Field required", Type: "missing"}
}

func describeFieldError(fe validator.FieldError) model.FieldError {
	out := model.FieldError{Field: fe.Field()}
	switch fe.Tag() {
	case "required":
		return missingField(fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			out.Message = fmt.Sprintf("String should have at least %s character", fe.Param())
			out.Type = "string_too_short"
		} else {
			out.Message = fmt.Sprintf("Input should be greater than or equal to %s", fe.Param())
			out.Type = "greater_than_equal"
		}
	case "max":
		out.Message = fmt.Sprintf("String should have at most %s characters", fe.Param())
		out.Type = "string_too_long"
	case "player_id":
		out.Message = "Value error, Player ID contains invalid characters"
		out.Type = "value_error"
	default:
		out.Message = fmt.Sprintf("failed on %s", fe.Tag())
		out.Type = "value_error"
	}
	return out
}
