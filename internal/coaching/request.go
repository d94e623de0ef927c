package coaching

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a rejected feedback request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AnalyzeRequest is the input to Analyze. Score is a pointer so that an
// explicit 0 is distinguishable from a missing value.
type AnalyzeRequest struct {
	Score           *float64        `json:"score" validate:"required"`
	PitchData       json.RawMessage `json:"pitch_data,omitempty"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	SessionID       string          `json:"session_id,omitempty" validate:"omitempty,uuid"`
}

// QuickRequest is the input to Quick.
type QuickRequest struct {
	Score           *float64        `json:"score" validate:"required"`
	PitchData       json.RawMessage `json:"pitch_data,omitempty"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateRequest runs struct validation on any request type carrying
// validate tags and converts the first failure into a ValidationError.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch {
	case fe.Field() == "score" && fe.Tag() == "required":
		return "Score is required"
	case fe.Tag() == "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case fe.Tag() == "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case fe.Tag() == "uuid":
		return fmt.Sprintf("%s must be a UUID", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func sessionInput(score *float64, pitch json.RawMessage, duration *float64) SessionInput {
	in := SessionInput{Score: *score, PitchData: pitch}
	if duration != nil {
		in.DurationSeconds = *duration
	}
	return in
}
