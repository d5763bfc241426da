package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form structs bind submitted page forms. Validation happens before any
// upstream call: a rejected form never costs a network round-trip.

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type registerForm struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type eventForm struct {
	Title           string  `form:"title" validate:"required"`
	Description     string  `form:"description" validate:"required"`
	Date            string  `form:"date" validate:"required"`
	Location        string  `form:"location" validate:"required"`
	Price           float64 `form:"price" validate:"gte=0"`
	MaxParticipants int     `form:"max_participants" validate:"gt=0"`
	CategoryID      int64   `form:"category_id"`
}

// dateLayout matches the datetime-local input format.
const dateLayout = "2006-01-02T15:04"

// parseDate validates the date field beyond what tags can express: it must
// parse and lie in the future. Returns the parsed time and "" on success,
// or a zero time and the inline message.
func (f eventForm) parseDate(now time.Time) (time.Time, string) {
	if f.Date == "" {
		return time.Time{}, "date is required"
	}
	when, err := time.ParseInLocation(dateLayout, f.Date, time.Local)
	if err != nil {
		return time.Time{}, "enter a valid date and time"
	}
	if !when.After(now) {
		return time.Time{}, "date must be in the future"
	}
	return when, ""
}

type groupForm struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description"`
	EventID     int64  `form:"event_id"`
	MaxMembers  int    `form:"max_members" validate:"gt=0"`
}

type profileForm struct {
	Name      string `form:"name" validate:"required"`
	About     string `form:"about"`
	AvatarURL string `form:"avatar_url" validate:"omitempty,url"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report errors under the form field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateForm runs tag validation and returns a field→message map, empty
// when the form is valid.
func validateForm(form any) map[string]string {
	fields := make(map[string]string)
	err := validate.Struct(form)
	if err == nil {
		return fields
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		fields[""] = err.Error()
		return fields
	}
	for _, fe := range ve {
		fields[fe.Field()] = fieldError(fe)
	}
	return fields
}

// fieldError converts a single ValidationError into a human-readable
// inline message.
func fieldError(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
