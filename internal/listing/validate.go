package listing

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var webURL = regexp.MustCompile(`^https?://.+`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return webURL.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError maps field labels to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	labels := make([]string, 0, len(e.Fields))
	for l := range e.Fields {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	msgs := make([]string, len(labels))
	for i, l := range labels {
		msgs[i] = e.Fields[l]
	}
	return strings.Join(msgs, "; ")
}

// Field returns the message for label, or "".
func (e *ValidationError) Field(label string) string {
	return e.Fields[label]
}

// Validate checks the listing and returns a *ValidationError listing every
// invalid field, or nil.
func (l *Listing) Validate() error {
	l.Normalize()
	return check(l)
}

// ValidateField checks a single value as it would be checked inside a
// listing. Used by interactive forms.
func ValidateField(label, value string) error {
	probe := &Listing{
		Name: "x", Description: "x", NetworkName: "x", LocatorID: "x",
		RepositoryURL: "https://x", CommitHash: "xxxxxxx",
	}
	value = strings.TrimSpace(value)
	switch label {
	case LabelName:
		probe.Name = value
	case LabelDescription:
		probe.Description = value
	case LabelNetwork:
		probe.NetworkName = value
	case LabelLocator:
		probe.LocatorID = value
	case LabelRepository:
		probe.RepositoryURL = value
	case LabelCommit:
		probe.CommitHash = value
	default:
		return nil
	}
	if err := check(probe); err != nil {
		return errors.New(err.(*ValidationError).Field(label))
	}
	return nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "weburl":
		return "Must be a valid URL starting with http:// or https://"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	}
	return fe.Field() + " is invalid"
}
