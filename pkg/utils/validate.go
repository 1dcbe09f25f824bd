package utils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	vOnce sync.Once
	v     *validator.Validate
)

func validate() *validator.Validate {
	vOnce.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// report json names so messages match the request body
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// FieldErrors lists every violated constraint of a struct, in field order.
type FieldErrors []string

func (e FieldErrors) Error() string { return strings.Join(e, "; ") }

// ValidateStruct checks the `validate` tags of s and returns FieldErrors on failure.
func ValidateStruct(s any) error {
	err := validate().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := make(FieldErrors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return f + " is required"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", f, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
	case "email":
		return f + " must be a valid email address"
	case "numeric":
		return f + " must contain digits only"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", f, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", f, fe.Tag())
}
