package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AnshRaj112/crypto-dca-backend/internal/apperrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validator and converts the first failure into an
// apperrors validation error.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(field, fmt.Sprintf("%s is required", field))
	case "oneof":
		return apperrors.Validation(field, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	case "min":
		return apperrors.Validation(field, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "email":
		return apperrors.Validation(field, "Invalid email address")
	default:
		return apperrors.Validation(field, fmt.Sprintf("%s is invalid", field))
	}
}

// isEmail reports whether s is a syntactically valid address.
func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
