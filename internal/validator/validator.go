// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "dwight/internal/errors"
	"dwight/internal/models"
)

var once sync.Once

// Register registers all custom validators with the Gin binding engine.
// It is safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("asset_category", validateAssetCategory)
	})
}

// RegisterCustomType teaches the engine to validate wrapper types by the
// value fn extracts from them.
func RegisterCustomType(fn validator.CustomTypeFunc, types ...interface{}) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(fn, types...)
	}
}

// Struct validates s with the same engine and tags Gin uses for request
// binding. Failures come back as a VALIDATION_ERROR AppError.
func Struct(s interface{}) error {
	Register()
	if err := binding.Validator.ValidateStruct(s); err != nil {
		return FromBindError(err)
	}
	return nil
}

// FromBindError converts an error returned by Gin's ShouldBind* family or by
// Struct into a VALIDATION_ERROR AppError with per-field details.
func FromBindError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperrors.FieldError{Field: fe.Field(), Message: describe(fe)})
		}
		return apperrors.WithDetails(apperrors.ErrValidation, details)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.WithDetails(apperrors.ErrValidation, []apperrors.FieldError{
			{Field: typeErr.Field, Message: "must be of type " + typeErr.Type.String()},
		})
	}

	return apperrors.WithMessage(apperrors.ErrValidation, "Request validation failed: "+err.Error())
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "asset_category":
		names := make([]string, len(models.AssetCategories))
		for i, c := range models.AssetCategories {
			names[i] = string(c)
		}
		return "must be one of: " + strings.Join(names, ", ")
	}
	return fmt.Sprintf("failed on the %q constraint", fe.Tag())
}

func validateAssetCategory(fl validator.FieldLevel) bool {
	return models.AssetCategory(fl.Field().String()).IsValid()
}
