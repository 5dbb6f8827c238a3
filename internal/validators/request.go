// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/go-playground/validator/v10"
)

// Custom validation tags.
const (
	TagRole         = "role"
	TagTaskStatus   = "task_status"
	TagTaskPriority = "task_priority"
)

var messages = map[string]string{
	"required":      "The field '%s' is required.",
	"email":         "The field '%s' must be a valid email address.",
	"min":           "The field '%s' must be at least %s characters long.",
	"max":           "The field '%s' must be no longer than %s characters.",
	"gt":            "The field '%s' must be greater than %s.",
	TagRole:         "The field '%s' must be one of user, moderator, admin.",
	TagTaskStatus:   "The field '%s' must be one of pending, in-progress, completed.",
	TagTaskPriority: "The field '%s' must be one of low, medium, high.",
}

// RequestValidator validates request DTOs by their `validate` struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds a RequestValidator with the domain tags
// registered and JSON names used in error messages.
func NewRequestValidator() Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	// Registration only fails for an empty tag or a nil function.
	_ = validate.RegisterValidation(TagRole, func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation(TagTaskStatus, func(fl validator.FieldLevel) bool {
		return models.TaskStatus(fl.Field().String()).IsValid()
	})
	_ = validate.RegisterValidation(TagTaskPriority, func(fl validator.FieldLevel) bool {
		return models.TaskPriority(fl.Field().String()).IsValid()
	})

	return &RequestValidator{validate: validate}
}

// Validate checks obj, a struct or a pointer to one. When fields are given
// only those struct fields (Go names) are checked.
func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	value := reflect.Indirect(reflect.ValueOf(obj))
	if value.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}

	for _, field := range fields {
		if _, ok := value.Type().FieldByName(field); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	if err := checkNotEmpty(value.Interface()); err != nil {
		return err
	}

	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}

	return toFieldErrors(err)
}

// checkNotEmpty rejects partial updates that change nothing.
func checkNotEmpty(obj any) error {
	switch req := obj.(type) {
	case models.UpdateProfileRequest:
		if req.Username == nil && req.Email == nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNoFieldsToUpdate)
		}
	case models.UpdateTaskRequest:
		if req.ToUpdate().IsEmpty() {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrNoFieldsToUpdate)
		}
	}
	return nil
}

func toFieldErrors(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = message(e)
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	msg, ok := messages[e.Tag()]
	if !ok {
		return fmt.Sprintf("The field '%s' is invalid: %s.", e.Field(), e.Tag())
	}
	if strings.Count(msg, "%s") == 2 {
		return fmt.Sprintf(msg, e.Field(), e.Param())
	}
	return fmt.Sprintf(msg, e.Field())
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
