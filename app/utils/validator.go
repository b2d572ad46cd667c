package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"botops-svc/app/dto"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateStruct validates a struct using go-playground/validator.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		validationErrors := make(map[string]string)
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors[err.Field()] = fmt.Sprintf("validation failed: %s", err.Tag())
		}
		return fmt.Errorf("validation failed: %v", validationErrors)
	}
	return nil
}

// ValidateCommandPayload checks a payload against the schema registered for
// its command type. Unknown types pass: types are free-form and payloads are
// opaque to the core.
func ValidateCommandPayload(commandType string, payload map[string]interface{}) error {
	schema, exists := dto.CommandRegistry[commandType]
	if !exists {
		return nil
	}

	schemaType := reflect.TypeOf(schema)
	instance := reflect.New(schemaType).Interface()

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, instance); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return ValidateStruct(instance)
}
