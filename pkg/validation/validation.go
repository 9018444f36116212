// Package validation provides the shared struct validator with the custom
// file-extension rules used by CLI flags and server configuration.
package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the singleton validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		// Canonical dataset files are delimited text or columnar binary.
		_ = v.RegisterValidation("dataset_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".csv") || strings.HasSuffix(s, ".parquet")
		})
		// Census workbooks arrive as Excel files.
		_ = v.RegisterValidation("workbook_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".xlsx") || strings.HasSuffix(s, ".xlsm")
		})
	})
	return v
}

// ValidateStruct validates s and returns a friendly error naming the first
// offending field, or nil when valid.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok || len(ve) == 0 {
		return fmt.Errorf("invalid inputs: %w", err)
	}
	fe := ve[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "dataset_ext":
		return fmt.Errorf("%s must be a .csv or .parquet file", field)
	case "workbook_ext":
		return fmt.Errorf("%s must be an Excel workbook (.xlsx, .xlsm)", field)
	case "min", "max", "gte", "lte":
		return fmt.Errorf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("invalid %s", field)
}
