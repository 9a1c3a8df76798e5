package util

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/guregu/null.v3"

	"exusiai.dev/sprintsummary/internal/core/pivot"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonTagName)
	_ = validate.RegisterValidation("metric", metric)
	validate.RegisterCustomTypeFunc(nullIntValuer, null.Int{})

	return validate
}

// jsonTagName reports fields by their wire name.
func jsonTagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "query"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func metric(fl validator.FieldLevel) bool {
	_, err := pivot.ParseMetric(fl.Field().String())
	return err == nil
}

func nullIntValuer(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(null.Int); ok {
		return valuer.Int64
	}

	return nil
}
