package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	gte      = "gte"
	lte      = "lte"
	mx       = "max"
	mn       = "min"
	oneof    = "oneof"
	required = "required"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field, param, kind := err.Field(), err.Param(), err.Kind()

	switch err.Tag() {
	case required:
		return fmt.Sprintf("%q is required", field)
	case gte:
		return bound(field, "greater", param)
	case lte:
		return bound(field, "less", param)
	case mn:
		if isNumeric(kind) {
			return bound(field, "greater", param)
		}
		return lengthBound(field, "greater", param, kind)
	case mx:
		if isNumeric(kind) {
			return bound(field, "less", param)
		}
		return lengthBound(field, "less", param, kind)
	case oneof:
		options := strings.Fields(param)
		for i, o := range options {
			options[i] = fmt.Sprintf("%q", o)
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(options, ", "))
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

func bound(field, comparison, param string) string {
	return fmt.Sprintf("%q must be %s than or equal to %s", field, comparison, param)
}

// lengthBound words a min/max on a string or slice, e.g. "1 character" or
// "2 elements".
func lengthBound(field, comparison, param string, kind reflect.Kind) string {
	unit := "character"
	if kind == reflect.Slice {
		unit = "element"
	}
	if param != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s than or equal to %s %s", field, comparison, param, unit)
}

func isNumeric(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}
