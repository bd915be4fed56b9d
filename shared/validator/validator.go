package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
	"warehub/shared/base64"
	"warehub/shared/constant"
	"warehub/shared/failure"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const bytesPerKB = 1024.0

var validate *val.Validate

func mimetypes(field val.FieldLevel) bool {
	var contentType string

	switch value := field.Field().Interface().(type) {
	case multipart.FileHeader:
		contentType = value.Header.Get(constant.RequestHeaderContentType)
	case string:
		contentType = base64.GetContentType(value)
	}

	if contentType == "" {
		return false
	}

	return slices.Contains(strings.Fields(field.Param()), contentType)
}

func maxFileSize(field val.FieldLevel) bool {
	var size int64

	switch value := field.Field().Interface().(type) {
	case multipart.FileHeader:
		size = value.Size
	case string:
		size = int64(len(value))
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return float64(size) <= maxSizeMB*bytesPerKB*bytesPerKB
}

// calendarDate accepts YYYY-MM-DD strings.
func calendarDate(field val.FieldLevel) bool {
	_, err := time.Parse(constant.DayDateFormat, field.Field().String())

	return err == nil
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()

		return f
	}

	return nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	// decimal.Decimal fields validate as float64 so gt/gte/lte apply to them.
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	// JSON names keep messages aligned with what the client sent.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0] //nolint:mnd
			if name != "" && name != "-" {
				return name
			}
		}

		return field.Name
	})

	for tag, fn := range map[string]val.Func{
		"empty":       func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"mimetypes":   mimetypes,
		"maxfilesize": maxFileSize,
		"date":        calendarDate,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
