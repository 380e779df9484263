package customvalidator

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"

	"appeals-system/pkg/constants"
)

const minPhoneDigits = 11

// RegisterCustomValidations регистрирует наши правила и null-типы в валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("role_tag", isRoleTag); err != nil {
		return err
	}
	if err := v.RegisterValidation("sex_type", isSexType); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone_digits", hasPhoneDigits); err != nil {
		return err
	}
	return nil
}

func isRoleTag(fl validator.FieldLevel) bool {
	return constants.IsKnownRole(fl.Field().String())
}

func isSexType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, s := range constants.AllSexTypes {
		if s == value {
			return true
		}
	}
	return false
}

// hasPhoneDigits: в номере не меньше 11 цифр, разделители "+ -()" и пробелы допускаются.
func hasPhoneDigits(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == '-' || r == '(' || r == ')' || unicode.IsSpace(r):
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}

// fieldName - имя поля в ошибках: json-тег, затем form-тег, иначе имя в Go.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// registerNullTypes учит валидатор смотреть внутрь null.* типов.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Int64); ok && val.Valid {
			return val.Int64
		}
		return nil
	}, null.Int64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Bool); ok && val.Valid {
			return val.Bool
		}
		return nil
	}, null.Bool{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
