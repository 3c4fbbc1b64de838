// Package validation wraps go-playground/validator with Japanese messages.
// Request structs name each field for users with a `label` tag:
//
//	type request struct {
//	    Email string `json:"email" label:"メールアドレス" validate:"required,email"`
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared instance; it is safe for concurrent use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			if label := field.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		_ = validate.RegisterValidation("prefecture", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				return true
			}
			_, err := domain.NewPrefecture(value)
			return err == nil
		})
		_ = validate.RegisterValidation("tagcategory", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseTagCategory(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Struct validates s and converts failures into a domain validation error
// carrying the first field's message.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.Validation("入力内容が正しくありません")
	}
	return domain.Validation(Message(fieldErrs[0]))
}

// Message renders one field failure.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%sは必須です", field)
	case "email":
		return fmt.Sprintf("%sの形式が正しくありません", field)
	case "url", "http_url":
		return fmt.Sprintf("%sはURL形式で入力してください", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%sは%s文字以上で入力してください", field, fe.Param())
		}
		return fmt.Sprintf("%sは%s以上で入力してください", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%sは%s文字以内で入力してください", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%sは%s件までです", field, fe.Param())
		}
		return fmt.Sprintf("%sは%s以下で入力してください", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%sは%s以上で入力してください", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%sは%s以下で入力してください", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%sは次のいずれかを指定してください: %s", field, fe.Param())
	case "prefecture":
		return fmt.Sprintf("%sは都道府県名で入力してください", field)
	case "tagcategory":
		return fmt.Sprintf("%sが不正です", field)
	default:
		return fmt.Sprintf("%sが正しくありません", field)
	}
}
