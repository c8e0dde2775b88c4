package rest

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Passwords are capped at 72 bytes, the most bcrypt will hash.
type registerRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// messages maps "field.tag" to the text returned to clients.
var messages = map[string]string{
	"name.notblank":     "Name is required",
	"email.required":    "Please include a valid email",
	"email.email":       "Please include a valid email",
	"password.min":      "Please enter a password with 6 or more characters",
	"password.maxbytes": "Please enter a password with at most 72 bytes",
	"password.required": "Password is required",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", validators.NotBlank)

	// maxbytes=N: string length in bytes, unlike max which counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})

	return v
}

// validate checks req and returns one entry per failing field, in
// declaration order. A nil result means the request is valid.
func validate(v *validator.Validate, req any) []errorItem {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []errorItem{{Msg: msgInvalidBody}}
	}

	items := make([]errorItem, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		items = append(items, errorItem{Msg: msg, Param: fe.Field(), Location: "body"})
	}
	return items
}
