// Package validation holds the declarative field checks for request bodies
// and user records. Every violated field yields exactly one message; fields
// are reported in struct declaration order.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"authenticate-me/internal/model"
)

// Messages maps "field.tag" or "field" to the text reported for a failure.
type Messages map[string]string

var (
	validate   = newValidator()
	emailCheck = validator.New()
)

var LoginMessages = Messages{
	"credential": "Please provide a valid email or username.",
	"password":   "Please provide a password",
}

var SignupMessages = Messages{
	"email":             "Please provide a valid email.",
	"username":          "Please provide a username with at least 4 characters.",
	"username.notemail": "Username cannot be an email.",
	"password":          "Password must be 6 characters or more.",
}

var RecordMessages = Messages{
	"username":          "Validation len on username failed",
	"username.notemail": "Cannot be an email.",
	"email":             "Validation len on email failed",
	"email.email":       "Validation isEmail on email failed",
	"hashedPassword":    "Validation len on hashedPassword failed",
}

type userRecord struct {
	Username     string `json:"username" validate:"min=4,max=30,notemail"`
	Email        string `json:"email" validate:"min=3,max=256,email"`
	PasswordHash string `json:"hashedPassword" validate:"len=60"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notemail", func(fl validator.FieldLevel) bool {
		return !IsEmail(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// IsEmail reports whether s has RFC 5322 address syntax.
func IsEmail(s string) bool {
	return emailCheck.Var(s, "required,email") == nil
}

func Login(req model.LoginRequest) []string {
	return Struct(req, LoginMessages)
}

func Signup(req model.SignupRequest) []string {
	return Struct(req, SignupMessages)
}

// UserRecord checks the persisted shape of a user before insert.
func UserRecord(username string, email string, passwordHash string) []FieldError {
	return Fields(userRecord{Username: username, Email: email, PasswordHash: passwordHash}, RecordMessages)
}

// FieldError is one failing field with its message.
type FieldError struct {
	Field   string
	Message string
}

// Struct runs every check on v and returns one message per failing field.
func Struct(v any, msgs Messages) []string {
	fields := Fields(v, msgs)
	if len(fields) == 0 {
		return nil
	}

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Message)
	}
	return out
}

func Fields(v any, msgs Messages) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []FieldError{{Message: "Invalid request payload."}}
	}

	out := make([]FieldError, 0, len(fieldErrs))
	seen := make(map[string]struct{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		out = append(out, FieldError{Field: field, Message: msgs.lookup(field, fe.Tag())})
	}

	return out
}

func (m Messages) lookup(field string, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return fmt.Sprintf("Invalid value for %s.", field)
}
