package contact

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SubmissionRequest is the contact form payload.
type SubmissionRequest struct {
	Name           string `json:"name" validate:"min=2,max=100"`
	Email          string `json:"email" validate:"required,max=254,email"`
	Message        string `json:"message" validate:"min=5,max=5000"`
	RecaptchaToken string `json:"recaptchaToken,omitempty" validate:"-"`
}

// FeedbackRequest is the footer feedback payload. Name is optional.
type FeedbackRequest struct {
	Name    string `json:"name" validate:"max=100"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubscribeRequest is the newsletter sign-up payload.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,max=254,email"`
}

func (r *SubmissionRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	r.RecaptchaToken = strings.TrimSpace(r.RecaptchaToken)
}

func (r *FeedbackRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *SubscribeRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// FieldError describes one failing field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"msg"`
}

// Validator checks request structs and reports failures by JSON field name.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct returns a *ValidationError when s fails any rule.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
