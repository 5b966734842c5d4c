// Package validation holds the field rules of the registration form.
package validation

import (
	"errors"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/signup-site/internal/apiclient"
)

// Field names a registration form field. Values match the API form keys.
type Field string

const (
	FieldName     Field = "name"
	FieldEmail    Field = "email"
	FieldPhone    Field = "phone"
	FieldPosition Field = "position_id"
	FieldPhoto    Field = "photo"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldPosition, FieldPhoto}

// MaxPhotoSize is the largest accepted photo, in bytes (5 MiB).
const MaxPhotoSize = 5 << 20

// AllowedPhotoTypes are the accepted photo content types.
var AllowedPhotoTypes = []string{"image/jpeg", "image/jpg"}

var phonePattern = regexp.MustCompile(`^\+?380\d{9}$`)

const (
	MsgRequired      = "Required"
	MsgNameTooShort  = "Minimum 2 characters"
	MsgNameTooLong   = "Maximum 60 characters"
	MsgInvalidEmail  = "Invalid email"
	MsgInvalidPhone  = "Phone number must start with +380 and contain 9 digits"
	MsgUnknownRole   = "Select one of the listed positions"
	MsgPhotoRequired = "Photo is required"
	MsgPhotoTooLarge = "File too large (max 5MB)"
	MsgPhotoType     = "Unsupported file format"
)

// tagMessages maps validator tags to user-facing messages.
var tagMessages = map[string]string{
	"required": MsgRequired,
	"min":      MsgNameTooShort,
	"max":      MsgNameTooLong,
	"email":    MsgInvalidEmail,
	"ua_phone": MsgInvalidPhone,
}

// Photo describes an attached photo as far as the rules care.
type Photo struct {
	ContentType string
	Size        int64
}

// Input is the form state the rules are evaluated against.
type Input struct {
	Name       string
	Email      string
	Phone      string
	PositionID int
	Photo      *Photo
}

// Errors maps each failing field to its message.
type Errors map[Field]string

// Valid reports whether no rule failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Rules evaluates the form rules. It is safe for concurrent use.
type Rules struct {
	validate *validator.Validate
}

// NewRules builds the rule set.
func NewRules() *Rules {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("ua_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		// Only fails on an empty tag or nil func.
		panic(err)
	}

	return &Rules{validate: v}
}

// Check evaluates a single field. It returns "" when the field is valid.
func (r *Rules) Check(field Field, in Input, positions []apiclient.Position) string {
	switch field {
	case FieldName:
		return r.checkVar(in.Name, "required,min=2,max=60")
	case FieldEmail:
		return r.checkVar(in.Email, "required,email")
	case FieldPhone:
		return r.checkVar(in.Phone, "required,ua_phone")
	case FieldPosition:
		return checkPosition(in.PositionID, positions)
	case FieldPhoto:
		return checkPhoto(in.Photo)
	default:
		return ""
	}
}

// CheckAll evaluates every field.
func (r *Rules) CheckAll(in Input, positions []apiclient.Position) Errors {
	errs := Errors{}
	for _, field := range Fields {
		if msg := r.Check(field, in, positions); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func (r *Rules) checkVar(value, tags string) string {
	err := r.validate.Var(value, tags)
	if err == nil {
		return ""
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := tagMessages[fieldErrs[0].Tag()]; ok {
			return msg
		}
	}
	return MsgRequired
}

func checkPosition(id int, positions []apiclient.Position) string {
	if id == 0 {
		return MsgRequired
	}

	known := slices.ContainsFunc(positions, func(p apiclient.Position) bool {
		return p.ID == id
	})
	if !known {
		return MsgUnknownRole
	}
	return ""
}

func checkPhoto(p *Photo) string {
	if p == nil {
		return MsgPhotoRequired
	}
	if p.Size > MaxPhotoSize {
		return MsgPhotoTooLarge
	}
	if !slices.Contains(AllowedPhotoTypes, NormalizeContentType(p.ContentType)) {
		return MsgPhotoType
	}
	return ""
}
