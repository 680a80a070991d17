package forms

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Daskott/rolodex/server/models"
	"github.com/go-playground/validator"
	"github.com/pkg/errors"
)

var (
	ErrRequired      = errors.New("this field is required")
	ErrTooLong       = errors.New("value is too long")
	ErrInvalidFormat = errors.New("enter a valid email address")
	ErrInvalidValue  = errors.New("invalid value")
)

const (
	nameTags        = "notblank,max=50"
	descriptionTags = "max=280"
	phoneTags       = "notblank,max=14"
	emailTags       = "notblank,max=255,email"
)

// FieldError is a validation failure of a single field. Kind is one of the
// Err* sentinels (or models.ErrDuplicateName) so callers can match it with errors.Is.
type FieldError struct {
	Kind    error
	Message string
}

func (fe *FieldError) Error() string { return fe.Message }
func (fe *FieldError) Unwrap() error { return fe.Kind }

// ValidationErrors maps a form field key to what is wrong with its value.
type ValidationErrors map[string]*FieldError

func (ve ValidationErrors) Error() string {
	keys := make([]string, 0, len(ve))
	for key := range ve {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	msgs := []string{}
	for _, key := range keys {
		msgs = append(msgs, fmt.Sprintf("%v: %v", key, ve[key].Message))
	}
	return strings.Join(msgs, "; ")
}

// Is reports whether any field failed with target.
func (ve ValidationErrors) Is(target error) bool {
	for _, fe := range ve {
		if errors.Is(fe, target) {
			return true
		}
	}
	return false
}

// Messages returns the user facing message for each invalid field.
func (ve ValidationErrors) Messages() map[string]string {
	msgs := map[string]string{}
	for key, fe := range ve {
		msgs[key] = fe.Message
	}
	return msgs
}

func (ve ValidationErrors) orNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

type Validator struct {
	validate *validator.Validate
}

func NewValidator() (*Validator, error) {
	validate := validator.New()

	// Report struct fields by their json name, which is also their form key
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := RegisterValidators(validate)
	if err != nil {
		return nil, err
	}

	return &Validator{validate: validate}, nil
}

func RegisterValidators(validate *validator.Validate) error {
	// Like 'required', but a value made up of only whitespace is also blank
	return validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Struct validates a model's 'validate' tags, e.g. a new Phone or Group.
func (v *Validator) Struct(model interface{}) error {
	err := v.validate.Struct(model)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errs := ValidationErrors{}
	for _, fieldErr := range fieldErrs {
		errs[fieldErr.Field()] = fieldError(fieldErr)
	}
	return errs
}

// ContactSubmission checks the format of every field of an edit-contact form.
// Name uniqueness is checked separately, see CheckUniqueName.
func (v *Validator) ContactSubmission(sub *Submission) error {
	errs := ValidationErrors{}

	v.checkVar(errs, ContactNameKey, sub.Name, nameTags)
	for i, phone := range sub.Phones {
		v.checkVar(errs, PhoneKey(i), phone.Value, phoneTags)
	}
	for i, email := range sub.Emails {
		v.checkVar(errs, EmailKey(i), email.Value, emailTags)
	}

	return errs.orNil()
}

func (v *Validator) GroupSubmission(sub *GroupSubmission) error {
	errs := ValidationErrors{}

	v.checkVar(errs, GroupNameKey, sub.Name, nameTags)
	v.checkVar(errs, DescriptionKey, sub.Description, descriptionTags)

	return errs.orNil()
}

// CheckUniqueName fails with models.ErrDuplicateName if submitted is one of
// names, not counting current, the name of the entity being edited. Names are
// compared as-is, case-sensitive.
func CheckUniqueName(names []string, current, submitted string) error {
	others := map[string]bool{}
	for _, name := range names {
		others[name] = true
	}
	delete(others, current)

	if others[submitted] {
		return models.ErrDuplicateName
	}

	return nil
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func (v *Validator) checkVar(errs ValidationErrors, key, value, tags string) {
	err := v.validate.Var(value, tags)
	if err == nil {
		return
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		errs[key] = &FieldError{Kind: ErrInvalidValue, Message: err.Error()}
		return
	}

	errs[key] = fieldError(fieldErrs[0])
}

func fieldError(fieldErr validator.FieldError) *FieldError {
	switch fieldErr.Tag() {
	case "notblank", "required":
		return &FieldError{Kind: ErrRequired, Message: ErrRequired.Error()}
	case "max":
		return &FieldError{
			Kind:    ErrTooLong,
			Message: fmt.Sprintf("ensure this value has at most %v characters", fieldErr.Param()),
		}
	case "email":
		return &FieldError{Kind: ErrInvalidFormat, Message: ErrInvalidFormat.Error()}
	default:
		return &FieldError{Kind: ErrInvalidValue, Message: ErrInvalidValue.Error()}
	}
}

func duplicateName(key string) ValidationErrors {
	return ValidationErrors{key: &FieldError{Kind: models.ErrDuplicateName, Message: models.ErrDuplicateName.Error()}}
}
