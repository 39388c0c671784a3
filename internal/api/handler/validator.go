package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formValidator checks bound form structs for Echo. A failing form yields a
// single sentence naming the first bad field, short enough for the flash
// notice shown above the form it came from.
type formValidator struct {
	v *validator.Validate
}

func NewValidator() *formValidator {
	return &formValidator{v: validator.New()}
}

func (fv *formValidator) Validate(form any) error {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	return errors.New(flashFor(fields[0]))
}

func flashFor(fe validator.FieldError) string {
	field := formLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s is required.", field)
	case "max":
		return fmt.Sprintf("The %s can be at most %s characters long.", field, fe.Param())
	case "excludesall":
		return fmt.Sprintf("The %s cannot contain any of %s.", field, strings.Join(strings.Split(fe.Param(), ""), " "))
	case "ne":
		return fmt.Sprintf("%q is not a valid %s.", fe.Param(), field)
	}
	return fmt.Sprintf("The %s is not valid.", field)
}

// formLabel names a form field the way the pages label it.
func formLabel(field string) string {
	switch field {
	case "NewItem":
		return "item"
	case "Checkbox":
		return "item to delete"
	case "ListName":
		return "list"
	}
	return strings.ToLower(field)
}
