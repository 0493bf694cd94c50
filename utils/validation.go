package utils

import (
	"fmt"

	"wheelstrust/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the slot, calendardate and weekday tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerTags(v)
}

func registerTags(v *validator.Validate) error {
	tags := map[string]validator.Func{
		"slot": func(fl validator.FieldLevel) bool {
			return models.IsSlotLabel(fl.Field().String())
		},
		"calendardate": func(fl validator.FieldLevel) bool {
			_, err := models.ParseCalendarDate(fl.Field().String())
			return err == nil
		},
		"weekday": func(fl validator.FieldLevel) bool {
			day := fl.Field().String()
			for _, d := range models.Weekdays {
				if d == day {
					return true
				}
			}
			return false
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}
