package validator

import (
	"errors"
	"strings"

	"hospital-appointment/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("appointment_status", validateAppointmentStatus)
	_ = v.RegisterValidation("slot_date", validateSlotDate)
	_ = v.RegisterValidation("slot_time", validateSlotTime)

	return &CustomValidator{
		validator: v,
	}
}

func validateAppointmentStatus(fl validator.FieldLevel) bool {
	return entity.AppointmentStatus(fl.Field().String()).IsValid()
}

func validateSlotDate(fl validator.FieldLevel) bool {
	_, err := entity.ParseSlotDate(fl.Field().String())
	return err == nil
}

func validateSlotTime(fl validator.FieldLevel) bool {
	_, err := entity.ParseSlotTime(fl.Field().String())
	return err == nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = field + " is required"
			case "email":
				errs[field] = field + " must be a valid email address"
			case "min":
				errs[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errs[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errs[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errs[field] = field + " must be less than or equal to " + e.Param()
			case "uuid":
				errs[field] = field + " must be a valid UUID"
			case "appointment_status":
				errs[field] = field + " must be one of " + strings.Join(statusNames(), ", ")
			case "slot_date":
				errs[field] = field + " must be a date in YYYY-MM-DD format"
			case "slot_time":
				errs[field] = field + " must be a time in HH:MM format"
			default:
				errs[field] = field + " is invalid"
			}
		}
	}

	return errs
}

func statusNames() []string {
	statuses := entity.AppointmentStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
