package validator

import (
	"reflect"
	"strings"
	"time"

	"longa/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("booking_status", bookingStatus)
	_ = v.RegisterValidation("payout_status", payoutStatus)
	_ = v.RegisterValidation("service_type", serviceType)
	_ = v.RegisterValidation("date", dateOnly)
	_ = v.RegisterValidation("clock", clock)

	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "notblank":
				errors[field] = field + " must not be blank"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + " characters"
			case "max":
				errors[field] = field + " must be at most " + e.Param() + " characters"
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + e.Param()
			case "booking_status":
				errors[field] = field + " must be a valid booking status"
			case "payout_status":
				errors[field] = field + " must be a valid payout status"
			case "service_type":
				errors[field] = field + " must be one_off or subscription"
			case "date":
				errors[field] = field + " must use YYYY-MM-DD"
			case "clock":
				errors[field] = field + " must use HH:MM"
			case "uuid":
				errors[field] = field + " must be a valid id"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Enum and format tags accept the empty string; pair with required when
// a value is mandatory.

func bookingStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := entity.ParseBookingStatus(s)
	return err == nil
}

func payoutStatus(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := entity.ParsePayoutStatus(s)
	return err == nil
}

func serviceType(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := entity.ParseServiceType(s)
	return err == nil
}

func dateOnly(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func clock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
