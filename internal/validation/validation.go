package validation

import (
	"errors"
	"strings"
	"sync"

	"github.com/Freeeeeet/hotel_booking/internal/model"
	"github.com/go-playground/validator/v10"
)

// Error carries the field-level messages shown next to the form.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// IsValidation reports whether err carries form messages.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// "date" accepts what model.ParseDate accepts.
		_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			_, err := model.ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

var messages = map[string]string{
	"GuestName.required":      "Name is required",
	"GuestEmail.required":     "Email is required",
	"GuestEmail.email":        "Invalid email format",
	"CheckInDate.required":    "Check-in is required",
	"CheckInDate.date":        "Check-in date is invalid",
	"CheckOutDate.required":   "Check-out is required",
	"CheckOutDate.date":       "Check-out date is invalid",
	"Name.required":           "Name is required",
	"Email.required":          "Email is required",
	"Email.email":             "Invalid email format",
	"Password.required":       "Password is required",
	"ConfirmPassword.eqfield": "Passwords do not match.",
}

// Dates holds the parsed stay of a valid draft.
type Dates struct {
	CheckIn  model.Date
	CheckOut model.Date
}

// Draft checks a booking form and returns its parsed dates.
func Draft(d model.BookingDraft) (Dates, error) {
	d.GuestName = strings.TrimSpace(d.GuestName)
	d.GuestEmail = strings.TrimSpace(d.GuestEmail)

	problems := collect(instance().Struct(d))

	var dates Dates
	var inErr, outErr error
	dates.CheckIn, inErr = model.ParseDate(d.CheckInDate)
	dates.CheckOut, outErr = model.ParseDate(d.CheckOutDate)
	if inErr == nil && outErr == nil && !dates.CheckOut.After(dates.CheckIn.Time) {
		problems = append(problems, "Check-out date must be after check-in date")
	}

	if len(problems) > 0 {
		return Dates{}, &Error{Messages: problems}
	}
	return dates, nil
}

// SignUp checks a registration form.
func SignUp(f model.SignUpForm) error {
	if problems := collect(instance().Struct(f)); len(problems) > 0 {
		return &Error{Messages: problems}
	}
	return nil
}

func collect(err error) []string {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.Field()+" is invalid")
	}
	return out
}
