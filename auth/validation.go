package auth

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 100
)

const (
	msgEmailInvalid     = "Please enter a valid email address"
	msgEmailTooLong     = "Email address is too long"
	msgPasswordShort    = "Password must be at least 8 characters"
	msgPasswordUpper    = "Password must contain at least one uppercase letter"
	msgPasswordLower    = "Password must contain at least one lowercase letter"
	msgPasswordDigit    = "Password must contain at least one number"
	msgPasswordSymbol   = "Password must contain at least one special character"
	msgNameShort        = "Name must be at least 2 characters"
	msgNameLong         = "Name is too long"
	msgNameInvalid      = "Name contains invalid characters"
	msgPasswordMismatch = "Passwords do not match"
)

var (
	v = validator.New()

	upperRe  = regexp.MustCompile(`[A-Z]`)
	lowerRe  = regexp.MustCompile(`[a-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[^A-Za-z0-9]`)
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	spaceRe  = regexp.MustCompile(`\s+`)
)

// SanitizeInput strips angle brackets and surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(input))
}

// NormalizeEmail sanitizes, trims and case-folds an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(SanitizeInput(email))
}

// ValidateEmail returns the first failing rule for an already normalized email, or "".
func ValidateEmail(email string) string {
	if email == "" || v.Var(email, "email") != nil {
		return msgEmailInvalid
	}
	if len(email) > MaxEmailLength {
		return msgEmailTooLong
	}
	return ""
}

// ValidatePassword returns the first failing strength rule, or "".
// Passwords are never trimmed or sanitized.
func ValidatePassword(password string) string {
	switch {
	case len(password) < MinPasswordLength:
		return msgPasswordShort
	case !upperRe.MatchString(password):
		return msgPasswordUpper
	case !lowerRe.MatchString(password):
		return msgPasswordLower
	case !digitRe.MatchString(password):
		return msgPasswordDigit
	case !symbolRe.MatchString(password):
		return msgPasswordSymbol
	}
	return ""
}

// NormalizeName sanitizes a display name and collapses runs of whitespace.
func NormalizeName(name string) string {
	return spaceRe.ReplaceAllString(SanitizeInput(name), " ")
}

// ValidateName returns the first failing rule for a normalized display name, or "".
func ValidateName(name string) string {
	switch {
	case len(name) < MinNameLength:
		return msgNameShort
	case len(name) > MaxNameLength:
		return msgNameLong
	case !nameRe.MatchString(name):
		return msgNameInvalid
	}
	return ""
}

type SignInForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize returns a copy with the email normalized.
func (f SignInForm) Normalize() SignInForm {
	f.Email = NormalizeEmail(f.Email)
	return f
}

// Validate collects the first failing rule of each field, email first. An empty result
// means the form may be submitted.
func (f SignInForm) Validate() []string {
	var messages []string
	if msg := ValidateEmail(NormalizeEmail(f.Email)); msg != "" {
		messages = append(messages, msg)
	}
	if msg := ValidatePassword(f.Password); msg != "" {
		messages = append(messages, msg)
	}
	return messages
}

type SignUpForm struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

func (f SignUpForm) Normalize() SignUpForm {
	f.Email = NormalizeEmail(f.Email)
	f.FullName = NormalizeName(f.FullName)
	return f
}

// Validate checks email, password, name and confirmation in that order.
func (f SignUpForm) Validate() []string {
	messages := SignInForm{Email: f.Email, Password: f.Password}.Validate()
	if msg := ValidateName(NormalizeName(f.FullName)); msg != "" {
		messages = append(messages, msg)
	}
	if f.Password != f.ConfirmPassword {
		messages = append(messages, msgPasswordMismatch)
	}
	return messages
}
