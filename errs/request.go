package errs

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

var (
	Unauthorized = NewApiErr(http.StatusUnauthorized, "unauthorized")
)

// Request & Input-Validation Errors
var (
	ErrValidation           = errors.New("validation failed")
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidField         = errors.New("invalid field")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Authentication & Authorization Errors
var (
	ErrInvalidCredentials = errors.New("Invalid email or password. Please try again.")
	ErrEmailInUse         = errors.New("This email is already in use. Please sign in instead.")
	ErrSignUpFailed       = errors.New("Unable to create account. Please try again.")
	ErrAuthFailed         = errors.New("Authentication error. Please try again.")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
	ErrInsufficientRole   = errors.New("insufficient role")
	ErrSignInRequired     = errors.New("sign in required")
)

func BadRequest(message string) *ApiErr {
	return NewApiErr(http.StatusBadRequest, message)
}

// NewValidationErrors carries the full list of failing rules so the caller can show them verbatim.
func NewValidationErrors(messages []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		Messages:   messages,
	}
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMalformedPayload,
		Details:    fmt.Sprintf("Malformed %s payload", payloadType),
		Cause:      cause,
		Field:      "payload",
	}
}

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrMissingRequiredField,
		Details:    fmt.Sprintf("Missing required field: %s", fieldName),
		Field:      fieldName,
	}
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidField,
		Details:    fmt.Sprintf("Invalid field %s: %s", fieldName, reason),
		Field:      fieldName,
	}
}

// NewConfirmationRequiredError is returned by destructive endpoints called without confirm=true.
func NewConfirmationRequiredError(action string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusPreconditionRequired,
		err:        ErrConfirmationRequired,
		Details:    fmt.Sprintf("Repeat the request with confirm=true to %s", action),
		Field:      "confirm",
	}
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrInvalidCredentials}
}

func NewEmailInUseError() *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: ErrEmailInUse, Field: "email"}
}

func NewSignUpFailedError(cause error) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadGateway, err: ErrSignUpFailed, Cause: cause}
}

func NewAuthServiceError(cause error) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadGateway, err: ErrAuthFailed, Cause: cause}
}

// NewTooManyAttemptsError reports the remaining lockout rounded up to whole minutes.
func NewTooManyAttemptsError(remaining time.Duration) *ApiErr {
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrTooManyAttempts,
		Details:    fmt.Sprintf("Too many failed attempts. Please try again in %d minutes.", minutes),
		RetryAfter: remaining,
	}
}

func NewSignInRequiredError(action string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrSignInRequired, ErrUnauthorized),
		Details:    fmt.Sprintf("Please sign in to %s", action),
		Field:      "authorization",
	}
}

func NewInsufficientRoleError(requiredRole string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        fmt.Errorf("%w: %w", ErrInsufficientRole, ErrForbidden),
		Details:    fmt.Sprintf("Insufficient role. Required: %s", requiredRole),
		Field:      "authorization",
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsTooManyAttempts(err error) bool {
	return errors.Is(err, ErrTooManyAttempts)
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsEmailInUse(err error) bool {
	return errors.Is(err, ErrEmailInUse)
}
