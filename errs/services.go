package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Third-party service errors (object storage, auth provider, email)
var (
	ErrServiceUnreachable = errors.New("service unreachable")
	ErrStorage            = errors.New("object storage failure")
	ErrUnsupportedUpload  = errors.New("unsupported upload")
	ErrEmailDelivery      = errors.New("email delivery failed")
)

func NewServiceUnreachableError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrServiceUnreachable,
		Details:    fmt.Sprintf("Service %s is unreachable", service),
		Cause:      cause,
	}
}

func NewStorageError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrStorage,
		Details:    fmt.Sprintf("Failed to %s", operation),
		Cause:      cause,
	}
}

func NewUnsupportedUploadError(reason string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnsupportedMediaType,
		err:        ErrUnsupportedUpload,
		Details:    reason,
		Field:      "file",
	}
}

func NewEmailDeliveryError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrEmailDelivery,
		Details:    "Your message could not be sent. Please try again.",
		Cause:      cause,
	}
}
