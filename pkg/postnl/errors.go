package postnl

import (
	"errors"
	"fmt"
)

// ClientError represents an error from the PostNL consumer API.
type ClientError struct {
	Op         string // operation that failed, e.g. "login", "get_packages"
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("postnl %s (%s): %s: %v", e.Op, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("postnl %s (%s): %s", e.Op, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ClientError.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewClientError creates a new ClientError.
func NewClientError(op, code, message string) *ClientError {
	return &ClientError{
		Op:      op,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *ClientError) WithCause(err error) *ClientError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *ClientError) WithStatusCode(code int) *ClientError {
	e.StatusCode = code
	return e
}

// Sentinel errors for the authentication and fetch flows.
var (
	// ErrInvalidCredentials indicates the provider rejected the username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBlocked indicates the login was refused by the provider's bot detection.
	// Retrying immediately will not help; wait before logging in again.
	ErrBlocked = errors.New("connection blocked by provider")

	// ErrNoVerificationToken indicates the login page did not contain a request
	// verification token.
	ErrNoVerificationToken = errors.New("no request verification token in login page")

	// ErrNoStaticURL indicates the login page did not contain the expected
	// validation script URL.
	ErrNoStaticURL = errors.New("no validation script url in login page")

	// ErrUnexpectedResponse indicates the provider response did not match the
	// expected shape during authentication.
	ErrUnexpectedResponse = errors.New("unexpected authentication response")

	// ErrUnauthorized indicates the session was rejected or has expired.
	// The caller should re-authenticate.
	ErrUnauthorized = errors.New("session unauthorized")

	// ErrDecode indicates a response body was incompatible with the expected
	// schema. Unrecognized enumeration values are not decode errors.
	ErrDecode = errors.New("response decode failed")

	// ErrPackageNotFound indicates the requested package key does not exist.
	ErrPackageNotFound = errors.New("package not found")

	// ErrNotLoggedIn indicates an operation that needs a session was called
	// before Login.
	ErrNotLoggedIn = errors.New("not logged in")
)

// IsAuthError returns true if the error requires the caller to obtain fresh
// credentials or a fresh session before retrying.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrBlocked) ||
		errors.Is(err, ErrNotLoggedIn)
}
