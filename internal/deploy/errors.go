package deploy

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
)

// ErrNoRepository is returned when the config names no deploy repository.
var ErrNoRepository = errors.New("cannot find the repository name in the config file")

// AuthError is a push rejected for credentials.
type AuthError struct {
	URL string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("push auth error for %s: %v", e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// NotFoundError is a push to a repository that does not exist.
type NotFoundError struct {
	URL string
	Err error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("push target not found %s: %v", e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

// classifyPushError wraps push failures into typed variants when possible.
func classifyPushError(url string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, transport.ErrAuthenticationRequired), errors.Is(err, transport.ErrAuthorizationFailed):
		return &AuthError{URL: url, Err: err}
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return &NotFoundError{URL: url, Err: err}
	}
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "auth"), strings.Contains(l, "permission"), strings.Contains(l, "denied"):
		return &AuthError{URL: url, Err: err}
	case strings.Contains(l, "not found"), strings.Contains(l, "repository does not exist"):
		return &NotFoundError{URL: url, Err: err}
	}
	return err
}

// isRetryable reports whether a push failure may succeed on a later attempt.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	var nfErr *NotFoundError
	if errors.As(err, &authErr) || errors.As(err, &nfErr) {
		return false
	}
	if strings.Contains(strings.ToLower(err.Error()), "unsupported protocol") {
		return false
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}
	return true
}
