// Package errors provides the error taxonomy for netchat.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Sentinel errors for common cases
var (
	ErrMissingCredential = errors.New("GEMINI_API_KEY environment variable not found")
	ErrNoContent         = errors.New("no content in response")
	ErrEmptyRequest      = errors.New("request has no turns")
	ErrBusy              = errors.New("a reply is still in progress")
	ErrAuthFailed        = errors.New("authentication failed")
)

// ConfigError represents an invalid or unreadable configuration
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error at %s: %s", e.Key, e.Message)
}

// NewConfigError creates a new ConfigError
func NewConfigError(key, message string) *ConfigError {
	return &ConfigError{Key: key, Message: message}
}

// AuthError represents a rejected or invalid API key
type AuthError struct {
	StatusCode int // 0 when the rejection came over gRPC
	Message    string
	Err        error
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "authentication failed: check GEMINI_API_KEY"
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is allows comparison with sentinel errors
func (e *AuthError) Is(target error) bool {
	if target == ErrAuthFailed {
		return true
	}
	_, ok := target.(*AuthError)
	return ok
}

// APIError represents a service-side failure that is not covered by a more specific type
type APIError struct {
	StatusCode int
	Status     string // gRPC code name or HTTP status text
	Reason     string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d %s]: %s", e.StatusCode, e.Status, e.Message)
	}
	if e.Status != "" {
		return fmt.Sprintf("API error [%s]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// TimeoutError represents a request that exceeded a deadline
type TimeoutError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// UsageLimitError represents quota exhaustion
type UsageLimitError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

func (e *UsageLimitError) Unwrap() error { return e.Err }

// NetworkError represents a transport failure before the service answered
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("network error: %v", e.Err)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BlockedError represents a prompt or reply blocked by the service's safety filters
type BlockedError struct {
	Message string
	Err     error
}

func (e *BlockedError) Error() string {
	if e.Message == "" {
		return "content blocked"
	}
	return fmt.Sprintf("content blocked: %s", e.Message)
}

func (e *BlockedError) Unwrap() error { return e.Err }

// Classify maps an error returned by the Gemini SDK or the transport below it
// onto the taxonomy in this package. Errors that are already classified, and
// errors nothing matches, are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	switch err.(type) {
	case *AuthError, *APIError, *TimeoutError, *UsageLimitError, *NetworkError, *BlockedError, *ConfigError:
		return err
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &BlockedError{Message: blockedMessage(blocked), Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Message: err.Error(), Err: err}
	}

	var ae *apierror.APIError
	if errors.As(err, &ae) {
		if code := ae.HTTPCode(); code > 0 {
			return fromHTTP(code, ae.Reason(), apiMessage(ae), err)
		}
		if st := ae.GRPCStatus(); st != nil {
			return fromGRPC(st.Code(), ae.Reason(), st.Message(), err)
		}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		reason := ""
		if len(gerr.Errors) > 0 {
			reason = gerr.Errors[0].Reason
		}
		return fromHTTP(gerr.Code, reason, gerr.Message, err)
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown && st.Code() != codes.OK {
		return fromGRPC(st.Code(), "", st.Message(), err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && !opErr.Timeout() {
		return &NetworkError{Op: opErr.Op, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &TimeoutError{Message: err.Error(), Err: err}
		}
		return &NetworkError{Op: "generate", Err: err}
	}

	return err
}

func fromHTTP(code int, reason, message string, err error) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden || isKeyReason(reason):
		return &AuthError{StatusCode: code, Message: message, Err: err}
	case code == http.StatusTooManyRequests:
		return &UsageLimitError{StatusCode: code, Message: message, Err: err}
	case code == http.StatusGatewayTimeout || code == http.StatusRequestTimeout:
		return &TimeoutError{StatusCode: code, Message: message, Err: err}
	default:
		return &APIError{StatusCode: code, Status: http.StatusText(code), Reason: reason, Message: message, Err: err}
	}
}

func fromGRPC(code codes.Code, reason, message string, err error) error {
	switch {
	case code == codes.Unauthenticated || code == codes.PermissionDenied || isKeyReason(reason):
		return &AuthError{Message: message, Err: err}
	case code == codes.ResourceExhausted:
		return &UsageLimitError{Message: message, Err: err}
	case code == codes.DeadlineExceeded:
		return &TimeoutError{Message: message, Err: err}
	case code == codes.Unavailable:
		return &NetworkError{Op: "generate", Err: err}
	default:
		return &APIError{Status: code.String(), Reason: reason, Message: message, Err: err}
	}
}

// isKeyReason matches the reason Google attaches to INVALID_ARGUMENT when the key is bad
func isKeyReason(reason string) bool {
	return reason == "API_KEY_INVALID" || reason == "API_KEY_SERVICE_BLOCKED"
}

func apiMessage(ae *apierror.APIError) string {
	if st := ae.GRPCStatus(); st != nil && st.Message() != "" {
		return st.Message()
	}
	if ae.Unwrap() != nil {
		var gerr *googleapi.Error
		if errors.As(ae.Unwrap(), &gerr) && gerr.Message != "" {
			return gerr.Message
		}
	}
	return ae.Error()
}

func blockedMessage(b *genai.BlockedError) string {
	if b.PromptFeedback != nil {
		return fmt.Sprintf("prompt blocked (%s)", b.PromptFeedback.BlockReason)
	}
	if b.Candidate != nil {
		return fmt.Sprintf("reply blocked (%s)", b.Candidate.FinishReason)
	}
	return ""
}

// IsAuthError returns true if the error is an authentication error
func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsRateLimitError returns true if the error is a usage limit error
func IsRateLimitError(err error) bool {
	var target *UsageLimitError
	return errors.As(err, &target)
}

// IsNetworkError returns true if the error is a transport error
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsTimeoutError returns true if the error is a timeout
func IsTimeoutError(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// IsBlockedError returns true if the service blocked the content
func IsBlockedError(err error) bool {
	var target *BlockedError
	return errors.As(err, &target)
}

// GetHTTPStatus returns the HTTP status behind err, or 0 when the failure
// never got an HTTP answer
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		return apiErr.StatusCode
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.StatusCode > 0 {
		return authErr.StatusCode
	}
	var limitErr *UsageLimitError
	if errors.As(err, &limitErr) && limitErr.StatusCode > 0 {
		return limitErr.StatusCode
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) && timeoutErr.StatusCode > 0 {
		return timeoutErr.StatusCode
	}

	var ae *apierror.APIError
	if errors.As(err, &ae) && ae.HTTPCode() > 0 {
		return ae.HTTPCode()
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code > 0 {
		return gerr.Code
	}
	return 0
}

// Kind returns a short stable label for logs and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsAuthError(err):
		return "auth"
	case IsRateLimitError(err):
		return "rate_limit"
	case IsTimeoutError(err):
		return "timeout"
	case IsNetworkError(err):
		return "network"
	case IsBlockedError(err):
		return "blocked"
	case errors.Is(err, ErrNoContent):
		return "no_content"
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return "api"
	}
	return "unknown"
}

// Hint returns a one-line suggestion for the user, or "" when there is none
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "Export GEMINI_API_KEY or add it to a .env file in the working directory"
	case IsAuthError(err):
		return "Check that GEMINI_API_KEY is valid and has access to the Gemini API"
	case IsRateLimitError(err):
		return "Quota reached. Try again later or use a different model"
	case IsNetworkError(err):
		return "Check your internet connection and try again"
	case IsTimeoutError(err):
		return "Request timed out. Try again"
	}
	return ""
}
