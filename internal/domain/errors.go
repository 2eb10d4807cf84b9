// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and are mapped to transport responses
// by adapters. Store and client adapters raise the most specific kind
// available; the sync coordinator logs and re-raises without swallowing.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a state conflict, such as a favorite that
	// already exists for the user.
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates an operation requiring a session was
	// attempted without one, or the session was rejected.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnavailable indicates a network or transport failure reaching
	// a required dependency.
	ErrUnavailable = errors.New("unavailable")

	// ErrParse indicates a stored or received document could not be
	// decoded into a domain value.
	ErrParse = errors.New("parsing failed")

	// ErrStore indicates a local cache store operation failed.
	ErrStore = errors.New("store operation failed")

	// ErrUpload indicates an image upload failed.
	ErrUpload = errors.New("upload failed")

	// ErrInvalidURL indicates the image host returned an unusable URL.
	ErrInvalidURL = errors.New("invalid url")
)

// Authentication failure reasons reported by the identity provider.
var (
	// ErrInvalidEmail indicates a malformed email address at registration.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrWeakPassword indicates the password did not meet provider rules.
	ErrWeakPassword = errors.New("weak password")

	// ErrEmailInUse indicates the email is already registered.
	ErrEmailInUse = errors.New("email already in use")
)

// NotFoundError provides context for not found errors.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with id %q not found", e.Entity, e.ID)
	}

	return e.Entity + " not found"
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a not found error with context.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewNoQuotesError reports an empty working set or result list.
func NewNoQuotesError() error {
	return &NotFoundError{Entity: "quotes"}
}

// ConflictError provides context for conflict errors.
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %q conflict: %s", e.Entity, e.ID, e.Reason)
	}

	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError creates a conflict error with context.
func NewConflictError(entity, id, reason string) error {
	return &ConflictError{Entity: entity, ID: id, Reason: reason}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AuthError wraps an identity provider failure with its specific reason
// sentinel, so callers can distinguish invalid-email from weak-password
// from email-in-use while still matching the broad kind.
type AuthError struct {
	Op     string // register, login, anonymous-login
	Reason error  // ErrInvalidEmail, ErrWeakPassword, ErrEmailInUse, ErrUnauthenticated
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Reason)
}

// Unwrap returns the reason sentinel for errors.Is() support.
func (e *AuthError) Unwrap() error {
	return e.Reason
}

// NewAuthError creates an authentication error for the given operation.
func NewAuthError(op string, reason error) error {
	return &AuthError{Op: op, Reason: reason}
}

// UnavailableError provides context for network and transport failures.
// The underlying transport cause is carried for diagnostics.
type UnavailableError struct {
	Service string
	Cause   error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("service %q unavailable: %v", e.Service, e.Cause)
	}

	return fmt.Sprintf("service %q unavailable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
// The transport cause is intentionally not unwrapped; callers match the
// kind, not the wire error.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error wrapping the
// transport-layer cause.
func NewUnavailableError(service string, cause error) error {
	return &UnavailableError{Service: service, Cause: cause}
}

// ParseError provides context for document decode failures.
type ParseError struct {
	Entity string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Entity, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ParseError) Unwrap() error {
	return ErrParse
}

// NewParseError creates a parse error with context.
func NewParseError(entity string, cause error) error {
	return &ParseError{Entity: entity, Cause: cause}
}

// StoreError provides context for local cache store failures.
type StoreError struct {
	Op     string // save, fetch, delete, sync
	Entity string
	Cause  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *StoreError) Unwrap() error {
	return ErrStore
}

// NewStoreError creates a store error with context.
func NewStoreError(op, entity string, cause error) error {
	return &StoreError{Op: op, Entity: entity, Cause: cause}
}

// UploadError provides context for image upload failures.
type UploadError struct {
	Target string
	Cause  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("uploading to %s: %v", e.Target, e.Cause)
}

// Unwrap returns the sentinel plus the cause, so callers can match both
// the broad kind and specific reasons like ErrInvalidURL.
func (e *UploadError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUpload}
	}

	return []error{ErrUpload, e.Cause}
}

// NewUploadError creates an upload error with context.
func NewUploadError(target string, cause error) error {
	return &UploadError{Target: target, Cause: cause}
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict checks if an error is a conflict error.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthenticated checks if an error is an authentication error.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsUnavailable checks if an error is a network/transport error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsParse checks if an error is a decode error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsStore checks if an error is a local store error.
func IsStore(err error) bool {
	return errors.Is(err, ErrStore)
}

// IsUpload checks if an error is an upload error.
func IsUpload(err error) bool {
	return errors.Is(err, ErrUpload)
}
