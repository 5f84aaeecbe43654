package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error taxonomy shared by all layers. Handlers map these to HTTP statuses.
var (
	ErrNotFound            = errors.New("not found")
	ErrBadRequest          = errors.New("bad request")
	ErrConflict            = errors.New("conflict")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrFeatureNotAvailable = errors.New("feature not available")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConfiguration       = errors.New("configuration error")
)

// ConflictError a candidate range overlaps an existing appointment
type ConflictError struct {
	AppointmentID int64
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicts with an existing appointment from %s-%s",
		e.Start.Format(TimeFormat), e.End.Format(TimeFormat))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewConflictError builds the error from the conflicting appointment
func NewConflictError(existing *Appointment) *ConflictError {
	return &ConflictError{
		AppointmentID: existing.ID,
		Start:         existing.StartAt,
		End:           existing.EndAt,
	}
}

// QuotaExceededError a plan limit has been reached
type QuotaExceededError struct {
	Kind    ResourceKind
	Current int
	Limit   int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%s limit of %d reached (current %d)", e.Kind.Label(), e.Limit, e.Current)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// FeatureNotAvailableError the plan lacks a feature flag
type FeatureNotAvailableError struct {
	Tier    PlanTier
	Feature Feature
}

func (e *FeatureNotAvailableError) Error() string {
	return fmt.Sprintf("feature %s is not available on plan %s", e.Feature, e.Tier)
}

func (e *FeatureNotAvailableError) Is(target error) bool {
	return target == ErrFeatureNotAvailable
}

// Error a package level sentinel tagged with a taxonomy member.
// Message is safe to show to the caller.
type Error struct {
	Kind    error
	Message string
}

// NewError creates a sentinel matching kind with errors.Is
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}
