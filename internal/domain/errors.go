package domain

import (
	"errors"
	"fmt"
)

// Reason is the machine-readable admission outcome surfaced to the UI layer.
type Reason string

const (
	ReasonInvalidSlot         Reason = "invalid_slot"
	ReasonSeasonNotConfigured Reason = "season_not_configured"
	ReasonBelowMinimum        Reason = "below_minimum"
	ReasonCapacityExceeded    Reason = "capacity_exceeded"
	ReasonConcurrentConflict  Reason = "concurrent_conflict"
	ReasonValidation          Reason = "validation_error"
	ReasonPersistence         Reason = "persistence_error"
)

// AdmissionError rejects a reservation request with a typed reason.
// Remaining is set for capacity rejections (clamped at 0).
type AdmissionError struct {
	Reason    Reason
	Msg       string
	Remaining *int
}

func (e AdmissionError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Reason)
}

// AdmissionReason extracts the reason code when err is an AdmissionError.
func AdmissionReason(err error) (Reason, bool) {
	var target AdmissionError
	if errors.As(err, &target) {
		return target.Reason, true
	}
	return "", false
}

// AdmissionRemaining reports the remaining capacity attached to err, if any.
func AdmissionRemaining(err error) (int, bool) {
	var target AdmissionError
	if errors.As(err, &target) && target.Remaining != nil {
		return *target.Remaining, true
	}
	return 0, false
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// PersistenceError wraps storage failures. Never retried by the core.
type PersistenceError struct {
	Msg string
	Err error
}

func (e PersistenceError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "persistence error"
}

func (e PersistenceError) Unwrap() error { return e.Err }

func IsAdmission(err error) bool {
	var target AdmissionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target PersistenceError
	return errors.As(err, &target)
}
