// Package booking holds the lifecycle rules for booking status and payment
// status. Transitions are explicit staff actions; nothing moves on its own
// when a trip date passes.
package booking

import (
	"strings"

	"backend/internal/domain"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentPartial   PaymentStatus = "Partial"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentCancelled PaymentStatus = "Cancelled"
)

// transitions: Completed e Cancelled são estados terminais.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.TrimSpace(s)) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(strings.TrimSpace(s)), nil
	}
	return "", domain.ValidationError{Field: "status", Msg: "status desconhecido: " + s}
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.TrimSpace(s)) {
	case PaymentPending, PaymentPartial, PaymentCompleted, PaymentCancelled:
		return PaymentStatus(strings.TrimSpace(s)), nil
	}
	return "", domain.ValidationError{Field: "payment_status", Msg: "status de pagamento desconhecido: " + s}
}

// CanTransition reports whether a staff action may move from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Initial picks the starting pair for a new booking. Customer bookings
// always begin Pending/Pending; staff may choose Pending or Confirmed.
func Initial(staff bool, requested string) (Status, PaymentStatus) {
	if staff {
		if st, err := ParseStatus(requested); err == nil && (st == StatusPending || st == StatusConfirmed) {
			return st, PaymentPending
		}
	}
	return StatusPending, PaymentPending
}

// IsTerminal reports whether no further status transition is allowed.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}
