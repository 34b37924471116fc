package models

import "time"

// ParticipantCounts splits a party by pricing category.
type ParticipantCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Babies   int `json:"babies"`
}

func (c ParticipantCounts) Total() int {
	return c.Adults + c.Children + c.Babies
}

// Booking is a committed reservation on a slot (adventure, date, time).
// Amounts are fixed at creation; later price edits never touch them.
type Booking struct {
	ID               int64     `json:"id"`
	Reference        string    `json:"reference"`
	AdventureID      int64     `json:"adventureId"`
	AgencyID         *int64    `json:"agencyId,omitempty"`
	TripDate         string    `json:"tripDate"`
	TripTime         string    `json:"tripTime"`
	Adults           int       `json:"adults"`
	Children         int       `json:"children"`
	Babies           int       `json:"babies"`
	CustomerName     string    `json:"customerName"`
	CustomerPhone    string    `json:"customerPhone"`
	PaymentMethod    string    `json:"paymentMethod"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	TotalAmount      float64   `json:"totalAmount"`
	CommissionAmount float64   `json:"commissionAmount"`
	NetAmount        float64   `json:"netAmount"`
	DepositAmount    float64   `json:"depositAmount"`
	CreatedAt        time.Time `json:"createdAt"`
}
