package models

// Agency is a partner that earns a commission percentage of gross bookings.
type Agency struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	CommissionPercent float64 `json:"commissionPercent"`
	IsActive          bool    `json:"isActive"`
}
