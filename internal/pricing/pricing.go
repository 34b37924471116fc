// Package pricing computes booking totals and the agency commission split.
package pricing

import (
	"backend/internal/domain/models"
	"backend/internal/utils"
)

// Quote carries the financial breakdown of a booking request.
type Quote struct {
	Gross      float64 `json:"gross"`
	Commission float64 `json:"commission"`
	Net        float64 `json:"net"`
}

// Compute prices a party against the adventure's unit prices in effect now.
// feePercent is the agency commission (0 for private bookings). Amounts stay
// unrounded here; round only at the persistence boundary.
func Compute(adv models.Adventure, counts models.ParticipantCounts, feePercent float64) Quote {
	gross := float64(counts.Adults)*adv.PriceAdult +
		float64(counts.Children)*adv.PriceChild +
		float64(counts.Babies)*adv.PriceBaby
	commission := gross * feePercent / 100
	return Quote{
		Gross:      gross,
		Commission: commission,
		Net:        gross - commission,
	}
}

// Rounded returns the quote with every amount rounded to 2 decimal places.
func (q Quote) Rounded() Quote {
	return Quote{
		Gross:      utils.RoundMoney(q.Gross),
		Commission: utils.RoundMoney(q.Commission),
		Net:        utils.RoundMoney(q.Net),
	}
}
