package models

// SeasonSchedule is a date interval plus the legal booking times inside it.
// Dates are full YYYY-MM-DD values; an interval spanning a year boundary is
// stored with explicit years on both ends.
type SeasonSchedule struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Times []string `json:"times"`
}

// HasInterval reports whether both bounds are set. A schedule may have an
// interval and an empty time list; those dates are claimed but not bookable.
func (s SeasonSchedule) HasInterval() bool {
	return s.Start != "" && s.End != ""
}

// Adventure is the bookable tour product.
// MinCapacity nil = sem mínimo; MaxCapacity nil = ilimitado.
type Adventure struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	PriceAdult  float64        `json:"priceAdult"`
	PriceChild  float64        `json:"priceChild"`
	PriceBaby   float64        `json:"priceBaby"`
	MinCapacity *int           `json:"minCapacity"`
	MaxCapacity *int           `json:"maxCapacity"`
	IsActive    bool           `json:"isActive"`
	HighSeason  SeasonSchedule `json:"highSeason"`
	LowSeason   SeasonSchedule `json:"lowSeason"`
}
