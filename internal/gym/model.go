package gym

// Equipment is one machine/amenity line on the gym detail view.
type Equipment struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Slot is a bookable time window offered by a gym. Slots arrive embedded
// in the Gym payload and are never mutated client-side.
type Slot struct {
	ID         int64   `json:"id"`
	StartTime  string  `json:"start_time"`
	Capacity   int     `json:"capacity"`
	Price      float64 `json:"price"`
	TimePeriod int     `json:"time_period"`
}

// Gym is the read-only directory entry fetched from the remote API.
type Gym struct {
	ID                 int64       `json:"id"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	City               string      `json:"city"`
	Images             []string    `json:"images"`
	Equipment          []Equipment `json:"equipment_list"`
	Rating             float64     `json:"rating"`
	Distance           float64     `json:"distance"`
	SubscriptionPrices []float64   `json:"subscription_prices"`
	Slots              []Slot      `json:"slots"`
}
