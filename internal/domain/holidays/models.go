package holidays

import "time"

type PublicHoliday struct {
	ID          string    `json:"id"`
	CountryCode string    `json:"countryCode"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Recurring   bool      `json:"recurring"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"createdAt"`
}
