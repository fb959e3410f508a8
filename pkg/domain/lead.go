package domain

import "time"

// Lead is the submission record handed to the persistence sink.
type Lead struct {
	ID               string       `json:"id"`
	SessionID        string       `json:"session_id"`
	CompanyName      string       `json:"company_name"`
	ContactName      string       `json:"contact_name"`
	Email            string       `json:"email"`
	Phone            string       `json:"phone,omitempty"`
	TeamSize         int          `json:"team_size"`
	RecommendedTrack Track        `json:"recommended_track"`
	Delivery         DeliveryMode `json:"delivery"`
	QuoteValue       Money        `json:"quote_value"`
	CreatedAt        time.Time    `json:"created_at"`
}
