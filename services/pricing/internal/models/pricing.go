// services/pricing/internal/models/pricing.go
package models

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CSINCE90/bnb-manager-macos-sub000/shared/pkg/domain"
)

// DemandLevel classifies expected demand for a date
type DemandLevel string

const (
	DemandLow      DemandLevel = "low"
	DemandMedium   DemandLevel = "medium"
	DemandHigh     DemandLevel = "high"
	DemandVeryHigh DemandLevel = "very_high"
)

// ModelState is the training state of the price model
type ModelState string

const (
	ModelUntrained ModelState = "untrained"
	ModelTrained   ModelState = "trained"
)

// SuggestionSource tells whether a price came from the model or the fallback rules
type SuggestionSource string

const (
	SourceModel    SuggestionSource = "model"
	SourceFallback SuggestionSource = "fallback"
)

// DefaultLeadTimeDays is used when the caller does not know how far ahead
// the stay is booked.
const DefaultLeadTimeDays = 30

// SuggestionRequest describes a stay to price. Weekday counts from
// 1 = Sunday to 7 = Saturday.
type SuggestionRequest struct {
	Month        int  `json:"month" form:"month" validate:"min=1,max=12"`
	Weekday      int  `json:"weekday" form:"weekday" validate:"min=1,max=7"`
	GuestCount   int  `json:"guest_count" form:"guest_count" validate:"min=1,max=50"`
	Nights       int  `json:"nights" form:"nights" validate:"min=0,max=365"`
	LeadTimeDays *int `json:"lead_time_days,omitempty" form:"lead_time_days" validate:"omitempty,min=0"`
}

var validate = validator.New()

// Validate applies the request's field rules
func (r SuggestionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return domain.Invalid("%v", err)
	}
	return nil
}

// LeadTime returns the requested lead time, or DefaultLeadTimeDays when unset
func (r SuggestionRequest) LeadTime() int {
	if r.LeadTimeDays == nil {
		return DefaultLeadTimeDays
	}
	return *r.LeadTimeDays
}

// PriceSuggestion is a suggested nightly price with its range
type PriceSuggestion struct {
	Price        float64          `json:"price"`
	Confidence   float64          `json:"confidence"`
	MinPrice     float64          `json:"min_price"`
	MaxPrice     float64          `json:"max_price"`
	DemandLevel  DemandLevel      `json:"demand_level"`
	Reasoning    string           `json:"reasoning"`
	GuestCount   int              `json:"guest_count"`
	Source       SuggestionSource `json:"source"`
	Clamped      bool             `json:"clamped,omitempty"`
	ModelVersion int              `json:"model_version"`
}

// ModelStatus describes the current model
type ModelStatus struct {
	State         ModelState `json:"state"`
	Accuracy      float64    `json:"accuracy"`
	SampleCount   int        `json:"sample_count"`
	Version       int        `json:"version"`
	TrainedAt     *time.Time `json:"trained_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// CalendarDay is one day of the pricing calendar
type CalendarDay struct {
	Date        time.Time         `json:"date"`
	Occupied    bool              `json:"occupied"`
	Suggestions []PriceSuggestion `json:"suggestions"`
}
