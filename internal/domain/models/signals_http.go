package models

// Requests for the signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsRequest struct {
	Category string `query:"category" json:"category" default:"" validate:"omitempty,oneof=indices crypto commodities forex stocks"`
	MinBand  string `query:"min_band" json:"min_band" default:"WEAK" validate:"oneof=WEAK MODERATE STRONG"`
}

type SignalRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

type RefreshRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"omitempty"`
}
