package models

// Category groups instruments for display and for risk-profile selection.
type Category string

const (
	CategoryIndex     Category = "indices"
	CategoryCrypto    Category = "crypto"
	CategoryCommodity Category = "commodities"
	CategoryForex     Category = "forex"
	CategoryEquity    Category = "stocks"
)

// RiskProfile holds the ATR multipliers applied to stop-loss and take-profit.
type RiskProfile struct {
	StopMult   float64
	TargetMult float64
}

var (
	// DefaultRisk is the baseline 1:2 profile.
	DefaultRisk = RiskProfile{StopMult: 2.0, TargetMult: 4.0}
	// HighVolatilityRisk widens levels for instruments prone to violent
	// intraday swings (precious metals).
	HighVolatilityRisk = RiskProfile{StopMult: 2.5, TargetMult: 5.0}
)

// AssetProfile describes one tradable instrument in the catalog.
type AssetProfile struct {
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	Currency       string   `json:"currency"`
	HighVolatility bool     `json:"high_volatility"`
}

// Risk returns the profile's ATR multipliers.
func (a AssetProfile) Risk() RiskProfile {
	if a.HighVolatility {
		return HighVolatilityRisk
	}
	return DefaultRisk
}

// DefaultCatalog mirrors the instrument set the dashboard scans out of the
// box. Config may override it entirely.
func DefaultCatalog() []AssetProfile {
	return []AssetProfile{
		{Symbol: "^NSEI", Name: "NIFTY 50", Category: CategoryIndex, Currency: "₹"},
		{Symbol: "^NSEBANK", Name: "BANK NIFTY", Category: CategoryIndex, Currency: "₹"},
		{Symbol: "^BSESN", Name: "SENSEX", Category: CategoryIndex, Currency: "₹"},

		{Symbol: "BTC-USD", Name: "Bitcoin", Category: CategoryCrypto, Currency: "$"},
		{Symbol: "ETH-USD", Name: "Ethereum", Category: CategoryCrypto, Currency: "$"},
		{Symbol: "SOL-USD", Name: "Solana", Category: CategoryCrypto, Currency: "$"},

		{Symbol: "GC=F", Name: "Gold", Category: CategoryCommodity, Currency: ""},
		{Symbol: "SI=F", Name: "Silver", Category: CategoryCommodity, Currency: "", HighVolatility: true},
		{Symbol: "CL=F", Name: "Crude Oil", Category: CategoryCommodity, Currency: ""},

		{Symbol: "USDINR=X", Name: "USD/INR", Category: CategoryForex, Currency: ""},
		{Symbol: "EURUSD=X", Name: "EUR/USD", Category: CategoryForex, Currency: ""},

		{Symbol: "AAPL", Name: "Apple", Category: CategoryEquity, Currency: "$"},
		{Symbol: "TSLA", Name: "Tesla", Category: CategoryEquity, Currency: "$"},
		{Symbol: "NVDA", Name: "NVIDIA", Category: CategoryEquity, Currency: "$"},
	}
}

// CatalogIndex builds a symbol lookup over a catalog slice.
func CatalogIndex(catalog []AssetProfile) map[string]AssetProfile {
	idx := make(map[string]AssetProfile, len(catalog))
	for _, a := range catalog {
		idx[a.Symbol] = a
	}
	return idx
}
