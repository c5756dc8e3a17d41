package domain

import "fmt"

// Currency is a supported asset code.
type Currency string

const (
	CurrencyBTC  Currency = "BTC"
	CurrencyETH  Currency = "ETH"
	CurrencyUSDT Currency = "USDT"
)

// Currencies lists every supported asset.
func Currencies() []Currency {
	return []Currency{CurrencyBTC, CurrencyETH, CurrencyUSDT}
}

// ParseCurrency validates and normalizes a currency code.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyBTC, CurrencyETH, CurrencyUSDT:
		return Currency(s), nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

// Balance holds a simulated per-currency position. ReferenceValue is always
// derived as Amount × unit price; it is recomputed on mutation, never stored
// as independent truth.
type Balance struct {
	Amount         float64 `json:"amount"`
	ReferenceValue float64 `json:"reference_value"`
}

// PriceTable maps a currency to its fixed unit price in the reference
// currency (USD).
type PriceTable map[Currency]float64

// FeeTable maps a currency to its fixed network fee.
type FeeTable map[Currency]float64

// Price returns the unit price for the currency, 1 if unknown.
func (p PriceTable) Price(c Currency) float64 {
	if v, ok := p[c]; ok {
		return v
	}
	return 1
}

// Fee returns the network fee for the currency, 0 if unknown.
func (f FeeTable) Fee(c Currency) float64 {
	return f[c]
}
