package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Protocol-Lattice/planagent/src/cache"
	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

const DefaultExchangeRatesURL = "https://open.er-api.com/v6/latest"

// DefaultRatesTTL bounds how long fetched rates are reused. The upstream
// API refreshes once a day.
const DefaultRatesTTL = 10 * time.Minute

const currencyDoc = `
Converts currency using latest exchange rates.

Parameters:
    - amount: The amount of money in old currency
    - from_currency: Source currency code (e.g., USD)
    - to_currency: Target currency code (e.g., EUR)
`

// CurrencyConverter converts amounts with the open exchange rates API.
// Rates, when set, caches rate tables per base currency.
type CurrencyConverter struct {
	BaseURL string
	Client  *http.Client
	Rates   *cache.LRU[map[string]float64]
}

// NewCurrencyConverter returns a converter that caches up to 32 rate tables
// for DefaultRatesTTL.
func NewCurrencyConverter(client *http.Client) *CurrencyConverter {
	return &CurrencyConverter{
		Client: client,
		Rates:  cache.NewLRU[map[string]float64](32, DefaultRatesTTL),
	}
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Tool exposes the converter as convert_currency.
func (c *CurrencyConverter) Tool() (*tooldef.Tool, error) {
	return tooldef.New(c.convert,
		tooldef.WithName("convert_currency"),
		tooldef.WithDoc(currencyDoc),
		tooldef.WithParams(
			tooldef.Param("amount", tooldef.Float),
			tooldef.Param("from_currency", tooldef.String),
			tooldef.Param("to_currency", tooldef.String),
		),
	)
}

func (c *CurrencyConverter) convert(ctx context.Context, args tooldef.Args) string {
	amount, ok := args.Float("amount")
	if !ok {
		return "Error converting currency: amount must be a number"
	}
	from, _ := args.String("from_currency")
	to, _ := args.String("to_currency")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		return "Error converting currency: from_currency and to_currency are required"
	}

	return c.Convert(ctx, amount, from, to)
}

// Convert returns "<amount> <FROM> = <converted> <TO>" or an error string.
func (c *CurrencyConverter) Convert(ctx context.Context, amount float64, from, to string) string {
	from, to = strings.ToUpper(from), strings.ToUpper(to)

	rates, err := c.rates(ctx, from)
	if err != nil {
		return fmt.Sprintf("Error converting currency: %v", err)
	}
	if rates == nil {
		return "Error: Could not fetch exchange rates"
	}

	rate, ok := rates[to]
	if !ok || rate == 0 {
		return fmt.Sprintf("Error: Could not find exchange rate for %s -> %s", from, to)
	}

	return fmt.Sprintf("%s %s = %.2f %s", formatNumber(amount), from, amount*rate, to)
}

func (c *CurrencyConverter) rates(ctx context.Context, from string) (map[string]float64, error) {
	if c.Rates != nil {
		if rates, ok := c.Rates.Get(from); ok {
			return rates, nil
		}
	}

	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = DefaultExchangeRatesURL
	}
	var data ratesResponse
	if err := getJSON(ctx, defaultClient(c.Client), base+"/"+url.PathEscape(from), &data); err != nil {
		return nil, err
	}
	if data.Rates != nil && c.Rates != nil {
		c.Rates.Set(from, data.Rates)
	}
	return data.Rates, nil
}
