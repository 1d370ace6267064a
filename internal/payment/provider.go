package payment

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ProviderError carries the payment provider's own message back to the
// client.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return "payment provider: " + e.Message
}

// IntentCreator opens a payment intent for an amount in minor units and
// returns its client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

var ErrAmountOutOfRange = errors.New("amount out of range")

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits converts a major-unit amount (dollars) to minor units (cents),
// rounding half away from zero. Amounts that do not fit in an int64 of cents
// are rejected.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrAmountOutOfRange
	}
	m := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if m.GreaterThan(maxMinor) || m.LessThan(minMinor) {
		return 0, ErrAmountOutOfRange
	}
	return m.IntPart(), nil
}

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) *StripeProvider {
	return newStripeProvider(secretKey, nil)
}

// newStripeProvider lets tests point the API backend at a local server.
// Network retries are disabled.
func newStripeProvider(secretKey string, url *string) *StripeProvider {
	api := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               url,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return &StripeProvider{api: client.New(secretKey, &stripe.Backends{
		API:     api,
		Connect: stripe.GetBackend(stripe.ConnectBackend),
		Uploads: stripe.GetBackend(stripe.UploadsBackend),
	})}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return "", &ProviderError{Message: se.Msg}
		}
		return "", &ProviderError{Message: err.Error()}
	}
	return pi.ClientSecret, nil
}
