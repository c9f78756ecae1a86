package wallet

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// StripeCharger charges cards through Stripe. Amounts are iMoney units;
// each unit is billed as one major currency unit (100 minor units).
type StripeCharger struct {
	currency string
}

// NewStripeCharger configures the global Stripe client with the given secret
// key and returns a charger billing in the given currency.
func NewStripeCharger(secretKey, currency string) *StripeCharger {
	stripe.Key = secretKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeCharger{currency: currency}
}

func (c *StripeCharger) Charge(ctx context.Context, cardToken string, amount int64, description string) (string, error) {
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(amount * 100),
		Currency:    stripe.String(c.currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(cardToken); err != nil {
		return "", fmt.Errorf("invalid card token: %w", err)
	}

	ch, err := charge.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge failed: %w", err)
	}
	return ch.ID, nil
}
