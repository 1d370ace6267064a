package payment

import (
	"context"
	"errors"
	"time"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/obs"
)

var ErrPayerRequired = errors.New("payerId is required")

// Service provides business logic for payments.
type Service struct {
	repo     Repository
	provider IntentCreator
	currency string
	now      func() time.Time
}

func NewService(r Repository, provider IntentCreator, currency string) *Service {
	return &Service{repo: r, provider: provider, currency: currency, now: time.Now}
}

// CreateIntent asks the provider for an intent of amount major units and
// returns the client secret.
func (s *Service) CreateIntent(ctx context.Context, amount float64) (string, error) {
	minor, err := ToMinorUnits(amount)
	if err != nil {
		return "", err
	}
	secret, err := s.provider.CreateIntent(ctx, minor, s.currency)
	if err != nil {
		obs.Logger.Warn("payment_intent_failed", "amount_minor", minor, "currency", s.currency, "error", err)
		return "", err
	}
	return secret, nil
}

// Save stores the record as sent, stamping the current time when no date was
// given.
func (s *Service) Save(ctx context.Context, p Payment) (database.InsertResult, error) {
	if p.PayerID == "" {
		return database.InsertResult{}, ErrPayerRequired
	}
	if p.Date.IsZero() {
		p.Date = s.now().UTC()
	}
	return s.repo.Insert(ctx, p)
}

func (s *Service) Summary(ctx context.Context) ([]PayerSummary, error) {
	return s.repo.Summary(ctx)
}
