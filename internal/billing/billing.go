// Package billing glues Stripe subscriptions to the plan tier stored on the
// user record. Stripe is the source of truth for payment state; we only
// mirror the resulting tier.
package billing

import (
	"context"

	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/flowforge-labs/flowforge-backend/internal/users"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// Config carries the Stripe keys and the price ids for the paid tiers.
type Config struct {
	WebhookSecret string
	PriceStarter  string
	PricePro      string
}

// UserStore is the slice of the user repository billing needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
	GetByStripeCustomer(ctx context.Context, customerID string) (*users.User, error)
	SetPlan(ctx context.Context, userID string, plan plans.PlanType) error
	SetStripeIDs(ctx context.Context, userID, customerID, subscriptionID string) error
}

// PlanCache refreshes the advisory plan copy in Redis after a tier change.
type PlanCache interface {
	CachePlan(ctx context.Context, userID string, plan plans.PlanType) error
}

// SessionCreator abstracts checkout session creation for tests.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeSessions struct{}

func (stripeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

type Service struct {
	cfg      Config
	users    UserStore
	cache    PlanCache
	sessions SessionCreator
}

func NewService(cfg Config, userStore UserStore, cache PlanCache) *Service {
	return &Service{cfg: cfg, users: userStore, cache: cache, sessions: stripeSessions{}}
}

// priceID resolves the Stripe price for a paid tier; free has no price.
func (s *Service) priceID(plan plans.PlanType) string {
	switch plan {
	case plans.PlanStarter:
		return s.cfg.PriceStarter
	case plans.PlanPro:
		return s.cfg.PricePro
	}
	return ""
}

// planForPrice is the inverse mapping, used by the webhook.
func (s *Service) planForPrice(priceID string) plans.PlanType {
	switch priceID {
	case s.cfg.PriceStarter:
		return plans.PlanStarter
	case s.cfg.PricePro:
		return plans.PlanPro
	}
	return plans.PlanFree
}

// CreateCheckout opens a subscription checkout session for the given user and
// tier. The user's database id rides along as client_reference_id so the
// completion webhook can link the Stripe customer back to the account.
func (s *Service) CreateCheckout(ctx context.Context, userID string, plan plans.PlanType, successURL, cancelURL string) (string, error) {
	price := s.priceID(plan)
	if price == "" {
		return "", ErrUnknownPlan
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(successURL),
		CancelURL:         stripe.String(cancelURL),
		ClientReferenceID: stripe.String(userID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
	}
	if u.StripeCustomerID != "" {
		params.Customer = stripe.String(u.StripeCustomerID)
	} else if u.Email != "" {
		params.CustomerEmail = stripe.String(u.Email)
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

// setPlan updates Postgres and refreshes the Redis copy in one place.
func (s *Service) setPlan(ctx context.Context, userID string, plan plans.PlanType) error {
	if err := s.users.SetPlan(ctx, userID, plan); err != nil {
		return err
	}
	return s.cache.CachePlan(ctx, userID, plan)
}
