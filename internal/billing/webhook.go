package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

var ErrUnknownPlan = errors.New("unknown plan")

// VerifyEvent checks the Stripe-Signature header against the endpoint secret.
func (s *Service) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.cfg.WebhookSecret)
}

// HandleEvent applies one verified webhook event. Unhandled event types are
// acknowledged and ignored; Stripe retries on error returns, so only genuine
// processing failures bubble up.
func (s *Service) HandleEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.onCheckoutCompleted(ctx, event)
	case "customer.subscription.created", "customer.subscription.updated":
		return s.onSubscriptionChanged(ctx, event)
	case "customer.subscription.deleted":
		return s.onSubscriptionDeleted(ctx, event)
	case "invoice.payment_failed":
		return s.onPaymentFailed(ctx, event)
	}
	return nil
}

// onCheckoutCompleted links the new Stripe customer to the account that
// started the checkout.
func (s *Service) onCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("checkout.session.completed payload: %w", err)
	}
	if sess.ClientReferenceID == "" || sess.Customer == nil {
		return nil
	}

	subID := ""
	if sess.Subscription != nil {
		subID = sess.Subscription.ID
	}
	return s.users.SetStripeIDs(ctx, sess.ClientReferenceID, sess.Customer.ID, subID)
}

// onSubscriptionChanged mirrors the subscribed price onto the user's tier.
func (s *Service) onSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	sub, err := decodeSubscription(event)
	if err != nil {
		return err
	}

	u, err := s.users.GetByStripeCustomer(ctx, sub.Customer.ID)
	if err != nil {
		// The subscription webhook can race checkout.session.completed;
		// Stripe will redeliver once the customer link exists.
		return fmt.Errorf("subscription for unknown customer %s: %w", sub.Customer.ID, err)
	}

	plan := plans.PlanFree
	if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
		plan = s.planForPrice(subscriptionPriceID(sub))
	}

	if err := s.users.SetStripeIDs(ctx, u.ID, sub.Customer.ID, sub.ID); err != nil {
		return err
	}
	return s.setPlan(ctx, u.ID, plan)
}

// onSubscriptionDeleted drops the user back to free.
func (s *Service) onSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	sub, err := decodeSubscription(event)
	if err != nil {
		return err
	}

	u, err := s.users.GetByStripeCustomer(ctx, sub.Customer.ID)
	if err != nil {
		return fmt.Errorf("subscription delete for unknown customer %s: %w", sub.Customer.ID, err)
	}

	if err := s.users.SetStripeIDs(ctx, u.ID, sub.Customer.ID, ""); err != nil {
		return err
	}
	return s.setPlan(ctx, u.ID, plans.PlanFree)
}

// onPaymentFailed only logs. Stripe's own dunning flow decides whether the
// subscription survives; the tier changes when the subscription status does.
func (s *Service) onPaymentFailed(_ context.Context, event stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("invoice.payment_failed payload: %w", err)
	}
	if inv.Customer != nil {
		log.Printf("stripe payment failed for customer %s (invoice %s)", inv.Customer.ID, inv.ID)
	}
	return nil
}

func decodeSubscription(event stripe.Event) (*stripe.Subscription, error) {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return nil, fmt.Errorf("%s payload: %w", event.Type, err)
	}
	if sub.Customer == nil {
		return nil, fmt.Errorf("%s payload: missing customer", event.Type)
	}
	return &sub, nil
}

func subscriptionPriceID(sub *stripe.Subscription) string {
	if sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return ""
	}
	return sub.Items.Data[0].Price.ID
}
