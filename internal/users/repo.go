// Package users persists the authenticated-user records mirrored from the
// identity provider, including the subscription tier Stripe maintains.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowforge-labs/flowforge-backend/internal/plans"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type User struct {
	ID                   string         `json:"id"`
	SupabaseUID          string         `json:"-"`
	Email                string         `json:"email"`
	DisplayName          string         `json:"name"`
	AvatarURL            string         `json:"avatar,omitempty"`
	Plan                 plans.PlanType `json:"plan"`
	StripeCustomerID     string         `json:"-"`
	StripeSubscriptionID string         `json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

type UpsertUser struct {
	SupabaseUID string
	Email       string
	DisplayName string
	AvatarURL   string
}

// EnsureUser upserts the identity record on first sight and returns the
// database user id. Profile fields only ever fill in, never blank out.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (string, error) {
	if u.SupabaseUID == "" {
		return "", fmt.Errorf("supabase_uid required")
	}

	const q = `
insert into users (supabase_uid, email, display_name, avatar_url, plan, updated_at)
values ($1, nullif($2,''), nullif($3,''), nullif($4,''), 'free', now())
on conflict (supabase_uid) do update
set
  email = coalesce(excluded.email, users.email),
  display_name = coalesce(excluded.display_name, users.display_name),
  avatar_url = coalesce(excluded.avatar_url, users.avatar_url),
  updated_at = now()
returning id::text;
`
	var id string
	if err := r.db.QueryRow(ctx, q, u.SupabaseUID, u.Email, u.DisplayName, u.AvatarURL).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
select id::text, supabase_uid, coalesce(email,''), coalesce(display_name,''), coalesce(avatar_url,''),
       plan, coalesce(stripe_customer_id,''), coalesce(stripe_subscription_id,''), created_at, updated_at
from users
where id = $1::uuid;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `
select id::text, supabase_uid, coalesce(email,''), coalesce(display_name,''), coalesce(avatar_url,''),
       plan, coalesce(stripe_customer_id,''), coalesce(stripe_subscription_id,''), created_at, updated_at
from users
where email = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, email))
}

func (r *Repo) GetByStripeCustomer(ctx context.Context, customerID string) (*User, error) {
	const q = `
select id::text, supabase_uid, coalesce(email,''), coalesce(display_name,''), coalesce(avatar_url,''),
       plan, coalesce(stripe_customer_id,''), coalesce(stripe_subscription_id,''), created_at, updated_at
from users
where stripe_customer_id = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, customerID))
}

// UserPlan is the id/tier pair the maintenance worker iterates over.
type UserPlan struct {
	ID   string
	Plan plans.PlanType
}

// ListPlans returns every user's tier. Used by the nightly history trim.
func (r *Repo) ListPlans(ctx context.Context) ([]UserPlan, error) {
	const q = `select id::text, plan from users;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UserPlan
	for rows.Next() {
		var up UserPlan
		var plan string
		if err := rows.Scan(&up.ID, &plan); err != nil {
			return nil, err
		}
		up.Plan = plans.PlanType(plan)
		if !up.Plan.Valid() {
			up.Plan = plans.PlanFree
		}
		out = append(out, up)
	}
	return out, rows.Err()
}

// SetPlan records the tier the billing webhook resolved for this user.
func (r *Repo) SetPlan(ctx context.Context, userID string, plan plans.PlanType) error {
	const q = `
update users
set plan = $2, updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, userID, string(plan))
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) SetStripeIDs(ctx context.Context, userID, customerID, subscriptionID string) error {
	const q = `
update users
set stripe_customer_id = nullif($2,''), stripe_subscription_id = nullif($3,''), updated_at = now()
where id = $1::uuid;
`
	ct, err := r.db.Exec(ctx, q, userID, customerID, subscriptionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) scanOne(row pgx.Row) (*User, error) {
	var u User
	var plan string
	err := row.Scan(&u.ID, &u.SupabaseUID, &u.Email, &u.DisplayName, &u.AvatarURL,
		&plan, &u.StripeCustomerID, &u.StripeSubscriptionID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Plan = plans.PlanType(plan)
	if !u.Plan.Valid() {
		u.Plan = plans.PlanFree
	}
	return &u, nil
}
