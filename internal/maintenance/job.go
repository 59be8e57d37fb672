// Package maintenance runs the nightly housekeeping: stale usage keys are
// pruned and each user's saved-flow history is trimmed to their plan limit.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/flowforge-labs/flowforge-backend/internal/plans"
)

type UsagePruner interface {
	PruneStaleUsage(ctx context.Context) (int, error)
}

type HistoryTrimmer interface {
	Trim(ctx context.Context, userID string, limit int) (int, error)
}

type PlanLister interface {
	ListPlans(ctx context.Context) ([]UserPlanEntry, error)
}

type UserPlanEntry struct {
	ID   string
	Plan plans.PlanType
}

type Job struct {
	usage   UsagePruner
	history HistoryTrimmer
	users   PlanLister
}

func NewJob(usage UsagePruner, history HistoryTrimmer, users PlanLister) *Job {
	return &Job{usage: usage, history: history, users: users}
}

// Run executes one maintenance pass. Per-user trim failures are logged and
// skipped so one broken account does not starve the rest.
func (j *Job) Run(ctx context.Context) {
	start := time.Now()

	pruned, err := j.usage.PruneStaleUsage(ctx)
	if err != nil {
		log.Printf("maintenance: usage prune: %v", err)
	} else if pruned > 0 {
		log.Printf("maintenance: pruned %d stale usage keys", pruned)
	}

	userPlans, err := j.users.ListPlans(ctx)
	if err != nil {
		log.Printf("maintenance: list plans: %v", err)
		return
	}

	trimmed := 0
	for _, up := range userPlans {
		n, err := j.history.Trim(ctx, up.ID, plans.Limits(up.Plan).MaxHistoryFlows)
		if err != nil {
			log.Printf("maintenance: trim user %s: %v", up.ID, err)
			continue
		}
		trimmed += n
	}

	log.Printf("maintenance: done in %s (%d users, %d flows trimmed)",
		time.Since(start).Round(time.Millisecond), len(userPlans), trimmed)
}
