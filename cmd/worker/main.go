package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowforge-labs/flowforge-backend/config"
	"github.com/flowforge-labs/flowforge-backend/internal/bootstrap"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/storage"
	"github.com/flowforge-labs/flowforge-backend/internal/maintenance"
	"github.com/flowforge-labs/flowforge-backend/internal/users"
)

// planListerAdapter maps the repo's row type onto the job's entry type.
type planListerAdapter struct {
	repo *users.Repo
}

func (a planListerAdapter) ListPlans(ctx context.Context) ([]maintenance.UserPlanEntry, error) {
	rows, err := a.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]maintenance.UserPlanEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, maintenance.UserPlanEntry{ID: r.ID, Plan: r.Plan})
	}
	return out, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	job := maintenance.NewJob(
		storage.NewUsageStore(rdb),
		storage.NewFlowStore(rdb),
		planListerAdapter{repo: users.NewRepo(db)},
	)

	if len(os.Args) > 1 && os.Args[1] == "once" {
		job.Run(ctx)
		return
	}

	sched := maintenance.NewScheduler(job)
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sched.Stop()
	log.Println("worker stopped")
}
