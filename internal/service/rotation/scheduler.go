package rotation

import (
	"context"
	"time"

	"github.com/oggyb/matchfeed/internal/db"
	"github.com/robfig/cron/v3"
)

// Scheduler fires RunAll on a cron expression. The per-(city, date) lock
// makes overlapping or duplicate triggers harmless.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler wires the rotation service to the given cron expression.
func NewScheduler(svc *Service, spec string) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		date := db.DateKey(time.Now())
		if _, err := svc.RunAll(ctx, date); err != nil {
			svc.appCtx.Logger.Error("scheduled rotation failed", "date", date, "err", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
