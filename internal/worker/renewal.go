package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LoohanZinho/enem2-sub003/internal/domain/entitlement"
	"github.com/LoohanZinho/enem2-sub003/internal/pkg/logger"
)

// Renewer periodically issues successor access keys for recurring
// entitlements nearing expiry. It never mutates existing keys; expiry itself
// stays lazy and is handled by the evaluator on read.
type Renewer struct {
	entitlements entitlement.Service
	schedule     string
	logger       *logger.Logger
	cron         *cron.Cron
}

// NewRenewer creates a new renewal worker
func NewRenewer(svc entitlement.Service, schedule string, log *logger.Logger) *Renewer {
	return &Renewer{
		entitlements: svc,
		schedule:     schedule,
		logger:       log,
		cron:         cron.New(),
	}
}

// Start schedules the renewal sweep and runs one immediately.
func (r *Renewer) Start() error {
	r.logger.Infof("Starting renewal worker with schedule %q", r.schedule)

	if _, err := r.cron.AddFunc(r.schedule, r.run); err != nil {
		return err
	}
	r.cron.Start()

	go r.run()
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (r *Renewer) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("Renewal worker stopped")
}

func (r *Renewer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	renewed, err := r.entitlements.RenewDue(ctx)
	if err != nil {
		r.logger.ErrorWithErr(err, "Renewal sweep failed")
		return
	}

	if renewed > 0 {
		r.logger.WithFields(map[string]interface{}{
			"renewed": renewed,
		}).Info("Renewal sweep completed")
	}
}
