// Package scheduler runs the recurring maintenance jobs of the canteen.
// Today that is a single job: wiping the daily menu at midnight so each
// service day starts from an empty ledger.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Resetter clears every daily menu entry and reports how many rows went.
type Resetter interface {
	ResetAll(ctx context.Context) (int64, error)
}

// DailyReset owns the cron runner for the menu wipe.
type DailyReset struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewDailyReset schedules the reset job with the given cron spec
// (standard five-field format).  An invalid spec is returned as an
// error before anything is scheduled.  Failures of individual runs are
// logged and retried only at the next tick.
func NewDailyReset(spec string, r Resetter, log zerolog.Logger) (*DailyReset, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := r.ResetAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("daily menu reset failed")
			return
		}
		log.Info().Int64("entries_removed", n).Msg("daily menu reset")
	})
	if err != nil {
		return nil, err
	}
	return &DailyReset{cron: c, log: log}, nil
}

// Start launches the cron runner in its own goroutine.
func (d *DailyReset) Start() { d.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (d *DailyReset) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}
