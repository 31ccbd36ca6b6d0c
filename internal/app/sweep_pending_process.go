package app

import (
	"context"
	"strconv"
	"time"

	"github.com/partycurrency/payment-service/internal/config"
	"github.com/partycurrency/payment-service/internal/errors"
	"github.com/partycurrency/payment-service/internal/usecases/interactor"
	"github.com/partycurrency/payment-service/pkg/log"
	"github.com/rs/zerolog"
)

// PendingSweeper periodically re-queries transactions that have sat in
// pending longer than the configured age. A stalled provider callback is
// eventually resolved here instead of staying pending forever.
type PendingSweeper struct {
	reconciler *interactor.ReconcileInteractor
	config     config.Sweep
	logger     *zerolog.Logger
}

func NewPendingSweeper(reconciler *interactor.ReconcileInteractor, cfg config.Sweep) *PendingSweeper {
	l := log.Component("sweeper")
	return &PendingSweeper{reconciler: reconciler, config: cfg, logger: &l}
}

// Run drives the sweep on a ticker until the context is cancelled.
func (p *PendingSweeper) Run(ctx context.Context) error {
	interval, err := strconv.Atoi(p.config.IntervalMinutes)
	if err != nil || interval <= 0 {
		interval = 10
	}
	sweepCfg := interactor.ParseSweepConfig(p.config)

	ticker := time.NewTicker(time.Duration(interval) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			settled, err := p.reconciler.SweepPending(sweepCtx, sweepCfg)
			cancel()
			if err != nil {
				p.logger.Error().Err(err).Msg(errors.ErrFailedSweepPending)
				continue
			}
			if settled > 0 {
				p.logger.Info().Int("settled", settled).Msg("pending transactions reconciled")
			}
		}
	}
}
