// Package jobs runs the periodic reservation maintenance.
package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hibiken/asynqmon"
	"go.uber.org/zap"

	"stay-booking/logger"
)

const TypeCompletePast = "reservation:complete_past"

// Completer marks past reservations completed. ReservationService implements it.
type Completer interface {
	CompletePast(ctx context.Context) (int64, error)
}

// HandleCompletePast is the task handler for TypeCompletePast.
func HandleCompletePast(c Completer) func(ctx context.Context, t *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		n, err := c.CompletePast(ctx)
		if err != nil {
			logger.L().Error("complete past reservations failed", zap.Error(err))
			return err
		}
		if n > 0 {
			logger.L().Info("reservations completed", zap.Int64("count", n))
		}
		return nil
	}
}

// Runner is a started job backend that can be stopped on shutdown.
type Runner interface {
	Shutdown()
}

// Asynq schedules TypeCompletePast with a cron spec and works it off the redis queue.
type Asynq struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
}

func StartAsynq(opt asynq.RedisClientOpt, spec string, c Completer) (*Asynq, error) {
	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	// Unique keeps overlapping instances from enqueueing the same run twice
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeCompletePast, nil), asynq.Unique(time.Minute), asynq.MaxRetry(3)); err != nil {
		return nil, err
	}

	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeCompletePast, HandleCompletePast(c))

	if err := srv.Start(mux); err != nil {
		return nil, err
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, err
	}
	logger.L().Info("asynq jobs started", zap.String("task", TypeCompletePast), zap.String("spec", spec))
	return &Asynq{scheduler: scheduler, server: srv}, nil
}

func (a *Asynq) Shutdown() {
	a.scheduler.Shutdown()
	a.server.Shutdown()
}

// Ticker runs the completion in-process when no redis is configured.
type Ticker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func StartTicker(interval time.Duration, c Completer) *Ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Ticker{cancel: cancel, done: make(chan struct{})}
	handle := HandleCompletePast(c)
	go func() {
		defer close(t.done)
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				_ = handle(ctx, asynq.NewTask(TypeCompletePast, nil))
			}
		}
	}()
	logger.L().Info("ticker jobs started", zap.Duration("interval", interval))
	return t
}

func (t *Ticker) Shutdown() {
	t.cancel()
	<-t.done
}

// Monitor is the asynqmon dashboard served under rootPath.
func Monitor(opt asynq.RedisClientOpt, rootPath string) *asynqmon.HTTPHandler {
	return asynqmon.New(asynqmon.Options{
		RootPath:     rootPath,
		RedisConnOpt: opt,
	})
}
