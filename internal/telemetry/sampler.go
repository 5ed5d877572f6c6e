package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"courieragent/internal/core/domain/model/tracking"
	"courieragent/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// pushFunc delivers one fix to the agent. The agent owns assignment context,
// push transport and error recording; samplers only produce fixes.
type pushFunc func(fix tracking.Fix)

// sampler produces fixes until stopped. Stop joins the producer: after it
// returns no further pushes happen.
type sampler interface {
	Run() error
	Stop()
}

// eventDrivenSampler forwards fixes from a position source subscription.
// Displacement and interval filtering happen inside the subscription.
type eventDrivenSampler struct {
	subscription ports.Subscription
	push         pushFunc
	wg           sync.WaitGroup
}

func newEventDrivenSampler(subscription ports.Subscription, push pushFunc) *eventDrivenSampler {
	return &eventDrivenSampler{subscription: subscription, push: push}
}

func (s *eventDrivenSampler) Run() error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for fix := range s.subscription.Fixes() {
			s.push(fix)
		}
	}()
	return nil
}

func (s *eventDrivenSampler) Stop() {
	s.subscription.Unsubscribe()
	s.wg.Wait()
}

// pollingSampler requests a fresh fix on a fixed interval.
type pollingSampler struct {
	source     ports.PositionSource
	interval   time.Duration
	fixTimeout time.Duration
	push       pushFunc
	cron       *cron.Cron
	logger     *slog.Logger
}

func newPollingSampler(
	source ports.PositionSource,
	interval time.Duration,
	fixTimeout time.Duration,
	push pushFunc,
	logger *slog.Logger,
) *pollingSampler {
	return &pollingSampler{
		source:     source,
		interval:   interval,
		fixTimeout: fixTimeout,
		push:       push,
		cron:       cron.New(),
		logger:     logger,
	}
}

func (s *pollingSampler) Run() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return fmt.Errorf("failed to schedule polling sampler: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the schedule and waits for an in-flight tick to finish.
func (s *pollingSampler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *pollingSampler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), s.fixTimeout)
	defer cancel()

	fix, err := s.source.CurrentFix(ctx, s.fixTimeout)
	if err != nil {
		s.logger.WarnContext(ctx, "Polling sampler could not acquire a fix", "error", err)
		return
	}
	s.push(fix)
}
