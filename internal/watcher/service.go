// -----------------------------------------------------------------------
// Watcher Service - the call-event pipeline. Polls the router syslog,
// filters already-reported calls against the checkpoint, resolves
// caller identity, routes to a destination and dispatches the
// notification, advancing the checkpoint per event.
// -----------------------------------------------------------------------

package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/callwatch/internal/checkpoint"
	"github.com/ternarybob/callwatch/internal/common"
	"github.com/ternarybob/callwatch/internal/interfaces"
	"github.com/ternarybob/callwatch/internal/models"
	"github.com/ternarybob/callwatch/internal/notify"
)

// notifierFactory builds the channel adapter for a destination; a
// field so tests can substitute delivery.
type notifierFactory func(*models.Destination, interfaces.PushService) (interfaces.Notifier, error)

// identityResolver is the caller-name lookup used per event
type identityResolver interface {
	Resolve(ctx context.Context, number string) *models.Identity
}

// Service runs the polling pipeline on a fixed schedule. Cycles are
// sequential: one event at a time, oldest first, so checkpoint
// advancement is strictly ordered and a later call is never reported
// before an earlier one.
type Service struct {
	config       *common.Config
	source       interfaces.CallSource
	checkpoint   *checkpoint.Store
	resolver     identityResolver
	push         interfaces.PushService
	newNotifier  notifierFactory
	cron         *cron.Cron
	logger       arbor.ILogger
	mu           sync.Mutex
	isProcessing bool
	running      bool
}

// NewService creates the watcher over its collaborators
func NewService(
	config *common.Config,
	source interfaces.CallSource,
	checkpointStore *checkpoint.Store,
	resolver identityResolver,
	push interfaces.PushService,
	logger arbor.ILogger,
) *Service {
	return &Service{
		config:     config,
		source:     source,
		checkpoint: checkpointStore,
		resolver:   resolver,
		push:       push,
		newNotifier: func(d *models.Destination, p interfaces.PushService) (interfaces.Notifier, error) {
			return notify.ForDestination(d, p)
		},
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the polling loop
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("watcher already running")
	}

	interval := s.config.Watcher.Interval
	if interval == "" {
		interval = "1m"
	}

	if _, err := s.cron.AddFunc("@every "+interval, s.runCycle); err != nil {
		return fmt.Errorf("failed to schedule watcher: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("interval", interval).
		Msg("Watcher started")

	// First cycle immediately rather than waiting one interval
	go s.runCycle()

	return nil
}

// Stop halts the polling loop
func (s *Service) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Watcher stopped")
}

// runCycle is the per-tick error boundary: a failed cycle is logged
// and swallowed so the next interval runs regardless. Overlapping
// ticks are skipped rather than queued.
func (s *Service) runCycle() {
	s.mu.Lock()
	if s.isProcessing {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous cycle still running, skipping")
		return
	}
	s.isProcessing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isProcessing = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.Cycle(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Polling cycle failed")
	}
}

// Cycle runs one poll-process pass. Fetch and persistence errors abort
// the cycle; delivery errors are logged per event without blocking
// checkpoint advancement, so a failed notification is not retried
// forever.
func (s *Service) Cycle(ctx context.Context) error {
	firstRun := s.checkpoint.IsFirstRun()

	calls, err := s.source.Calls(ctx)
	if err != nil {
		return err
	}

	fresh := make([]models.CallEvent, 0, len(calls))
	for _, call := range calls {
		reported, err := s.checkpoint.IsReported(call.Date, call.Time)
		if err != nil {
			return err
		}
		if !reported {
			fresh = append(fresh, call)
		}
	}

	s.logger.Info().
		Int("calls", len(calls)).
		Int("fresh", len(fresh)).
		Bool("first_run", firstRun).
		Msg("Polling cycle")

	// The log reports newest first; process oldest first so the
	// checkpoint only ever moves forward.
	for i := len(fresh) - 1; i >= 0; i-- {
		if err := s.processCall(ctx, &fresh[i], firstRun); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) processCall(ctx context.Context, call *models.CallEvent, firstRun bool) error {
	detail := call.Detail()

	s.logger.Info().
		Str("direction", string(call.Direction)).
		Str("from", call.FromNumber).
		Str("to", call.ToNumber).
		Str("status", string(call.Status)).
		Msg("Call detected")

	selfName := notify.MatchSelf(detail, s.config.Selfs)
	destination := notify.MatchDestination(detail, s.config.Destinations)

	// Identity lookups hit external services; skip them when nothing
	// will be notified.
	if !firstRun && destination != nil {
		identity := s.resolver.Resolve(ctx, detail.CallerNumber)
		message := notify.BuildMessage(detail, identity, selfName)

		notifier, err := s.newNotifier(destination, s.push)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("destination", destination.Name).
				Msg("Failed to build notifier")
		} else if err := notifier.Send(ctx, message); err != nil {
			// Checkpoint advancement tracks detection, not confirmed
			// delivery; a failed send is logged, not retried.
			s.logger.Error().
				Err(err).
				Str("destination", destination.Name).
				Msg("Notification delivery failed")
		}
	}

	return s.checkpoint.Advance(call.Date, call.Time)
}
