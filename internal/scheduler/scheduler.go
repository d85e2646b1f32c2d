package scheduler

import (
	"context"
	"panelkeeper/internal/persistence/interfaces"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/reports"
	"panelkeeper/internal/services"
	"panelkeeper/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	service    services.PanelServiceInterface
	publisher  reports.PublisherInterface
	clock      providers.Clock
	cron       *gron.Cron
	opsMu      sync.Mutex
	lastMinute atomic.Int64
	reminders  map[int]bool
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Scheduler.PollInterval), func() {
		s.Tick(s.clock.Now())
	})

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		if err := s.service.Persist(); err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.logger.Debugf(providers.TypeApp, "Persisted snapshot")
	})

	s.cron.Start()
}

// Tick runs the once-per-minute duties: the daily reset check, the dashboard
// refresh and maintenance reminders. Repeated ticks within the same minute
// are ignored.
func (s *Scheduler) Tick(now time.Time) {
	minute := now.Unix() / 60
	if s.lastMinute.Swap(minute) == minute {
		return
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if _, err := s.service.CheckDailyReset(); err != nil {
		s.logger.Errorf(providers.TypeApp, "Daily reset: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Scheduler.PollInterval)
	defer cancel()

	if err := s.publisher.RefreshDashboard(ctx); err != nil {
		s.logger.Warnf(providers.TypeApp, "Dashboard refresh: %s", err)
	}

	if !s.reminders[now.Minute()] {
		return
	}
	if pending := s.service.PendingMaintenance(); pending > 0 {
		if err := s.publisher.SendReminder(ctx, pending, now); err != nil {
			s.logger.Errorf(providers.TypeApp, "Reminder: %s", err)
		}
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Restore loads the stored state and applies a reset that fell due while the
// process was down.
func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.service.Restore(); err != nil {
		return err
	}
	if _, err := s.service.CheckDailyReset(); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting snapshot...")
	err := s.service.Persist()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, service services.PanelServiceInterface, publisher reports.PublisherInterface, clock providers.Clock) interfaces.SchedulerInterface {
	reminders := make(map[int]bool, len(config.Mechanics.ReminderMinutes))
	for _, m := range config.Mechanics.ReminderMinutes {
		reminders[m] = true
	}
	s := &Scheduler{
		config:    config,
		logger:    logger,
		service:   service,
		publisher: publisher,
		clock:     clock,
		reminders: reminders,
	}
	s.lastMinute.Store(-1)
	return s
}
