package services

import (
	"fmt"
	"panelkeeper/internal/models"
	"panelkeeper/internal/persistence/interfaces"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/structures"
	"strings"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const payoutBattery = "battery"

type PanelServiceInterface interface {
	Place(user models.UserID, name string) (*PlaceResult, error)
	Fix(user models.UserID) (models.FixResult, error)
	LogAction(user models.UserID, action string) (int64, error)
	CheckDailyReset() (*models.Archive, error)
	ForceReset() (*models.Archive, error)
	ClearPanels() (int, error)

	ActivePanels() []PanelView
	Leaderboard() []models.LeaderboardEntry
	LifetimeLeaderboard() []models.LeaderboardEntry
	History() []*models.Archive
	PendingMaintenance() int
	Summary() *Summary
	Actions() map[string]int64

	DashboardRef() string
	SetDashboardRef(ref string) error

	OnReset(fn func(archive *models.Archive))
	Revision() uint64
	GetSnapshot() *models.Snapshot
	Restore() error
	Persist() error
}

type PlaceResult struct {
	Panel   *models.Panel `json:"panel"`
	ReadyAt time.Time     `json:"readyAt"`
}

// PanelView is an active panel together with its state at the time of the call.
type PanelView struct {
	Panel *models.Panel     `json:"panel"`
	State models.PanelState `json:"state"`
}

// Summary is everything the dashboard shows.
type Summary struct {
	Now         time.Time                 `json:"now"`
	Panels      []PanelView               `json:"panels"`
	Work        models.WorkLedger         `json:"work"`
	Leaderboard []models.LeaderboardEntry `json:"leaderboard"`
	Pending     int                       `json:"pending"`
}

// PanelService serializes every engine call behind one mutex and persists the
// store after each mutation. Persistence errors are returned after the
// in-memory state has already changed.
type PanelService struct {
	mu       sync.Mutex
	store    *models.PanelStore
	snapshot interfaces.SnapshotStore
	clock    providers.Clock
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	rules    structures.MechanicsConfig
	revision atomic.Uint64
	onReset  []func(*models.Archive)
}

func NewPanelService(conf *structures.Config, clock providers.Clock, snapshot interfaces.SnapshotStore, logger providers.Logger, metrics providers.MetricsProviderInterface) PanelServiceInterface {
	return &PanelService{
		store:    models.NewPanelStore(),
		snapshot: snapshot,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		rules:    conf.Mechanics,
	}
}

func (ps *PanelService) Place(user models.UserID, name string) (*PlaceResult, error) {
	ps.mu.Lock()
	now := ps.clock.Now()
	archive, reset := ps.checkResetLocked(now)

	p := ps.store.Place(user, name, now, ps.rules.PanelLiveDuration)
	ps.logger.Infof(providers.TypeEngine, "Panel %s placed by %s", p.ID, user)
	ps.metrics.IncPanelsPlaced()

	err := ps.commitLocked()
	ps.mu.Unlock()

	ps.notifyReset(archive, reset)
	return &PlaceResult{Panel: p, ReadyAt: p.ProjectedReadyAt()}, err
}

func (ps *PanelService) Fix(user models.UserID) (models.FixResult, error) {
	ps.mu.Lock()
	now := ps.clock.Now()
	archive, reset := ps.checkResetLocked(now)

	res := ps.store.Fix(user, now, ps.rules.BatteryValue)
	ps.metrics.IncFixCalls(res.EligibleCount > 0)

	var err error
	if res.EligibleCount > 0 {
		var paid int64
		for _, o := range res.Outcomes {
			for _, share := range o.Payouts {
				paid += share
			}
		}
		ps.logger.Infof(providers.TypeEngine, "Fix by %s: %d eligible, %d collected, %d paid out", user, res.EligibleCount, res.CollectedCount, paid)
		ps.metrics.AddPanelsCollected(res.CollectedCount)
		ps.metrics.AddPayout(payoutBattery, paid)
		err = ps.commitLocked()
	} else if reset {
		err = ps.commitLocked()
	}
	ps.mu.Unlock()

	ps.notifyReset(archive, reset)
	return res, err
}

// LogAction books one of the configured flat-rate actions and returns its value.
func (ps *PanelService) LogAction(user models.UserID, action string) (int64, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	value, ok := ps.rules.Actions[action]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnknownAction, action)
	}

	ps.mu.Lock()
	archive, reset := ps.checkResetLocked(ps.clock.Now())

	ps.store.LogAction(user, action, value)
	ps.logger.Infof(providers.TypeEngine, "Action %s by %s (+%d)", action, user, value)
	ps.metrics.AddPayout(action, value)

	err := ps.commitLocked()
	ps.mu.Unlock()

	ps.notifyReset(archive, reset)
	return value, err
}

// CheckDailyReset rolls the day over if the business date changed. It returns
// the archived day, or nil when nothing was archived.
func (ps *PanelService) CheckDailyReset() (*models.Archive, error) {
	ps.mu.Lock()
	archive, reset := ps.checkResetLocked(ps.clock.Now())
	var err error
	if reset {
		err = ps.commitLocked()
	}
	ps.mu.Unlock()

	ps.notifyReset(archive, reset)
	return archive, err
}

func (ps *PanelService) ForceReset() (*models.Archive, error) {
	ps.mu.Lock()
	archive := ps.store.ForceReset(ps.clock.Now(), ps.rules.ResetHour)
	ps.logger.Warnf(providers.TypeEngine, "Forced daily reset, archived: %t", archive != nil)
	ps.metrics.IncResets(archive != nil)
	err := ps.commitLocked()
	ps.mu.Unlock()

	ps.notifyReset(archive, true)
	return archive, err
}

// ClearPanels drops every active panel without payout and returns how many
// were dropped.
func (ps *PanelService) ClearPanels() (int, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	n := ps.store.ClearPanels()
	ps.logger.Warnf(providers.TypeEngine, "Cleared %d active panels", n)
	return n, ps.commitLocked()
}

func (ps *PanelService) checkResetLocked(now time.Time) (*models.Archive, bool) {
	archive, reset := ps.store.CheckDailyReset(now, ps.rules.ResetHour)
	if reset {
		ps.logger.Infof(providers.TypeEngine, "Daily reset to %s, archived: %t", ps.store.LastResetDate(), archive != nil)
		ps.metrics.IncResets(archive != nil)
	}
	return archive, reset
}

func (ps *PanelService) notifyReset(archive *models.Archive, reset bool) {
	if !reset || archive == nil {
		return
	}
	ps.mu.Lock()
	listeners := append([]func(*models.Archive){}, ps.onReset...)
	ps.mu.Unlock()
	for _, fn := range listeners {
		fn(archive)
	}
}

// OnReset registers fn to receive every archived day.
func (ps *PanelService) OnReset(fn func(archive *models.Archive)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.onReset = append(ps.onReset, fn)
}

func (ps *PanelService) commitLocked() error {
	ps.revision.Inc()
	ps.metrics.SetActivePanels(ps.store.ActiveCount())
	return ps.persistLocked()
}

func (ps *PanelService) persistLocked() error {
	start := time.Now()
	err := ps.snapshot.Save(ps.store.Snapshot())
	ps.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		ps.logger.Errorf(providers.TypeEngine, "Persisting snapshot: %s", err)
		return fmt.Errorf("persist snapshot: %w", err)
	}
	return nil
}

func (ps *PanelService) ActivePanels() []PanelView {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.activePanelsLocked(ps.clock.Now())
}

func (ps *PanelService) activePanelsLocked(now time.Time) []PanelView {
	panels := ps.store.ActivePanels()
	views := make([]PanelView, len(panels))
	for i, p := range panels {
		views[i] = PanelView{Panel: p, State: models.CalculatePanelState(p, now)}
	}
	return views
}

func (ps *PanelService) Leaderboard() []models.LeaderboardEntry {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.Leaderboard()
}

func (ps *PanelService) LifetimeLeaderboard() []models.LeaderboardEntry {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.LifetimeLeaderboard()
}

func (ps *PanelService) History() []*models.Archive {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.History()
}

func (ps *PanelService) PendingMaintenance() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.PendingMaintenance(ps.clock.Now())
}

func (ps *PanelService) Summary() *Summary {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	now := ps.clock.Now()
	return &Summary{
		Now:         now,
		Panels:      ps.activePanelsLocked(now),
		Work:        ps.store.DailyWork(),
		Leaderboard: ps.store.Leaderboard(),
		Pending:     ps.store.PendingMaintenance(now),
	}
}

func (ps *PanelService) Actions() map[string]int64 {
	out := make(map[string]int64, len(ps.rules.Actions))
	for k, v := range ps.rules.Actions {
		out[k] = v
	}
	return out
}

func (ps *PanelService) DashboardRef() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.DashboardRef()
}

func (ps *PanelService) SetDashboardRef(ref string) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.store.DashboardRef() == ref {
		return nil
	}
	ps.store.SetDashboardRef(ref)
	return ps.persistLocked()
}

// Revision changes after every mutation.
func (ps *PanelService) Revision() uint64 {
	return ps.revision.Load()
}

func (ps *PanelService) GetSnapshot() *models.Snapshot {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.store.Snapshot()
}

// Restore replaces the in-memory state with the stored snapshot. Nothing
// stored leaves the state empty.
func (ps *PanelService) Restore() error {
	snap, err := ps.snapshot.Load()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if snap == nil {
		ps.logger.Infof(providers.TypeApp, "No snapshot found, starting empty")
		return nil
	}
	ps.store.Restore(snap)
	ps.revision.Inc()
	ps.metrics.SetActivePanels(ps.store.ActiveCount())
	ps.logger.Infof(providers.TypeApp, "Restored %d active panels, %d archived days", ps.store.ActiveCount(), len(snap.History))
	return nil
}

func (ps *PanelService) Persist() error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.persistLocked()
}
