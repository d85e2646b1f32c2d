package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownAction = errors.New("unknown action")

// FixOutcome describes what a fix call did to a single panel.
type FixOutcome struct {
	PanelID   string           `json:"panelId"`
	State     PanelState       `json:"state"`
	Collected bool             `json:"collected"`
	Payouts   map[UserID]int64 `json:"payouts,omitempty"`
}

type FixResult struct {
	EligibleCount  int          `json:"eligibleCount"`
	CollectedCount int          `json:"collectedCount"`
	Outcomes       []FixOutcome `json:"outcomes"`
}

// PanelStore owns the active panels, every daily and lifetime ledger, the
// archive history and the reset cursor. It is not safe for concurrent use;
// callers serialize access.
type PanelStore struct {
	active            []*Panel
	dailyWork         WorkLedger
	dailyProfit       ProfitLedger
	dailyBatteries    CountLedger
	lifetimeWork      WorkLedger
	lifetimeProfit    ProfitLedger
	lifetimeBatteries CountLedger
	history           []*Archive
	lastResetDate     string
	dashboardRef      string

	newID func() string
}

func NewPanelStore() *PanelStore {
	s := &PanelStore{newID: newPanelID}
	s.Restore(&Snapshot{})
	return s
}

func newPanelID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// SetIDGenerator replaces the panel id source.
func (s *PanelStore) SetIDGenerator(fn func() string) {
	s.newID = fn
}

// Place creates a panel for user and counts it as placed work.
func (s *PanelStore) Place(user UserID, name string, now time.Time, baseLiveDuration int) *Panel {
	p := NewPanel(s.newID(), user, name, now, baseLiveDuration)
	s.active = append(s.active, p)
	s.dailyWork.Inc(CategoryPlaced, user)
	return p.clone()
}

// Fix maintains every panel whose window is open and collects every panel that
// is ready. Collected panels leave the active set and pay batteryValue out to
// their contributors.
func (s *PanelStore) Fix(user UserID, now time.Time, batteryValue int64) FixResult {
	result := FixResult{}
	maintenance := now.Minute() >= 30

	kept := make([]*Panel, 0, len(s.active))
	for _, p := range s.active {
		state := CalculatePanelState(p, now)
		ready := state.Ready()
		if !ready && !maintenance {
			kept = append(kept, p)
			continue
		}

		p.record(user, ActionFix, now)
		result.EligibleCount++
		outcome := FixOutcome{PanelID: p.ID, State: state}

		if ready {
			outcome.Collected = true
			outcome.Payouts = SplitPayout(p, batteryValue)
			for contributor, share := range outcome.Payouts {
				s.dailyProfit[contributor] += share
			}
			result.CollectedCount++
		} else {
			kept = append(kept, p)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.EligibleCount == 0 {
		return result
	}

	s.active = kept
	if result.CollectedCount > 0 {
		s.dailyBatteries[user] += result.CollectedCount
	}
	s.dailyWork.Inc(CategoryFixes, user)
	return result
}

// SplitPayout divides value between everyone who interacted with the panel,
// proportional to their share of interactions. Shares are floored; the
// remainder is not handed out.
func SplitPayout(p *Panel, value int64) map[UserID]int64 {
	total := int64(len(p.Interactions))
	if total == 0 {
		return nil
	}
	counts := make(map[UserID]int64)
	for _, i := range p.Interactions {
		counts[i.UserID]++
	}
	shares := make(map[UserID]int64, len(counts))
	for user, n := range counts {
		if share := n * value / total; share > 0 {
			shares[user] = share
		}
	}
	return shares
}

// LogAction books a flat-rate action.
func (s *PanelStore) LogAction(user UserID, category string, value int64) {
	s.dailyWork.Inc(category, user)
	s.dailyProfit[user] += value
}

// CheckDailyReset rolls the day over when now falls into a business date other
// than the one the daily ledgers belong to. It returns the archived day, if
// there was any activity, and whether a reset happened.
func (s *PanelStore) CheckDailyReset(now time.Time, resetHour int) (*Archive, bool) {
	date := BusinessDate(now, resetHour)
	if s.lastResetDate == date {
		return nil, false
	}
	return s.reset(date), true
}

// ForceReset rolls the day over unconditionally.
func (s *PanelStore) ForceReset(now time.Time, resetHour int) *Archive {
	return s.reset(BusinessDate(now, resetHour))
}

func (s *PanelStore) reset(date string) *Archive {
	var archive *Archive
	if s.hasDailyActivity() {
		prev := s.lastResetDate
		if prev == "" {
			prev = "Unknown"
		}
		archive = &Archive{
			Date:      prev,
			Work:      s.dailyWork,
			Profit:    s.dailyProfit,
			Batteries: s.dailyBatteries,
		}
		s.history = append(s.history, archive)
	}

	s.dailyWork.AddTo(s.lifetimeWork)
	s.dailyProfit.AddTo(s.lifetimeProfit)
	s.dailyBatteries.AddTo(s.lifetimeBatteries)

	s.dailyWork = newWorkLedger()
	s.dailyProfit = make(ProfitLedger)
	s.dailyBatteries = make(CountLedger)
	s.active = nil
	s.lastResetDate = date

	if archive == nil {
		return nil
	}
	return archive.clone()
}

func (s *PanelStore) hasDailyActivity() bool {
	return !s.dailyWork.Empty() || len(s.dailyProfit) > 0 || len(s.dailyBatteries) > 0
}

// ClearPanels drops every active panel without payout.
func (s *PanelStore) ClearPanels() int {
	n := len(s.active)
	s.active = nil
	return n
}

// PendingMaintenance counts active panels without a fix in the maintenance
// window of the current hour. Outside the window it is always zero.
func (s *PanelStore) PendingMaintenance(now time.Time) int {
	start, end := CurrentWindow(now)
	if now.Before(start) {
		return 0
	}
	n := 0
	for _, p := range s.active {
		if !p.FixedBetween(start, end) {
			n++
		}
	}
	return n
}

func (s *PanelStore) ActivePanels() []*Panel {
	out := make([]*Panel, len(s.active))
	for i, p := range s.active {
		out[i] = p.clone()
	}
	return out
}

func (s *PanelStore) ActiveCount() int {
	return len(s.active)
}

func (s *PanelStore) Leaderboard() []LeaderboardEntry {
	return BuildLeaderboard(s.dailyWork, s.dailyProfit, s.dailyBatteries)
}

func (s *PanelStore) LifetimeLeaderboard() []LeaderboardEntry {
	return BuildLeaderboard(s.lifetimeWork, s.lifetimeProfit, s.lifetimeBatteries)
}

func (s *PanelStore) DailyWork() WorkLedger {
	return s.dailyWork.Clone()
}

func (s *PanelStore) History() []*Archive {
	out := make([]*Archive, len(s.history))
	for i, a := range s.history {
		out[i] = a.clone()
	}
	return out
}

func (s *PanelStore) LastResetDate() string {
	return s.lastResetDate
}

func (s *PanelStore) DashboardRef() string {
	return s.dashboardRef
}

func (s *PanelStore) SetDashboardRef(ref string) {
	s.dashboardRef = ref
}

// Snapshot returns a deep copy of the whole store.
func (s *PanelStore) Snapshot() *Snapshot {
	return &Snapshot{
		Version:           SnapshotVersion,
		ActivePanels:      s.ActivePanels(),
		DailyWork:         s.dailyWork.Clone(),
		DailyProfit:       s.dailyProfit.Clone(),
		DailyBatteries:    s.dailyBatteries.Clone(),
		LifetimeWork:      s.lifetimeWork.Clone(),
		LifetimeProfit:    s.lifetimeProfit.Clone(),
		LifetimeBatteries: s.lifetimeBatteries.Clone(),
		History:           s.History(),
		LastResetDate:     s.lastResetDate,
		DashboardRef:      s.dashboardRef,
	}
}

// Restore replaces the whole store with the snapshot contents.
func (s *PanelStore) Restore(snap *Snapshot) {
	snap.Normalize()
	s.active = make([]*Panel, 0, len(snap.ActivePanels))
	for _, p := range snap.ActivePanels {
		s.active = append(s.active, p.clone())
	}
	s.dailyWork = snap.DailyWork.Clone()
	s.dailyProfit = snap.DailyProfit.Clone()
	s.dailyBatteries = snap.DailyBatteries.Clone()
	s.lifetimeWork = snap.LifetimeWork.Clone()
	s.lifetimeProfit = snap.LifetimeProfit.Clone()
	s.lifetimeBatteries = snap.LifetimeBatteries.Clone()
	s.history = make([]*Archive, 0, len(snap.History))
	for _, a := range snap.History {
		s.history = append(s.history, a.clone())
	}
	s.lastResetDate = snap.LastResetDate
	s.dashboardRef = snap.DashboardRef
}
