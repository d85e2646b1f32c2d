package models

// SnapshotVersion is the current persistence format.
const SnapshotVersion = 2

// Snapshot is the full persisted state of a PanelStore.
type Snapshot struct {
	Version           int          `json:"version"`
	ActivePanels      []*Panel     `json:"activePanels"`
	DailyWork         WorkLedger   `json:"dailyWork"`
	DailyProfit       ProfitLedger `json:"dailyProfit"`
	DailyBatteries    CountLedger  `json:"dailyBatteries"`
	LifetimeWork      WorkLedger   `json:"lifetimeWork"`
	LifetimeProfit    ProfitLedger `json:"lifetimeProfit"`
	LifetimeBatteries CountLedger  `json:"lifetimeBatteries"`
	History           []*Archive   `json:"history"`
	LastResetDate     string       `json:"lastResetDate"`
	DashboardRef      string       `json:"dashboardRef,omitempty"`
}

// Normalize fills missing collections and canonicalizes every user key so a
// partially written or hand-edited snapshot loads as if it were complete.
func (s *Snapshot) Normalize() {
	s.Version = SnapshotVersion
	s.DailyWork = normalizeWork(s.DailyWork)
	s.LifetimeWork = normalizeWork(s.LifetimeWork)
	s.DailyProfit = normalizeProfit(s.DailyProfit)
	s.LifetimeProfit = normalizeProfit(s.LifetimeProfit)
	s.DailyBatteries = normalizeCounts(s.DailyBatteries)
	s.LifetimeBatteries = normalizeCounts(s.LifetimeBatteries)

	panels := s.ActivePanels[:0]
	for _, p := range s.ActivePanels {
		if p == nil {
			continue
		}
		p.PlacedBy = CanonicalUserID(p.PlacedBy)
		for i := range p.Interactions {
			p.Interactions[i].UserID = CanonicalUserID(p.Interactions[i].UserID)
		}
		panels = append(panels, p)
	}
	s.ActivePanels = panels

	history := s.History[:0]
	for _, a := range s.History {
		if a == nil {
			continue
		}
		a.Work = normalizeWork(a.Work)
		a.Profit = normalizeProfit(a.Profit)
		a.Batteries = normalizeCounts(a.Batteries)
		history = append(history, a)
	}
	s.History = history
}

func normalizeWork(w WorkLedger) WorkLedger {
	out := newWorkLedger()
	for category, counts := range w {
		out[category] = normalizeCounts(counts)
	}
	return out
}

func normalizeCounts(c CountLedger) CountLedger {
	out := make(CountLedger, len(c))
	for user, n := range c {
		out[CanonicalUserID(user)] += n
	}
	return out
}

func normalizeProfit(p ProfitLedger) ProfitLedger {
	out := make(ProfitLedger, len(p))
	for user, v := range p {
		out[CanonicalUserID(user)] += v
	}
	return out
}
