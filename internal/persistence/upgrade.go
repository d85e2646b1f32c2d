package persistence

import (
	"errors"
	"fmt"
	"panelkeeper/internal/models"
	"time"

	json "github.com/goccy/go-json"
)

var ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")

var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

type UpgradeOptions struct {
	// Location is used for legacy timestamps without a UTC offset.
	Location *time.Location
	// DefaultLiveDuration applies to legacy panels without remaining_minutes.
	DefaultLiveDuration int
}

// UpgradeSnapshot decodes any known snapshot format into the current one.
func UpgradeSnapshot(data []byte, opts UpgradeOptions) (*models.Snapshot, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	version := 0
	if probe.Version != nil {
		version = *probe.Version
	}

	switch version {
	case models.SnapshotVersion:
		var snap models.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot v%d: %w", version, err)
		}
		snap.Normalize()
		return &snap, nil
	case 0:
		return upgradeLegacy(data, opts)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshotVersion, version)
	}
}

// flexString decodes a JSON string or integer into its literal text.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var id models.UserID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexString(id)
	return nil
}

type legacyInteraction struct {
	UserID    models.UserID `json:"user_id"`
	Action    string        `json:"action"`
	Timestamp string        `json:"timestamp"`
}

type legacyPanel struct {
	ID               string              `json:"id"`
	PlacedBy         models.UserID       `json:"placed_by"`
	PlacedByName     string              `json:"placed_by_name"`
	PlacedAtISO      string              `json:"placed_at_iso"`
	RemainingMinutes *int                `json:"remaining_minutes"`
	Interactions     []legacyInteraction `json:"interactions"`
}

type legacyArchive struct {
	Date      string                        `json:"date"`
	Work      map[string]map[string]float64 `json:"work"`
	Profit    map[string]float64            `json:"profit"`
	Batteries map[string]float64            `json:"batteries"`
}

type legacySnapshot struct {
	ActivePanels      []legacyPanel                 `json:"active_panels"`
	DailyWork         map[string]map[string]float64 `json:"daily_work"`
	DailyProfit       map[string]float64            `json:"daily_profit"`
	DailyBatteries    map[string]float64            `json:"daily_batteries"`
	LifetimeWork      map[string]map[string]float64 `json:"lifetime_work"`
	LifetimeProfit    map[string]float64            `json:"lifetime_profit"`
	LifetimeBatteries map[string]float64            `json:"lifetime_batteries"`
	History           []legacyArchive               `json:"history"`
	LastResetDate     string                        `json:"last_reset_date"`
	TrackingMessageID flexString                    `json:"tracking_message_id"`
}

func upgradeLegacy(data []byte, opts UpgradeOptions) (*models.Snapshot, error) {
	var legacy legacySnapshot
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy snapshot: %w", err)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	snap := &models.Snapshot{
		DailyWork:         legacyWork(legacy.DailyWork),
		DailyProfit:       legacyProfit(legacy.DailyProfit),
		DailyBatteries:    legacyCounts(legacy.DailyBatteries),
		LifetimeWork:      legacyWork(legacy.LifetimeWork),
		LifetimeProfit:    legacyProfit(legacy.LifetimeProfit),
		LifetimeBatteries: legacyCounts(legacy.LifetimeBatteries),
		LastResetDate:     legacy.LastResetDate,
		DashboardRef:      string(legacy.TrackingMessageID),
	}

	for i, lp := range legacy.ActivePanels {
		p, err := legacyPanelToPanel(lp, loc, opts.DefaultLiveDuration)
		if err != nil {
			return nil, fmt.Errorf("legacy panel %d (%s): %w", i, lp.ID, err)
		}
		snap.ActivePanels = append(snap.ActivePanels, p)
	}

	for _, la := range legacy.History {
		snap.History = append(snap.History, &models.Archive{
			Date:      la.Date,
			Work:      legacyWork(la.Work),
			Profit:    legacyProfit(la.Profit),
			Batteries: legacyCounts(la.Batteries),
		})
	}

	snap.Normalize()
	return snap, nil
}

func legacyPanelToPanel(lp legacyPanel, loc *time.Location, defaultLive int) (*models.Panel, error) {
	placedAt, err := parseLegacyTime(lp.PlacedAtISO, loc)
	if err != nil {
		return nil, err
	}

	base := defaultLive
	if lp.RemainingMinutes != nil && *lp.RemainingMinutes > 0 {
		base = *lp.RemainingMinutes
	}

	p := &models.Panel{
		ID:               lp.ID,
		PlacedBy:         lp.PlacedBy,
		PlacedByName:     lp.PlacedByName,
		PlacedAt:         placedAt,
		BaseLiveDuration: base,
	}

	last := placedAt
	for _, li := range lp.Interactions {
		ts, err := parseLegacyTime(li.Timestamp, loc)
		if err != nil {
			return nil, err
		}
		if ts.Before(last) {
			ts = last
		}
		last = ts
		p.Interactions = append(p.Interactions, models.Interaction{
			UserID:    li.UserID,
			Action:    models.Action(li.Action),
			Timestamp: ts,
		})
	}
	if len(p.Interactions) == 0 || p.Interactions[0].Action != models.ActionPlace {
		place := models.Interaction{UserID: lp.PlacedBy, Action: models.ActionPlace, Timestamp: placedAt}
		p.Interactions = append([]models.Interaction{place}, p.Interactions...)
	}
	return p, nil
}

func parseLegacyTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

func legacyWork(w map[string]map[string]float64) models.WorkLedger {
	out := make(models.WorkLedger, len(w))
	for category, counts := range w {
		out[category] = legacyCounts(counts)
	}
	return out
}

func legacyCounts(c map[string]float64) models.CountLedger {
	out := make(models.CountLedger, len(c))
	for user, n := range c {
		out[models.UserID(user)] += int(n)
	}
	return out
}

func legacyProfit(p map[string]float64) models.ProfitLedger {
	out := make(models.ProfitLedger, len(p))
	for user, v := range p {
		out[models.UserID(user)] += int64(v)
	}
	return out
}
