package models

import (
	"math"
	"time"
)

const (
	// DelayPenaltyMinutes is added to a panel's lifetime for every missed window.
	DelayPenaltyMinutes = 60

	windowOpensAfter  = 30 * time.Minute
	windowClosesAfter = 59*time.Minute + 59*time.Second
)

type PanelState struct {
	RemainingMinutes  int       `json:"remainingMinutes"`
	TotalDelayMinutes int       `json:"totalDelayMinutes"`
	ExpiryTime        time.Time `json:"expiryTime"`
}

// Ready reports whether the panel can be collected.
func (s PanelState) Ready() bool {
	return s.RemainingMinutes <= 0
}

// CalculatePanelState derives the live state of a panel from its interaction
// log. Every full hour after placement opens a maintenance window in its second
// half; each window that closed before now without a fix inside it delays the
// panel by DelayPenaltyMinutes.
func CalculatePanelState(p *Panel, now time.Time) PanelState {
	placedAt := p.PlacedAt.In(now.Location())
	delay := 0

	for checkpoint := topOfNextHour(placedAt); ; checkpoint = checkpoint.Add(time.Hour) {
		start, end := maintenanceWindow(checkpoint)
		if start.After(now) || !now.After(end) {
			break
		}
		if !p.FixedBetween(start, end) {
			delay += DelayPenaltyMinutes
		}
	}

	expiry := placedAt.Add(time.Duration(p.BaseLiveDuration+delay) * time.Minute)
	return PanelState{
		RemainingMinutes:  int(math.Floor(expiry.Sub(now).Minutes())),
		TotalDelayMinutes: delay,
		ExpiryTime:        expiry,
	}
}

// CurrentWindow returns the maintenance window of the hour containing t.
func CurrentWindow(t time.Time) (time.Time, time.Time) {
	return maintenanceWindow(topOfHour(t))
}

func maintenanceWindow(checkpoint time.Time) (time.Time, time.Time) {
	return checkpoint.Add(windowOpensAfter), checkpoint.Add(windowClosesAfter)
}

func topOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func topOfNextHour(t time.Time) time.Time {
	return topOfHour(t).Add(time.Hour)
}
