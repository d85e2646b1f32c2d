package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testLoc = time.FixedZone("CET", 3600)

func at(hour, min, sec int) time.Time {
	return time.Date(2024, time.May, 10, hour, min, sec, 0, testLoc)
}

func panelAt(placed time.Time, fixes ...time.Time) *Panel {
	p := NewPanel("p1", "a", "", placed, 60)
	for _, f := range fixes {
		p.record("b", ActionFix, f)
	}
	return p
}

func TestCalculatePanelState_ScenarioA(t *testing.T) {
	p := panelAt(at(10, 5, 0))

	s := CalculatePanelState(p, at(11, 30, 0))
	assert.Equal(t, 0, s.TotalDelayMinutes, "window still open")
	assert.Equal(t, -25, s.RemainingMinutes)

	s = CalculatePanelState(p, at(12, 0, 0))
	assert.Equal(t, 60, s.TotalDelayMinutes)
	assert.Equal(t, 5, s.RemainingMinutes)
	assert.True(t, s.ExpiryTime.Equal(at(12, 5, 0)))
}

func TestCalculatePanelState_DelayAccruesPerMissedWindow(t *testing.T) {
	p := panelAt(at(10, 5, 0))

	prevDelay, prevRemaining := -1, 1<<30
	for hour := 12; hour <= 18; hour++ {
		s := CalculatePanelState(p, at(hour, 0, 0))
		assert.Equal(t, (hour-11)*DelayPenaltyMinutes, s.TotalDelayMinutes)
		assert.Greater(t, s.TotalDelayMinutes, prevDelay)
		assert.LessOrEqual(t, s.RemainingMinutes, prevRemaining)
		prevDelay, prevRemaining = s.TotalDelayMinutes, s.RemainingMinutes
	}
}

func TestCalculatePanelState_FixInsideWindowPreventsPenalty(t *testing.T) {
	p := panelAt(at(10, 5, 0), at(11, 30, 0), at(11, 45, 0), at(11, 59, 59))

	s := CalculatePanelState(p, at(12, 0, 0))
	assert.Equal(t, 0, s.TotalDelayMinutes)
	assert.Equal(t, -55, s.RemainingMinutes)
}

func TestCalculatePanelState_FixOutsideWindowDoesNotCount(t *testing.T) {
	p := panelAt(at(10, 5, 0), at(11, 10, 0), at(12, 0, 0))

	s := CalculatePanelState(p, at(12, 1, 0))
	assert.Equal(t, 60, s.TotalDelayMinutes)
}

func TestCalculatePanelState_OnlyMissedWindowsPenalize(t *testing.T) {
	// 11:xx fixed, 12:xx missed, 13:xx fixed.
	p := panelAt(at(10, 5, 0), at(11, 40, 0), at(13, 35, 0))

	s := CalculatePanelState(p, at(14, 10, 0))
	assert.Equal(t, 60, s.TotalDelayMinutes)
	assert.True(t, s.ExpiryTime.Equal(at(12, 5, 0)))
}

func TestCalculatePanelState_PlacementHourWindowIgnored(t *testing.T) {
	p := panelAt(at(10, 5, 0))

	s := CalculatePanelState(p, at(11, 0, 0))
	assert.Equal(t, 0, s.TotalDelayMinutes)
}

func TestCalculatePanelState_RemainingIsFloored(t *testing.T) {
	p := panelAt(at(10, 5, 30))

	assert.Equal(t, 59, CalculatePanelState(p, at(10, 6, 0)).RemainingMinutes)
	assert.Equal(t, -1, CalculatePanelState(p, at(11, 6, 0)).RemainingMinutes)
}

func TestCalculatePanelState_UsesStoredBaseDuration(t *testing.T) {
	p := NewPanel("p1", "a", "", at(10, 5, 0), 120)

	s := CalculatePanelState(p, at(10, 5, 0))
	assert.Equal(t, 120, s.RemainingMinutes)
}

func TestCalculatePanelState_ConvertsZone(t *testing.T) {
	p := panelAt(at(10, 5, 0).UTC())

	s := CalculatePanelState(p, at(12, 0, 0))
	assert.Equal(t, 60, s.TotalDelayMinutes)
	assert.Equal(t, 5, s.RemainingMinutes)
}

func TestCalculatePanelState_Idempotent(t *testing.T) {
	p := panelAt(at(10, 5, 0), at(11, 40, 0))
	now := at(13, 15, 0)
	assert.Equal(t, CalculatePanelState(p, now), CalculatePanelState(p, now))
	assert.Len(t, p.Interactions, 2)
}

func TestCurrentWindow(t *testing.T) {
	start, end := CurrentWindow(at(10, 12, 0))
	assert.True(t, start.Equal(at(10, 30, 0)))
	assert.True(t, end.Equal(at(10, 59, 59)))
}

func TestPanel_RecordClampsBackwardsTimestamp(t *testing.T) {
	p := panelAt(at(10, 5, 0))
	p.record("b", ActionFix, at(10, 0, 0))

	assert.True(t, p.Interactions[1].Timestamp.Equal(at(10, 5, 0)))
	assert.Equal(t, 1, p.FixCount())
}
