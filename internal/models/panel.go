package models

import (
	"time"
)

type Action string

const (
	ActionPlace Action = "place"
	ActionFix   Action = "fix"
)

type Interaction struct {
	UserID    UserID    `json:"userId"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Panel is a tracked item. Its interaction log is append-only and ordered by
// time; the first entry is always the place interaction.
type Panel struct {
	ID               string        `json:"id"`
	PlacedBy         UserID        `json:"placedBy"`
	PlacedByName     string        `json:"placedByName,omitempty"`
	PlacedAt         time.Time     `json:"placedAt"`
	BaseLiveDuration int           `json:"baseLiveDuration"`
	Interactions     []Interaction `json:"interactions"`
}

func NewPanel(id string, user UserID, name string, now time.Time, baseLiveDuration int) *Panel {
	return &Panel{
		ID:               id,
		PlacedBy:         user,
		PlacedByName:     name,
		PlacedAt:         now,
		BaseLiveDuration: baseLiveDuration,
		Interactions: []Interaction{
			{UserID: user, Action: ActionPlace, Timestamp: now},
		},
	}
}

// record appends an interaction. A timestamp earlier than the last entry
// (clock stepped back) is raised to it so the log stays ordered.
func (p *Panel) record(user UserID, action Action, at time.Time) {
	if n := len(p.Interactions); n > 0 && at.Before(p.Interactions[n-1].Timestamp) {
		at = p.Interactions[n-1].Timestamp
	}
	p.Interactions = append(p.Interactions, Interaction{UserID: user, Action: action, Timestamp: at})
}

// FixedBetween reports whether a fix interaction falls inside [start, end].
func (p *Panel) FixedBetween(start, end time.Time) bool {
	for _, i := range p.Interactions {
		if i.Action != ActionFix {
			continue
		}
		if !i.Timestamp.Before(start) && !i.Timestamp.After(end) {
			return true
		}
	}
	return false
}

func (p *Panel) FixCount() int {
	n := 0
	for _, i := range p.Interactions {
		if i.Action == ActionFix {
			n++
		}
	}
	return n
}

// ProjectedReadyAt is when the panel would be ready if no window is missed.
func (p *Panel) ProjectedReadyAt() time.Time {
	return p.PlacedAt.Add(time.Duration(p.BaseLiveDuration) * time.Minute)
}

func (p *Panel) clone() *Panel {
	c := *p
	c.Interactions = append([]Interaction(nil), p.Interactions...)
	return &c
}
