package models

import "time"

// Work categories always present in a WorkLedger. Flat-rate actions add their
// own categories next to these.
const (
	CategoryPlaced = "placed"
	CategoryFixes  = "fixes"
)

const businessDateLayout = "2006-01-02"

type CountLedger map[UserID]int

type ProfitLedger map[UserID]int64

// WorkLedger holds per-category work counts: category -> user -> count.
type WorkLedger map[string]CountLedger

func (w WorkLedger) Inc(category string, user UserID) {
	if w[category] == nil {
		w[category] = make(CountLedger)
	}
	w[category][user]++
}

// Empty reports whether no category holds a single count.
func (w WorkLedger) Empty() bool {
	for _, c := range w {
		if len(c) > 0 {
			return false
		}
	}
	return true
}

func (w WorkLedger) Total(category string) int {
	total := 0
	for _, n := range w[category] {
		total += n
	}
	return total
}

// AddTo folds every count into dst.
func (w WorkLedger) AddTo(dst WorkLedger) {
	for category, counts := range w {
		if dst[category] == nil {
			dst[category] = make(CountLedger)
		}
		counts.AddTo(dst[category])
	}
}

func (w WorkLedger) Clone() WorkLedger {
	c := make(WorkLedger, len(w))
	for category, counts := range w {
		c[category] = counts.Clone()
	}
	return c
}

func (c CountLedger) AddTo(dst CountLedger) {
	for user, n := range c {
		dst[user] += n
	}
}

func (c CountLedger) Clone() CountLedger {
	out := make(CountLedger, len(c))
	for user, n := range c {
		out[user] = n
	}
	return out
}

func (p ProfitLedger) AddTo(dst ProfitLedger) {
	for user, v := range p {
		dst[user] += v
	}
}

func (p ProfitLedger) Clone() ProfitLedger {
	out := make(ProfitLedger, len(p))
	for user, v := range p {
		out[user] = v
	}
	return out
}

// Archive is the frozen record of one business day.
type Archive struct {
	Date      string       `json:"date"`
	Work      WorkLedger   `json:"work"`
	Profit    ProfitLedger `json:"profit"`
	Batteries CountLedger  `json:"batteries"`
}

func (a *Archive) clone() *Archive {
	return &Archive{
		Date:      a.Date,
		Work:      a.Work.Clone(),
		Profit:    a.Profit.Clone(),
		Batteries: a.Batteries.Clone(),
	}
}

// BusinessDate returns the logical day t belongs to. A business day starts at
// resetHour local time, so earlier hours count towards the previous date.
func BusinessDate(t time.Time, resetHour int) string {
	if t.Hour() < resetHour {
		t = t.AddDate(0, 0, -1)
	}
	return t.Format(businessDateLayout)
}

func newWorkLedger() WorkLedger {
	return WorkLedger{
		CategoryPlaced: make(CountLedger),
		CategoryFixes:  make(CountLedger),
	}
}
