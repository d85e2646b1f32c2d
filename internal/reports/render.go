package reports

import (
	"fmt"
	"panelkeeper/internal/models"
	"panelkeeper/internal/notify"
	"panelkeeper/internal/services"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	leaderboardSize = 5
	footerText      = "Panelkeeper"
	noneText        = "-"
)

func mention(u models.UserID) string {
	return "<@" + u.String() + ">"
}

func credits(v int64) string {
	return "$" + humanize.Comma(v)
}

// RenderDashboard builds the live dashboard message from a service summary.
func RenderDashboard(s *services.Summary) *notify.Message {
	embed := notify.Embed{
		Title:     "Panels",
		Color:     notify.ColorInfo,
		Footer:    &notify.Footer{Text: footerText},
		Timestamp: s.Now.UTC().Format(time.RFC3339),
	}

	if len(s.Panels) == 0 {
		embed.Description = "No active panels."
	} else {
		start, end := models.CurrentWindow(s.Now)
		var b strings.Builder
		for _, v := range s.Panels {
			b.WriteString(panelLine(v, s.Now, start, end))
			b.WriteByte('\n')
		}
		embed.Description = b.String()
	}

	if s.Pending > 0 {
		embed.Color = notify.ColorWarning
		embed.Fields = append(embed.Fields, notify.Field{
			Name:  "Maintenance",
			Value: fmt.Sprintf("%d panel(s) need a fix this hour", s.Pending),
		})
	}

	embed.Fields = append(embed.Fields,
		notify.Field{Name: "Today", Value: workSummary(s.Work), Inline: true},
		notify.Field{Name: "Leaderboard", Value: leaderboardLines(s.Leaderboard, leaderboardSize), Inline: true},
	)

	return &notify.Message{Embeds: []notify.Embed{embed}}
}

func panelLine(v services.PanelView, now, start, end time.Time) string {
	owner := v.Panel.PlacedByName
	if owner == "" {
		owner = mention(v.Panel.PlacedBy)
	}

	status := fmt.Sprintf("ready in %dm (%s)", v.State.RemainingMinutes, v.State.ExpiryTime.In(now.Location()).Format("15:04"))
	if v.State.Ready() {
		status = "**ready to collect**"
	}
	if v.State.TotalDelayMinutes > 0 {
		status += fmt.Sprintf(", delayed +%dm", v.State.TotalDelayMinutes)
	}

	fix := ""
	if !now.Before(start) && v.Panel.FixedBetween(start, end) {
		fix = ", fixed this hour"
	}
	return fmt.Sprintf("`%s` %s: %s%s", shortID(v.Panel.ID), owner, status, fix)
}

func shortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

func workSummary(work models.WorkLedger) string {
	categories := make([]string, 0, len(work))
	for c := range work {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var lines []string
	for _, c := range categories {
		if n := work.Total(c); n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", c, n))
		}
	}
	if len(lines) == 0 {
		return noneText
	}
	return strings.Join(lines, "\n")
}

func leaderboardLines(entries []models.LeaderboardEntry, limit int) string {
	if len(entries) == 0 {
		return noneText
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s %s (%d acts)", i+1, mention(e.UserID), credits(e.Total), e.Acts())
	}
	return strings.Join(lines, "\n")
}

// RenderDailyReport summarizes an archived business day.
func RenderDailyReport(a *models.Archive) *notify.Message {
	entries := models.BuildLeaderboard(a.Work, a.Profit, a.Batteries)

	var total int64
	for _, v := range a.Profit {
		total += v
	}
	batteries := 0
	for _, n := range a.Batteries {
		batteries += n
	}

	embed := notify.Embed{
		Title:       "Daily report " + a.Date,
		Description: fmt.Sprintf("Total payout %s, %d batteries collected.", credits(total), batteries),
		Color:       notify.ColorSuccess,
		Footer:      &notify.Footer{Text: footerText},
		Fields: []notify.Field{
			{Name: "Work", Value: workSummary(a.Work), Inline: true},
			{Name: "Top", Value: leaderboardLines(entries, leaderboardSize*2), Inline: true},
		},
	}
	return &notify.Message{Embeds: []notify.Embed{embed}}
}

// RenderReminder asks for fixes while the maintenance window is open.
func RenderReminder(pending int, now time.Time) *notify.Message {
	_, end := models.CurrentWindow(now)
	left := int(end.Sub(now).Minutes())
	return &notify.Message{
		Content: fmt.Sprintf("Maintenance: %d panel(s) still need a fix, window closes in %d min.", pending, left),
	}
}
