package reports

import (
	"panelkeeper/internal/models"
	"panelkeeper/internal/notify"
	"panelkeeper/internal/services"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDashboard_Empty(t *testing.T) {
	msg := RenderDashboard(&services.Summary{Now: at(10, 10, 0), Work: models.WorkLedger{}})

	require.Len(t, msg.Embeds, 1)
	e := msg.Embeds[0]
	assert.Equal(t, "No active panels.", e.Description)
	assert.Equal(t, notify.ColorInfo, e.Color)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, noneText, e.Fields[0].Value)
	assert.Equal(t, noneText, e.Fields[1].Value)
}

func TestRenderDashboard_PanelsAndPending(t *testing.T) {
	placed := at(10, 9, 5)
	p := models.NewPanel("abcdef123456", "42", "", placed, 60)
	now := at(10, 11, 40)

	msg := RenderDashboard(&services.Summary{
		Now:     now,
		Panels:  []services.PanelView{{Panel: p, State: models.CalculatePanelState(p, now)}},
		Work:    models.WorkLedger{models.CategoryPlaced: {"42": 1}},
		Pending: 1,
		Leaderboard: []models.LeaderboardEntry{
			{UserID: "42", Total: 1234567, Breakdown: map[string]int{models.CategoryPlaced: 1}},
		},
	})

	e := msg.Embeds[0]
	assert.Equal(t, notify.ColorWarning, e.Color)
	assert.Contains(t, e.Description, "`abcdef` <@42>")
	assert.Contains(t, e.Description, "**ready to collect**, delayed +60m")
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "Maintenance", e.Fields[0].Name)
	assert.Equal(t, "placed: 1", e.Fields[1].Value)
	assert.Equal(t, "1. <@42> $1,234,567 (1 acts)", e.Fields[2].Value)
}

func TestRenderDailyReport(t *testing.T) {
	msg := RenderDailyReport(&models.Archive{
		Date:      "2024-05-10",
		Work:      models.WorkLedger{models.CategoryFixes: {"7": 2}},
		Profit:    models.ProfitLedger{"7": 100, "42": 50},
		Batteries: models.CountLedger{"7": 1},
	})

	e := msg.Embeds[0]
	assert.Equal(t, "Daily report 2024-05-10", e.Title)
	assert.Equal(t, "Total payout $150, 1 batteries collected.", e.Description)
	assert.Equal(t, "fixes: 2", e.Fields[0].Value)
	assert.Contains(t, e.Fields[1].Value, "1. <@7> $100")
}
