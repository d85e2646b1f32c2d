package persistence

import (
	"panelkeeper/internal/models"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyKnecht = `{
    "active_panels": [
        {
            "id": "a1b2",
            "placed_by": 123456789012345678,
            "placed_by_name": "Alice",
            "placed_at_iso": "2024-05-10T10:05:00.123456+01:00",
            "remaining_minutes": 90,
            "interactions": [
                {"user_id": "123456789012345678", "action": "place", "timestamp": "2024-05-10T10:05:00.123456+01:00"},
                {"user_id": 987, "action": "fix", "timestamp": "2024-05-10T11:40:00+01:00"}
            ]
        },
        {
            "id": "c3d4",
            "placed_by": 987,
            "placed_at_iso": "2024-05-10T12:00:00",
            "interactions": []
        }
    ],
    "daily_batteries": {"987": 2},
    "daily_work": {
        "placed": {"123456789012345678": 1, "987": 1},
        "fixes": {"987": 3},
        "containers": {},
        "hafenevents": {"987": 1}
    },
    "daily_profit": {"987": 24000, "123456789012345678": 16666.0},
    "lifetime_profit": {"987": 100000},
    "lifetime_work": {"placed": {"987": 10}},
    "history": [
        {"date": "Unknown", "work": {"placed": {"987": 4}}, "profit": {"987": 50000}, "batteries": {}}
    ],
    "last_reset_date": "2024-05-10",
    "tracking_message_id": 1122334455667788
}`

func TestUpgradeSnapshot_Legacy(t *testing.T) {
	snap, err := UpgradeSnapshot([]byte(legacyKnecht), testOpts())
	require.NoError(t, err)

	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.Equal(t, "2024-05-10", snap.LastResetDate)
	assert.Equal(t, "1122334455667788", snap.DashboardRef)

	require.Len(t, snap.ActivePanels, 2)
	p := snap.ActivePanels[0]
	assert.Equal(t, "a1b2", p.ID)
	assert.Equal(t, models.UserID("123456789012345678"), p.PlacedBy)
	assert.Equal(t, "Alice", p.PlacedByName)
	assert.Equal(t, 90, p.BaseLiveDuration)
	assert.True(t, p.PlacedAt.Equal(time.Date(2024, 5, 10, 10, 5, 0, 123456000, testLoc)))
	require.Len(t, p.Interactions, 2)
	assert.Equal(t, models.UserID("987"), p.Interactions[1].UserID)
	assert.Equal(t, models.ActionFix, p.Interactions[1].Action)

	naive := snap.ActivePanels[1]
	assert.Equal(t, 60, naive.BaseLiveDuration)
	assert.True(t, naive.PlacedAt.Equal(time.Date(2024, 5, 10, 12, 0, 0, 0, testLoc)))
	require.Len(t, naive.Interactions, 1, "place interaction synthesized")
	assert.Equal(t, models.ActionPlace, naive.Interactions[0].Action)
	assert.Equal(t, models.UserID("987"), naive.Interactions[0].UserID)

	assert.Equal(t, 2, snap.DailyBatteries["987"])
	assert.Equal(t, 3, snap.DailyWork[models.CategoryFixes]["987"])
	assert.Equal(t, 1, snap.DailyWork["hafenevents"]["987"])
	assert.Equal(t, int64(16666), snap.DailyProfit["123456789012345678"])
	assert.Equal(t, int64(100000), snap.LifetimeProfit["987"])
	assert.Equal(t, 10, snap.LifetimeWork[models.CategoryPlaced]["987"])
	assert.NotNil(t, snap.LifetimeWork[models.CategoryFixes])
	assert.NotNil(t, snap.LifetimeBatteries)

	require.Len(t, snap.History, 1)
	assert.Equal(t, "Unknown", snap.History[0].Date)
	assert.Equal(t, int64(50000), snap.History[0].Profit["987"])
}

func TestUpgradeSnapshot_LegacyEmptyObject(t *testing.T) {
	snap, err := UpgradeSnapshot([]byte(`{}`), testOpts())
	require.NoError(t, err)

	assert.Empty(t, snap.ActivePanels)
	assert.NotNil(t, snap.DailyWork[models.CategoryPlaced])
	assert.NotNil(t, snap.DailyProfit)
	assert.Equal(t, "", snap.LastResetDate)
}

func TestUpgradeSnapshot_LegacyNullFields(t *testing.T) {
	snap, err := UpgradeSnapshot([]byte(`{"last_reset_date": null, "tracking_message_id": null, "history": null}`), testOpts())
	require.NoError(t, err)
	assert.Equal(t, "", snap.LastResetDate)
	assert.Equal(t, "", snap.DashboardRef)
}

func TestUpgradeSnapshot_LegacyBadTimestamp(t *testing.T) {
	data := `{"active_panels": [{"id": "x", "placed_by": 1, "placed_at_iso": "yesterday"}]}`
	_, err := UpgradeSnapshot([]byte(data), testOpts())
	assert.Error(t, err)
}

func TestUpgradeSnapshot_CurrentVersion(t *testing.T) {
	data, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)

	snap, err := UpgradeSnapshot(data, testOpts())
	require.NoError(t, err)
	require.Len(t, snap.ActivePanels, 1)
	assert.Equal(t, models.UserID("42"), snap.ActivePanels[0].PlacedBy)
}

func TestUpgradeSnapshot_CurrentVersionCoercesKeys(t *testing.T) {
	data := `{"version": 2, "dailyProfit": {"42.0": 10, "42": 5}, "activePanels": [{"id": "p", "placedBy": 42, "interactions": [{"userId": 42, "action": "place"}]}]}`

	snap, err := UpgradeSnapshot([]byte(data), testOpts())
	require.NoError(t, err)
	assert.Equal(t, models.ProfitLedger{"42": 15}, snap.DailyProfit)
	assert.Equal(t, models.UserID("42"), snap.ActivePanels[0].PlacedBy)
	assert.NotNil(t, snap.DailyBatteries)
}

func TestUpgradeSnapshot_UnsupportedVersion(t *testing.T) {
	_, err := UpgradeSnapshot([]byte(`{"version": 99}`), testOpts())
	assert.ErrorIs(t, err, ErrUnsupportedSnapshotVersion)
}

func TestUpgradeSnapshot_Malformed(t *testing.T) {
	_, err := UpgradeSnapshot([]byte(`[1, 2]`), testOpts())
	assert.Error(t, err)
}
