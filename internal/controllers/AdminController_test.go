package controllers

import (
	"net/http"
	"panelkeeper/internal/models"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_ForceReset(t *testing.T) {
	f := newControllerFixture(t)
	ac := NewAdminController(f.pc)
	post(f.pc.Place, `{"user": "42"}`)

	rr := post(ac.ForceReset, ``)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp resetResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Archived)
	assert.Equal(t, "2024-05-10", resp.Archived.Date)
	assert.Empty(t, f.svc.ActivePanels())
	assert.Equal(t, 2, f.publisher.refreshes)
}

func TestAdmin_ForceResetWithoutActivity(t *testing.T) {
	f := newControllerFixture(t)
	ac := NewAdminController(f.pc)

	rr := post(ac.ForceReset, ``)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"archived": null}`, rr.Body.String())
}

func TestAdmin_ClearPanels(t *testing.T) {
	f := newControllerFixture(t)
	ac := NewAdminController(f.pc)
	post(f.pc.Place, `{"user": "42"}`)
	post(f.pc.Place, `{"user": "7"}`)

	rr := post(ac.ClearPanels, ``)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"cleared": 2}`, rr.Body.String())
	assert.Empty(t, f.svc.ActivePanels())
}

func TestAdmin_Export(t *testing.T) {
	f := newControllerFixture(t)
	ac := NewAdminController(f.pc)
	post(f.pc.Place, `{"user": "42"}`)

	rr := get(ac.Export)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attachment")
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.Len(t, snap.ActivePanels, 1)
	assert.Equal(t, "2024-05-10", snap.LastResetDate)
}
