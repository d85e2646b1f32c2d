package di

import (
	"bytes"
	"errors"
	"panelkeeper/internal/models"
	"panelkeeper/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_WritesSnapshot(t *testing.T) {
	snap := &models.Snapshot{LastResetDate: "2024-05-10", DashboardRef: "1234"}
	snap.Normalize()
	e := NewExporter(&testutil.MockSnapshotStore{Stored: snap})

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf))

	assert.Contains(t, buf.String(), `"lastResetDate": "2024-05-10"`)
	assert.Contains(t, buf.String(), `"dashboardRef": "1234"`)
}

func TestExporter_LoadError(t *testing.T) {
	e := NewExporter(&testutil.MockSnapshotStore{LoadErr: errors.New("corrupt")})

	var buf bytes.Buffer
	assert.Error(t, e.Export(&buf))
	assert.Empty(t, buf.String())
}
