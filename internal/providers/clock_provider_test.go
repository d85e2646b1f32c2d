package providers

import (
	"panelkeeper/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clockTestLogger struct {
	cacheTestLogger
	warnings int
}

func (m *clockTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{}) { m.warnings++ }

func TestClockProvider_LoadsZone(t *testing.T) {
	logger := &clockTestLogger{}
	conf := &structures.Config{Mechanics: structures.MechanicsConfig{Timezone: "Europe/Berlin"}}

	c := NewClockProvider(conf, logger)

	assert.Equal(t, "Europe/Berlin", c.Location().String())
	assert.Equal(t, c.Location(), c.Now().Location())
	assert.Equal(t, 0, logger.warnings)
}

func TestClockProvider_FallsBackToUTC(t *testing.T) {
	logger := &clockTestLogger{}
	conf := &structures.Config{Mechanics: structures.MechanicsConfig{Timezone: "Mars/Olympus"}}

	c := NewClockProvider(conf, logger)

	assert.Equal(t, time.UTC, c.Location())
	assert.Equal(t, 1, logger.warnings)
}
