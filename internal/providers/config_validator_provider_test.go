package providers

import (
	"panelkeeper/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			Driver:       "file",
			FilePath:     "/tmp/panelkeeper.json.zst",
			BadgerDir:    "/tmp/panelkeeper-badger",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Scheduler: structures.SchedulerConfig{
			PollInterval: 20 * time.Second,
		},
		Notifier: structures.NotifierConfig{
			Timeout: 10 * time.Second,
		},
		Mechanics: structures.MechanicsConfig{
			Timezone:          "Europe/Berlin",
			PanelLiveDuration: 60,
			BatteryValue:      50000,
			ResetHour:         4,
			ReminderMinutes:   []int{31, 45, 50, 55},
			Actions:           map[string]int64{"containers": 90000},
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_UnknownDriver(t *testing.T) {
	c := validConfig()
	c.Persistence.Driver = "postgres"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroLiveDuration(t *testing.T) {
	c := validConfig()
	c.Mechanics.PanelLiveDuration = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ResetHourOutOfRange(t *testing.T) {
	c := validConfig()
	c.Mechanics.ResetHour = 24
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ReminderMinuteOutOfRange(t *testing.T) {
	c := validConfig()
	c.Mechanics.ReminderMinutes = []int{31, 60}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ActionClashesWithCounter(t *testing.T) {
	c := validConfig()
	c.Mechanics.Actions = map[string]int64{"fixes": 1}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativeActionValue(t *testing.T) {
	c := validConfig()
	c.Mechanics.Actions = map[string]int64{"containers": -1}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
