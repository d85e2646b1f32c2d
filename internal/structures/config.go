package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type Persistence struct {
	Driver       string        `yaml:"driver" validate:"required|in:file,badger"`
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	BadgerDir    string        `yaml:"badgerDir" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode       uint32 `yaml:"mode" validate:"required|uint"`
	Dir        string `yaml:"dir" validate:"required|unixPath"`
	MaxSizeMB  int    `yaml:"maxSizeMB" validate:"min:0"`
	MaxBackups int    `yaml:"maxBackups" validate:"min:0"`
	MaxAgeDays int    `yaml:"maxAgeDays" validate:"min:0"`
	Compress   bool   `yaml:"compress"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type SchedulerConfig struct {
	PollInterval time.Duration `yaml:"pollInterval" validate:"required|min:1"`
}

type NotifierConfig struct {
	WebhookURL string        `yaml:"webhookURL"`
	Username   string        `yaml:"username"`
	Timeout    time.Duration `yaml:"timeout" validate:"required|min:1"`
}

// MechanicsConfig holds the tunable game rules.
type MechanicsConfig struct {
	Timezone          string           `yaml:"timezone" validate:"required"`
	PanelLiveDuration int              `yaml:"panelLiveDuration" validate:"required|min:1"`
	BatteryValue      int64            `yaml:"batteryValue" validate:"min:0"`
	ResetHour         int              `yaml:"resetHour" validate:"min:0|max:23"`
	ReminderMinutes   []int            `yaml:"reminderMinutes"`
	Actions           map[string]int64 `yaml:"actions"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server          `yaml:"webServer"`
	Persistence Persistence     `yaml:"persistence"`
	Logger      LoggerConfig    `yaml:"logger"`
	Cache       CacheConfig     `yaml:"cache"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Scheduler   SchedulerConfig `yaml:"scheduler"`
	Notifier    NotifierConfig  `yaml:"notifier"`
	Mechanics   MechanicsConfig `yaml:"mechanics"`
}
