package providers

import (
	"errors"
	"fmt"
	"os"
	"panelkeeper/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const AppName = "panelkeeper"

var envBindings = map[string]string{
	"logger.level":             "PK_LOG_LEVEL",
	"mechanics.timezone":       "PK_TIMEZONE",
	"notifier.webhookURL":      "PK_WEBHOOK_URL",
	"scheduler.pollInterval":   "PK_POLL_INTERVAL",
	"persistence.saveInterval": "PK_SAVE_INTERVAL",
	"persistence.driver":       "PK_PERSISTENCE_DRIVER",
	"cache.enabled":            "PK_CACHE_ENABLED",
}

func dataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

func stateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8080)

	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.filePath", filepath.Join(dataDir(), "state.json.zst"))
	v.SetDefault("persistence.badgerDir", filepath.Join(dataDir(), "badger"))
	v.SetDefault("persistence.saveInterval", 5*time.Minute)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", stateDir())
	v.SetDefault("logger.maxSizeMB", 100)
	v.SetDefault("logger.maxBackups", 3)
	v.SetDefault("logger.maxAgeDays", 7)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 10)
	v.SetDefault("cache.ttl", 30*time.Second)

	v.SetDefault("metrics.enabled", false)

	v.SetDefault("scheduler.pollInterval", 20*time.Second)

	v.SetDefault("notifier.webhookURL", "")
	v.SetDefault("notifier.username", "Panelkeeper")
	v.SetDefault("notifier.timeout", 10*time.Second)

	v.SetDefault("mechanics.timezone", "Europe/Berlin")
	v.SetDefault("mechanics.panelLiveDuration", 60)
	v.SetDefault("mechanics.batteryValue", 50000)
	v.SetDefault("mechanics.resetHour", 4)
	v.SetDefault("mechanics.reminderMinutes", []int{31, 45, 50, 55})
	v.SetDefault("mechanics.actions", map[string]int64{
		"containers":  90000,
		"hafenevents": 24000,
	})
}

// NewConfigProvider builds the configuration from defaults, an optional YAML
// file and PK_* environment variables, in increasing priority. A missing
// config file is not an error.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	configPath := flags.ConfigPath
	if configPath == "" {
		if found, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml")); err == nil {
			configPath = found
		}
	}
	if configPath != "" {
		filename := filepath.Base(configPath)
		v.AddConfigPath(filepath.Dir(configPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := NewCnfValidator(&conf).Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = configPath
	conf.Debug = flags.DebugMode

	if err := ensureDefaultDirs(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// ensureDefaultDirs creates the XDG directories when the config points into them.
func ensureDefaultDirs(conf *structures.Config) error {
	dirs := []string{
		filepath.Dir(conf.Persistence.FilePath),
		conf.Persistence.BadgerDir,
		conf.Logger.Dir,
	}
	for _, dir := range dirs {
		if !strings.HasPrefix(dir, dataDir()) && !strings.HasPrefix(dir, stateDir()) {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
