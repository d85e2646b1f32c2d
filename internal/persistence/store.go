package persistence

import (
	"fmt"
	"panelkeeper/internal/persistence/interfaces"
	"panelkeeper/internal/providers"
	"panelkeeper/internal/structures"
)

const (
	DriverFile   = "file"
	DriverBadger = "badger"
)

// NewSnapshotStore opens the store selected by persistence.driver. The
// returned cleanup releases it.
func NewSnapshotStore(conf *structures.Config, clock providers.Clock, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.SnapshotStore, func(), error) {
	opts := UpgradeOptions{
		Location:            clock.Location(),
		DefaultLiveDuration: conf.Mechanics.PanelLiveDuration,
	}

	switch conf.Persistence.Driver {
	case DriverFile, "":
		fm := NewFileManager(conf.Persistence.FilePath, compressor, logger, opts)
		logger.Infof(providers.TypeApp, "Snapshot store: file %s", conf.Persistence.FilePath)
		return fm, fm.Close, nil
	case DriverBadger:
		bs, err := NewBadgerStore(BadgerOptions{Dir: conf.Persistence.BadgerDir, Upgrade: opts}, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Infof(providers.TypeApp, "Snapshot store: badger %s", conf.Persistence.BadgerDir)
		cleanup := func() {
			compressor.Close()
			if err := bs.Close(); err != nil {
				logger.Errorf(providers.TypeApp, "Closing badger: %s", err)
			}
		}
		return bs, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown persistence driver %q", conf.Persistence.Driver)
	}
}
