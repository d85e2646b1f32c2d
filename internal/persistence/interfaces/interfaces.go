package interfaces

import "panelkeeper/internal/models"

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close()
}

// SnapshotStore persists the full engine state. Load returns nil without an
// error when nothing was stored yet.
type SnapshotStore interface {
	Save(snap *models.Snapshot) error
	Load() (*models.Snapshot, error)
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
