package persistence

import (
	"errors"
	"fmt"
	"os"
	"panelkeeper/internal/models"
	"panelkeeper/internal/providers"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
)

var snapshotKey = []byte("snapshot")

// BadgerStore keeps the snapshot as a single key in a Badger database.
type BadgerStore struct {
	db     *badger.DB
	logger providers.Logger
	opts   UpgradeOptions
}

type BadgerOptions struct {
	// Dir is the database directory. Empty means in-memory.
	Dir     string
	Upgrade UpgradeOptions
}

func NewBadgerStore(o BadgerOptions, logger providers.Logger) (*BadgerStore, error) {
	var badgerOpts badger.Options
	if o.Dir == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(o.Dir, 0o755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(o.Dir)
	}
	badgerOpts = badgerOpts.WithLogger(&badgerLogger{logger: logger}).WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, logger: logger, opts: o.Upgrade}, nil
}

func (b *BadgerStore) Save(snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, data)
	})
}

func (b *BadgerStore) Load() (*models.Snapshot, error) {
	var data []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return UpgradeSnapshot(data, b.opts)
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's own logging into the app log.
type badgerLogger struct {
	logger providers.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Infof(providers.TypeApp, "badger: "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(providers.TypeApp, "badger: "+format, args...)
}
