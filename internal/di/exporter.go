package di

import (
	"io"
	"panelkeeper/internal/persistence/interfaces"

	json "github.com/goccy/go-json"
)

// Exporter writes the stored snapshot, upgraded to the current format.
type Exporter struct {
	store interfaces.SnapshotStore
}

func NewExporter(store interfaces.SnapshotStore) *Exporter {
	return &Exporter{store: store}
}

func (e *Exporter) Export(w io.Writer) error {
	snap, err := e.store.Load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
