package persistence

import (
	"bytes"
	"fmt"
	"os"
	"panelkeeper/internal/models"
	"panelkeeper/internal/persistence/interfaces"
	"panelkeeper/internal/providers"

	json "github.com/goccy/go-json"
)

// FileManager keeps the snapshot in a single zstd compressed JSON file.
type FileManager struct {
	fileName   string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	opts       UpgradeOptions
}

func NewFileManager(fileName string, compressor interfaces.CompressorInterface, logger providers.Logger, opts UpgradeOptions) *FileManager {
	return &FileManager{
		fileName:   fileName,
		compressor: compressor,
		logger:     logger,
		opts:       opts,
	}
}

// Save writes the snapshot to a temporary file and renames it over the old one.
func (f *FileManager) Save(snap *models.Snapshot) error {
	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.fileName)
}

// Load reads the snapshot. A missing file yields nil. Plain JSON files, as
// written by older versions, are accepted next to compressed ones.
func (f *FileManager) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(f.fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		f.logger.Warnf(providers.TypeApp, "Snapshot file %s is empty", f.fileName)
		return nil, nil
	}

	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		trimmed := bytes.TrimSpace(data)
		if trimmed[0] != '{' {
			return nil, fmt.Errorf("decompress %s: %w", f.fileName, err)
		}
		f.logger.Warnf(providers.TypeApp, "Snapshot file %s is not compressed, reading as plain JSON", f.fileName)
		jsonData = trimmed
	}

	snap, err := UpgradeSnapshot(jsonData, f.opts)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
