package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
)

// Provider supplies board snapshots to the engine. The engine itself performs
// no file or network access; callers pick an implementation.
type Provider interface {
	LoadSnapshot() (*BoardSnapshot, error)
}

// FileProvider loads a snapshot from a JSON export file.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a provider reading from path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// LoadSnapshot reads and decodes the snapshot file.
func (fp *FileProvider) LoadSnapshot() (*BoardSnapshot, error) {
	data, err := os.ReadFile(fp.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses a JSON snapshot. The presence of the "connections" key is
// recorded separately from its contents: an exporter that emits an empty
// list is asserting the board is fully routed, while one that omits the key
// is saying it has no ratsnest data at all.
func Decode(data []byte) (*BoardSnapshot, error) {
	var snap BoardSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if raw, ok := keys["connections"]; ok && string(raw) != "null" {
		snap.HasConnectionData = true
		if snap.Connections == nil {
			snap.Connections = []ConnectionEdge{}
		}
	}

	return &snap, nil
}
