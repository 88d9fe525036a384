package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/papernet/internal/citation"
)

// ReadSnapshot reads a citation snapshot. A missing file yields an empty
// snapshot.
func ReadSnapshot(path string) (citation.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return citation.Snapshot{}, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	snap := citation.Snapshot{}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	if snap == nil {
		snap = citation.Snapshot{}
	}
	return snap, nil
}

// WriteSnapshot writes a citation snapshot as indented JSON keyed by paper id.
func WriteSnapshot(path string, snap citation.Snapshot) error {
	if snap == nil {
		snap = citation.Snapshot{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
