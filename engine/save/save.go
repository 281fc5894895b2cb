// Package save implements JSON export and import of progress records.
package save

import (
	"encoding/json"
	"time"

	"github.com/nathoo/tutorcore/engine/progress"
)

// FormatVersion identifies the snapshot layout.
const FormatVersion = "1"

// Snapshot is the JSON-serializable export format for one session's
// progress record.
type Snapshot struct {
	Version string          `json:"version"`
	Session string          `json:"session"`
	SavedAt string          `json:"saved_at"`
	Record  progress.Record `json:"record"`
}

// Export serializes a session's record to JSON bytes.
func Export(sessionID string, rec *progress.Record) ([]byte, error) {
	snap := Snapshot{
		Version: FormatVersion,
		Session: sessionID,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Record:  *rec,
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Load deserializes JSON bytes into a Snapshot.
func Load(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	// Ensure maps are never nil after load.
	if snap.Record.Correct == nil {
		snap.Record.Correct = map[string]int{}
	}
	return &snap, nil
}

// Apply copies a loaded snapshot onto a record.
func Apply(rec *progress.Record, snap *Snapshot) {
	rec.Correct = snap.Record.Correct
}
