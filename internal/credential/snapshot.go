package credential

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotKey is the backend key holding the serialized collection.
const SnapshotKey = "passwords"

// createdAtLayout matches JavaScript's Date.prototype.toISOString so
// snapshots written by the browser version load unchanged.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

type snapshotRecord struct {
	ID        int64  `json:"id"`
	Website   string `json:"website"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	CreatedAt string `json:"createdAt"`
}

func encodeSnapshot(records []Record) (string, error) {
	out := make([]snapshotRecord, 0, len(records))
	for _, r := range records {
		out = append(out, snapshotRecord{
			ID:        r.ID,
			Website:   r.Website,
			Username:  r.Username,
			Password:  r.Password,
			CreatedAt: r.CreatedAt.UTC().Format(createdAtLayout),
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeSnapshot(raw string) ([]Record, error) {
	var in []snapshotRecord
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(in))
	for i, sr := range in {
		createdAt, err := time.Parse(time.RFC3339Nano, sr.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("record %d: createdAt: %w", i, err)
		}
		records = append(records, Record{
			ID:        sr.ID,
			Website:   sr.Website,
			Username:  sr.Username,
			Password:  sr.Password,
			CreatedAt: createdAt.UTC(),
		})
	}
	return records, nil
}
