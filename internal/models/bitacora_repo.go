package models

import (
	"context"
	"encoding/json"
	"fmt"
)

// AppendLog pushes an immutable entry under the event's bitácora and stamps
// the generated key as its id. Entries are never updated after this.
func (r *RTDBRepo) AppendLog(ctx context.Context, ref EventRef, entry *LogEntry) error {
	path := BitacoraPath(ref.OwnerUID, ref.VenueID, ref.EventID)
	id, err := r.store.Push(ctx, path, entry)
	if err != nil {
		return fmt.Errorf("failed to append log entry: %w", err)
	}
	entry.ID = id
	if err := r.store.Update(ctx, path+"/"+id, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("failed to stamp log entry id: %w", err)
	}
	r.notify(path)
	return nil
}

// GetLog returns up to limit entries ordered by timestamp ascending, the
// order the store yields them in. Callers reverse for display.
func (r *RTDBRepo) GetLog(ctx context.Context, ref EventRef, limit int) ([]LogEntry, error) {
	nodes, err := r.store.OrderedLast(ctx, BitacoraPath(ref.OwnerUID, ref.VenueID, ref.EventID), "timestamp", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	entries := make([]LogEntry, 0, len(nodes))
	for _, n := range nodes {
		var e LogEntry
		if err := json.Unmarshal(n.Raw, &e); err != nil {
			return nil, fmt.Errorf("failed to decode log entry %s: %w", n.Key, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
