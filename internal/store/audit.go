package store

import (
	"context"
	"fmt"
	"time"
)

// ActionEntry is one audited analyst action.
type ActionEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"` // "update_alert", "send_alert", "create_incident", "export", etc.
	Resource  string    `json:"resource"`
	RecordID  string    `json:"record_id,omitempty"`
	Outcome   string    `json:"outcome"` // "ok" or "error"
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AddAction appends an action entry to the audit trail.
func (s *Store) AddAction(ctx context.Context, entry ActionEntry) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("act_%d", time.Now().UnixNano())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO actions (id, action, resource, record_id, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.Action, entry.Resource, entry.RecordID,
		entry.Outcome, entry.Detail, entry.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert action entry: %w", err)
	}

	return nil
}

// LogAction is the coordinator-facing convenience wrapper.
func (s *Store) LogAction(ctx context.Context, action, resource, recordID, outcome, detail string) error {
	return s.AddAction(ctx, ActionEntry{
		Action:   action,
		Resource: resource,
		RecordID: recordID,
		Outcome:  outcome,
		Detail:   detail,
	})
}

// RecentActions retrieves the latest audit entries, newest first.
func (s *Store) RecentActions(ctx context.Context, limit int) ([]ActionEntry, error) {
	query := `SELECT id, action, resource, record_id, outcome, detail, created_at
		FROM actions ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	var entries []ActionEntry
	for rows.Next() {
		var entry ActionEntry
		var recordID, detail *string
		var createdAt int64

		err := rows.Scan(&entry.ID, &entry.Action, &entry.Resource, &recordID,
			&entry.Outcome, &detail, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action entry: %w", err)
		}

		if recordID != nil {
			entry.RecordID = *recordID
		}
		if detail != nil {
			entry.Detail = *detail
		}
		entry.CreatedAt = time.Unix(createdAt, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
