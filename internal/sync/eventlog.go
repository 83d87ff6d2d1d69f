package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

type EventType string

const (
	TestPublished       EventType = "TestPublished"
	SubmissionStarted   EventType = "SubmissionStarted"
	SubmissionCompleted EventType = "SubmissionCompleted"
)

type Event struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"site_id"`
	Type      EventType       `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewEvent marshals payload into an event keyed by a test or submission id.
func NewEvent(typ EventType, key string, payload any) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: typ, Key: key, Data: b}, nil
}

type EventRepo struct {
	db     *sql.DB
	siteID string
	now    func() time.Time
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID, now: func() time.Time { return time.Now().UTC() }}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if len(e.Data) == 0 {
		e.Data = json.RawMessage("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		r.siteID, string(e.Type), e.Key, string(e.Data), r.now().UnixMilli())
	return err
}

// Since returns up to limit events with seq greater than after, oldest first.
func (r *EventRepo) Since(ctx context.Context, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 ORDER BY seq LIMIT $2`, after, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Event{}
	for rows.Next() {
		var (
			e       Event
			typ     string
			data    string
			created int64
		)
		if err := rows.Scan(&e.Seq, &e.SiteID, &typ, &e.Key, &data, &created); err != nil {
			return nil, err
		}
		e.Type = EventType(typ)
		e.Data = json.RawMessage(data)
		e.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
