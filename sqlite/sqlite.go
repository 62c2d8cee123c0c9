package sqlitestore

import (
	"database/sql"
	"errors"
	"sort"
	"stockroom"
	stockmsgpack "stockroom/msgpack"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists snapshots as msgpack blobs keyed by state key, plus an append-only
// log of applied mutations.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS states (
			key TEXT PRIMARY KEY,
			version INTEGER,
			saved_at TEXT,
			data BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT,
			collection TEXT,
			entity_id TEXT,
			from_status TEXT,
			to_status TEXT,
			timestamp TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS event_deductions (
			event_id INTEGER,
			ingredient_id TEXT,
			amount TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadState(key string) (stockroom.Snapshot, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM states WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return stockroom.Snapshot{}, false, nil
	}
	if err != nil {
		return stockroom.Snapshot{}, false, err
	}
	snap, err := stockmsgpack.UnmarshalSnapshot(data)
	if err != nil {
		return stockroom.Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *Store) SaveState(key string, snap stockroom.Snapshot) error {
	savedAt := s.now()
	data, err := stockmsgpack.MarshalSnapshot(snap, savedAt)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO states (key, version, saved_at, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET version = excluded.version, saved_at = excluded.saved_at, data = excluded.data`,
		key, stockmsgpack.SnapshotVersion, savedAt.Format(time.RFC3339), data)
	return err
}

// EventLog returns a hook appending every applied mutation to the events table.
func (s *Store) EventLog() stockroom.HookFunc {
	return func(ev stockroom.Event, _ stockroom.Snapshot) error {
		return s.persistEvent(ev)
	}
}

func (s *Store) persistEvent(ev stockroom.Event) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	res, err := tx.Exec(`INSERT INTO events (op, collection, entity_id, from_status, to_status, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Op, string(ev.Collection), ev.ID, string(ev.FromStatus), string(ev.ToStatus), ev.At.Format(time.RFC3339Nano))
	if err != nil {
		tx.Rollback()
		return err
	}
	eventID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}
	ids := make([]string, 0, len(ev.Deducted))
	for id := range ev.Deducted {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		_, err := tx.Exec(`INSERT INTO event_deductions (event_id, ingredient_id, amount) VALUES (?, ?, ?)`,
			eventID, id, ev.Deducted[id])
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type LoggedEvent struct {
	ID        int64
	Op        string
	EntityID  string
	Timestamp time.Time
	Deducted  stockroom.Usage
}

// Events lists logged mutations oldest first.
func (s *Store) Events() ([]LoggedEvent, error) {
	rows, err := s.db.Query(`SELECT id, op, entity_id, timestamp FROM events ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LoggedEvent
	index := map[int64]int{}
	for rows.Next() {
		var ev LoggedEvent
		var ts string
		if err := rows.Scan(&ev.ID, &ev.Op, &ev.EntityID, &ts); err != nil {
			return nil, err
		}
		ev.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
		index[ev.ID] = len(out)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	drows, err := s.db.Query(`SELECT event_id, ingredient_id, amount FROM event_deductions`)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var eventID int64
		var ingredientID string
		var amount stockroom.BaseQuantity
		if err := drows.Scan(&eventID, &ingredientID, &amount); err != nil {
			return nil, err
		}
		i, ok := index[eventID]
		if !ok {
			continue
		}
		if out[i].Deducted == nil {
			out[i].Deducted = stockroom.Usage{}
		}
		out[i].Deducted[ingredientID] = amount
	}
	return out, drows.Err()
}
