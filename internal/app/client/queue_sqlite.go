package client

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"punchclock/internal/domain/punch"
)

// SQLiteQueue is the durable on-disk queue of unsynced records.
type SQLiteQueue struct {
	db *sql.DB
}

func NewSQLiteQueue(path string) (*SQLiteQueue, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", ErrStorage, err)
	}

	queue := &SQLiteQueue{db: db}

	if err := queue.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: init tables: %v", ErrStorage, err)
	}

	return queue, nil
}

func (q *SQLiteQueue) initTables() error {
	// rowid preserves insertion order, which is the drain order.
	_, err := q.db.Exec(`
		CREATE TABLE IF NOT EXISTS pending_records (
			offline_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			ts DATETIME NOT NULL,
			device TEXT NOT NULL,
			location TEXT
		);
	`)

	return err
}

func (q *SQLiteQueue) Append(rec punch.PendingRecord) error {
	var locationJSON sql.NullString
	if rec.Location != nil {
		data, err := json.Marshal(rec.Location)
		if err != nil {
			return fmt.Errorf("%w: marshal location: %v", ErrStorage, err)
		}
		locationJSON = sql.NullString{String: string(data), Valid: true}
	}

	// OR IGNORE makes a re-append of the same offline id a no-op.
	_, err := q.db.Exec(`
		INSERT OR IGNORE INTO pending_records (offline_id, user_id, type, ts, device, location)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.OfflineID, rec.UserID, rec.Type.String(), rec.Timestamp.Format(time.RFC3339Nano),
		string(rec.Device), locationJSON)

	if err != nil {
		return fmt.Errorf("%w: append record: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) List() ([]punch.PendingRecord, error) {
	rows, err := q.db.Query(`
		SELECT offline_id, user_id, type, ts, device, location
		FROM pending_records
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list records: %v", ErrStorage, err)
	}
	defer rows.Close()

	var records []punch.PendingRecord
	for rows.Next() {
		rec, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", ErrStorage, err)
	}

	return records, nil
}

func (q *SQLiteQueue) Remove(offlineID string) error {
	_, err := q.db.Exec("DELETE FROM pending_records WHERE offline_id = ?", offlineID)
	if err != nil {
		return fmt.Errorf("%w: remove record: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) ReplaceAll(recs []punch.PendingRecord) error {
	tx, err := q.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pending_records"); err != nil {
		return fmt.Errorf("%w: clear records: %v", ErrStorage, err)
	}

	for _, rec := range recs {
		var locationJSON sql.NullString
		if rec.Location != nil {
			data, err := json.Marshal(rec.Location)
			if err != nil {
				return fmt.Errorf("%w: marshal location: %v", ErrStorage, err)
			}
			locationJSON = sql.NullString{String: string(data), Valid: true}
		}

		_, err := tx.Exec(`
			INSERT INTO pending_records (offline_id, user_id, type, ts, device, location)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.OfflineID, rec.UserID, rec.Type.String(), rec.Timestamp.Format(time.RFC3339Nano),
			string(rec.Device), locationJSON)
		if err != nil {
			return fmt.Errorf("%w: insert record: %v", ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", ErrStorage, err)
	}

	return nil
}

func (q *SQLiteQueue) Count() (int, error) {
	var count int
	err := q.db.QueryRow("SELECT COUNT(*) FROM pending_records").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count records: %v", ErrStorage, err)
	}

	return count, nil
}

func (q *SQLiteQueue) Close() error {
	return q.db.Close()
}

func scanPending(rows *sql.Rows) (punch.PendingRecord, error) {
	var rec punch.PendingRecord
	var typ, device, ts string
	var locationJSON sql.NullString

	if err := rows.Scan(&rec.OfflineID, &rec.UserID, &typ, &ts, &device, &locationJSON); err != nil {
		return rec, fmt.Errorf("%w: scan record: %v", ErrStorage, err)
	}

	rec.Type = punch.Type(typ)
	rec.Device = punch.Device(device)

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return rec, fmt.Errorf("%w: parse timestamp: %v", ErrStorage, err)
	}
	rec.Timestamp = parsed

	if locationJSON.Valid {
		var loc punch.GeoLocation
		if err := json.Unmarshal([]byte(locationJSON.String), &loc); err != nil {
			return rec, fmt.Errorf("%w: parse location: %v", ErrStorage, err)
		}
		rec.Location = &loc
	}

	return rec, nil
}
