package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"punchclock/internal/domain/punch"
)

const uniqueViolation = "23505"

type RecordRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRecordRepository(pool *pgxpool.Pool, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		pool: pool,
		log:  log.With("component", "record_repository"),
	}
}

// Create inserts a confirmed punch. The partial unique index on
// offline_id maps concurrent duplicate submissions onto
// punch.ErrDuplicateOfflineID so the service can resolve the race by
// re-querying instead of failing.
func (r *RecordRepository) Create(ctx context.Context, rec *punch.TimeRecord) (int64, error) {
	const query = `
		INSERT INTO time_records (user_id, type, ts, device, location, offline_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	location, err := marshalLocation(rec.Location)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", punch.ErrInvalidRecord, err)
	}

	var id int64
	err = r.pool.QueryRow(ctx, query,
		rec.UserID, rec.Type, rec.Timestamp, rec.Device, location, nullable(rec.OfflineID),
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, punch.ErrDuplicateOfflineID
		}
		r.log.Error("failed to create record",
			"user_id", rec.UserID, "type", rec.Type, "error", err)
		return 0, fmt.Errorf("create record: %w", err)
	}

	return id, nil
}

func (r *RecordRepository) FindByOfflineID(ctx context.Context, userID, offlineID string) (*punch.TimeRecord, error) {
	const query = `
		SELECT id, user_id, type, ts, device, location, offline_id
		FROM time_records
		WHERE user_id = $1 AND offline_id = $2`

	row := r.pool.QueryRow(ctx, query, userID, offlineID)

	rec, err := r.scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, punch.ErrNotFound
		}
		r.log.Error("failed to find record by offline id",
			"user_id", userID, "offline_id", offlineID, "error", err)
		return nil, fmt.Errorf("find by offline id: %w", err)
	}

	return rec, nil
}

func (r *RecordRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]punch.TimeRecord, error) {
	const query = `
		SELECT id, user_id, type, ts, device, location, offline_id
		FROM time_records
		WHERE user_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts ASC`

	rows, err := r.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		r.log.Error("failed to list records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []punch.TimeRecord
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) scanRecord(row pgx.Row) (*punch.TimeRecord, error) {
	var rec punch.TimeRecord
	var location []byte
	var offlineID *string

	err := row.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Timestamp,
		&rec.Device, &location, &offlineID)
	if err != nil {
		return nil, err
	}

	if len(location) > 0 {
		var loc punch.GeoLocation
		if err := json.Unmarshal(location, &loc); err != nil {
			return nil, fmt.Errorf("decode location: %w", err)
		}
		rec.Location = &loc
	}
	if offlineID != nil {
		rec.OfflineID = *offlineID
	}
	rec.Synced = true

	return &rec, nil
}

func marshalLocation(loc *punch.GeoLocation) ([]byte, error) {
	if loc == nil {
		return nil, nil
	}
	return json.Marshal(loc)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
