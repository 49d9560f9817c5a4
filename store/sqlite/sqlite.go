/*
Package sqlite persists attendance store snapshots.

PURPOSE:
  The engine is agnostic to persistence: it exposes Snapshot/Restore and
  nothing else. This package gives those a home - a single SQLite file
  holding one JSON payload per store section, loaded at session start
  and flushed after mutations.

WHY SECTIONS, NOT TABLES-PER-ENTITY:
  The engine's read patterns (override[id][day], vacation[id],
  holiday[day], roster[day]) are all served from memory; the database is
  never on a hot path. A section-per-row snapshot keeps the write side
  to one upsert per section inside one transaction, and keeps schema
  churn out of the domain model.

WAL MODE:
  Opened with WAL so the periodic flush never blocks a concurrent read
  of the file by external tooling.

USAGE:
  st, err := sqlite.New("./data/attendance.db")
  snap, ok, err := st.Load(ctx)
  if ok { store.Restore(snap) }
  ...
  err = st.Flush(ctx, store.Snapshot())
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance-engine/attendance"
)

// Store persists snapshots in a SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
		section    TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`)
	return err
}

// section names double as payload discriminators.
const (
	sectionEmployees = "employees"
	sectionOverrides = "overrides"
	sectionVacations = "vacations"
	sectionCalendar  = "calendar"
	sectionChanges   = "changes"
)

// calendarPayload bundles the flag sections: they change together and are
// small, so one row suffices.
type calendarPayload struct {
	Holidays       []attendance.Day                                `json:"holidays"`
	HolidayRosters map[attendance.Day][]attendance.EmployeeID      `json:"holiday_rosters"`
	WeekendShifts  []attendance.Day                                `json:"weekend_shifts"`
	WeekendRosters map[attendance.Day][]attendance.EmployeeID      `json:"weekend_rosters"`
}

// Flush writes the full snapshot in one transaction.
func (s *Store) Flush(ctx context.Context, snap attendance.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	sections := map[string]any{
		sectionEmployees: snap.Employees,
		sectionOverrides: snap.Overrides,
		sectionVacations: snap.Vacations,
		sectionCalendar: calendarPayload{
			Holidays:       snap.Holidays,
			HolidayRosters: snap.HolidayRosters,
			WeekendShifts:  snap.WeekendShifts,
			WeekendRosters: snap.WeekendRosters,
		},
		sectionChanges: snap.Changes,
	}

	for name, payload := range sections {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshots (section, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(section) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			name, string(raw), now)
		if err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Load reads the stored snapshot. The second return is false when the
// database holds no snapshot yet (fresh file).
func (s *Store) Load(ctx context.Context) (attendance.Snapshot, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT section, payload FROM snapshots`)
	if err != nil {
		return attendance.Snapshot{}, false, err
	}
	defer rows.Close()

	var snap attendance.Snapshot
	found := false
	for rows.Next() {
		var section, payload string
		if err := rows.Scan(&section, &payload); err != nil {
			return attendance.Snapshot{}, false, err
		}
		found = true

		switch section {
		case sectionEmployees:
			err = json.Unmarshal([]byte(payload), &snap.Employees)
		case sectionOverrides:
			err = json.Unmarshal([]byte(payload), &snap.Overrides)
		case sectionVacations:
			err = json.Unmarshal([]byte(payload), &snap.Vacations)
		case sectionCalendar:
			var cal calendarPayload
			if err = json.Unmarshal([]byte(payload), &cal); err == nil {
				snap.Holidays = cal.Holidays
				snap.HolidayRosters = cal.HolidayRosters
				snap.WeekendShifts = cal.WeekendShifts
				snap.WeekendRosters = cal.WeekendRosters
			}
		case sectionChanges:
			err = json.Unmarshal([]byte(payload), &snap.Changes)
		}
		if err != nil {
			return attendance.Snapshot{}, false, fmt.Errorf("unmarshal %s: %w", section, err)
		}
	}
	return snap, found, rows.Err()
}
