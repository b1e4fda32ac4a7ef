// Package sqlite is an optional append-only sink for run results. The
// engine never reads it back; it exists so repeated runs can be
// compared with ordinary SQL tooling.
package sqlite

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"fleetwatch/internal/analyze"
	"fleetwatch/internal/gfw"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analysis_results (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id          TEXT NOT NULL,
		window_start    TEXT NOT NULL,
		window_end      TEXT NOT NULL,
		imo             TEXT DEFAULT '',
		seed_name       TEXT DEFAULT '',
		vessel_id       TEXT DEFAULT '',
		vessel_name     TEXT DEFAULT '',
		flag            TEXT DEFAULT '',
		label           TEXT NOT NULL,
		score           INTEGER NOT NULL DEFAULT 0,
		reasons         TEXT DEFAULT '',
		fishing_hours   REAL NOT NULL DEFAULT 0,
		port_visits     INTEGER NOT NULL DEFAULT 0,
		foreign_pct     REAL NOT NULL DEFAULT 0,
		ais_gaps        INTEGER NOT NULL DEFAULT 0,
		suspicious_gaps INTEGER NOT NULL DEFAULT 0,
		encounters      INTEGER NOT NULL DEFAULT 0,
		flag_changes    INTEGER NOT NULL DEFAULT 0,
		partial         INTEGER NOT NULL DEFAULT 0,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_results_run ON analysis_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_label ON analysis_results(label);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

// InsertResults appends one row per report under the given run id.
func InsertResults(db *sql.DB, runID string, win gfw.Window, reports []analyze.Report) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO analysis_results (run_id, window_start, window_end, imo, seed_name,
			vessel_id, vessel_name, flag, label, score, reasons, fishing_hours,
			port_visits, foreign_pct, ais_gaps, suspicious_gaps, encounters,
			flag_changes, partial)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, rep := range reports {
		vesselID, vesselName, flag := "", "", ""
		if rep.Vessel != nil {
			vesselID = rep.Vessel.ID
			vesselName = rep.Vessel.Name
			flag = rep.Vessel.Flag
		}
		_, err := stmt.Exec(
			runID,
			win.Start.Format(time.DateOnly),
			win.End.Format(time.DateOnly),
			rep.Seed.RegistryNumber,
			rep.Seed.Name,
			vesselID,
			vesselName,
			flag,
			string(rep.Result.Label),
			rep.Result.Score,
			strings.Join(rep.Result.Reasons, "; "),
			rep.Signals.Activity.TotalHours,
			rep.Signals.PortVisits.TotalVisits,
			rep.Signals.PortVisits.ForeignPct,
			rep.Signals.Gaps.TotalGaps,
			rep.Signals.Gaps.SuspiciousGaps,
			rep.Signals.Encounters.TotalEncounters,
			rep.Signals.FlagHistory.ChangeCount,
			rep.Partial,
		)
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, tx.Commit()
}
