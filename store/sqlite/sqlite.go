/*
Package sqlite provides the SQLite-backed implementation of
fleet.Store.

PURPOSE:
  The back office treats persistence as a document store: read
  collection, read document, write document (upsert), delete document.
  This package maps that contract onto one table per collection. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

SINGLE ACTIVE PARTNER:
  The store, not the engines, enforces the one-active-partner rule:
  ActivatePartner clears every other partner's flag and sets the
  target's inside one SQL transaction.

KEY TABLES:
  partners, drivers, vehicles, invariants, scp_rules,
  trip_reports, infractions, objectives, kpi_annotations

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block the single writer.

USAGE:
  store, err := sqlite.New("./data/fleet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - fleet/store.go: interface definition
  - store/memory: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/fleet-compliance/fleet"
)

// Store implements fleet.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ fleet.Store = (*Store)(nil)

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS partners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS drivers (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		license_number TEXT,
		license_category TEXT,
		obc_key_id TEXT,
		work_site TEXT
	);

	CREATE TABLE IF NOT EXISTS vehicles (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		plate TEXT,
		driver_id TEXT
	);

	CREATE TABLE IF NOT EXISTS invariants (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS scp_rules (
		id TEXT PRIMARY KEY,
		invariant_id TEXT NOT NULL,
		severity TEXT NOT NULL,
		sanction_label TEXT,
		point_value INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_scp_rules_pair
		ON scp_rules(invariant_id, severity);

	CREATE TABLE IF NOT EXISTS trip_reports (
		id TEXT PRIMARY KEY,
		date TEXT,
		partner_id TEXT NOT NULL,
		driver_id TEXT,
		invariant_id TEXT,
		start_time TEXT,
		end_time TEXT,
		driving_duration TEXT,
		wait_duration TEXT,
		total_duration TEXT,
		idle_duration TEXT,
		distance_km TEXT,
		avg_speed TEXT,
		max_speed TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_trip_reports_partner
		ON trip_reports(partner_id);

	CREATE TABLE IF NOT EXISTS infractions (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		date TEXT,
		driver_id TEXT,
		invariant_id TEXT,
		severity TEXT,
		count INTEGER NOT NULL DEFAULT 1,
		disciplinary_measure TEXT,
		other_measures TEXT,
		follow_up_required INTEGER NOT NULL DEFAULT 0,
		follow_up_date TEXT,
		improvement_observed INTEGER NOT NULL DEFAULT 0,
		source_report_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_infractions_partner_driver
		ON infractions(partner_id, driver_id);

	CREATE TABLE IF NOT EXISTS objectives (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		invariant_id TEXT NOT NULL,
		chapter TEXT,
		target REAL NOT NULL DEFAULT 0,
		unit TEXT,
		mode TEXT,
		frequency TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_objectives_partner
		ON objectives(partner_id);

	CREATE TABLE IF NOT EXISTS kpi_annotations (
		id TEXT PRIMARY KEY,
		partner_id TEXT NOT NULL,
		objective_id TEXT NOT NULL,
		result TEXT,
		root_cause TEXT,
		action_taken TEXT,
		comment TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_kpi_annotations_partner
		ON kpi_annotations(partner_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PARTNERS
// =============================================================================

func (s *Store) ListPartners(ctx context.Context) ([]fleet.Partner, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, active FROM partners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.Partner
	for rows.Next() {
		var p fleet.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPartner(ctx context.Context, id fleet.PartnerID) (*fleet.Partner, error) {
	var p fleet.Partner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, active FROM partners WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePartner(ctx context.Context, p fleet.Partner) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (id, name, active) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, active = excluded.active`,
		p.ID, p.Name, p.Active)
	return err
}

func (s *Store) DeletePartner(ctx context.Context, id fleet.PartnerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM partners WHERE id = ?`, id)
	return err
}

func (s *Store) ActivePartner(ctx context.Context) (*fleet.Partner, error) {
	var p fleet.Partner
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, active FROM partners WHERE active = 1 LIMIT 1`).
		Scan(&p.ID, &p.Name, &p.Active)
	if err == sql.ErrNoRows {
		return nil, fleet.ErrNoActivePartner
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ActivatePartner(ctx context.Context, id fleet.PartnerID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE partners SET active = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fleet.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `UPDATE partners SET active = 0 WHERE id != ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// DRIVERS
// =============================================================================

func (s *Store) ListDrivers(ctx context.Context) ([]fleet.Driver, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, license_number, license_category, obc_key_id, work_site
		FROM drivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.Driver
	for rows.Next() {
		var d fleet.Driver
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.LicenseNumber,
			&d.LicenseCategory, &d.OBCKeyID, &d.WorkSite); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDriver(ctx context.Context, id fleet.DriverID) (*fleet.Driver, error) {
	var d fleet.Driver
	err := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, license_number, license_category, obc_key_id, work_site
		FROM drivers WHERE id = ?`, id).
		Scan(&d.ID, &d.FirstName, &d.LastName, &d.LicenseNumber,
			&d.LicenseCategory, &d.OBCKeyID, &d.WorkSite)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) SaveDriver(ctx context.Context, d fleet.Driver) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drivers (id, first_name, last_name, license_number, license_category, obc_key_id, work_site)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			license_number = excluded.license_number,
			license_category = excluded.license_category,
			obc_key_id = excluded.obc_key_id,
			work_site = excluded.work_site`,
		d.ID, d.FirstName, d.LastName, d.LicenseNumber, d.LicenseCategory, d.OBCKeyID, d.WorkSite)
	return err
}

func (s *Store) DeleteDriver(ctx context.Context, id fleet.DriverID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	return err
}

// =============================================================================
// VEHICLES
// =============================================================================

func (s *Store) ListVehicles(ctx context.Context) ([]fleet.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, plate, driver_id FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.Vehicle
	for rows.Next() {
		var v fleet.Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.Plate, &v.DriverID); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) SaveVehicle(ctx context.Context, v fleet.Vehicle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, name, plate, driver_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			plate = excluded.plate,
			driver_id = excluded.driver_id`,
		v.ID, v.Name, v.Plate, v.DriverID)
	return err
}

func (s *Store) DeleteVehicle(ctx context.Context, id fleet.VehicleID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	return err
}

func (s *Store) AssignVehicle(ctx context.Context, id fleet.VehicleID, driverID fleet.DriverID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE vehicles SET driver_id = ? WHERE id = ?`, driverID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fleet.ErrNotFound
	}
	return nil
}

// =============================================================================
// INVARIANTS AND SCP RULES
// =============================================================================

func (s *Store) ListInvariants(ctx context.Context) ([]fleet.Invariant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description FROM invariants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.Invariant
	for rows.Next() {
		var inv fleet.Invariant
		if err := rows.Scan(&inv.ID, &inv.Title, &inv.Description); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) SaveInvariant(ctx context.Context, inv fleet.Invariant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invariants (id, title, description) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description`,
		inv.ID, inv.Title, inv.Description)
	return err
}

func (s *Store) DeleteInvariant(ctx context.Context, id fleet.InvariantID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invariants WHERE id = ?`, id)
	return err
}

func (s *Store) ListRules(ctx context.Context) ([]fleet.RuleEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invariant_id, severity, sanction_label, point_value
		FROM scp_rules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.RuleEntry
	for rows.Next() {
		var r fleet.RuleEntry
		if err := rows.Scan(&r.ID, &r.InvariantID, &r.Severity, &r.SanctionLabel, &r.PointValue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SaveRule(ctx context.Context, r fleet.RuleEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scp_rules (id, invariant_id, severity, sanction_label, point_value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			invariant_id = excluded.invariant_id,
			severity = excluded.severity,
			sanction_label = excluded.sanction_label,
			point_value = excluded.point_value`,
		r.ID, r.InvariantID, r.Severity, r.SanctionLabel, r.PointValue)
	return err
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM scp_rules WHERE id = ?`, id)
	return err
}

// =============================================================================
// TRIP REPORTS
// =============================================================================

const reportColumns = `id, date, partner_id, driver_id, invariant_id, start_time, end_time,
	driving_duration, wait_duration, total_duration, idle_duration, distance_km, avg_speed, max_speed`

func (s *Store) scanReports(rows *sql.Rows) ([]fleet.TripReport, error) {
	var out []fleet.TripReport
	for rows.Next() {
		var r fleet.TripReport
		if err := rows.Scan(&r.ID, &r.Date, &r.PartnerID, &r.DriverID, &r.InvariantID,
			&r.StartTime, &r.EndTime, &r.DrivingDuration, &r.WaitDuration,
			&r.TotalDuration, &r.IdleDuration, &r.DistanceKm, &r.AvgSpeed, &r.MaxSpeed); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListReports(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.TripReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM trip_reports WHERE partner_id = ? ORDER BY id`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanReports(rows)
}

func (s *Store) ListUnassignedReports(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.TripReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+reportColumns+` FROM trip_reports
		WHERE partner_id = ? AND driver_id = '' AND invariant_id = ''
		ORDER BY id`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanReports(rows)
}

func (s *Store) SaveReport(ctx context.Context, r fleet.TripReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trip_reports (`+reportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			partner_id = excluded.partner_id,
			driver_id = excluded.driver_id,
			invariant_id = excluded.invariant_id,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			driving_duration = excluded.driving_duration,
			wait_duration = excluded.wait_duration,
			total_duration = excluded.total_duration,
			idle_duration = excluded.idle_duration,
			distance_km = excluded.distance_km,
			avg_speed = excluded.avg_speed,
			max_speed = excluded.max_speed`,
		r.ID, r.Date, r.PartnerID, r.DriverID, r.InvariantID, r.StartTime, r.EndTime,
		r.DrivingDuration, r.WaitDuration, r.TotalDuration, r.IdleDuration,
		r.DistanceKm, r.AvgSpeed, r.MaxSpeed)
	return err
}

func (s *Store) DeleteReport(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM trip_reports WHERE id = ?`, id)
	return err
}

// =============================================================================
// INFRACTIONS
// =============================================================================

const infractionColumns = `id, partner_id, date, driver_id, invariant_id, severity, count,
	disciplinary_measure, other_measures, follow_up_required, follow_up_date,
	improvement_observed, source_report_id`

func (s *Store) scanInfractions(rows *sql.Rows) ([]fleet.Infraction, error) {
	var out []fleet.Infraction
	for rows.Next() {
		var inf fleet.Infraction
		if err := rows.Scan(&inf.ID, &inf.PartnerID, &inf.Date, &inf.DriverID, &inf.InvariantID,
			&inf.Severity, &inf.Count, &inf.DisciplinaryMeasure, &inf.OtherMeasures,
			&inf.FollowUpRequired, &inf.FollowUpDate, &inf.ImprovementObserved,
			&inf.SourceReportID); err != nil {
			return nil, err
		}
		out = append(out, inf)
	}
	return out, rows.Err()
}

func (s *Store) ListInfractions(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.Infraction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+infractionColumns+` FROM infractions WHERE partner_id = ? ORDER BY id`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanInfractions(rows)
}

func (s *Store) ListDriverInfractions(ctx context.Context, partnerID fleet.PartnerID, driverID fleet.DriverID) ([]fleet.Infraction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+infractionColumns+` FROM infractions
		WHERE partner_id = ? AND driver_id = ? ORDER BY id`, partnerID, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return s.scanInfractions(rows)
}

func (s *Store) SaveInfraction(ctx context.Context, inf fleet.Infraction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO infractions (`+infractionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			partner_id = excluded.partner_id,
			date = excluded.date,
			driver_id = excluded.driver_id,
			invariant_id = excluded.invariant_id,
			severity = excluded.severity,
			count = excluded.count,
			disciplinary_measure = excluded.disciplinary_measure,
			other_measures = excluded.other_measures,
			follow_up_required = excluded.follow_up_required,
			follow_up_date = excluded.follow_up_date,
			improvement_observed = excluded.improvement_observed,
			source_report_id = excluded.source_report_id`,
		inf.ID, inf.PartnerID, inf.Date, inf.DriverID, inf.InvariantID, inf.Severity,
		inf.Count, inf.DisciplinaryMeasure, inf.OtherMeasures, inf.FollowUpRequired,
		inf.FollowUpDate, inf.ImprovementObserved, inf.SourceReportID)
	return err
}

func (s *Store) DeleteInfraction(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM infractions WHERE id = ?`, id)
	return err
}

// =============================================================================
// OBJECTIVES AND ANNOTATIONS
// =============================================================================

func (s *Store) ListObjectives(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.Objective, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, partner_id, invariant_id, chapter, target, unit, mode, frequency
		FROM objectives WHERE partner_id = ? ORDER BY id`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.Objective
	for rows.Next() {
		var o fleet.Objective
		if err := rows.Scan(&o.ID, &o.PartnerID, &o.InvariantID, &o.Chapter,
			&o.Target, &o.Unit, &o.Mode, &o.Frequency); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) SaveObjective(ctx context.Context, o fleet.Objective) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO objectives (id, partner_id, invariant_id, chapter, target, unit, mode, frequency)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			partner_id = excluded.partner_id,
			invariant_id = excluded.invariant_id,
			chapter = excluded.chapter,
			target = excluded.target,
			unit = excluded.unit,
			mode = excluded.mode,
			frequency = excluded.frequency`,
		o.ID, o.PartnerID, o.InvariantID, o.Chapter, o.Target, o.Unit, o.Mode, o.Frequency)
	return err
}

func (s *Store) DeleteObjective(ctx context.Context, id fleet.ObjectiveID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM objectives WHERE id = ?`, id)
	return err
}

func (s *Store) ListAnnotations(ctx context.Context, partnerID fleet.PartnerID) ([]fleet.KpiAnnotation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, partner_id, objective_id, result, root_cause, action_taken, comment
		FROM kpi_annotations WHERE partner_id = ? ORDER BY id`, partnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []fleet.KpiAnnotation
	for rows.Next() {
		var a fleet.KpiAnnotation
		if err := rows.Scan(&a.ID, &a.PartnerID, &a.ObjectiveID, &a.Result,
			&a.RootCause, &a.ActionTaken, &a.Comment); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) SaveAnnotation(ctx context.Context, a fleet.KpiAnnotation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kpi_annotations (id, partner_id, objective_id, result, root_cause, action_taken, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			partner_id = excluded.partner_id,
			objective_id = excluded.objective_id,
			result = excluded.result,
			root_cause = excluded.root_cause,
			action_taken = excluded.action_taken,
			comment = excluded.comment`,
		a.ID, a.PartnerID, a.ObjectiveID, a.Result, a.RootCause, a.ActionTaken, a.Comment)
	return err
}

func (s *Store) DeleteAnnotation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kpi_annotations WHERE id = ?`, id)
	return err
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// LoadSnapshot assembles the partner-scoped bundle the engines
// consume.
func (s *Store) LoadSnapshot(ctx context.Context, partnerID fleet.PartnerID) (fleet.Snapshot, error) {
	snap := fleet.Snapshot{PartnerID: partnerID}
	var err error
	if snap.Drivers, err = s.ListDrivers(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Vehicles, err = s.ListVehicles(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Invariants, err = s.ListInvariants(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Rules, err = s.ListRules(ctx); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Reports, err = s.ListReports(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Infractions, err = s.ListInfractions(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Objectives, err = s.ListObjectives(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	if snap.Annotations, err = s.ListAnnotations(ctx, partnerID); err != nil {
		return fleet.Snapshot{}, err
	}
	return snap, nil
}
