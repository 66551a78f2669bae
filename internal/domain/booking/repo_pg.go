package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const apptCols = `id, patient_id, physician_id, exam_type_id, date, start_time,
	duration_minutes, status, notes, created_at, updated_at`

func (r *repoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PhysicianID, &a.ExamTypeID, &a.Date, &a.StartTime,
		&a.DurationMinutes, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// mapSlotConflict translates a unique violation on the physician slot index
// into the domain conflict. Both Create and UpdateSchedule race against
// concurrent bookings, and the loser must surface as a ConflictError rather
// than a raw database error.
func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return clinicerr.Conflictf("this physician already has an appointment at this exact time")
	}
	return err
}

// Create inserts the appointment with the next sequential ID, seeding at 123
// for an empty table. The unique index on (physician_id, date, start_time)
// makes the insert the conflict check: concurrent bookings for the same slot
// cannot both commit, and the loser surfaces as a ConflictError.
func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO appointment
			(id, patient_id, physician_id, exam_type_id, date, start_time,
			 duration_minutes, status, notes)
		SELECT COALESCE(MAX(id) + 1, 123), $1, $2, $3, $4, $5, $6, $7, $8
		FROM appointment
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.PhysicianID, a.ExamTypeID, a.Date, a.StartTime,
		a.DurationMinutes, a.Status, a.Notes).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		return mapSlotConflict(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int) (*Appointment, error) {
	return r.scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) ListScheduledByPhysicianDate(ctx context.Context, physicianID int, date string) ([]*Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE physician_id = $1 AND date = $2 AND status = $3
		ORDER BY start_time`,
		physicianID, date, StatusScheduled)
}

func (r *repoPG) FindConflict(ctx context.Context, physicianID int, date, startTime string, excludeID int) (*Appointment, error) {
	return r.scanAppointment(r.pool.QueryRow(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE physician_id = $1 AND date = $2 AND start_time = $3 AND id <> $4
		LIMIT 1`,
		physicianID, date, startTime, excludeID))
}

// UpdateSchedule only touches rows whose date or start time actually differ,
// so moving an appointment onto its current slot reports no change.
func (r *repoPG) UpdateSchedule(ctx context.Context, id int, newDate, newTime string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET date = $2, start_time = $3, updated_at = NOW()
		WHERE id = $1 AND (date IS DISTINCT FROM $2 OR start_time IS DISTINCT FROM $3)`,
		id, newDate, newTime)
	if err != nil {
		return false, mapSlotConflict(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) CancelIfActive(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointment SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> $2`,
		id, StatusCancelled)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *repoPG) ListUpcomingByPatient(ctx context.Context, patientID int, fromDate string) ([]*Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptCols+` FROM appointment
		WHERE patient_id = $1 AND status = $2 AND date >= $3
		ORDER BY date, start_time`,
		patientID, StatusScheduled, fromDate)
}

func (r *repoPG) queryAppointments(ctx context.Context, sql string, args ...interface{}) ([]*Appointment, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.ID, &a.PatientID, &a.PhysicianID, &a.ExamTypeID, &a.Date, &a.StartTime,
			&a.DurationMinutes, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
