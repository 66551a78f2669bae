package booking

import "context"

type Repository interface {
	// Create allocates the next sequential ID, inserts the record in one
	// statement and fills ID/CreatedAt/UpdatedAt on return. A uniqueness
	// violation on (physician, date, start time) is reported as a
	// clinicerr.ConflictError.
	Create(ctx context.Context, a *Appointment) error
	// GetByID returns (nil, nil) when no appointment holds that ID.
	GetByID(ctx context.Context, id int) (*Appointment, error)
	// ListScheduledByPhysicianDate returns the physician's appointments in
	// the scheduled state on the given date.
	ListScheduledByPhysicianDate(ctx context.Context, physicianID int, date string) ([]*Appointment, error)
	// FindConflict returns any appointment other than excludeID held by the
	// physician at the exact date and start time, or (nil, nil).
	FindConflict(ctx context.Context, physicianID int, date, startTime string, excludeID int) (*Appointment, error)
	// UpdateSchedule moves the appointment to a new date/time and reports
	// whether a row actually changed. Identical values count as unchanged.
	UpdateSchedule(ctx context.Context, id int, newDate, newTime string) (bool, error)
	// CancelIfActive marks the appointment cancelled unless it already is,
	// reporting whether a row changed.
	CancelIfActive(ctx context.Context, id int) (bool, error)
	// ListUpcomingByPatient returns the patient's scheduled appointments on
	// or after fromDate, ordered by date ascending.
	ListUpcomingByPatient(ctx context.Context, patientID int, fromDate string) ([]*Appointment, error)
}
