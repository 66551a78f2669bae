package booking

import "time"

// Status is the closed set of appointment states. Values are persisted as the
// Portuguese strings the clinic's callers expect on the wire.
type Status string

const (
	StatusScheduled Status = "agendada"
	StatusCancelled Status = "cancelada"
	StatusCompleted Status = "concluida"
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment maps to the appointment table. Dates and start times are kept
// as the ISO strings callers supply ("2006-01-02" / "15:04"); lexical order
// matches chronological order for both. Exactly one of PhysicianID/ExamTypeID
// may be nil: a nil PhysicianID means a standalone exam.
type Appointment struct {
	ID              int       `db:"id"`
	PatientID       int       `db:"patient_id"`
	PhysicianID     *int      `db:"physician_id"`
	ExamTypeID      *int      `db:"exam_type_id"`
	Date            string    `db:"date"`
	StartTime       string    `db:"start_time"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          Status    `db:"status"`
	Notes           string    `db:"notes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// View is the enriched appointment representation returned to callers. The
// physician name and exam description are joined in on read and never
// persisted.
type View struct {
	ID              int    `json:"id"`
	PatientID       int    `json:"paciente_id"`
	Date            string `json:"data"`
	StartTime       string `json:"hora_inicio"`
	Status          Status `json:"status"`
	Notes           string `json:"observacoes"`
	PhysicianID     *int   `json:"medico_id,omitempty"`
	ExamTypeID      *int   `json:"tipo_exame_id,omitempty"`
	PhysicianName   string `json:"nome_medico"`
	ExamDescription string `json:"descricao_exame"`
}

// SlotRange is one free 30-minute interval within the clinic window.
type SlotRange struct {
	Start string `json:"hora_inicio"`
	End   string `json:"hora_fim"`
}
