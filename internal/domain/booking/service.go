package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/clinicaproativa/agenda/internal/domain/catalog"
	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
	"github.com/clinicaproativa/agenda/internal/domain/patient"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	clinicOpenMinutes  = 8 * 60  // 08:00
	clinicCloseMinutes = 18 * 60 // 18:00
	slotMinutes        = 30
)

// simpleExams is the closed set of exams that can be booked without a
// physician.
var simpleExams = map[string]bool{
	"exame de sangue": true,
	"raio-x":          true,
}

const defaultConsultationReason = "Consulta de rotina"

// Enrichment defaults used when an appointment has no physician or no
// resolvable exam type.
const (
	noPhysicianName    = "N/A (exam only)"
	defaultExamSummary = "Routine consultation"
)

// PatientResolver resolves a patient by natural key, creating the record on
// first contact.
type PatientResolver interface {
	ResolveOrCreate(ctx context.Context, fullName, rawCPF string) (*patient.Patient, error)
}

type Service struct {
	appointments Repository
	patients     PatientResolver
	physicians   catalog.PhysicianRepository
	examTypes    catalog.ExamTypeRepository

	now func() time.Time
}

func NewService(appointments Repository, patients PatientResolver, physicians catalog.PhysicianRepository, examTypes catalog.ExamTypeRepository) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		physicians:   physicians,
		examTypes:    examTypes,
		now:          time.Now,
	}
}

// FreeSlots returns the physician's free 30-minute slots on the given date,
// in chronological order. The clinic window is fixed at 08:00-18:00 every
// day; past dates are not rejected and simply reflect whatever is booked.
func (s *Service) FreeSlots(ctx context.Context, physicianID int, dateStr string) ([]SlotRange, error) {
	if _, err := time.Parse(dateLayout, dateStr); err != nil {
		return nil, clinicerr.Validationf("invalid date format, expected YYYY-MM-DD")
	}

	booked, err := s.appointments.ListScheduledByPhysicianDate(ctx, physicianID, dateStr)
	if err != nil {
		return nil, err
	}

	type interval struct{ start, end int }
	occupied := make([]interval, 0, len(booked))
	for _, a := range booked {
		start, err := minutesOfDay(a.StartTime)
		if err != nil {
			// Skip unparseable rows rather than failing the whole day.
			continue
		}
		occupied = append(occupied, interval{start: start, end: start + a.DurationMinutes})
	}

	free := []SlotRange{}
	for start := clinicOpenMinutes; start < clinicCloseMinutes; start += slotMinutes {
		end := start + slotMinutes
		overlaps := false
		for _, occ := range occupied {
			if start < occ.end && end > occ.start {
				overlaps = true
				break
			}
		}
		if !overlaps {
			free = append(free, SlotRange{Start: formatMinutes(start), End: formatMinutes(end)})
		}
	}
	return free, nil
}

// BookExam books a standalone exam from the simple-exam whitelist. The exam
// name must match an exam type description exactly (case-insensitive).
func (s *Service) BookExam(ctx context.Context, patientName, cpf, dateStr, startTime, examName string) (*View, error) {
	if !simpleExams[strings.ToLower(examName)] {
		return nil, clinicerr.Validationf("'%s' is not a simple exam and requires a physician", examName)
	}

	p, err := s.patients.ResolveOrCreate(ctx, patientName, cpf)
	if err != nil {
		return nil, err
	}

	exam, err := s.examTypes.FindByDescription(ctx, examName)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, clinicerr.NotFoundf("exam type '%s' was not found", examName)
	}

	return s.create(ctx, p.ID, dateStr, startTime, nil, &exam.ID, fmt.Sprintf("Exame: %s", examName))
}

// BookConsultation books a consultation with a physician found by
// case-insensitive substring match on name. The reason is best-effort mapped
// to an exam type; no match just leaves the exam unset.
func (s *Service) BookConsultation(ctx context.Context, patientName, cpf, dateStr, startTime, physicianName, reason string) (*View, error) {
	if reason == "" {
		reason = defaultConsultationReason
	}

	phys, err := s.physicians.FindFirstByName(ctx, physicianName)
	if err != nil {
		return nil, err
	}
	if phys == nil {
		return nil, clinicerr.NotFoundf("physician '%s' was not found", physicianName)
	}

	p, err := s.patients.ResolveOrCreate(ctx, patientName, cpf)
	if err != nil {
		return nil, err
	}

	var examTypeID *int
	exam, err := s.examTypes.FindByTerm(ctx, reason)
	if err != nil {
		return nil, err
	}
	if exam != nil {
		examTypeID = &exam.ID
	}

	return s.create(ctx, p.ID, dateStr, startTime, &phys.ID, examTypeID, reason)
}

// create is the single booking primitive. It issues one insert and lets the
// store's uniqueness constraint on (physician, date, start time) decide
// conflicts, so concurrent bookings for the same slot cannot both succeed.
func (s *Service) create(ctx context.Context, patientID int, dateStr, startTime string, physicianID, examTypeID *int, notes string) (*View, error) {
	a := &Appointment{
		PatientID:       patientID,
		PhysicianID:     physicianID,
		ExamTypeID:      examTypeID,
		Date:            dateStr,
		StartTime:       startTime,
		DurationMinutes: slotMinutes,
		Status:          StatusScheduled,
		Notes:           notes,
	}
	if err := s.appointments.Create(ctx, a); err != nil {
		return nil, err
	}

	created, err := s.appointments.GetByID(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, created)
}

// ListUpcoming returns the patient's future scheduled appointments, date
// ascending. An unknown CPF registers the patient and yields an empty list.
func (s *Service) ListUpcoming(ctx context.Context, cpf string) ([]*View, error) {
	p, err := s.patients.ResolveOrCreate(ctx, "Busca", cpf)
	if err != nil {
		return nil, err
	}

	today := s.now().Format(dateLayout)
	appointments, err := s.appointments.ListUpcomingByPatient(ctx, p.ID, today)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(appointments))
	for _, a := range appointments {
		v, err := s.enrich(ctx, a)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Reschedule moves an appointment to a new date/time. The conflict check for
// the physician's new slot is read-then-write and therefore racy; a
// concurrent reschedule landing between the check and the update can still
// collide.
func (s *Service) Reschedule(ctx context.Context, appointmentID int, newDate, newTime string) (*View, error) {
	a, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, clinicerr.NotFoundf("appointment with ID %d not found", appointmentID)
	}

	if a.PhysicianID != nil {
		conflict, err := s.appointments.FindConflict(ctx, *a.PhysicianID, newDate, newTime, appointmentID)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return nil, clinicerr.Conflictf("the physician already has an appointment on %s at %s", newDate, newTime)
		}
	}

	changed, err := s.appointments.UpdateSchedule(ctx, appointmentID, newDate, newTime)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, clinicerr.Conflictf("could not reschedule, the new date and time may be the same as the current ones")
	}

	updated, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, updated)
}

// Cancel marks an appointment cancelled. A missing ID and an
// already-cancelled appointment collapse to the same not-found failure.
func (s *Service) Cancel(ctx context.Context, appointmentID int) (*View, error) {
	changed, err := s.appointments.CancelIfActive(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, clinicerr.NotFoundf("appointment with ID %d not found or already cancelled", appointmentID)
	}

	cancelled, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, cancelled)
}

// enrich joins the physician name and exam description onto the raw record.
// Unresolvable references fall back to fixed display defaults.
func (s *Service) enrich(ctx context.Context, a *Appointment) (*View, error) {
	if a == nil {
		return nil, nil
	}

	v := &View{
		ID:              a.ID,
		PatientID:       a.PatientID,
		Date:            a.Date,
		StartTime:       a.StartTime,
		Status:          a.Status,
		Notes:           a.Notes,
		PhysicianID:     a.PhysicianID,
		ExamTypeID:      a.ExamTypeID,
		PhysicianName:   noPhysicianName,
		ExamDescription: defaultExamSummary,
	}

	if a.PhysicianID != nil {
		phys, err := s.physicians.GetByID(ctx, *a.PhysicianID)
		if err != nil {
			return nil, err
		}
		if phys != nil {
			v.PhysicianName = phys.Name
		}
	}
	if a.ExamTypeID != nil {
		exam, err := s.examTypes.GetByID(ctx, *a.ExamTypeID)
		if err != nil {
			return nil, err
		}
		if exam != nil {
			v.ExamDescription = exam.Description
		}
	}
	return v, nil
}

func minutesOfDay(hhmm string) (int, error) {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
