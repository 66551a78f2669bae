package booking

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/clinicaproativa/agenda/internal/domain/catalog"
	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
	"github.com/clinicaproativa/agenda/internal/domain/patient"
)

// -- Mock Repositories --

type mockApptRepo struct {
	appts  map[int]*Appointment
	nextID int
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[int]*Appointment), nextID: 123}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	// Mirror the store's unique index on (physician, date, start time);
	// rows without a physician are exempt.
	if a.PhysicianID != nil {
		for _, other := range m.appts {
			if other.PhysicianID != nil && *other.PhysicianID == *a.PhysicianID &&
				other.Date == a.Date && other.StartTime == a.StartTime {
				return clinicerr.Conflictf("this physician already has an appointment at this exact time")
			}
		}
	}
	a.ID = m.nextID
	m.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) GetByID(_ context.Context, id int) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) ListScheduledByPhysicianDate(_ context.Context, physicianID int, date string) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PhysicianID != nil && *a.PhysicianID == physicianID && a.Date == date && a.Status == StatusScheduled {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockApptRepo) FindConflict(_ context.Context, physicianID int, date, startTime string, excludeID int) (*Appointment, error) {
	for _, a := range m.appts {
		if a.ID != excludeID && a.PhysicianID != nil && *a.PhysicianID == physicianID &&
			a.Date == date && a.StartTime == startTime {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockApptRepo) UpdateSchedule(_ context.Context, id int, newDate, newTime string) (bool, error) {
	a, ok := m.appts[id]
	if !ok {
		return false, nil
	}
	if a.Date == newDate && a.StartTime == newTime {
		return false, nil
	}
	a.Date = newDate
	a.StartTime = newTime
	a.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockApptRepo) CancelIfActive(_ context.Context, id int) (bool, error) {
	a, ok := m.appts[id]
	if !ok || a.Status == StatusCancelled {
		return false, nil
	}
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockApptRepo) ListUpcomingByPatient(_ context.Context, patientID int, fromDate string) ([]*Appointment, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID && a.Status == StatusScheduled && a.Date >= fromDate {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

type mockPatientResolver struct {
	byCPF  map[string]*patient.Patient
	nextID int
}

func newMockPatientResolver() *mockPatientResolver {
	return &mockPatientResolver{byCPF: make(map[string]*patient.Patient), nextID: 101}
}

func (m *mockPatientResolver) ResolveOrCreate(_ context.Context, fullName, rawCPF string) (*patient.Patient, error) {
	cpf, err := patient.NormalizeCPF(rawCPF)
	if err != nil {
		return nil, err
	}
	if p, ok := m.byCPF[cpf]; ok {
		return p, nil
	}
	p := &patient.Patient{ID: m.nextID, Name: fullName, CPF: cpf}
	m.nextID++
	m.byCPF[cpf] = p
	return p, nil
}

type mockPhysicianRepo struct {
	physicians []*catalog.Physician
}

func (m *mockPhysicianRepo) GetByID(_ context.Context, id int) (*catalog.Physician, error) {
	for _, p := range m.physicians {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPhysicianRepo) List(_ context.Context) ([]*catalog.Physician, error) {
	return m.physicians, nil
}

func (m *mockPhysicianRepo) ListBySpecialty(_ context.Context, specialtyID int) ([]*catalog.Physician, error) {
	var result []*catalog.Physician
	for _, p := range m.physicians {
		if p.SpecialtyID == specialtyID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPhysicianRepo) FindFirstByName(_ context.Context, name string) (*catalog.Physician, error) {
	for _, p := range m.physicians {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			return p, nil
		}
	}
	return nil, nil
}

type mockExamTypeRepo struct {
	exams []*catalog.ExamType
}

func (m *mockExamTypeRepo) GetByID(_ context.Context, id int) (*catalog.ExamType, error) {
	for _, e := range m.exams {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockExamTypeRepo) FindByDescription(_ context.Context, description string) (*catalog.ExamType, error) {
	for _, e := range m.exams {
		if strings.EqualFold(e.Description, description) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockExamTypeRepo) FindByTerm(_ context.Context, term string) (*catalog.ExamType, error) {
	for _, e := range m.exams {
		if strings.Contains(strings.ToLower(e.Description), strings.ToLower(term)) {
			return e, nil
		}
	}
	return nil, nil
}

// -- Fixtures --

func newTestService() (*Service, *mockApptRepo) {
	repo := newMockApptRepo()
	svc := NewService(
		repo,
		newMockPatientResolver(),
		&mockPhysicianRepo{physicians: []*catalog.Physician{
			{ID: 42, Name: "Dr. João Silva", License: "12345", SpecialtyID: 1, SpecialtyName: "Cardiologia"},
			{ID: 58, Name: "Dra. Maria Souza", License: "67890", SpecialtyID: 2, SpecialtyName: "Ortopedia"},
		}},
		&mockExamTypeRepo{exams: []*catalog.ExamType{
			{ID: 1, Description: "Exame de Sangue"},
		}},
	)
	svc.now = func() time.Time {
		return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo
}

// -- Slot Availability --

func TestFreeSlots_EmptyDay(t *testing.T) {
	svc, _ := newTestService()

	slots, err := svc.FreeSlots(context.Background(), 42, "2025-07-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 20 {
		t.Fatalf("expected 20 slots on an empty day, got %d", len(slots))
	}
	if slots[0].Start != "08:00" || slots[0].End != "08:30" {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	if slots[19].Start != "17:30" || slots[19].End != "18:00" {
		t.Errorf("unexpected last slot: %+v", slots[19])
	}
}

func TestFreeSlots_ExcludesBooked(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "09:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := svc.FreeSlots(context.Background(), 42, "2025-07-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(slots) != 19 {
		t.Fatalf("expected 19 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s.Start == "09:00" {
			t.Errorf("booked slot 09:00 should not be free")
		}
		// No free slot may overlap the occupied interval [09:00, 09:30).
		if s.Start < "09:30" && s.End > "09:00" {
			t.Errorf("slot %+v overlaps the booked interval", s)
		}
	}
}

func TestFreeSlots_IgnoresCancelled(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "09:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), view.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots, err := svc.FreeSlots(context.Background(), 42, "2025-07-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 20 {
		t.Errorf("cancelled appointment should free its slot, got %d slots", len(slots))
	}
}

func TestFreeSlots_InvalidDate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.FreeSlots(context.Background(), 42, "15/07/2025")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *clinicerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

// -- Booking --

func TestBookExam(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookExam(context.Background(), "Carlos Silva", "111.222.333-44",
		"2025-07-15", "09:00", "Exame de Sangue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.ID != 123 {
		t.Errorf("expected first appointment ID 123, got %d", view.ID)
	}
	if view.PhysicianID != nil {
		t.Errorf("exam booking should have no physician, got %v", *view.PhysicianID)
	}
	if view.ExamTypeID == nil || *view.ExamTypeID != 1 {
		t.Errorf("expected exam type 1, got %v", view.ExamTypeID)
	}
	if view.PhysicianName != "N/A (exam only)" {
		t.Errorf("unexpected physician name: %s", view.PhysicianName)
	}
	if view.ExamDescription != "Exame de Sangue" {
		t.Errorf("unexpected exam description: %s", view.ExamDescription)
	}
	if view.Status != StatusScheduled {
		t.Errorf("expected scheduled status, got %s", view.Status)
	}
	if view.Notes != "Exame: Exame de Sangue" {
		t.Errorf("unexpected notes: %s", view.Notes)
	}
}

func TestBookExam_NotSimple(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BookExam(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "09:00", "Tomografia")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *clinicerr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestBookExam_UnknownExamType(t *testing.T) {
	svc, _ := newTestService()

	// "raio-x" is allowed without a physician but is not registered in the
	// catalog fixture.
	_, err := svc.BookExam(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "09:00", "Raio-X")
	if err == nil {
		t.Fatal("expected not found error")
	}
	var nfe *clinicerr.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestBookConsultation(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "Maria", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.PhysicianID == nil || *view.PhysicianID != 58 {
		t.Errorf("expected physician 58, got %v", view.PhysicianID)
	}
	if view.PhysicianName != "Dra. Maria Souza" {
		t.Errorf("unexpected physician name: %s", view.PhysicianName)
	}
	if view.Notes != "Consulta de rotina" {
		t.Errorf("expected default reason, got %s", view.Notes)
	}
	if view.ExamDescription != "Routine consultation" {
		t.Errorf("unexpected exam description: %s", view.ExamDescription)
	}
}

func TestBookConsultation_ReasonMapsToExam(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "exame de sangue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if view.ExamTypeID == nil || *view.ExamTypeID != 1 {
		t.Errorf("expected reason to resolve to exam type 1, got %v", view.ExamTypeID)
	}
	if view.ExamDescription != "Exame de Sangue" {
		t.Errorf("unexpected exam description: %s", view.ExamDescription)
	}
}

func TestBookConsultation_UnknownPhysician(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "Fulano", "")
	if err == nil {
		t.Fatal("expected not found error")
	}
	var nfe *clinicerr.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

// The store-enforced unique index on (physician, date, start time) makes the
// second identical booking fail atomically.
func TestBookConsultation_DuplicateSlot(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.BookConsultation(context.Background(), "Ana Pereira", "55566677788",
		"2025-07-15", "10:00", "João", "")
	if err == nil {
		t.Fatal("expected conflict error")
	}
	var ce *clinicerr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
}

func TestBookExam_SameSlotNoConflict(t *testing.T) {
	svc, _ := newTestService()

	// Standalone exams have no physician, so identical slots do not collide.
	_, err := svc.BookExam(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "09:00", "Exame de Sangue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = svc.BookExam(context.Background(), "Ana Pereira", "55566677788",
		"2025-07-15", "09:00", "Exame de Sangue")
	if err != nil {
		t.Fatalf("two physician-less exams at the same time should not conflict: %v", err)
	}
}

// -- Listing --

func TestListUpcoming(t *testing.T) {
	svc, repo := newTestService()

	// Past, future and cancelled appointments for the same patient.
	seed := []*Appointment{
		{PatientID: 101, Date: "2025-07-01", StartTime: "09:00", DurationMinutes: 30, Status: StatusScheduled},
		{PatientID: 101, Date: "2025-08-01", StartTime: "10:00", DurationMinutes: 30, Status: StatusScheduled},
		{PatientID: 101, Date: "2025-07-20", StartTime: "11:00", DurationMinutes: 30, Status: StatusScheduled},
		{PatientID: 101, Date: "2025-07-25", StartTime: "09:00", DurationMinutes: 30, Status: StatusCancelled},
	}
	for _, a := range seed {
		if err := repo.Create(context.Background(), a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// Ensure the CPF resolves to patient 101.
	if _, err := svc.patients.ResolveOrCreate(context.Background(), "Carlos Silva", "11122233344"); err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	views, err := svc.ListUpcoming(context.Background(), "11122233344")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("expected 2 upcoming appointments, got %d", len(views))
	}
	if views[0].Date != "2025-07-20" || views[1].Date != "2025-08-01" {
		t.Errorf("expected ascending date order, got %s then %s", views[0].Date, views[1].Date)
	}
}

// -- Lifecycle --

func TestReschedule_Success(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Reschedule(context.Background(), view.ID, "2025-07-16", "11:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Date != "2025-07-16" || updated.StartTime != "11:00" {
		t.Errorf("reschedule not applied: %s %s", updated.Date, updated.StartTime)
	}
	if updated.Status != StatusScheduled {
		t.Errorf("reschedule must not change status, got %s", updated.Status)
	}
}

func TestReschedule_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Reschedule(context.Background(), 999, "2025-07-16", "11:00")
	if err == nil {
		t.Fatal("expected not found error")
	}
	var nfe *clinicerr.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestReschedule_ConflictWithOtherAppointment(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.BookConsultation(context.Background(), "Ana Pereira", "55566677788",
		"2025-07-15", "11:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Reschedule(context.Background(), second.ID, "2025-07-15", "10:00")
	if err == nil {
		t.Fatal("expected conflict error")
	}
	var ce *clinicerr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
}

// raceOnUpdateRepo simulates a competing booking landing between the conflict
// check and the update, so the store's unique index rejects the move.
type raceOnUpdateRepo struct {
	*mockApptRepo
}

func (r *raceOnUpdateRepo) UpdateSchedule(_ context.Context, _ int, _, _ string) (bool, error) {
	return false, clinicerr.Conflictf("this physician already has an appointment at this exact time")
}

func TestReschedule_ConflictFromStore(t *testing.T) {
	svc, repo := newTestService()
	svc.appointments = &raceOnUpdateRepo{mockApptRepo: repo}

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Reschedule(context.Background(), view.ID, "2025-07-16", "11:00")
	if err == nil {
		t.Fatal("expected conflict error from the store")
	}
	var ce *clinicerr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
}

func TestReschedule_SameValues(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Reschedule(context.Background(), view.ID, "2025-07-15", "10:00")
	if err == nil {
		t.Fatal("expected conflict error for identical values")
	}
	var ce *clinicerr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConflictError, got %T", err)
	}
}

func TestCancel_Success(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), view.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc, _ := newTestService()

	view, err := svc.BookConsultation(context.Background(), "Carlos Silva", "11122233344",
		"2025-07-15", "10:00", "João", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Cancel(context.Background(), view.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Cancel(context.Background(), view.ID)
	if err == nil {
		t.Fatal("expected not found error")
	}
	var nfe *clinicerr.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Cancel(context.Background(), 999)
	if err == nil {
		t.Fatal("expected not found error")
	}
	var nfe *clinicerr.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusScheduled, StatusCancelled, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Status("pendente").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
