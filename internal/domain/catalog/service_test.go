package catalog

import (
	"context"
	"strings"
	"testing"
)

// -- Mock Repositories --

type mockSpecialtyRepo struct {
	specialties []*Specialty
	physicians  []*Physician
}

func (m *mockSpecialtyRepo) ListWithPhysicians(_ context.Context) ([]*Specialty, error) {
	withDocs := make(map[int]bool)
	for _, p := range m.physicians {
		withDocs[p.SpecialtyID] = true
	}
	var result []*Specialty
	for _, s := range m.specialties {
		if withDocs[s.ID] {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSpecialtyRepo) FindByTerm(_ context.Context, term string) (*Specialty, error) {
	for _, s := range m.specialties {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(term)) {
			return s, nil
		}
	}
	return nil, nil
}

type mockPhysicianRepo struct {
	physicians []*Physician
}

func (m *mockPhysicianRepo) GetByID(_ context.Context, id int) (*Physician, error) {
	for _, p := range m.physicians {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPhysicianRepo) List(_ context.Context) ([]*Physician, error) {
	return m.physicians, nil
}

func (m *mockPhysicianRepo) ListBySpecialty(_ context.Context, specialtyID int) ([]*Physician, error) {
	var result []*Physician
	for _, p := range m.physicians {
		if p.SpecialtyID == specialtyID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPhysicianRepo) FindFirstByName(_ context.Context, name string) (*Physician, error) {
	for _, p := range m.physicians {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			return p, nil
		}
	}
	return nil, nil
}

// -- Fixtures --

func newTestService() *Service {
	specialties := []*Specialty{
		{ID: 1, Name: "Cardiologia"},
		{ID: 2, Name: "Ortopedia"},
		{ID: 3, Name: "Dermatologia"},
	}
	physicians := []*Physician{
		{ID: 42, Name: "Dr. João Silva", License: "12345", SpecialtyID: 1, SpecialtyName: "Cardiologia"},
		{ID: 58, Name: "Dra. Maria Souza", License: "67890", SpecialtyID: 2, SpecialtyName: "Ortopedia"},
	}
	return NewService(
		&mockSpecialtyRepo{specialties: specialties, physicians: physicians},
		&mockPhysicianRepo{physicians: physicians},
		nil,
	)
}

// -- Tests --

func TestListSpecialtiesWithPhysicians(t *testing.T) {
	svc := newTestService()

	names, err := svc.ListSpecialtiesWithPhysicians(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(names) != 2 {
		t.Fatalf("expected 2 specialties, got %d: %v", len(names), names)
	}
	if names[0] != "Cardiologia" || names[1] != "Ortopedia" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestFindPhysicians_NoFilter(t *testing.T) {
	svc := newTestService()

	physicians, err := svc.FindPhysicians(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(physicians) != 2 {
		t.Fatalf("expected 2 physicians, got %d", len(physicians))
	}
}

func TestFindPhysicians_BySpecialty(t *testing.T) {
	svc := newTestService()

	physicians, err := svc.FindPhysicians(context.Background(), "Cardiologia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(physicians) != 1 {
		t.Fatalf("expected 1 physician, got %d", len(physicians))
	}
	if physicians[0].Name != "Dr. João Silva" {
		t.Errorf("unexpected physician: %s", physicians[0].Name)
	}
}

func TestFindPhysicians_BySpecialistNoun(t *testing.T) {
	svc := newTestService()

	physicians, err := svc.FindPhysicians(context.Background(), "cardiologista")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(physicians) != 1 {
		t.Fatalf("expected 1 physician for 'cardiologista', got %d", len(physicians))
	}
	if physicians[0].ID != 42 {
		t.Errorf("expected physician 42, got %d", physicians[0].ID)
	}
}

func TestFindPhysicians_UnknownSpecialty(t *testing.T) {
	svc := newTestService()

	physicians, err := svc.FindPhysicians(context.Background(), "neurologia")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(physicians) != 0 {
		t.Errorf("expected empty list, got %d physicians", len(physicians))
	}
}

func TestStemSpecialty(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"cardiologista", "cardio"},
		{"Cardiologia", "cardio"},
		{"ORTOPEDIA", "ortopedia"},
		{"dermatologia", "dermato"},
	}
	for _, c := range cases {
		if got := stemSpecialty(c.in); got != c.want {
			t.Errorf("stemSpecialty(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
