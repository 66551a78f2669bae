package catalog

import (
	"context"
	"strings"
)

type Service struct {
	specialties SpecialtyRepository
	physicians  PhysicianRepository
	examTypes   ExamTypeRepository
}

func NewService(specialties SpecialtyRepository, physicians PhysicianRepository, examTypes ExamTypeRepository) *Service {
	return &Service{specialties: specialties, physicians: physicians, examTypes: examTypes}
}

// ListSpecialtiesWithPhysicians returns the names of specialties that have at
// least one registered physician.
func (s *Service) ListSpecialtiesWithPhysicians(ctx context.Context) ([]string, error) {
	specialties, err := s.specialties.ListWithPhysicians(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(specialties))
	for _, sp := range specialties {
		names = append(names, sp.Name)
	}
	return names, nil
}

// FindPhysicians searches physicians, optionally filtered by specialty. The
// term accepts both the specialty name ("cardiologia") and the specialist
// noun ("cardiologista"); both are stemmed to a common base before the
// lexical match. An unmatched term yields an empty list, not an error.
func (s *Service) FindPhysicians(ctx context.Context, specialty string) ([]*Physician, error) {
	term := strings.TrimSpace(specialty)
	if term == "" {
		return s.physicians.List(ctx)
	}

	base := stemSpecialty(term)
	sp, err := s.specialties.FindByTerm(ctx, base)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return []*Physician{}, nil
	}
	return s.physicians.ListBySpecialty(ctx, sp.ID)
}

// stemSpecialty strips the Portuguese "-logista"/"-logia" suffixes so that
// "cardiologista" and "cardiologia" both reduce to "cardio". Best-effort
// lexical matching, not a full text search.
func stemSpecialty(term string) string {
	base := strings.ToLower(term)
	switch {
	case strings.HasSuffix(base, "logista"):
		return base[:len(base)-len("logista")]
	case strings.HasSuffix(base, "logia"):
		return base[:len(base)-len("logia")]
	}
	return base
}
