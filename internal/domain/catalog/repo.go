package catalog

import "context"

// Lookup methods return (nil, nil) when no record matches; callers decide
// whether that is an error.

type SpecialtyRepository interface {
	// ListWithPhysicians returns specialties that have at least one physician.
	ListWithPhysicians(ctx context.Context) ([]*Specialty, error)
	// FindByTerm returns the first specialty whose name contains term,
	// case-insensitively.
	FindByTerm(ctx context.Context, term string) (*Specialty, error)
}

type PhysicianRepository interface {
	GetByID(ctx context.Context, id int) (*Physician, error)
	List(ctx context.Context) ([]*Physician, error)
	ListBySpecialty(ctx context.Context, specialtyID int) ([]*Physician, error)
	// FindFirstByName returns the first physician whose name contains name,
	// case-insensitively.
	FindFirstByName(ctx context.Context, name string) (*Physician, error)
}

type ExamTypeRepository interface {
	GetByID(ctx context.Context, id int) (*ExamType, error)
	// FindByDescription matches the full description, case-insensitively.
	FindByDescription(ctx context.Context, description string) (*ExamType, error)
	// FindByTerm returns the first exam type whose description contains term,
	// case-insensitively.
	FindByTerm(ctx context.Context, term string) (*ExamType, error)
}
