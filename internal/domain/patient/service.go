package patient

import (
	"context"
	"strings"

	"github.com/clinicaproativa/agenda/internal/domain/clinicerr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeCPF strips the usual CPF separators and surrounding whitespace,
// then checks the result is exactly 11 decimal digits.
func NormalizeCPF(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, ".", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) != 11 {
		return "", clinicerr.Validationf("invalid CPF format: must contain 11 digits")
	}
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return "", clinicerr.Validationf("invalid CPF format: must contain 11 digits")
		}
	}
	return cleaned, nil
}

// ResolveOrCreate looks a patient up by CPF, creating the record on first
// contact. An existing record is returned unchanged; the supplied name is
// only used when inserting.
func (s *Service) ResolveOrCreate(ctx context.Context, fullName, rawCPF string) (*Patient, error) {
	cpf, err := NormalizeCPF(rawCPF)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	p := &Patient{Name: fullName, CPF: cpf}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
