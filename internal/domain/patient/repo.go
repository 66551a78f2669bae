package patient

import "context"

type Repository interface {
	// GetByCPF returns (nil, nil) when no patient holds that CPF.
	GetByCPF(ctx context.Context, cpf string) (*Patient, error)
	// Create allocates the next sequential ID and inserts the record,
	// filling p.ID on return.
	Create(ctx context.Context, p *Patient) error
}
