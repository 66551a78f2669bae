package patient

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) GetByCPF(ctx context.Context, cpf string) (*Patient, error) {
	var p Patient
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, cpf FROM patient WHERE cpf = $1`, cpf).
		Scan(&p.ID, &p.Name, &p.CPF)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create assigns the next sequential ID in the same statement, seeding at 101
// for an empty table.
func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patient (id, name, cpf)
		SELECT COALESCE(MAX(id) + 1, 101), $1, $2 FROM patient
		RETURNING id`,
		p.Name, p.CPF).Scan(&p.ID)
}
