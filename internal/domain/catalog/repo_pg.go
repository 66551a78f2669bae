package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Specialty Repository ===========

type specialtyRepoPG struct{ pool *pgxpool.Pool }

func NewSpecialtyRepoPG(pool *pgxpool.Pool) SpecialtyRepository { return &specialtyRepoPG{pool: pool} }

func (r *specialtyRepoPG) ListWithPhysicians(ctx context.Context) ([]*Specialty, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT s.id, s.name
		FROM specialty s
		JOIN physician p ON p.specialty_id = s.id
		ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Specialty
	for rows.Next() {
		var s Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *specialtyRepoPG) FindByTerm(ctx context.Context, term string) (*Specialty, error) {
	var s Specialty
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM specialty WHERE name ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`,
		term).Scan(&s.ID, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// =========== Physician Repository ===========

type physicianRepoPG struct{ pool *pgxpool.Pool }

func NewPhysicianRepoPG(pool *pgxpool.Pool) PhysicianRepository { return &physicianRepoPG{pool: pool} }

const physicianCols = `p.id, p.name, p.license, p.specialty_id, COALESCE(s.name, 'N/A')`

func (r *physicianRepoPG) scanPhysician(row pgx.Row) (*Physician, error) {
	var p Physician
	err := row.Scan(&p.ID, &p.Name, &p.License, &p.SpecialtyID, &p.SpecialtyName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *physicianRepoPG) GetByID(ctx context.Context, id int) (*Physician, error) {
	return r.scanPhysician(r.pool.QueryRow(ctx, `
		SELECT `+physicianCols+`
		FROM physician p LEFT JOIN specialty s ON s.id = p.specialty_id
		WHERE p.id = $1`, id))
}

func (r *physicianRepoPG) List(ctx context.Context) ([]*Physician, error) {
	return r.queryPhysicians(ctx, `
		SELECT `+physicianCols+`
		FROM physician p LEFT JOIN specialty s ON s.id = p.specialty_id
		ORDER BY p.id`)
}

func (r *physicianRepoPG) ListBySpecialty(ctx context.Context, specialtyID int) ([]*Physician, error) {
	return r.queryPhysicians(ctx, `
		SELECT `+physicianCols+`
		FROM physician p LEFT JOIN specialty s ON s.id = p.specialty_id
		WHERE p.specialty_id = $1
		ORDER BY p.id`, specialtyID)
}

func (r *physicianRepoPG) FindFirstByName(ctx context.Context, name string) (*Physician, error) {
	return r.scanPhysician(r.pool.QueryRow(ctx, `
		SELECT `+physicianCols+`
		FROM physician p LEFT JOIN specialty s ON s.id = p.specialty_id
		WHERE p.name ILIKE '%' || $1 || '%'
		ORDER BY p.id LIMIT 1`, name))
}

func (r *physicianRepoPG) queryPhysicians(ctx context.Context, sql string, args ...interface{}) ([]*Physician, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Physician
	for rows.Next() {
		var p Physician
		if err := rows.Scan(&p.ID, &p.Name, &p.License, &p.SpecialtyID, &p.SpecialtyName); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

// =========== ExamType Repository ===========

type examTypeRepoPG struct{ pool *pgxpool.Pool }

func NewExamTypeRepoPG(pool *pgxpool.Pool) ExamTypeRepository { return &examTypeRepoPG{pool: pool} }

func (r *examTypeRepoPG) scanExamType(row pgx.Row) (*ExamType, error) {
	var e ExamType
	err := row.Scan(&e.ID, &e.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *examTypeRepoPG) GetByID(ctx context.Context, id int) (*ExamType, error) {
	return r.scanExamType(r.pool.QueryRow(ctx,
		`SELECT id, description FROM exam_type WHERE id = $1`, id))
}

func (r *examTypeRepoPG) FindByDescription(ctx context.Context, description string) (*ExamType, error) {
	return r.scanExamType(r.pool.QueryRow(ctx,
		`SELECT id, description FROM exam_type WHERE LOWER(description) = LOWER($1) LIMIT 1`,
		description))
}

func (r *examTypeRepoPG) FindByTerm(ctx context.Context, term string) (*ExamType, error) {
	return r.scanExamType(r.pool.QueryRow(ctx,
		`SELECT id, description FROM exam_type WHERE description ILIKE '%' || $1 || '%' ORDER BY id LIMIT 1`,
		term))
}
