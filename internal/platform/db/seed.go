package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts the sample reference data the clinic ships with: two
// specialties, two physicians, the two simple exam types, two patients and one
// historical appointment. Every insert is idempotent so the command can be run
// against an already-seeded database.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []struct {
		desc string
		sql  string
		args []interface{}
	}{
		{"specialty Cardiologia", `INSERT INTO specialty (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			[]interface{}{1, "Cardiologia"}},
		{"specialty Ortopedia", `INSERT INTO specialty (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			[]interface{}{2, "Ortopedia"}},
		{"physician Dr. João Silva", `INSERT INTO physician (id, name, license, specialty_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			[]interface{}{42, "Dr. João Silva", "12345", 1}},
		{"physician Dra. Maria Souza", `INSERT INTO physician (id, name, license, specialty_id) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING`,
			[]interface{}{58, "Dra. Maria Souza", "67890", 2}},
		{"exam type Exame de Sangue", `INSERT INTO exam_type (id, description) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			[]interface{}{1, "Exame de Sangue"}},
		{"exam type Raio-X", `INSERT INTO exam_type (id, description) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			[]interface{}{2, "Raio-X"}},
		{"patient Carlos Silva", `INSERT INTO patient (id, name, cpf) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			[]interface{}{101, "Carlos Silva", "11122233344"}},
		{"patient Ana Pereira", `INSERT INTO patient (id, name, cpf) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
			[]interface{}{102, "Ana Pereira", "55566677788"}},
		{"sample appointment", `INSERT INTO appointment
			(id, patient_id, physician_id, exam_type_id, date, start_time, duration_minutes, status, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT DO NOTHING`,
			[]interface{}{123, 101, 42, 1, "2025-06-10", "14:00", 30, "agendada", "Primeira consulta"}},
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s.sql, s.args...); err != nil {
			return fmt.Errorf("seed %s: %w", s.desc, err)
		}
	}
	return nil
}
