package catalog

// Specialty maps to the specialty table. Immutable reference data.
type Specialty struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"nome"`
}

// Physician maps to the physician table. SpecialtyName is joined in on read
// and is never persisted.
type Physician struct {
	ID            int    `db:"id" json:"id"`
	Name          string `db:"name" json:"nome"`
	License       string `db:"license" json:"crm"`
	SpecialtyID   int    `db:"specialty_id" json:"especialidade_id"`
	SpecialtyName string `db:"specialty_name" json:"nome_especialidade"`
}

// ExamType maps to the exam_type table. Immutable reference data.
type ExamType struct {
	ID          int    `db:"id" json:"id"`
	Description string `db:"description" json:"descricao"`
}
