package patient

// Patient maps to the patient table. The CPF (the Brazilian national ID) is
// the natural key used to deduplicate patients; records are created lazily on
// first booking or lookup and never deleted.
type Patient struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"nome"`
	CPF  string `db:"cpf" json:"cpf"`
}
