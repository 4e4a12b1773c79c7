package patients

import "time"

// Patient representa la ficha de admisión completa de un paciente.
// Los campos de estilo de vida (drogas, tabaco, alcohol) son texto libre
// porque la ficha histórica los guardaba así.
type Patient struct {
	ID string

	DNI       string
	FirstName string
	LastName  string
	Age       int
	Sex       string

	Address    string
	Occupation string
	BirthDate  *time.Time
	BirthCity  string
	ResidCity  string

	Allergies  string
	Conditions string

	Email string
	Phone string

	CosmeticSurgery string
	Drugs           string
	Tobacco         string
	Alcohol         string

	ReferralSource string

	RegisteredAt time.Time
}

// FullName es la concatenación "nombre apellido" usada por reportes y búsquedas.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
