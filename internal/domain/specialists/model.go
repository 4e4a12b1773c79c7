package specialists

// Specialist es una entrada del roster de especialistas.
// No es un usuario del sistema: las sesiones guardan el nombre como texto.
type Specialist struct {
	ID        string
	Name      string
	Specialty string
	Phone     string
	Email     string
}
