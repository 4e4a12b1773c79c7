package auth

// Role es el conjunto cerrado de roles del sistema.
type Role string

const (
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleDoctor, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}

// Capability es una operación concreta permitida a un rol.
// Se chequea en el borde de servicio (router), no solo en la UI.
type Capability string

const (
	CapPatientsRead      Capability = "patients:read"
	CapPatientsWrite     Capability = "patients:write"
	CapTreatmentsRead    Capability = "treatments:read"
	CapTreatmentsWrite   Capability = "treatments:write"
	CapSessionsRead      Capability = "sessions:read"
	CapSessionsWrite     Capability = "sessions:write"
	CapInventoryRead     Capability = "inventory:read"
	CapInventoryWrite    Capability = "inventory:write"
	CapInventoryDelete   Capability = "inventory:delete"
	CapSpecialistsRead   Capability = "specialists:read"
	CapSpecialistsWrite  Capability = "specialists:write"
	CapSpecialistsDelete Capability = "specialists:delete"
	CapReportsRead       Capability = "reports:read"
)

// capabilitiesByRole: admin tiene todo; doctor tiene el trabajo clínico
// pero no puede borrar inventario ni especialistas.
var capabilitiesByRole = map[Role][]Capability{
	RoleDoctor: {
		CapPatientsRead, CapPatientsWrite,
		CapTreatmentsRead, CapTreatmentsWrite,
		CapSessionsRead, CapSessionsWrite,
		CapInventoryRead, CapInventoryWrite,
		CapSpecialistsRead, CapSpecialistsWrite,
		CapReportsRead,
	},
	RoleAdmin: {
		CapPatientsRead, CapPatientsWrite,
		CapTreatmentsRead, CapTreatmentsWrite,
		CapSessionsRead, CapSessionsWrite,
		CapInventoryRead, CapInventoryWrite, CapInventoryDelete,
		CapSpecialistsRead, CapSpecialistsWrite, CapSpecialistsDelete,
		CapReportsRead,
	},
}

func HasCapability(r Role, c Capability) bool {
	for _, have := range capabilitiesByRole[r] {
		if have == c {
			return true
		}
	}
	return false
}
