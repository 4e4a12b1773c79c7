package patients

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/patients", func(pr chi.Router) {
		pr.With(middleware.Require(auth.CapPatientsWrite)).Post("/", registerPatientHandler(svc))
		pr.With(middleware.Require(auth.CapPatientsRead)).Get("/", listPatientsHandler(svc))
		pr.With(middleware.Require(auth.CapPatientsRead)).Get("/{patientID}", getPatientHandler(svc))
		pr.With(middleware.Require(auth.CapPatientsWrite)).Put("/{patientID}", editPatientHandler(svc))
	})
}

// patientRequest conserva los nombres de campo del formulario de admisión
// original para no romper la UI existente.
type patientRequest struct {
	DNI              string `json:"dni"`
	Nombre           string `json:"nombre"`
	Apellido         string `json:"apellido"`
	Edad             int    `json:"edad"`
	Sexo             string `json:"sexo"`
	Direccion        string `json:"direccion"`
	Ocupacion        string `json:"ocupacion"`
	FechaNacimiento  string `json:"fechaNacimiento"` // YYYY-MM-DD opcional
	CiudadNacimiento string `json:"ciudadNacimiento"`
	CiudadResidencia string `json:"ciudadResidencia"`
	Alergias         string `json:"alergias"`
	Enfermedad       string `json:"enfermedad"`
	Correo           string `json:"correo"`
	Celular          string `json:"celular"`
	CirugiaEstetica  string `json:"cirugiaEstetica"`
	Drogas           string `json:"drogas"`
	Tabaco           string `json:"tabaco"`
	Alcohol          string `json:"alcohol"`
	Referencia       string `json:"referencia"`
}

type patientResponse struct {
	ID               string     `json:"id"`
	DNI              string     `json:"dni"`
	Nombre           string     `json:"nombre"`
	Apellido         string     `json:"apellido"`
	Edad             int        `json:"edad"`
	Sexo             string     `json:"sexo"`
	Direccion        string     `json:"direccion"`
	Ocupacion        string     `json:"ocupacion"`
	FechaNacimiento  *time.Time `json:"fechaNacimiento,omitempty"`
	CiudadNacimiento string     `json:"ciudadNacimiento"`
	CiudadResidencia string     `json:"ciudadResidencia"`
	Alergias         string     `json:"alergias"`
	Enfermedad       string     `json:"enfermedad"`
	Correo           string     `json:"correo"`
	Celular          string     `json:"celular"`
	CirugiaEstetica  string     `json:"cirugiaEstetica"`
	Drogas           string     `json:"drogas"`
	Tabaco           string     `json:"tabaco"`
	Alcohol          string     `json:"alcohol"`
	Referencia       string     `json:"referencia"`
	FechaRegistro    time.Time  `json:"fechaRegistro"`
}

func (req patientRequest) toInput() (Input, error) {
	var bd *time.Time
	if strings.TrimSpace(req.FechaNacimiento) != "" {
		t, err := time.Parse("2006-01-02", req.FechaNacimiento)
		if err != nil {
			return Input{}, err
		}
		bd = &t
	}

	return Input{
		DNI:             req.DNI,
		FirstName:       req.Nombre,
		LastName:        req.Apellido,
		Age:             req.Edad,
		Sex:             req.Sexo,
		Address:         req.Direccion,
		Occupation:      req.Ocupacion,
		BirthDate:       bd,
		BirthCity:       req.CiudadNacimiento,
		ResidCity:       req.CiudadResidencia,
		Allergies:       req.Alergias,
		Conditions:      req.Enfermedad,
		Email:           req.Correo,
		Phone:           req.Celular,
		CosmeticSurgery: req.CirugiaEstetica,
		Drugs:           req.Drogas,
		Tobacco:         req.Tabaco,
		Alcohol:         req.Alcohol,
		ReferralSource:  req.Referencia,
	}, nil
}

// registerPatientHandler godoc
// @Summary Registrar paciente
// @Tags patients
// @Accept json
// @Produce json
// @Success 201 {object} patientResponse
// @Failure 400 {object} errorResponse "dni/nombre/apellido faltantes"
// @Router /patients [post]
func registerPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, "fechaNacimiento must be YYYY-MM-DD")
			return
		}

		p, err := svc.Register(r.Context(), in)
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "faltan datos obligatorios")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al registrar paciente")
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func editPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, "fechaNacimiento must be YYYY-MM-DD")
			return
		}

		p, err := svc.Edit(r.Context(), chi.URLParam(r, "patientID"), in)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "faltan datos obligatorios")
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "paciente no encontrado")
			default:
				writeError(w, http.StatusInternalServerError, "error al editar paciente")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func getPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "paciente no encontrado")
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// listPatientsHandler atiende tanto el listado completo como la búsqueda
// por substring (?search=term) sobre nombre, apellido o dni.
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al listar pacientes")
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:               p.ID,
		DNI:              p.DNI,
		Nombre:           p.FirstName,
		Apellido:         p.LastName,
		Edad:             p.Age,
		Sexo:             p.Sex,
		Direccion:        p.Address,
		Ocupacion:        p.Occupation,
		FechaNacimiento:  p.BirthDate,
		CiudadNacimiento: p.BirthCity,
		CiudadResidencia: p.ResidCity,
		Alergias:         p.Allergies,
		Enfermedad:       p.Conditions,
		Correo:           p.Email,
		Celular:          p.Phone,
		CirugiaEstetica:  p.CosmeticSurgery,
		Drogas:           p.Drugs,
		Tabaco:           p.Tobacco,
		Alcohol:          p.Alcohol,
		Referencia:       p.ReferralSource,
		FechaRegistro:    p.RegisteredAt,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
