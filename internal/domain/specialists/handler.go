package specialists

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/specialists", func(sr chi.Router) {
		sr.With(middleware.Require(auth.CapSpecialistsRead)).Get("/", listSpecialistsHandler(svc))
		sr.With(middleware.Require(auth.CapSpecialistsWrite)).Post("/", createSpecialistHandler(svc))
		sr.With(middleware.Require(auth.CapSpecialistsDelete)).Delete("/{specialistID}", deleteSpecialistHandler(svc))
	})
}

type specialistRequest struct {
	Nombre       string `json:"nombre"`
	Especialidad string `json:"especialidad"`
	Telefono     string `json:"telefono"`
	Correo       string `json:"correo"`
}

type specialistResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Especialidad string `json:"especialidad"`
	Telefono     string `json:"telefono"`
	Correo       string `json:"correo"`
}

func listSpecialistsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al listar especialistas")
			return
		}

		out := make([]specialistResponse, 0, len(items))
		for _, sp := range items {
			out = append(out, toSpecialistResponse(sp))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func createSpecialistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req specialistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		sp, err := svc.Create(r.Context(), CreateInput{
			Name:      req.Nombre,
			Specialty: req.Especialidad,
			Phone:     req.Telefono,
			Email:     req.Correo,
		})
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "el nombre es obligatorio")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al crear especialista")
			return
		}

		writeJSON(w, http.StatusCreated, toSpecialistResponse(sp))
	}
}

func deleteSpecialistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "specialistID")); err != nil {
			if err == ErrNotFound {
				writeError(w, http.StatusNotFound, "especialista no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al eliminar especialista")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "especialista eliminado"})
	}
}

func toSpecialistResponse(sp Specialist) specialistResponse {
	return specialistResponse{
		ID:           sp.ID,
		Nombre:       sp.Name,
		Especialidad: sp.Specialty,
		Telefono:     sp.Phone,
		Correo:       sp.Email,
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
