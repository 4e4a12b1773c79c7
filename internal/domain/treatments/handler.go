package treatments

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/ports/auth"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/treatments", func(tr chi.Router) {
		tr.With(middleware.Require(auth.CapTreatmentsWrite)).Post("/", createTreatmentHandler(svc))
		tr.With(middleware.Require(auth.CapTreatmentsRead)).Get("/", listTreatmentsHandler(svc))
		tr.With(middleware.Require(auth.CapTreatmentsWrite)).Delete("/{treatmentID}", deleteTreatmentHandler(svc))
	})
}

type createTreatmentRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type treatmentResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
}

func createTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTreatmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		t, err := svc.Create(r.Context(), req.Nombre, req.Descripcion)
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "faltan datos")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al crear tratamiento")
			return
		}

		writeJSON(w, http.StatusCreated, toTreatmentResponse(t))
	}
}

func listTreatmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al listar tratamientos")
			return
		}

		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTreatmentResponse(t))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteTreatmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "treatmentID")); err != nil {
			if err == ErrNotFound {
				writeError(w, http.StatusNotFound, "tratamiento no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al eliminar tratamiento")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "tratamiento eliminado"})
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:          t.ID,
		Nombre:      t.Name,
		Descripcion: t.Description,
		CreatedAt:   t.CreatedAt,
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
