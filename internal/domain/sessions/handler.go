package sessions

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"showclinic-backend/internal/domain/patients"
	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/platform/uploads"
	"showclinic-backend/internal/ports/auth"
)

const maxUploadSize = 32 << 20 // fotos del envío completo

func RegisterRoutes(r chi.Router, svc *Service, patientsSvc *patients.Service, store *uploads.Store) {
	r.Route("/sessions", func(sr chi.Router) {
		sr.With(middleware.Require(auth.CapSessionsWrite)).Post("/", submitSessionHandler(svc, patientsSvc, store))
		sr.With(middleware.Require(auth.CapSessionsWrite)).Post("/{sessionID}/photos", attachPhotosHandler(svc, store))
		sr.With(middleware.Require(auth.CapSessionsRead)).Get("/history/{patientID}", historyHandler(svc))
	})

	// La ficha del paciente expone el mismo historial.
	r.With(middleware.Require(auth.CapSessionsRead)).Get("/patients/{patientID}/history", historyHandler(svc))
}

// lineRequest replica el shape del campo "productos" del formulario
// original; producto_id es nuevo y opcional (matching de stock por id).
type lineRequest struct {
	TratamientoID string          `json:"tratamiento_id"`
	ProductoID    string          `json:"producto_id"`
	Producto      string          `json:"producto"`
	Cantidad      int             `json:"cantidad"`
	Precio        decimal.Decimal `json:"precio"`
	Descuento     decimal.Decimal `json:"descuento"`
}

type sessionResponse struct {
	ID            string          `json:"id"`
	PacienteID    string          `json:"paciente_id"`
	TratamientoID *string         `json:"tratamiento_id"`
	Productos     []LineItem      `json:"productos"`
	CantidadTotal int             `json:"cantidad_total"`
	PrecioTotal   decimal.Decimal `json:"precio_total"`
	Descuento     decimal.Decimal `json:"descuento"`
	PagoMetodo    string          `json:"pagoMetodo"`
	Sesion        int             `json:"sesion"`
	TipoAtencion  string          `json:"tipoAtencion"`
	Especialista  string          `json:"especialista"`
	FotosAntes    [3]*string      `json:"fotosAntes"`
	FotosDespues  [3]*string      `json:"fotosDespues"`
	FotoIzquierda *string         `json:"foto_izquierda"`
	FotoFrontal   *string         `json:"foto_frontal"`
	FotoDerecha   *string         `json:"foto_derecha"`
	Fecha         time.Time       `json:"fecha"`
}

type historyEntryResponse struct {
	sessionResponse
	Tratamiento *string `json:"tratamiento"`
}

type historyResponse struct {
	Historial []historyEntryResponse `json:"historial"`
	Total     decimal.Decimal        `json:"total"`
}

// submitSessionHandler godoc
// @Summary Registrar tratamientos realizados
// @Description Multipart: paciente_id, especialista, pagoMetodo, sesion, tipoAtencion y "productos" (JSON). Cada línea se persiste como fila propia con un timestamp compartido; el stock se descuenta en la misma transacción. Fotos opcionales quedan adjuntas a la primera fila.
// @Tags sessions
// @Accept mpfd
// @Produce json
// @Success 201 {array} sessionResponse
// @Failure 400 {object} errorResponse "sin líneas / JSON de productos inválido"
// @Failure 404 {object} errorResponse "paciente no encontrado"
// @Router /sessions [post]
func submitSessionHandler(svc *Service, patientsSvc *patients.Service, store *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		patientID := r.FormValue("paciente_id")
		if _, err := patientsSvc.GetByID(r.Context(), patientID); err != nil {
			writeError(w, http.StatusNotFound, "paciente no encontrado")
			return
		}

		rawLines := r.FormValue("productos")
		var reqLines []lineRequest
		if err := json.Unmarshal([]byte(rawLines), &reqLines); err != nil {
			writeError(w, http.StatusBadRequest, "no se enviaron tratamientos")
			return
		}

		sessionNumber, _ := strconv.Atoi(r.FormValue("sesion"))

		lines := make([]LineInput, 0, len(reqLines))
		for _, l := range reqLines {
			lines = append(lines, LineInput{
				TreatmentID: l.TratamientoID,
				ProductID:   l.ProductoID,
				Product:     l.Producto,
				Quantity:    l.Cantidad,
				UnitPrice:   l.Precio,
				DiscountPct: l.Descuento,
			})
		}

		rows, err := svc.Submit(r.Context(), SubmitInput{
			PatientID:     patientID,
			Specialist:    r.FormValue("especialista"),
			PaymentMethod: r.FormValue("pagoMetodo"),
			SessionNumber: sessionNumber,
			AttentionType: r.FormValue("tipoAtencion"),
			Lines:         lines,
		})
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "no se enviaron tratamientos")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al registrar tratamientos")
			return
		}

		// Fotos opcionales del mismo envío: quedan en la primera fila.
		before := saveFiles(store, r.MultipartForm.File["fotosAntes"])
		after := saveFiles(store, r.MultipartForm.File["fotosDespues"])
		legacy := saveFiles(store, r.MultipartForm.File["fotos"])
		if len(before)+len(after)+len(legacy) > 0 {
			if updated, err := svc.AttachPhotos(r.Context(), rows[0].ID, before, after, legacy); err == nil {
				rows[0] = updated
			}
		}

		out := make([]sessionResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toSessionResponse(row))
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

// attachPhotosHandler godoc
// @Summary Adjuntar fotos antes/después a una sesión
// @Description Campos multipart "antes" y "despues" (hasta 3 cada uno); el campo legado "fotos" (hasta 6) se reparte 3/3. Solo se sobreescriben los grupos enviados.
// @Tags sessions
// @Accept mpfd
// @Produce json
// @Success 200 {object} sessionResponse
// @Failure 400 {object} errorResponse "sin imágenes o demasiadas"
// @Failure 404 {object} errorResponse "sesión no encontrada"
// @Router /sessions/{sessionID}/photos [post]
func attachPhotosHandler(svc *Service, store *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		before := saveFiles(store, r.MultipartForm.File["antes"])
		after := saveFiles(store, r.MultipartForm.File["despues"])
		legacy := saveFiles(store, r.MultipartForm.File["fotos"])

		if len(before)+len(after)+len(legacy) == 0 {
			writeError(w, http.StatusBadRequest, "no se han subido imágenes")
			return
		}

		updated, err := svc.AttachPhotos(r.Context(), chi.URLParam(r, "sessionID"), before, after, legacy)
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "sesión no encontrada")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "cantidad de imágenes inválida")
			default:
				writeError(w, http.StatusInternalServerError, "error al guardar fotos")
			}
			return
		}

		writeJSON(w, http.StatusOK, toSessionResponse(updated))
	}
}

func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.History(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "paciente inválido")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al obtener historial")
			return
		}

		entries := make([]historyEntryResponse, 0, len(h.Entries))
		for _, e := range h.Entries {
			entry := historyEntryResponse{sessionResponse: toSessionResponse(e.Session)}
			if e.TreatmentName != "" {
				name := e.TreatmentName
				entry.Tratamiento = &name
			}
			entries = append(entries, entry)
		}

		writeJSON(w, http.StatusOK, historyResponse{Historial: entries, Total: h.TotalAmount})
	}
}

func saveFiles(store *uploads.Store, headers []*multipart.FileHeader) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			continue
		}
		name, err := store.Save(f, h.Filename)
		_ = f.Close()
		if err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}

func toSessionResponse(s Session) sessionResponse {
	return sessionResponse{
		ID:            s.ID,
		PacienteID:    s.PatientID,
		TratamientoID: s.TreatmentID,
		Productos:     s.Items,
		CantidadTotal: s.TotalQuantity,
		PrecioTotal:   s.Total,
		Descuento:     s.DiscountPct,
		PagoMetodo:    s.PaymentMethod,
		Sesion:        s.SessionNumber,
		TipoAtencion:  s.AttentionType,
		Especialista:  s.Specialist,
		FotosAntes:    photoSlots(s.BeforePhotos),
		FotosDespues:  photoSlots(s.AfterPhotos),
		FotoIzquierda: optional(s.PhotoLeft),
		FotoFrontal:   optional(s.PhotoFront),
		FotoDerecha:   optional(s.PhotoRight),
		Fecha:         s.RecordedAt,
	}
}

// photoSlots proyecta la lista en 3 slots fijos; los vacíos van como null.
func photoSlots(fs []string) [3]*string {
	var out [3]*string
	for i := 0; i < len(fs) && i < 3; i++ {
		f := fs[i]
		out[i] = &f
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
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
