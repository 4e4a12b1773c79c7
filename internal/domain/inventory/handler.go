package inventory

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"showclinic-backend/internal/middleware"
	"showclinic-backend/internal/platform/uploads"
	"showclinic-backend/internal/ports/auth"
)

const maxDocumentSize = 16 << 20 // 16 MiB por PDF

func RegisterRoutes(r chi.Router, svc *Service, store *uploads.Store) {
	r.Route("/inventory", func(ir chi.Router) {
		ir.With(middleware.Require(auth.CapInventoryWrite)).Post("/", createItemHandler(svc))
		ir.With(middleware.Require(auth.CapInventoryRead)).Get("/", listItemsHandler(svc))
		ir.With(middleware.Require(auth.CapInventoryRead)).Get("/brands", listBrandsHandler(svc))
		ir.With(middleware.Require(auth.CapInventoryWrite)).Put("/{itemID}", updateItemHandler(svc))
		ir.With(middleware.Require(auth.CapInventoryDelete)).Delete("/{itemID}", deleteItemHandler(svc))
		ir.With(middleware.Require(auth.CapInventoryWrite)).Post("/{itemID}/document", attachDocumentHandler(svc, store))
		ir.With(middleware.Require(auth.CapInventoryRead)).Get("/{itemID}/documents", listDocumentsHandler(svc))
	})
}

// itemRequest conserva los nombres del formulario de inventario original.
type itemRequest struct {
	Producto         string          `json:"producto"`
	Marca            string          `json:"marca"`
	SKU              string          `json:"sku"`
	Proveedor        string          `json:"proveedor"`
	Contenido        string          `json:"contenido"`
	Precio           decimal.Decimal `json:"precio"`
	Stock            int             `json:"stock"`
	FechaVencimiento string          `json:"fechaVencimiento"` // YYYY-MM-DD opcional
}

type itemResponse struct {
	ID                  string          `json:"id"`
	Producto            string          `json:"producto"`
	Marca               string          `json:"marca"`
	SKU                 string          `json:"sku"`
	Proveedor           string          `json:"proveedor"`
	Contenido           string          `json:"contenido"`
	Precio              decimal.Decimal `json:"precio"`
	Stock               int             `json:"stock"`
	FechaVencimiento    *time.Time      `json:"fechaVencimiento,omitempty"`
	DocumentoPDF        string          `json:"documento_pdf,omitempty"`
	UltimaActualizacion time.Time       `json:"ultima_actualizacion"`
	ActualizadoPor      string          `json:"actualizado_por"`
}

type documentResponse struct {
	ID        string    `json:"id"`
	Archivo   string    `json:"archivo"`
	SubidoPor string    `json:"subido_por"`
	SubidoEn  time.Time `json:"subido_en"`
}

func (req itemRequest) toInput() (Input, error) {
	var exp *time.Time
	if strings.TrimSpace(req.FechaVencimiento) != "" {
		t, err := time.Parse("2006-01-02", req.FechaVencimiento)
		if err != nil {
			return Input{}, err
		}
		exp = &t
	}

	return Input{
		Product:        req.Producto,
		Brand:          req.Marca,
		SKU:            req.SKU,
		Supplier:       req.Proveedor,
		Content:        req.Contenido,
		UnitPrice:      req.Precio,
		Stock:          req.Stock,
		ExpirationDate: exp,
	}, nil
}

func createItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, "fechaVencimiento must be YYYY-MM-DD")
			return
		}

		claims, _ := middleware.GetClaims(r.Context())
		it, err := svc.Create(r.Context(), claims.Username, in)
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "faltan campos obligatorios")
				return
			}
			writeError(w, http.StatusInternalServerError, "error al registrar producto")
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

func updateItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, http.StatusBadRequest, "fechaVencimiento must be YYYY-MM-DD")
			return
		}

		claims, _ := middleware.GetClaims(r.Context())
		it, err := svc.Update(r.Context(), chi.URLParam(r, "itemID"), claims.Username, in)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "faltan campos obligatorios")
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "producto no encontrado")
			default:
				writeError(w, http.StatusInternalServerError, "error al editar producto")
			}
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al listar productos")
			return
		}

		out := make([]itemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listBrandsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := svc.Brands(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al obtener marcas")
			return
		}
		writeJSON(w, http.StatusOK, brands)
	}
}

// deleteItemHandler: un id inexistente no es 404; se reporta deleted=0
// y el caller distingue por el conteo.
func deleteItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := svc.Delete(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al eliminar producto")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

func attachDocumentHandler(svc *Service, store *uploads.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		file, header, err := r.FormFile("documento")
		if err != nil {
			writeError(w, http.StatusBadRequest, "no se subió ningún archivo PDF")
			return
		}
		defer file.Close()

		if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
			writeError(w, http.StatusBadRequest, "el documento debe ser un PDF")
			return
		}

		filename, err := store.Save(file, header.Filename)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al guardar PDF")
			return
		}

		claims, _ := middleware.GetClaims(r.Context())
		doc, err := svc.AttachDocument(r.Context(), chi.URLParam(r, "itemID"), filename, claims.Username)
		if err != nil {
			switch err {
			case ErrNotFound:
				writeError(w, http.StatusNotFound, "producto no encontrado")
			case ErrInvalidInput:
				writeError(w, http.StatusBadRequest, "archivo inválido")
			default:
				writeError(w, http.StatusInternalServerError, "error al guardar PDF")
			}
			return
		}

		writeJSON(w, http.StatusCreated, toDocumentResponse(doc))
	}
}

func listDocumentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := svc.Documents(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "error al listar documentos")
			return
		}

		out := make([]documentResponse, 0, len(docs))
		for _, d := range docs {
			out = append(out, toDocumentResponse(d))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:                  it.ID,
		Producto:            it.Product,
		Marca:               it.Brand,
		SKU:                 it.SKU,
		Proveedor:           it.Supplier,
		Contenido:           it.Content,
		Precio:              it.UnitPrice,
		Stock:               it.Stock,
		FechaVencimiento:    it.ExpirationDate,
		DocumentoPDF:        it.CurrentDocument,
		UltimaActualizacion: it.LastUpdatedAt,
		ActualizadoPor:      it.LastUpdatedBy,
	}
}

func toDocumentResponse(d Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Archivo:   d.Filename,
		SubidoPor: d.UploadedBy,
		SubidoEn:  d.UploadedAt,
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
