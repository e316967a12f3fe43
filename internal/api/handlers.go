// =============================================================================
// Buyer Ledger - API Handlers
// =============================================================================
//
// HTTP handlers for the buyer CRUD surface and the spreadsheet import
// endpoint. The handlers are thin: decode the request, call the store or the
// aggregation engine, encode the response. Merge semantics live in the store;
// aggregation semantics live in the engine.
//
// =============================================================================

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skdtraders/buyer-ledger/internal/engine"
	"github.com/skdtraders/buyer-ledger/internal/export"
	"github.com/skdtraders/buyer-ledger/internal/store"
	"github.com/skdtraders/buyer-ledger/internal/types"
	"github.com/skdtraders/buyer-ledger/internal/xlsxreader"
)

// maxImportSize caps multipart spreadsheet uploads at 20 MB; real broker
// files are well under 1 MB.
const maxImportSize = 20 << 20

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	store store.Store
}

// NewHandlers creates the handler set.
func NewHandlers(s store.Store) *Handlers {
	return &Handlers{store: s}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]string{"error": code, "message": message})
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// BUYER CRUD
// =============================================================================

// ListBuyers returns all buyer records.
func (h *Handlers) ListBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("GET /api/buyers: %v", err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to fetch buyers")
		return
	}
	if buyers == nil {
		buyers = []types.BuyerSummary{}
	}
	respondJSON(w, http.StatusOK, buyers)
}

// BulkUpsertBuyers upserts a batch of buyer records with merge-on-write
// semantics (computed fields overwritten, manual fields preserved).
func (h *Handlers) BulkUpsertBuyers(w http.ResponseWriter, r *http.Request) {
	var buyers []types.BuyerSummary
	if err := json.NewDecoder(r.Body).Decode(&buyers); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "Body must be a JSON array of buyer records")
		return
	}

	for _, b := range buyers {
		if b.Buyer == "" {
			respondError(w, http.StatusBadRequest, "invalid_body", "Every record needs a buyer name")
			return
		}
	}

	if err := h.store.UpsertSummaries(r.Context(), buyers); err != nil {
		log.Printf("POST /api/buyers: %v", err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to upsert buyers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateBuyerPayment sets the manual payment fields of one buyer.
func (h *Handlers) UpdateBuyerPayment(w http.ResponseWriter, r *http.Request) {
	buyer := chi.URLParam(r, "buyer")

	var update types.PaymentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "Body must be a JSON payment update")
		return
	}

	err := h.store.UpdatePayment(r.Context(), buyer, update)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", fmt.Sprintf("No buyer %q", buyer))
		return
	}
	if err != nil {
		log.Printf("PATCH /api/buyers/%s: %v", buyer, err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to update buyer")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeleteAllBuyers clears the ledger. The client confirms before calling.
func (h *Handlers) DeleteAllBuyers(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAll(r.Context()); err != nil {
		log.Printf("DELETE /api/buyers: %v", err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to delete buyers")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// =============================================================================
// IMPORT
// =============================================================================

// importResponse is the diagnostic payload returned after an import.
type importResponse struct {
	BatchID     string               `json:"batchId"`
	Roles       engine.ColumnRoles   `json:"resolvedColumns"`
	RowsIn      int                  `json:"rowsIn"`
	RowsSkipped int                  `json:"rowsSkipped"`
	Buyers      []types.BuyerSummary `json:"buyers"`
}

// ImportSpreadsheet ingests one batch and persists the aggregated summaries.
//
// Two request shapes are accepted:
//   - multipart/form-data with a "file" field holding an xlsx workbook
//   - application/json with an array of row objects (header -> cell value)
//
// Replace semantics are opt-in via ?replace=true, which clears the ledger
// before saving, matching the old client's delete-then-upload flow.
func (h *Handlers) ImportSpreadsheet(w http.ResponseWriter, r *http.Request) {
	result, ok := h.decodeImport(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("replace") == "true" {
		if err := h.store.DeleteAll(r.Context()); err != nil {
			log.Printf("POST /api/import replace: %v", err)
			respondError(w, http.StatusInternalServerError, "db_error", "Failed to clear buyers")
			return
		}
	}

	if err := h.store.UpsertSummaries(r.Context(), result.Summaries); err != nil {
		log.Printf("POST /api/import: %v", err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to save buyers")
		return
	}

	respondJSON(w, http.StatusOK, importResponse{
		BatchID:     uuid.New().String(),
		Roles:       result.Roles,
		RowsIn:      result.RowsIn,
		RowsSkipped: result.RowsSkipped,
		Buyers:      result.Summaries,
	})
}

// decodeImport extracts the raw rows from either request shape and runs the
// engine. On failure it writes the error response and returns ok=false.
// Routing is on the media type alone so parameters like charset don't
// misdirect a JSON body into the multipart branch.
func (h *Handlers) decodeImport(w http.ResponseWriter, r *http.Request) (engine.Result, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return h.decodeImportJSON(w, r)
	}
	return h.decodeImportFile(w, r)
}

func (h *Handlers) decodeImportFile(w http.ResponseWriter, r *http.Request) (engine.Result, bool) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "Expected a multipart spreadsheet upload")
		return engine.Result{}, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "Missing \"file\" field")
		return engine.Result{}, false
	}
	defer file.Close()

	batch, err := xlsxreader.Read(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_file", "Invalid Excel file or format")
		return engine.Result{}, false
	}

	return engine.AggregateWithHeaders(batch.Headers, batch.Rows), true
}

func (h *Handlers) decodeImportJSON(w http.ResponseWriter, r *http.Request) (engine.Result, bool) {
	var raw []any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "Body must be a JSON array of rows")
		return engine.Result{}, false
	}

	rows, err := engine.DecodeRows(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_rows", err.Error())
		return engine.Result{}, false
	}

	return engine.Aggregate(rows), true
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportBuyers streams the summary workbook. Optional buyer/place query
// params filter the rows, as the on-screen table does.
func (h *Handlers) ExportBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := h.store.List(r.Context())
	if err != nil {
		log.Printf("GET /api/buyers/export: %v", err)
		respondError(w, http.StatusInternalServerError, "db_error", "Failed to fetch buyers")
		return
	}

	filter := export.Filter{
		Buyer: r.URL.Query().Get("buyer"),
		Place: r.URL.Query().Get("place"),
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(filter)))

	if err := export.Write(w, buyers, filter); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("GET /api/buyers/export write: %v", err)
	}
}
