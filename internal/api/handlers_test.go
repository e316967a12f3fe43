package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/skdtraders/buyer-ledger/internal/store"
	"github.com/skdtraders/buyer-ledger/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRouter(store.NewRedisStore(client))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBuyers(t *testing.T, rec *httptest.ResponseRecorder) []types.BuyerSummary {
	t.Helper()

	var buyers []types.BuyerSummary
	if err := json.NewDecoder(rec.Body).Decode(&buyers); err != nil {
		t.Fatalf("decode buyers: %v", err)
	}
	return buyers
}

// workbookUpload builds a small xlsx in memory and wraps it as a multipart
// form with a "file" field.
func workbookUpload(t *testing.T, rows [][]interface{}) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	var wb bytes.Buffer
	if err := f.Write(&wb); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "batch.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(wb.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	return &body, mw.FormDataContentType()
}

// =============================================================================
// ENDPOINT TESTS
// =============================================================================

func TestHealthCheck(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestListBuyers_EmptyLedgerIsEmptyArray(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodGet, "/api/buyers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestBulkUpsertThenList(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{
		{Buyer: "Ramesh", Place: "Gadag", TotalQtls: 15, Commission: 15},
		{Buyer: "Suresh", Place: "Hubli", TotalQtls: 10, Commission: 110},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert status = %d, body = %s", rec.Code, rec.Body.String())
	}

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if len(buyers) != 2 {
		t.Fatalf("got %d buyers, want 2", len(buyers))
	}
	if buyers[0].Buyer != "Ramesh" || buyers[0].Commission != 15 {
		t.Errorf("first buyer = %+v", buyers[0])
	}
}

func TestBulkUpsert_RejectsBlankBuyer(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{{Place: "Gadag"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateBuyerPayment(t *testing.T) {
	h := setupRouter(t)

	doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{
		{Buyer: "Ramesh", TotalQtls: 15, Commission: 15},
	})

	rec := doJSON(t, h, http.MethodPatch, "/api/buyers/Ramesh", types.PaymentUpdate{
		ReceivedAmount: "5000", PaymentMode: "RTGS",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", rec.Code, rec.Body.String())
	}

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if buyers[0].ReceivedAmount != "5000" || buyers[0].PaymentMode != "RTGS" {
		t.Errorf("payment fields = %+v", buyers[0])
	}
}

func TestUpdateBuyerPayment_UnknownBuyer(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodPatch, "/api/buyers/Nobody", types.PaymentUpdate{PaymentMode: "Cash"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteAllBuyers(t *testing.T) {
	h := setupRouter(t)

	doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{{Buyer: "Ramesh"}})
	rec := doJSON(t, h, http.MethodDelete, "/api/buyers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	if got := strings.TrimSpace(doJSON(t, h, http.MethodGet, "/api/buyers", nil).Body.String()); got != "[]" {
		t.Errorf("ledger after delete = %q, want []", got)
	}
}

func TestImportSpreadsheet_Multipart(t *testing.T) {
	h := setupRouter(t)

	body, contentType := workbookUpload(t, [][]interface{}{
		{"Buyer Name", "Qtls", "Amount", "Miller Name", "Place", "Payment Date"},
		{"Ramesh", 10, 1000, "Nidhi Agro Traders", "Gadag", "2024-03-05"},
		{"Ramesh", 5, 500, "Nidhi Agro Traders", "Gadag", "2024-03-05"},
		{"Gita", 3, 200, "Nihi Agro Mills", "Hubli", ""},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		BatchID     string               `json:"batchId"`
		RowsIn      int                  `json:"rowsIn"`
		RowsSkipped int                  `json:"rowsSkipped"`
		Buyers      []types.BuyerSummary `json:"buyers"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BatchID == "" {
		t.Error("batchId missing")
	}
	if resp.RowsIn != 3 || resp.RowsSkipped != 0 {
		t.Errorf("rowsIn = %d, rowsSkipped = %d", resp.RowsIn, resp.RowsSkipped)
	}
	if len(resp.Buyers) != 2 {
		t.Fatalf("got %d buyers, want 2", len(resp.Buyers))
	}
	if resp.Buyers[0].Buyer != "Ramesh" || resp.Buyers[0].TotalQtls != 15 || resp.Buyers[0].Commission != 15 {
		t.Errorf("Ramesh = %+v", resp.Buyers[0])
	}
	if resp.Buyers[1].Buyer != "Gita" || resp.Buyers[1].Commission != 2 {
		t.Errorf("Gita = %+v", resp.Buyers[1])
	}

	// And the result is persisted.
	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if len(buyers) != 2 {
		t.Errorf("persisted %d buyers, want 2", len(buyers))
	}
}

func TestImportSpreadsheet_JSONRows(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/import", []map[string]any{
		{"Buyer": "Suresh", "Qtls": 10, "Amount": 1000, "Miller": "SLN Traders"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if len(buyers) != 1 || buyers[0].Commission != 110 {
		t.Errorf("buyers = %+v", buyers)
	}
}

func TestImportSpreadsheet_JSONRowsWithCharsetParam(t *testing.T) {
	h := setupRouter(t)

	var buf bytes.Buffer
	body := []map[string]any{
		{"Buyer": "Suresh", "Qtls": 10, "Amount": 1000, "Miller": "SLN Traders"},
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if len(buyers) != 1 || buyers[0].Commission != 110 {
		t.Errorf("buyers = %+v", buyers)
	}
}

func TestImportSpreadsheet_JSONRowsBadCell(t *testing.T) {
	h := setupRouter(t)

	rec := doJSON(t, h, http.MethodPost, "/api/import", []map[string]any{
		{"Buyer": "Suresh", "Qtls": map[string]any{"nested": true}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestImportSpreadsheet_ReplaceClearsLedger(t *testing.T) {
	h := setupRouter(t)

	doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{{Buyer: "Old", TotalQtls: 1}})

	rec := doJSON(t, h, http.MethodPost, "/api/import?replace=true", []map[string]any{
		{"Buyer": "New", "Qtls": 2, "Amount": 100, "Miller": "SLN Traders"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body.String())
	}

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if len(buyers) != 1 || buyers[0].Buyer != "New" {
		t.Errorf("buyers = %+v, want only New", buyers)
	}
}

func TestImportPreservesManualPaymentFields(t *testing.T) {
	h := setupRouter(t)

	doJSON(t, h, http.MethodPost, "/api/import", []map[string]any{
		{"Buyer": "Ramesh", "Qtls": 10, "Amount": 1000, "Miller": "SLN Traders"},
	})
	doJSON(t, h, http.MethodPatch, "/api/buyers/Ramesh", types.PaymentUpdate{
		ReceivedAmount: "5000", PaymentMode: "Cash",
	})

	// Re-import with new figures.
	doJSON(t, h, http.MethodPost, "/api/import", []map[string]any{
		{"Buyer": "Ramesh", "Qtls": 20, "Amount": 2000, "Miller": "SLN Traders"},
	})

	buyers := decodeBuyers(t, doJSON(t, h, http.MethodGet, "/api/buyers", nil))
	if buyers[0].TotalQtls != 20 {
		t.Errorf("TotalQtls = %v, want overwritten 20", buyers[0].TotalQtls)
	}
	if buyers[0].ReceivedAmount != "5000" || buyers[0].PaymentMode != "Cash" {
		t.Errorf("manual fields lost: %+v", buyers[0])
	}
}

func TestExportBuyers(t *testing.T) {
	h := setupRouter(t)

	doJSON(t, h, http.MethodPost, "/api/buyers", []types.BuyerSummary{
		{Buyer: "Ramesh", Place: "Gadag", TotalQtls: 15, Commission: 15},
		{Buyer: "Suresh", Place: "Hubli", TotalQtls: 10, Commission: 110},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/buyers/export?place=Hubli", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "buyers_summary_Hubli.xlsx") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("reopen export: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Buyers")
	if err != nil {
		t.Fatalf("read export rows: %v", err)
	}
	if len(rows) != 2 || rows[1][1] != "Suresh" {
		t.Errorf("export rows = %v", rows)
	}
}
