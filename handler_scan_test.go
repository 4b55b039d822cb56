package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProcessBarcodeUnknownFormat(t *testing.T) {
	setupTestDB(t)

	resp := scanBarcode(t, "???")
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Message != "Unrecognized barcode format" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.ProductInfo != nil {
		t.Error("unknown barcode should carry no product info")
	}
}

func TestProcessBarcodeInvalidBody(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest("POST", "/api/process-barcode", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handleProcessBarcode(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, scan failures are always 200", rr.Code)
	}
	var resp ScanResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Success || resp.Message != "Invalid request body" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestProcessBarcodeEmptyBarcode(t *testing.T) {
	setupTestDB(t)

	resp := scanBarcode(t, "")
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Message != "Unrecognized barcode format" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

// Every scan lands in the audit log, failures included.
func TestScanAuditLog(t *testing.T) {
	setupTestDB(t)

	scanBarcode(t, "???")
	scanBarcode(t, "T-12345")

	rows, err := db.Query("SELECT barcode, kind, success, message FROM scan_log ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	type logRow struct {
		barcode, kind, message string
		success                int
	}
	var got []logRow
	for rows.Next() {
		var r logRow
		if err := rows.Scan(&r.barcode, &r.kind, &r.success, &r.message); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(got))
	}
	if got[0].barcode != "???" || got[0].kind != "unknown" || got[0].success != 0 {
		t.Errorf("unexpected first audit row: %+v", got[0])
	}
	if got[1].kind != "material" || got[1].success != 0 {
		t.Errorf("unexpected second audit row: %+v", got[1])
	}
}

func TestRecentScansEndpoint(t *testing.T) {
	setupTestDB(t)

	for i := 0; i < 3; i++ {
		scanBarcode(t, "???")
	}

	req := httptest.NewRequest("GET", "/api/scans?limit=2", nil)
	rr := httptest.NewRecorder()
	handleRecentScans(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp struct {
		Scans []ScanLogEntry `json:"scans"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Scans) != 2 {
		t.Errorf("limit ignored: got %d scans", len(resp.Scans))
	}
	if len(resp.Scans) > 0 && resp.Scans[0].Barcode != "???" {
		t.Errorf("unexpected scan row: %+v", resp.Scans[0])
	}
}

func TestHealthEndpoint(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || !resp.DatabaseConnected {
		t.Errorf("unexpected health response: %+v", resp)
	}
	if resp.APIVersion != apiVersion {
		t.Errorf("api version = %q", resp.APIVersion)
	}
}
