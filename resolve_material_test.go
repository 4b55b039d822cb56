package main

import (
	"strings"
	"testing"

	"prodscan/internal/models"
)

// seedMaterialFixture hangs a filler element (type 3, material 900) off a
// one-model construction.
func seedMaterialFixture(t *testing.T) (orderID, detailID int) {
	t.Helper()
	orderID = createTestOrder(t, "20001", "2026-08-21", models.StateInProgress)
	_, modelIDs := createTestConstruction(t, orderID, "01", 1, "pvh", 1)
	el := createTestElement(t, modelIDs[0], 3, intPtr(900), nil, "Sill 300", intPtr(300), nil)
	detailID = createTestDetail(t, el, 1, 1)
	return orderID, detailID
}

func TestMaterialScanApproves(t *testing.T) {
	setupTestDB(t)
	_, detailID := seedMaterialFixture(t)

	resp := scanBarcode(t, "T-900")
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Message)
	}
	if resp.Message != "Material successfully approved" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.ProductInfo == nil || resp.ProductInfo.OrderNumber != "20001" {
		t.Errorf("missing order enrichment: %+v", resp.ProductInfo)
	}
	if resp.ProductInfo.ProductionDate != "2026-08-21" {
		t.Errorf("production date = %q, want plain 2026-08-21", resp.ProductInfo.ProductionDate)
	}
	if resp.ProductInfo.ElementName != "Sill 300" {
		t.Errorf("wrong element name: %q", resp.ProductInfo.ElementName)
	}

	var approved int
	db.QueryRow("SELECT is_approved FROM warehouse_details WHERE id = ?", detailID).Scan(&approved)
	if approved != 1 {
		t.Error("warehouse row not approved")
	}
}

func TestMaterialScanRepeat(t *testing.T) {
	setupTestDB(t)
	seedMaterialFixture(t)

	if resp := scanBarcode(t, "ITM-900"); !resp.Success {
		t.Fatalf("first scan failed: %q", resp.Message)
	}
	resp := scanBarcode(t, "T-900")
	if resp.Success {
		t.Fatal("repeat scan must not report success")
	}
	if !strings.HasPrefix(resp.Message, "Material already marked as ready") {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestMaterialScanNotFound(t *testing.T) {
	setupTestDB(t)
	seedMaterialFixture(t)

	resp := scanBarcode(t, "T-901")
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Message != "Material 901 not found" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.VoiceMessage != "Material not found" {
		t.Errorf("unexpected voice message: %q", resp.VoiceMessage)
	}

	var n int
	db.QueryRow("SELECT COUNT(*) FROM warehouse_details WHERE is_approved = 1").Scan(&n)
	if n != 0 {
		t.Errorf("failed scan mutated %d warehouse rows", n)
	}
}

func TestMaterialScanNonNumeric(t *testing.T) {
	setupTestDB(t)

	resp := scanBarcode(t, "T-ABC")
	if resp.Success {
		t.Fatal("expected failure")
	}
	if resp.Message != "Invalid material barcode" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

// Material approvals sit outside completion accounting: even when the
// material is the last unapproved row, the order must not advance.
func TestMaterialScanNeverCompletesOrder(t *testing.T) {
	setupTestDB(t)
	orderID, _ := seedMaterialFixture(t)

	if resp := scanBarcode(t, "T-900"); !resp.Success {
		t.Fatalf("scan failed: %q", resp.Message)
	}
	if state := orderStateID(t, orderID); state != models.StateInProgress {
		t.Errorf("order state = %d, material scan must not change it", state)
	}
	if n := countStateLog(t, orderID); n != 0 {
		t.Errorf("material scan wrote %d state log rows", n)
	}
}
