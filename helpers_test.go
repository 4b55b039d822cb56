package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB points the global db at a fresh in-memory database with
// the full schema and workflow states.
func setupTestDB(t *testing.T) {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	// :memory: databases are per-connection; keep a single one
	testDB.SetMaxOpenConns(1)

	old := db
	db = testDB
	if err := runMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	states := map[int]string{1: "Draft", 2: "In progress", 4: "Ready", 5: "Shipped"}
	for id, name := range states {
		if _, err := db.Exec("INSERT INTO order_states (id, name) VALUES (?, ?)", id, name); err != nil {
			t.Fatalf("Failed to seed states: %v", err)
		}
	}

	t.Cleanup(func() {
		testDB.Close()
		db = old
	})
}

func createTestOrder(t *testing.T, orderNo, productionDate string, stateID int) int {
	t.Helper()
	res, err := db.Exec("INSERT INTO orders (order_no, production_date, state_id) VALUES (?, ?, ?)",
		orderNo, productionDate, stateID)
	if err != nil {
		t.Fatalf("Failed to insert order: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

// createTestConstruction inserts a unit-producing order item with the
// given number of models and returns the item id and model ids.
func createTestConstruction(t *testing.T, orderID int, name string, qty int, systemType string, numModels int) (int, []int) {
	t.Helper()
	res, err := db.Exec("INSERT INTO order_items (order_id, name, qty, system_type) VALUES (?, ?, ?, ?)",
		orderID, name, qty, systemType)
	if err != nil {
		t.Fatalf("Failed to insert order item: %v", err)
	}
	itemID64, _ := res.LastInsertId()
	itemID := int(itemID64)

	var modelIDs []int
	for seq := 1; seq <= numModels; seq++ {
		res, err := db.Exec("INSERT INTO models (order_item_id, seq_no) VALUES (?, ?)", itemID, seq)
		if err != nil {
			t.Fatalf("Failed to insert model: %v", err)
		}
		mid, _ := res.LastInsertId()
		modelIDs = append(modelIDs, int(mid))
	}
	return itemID, modelIDs
}

// createGlassItem inserts a glass-panel order item with an explicit id so
// it can be referenced from a 9-digit barcode.
func createGlassItem(t *testing.T, id, orderID int, name string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO order_items (id, order_id, name, qty) VALUES (?, ?, ?, 1)",
		id, orderID, name)
	if err != nil {
		t.Fatalf("Failed to insert glass item: %v", err)
	}
}

func createTestElement(t *testing.T, modelID, typeID int, materialID, setID *int, name string, width, height *int) int {
	t.Helper()
	res, err := db.Exec(`INSERT INTO elements (model_id, type_id, material_id, set_id, name, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)`, modelID, typeID, materialID, setID, name, width, height)
	if err != nil {
		t.Fatalf("Failed to insert element: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func createTestDetail(t *testing.T, elementID, itemNo int, qty float64) int {
	t.Helper()
	res, err := db.Exec("INSERT INTO warehouse_details (element_id, item_no, qty) VALUES (?, ?, ?)",
		elementID, itemNo, qty)
	if err != nil {
		t.Fatalf("Failed to insert warehouse detail: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func intPtr(v int) *int { return &v }

// scanBarcode drives the HTTP handler and decodes the response.
func scanBarcode(t *testing.T, barcode string) ScanResponse {
	t.Helper()
	body, _ := json.Marshal(BarcodeRequest{Barcode: barcode})
	req := httptest.NewRequest("POST", "/api/process-barcode", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	handleProcessBarcode(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("process-barcode returned status %d", rr.Code)
	}
	var resp ScanResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode scan response: %v", err)
	}
	return resp
}

func orderStateID(t *testing.T, orderID int) int {
	t.Helper()
	var state int
	if err := db.QueryRow("SELECT state_id FROM orders WHERE id = ?", orderID).Scan(&state); err != nil {
		t.Fatalf("Failed to read order state: %v", err)
	}
	return state
}

func countStateLog(t *testing.T, orderID int) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM order_state_log WHERE order_id = ?", orderID).Scan(&n); err != nil {
		t.Fatalf("Failed to count state log: %v", err)
	}
	return n
}
