package main

import (
	"log"
	"net/http"
	"strconv"
)

// logScan records every processed barcode, whatever the outcome. The
// dashboard reads this back through /api/scans.
func logScan(barcode, kind string, resp ScanResponse, username string) {
	success := 0
	if resp.Success {
		success = 1
	}
	_, err := db.Exec(`INSERT INTO scan_log (barcode, kind, success, message, username)
		VALUES (?, ?, ?, ?, ?)`, barcode, kind, success, resp.Message, username)
	if err != nil {
		log.Printf("scan log insert: %v", err)
	}
}

func handleRecentScans(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	rows, err := db.Query(`SELECT id, barcode, kind, success, message, username, created_at
		FROM scan_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	scans := []ScanLogEntry{}
	for rows.Next() {
		var e ScanLogEntry
		var success int
		if err := rows.Scan(&e.ID, &e.Barcode, &e.Kind, &success, &e.Message, &e.Username, &e.CreatedAt); err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		e.Success = success == 1
		scans = append(scans, e)
	}

	jsonResp(w, map[string]interface{}{"scans": scans})
}
