package main

import (
	"encoding/json"
	"net/http"
)

const apiVersion = "1.0.0"

// handleHealth probes the database with a trivial query. Scan stations
// poll this to decide whether to accept barcode input.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", DatabaseConnected: true, APIVersion: apiVersion}

	var one int
	if err := db.QueryRow("SELECT 1").Scan(&one); err != nil || one != 1 {
		resp.Status = "error"
		resp.DatabaseConnected = false
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
