package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// BarcodeRequest is the body of POST /api/process-barcode.
type BarcodeRequest struct {
	Barcode string `json:"barcode"`
}

// resolver handles one barcode kind. The classifier picks which one runs;
// each returns a complete response, failures included — nothing panics
// across this boundary.
type resolver interface {
	resolve(value, username string) ScanResponse
}

func resolverFor(kind BarcodeKind) resolver {
	switch kind {
	case KindUnit, KindLegacyUnit:
		return unitResolver{}
	case KindMaterial:
		return materialResolver{}
	case KindSet:
		return setResolver{}
	case KindOrder, KindLegacyOrder:
		return orderResolver{}
	}
	return nil
}

func handleProcessBarcode(w http.ResponseWriter, r *http.Request) {
	var req BarcodeRequest
	if err := decodeBody(r, &req); err != nil {
		writeScanResponse(w, failResponse("Invalid request body", "Error. Invalid request"))
		return
	}

	resp := processBarcode(req.Barcode, currentUsername(r))
	writeScanResponse(w, resp)
}

// processBarcode runs the full scan pipeline: classify, resolve, audit,
// broadcast. Unexpected faults are caught here and become a generic
// failure response instead of a 500.
func processBarcode(raw, username string) (resp ScanResponse) {
	ref := classifyBarcode(raw)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("scan %q: panic: %v", raw, rec)
			resp = failResponse("Unexpected error while processing barcode", "Unknown error")
		}
		logScan(raw, ref.Kind.String(), resp, username)
		broadcastScan(raw, ref.Kind.String(), resp)
	}()

	if ref.Kind == KindUnknown {
		return failResponse("Unrecognized barcode format", "Error. Unrecognized barcode format")
	}
	return resolverFor(ref.Kind).resolve(ref.Value, username)
}

func writeScanResponse(w http.ResponseWriter, resp ScanResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func failResponse(message, voice string) ScanResponse {
	return ScanResponse{Success: false, Message: message, VoiceMessage: voice}
}

// dbFailResponse is the generic persistence-failure response; the real
// error goes to the log, not to the scan station.
func dbFailResponse(op string, err error) ScanResponse {
	log.Printf("scan: %s: %v", op, err)
	return failResponse("Database error", "Database error")
}

// formatApprovedAt renders a stored timestamp the way the shop floor
// reads dates. Unparseable values pass through unchanged.
func formatApprovedAt(ts string) string {
	t, err := time.Parse("2006-01-02 15:04:05", ts)
	if err != nil {
		return ts
	}
	return t.Format("02.01.2006 15:04")
}

// attachOrderTotals fills the running completion counters in. Best
// effort: a failed aggregate never fails the scan that triggered it.
func attachOrderTotals(info *ProductInfo, orderID int) {
	totals, err := getOrderTotals(orderID)
	if err != nil {
		log.Printf("order totals for %d: %v", orderID, err)
		return
	}
	info.TotalItemsInOrder = &totals.Total
	info.ApprovedItemsInOrder = &totals.Approved
}
