package main

import (
	"log"
	"net/http"
	"strings"
	"time"
)

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// requireAuth guards the administrative surface. The scan path, health
// probe and statistics stay open: scan stations and the dashboard poller
// run headless without accounts.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" ||
			path == "/health" ||
			path == "/ws" ||
			strings.HasPrefix(path, "/auth/") ||
			path == "/api/process-barcode" ||
			path == "/api/statistics/daily" ||
			path == "/api/statistics/orders" ||
			path == "/api/scans" {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			jsonErr(w, "Unauthorized", 401)
			return
		}

		var userID, active int
		err = db.QueryRow(`SELECT s.user_id, u.active FROM sessions s JOIN users u ON s.user_id = u.id
			WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP`, cookie.Value).Scan(&userID, &active)
		if err != nil {
			jsonErr(w, "Unauthorized", 401)
			return
		}
		if active == 0 {
			jsonErr(w, "Account deactivated", 403)
			return
		}

		// Sliding window: extend session expiry on each authenticated request
		newExpiry := time.Now().Add(sessionTTL)
		db.Exec("UPDATE sessions SET expires_at = ? WHERE token = ?",
			newExpiry.Format("2006-01-02 15:04:05"), cookie.Value)

		next.ServeHTTP(w, r)
	})
}
