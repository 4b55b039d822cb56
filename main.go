package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
)

func main() {
	configPath := flag.String("config", "prodscan.yaml", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg := loadConfig(*configPath)
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := initDB(cfg.Database.Path); err != nil {
		log.Fatal("DB init failed:", err)
	}
	seedDB()

	mux := http.NewServeMux()

	// Health probe doubles as the root endpoint so scan stations can
	// point at the bare host.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		handleHealth(w, r)
	})
	mux.HandleFunc("/health", handleHealth)

	// Auth routes
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			handleLogin(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			handleLogout(w, r)
		} else {
			http.Error(w, "Method not allowed", 405)
		}
	})
	mux.HandleFunc("/auth/me", handleMe)

	// API routes - using a simple router
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		path = strings.TrimSuffix(path, "/")

		switch {
		case path == "process-barcode" && r.Method == "POST":
			handleProcessBarcode(w, r)
		case path == "statistics/daily" && r.Method == "GET":
			handleDailyStatistics(w, r)
		case path == "statistics/orders" && r.Method == "GET":
			handleOrderStatistics(w, r)
		case path == "statistics/export" && r.Method == "GET":
			handleExportStatistics(w, r)
		case path == "scans" && r.Method == "GET":
			handleRecentScans(w, r)
		case path == "users" && r.Method == "GET":
			handleListUsers(w, r)
		default:
			jsonErr(w, "Not found", 404)
		}
	})

	// WebSocket for live scan feed
	mux.HandleFunc("/ws", handleWebSocket)

	handler := logging(requireAuth(mux))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Listening on %s (db %s)", addr, cfg.Database.Path)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func jsonResp(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
