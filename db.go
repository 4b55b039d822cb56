package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

var db *sql.DB

func initDB(path string) error {
	// Close previous connection if any (prevents goroutine leaks in tests)
	if db != nil {
		db.Close()
	}
	var err error
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err = sql.Open("sqlite", path+sep+"_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1")
	if err != nil {
		return err
	}

	// SQLite handles 1 writer + multiple readers with WAL mode
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	// Explicitly set WAL mode (some drivers don't parse connection string params correctly)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	return runMigrations()
}

func runMigrations() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS order_states (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_no TEXT NOT NULL,
			production_date DATE,
			state_id INTEGER DEFAULT 1,
			comment TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (state_id) REFERENCES order_states(id)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			qty INTEGER NOT NULL DEFAULT 1 CHECK(qty > 0),
			system_type TEXT DEFAULT 'pvh' CHECK(system_type IN ('pvh','sliding')),
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS models (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_item_id INTEGER NOT NULL,
			seq_no INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (order_item_id) REFERENCES order_items(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS elements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model_id INTEGER NOT NULL,
			type_id INTEGER NOT NULL DEFAULT 2,
			material_id INTEGER,
			set_id INTEGER,
			name TEXT DEFAULT '',
			width INTEGER,
			height INTEGER,
			FOREIGN KEY (model_id) REFERENCES models(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS warehouse_details (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			element_id INTEGER NOT NULL,
			item_no INTEGER NOT NULL DEFAULT 1,
			qty REAL NOT NULL DEFAULT 1,
			is_approved INTEGER NOT NULL DEFAULT 0,
			approved_at DATETIME,
			approved_by TEXT DEFAULT '',
			FOREIGN KEY (element_id) REFERENCES elements(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS order_state_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			order_id INTEGER NOT NULL,
			state_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			actor TEXT DEFAULT 'system',
			reason TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(order_id, position),
			FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
			FOREIGN KEY (state_id) REFERENCES order_states(id)
		)`,
		`CREATE TABLE IF NOT EXISTS scan_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			barcode TEXT NOT NULL,
			kind TEXT NOT NULL,
			success INTEGER NOT NULL DEFAULT 0,
			message TEXT DEFAULT '',
			username TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT,
			role TEXT DEFAULT 'user',
			active INTEGER DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			last_login DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
	}
	for _, t := range tables {
		if _, err := db.Exec(t); err != nil {
			return fmt.Errorf("migration error: %w\nSQL: %s", err, t)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_orders_order_no ON orders(order_no)",
		"CREATE INDEX IF NOT EXISTS idx_orders_production_date ON orders(production_date)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_name ON order_items(name)",
		"CREATE INDEX IF NOT EXISTS idx_models_order_item_id ON models(order_item_id)",
		"CREATE INDEX IF NOT EXISTS idx_elements_model_id ON elements(model_id)",
		"CREATE INDEX IF NOT EXISTS idx_elements_material_id ON elements(material_id)",
		"CREATE INDEX IF NOT EXISTS idx_elements_set_id ON elements(set_id)",
		"CREATE INDEX IF NOT EXISTS idx_warehouse_details_element_id ON warehouse_details(element_id)",
		"CREATE INDEX IF NOT EXISTS idx_warehouse_details_item_no ON warehouse_details(item_no)",
		"CREATE INDEX IF NOT EXISTS idx_order_state_log_order_id ON order_state_log(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_scan_log_created_at ON scan_log(created_at)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)",
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("index creation: %w\nSQL: %s", err, idx)
		}
	}

	return nil
}

func seedDB() {
	// Workflow states: 4 and 5 are fixed codes, see internal/models.
	states := map[int]string{
		1: "Draft",
		2: "In progress",
		4: "Ready",
		5: "Shipped",
	}
	for id, name := range states {
		db.Exec("INSERT OR IGNORE INTO order_states (id, name) VALUES (?, ?)", id, name)
	}

	// Always ensure admin user exists
	var userCount int
	db.QueryRow("SELECT COUNT(*) FROM users WHERE username = 'admin'").Scan(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Failed to hash admin password: %v", err)
		} else {
			db.Exec("INSERT INTO users (username, password_hash, display_name, role) VALUES (?, ?, ?, ?)",
				"admin", string(hash), "Administrator", "admin")
		}
	}
}
