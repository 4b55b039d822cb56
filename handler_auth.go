package main

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const sessionCookie = "prodscan_session"

// sessionTTL is how long an operator stays signed in; the auth middleware
// slides the window on activity.
const sessionTTL = 24 * time.Hour

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// createSession issues a fresh token for the user. Token collisions are
// possible in theory (the token column is the primary key), so the insert
// retries with a new token instead of failing the login.
func createSession(userID int) (token string, expires time.Time, err error) {
	expires = time.Now().Add(sessionTTL)
	for attempt := 0; attempt < 3; attempt++ {
		token = generateToken()
		_, err = db.Exec("INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
			token, userID, expires.Format("2006-01-02 15:04:05"))
		if err == nil {
			return token, expires, nil
		}
	}
	return "", expires, err
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Invalid request body", 400)
		return
	}

	var id, active int
	var passwordHash, displayName, role string
	err := db.QueryRow("SELECT id, password_hash, COALESCE(display_name, ''), role, active FROM users WHERE username = ?",
		req.Username).Scan(&id, &passwordHash, &displayName, &role, &active)
	// Unknown user and wrong password produce the same answer.
	if err != nil || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		jsonErr(w, "Invalid username or password", 401)
		return
	}
	if active == 0 {
		jsonErr(w, "Account deactivated", 403)
		return
	}

	db.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP")

	token, expires, err := createSession(id)
	if err != nil {
		jsonErr(w, "Failed to create session", 500)
		return
	}
	db.Exec("UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", id)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
	jsonResp(w, map[string]interface{}{
		"user": UserResponse{ID: id, Username: req.Username, DisplayName: displayName, Role: role},
	})
}

func handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		db.Exec("DELETE FROM sessions WHERE token = ?", cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	jsonResp(w, map[string]string{"status": "ok"})
}

func handleMe(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		jsonErr(w, "Unauthorized", 401)
		return
	}

	var u UserResponse
	err = db.QueryRow(`SELECT u.id, u.username, COALESCE(u.display_name, ''), u.role
		FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP`, cookie.Value).
		Scan(&u.ID, &u.Username, &u.DisplayName, &u.Role)
	if err != nil {
		jsonErr(w, "Unauthorized", 401)
		return
	}
	jsonResp(w, map[string]interface{}{"user": u})
}

// handleListUsers lists operator accounts. Admin only; the auth
// middleware has already verified the session itself.
func handleListUsers(w http.ResponseWriter, r *http.Request) {
	if currentRole(r) != "admin" {
		jsonErr(w, "Forbidden", 403)
		return
	}

	rows, err := db.Query("SELECT id, username, display_name, role FROM users ORDER BY username")
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}
	defer rows.Close()

	users := []UserResponse{}
	for rows.Next() {
		var u UserResponse
		var displayName sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &displayName, &u.Role); err != nil {
			jsonErr(w, err.Error(), 500)
			return
		}
		u.DisplayName = displayName.String
		users = append(users, u)
	}
	jsonResp(w, map[string]interface{}{"users": users})
}

func currentRole(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	var role string
	err = db.QueryRow(`SELECT u.role FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP`, cookie.Value).Scan(&role)
	if err != nil {
		return ""
	}
	return role
}

// currentUsername resolves the operator behind a request. Headless scan
// stations carry no session and are attributed to the system actor.
func currentUsername(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return systemActor
	}
	var username string
	err = db.QueryRow(`SELECT u.username FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > CURRENT_TIMESTAMP`, cookie.Value).Scan(&username)
	if err != nil {
		return systemActor
	}
	return username
}

func generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
