// equipd is a small development backend for topoview. It implements the
// equipment/connection service contract against a local SQLite file so the
// canvas can be exercised end to end without the production service.
package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// listRevision bumps whenever equipment list membership changes, unless the
// caller asked to skip invalidation. Polling clients use it to decide
// whether a refetch is worthwhile.
var listRevision atomic.Int64

type Equipment struct {
	ID     string  `json:"id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Status string  `json:"status"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	IP     string  `json:"ip,omitempty"`
	Area   string  `json:"area,omitempty"`
}

type Connection struct {
	ID           string `json:"id"`
	FromID       string `json:"fromId"`
	ToID         string `json:"toId"`
	Type         string `json:"type"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type PositionUpdate struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func main() {
	dbPath := parseDbPath()
	port := parsePort()

	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := initSchema(); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	r := mux.NewRouter()
	r.Use(requestLoggerMiddleware)

	r.HandleFunc("/health", healthHandler).Methods("GET")
	r.HandleFunc("/equipment", listEquipmentHandler).Methods("GET")
	r.HandleFunc("/equipment/positions", bulkPositionsHandler).Methods("POST")
	r.HandleFunc("/equipment/{id}", updateEquipmentHandler).Methods("PATCH")
	r.HandleFunc("/connections", listConnectionsHandler).Methods("GET")
	r.HandleFunc("/connections", createConnectionHandler).Methods("POST")
	r.HandleFunc("/connections/{id}", deleteConnectionHandler).Methods("DELETE")

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("equipd listening on http://localhost%s (db: %s)\n", addr, dbPath)
	log.Fatal(http.ListenAndServe(addr, r))
}

func initSchema() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS equipment (
			id      TEXT PRIMARY KEY,
			code    TEXT NOT NULL,
			name    TEXT NOT NULL,
			type    TEXT NOT NULL,
			status  TEXT NOT NULL,
			x       REAL NOT NULL DEFAULT 0,
			y       REAL NOT NULL DEFAULT 0,
			ip      TEXT NOT NULL DEFAULT '',
			area    TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS connections (
			id            TEXT PRIMARY KEY,
			from_id       TEXT NOT NULL,
			to_id         TEXT NOT NULL,
			type          TEXT NOT NULL,
			source_handle TEXT NOT NULL DEFAULT '',
			target_handle TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return err
	}
	return seedIfEmpty()
}

// seedIfEmpty loads a small demo line so a fresh database shows something.
func seedIfEmpty() error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM equipment`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := []Equipment{
		{ID: "eq-001", Code: "CNC-01", Name: "CNC mill 1", Type: "machine", Status: "running", X: 300, Y: 200, Area: "hall-a"},
		{ID: "eq-002", Code: "CNV-01", Name: "Main conveyor", Type: "conveyor", Status: "running", X: 700, Y: 200, Area: "hall-a"},
		{ID: "eq-003", Code: "ROB-01", Name: "Pick robot", Type: "robot", Status: "idle", X: 1100, Y: 200, Area: "hall-a"},
		{ID: "eq-004", Code: "INS-01", Name: "Vision check", Type: "inspection", Status: "maintenance", Area: "hall-a"},
		{ID: "eq-005", Code: "STO-01", Name: "Buffer store", Type: "storage", Status: "running", Area: "hall-a"},
	}
	for _, e := range seed {
		_, err := db.Exec(
			`INSERT INTO equipment (id, code, name, type, status, x, y, ip, area) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Code, e.Name, e.Type, e.Status, e.X, e.Y, e.IP, e.Area,
		)
		if err != nil {
			return err
		}
	}
	_, err := db.Exec(
		`INSERT INTO connections (id, from_id, to_id, type, source_handle, target_handle) VALUES (?, ?, ?, ?, ?, ?)`,
		"conn-001", "eq-001", "eq-002", "material", "right", "left",
	)
	return err
}

func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		fmt.Printf("[%s] %s %s - %d - %dms\n",
			time.Now().Format(time.RFC3339),
			r.Method, r.URL.Path, rw.statusCode, time.Since(start).Milliseconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"revision": listRevision.Load(),
	})
}

func listEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, code, name, type, status, x, y, ip, area FROM equipment`
	var args []interface{}
	if area := r.URL.Query().Get("area"); area != "" {
		query += ` WHERE area = ?`
		args = append(args, area)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "query failed")
		return
	}
	defer rows.Close()

	list := []Equipment{}
	for rows.Next() {
		var e Equipment
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Type, &e.Status, &e.X, &e.Y, &e.IP, &e.Area); err != nil {
			jsonError(w, http.StatusInternalServerError, "scan failed")
			return
		}
		list = append(list, e)
	}
	jsonResponse(w, http.StatusOK, list)
}

// updateEquipmentHandler applies a partial position update to one record.
// With ?skipInvalidation=1 the list revision stays put, which callers use
// for high-frequency updates no other view needs to observe.
func updateEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.X == nil || body.Y == nil {
		jsonError(w, http.StatusBadRequest, "x and y are required")
		return
	}

	res, err := db.Exec(`UPDATE equipment SET x = ?, y = ? WHERE id = ?`, *body.X, *body.Y, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "update failed")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonError(w, http.StatusNotFound, "equipment not found")
		return
	}
	if r.URL.Query().Get("skipInvalidation") == "" {
		listRevision.Add(1)
	}

	var e Equipment
	err = db.QueryRow(`SELECT id, code, name, type, status, x, y, ip, area FROM equipment WHERE id = ?`, id).
		Scan(&e.ID, &e.Code, &e.Name, &e.Type, &e.Status, &e.X, &e.Y, &e.IP, &e.Area)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "reload failed")
		return
	}
	jsonResponse(w, http.StatusOK, e)
}

// bulkPositionsHandler applies a batch of position updates in one
// transaction: all of them land or none do.
func bulkPositionsHandler(w http.ResponseWriter, r *http.Request) {
	var updates []PositionUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(updates) == 0 {
		jsonResponse(w, http.StatusOK, map[string]interface{}{"updated": 0})
		return
	}

	tx, err := db.Begin()
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "begin failed")
		return
	}
	for _, u := range updates {
		res, err := tx.Exec(`UPDATE equipment SET x = ?, y = ? WHERE id = ?`, u.X, u.Y, u.ID)
		if err != nil {
			tx.Rollback()
			jsonError(w, http.StatusInternalServerError, "update failed")
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			tx.Rollback()
			jsonError(w, http.StatusNotFound, fmt.Sprintf("equipment %s not found", u.ID))
			return
		}
	}
	if err := tx.Commit(); err != nil {
		jsonError(w, http.StatusInternalServerError, "commit failed")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{"updated": len(updates)})
}

func listConnectionsHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := db.Query(`SELECT id, from_id, to_id, type, source_handle, target_handle FROM connections`)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "query failed")
		return
	}
	defer rows.Close()

	list := []Connection{}
	for rows.Next() {
		var c Connection
		if err := rows.Scan(&c.ID, &c.FromID, &c.ToID, &c.Type, &c.SourceHandle, &c.TargetHandle); err != nil {
			jsonError(w, http.StatusInternalServerError, "scan failed")
			return
		}
		list = append(list, c)
	}
	jsonResponse(w, http.StatusOK, list)
}

func createConnectionHandler(w http.ResponseWriter, r *http.Request) {
	var c Connection
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if c.FromID == "" || c.ToID == "" {
		jsonError(w, http.StatusBadRequest, "fromId and toId are required")
		return
	}
	if c.FromID == c.ToID {
		jsonError(w, http.StatusBadRequest, "cannot connect equipment to itself")
		return
	}

	c.ID = fmt.Sprintf("conn-%d", time.Now().UnixNano())
	_, err := db.Exec(
		`INSERT INTO connections (id, from_id, to_id, type, source_handle, target_handle) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.FromID, c.ToID, c.Type, c.SourceHandle, c.TargetHandle,
	)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "insert failed")
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

func deleteConnectionHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	res, err := db.Exec(`DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		jsonError(w, http.StatusNotFound, "connection not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func jsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, statusCode int, message string) {
	jsonResponse(w, statusCode, map[string]string{"error": message})
}

func parseDbPath() string {
	args := os.Args[1:]
	for i, arg := range args {
		if arg == "--db-path" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > 10 && arg[:10] == "--db-path=" {
			return arg[10:]
		}
	}
	return "equipd.db"
}

func parsePort() int {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		return 3000
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 3000
	}
	return port
}
