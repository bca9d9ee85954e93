package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
)

// Applies scripts/init_db.sql against POSTGRES_DSN (or the first argument)
// and verifies the tables exist. Safe to rerun; the script only creates.
func main() {
	dsn := os.Getenv("POSTGRES_DSN")
	if len(os.Args) > 1 {
		dsn = os.Args[1]
	}
	if dsn == "" {
		log.Fatal("POSTGRES_DSN not set and no DSN argument given")
	}

	fmt.Printf("connecting to %s\n", maskPassword(dsn))

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	script, err := os.ReadFile("scripts/init_db.sql")
	if err != nil {
		log.Fatalf("read init_db.sql: %v", err)
	}

	if _, err := db.Exec(string(script)); err != nil {
		log.Fatalf("execute init_db.sql: %v", err)
	}

	tables := []string{"users", "boards", "board_members", "board_columns", "tasks", "task_logs"}
	for _, table := range tables {
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)",
			table,
		).Scan(&exists)
		if err != nil || !exists {
			log.Fatalf("table %s missing after init", table)
		}
		fmt.Printf("table %s ok\n", table)
	}

	fmt.Println("database initialized")
}

func maskPassword(dsn string) string {
	at := strings.Index(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon != -1 {
		return dsn[:scheme+3] + creds[:colon] + ":****" + dsn[at:]
	}
	return dsn
}
