package migration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"pfx/internal/config"
)

// DatabaseManager manages the per-worker test databases
type DatabaseManager struct {
	config *config.Config
}

// NewDatabaseManager creates a new DatabaseManager
func NewDatabaseManager(cfg *config.Config) *DatabaseManager {
	return &DatabaseManager{config: cfg}
}

// EnsureDatabases checks that a test database exists for every worker and
// creates missing ones. Returns the worker ids with a usable database.
func (dm *DatabaseManager) EnsureDatabases(workerCount int) ([]int, error) {
	// .env might not exist, environment variables still apply
	envPath := filepath.Join(dm.config.ProjectPath, ".env")
	_ = godotenv.Load(envPath)

	host := envOr("DB_HOST", "127.0.0.1")
	port := envOr("DB_PORT", "3306")
	user := envOr("DB_USERNAME", "root")
	password := os.Getenv("DB_PASSWORD")

	// Connect to the server itself, not a particular database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", user, password, host, port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}

	workers := make([]int, 0, workerCount)
	for i := 1; i <= workerCount; i++ {
		dbName := dm.config.GetDatabaseName(i)

		exists, err := dm.databaseExists(db, dbName)
		if err != nil {
			return nil, fmt.Errorf("failed to check database %s: %w", dbName, err)
		}
		if !exists {
			if err := dm.createDatabase(db, dbName); err != nil {
				return nil, fmt.Errorf("failed to create database %s: %w", dbName, err)
			}
		}

		workers = append(workers, i)
	}

	return workers, nil
}

func (dm *DatabaseManager) databaseExists(db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRow(query, dbName).Scan(&exists)
	return exists, err
}

func (dm *DatabaseManager) createDatabase(db *sql.DB, dbName string) error {
	if !isValidDatabaseName(dbName) {
		return fmt.Errorf("invalid database name: %s", dbName)
	}
	_, err := db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", dbName))
	return err
}

// isValidDatabaseName keeps interpolated identifiers out of SQL injection
// territory; names come from config but are checked anyway.
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return !strings.HasPrefix(name, "_")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
