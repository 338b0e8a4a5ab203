package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"pfx/internal/config"
)

// DatabaseInvalidator deletes cache rows from the cache table in a worker's
// test database. Connection details come from the project's .env file or the
// process environment, the same way the migration tooling reads them.
type DatabaseInvalidator struct {
	config   *config.Config
	workerID int

	once sync.Once
	db   *sql.DB
	err  error
}

// NewDatabaseInvalidator creates a DatabaseInvalidator for one worker
func NewDatabaseInvalidator(cfg *config.Config, workerID int) *DatabaseInvalidator {
	return &DatabaseInvalidator{config: cfg, workerID: workerID}
}

// Invalidate deletes every cache row whose key starts with the cache name
func (d *DatabaseInvalidator) Invalidate(name string) error {
	db, err := d.connect()
	if err != nil {
		return err
	}
	_, err = db.Exec("DELETE FROM `cache` WHERE `key` LIKE ?", name+"%")
	if err != nil {
		return fmt.Errorf("invalidate cache %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (d *DatabaseInvalidator) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *DatabaseInvalidator) connect() (*sql.DB, error) {
	d.once.Do(func() {
		// .env might not exist, environment variables still apply
		envPath := filepath.Join(d.config.ProjectPath, ".env")
		_ = godotenv.Load(envPath)

		host := envOr("DB_HOST", "127.0.0.1")
		port := envOr("DB_PORT", "3306")
		user := envOr("DB_USERNAME", "root")
		password := os.Getenv("DB_PASSWORD")

		dbName := d.config.GetDatabaseName(d.workerID)
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", user, password, host, port, dbName)

		db, err := sql.Open("mysql", dsn)
		if err != nil {
			d.err = fmt.Errorf("connect to %s: %w", dbName, err)
			return
		}
		d.db = db
	})
	return d.db, d.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
