package migration

// Migrator prepares the worker test databases by running the project's
// migrations (fixtures assume a migrated schema).
type Migrator interface {
	Run(workerCount int, noFresh bool) error
}
