package db

import "fmt"

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}

	migrations := []func(*DB) error{
		migrateV1,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE deployments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_name TEXT NOT NULL,
			link_method INTEGER NOT NULL,
			deployed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE deployed_files (
			file_name TEXT PRIMARY KEY,
			deployment_id INTEGER NOT NULL REFERENCES deployments(id) ON DELETE CASCADE,
			hash TEXT NOT NULL,
			patch_index INTEGER NOT NULL,
			role INTEGER NOT NULL,
			mod_guid TEXT NOT NULL,
			source_path TEXT NOT NULL
		)`,
		`CREATE INDEX idx_deployed_files_hash ON deployed_files(hash, patch_index)`,
	}

	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}
