package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Detections table - one row per accepted heart
		`CREATE TABLE IF NOT EXISTS detections (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			point_count INTEGER NOT NULL,
			width REAL NOT NULL,
			height REAL NOT NULL,
			aspect REAL NOT NULL,
			similarity REAL NOT NULL DEFAULT 0,
			trail TEXT NOT NULL DEFAULT '[]',
			outline TEXT NOT NULL DEFAULT '[]'
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_detections_created_at ON detections(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
