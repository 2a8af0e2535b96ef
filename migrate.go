package userforms

func runMigrations(exec Executor) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			email_verified INTEGER NOT NULL DEFAULT 0,
			avatar_url TEXT,
			status TEXT DEFAULT 'active',
			created_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS user_identities (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			provider TEXT NOT NULL,
			provider_id TEXT NOT NULL,
			email TEXT,
			created_at INTEGER,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
			UNIQUE(provider, provider_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT,
			email TEXT,
			image TEXT,
			expires_at INTEGER,
			ip TEXT,
			user_agent TEXT,
			created_at INTEGER,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS user_oauth_states (
			state TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			expires_at INTEGER,
			created_at INTEGER
		)`,
	}

	for _, q := range queries {
		if err := exec.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
