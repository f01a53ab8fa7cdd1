package session

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS notification_archive (
	user_id     TEXT NOT NULL,
	id          TEXT NOT NULL,
	backend_id  TEXT NOT NULL DEFAULT '',
	message     TEXT NOT NULL,
	type        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	read        INTEGER NOT NULL DEFAULT 0,
	archived_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE INDEX IF NOT EXISTS idx_notification_archive_user
	ON notification_archive (user_id, created_at DESC);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
