package db

// SchemaVersion is the version a fully migrated store reports.
const SchemaVersion = 2

const schema = `
-- Key/value pairs mirroring browser localStorage
CREATE TABLE IF NOT EXISTS local_storage (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Schema metadata
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Migration upgrades the store by one schema version.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations run in order; the last Version must equal SchemaVersion.
var Migrations = []Migration{
	{
		Version:     2,
		Description: "Add committed decision cache",
		SQL: `
CREATE TABLE IF NOT EXISTS decisions (
    user_id TEXT NOT NULL,
    poi_id TEXT NOT NULL,
    liked INTEGER NOT NULL,
    decided_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (user_id, poi_id)
);
CREATE INDEX IF NOT EXISTS idx_decisions_user ON decisions(user_id, decided_at);
`,
	},
}
