package catalog

// Schema DDL for the catalog database.
const createDiagrams = `CREATE TABLE diagrams (
    diagram_id TEXT PRIMARY KEY,
    path TEXT NOT NULL UNIQUE,
    diagram_type TEXT,
    declared_version TEXT NOT NULL,
    migrated INTEGER NOT NULL,
    recorded_at TEXT NOT NULL
);`
