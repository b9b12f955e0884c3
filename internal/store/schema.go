package store

// Schema is the incident repository schema, applied on open. Timestamps are
// RFC 3339 UTC text so range scans work with plain string comparison.
const Schema = `
CREATE TABLE IF NOT EXISTS incidents (
    id           TEXT PRIMARY KEY,
    category     TEXT NOT NULL
                 CHECK(category IN ('kidnapping', 'banditry', 'terrorism', 'armed_robbery', 'other')),
    region       TEXT NOT NULL,
    sub_region   TEXT DEFAULT '',
    title        TEXT NOT NULL UNIQUE,
    summary      TEXT DEFAULT '',
    occurred_at  TEXT NOT NULL,
    killed       INTEGER NOT NULL DEFAULT 0,
    kidnapped    INTEGER NOT NULL DEFAULT 0,
    injured      INTEGER NOT NULL DEFAULT 0,
    rescued      INTEGER NOT NULL DEFAULT 0,
    source       TEXT DEFAULT '',
    source_url   TEXT DEFAULT '',
    processed_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_incidents_region_occurred
    ON incidents(region, occurred_at);
CREATE INDEX IF NOT EXISTS idx_incidents_occurred
    ON incidents(occurred_at);

CREATE TABLE IF NOT EXISTS alert_subscriptions (
    id           TEXT PRIMARY KEY,
    platform     TEXT NOT NULL,
    user_id      TEXT NOT NULL,
    type         TEXT NOT NULL
                 CHECK(type IN ('state', 'route', 'national')),
    target       TEXT NOT NULL,
    min_severity TEXT NOT NULL DEFAULT 'moderate'
                 CHECK(min_severity IN ('low', 'moderate', 'high', 'severe')),
    active       INTEGER NOT NULL DEFAULT 1,
    created_at   TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at   TEXT NOT NULL DEFAULT (datetime('now')),
    UNIQUE(platform, user_id, type, target)
);
`
