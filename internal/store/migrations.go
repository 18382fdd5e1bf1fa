package store

const schema = `
CREATE TABLE IF NOT EXISTS listings (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start       DATETIME NOT NULL,
    venue_id    TEXT NOT NULL DEFAULT '',
    venue_name  TEXT NOT NULL DEFAULT '',
    kind        TEXT NOT NULL,
    age_group   TEXT NOT NULL DEFAULT '',
    category    TEXT NOT NULL DEFAULT '',
    tags        TEXT NOT NULL DEFAULT '[]',
    price       TEXT NOT NULL DEFAULT '',
    featured    BOOLEAN NOT NULL DEFAULT 0,
    recurrence  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_listings_start ON listings(start);
CREATE INDEX IF NOT EXISTS idx_listings_kind ON listings(kind);

CREATE TABLE IF NOT EXISTS deals (
    id              TEXT PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    category        TEXT NOT NULL DEFAULT '',
    venue_id        TEXT NOT NULL DEFAULT '',
    venue_name      TEXT NOT NULL DEFAULT '',
    schedule        TEXT NOT NULL DEFAULT '',
    valid_until     TEXT NOT NULL DEFAULT '',
    discount        TEXT NOT NULL DEFAULT '',
    discount_value  REAL NOT NULL DEFAULT 0,
    discount_type   TEXT NOT NULL DEFAULT '',
    savings_percent REAL NOT NULL DEFAULT 0,
    original_price  REAL NOT NULL DEFAULT 0,
    deal_price      REAL,
    featured        BOOLEAN NOT NULL DEFAULT 0,
    terms           TEXT NOT NULL DEFAULT '',
    alerted         BOOLEAN NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_deals_category ON deals(category);
CREATE INDEX IF NOT EXISTS idx_deals_valid_until ON deals(valid_until);

CREATE TABLE IF NOT EXISTS services (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    address  TEXT NOT NULL DEFAULT ''
);
`
