package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Wager & Payment Ledger Schema

-- 1. Wagers
CREATE TABLE IF NOT EXISTS wagers (
    id UUID PRIMARY KEY,
    proposer_id VARCHAR(64) NOT NULL,
    opponent_id VARCHAR(64) NOT NULL,
    season INT NOT NULL,
    week INT NOT NULL,
    season_type VARCHAR(16) NOT NULL DEFAULT 'regular',
    round VARCHAR(16),
    home_team VARCHAR(8) NOT NULL,
    away_team VARCHAR(8) NOT NULL,
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
    pick VARCHAR(8),
    note TEXT,
    state VARCHAR(16) NOT NULL DEFAULT 'pending',
    winner_id VARCHAR(64),
    winner_team VARCHAR(8),
    tie BOOLEAN NOT NULL DEFAULT FALSE,
    source VARCHAR(16),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    settled_at TIMESTAMPTZ,
    resolved_at TIMESTAMPTZ,
    CHECK (proposer_id <> opponent_id)
);

CREATE INDEX IF NOT EXISTS idx_wagers_match_key
    ON wagers (season, week, home_team, away_team) WHERE state = 'accepted';
CREATE INDEX IF NOT EXISTS idx_wagers_owner
    ON wagers (proposer_id, opponent_id);

-- 2. Payment obligations
CREATE TABLE IF NOT EXISTS payment_obligations (
    id UUID PRIMARY KEY,
    debtor_id VARCHAR(64) NOT NULL,
    creditor_id VARCHAR(64) NOT NULL,
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
    reason TEXT,
    origin VARCHAR(32) NOT NULL,
    origin_key VARCHAR(128),
    season INT NOT NULL,
    status VARCHAR(16) NOT NULL DEFAULT 'open',
    created_by VARCHAR(64),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    paid_at TIMESTAMPTZ,
    CHECK (debtor_id <> creditor_id)
);

-- Idempotence: at most one obligation per origin key
CREATE UNIQUE INDEX IF NOT EXISTS idx_obligations_origin_key
    ON payment_obligations (origin_key) WHERE origin_key IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_obligations_debtor ON payment_obligations (debtor_id, status);
CREATE INDEX IF NOT EXISTS idx_obligations_creditor ON payment_obligations (creditor_id, status);

-- 3. Registrations (one owner per team per season)
CREATE TABLE IF NOT EXISTS registrations (
    season INT NOT NULL,
    team_id VARCHAR(8) NOT NULL,
    owner_id VARCHAR(64) NOT NULL,
    platform_user_id VARCHAR(64),
    PRIMARY KEY (season, team_id)
);

-- 4. Welcher flags
CREATE TABLE IF NOT EXISTS welcher_flags (
    owner_id VARCHAR(64) PRIMARY KEY,
    reason TEXT,
    flagged_by VARCHAR(64),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- 5. Seedings
CREATE TABLE IF NOT EXISTS seedings (
    season INT NOT NULL,
    conference VARCHAR(3) NOT NULL,
    seed INT NOT NULL CHECK (seed BETWEEN 1 AND 16),
    team_id VARCHAR(8) NOT NULL,
    owner_id VARCHAR(64),
    cpu BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (season, conference, seed)
);

-- 6. Playoff round winners
CREATE TABLE IF NOT EXISTS playoff_winners (
    season INT NOT NULL,
    conference VARCHAR(3) NOT NULL,
    round VARCHAR(16) NOT NULL,
    team_id VARCHAR(8) NOT NULL,
    owner_id VARCHAR(64) NOT NULL,
    PRIMARY KEY (season, conference, round, team_id)
);

-- 7. Reminder bookkeeping
CREATE TABLE IF NOT EXISTS wager_reminders (
    wager_id UUID PRIMARY KEY REFERENCES wagers(id) ON DELETE CASCADE,
    last_channel_sent TIMESTAMPTZ,
    last_dm_sent TIMESTAMPTZ,
    dm_count INT NOT NULL DEFAULT 0
);
`
