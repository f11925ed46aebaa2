// ABOUTME: SQLite schema definition and first-run target seeding.
// ABOUTME: Creates all tables, uniqueness guards, and indexes idempotently.
package storage

import "fmt"

const schema = `
CREATE TABLE IF NOT EXISTS body_metrics (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_date  TEXT NOT NULL,
	metric         TEXT NOT NULL,
	value          REAL NOT NULL,
	source         TEXT NOT NULL DEFAULT 'manual'
	               CHECK(source IN ('manual','agent','apple_health','oura','fit')),
	notes          TEXT,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sleep_records (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_date    TEXT NOT NULL,
	bedtime          TEXT,
	wake_time        TEXT,
	duration_min     INTEGER,
	deep_min         INTEGER,
	rem_min          INTEGER,
	core_min         INTEGER,
	awake_min        INTEGER,
	hrv              REAL,
	resting_hr       INTEGER,
	readiness_score  INTEGER,
	sleep_score      INTEGER,
	cpap_used        INTEGER,
	cpap_ahi         REAL,
	cpap_hours       REAL,
	cpap_leak_95     REAL,
	cpap_pressure_avg REAL,
	source           TEXT NOT NULL DEFAULT 'manual',
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS exercise_sessions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_date   TEXT NOT NULL,
	session_type    TEXT NOT NULL
	                CHECK(session_type IN ('strength','cardio','flexibility')),
	name            TEXT,
	external_id     TEXT,
	duration_min    INTEGER,
	calories_burned REAL,
	avg_heart_rate  INTEGER,
	max_heart_rate  INTEGER,
	source          TEXT NOT NULL DEFAULT 'manual',
	notes           TEXT,
	created_at      TEXT NOT NULL,
	deleted_at      TEXT
);

CREATE TABLE IF NOT EXISTS exercise_hr_zones (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id     INTEGER NOT NULL REFERENCES exercise_sessions(id) ON DELETE CASCADE,
	zone           INTEGER NOT NULL CHECK(zone BETWEEN 1 AND 5),
	minutes        REAL NOT NULL,
	pct_of_session REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS food_entries (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_date    TEXT NOT NULL,
	meal_type        TEXT NOT NULL
	                 CHECK(meal_type IN ('breakfast','lunch','dinner','snack','drink','meal')),
	name             TEXT NOT NULL,
	calories         REAL,
	protein_g        REAL,
	carbs_g          REAL,
	fat_g            REAL,
	fiber_g          REAL,
	sodium_mg        REAL,
	alcohol_g        REAL,
	alcohol_calories REAL,
	alcohol_type     TEXT CHECK(alcohol_type IN ('beer','wine','spirits','cocktail')),
	photo_url        TEXT,
	servings         REAL NOT NULL DEFAULT 1.0,
	is_estimated     INTEGER NOT NULL DEFAULT 0,
	source           TEXT NOT NULL DEFAULT 'manual'
	                 CHECK(source IN ('manual','agent','apple_health')),
	notes            TEXT,
	created_at       TEXT NOT NULL,
	deleted_at       TEXT
);

CREATE TABLE IF NOT EXISTS targets (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	metric         TEXT NOT NULL,
	value          REAL NOT NULL,
	effective_date TEXT NOT NULL,
	notes          TEXT,
	created_at     TEXT NOT NULL DEFAULT (datetime('now')),
	UNIQUE(metric, effective_date)
);

CREATE TABLE IF NOT EXISTS daily_suggestions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	suggestion_date TEXT NOT NULL UNIQUE,
	readiness_score INTEGER,
	hrv             REAL,
	hrv_7day_avg    REAL,
	scheduled_type  TEXT NOT NULL,
	suggestion      TEXT NOT NULL,
	intensity       TEXT NOT NULL,
	created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS coaching_digests (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	digest_date TEXT NOT NULL,
	digest_type TEXT NOT NULL CHECK(digest_type IN ('daily','weekly')),
	summary     TEXT NOT NULL,
	highlights  TEXT NOT NULL,
	created_at  TEXT NOT NULL DEFAULT (datetime('now')),
	UNIQUE(digest_date, digest_type)
);

CREATE TABLE IF NOT EXISTS goals (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	metric       TEXT NOT NULL,
	goal_type    TEXT NOT NULL CHECK(goal_type IN ('target','directional')),
	target_value REAL,
	direction    TEXT CHECK(direction IN ('up','down')),
	start_date   TEXT NOT NULL,
	target_date  TEXT,
	active       INTEGER NOT NULL DEFAULT 1,
	notes        TEXT,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goal_plans (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	goal_id    INTEGER NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
	plan       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(goal_id, version)
);

CREATE INDEX IF NOT EXISTS idx_body_metrics_date_metric
	ON body_metrics(recorded_date, metric);
CREATE UNIQUE INDEX IF NOT EXISTS uq_body_metrics_recorded_metric_source
	ON body_metrics(recorded_date, metric, source)
	WHERE source = 'apple_health';
CREATE INDEX IF NOT EXISTS idx_sleep_date ON sleep_records(recorded_date);
CREATE UNIQUE INDEX IF NOT EXISTS uq_exercise_source_external_id
	ON exercise_sessions(source, external_id)
	WHERE external_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_exercise_date
	ON exercise_sessions(recorded_date) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_food_date
	ON food_entries(recorded_date) WHERE deleted_at IS NULL;
`

// defaultTargets are seeded on first open so summaries always have a
// baseline to compare against. Explicit target writes supersede them via
// the effective-date lookup.
var defaultTargets = []struct {
	metric string
	value  float64
}{
	{"calories", 2000},
	{"protein_g", 180},
	{"sodium_mg", 2300},
}

// initSchema creates tables and seeds default targets.
func (d *DB) initSchema() error {
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, t := range defaultTargets {
		_, err := d.db.Exec(
			`INSERT OR IGNORE INTO targets (metric, value, effective_date, notes)
			 VALUES (?, ?, '1970-01-01', 'default target')`,
			t.metric, t.value,
		)
		if err != nil {
			return fmt.Errorf("seed target %s: %w", t.metric, err)
		}
	}
	return nil
}
