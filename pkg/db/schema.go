package db

const schema = `
PRAGMA synchronous = NORMAL;
PRAGMA temp_store = MEMORY;

CREATE TABLE IF NOT EXISTS venues (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS teams (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    abbreviation TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    name_id TEXT NOT NULL UNIQUE,
    bats INTEGER NOT NULL,       -- 0 left, 1 right, 2 both
    throws INTEGER NOT NULL
);

-- Venue, start time, time of day and field type are missing on some pages.
CREATE TABLE IF NOT EXISTS games (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name_id TEXT NOT NULL UNIQUE,
    local_start_time TEXT,       -- HH:MM, local to the venue
    time_of_day INTEGER,         -- 0 day, 1 night
    field_type INTEGER,          -- 0 turf, 1 grass
    date TEXT NOT NULL,          -- YYYY-MM-DD
    venue_id INTEGER,
    home_team_id INTEGER NOT NULL,
    away_team_id INTEGER NOT NULL,
    FOREIGN KEY (venue_id) REFERENCES venues(id),
    FOREIGN KEY (home_team_id) REFERENCES teams(id),
    FOREIGN KEY (away_team_id) REFERENCES teams(id)
);

CREATE INDEX IF NOT EXISTS idx_games_date ON games(date);

CREATE TABLE IF NOT EXISTS plays (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    game_id INTEGER NOT NULL,
    inning_half INTEGER NOT NULL, -- t1 -> 0, b1 -> 1, t2 -> 2, ...
    start_outs INTEGER NOT NULL,
    start_on_base INTEGER NOT NULL, -- bitmask: 1 first, 2 second, 4 third
    play_num INTEGER NOT NULL,
    description TEXT NOT NULL,
    pitch_ct TEXT,
    batter_id INTEGER NOT NULL,
    pitcher_id INTEGER NOT NULL,
    FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE,
    FOREIGN KEY (batter_id) REFERENCES players(id),
    FOREIGN KEY (pitcher_id) REFERENCES players(id),
    UNIQUE(game_id, play_num)
);

CREATE TABLE IF NOT EXISTS play_nodes (
    play_id INTEGER PRIMARY KEY,
    outcome INTEGER NOT NULL,
    level INTEGER NOT NULL,
    FOREIGN KEY (play_id) REFERENCES plays(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_play_nodes_level ON play_nodes(level, play_id);

CREATE TABLE IF NOT EXISTS play_edges (
    from_play_id INTEGER NOT NULL,
    to_play_id INTEGER NOT NULL,
    PRIMARY KEY (from_play_id, to_play_id),
    FOREIGN KEY (from_play_id) REFERENCES play_nodes(play_id) ON DELETE CASCADE,
    FOREIGN KEY (to_play_id) REFERENCES play_nodes(play_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_play_edges_to ON play_edges(to_play_id);
`
