package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dtnitsch/deepfield/models"
	"github.com/dtnitsch/deepfield/pkg/links"
)

const (
	PlaysPerBatch = 100
	GraphPerBatch = 300
)

// ErrUnknownModel is returned for a table that has no name_id column.
var ErrUnknownModel = errors.New("unknown model")

// Exists reports whether a row with nameID exists in model ("games" or "players").
func (q *Queries) Exists(ctx context.Context, model, nameID string) (bool, error) {
	var query string
	switch model {
	case "games":
		query = "SELECT 1 FROM games WHERE name_id = ? LIMIT 1"
	case "players":
		query = "SELECT 1 FROM players WHERE name_id = ? LIMIT 1"
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	var one int
	err := q.q.QueryRowContext(ctx, query, nameID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", model, nameID, err)
	}
	return true, nil
}

// IsResolved reports whether the page behind link is already persisted.
// Links to pages without a backing model never are.
func (q *Queries) IsResolved(ctx context.Context, link links.Link) (bool, error) {
	model := link.Type().Model()
	if model == "" {
		return false, nil
	}
	return q.Exists(ctx, model, link.NameID())
}

// GetOrCreateTeam returns the id of the team with name, inserting it if needed.
func (q *Queries) GetOrCreateTeam(ctx context.Context, name, abbreviation string) (int64, error) {
	var id int64
	err := q.q.QueryRowContext(ctx, "SELECT id FROM teams WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing team: %w", err)
	}

	result, err := q.q.ExecContext(ctx,
		"INSERT INTO teams (name, abbreviation) VALUES (?, ?)", name, abbreviation)
	if err != nil {
		return 0, fmt.Errorf("failed to insert team: %w", err)
	}
	return result.LastInsertId()
}

// GetOrCreateVenue returns the id of the venue with name, inserting it if needed.
func (q *Queries) GetOrCreateVenue(ctx context.Context, name string) (int64, error) {
	var id int64
	err := q.q.QueryRowContext(ctx, "SELECT id FROM venues WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to check existing venue: %w", err)
	}

	result, err := q.q.ExecContext(ctx, "INSERT INTO venues (name) VALUES (?)", name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert venue: %w", err)
	}
	return result.LastInsertId()
}

// InsertGame inserts a game row and returns its id.
func (q *Queries) InsertGame(ctx context.Context, g Game) (int64, error) {
	var startTime, timeOfDay, fieldType, venueID any
	if g.LocalStartTime != nil {
		startTime = g.LocalStartTime.Format(ClockLayout)
	}
	if g.TimeOfDay != nil {
		timeOfDay = int64(*g.TimeOfDay)
	}
	if g.FieldType != nil {
		fieldType = int64(*g.FieldType)
	}
	if g.VenueID != nil {
		venueID = *g.VenueID
	}

	result, err := q.q.ExecContext(ctx, `
		INSERT INTO games (name_id, local_start_time, time_of_day, field_type, date, venue_id, home_team_id, away_team_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.NameID, startTime, timeOfDay, fieldType, g.Date.Format(DateLayout), venueID, g.HomeTeamID, g.AwayTeamID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert game %s: %w", g.NameID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get game ID: %w", err)
	}
	return id, nil
}

// GetGame returns the game with nameID.
func (q *Queries) GetGame(ctx context.Context, nameID string) (*Game, error) {
	var (
		g         Game
		date      string
		startTime sql.NullString
		timeOfDay sql.NullInt64
		fieldType sql.NullInt64
		venueID   sql.NullInt64
	)
	err := q.q.QueryRowContext(ctx, `
		SELECT id, name_id, local_start_time, time_of_day, field_type, date, venue_id, home_team_id, away_team_id
		FROM games WHERE name_id = ?
	`, nameID).Scan(&g.ID, &g.NameID, &startTime, &timeOfDay, &fieldType, &date, &venueID, &g.HomeTeamID, &g.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", nameID, err)
	}

	if g.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if startTime.Valid {
		t, err := parseClock(startTime.String)
		if err != nil {
			return nil, err
		}
		g.LocalStartTime = &t
	}
	if timeOfDay.Valid {
		v := models.TimeOfDay(timeOfDay.Int64)
		g.TimeOfDay = &v
	}
	if fieldType.Valid {
		v := models.FieldType(fieldType.Int64)
		g.FieldType = &v
	}
	if venueID.Valid {
		v := venueID.Int64
		g.VenueID = &v
	}
	return &g, nil
}

// InsertPlays inserts plays in batches of PlaysPerBatch rows.
func (q *Queries) InsertPlays(ctx context.Context, plays []Play) error {
	const prefix = `INSERT INTO plays (game_id, inning_half, start_outs, start_on_base, play_num, description, pitch_ct, batter_id, pitcher_id) VALUES `
	return insertBatched(ctx, q.q, prefix, 9, len(plays), PlaysPerBatch, func(i int) []any {
		p := plays[i]
		var pitchCount any
		if p.PitchCount != "" {
			pitchCount = p.PitchCount
		}
		return []any{p.GameID, p.InningHalf, p.StartOuts, int(p.StartOnBase), p.PlayNum, p.Desc, pitchCount, p.BatterID, p.PitcherID}
	})
}

// InsertPlayer inserts a player row and returns its id.
func (q *Queries) InsertPlayer(ctx context.Context, p Player) (int64, error) {
	result, err := q.q.ExecContext(ctx,
		"INSERT INTO players (name, name_id, bats, throws) VALUES (?, ?, ?, ?)",
		p.Name, p.NameID, int(p.Bats), int(p.Throws))
	if err != nil {
		return 0, fmt.Errorf("failed to insert player %s: %w", p.NameID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get player ID: %w", err)
	}
	return id, nil
}

// PlayerIDs maps each persisted name id to its database id. Name ids that
// are not persisted are absent from the result.
func (q *Queries) PlayerIDs(ctx context.Context, nameIDs []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(nameIDs))
	if len(nameIDs) == 0 {
		return ids, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(nameIDs)), ",")
	args := make([]any, len(nameIDs))
	for i, n := range nameIDs {
		args[i] = n
	}

	rows, err := q.q.QueryContext(ctx,
		"SELECT name_id, id FROM players WHERE name_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query player IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nameID string
		var id int64
		if err := rows.Scan(&nameID, &id); err != nil {
			return nil, fmt.Errorf("failed to scan player ID: %w", err)
		}
		ids[nameID] = id
	}
	return ids, rows.Err()
}

// TeamAbbreviation returns the abbreviation of the team with id.
func (q *Queries) TeamAbbreviation(ctx context.Context, id int64) (string, error) {
	var abbr string
	if err := q.q.QueryRowContext(ctx, "SELECT abbreviation FROM teams WHERE id = ?", id).Scan(&abbr); err != nil {
		return "", fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return abbr, nil
}

// VenueName returns the name of the venue with id.
func (q *Queries) VenueName(ctx context.Context, id int64) (string, error) {
	var name string
	if err := q.q.QueryRowContext(ctx, "SELECT name FROM venues WHERE id = ?", id).Scan(&name); err != nil {
		return "", fmt.Errorf("failed to get venue %d: %w", id, err)
	}
	return name, nil
}

// PlayerNameIDs is the inverse of PlayerIDs: it maps database ids to name ids.
func (q *Queries) PlayerNameIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	nameIDs := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return nameIDs, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := q.q.QueryContext(ctx,
		"SELECT id, name_id FROM players WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query player name IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var nameID string
		if err := rows.Scan(&id, &nameID); err != nil {
			return nil, fmt.Errorf("failed to scan player name ID: %w", err)
		}
		nameIDs[id] = nameID
	}
	return nameIDs, rows.Err()
}

// CountPlays returns the number of plays in the database.
func (q *Queries) CountPlays(ctx context.Context) (int, error) {
	var n int
	if err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM plays").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return n, nil
}

// Tables lists every table of the schema in dependency order.
var Tables = []string{"venues", "teams", "players", "games", "plays", "play_nodes", "play_edges"}

// TableCounts returns the number of rows of each table in Tables.
func (q *Queries) TableCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		var n int
		if err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// GamePlays returns the plays of one game ordered by play number.
func (q *Queries) GamePlays(ctx context.Context, gameID int64) ([]Play, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, game_id, inning_half, start_outs, start_on_base, play_num, description, COALESCE(pitch_ct, ''), batter_id, pitcher_id
		FROM plays WHERE game_id = ? ORDER BY play_num
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var plays []Play
	for rows.Next() {
		var p Play
		var onBase int
		if err := rows.Scan(&p.ID, &p.GameID, &p.InningHalf, &p.StartOuts, &onBase, &p.PlayNum, &p.Desc, &p.PitchCount, &p.BatterID, &p.PitcherID); err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		p.StartOnBase = models.OnBase(onBase)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// Plays streams every play in the order the games were played:
// (game date, game id, play number).
func (q *Queries) Plays(ctx context.Context) (*PlayIterator, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT p.id, p.batter_id, p.pitcher_id, p.description
		FROM plays p
		JOIN games g ON p.game_id = g.id
		ORDER BY g.date, p.game_id, p.play_num
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	return &PlayIterator{rows: rows}, nil
}

// ClearGraph removes every persisted play node and edge.
func (q *Queries) ClearGraph(ctx context.Context) error {
	if _, err := q.q.ExecContext(ctx, "DELETE FROM play_edges"); err != nil {
		return fmt.Errorf("failed to clear play edges: %w", err)
	}
	if _, err := q.q.ExecContext(ctx, "DELETE FROM play_nodes"); err != nil {
		return fmt.Errorf("failed to clear play nodes: %w", err)
	}
	return nil
}

// InsertNodes inserts play nodes in batches of GraphPerBatch rows.
func (q *Queries) InsertNodes(ctx context.Context, nodes []PlayNode) error {
	const prefix = "INSERT INTO play_nodes (play_id, outcome, level) VALUES "
	return insertBatched(ctx, q.q, prefix, 3, len(nodes), GraphPerBatch, func(i int) []any {
		n := nodes[i]
		return []any{n.PlayID, n.Outcome, n.Level}
	})
}

// InsertEdges inserts play edges in batches of GraphPerBatch rows.
func (q *Queries) InsertEdges(ctx context.Context, edges []PlayEdge) error {
	const prefix = "INSERT INTO play_edges (from_play_id, to_play_id) VALUES "
	return insertBatched(ctx, q.q, prefix, 2, len(edges), GraphPerBatch, func(i int) []any {
		e := edges[i]
		return []any{e.From, e.To}
	})
}

// Nodes streams play nodes ordered by (level, play id).
func (q *Queries) Nodes(ctx context.Context) (*NodeIterator, error) {
	rows, err := q.q.QueryContext(ctx,
		"SELECT play_id, outcome, level FROM play_nodes ORDER BY level, play_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query play nodes: %w", err)
	}
	return &NodeIterator{rows: rows}, nil
}

// Edges returns every play edge ordered by (from, to).
func (q *Queries) Edges(ctx context.Context) ([]PlayEdge, error) {
	rows, err := q.q.QueryContext(ctx,
		"SELECT from_play_id, to_play_id FROM play_edges ORDER BY from_play_id, to_play_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query play edges: %w", err)
	}
	defer rows.Close()

	var edges []PlayEdge
	for rows.Next() {
		var e PlayEdge
		if err := rows.Scan(&e.From, &e.To); err != nil {
			return nil, fmt.Errorf("failed to scan play edge: %w", err)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// insertBatched runs multi-row INSERTs of at most batch rows each. row(i)
// returns the cols values of row i.
func insertBatched(ctx context.Context, q querier, prefix string, cols, n, batch int, row func(i int) []any) error {
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", cols), ",") + ")"
	for start := 0; start < n; start += batch {
		end := min(start+batch, n)

		var sb strings.Builder
		sb.WriteString(prefix)
		args := make([]any, 0, (end-start)*cols)
		for i := start; i < end; i++ {
			if i > start {
				sb.WriteByte(',')
			}
			sb.WriteString(tuple)
			args = append(args, row(i)...)
		}
		if _, err := q.ExecContext(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d: %w", start, end-1, err)
		}
	}
	return nil
}
