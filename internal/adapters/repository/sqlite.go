package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/okian/tribunal/internal/domain/model"
	"github.com/okian/tribunal/internal/domain/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS votes (
  id              TEXT PRIMARY KEY,
  match_id        TEXT    NOT NULL,
  reviewer_id     TEXT    NOT NULL,
  attribute       TEXT    NOT NULL,
  value           INTEGER NOT NULL CHECK (value IN (0, 1, 2)),
  player1_id      TEXT    NOT NULL,
  player2_id      TEXT    NOT NULL,
  division_code   TEXT    NOT NULL,
  reviewer_weight REAL    NOT NULL CHECK (reviewer_weight > 0),
  created_at      INTEGER NOT NULL,
  UNIQUE (match_id, reviewer_id, attribute)
);
CREATE INDEX IF NOT EXISTS idx_votes_player1 ON votes (player1_id, division_code);
CREATE INDEX IF NOT EXISTS idx_votes_player2 ON votes (player2_id, division_code);
`

// SQLiteLedger persists votes in SQLite with an insert-time uniqueness
// guard, so concurrent submissions racing on the same key cannot both
// succeed.
type SQLiteLedger struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the SQLite vote ledger at path and applies
// the schema.
func Open(path string) (*SQLiteLedger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("ledger path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping ledger db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}
	return &SQLiteLedger{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (l *SQLiteLedger) Close() error {
	if l == nil || l.sqlDB == nil {
		return nil
	}
	return l.sqlDB.Close()
}

// AppendBatch inserts all votes in one transaction. Any uniqueness
// conflict rolls back the whole batch and surfaces ErrDuplicateVote.
func (l *SQLiteLedger) AppendBatch(ctx context.Context, votes []model.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l == nil || l.sqlDB == nil {
		return ErrClosed
	}
	if len(votes) == 0 {
		return nil
	}

	tx, err := l.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range votes {
		id := v.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := v.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO votes (
			   id, match_id, reviewer_id, attribute, value,
			   player1_id, player2_id, division_code, reviewer_weight, created_at
			 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			v.MatchID,
			v.ReviewerID,
			string(v.Attribute),
			int(v.Value),
			v.Player1ID,
			v.Player2ID,
			v.DivisionCode,
			v.ReviewerWeight,
			createdAt.UnixMilli(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s/%s/%s", ErrDuplicateVote, v.MatchID, v.ReviewerID, v.Attribute)
			}
			return fmt.Errorf("append vote: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit vote batch: %w", err)
	}
	return nil
}

// VotedAttributes returns the distinct attributes already voted for
// one (match, reviewer) pair.
func (l *SQLiteLedger) VotedAttributes(ctx context.Context, matchID, reviewerID string) ([]types.Attribute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil || l.sqlDB == nil {
		return nil, ErrClosed
	}

	rows, err := l.sqlDB.QueryContext(
		ctx,
		`SELECT DISTINCT attribute FROM votes WHERE match_id = ? AND reviewer_id = ?`,
		matchID,
		reviewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query voted attributes: %w", err)
	}
	defer rows.Close()

	var voted []types.Attribute
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan voted attribute: %w", err)
		}
		attr, err := types.ParseAttribute(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger holds %w", err)
		}
		voted = append(voted, attr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query voted attributes: %w", err)
	}
	return voted, nil
}

// VotesForPlayer returns every vote in a division where the player is
// on either side of the match.
func (l *SQLiteLedger) VotesForPlayer(ctx context.Context, playerID, divisionCode string) ([]model.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil || l.sqlDB == nil {
		return nil, ErrClosed
	}

	rows, err := l.sqlDB.QueryContext(
		ctx,
		`SELECT id, match_id, reviewer_id, attribute, value,
		        player1_id, player2_id, division_code, reviewer_weight, created_at
		   FROM votes
		  WHERE (player1_id = ? OR player2_id = ?) AND division_code = ?`,
		playerID,
		playerID,
		divisionCode,
	)
	if err != nil {
		return nil, fmt.Errorf("query player votes: %w", err)
	}
	defer rows.Close()

	var votes []model.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query player votes: %w", err)
	}
	return votes, nil
}

// DivisionsByVolume lists a player's divisions ordered by contributing
// vote volume descending; ties break on division code for stable output.
func (l *SQLiteLedger) DivisionsByVolume(ctx context.Context, playerID string) ([]types.DivisionVolume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil || l.sqlDB == nil {
		return nil, ErrClosed
	}

	rows, err := l.sqlDB.QueryContext(
		ctx,
		`SELECT division_code, COUNT(*) AS votes
		   FROM votes
		  WHERE player1_id = ? OR player2_id = ?
		  GROUP BY division_code
		  ORDER BY votes DESC, division_code ASC`,
		playerID,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query divisions: %w", err)
	}
	defer rows.Close()

	var divisions []types.DivisionVolume
	for rows.Next() {
		var d types.DivisionVolume
		if err := rows.Scan(&d.DivisionCode, &d.Votes); err != nil {
			return nil, fmt.Errorf("scan division: %w", err)
		}
		divisions = append(divisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query divisions: %w", err)
	}
	return divisions, nil
}

// NetworkEdges returns distinct matchups with vote volume.
func (l *SQLiteLedger) NetworkEdges(ctx context.Context) ([]types.NetworkEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l == nil || l.sqlDB == nil {
		return nil, ErrClosed
	}

	rows, err := l.sqlDB.QueryContext(
		ctx,
		`SELECT player1_id, player2_id, division_code, COUNT(*) AS votes
		   FROM votes
		  GROUP BY player1_id, player2_id, division_code
		  ORDER BY votes DESC, player1_id ASC, player2_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query network edges: %w", err)
	}
	defer rows.Close()

	var edges []types.NetworkEdge
	for rows.Next() {
		var e types.NetworkEdge
		if err := rows.Scan(&e.Player1ID, &e.Player2ID, &e.DivisionCode, &e.Votes); err != nil {
			return nil, fmt.Errorf("scan network edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query network edges: %w", err)
	}
	return edges, nil
}

// Count returns the total number of ledger rows.
func (l *SQLiteLedger) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if l == nil || l.sqlDB == nil {
		return 0, ErrClosed
	}

	var n int64
	if err := l.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}

func scanVote(rows *sql.Rows) (model.Vote, error) {
	var v model.Vote
	var attr string
	var value int
	var createdAt int64
	if err := rows.Scan(
		&v.ID,
		&v.MatchID,
		&v.ReviewerID,
		&attr,
		&value,
		&v.Player1ID,
		&v.Player2ID,
		&v.DivisionCode,
		&v.ReviewerWeight,
		&createdAt,
	); err != nil {
		return model.Vote{}, fmt.Errorf("scan vote: %w", err)
	}
	parsed, err := types.ParseAttribute(attr)
	if err != nil {
		return model.Vote{}, fmt.Errorf("ledger holds %w", err)
	}
	v.Attribute = parsed
	v.Value = types.Verdict(value)
	v.CreatedAt = time.UnixMilli(createdAt).UTC()
	return v, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ Ledger = (*SQLiteLedger)(nil)
