package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rgehrsitz/finquest/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps users in an embedded SQLite database. The gamification
// ledger, badges, quiz scores and snapshots each get their own table.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(filePath string) (*SQLiteStore, error) {
	if filePath == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	if filePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, err
	}
	// a single connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	st := &SQLiteStore{db: db}
	if err := st.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store %s: %w", filePath, err)
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveUser(ctx context.Context, user domain.UserRecord) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}

	var profile sql.NullString
	if user.Profile != nil {
		data, err := json.Marshal(user.Profile)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		profile = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	g := user.Gamification
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO users
		(id, profile, coins, xp, level, streak, last_completed_date, last_reset_date, correct_answers, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		profile,
		g.Coins,
		g.XP,
		string(g.Level),
		g.Streak,
		string(g.LastCompletedDate),
		string(g.LastResetDate),
		g.CorrectAnswers,
		toTS(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	for _, table := range []string{"badges", "completions", "quiz_scores", "snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", user.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, badge := range g.Badges {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO badges (user_id, badge_id, position) VALUES (?, ?, ?)`,
			user.ID, badge, i,
		); err != nil {
			return fmt.Errorf("save badge %s: %w", badge, err)
		}
	}

	for day, set := range g.Ledger {
		for id, c := range set {
			data, err := json.Marshal(c.Data)
			if err != nil {
				return fmt.Errorf("encode completion %s: %w", id, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO completions (user_id, day, challenge_id, completed_at, data) VALUES (?, ?, ?, ?, ?)`,
				user.ID, string(day), id, toTS(c.CompletedAt), string(data),
			); err != nil {
				return fmt.Errorf("save completion %s: %w", id, err)
			}
		}
	}

	for quiz, scores := range g.QuizScores {
		for attempt, score := range scores {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO quiz_scores (user_id, quiz_id, attempt, score) VALUES (?, ?, ?, ?)`,
				user.ID, quiz, attempt, score,
			); err != nil {
				return fmt.Errorf("save quiz score %s: %w", quiz, err)
			}
		}
	}

	for i, snap := range user.History {
		profileJSON, err := json.Marshal(snap.Profile)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
		}
		breakdownJSON, err := json.Marshal(snap.Breakdown)
		if err != nil {
			return fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (user_id, position, id, profile, breakdown, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			user.ID, i, snap.ID, string(profileJSON), string(breakdownJSON), toTS(snap.CreatedAt),
		); err != nil {
			return fmt.Errorf("save snapshot %s: %w", snap.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadUser(ctx context.Context, id string) (domain.UserRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, profile, coins, xp, level, streak, last_completed_date, last_reset_date, correct_answers, updated_at
		FROM users
		WHERE id = ?`,
		id,
	)

	user := domain.NewUserRecord(id)
	g := &user.Gamification
	var profile sql.NullString
	var level, lastCompleted, lastReset, updatedAt string
	err := row.Scan(
		&user.ID,
		&profile,
		&g.Coins,
		&g.XP,
		&level,
		&g.Streak,
		&lastCompleted,
		&lastReset,
		&g.CorrectAnswers,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserRecord{}, false, nil
	}
	if err != nil {
		return domain.UserRecord{}, false, err
	}
	g.Level = domain.Level(level)
	g.LastCompletedDate = domain.Date(lastCompleted)
	g.LastResetDate = domain.Date(lastReset)
	user.UpdatedAt = fromTS(updatedAt)

	if profile.Valid {
		var p domain.FinancialProfile
		if err := json.Unmarshal([]byte(profile.String), &p); err != nil {
			return domain.UserRecord{}, false, fmt.Errorf("decode profile: %w", err)
		}
		user.Profile = &p
	}

	if err := s.loadBadges(ctx, &user); err != nil {
		return domain.UserRecord{}, false, err
	}
	if err := s.loadCompletions(ctx, &user); err != nil {
		return domain.UserRecord{}, false, err
	}
	if err := s.loadQuizScores(ctx, &user); err != nil {
		return domain.UserRecord{}, false, err
	}
	if err := s.loadSnapshots(ctx, &user); err != nil {
		return domain.UserRecord{}, false, err
	}
	return user, true, nil
}

func (s *SQLiteStore) loadBadges(ctx context.Context, user *domain.UserRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT badge_id FROM badges WHERE user_id = ? ORDER BY position`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var badge string
		if err := rows.Scan(&badge); err != nil {
			return err
		}
		user.Gamification.Badges = append(user.Gamification.Badges, badge)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadCompletions(ctx context.Context, user *domain.UserRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, challenge_id, completed_at, data FROM completions WHERE user_id = ?`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var day, id, completedAt, data string
		if err := rows.Scan(&day, &id, &completedAt, &data); err != nil {
			return err
		}
		c := domain.Completion{ChallengeID: id, CompletedAt: fromTS(completedAt)}
		if err := json.Unmarshal([]byte(data), &c.Data); err != nil {
			return fmt.Errorf("decode completion %s: %w", id, err)
		}
		d := domain.Date(day)
		if user.Gamification.Ledger[d] == nil {
			user.Gamification.Ledger[d] = make(map[string]domain.Completion)
		}
		user.Gamification.Ledger[d][id] = c
	}
	return rows.Err()
}

func (s *SQLiteStore) loadQuizScores(ctx context.Context, user *domain.UserRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quiz_id, score FROM quiz_scores WHERE user_id = ? ORDER BY quiz_id, attempt`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var quiz string
		var score int
		if err := rows.Scan(&quiz, &score); err != nil {
			return err
		}
		user.Gamification.QuizScores[quiz] = append(user.Gamification.QuizScores[quiz], score)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadSnapshots(ctx context.Context, user *domain.UserRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, breakdown, created_at FROM snapshots WHERE user_id = ? ORDER BY position`, user.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var snap domain.ProfileSnapshot
		var profile, breakdown, createdAt string
		if err := rows.Scan(&snap.ID, &profile, &breakdown, &createdAt); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(profile), &snap.Profile); err != nil {
			return fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		if err := json.Unmarshal([]byte(breakdown), &snap.Breakdown); err != nil {
			return fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		snap.CreatedAt = fromTS(createdAt)
		user.History = append(user.History, snap)
	}
	return rows.Err()
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		PRAGMA journal_mode=WAL;
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			profile TEXT,
			coins INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			level TEXT NOT NULL,
			streak INTEGER NOT NULL DEFAULT 0,
			last_completed_date TEXT NOT NULL DEFAULT '',
			last_reset_date TEXT NOT NULL DEFAULT '',
			correct_answers INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS badges (
			user_id TEXT NOT NULL,
			badge_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (user_id, badge_id)
		);
		CREATE TABLE IF NOT EXISTS completions (
			user_id TEXT NOT NULL,
			day TEXT NOT NULL,
			challenge_id TEXT NOT NULL,
			completed_at TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (user_id, day, challenge_id)
		);
		CREATE TABLE IF NOT EXISTS quiz_scores (
			user_id TEXT NOT NULL,
			quiz_id TEXT NOT NULL,
			attempt INTEGER NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (user_id, quiz_id, attempt)
		);
		CREATE TABLE IF NOT EXISTS snapshots (
			user_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			id TEXT NOT NULL,
			profile TEXT NOT NULL,
			breakdown TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (user_id, position)
		);
	`)
	return err
}

func toTS(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func fromTS(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
