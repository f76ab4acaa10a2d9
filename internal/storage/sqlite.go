package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"reels_monitor/internal/model"
	"reels_monitor/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// columnDef is one entry of the additive schema manifest.
type columnDef struct {
	name    string
	sqlType string
}

// expectedColumns is the declarative column manifest diffed against the live
// table on every open. It covers columns added after the base migration,
// including the reserved analysis columns populated by the out-of-band
// transcription/classification jobs. Additions only; columns are never
// dropped or renamed.
var expectedColumns = []columnDef{
	{"post_type", "TEXT"},
	{"media_url", "TEXT"},
	{"transcript", "TEXT"},
	{"ai_label", "TEXT"},
	{"ai_score", "INTEGER"},
	{"ai_summary", "TEXT"},
	{"ai_reason", "TEXT"},
	{"ai_ran_at", "TEXT"},
}

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn, runs pending migrations and
// applies the additive column manifest.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := ensureColumns(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure columns: %w", err)
	}

	return &SQLite{db: db}, nil
}

// ensureColumns adds every manifest column missing from the posts table,
// defaulting to NULL. Columns already present from a prior run are skipped.
func ensureColumns(db *sql.DB) error {
	rows, err := db.Query("PRAGMA table_info(posts)")
	if err != nil {
		return fmt.Errorf("table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			dflt       sql.NullString
			primaryKey int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &primaryKey); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, col := range expectedColumns {
		if existing[col.name] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE posts ADD COLUMN %s %s", col.name, col.sqlType)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("add column %s: %w", col.name, err)
		}
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// InsertPost inserts a post, ignoring duplicates of (username, url).
// On success the post's ID and ScrapedAt are populated.
func (s *SQLite) InsertPost(ctx context.Context, post *model.Post) (bool, error) {
	if post.Username == "" || post.URL == "" {
		return false, fmt.Errorf("post missing natural key (username=%q, url=%q)", post.Username, post.URL)
	}

	now := time.Now().UTC().Truncate(time.Second)
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO posts (username, url, post_type, caption, timestamp, scraped_at, media_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.Username, post.URL, string(post.Type),
		nullIfEmpty(post.Caption), nullIfEmpty(post.Timestamp),
		now.Format(timeLayout), nullIfEmpty(post.MediaURL),
	)
	if err != nil {
		return false, fmt.Errorf("insert post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	id, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("last insert id: %w", err)
	}
	post.ID = id
	post.ScrapedAt = now
	return true, nil
}

// GetPost returns the post with the given natural key.
func (s *SQLite) GetPost(ctx context.Context, username, url string) (*model.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, url, post_type, caption, timestamp, scraped_at, media_url
		 FROM posts WHERE username = ? AND url = ?`, username, url,
	)
	return scanPost(row)
}

// ListPosts returns all posts for the given account, oldest first.
func (s *SQLite) ListPosts(ctx context.Context, username string) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, url, post_type, caption, timestamp, scraped_at, media_url
		 FROM posts WHERE username = ? ORDER BY id`, username,
	)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// CountPosts returns the total number of stored posts.
func (s *SQLite) CountPosts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPost(row scannable) (*model.Post, error) {
	var p model.Post
	var postType, caption, timestamp, mediaURL sql.NullString
	var scrapedAt string
	err := row.Scan(&p.ID, &p.Username, &p.URL, &postType, &caption, &timestamp, &scrapedAt, &mediaURL)
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	p.Type = model.PostType(postType.String)
	p.Caption = caption.String
	p.Timestamp = timestamp.String
	p.MediaURL = mediaURL.String
	p.ScrapedAt, _ = time.Parse(timeLayout, scrapedAt)
	return &p, nil
}
