package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ryota-okonogi/wonderful-editor/internal/domain/models"
	"github.com/ryota-okonogi/wonderful-editor/internal/storage"

	"github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// One connection keeps the foreign_keys pragma in effect for every
	// statement and sidesteps sqlite's single-writer lock contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			pass_hash BLOB NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			status TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS article_likes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			article_id INTEGER NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			UNIQUE (user_id, article_id)
		);
`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateUser(ctx context.Context, name, email string, passHash []byte) (models.User, error) {
	const op = "storage.sqlite.CreateUser"

	now := time.Now()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, email, pass_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, email, passHash, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		PassHash:  passHash,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.sqlite.UserByEmail"

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, pass_hash, created_at, updated_at FROM users WHERE email = ?`, email)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PassHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) UserByID(ctx context.Context, id int64) (models.User, error) {
	const op = "storage.sqlite.UserByID"

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, pass_hash, created_at, updated_at FROM users WHERE id = ?`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PassHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// RemoveUser deletes a user. The schema cascades the delete to the user's
// articles and likes.
func (s *Storage) RemoveUser(ctx context.Context, id int64) error {
	const op = "storage.sqlite.RemoveUser"

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}

	return nil
}

const articleColumns = `
	a.id, a.title, a.body, a.status, a.user_id, a.created_at, a.updated_at,
	u.id, u.name, u.email`

func scanArticle(row interface{ Scan(...any) error }) (models.Article, error) {
	var (
		art    models.Article
		author models.User
	)
	err := row.Scan(
		&art.ID, &art.Title, &art.Body, &art.Status, &art.UserID, &art.CreatedAt, &art.UpdatedAt,
		&author.ID, &author.Name, &author.Email,
	)
	if err != nil {
		return models.Article{}, err
	}
	art.Author = &author

	return art, nil
}

func (s *Storage) CreateArticle(ctx context.Context, userID int64, title, body string, status models.Status) (models.Article, error) {
	const op = "storage.sqlite.CreateArticle"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	now := time.Now()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO articles (title, body, status, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		title, body, string(status), userID, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT`+articleColumns+` FROM articles a JOIN users u ON u.id = a.user_id WHERE a.id = ?`, id)

	art, err := scanArticle(row)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

func (s *Storage) ArticleByID(ctx context.Context, id int64) (models.Article, error) {
	const op = "storage.sqlite.ArticleByID"

	row := s.db.QueryRowContext(ctx,
		`SELECT`+articleColumns+` FROM articles a JOIN users u ON u.id = a.user_id WHERE a.id = ?`, id)

	art, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

// UpdateArticle applies the non-nil fields to the article, but only when it
// belongs to userID. A missing row and a row owned by someone else are the
// same ErrArticleNotFound.
func (s *Storage) UpdateArticle(ctx context.Context, id, userID int64, title, body *string, status *models.Status) (models.Article, error) {
	const op = "storage.sqlite.UpdateArticle"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE articles
		 SET title = COALESCE(?, title),
		     body = COALESCE(?, body),
		     status = COALESCE(?, status),
		     updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, body, status, time.Now(), id, userID,
	)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.Article{}, fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT`+articleColumns+` FROM articles a JOIN users u ON u.id = a.user_id WHERE a.id = ?`, id)

	art, err := scanArticle(row)
	if err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Article{}, fmt.Errorf("%s: %w", op, err)
	}

	return art, nil
}

// RemoveArticle deletes the article only when it belongs to userID.
func (s *Storage) RemoveArticle(ctx context.Context, id, userID int64) error {
	const op = "storage.sqlite.RemoveArticle"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM articles WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
	}

	return nil
}

func (s *Storage) PublishedArticles(ctx context.Context) ([]models.Article, error) {
	const op = "storage.sqlite.PublishedArticles"

	rows, err := s.db.QueryContext(ctx,
		`SELECT`+articleColumns+`
		 FROM articles a JOIN users u ON u.id = a.user_id
		 WHERE a.status = ?
		 ORDER BY a.updated_at DESC, a.id DESC`,
		string(models.StatusPublished),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var arts []models.Article
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		arts = append(arts, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

func (s *Storage) PublishedArticlesByUser(ctx context.Context, userID int64) ([]models.Article, error) {
	const op = "storage.sqlite.PublishedArticlesByUser"

	rows, err := s.db.QueryContext(ctx,
		`SELECT`+articleColumns+`
		 FROM articles a JOIN users u ON u.id = a.user_id
		 WHERE a.status = ? AND a.user_id = ?
		 ORDER BY a.updated_at DESC, a.id DESC`,
		string(models.StatusPublished), userID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var arts []models.Article
	for rows.Next() {
		art, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		arts = append(arts, art)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return arts, nil
}

// LikeArticle records a like. Liking an already-liked article is a no-op
// thanks to the UNIQUE (user_id, article_id) index.
func (s *Storage) LikeArticle(ctx context.Context, userID, articleID int64) error {
	const op = "storage.sqlite.LikeArticle"

	now := time.Now()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO article_likes (user_id, article_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		userID, articleID, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return fmt.Errorf("%s: %w", op, storage.ErrArticleNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UnlikeArticle removes a like. Unliking an article that was never liked is a
// no-op.
func (s *Storage) UnlikeArticle(ctx context.Context, userID, articleID int64) error {
	const op = "storage.sqlite.UnlikeArticle"

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM article_likes WHERE user_id = ? AND article_id = ?`,
		userID, articleID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ArticleLikesCount reports how many users liked the article.
func (s *Storage) ArticleLikesCount(ctx context.Context, articleID int64) (int64, error) {
	const op = "storage.sqlite.ArticleLikesCount"

	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_likes WHERE article_id = ?`, articleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
