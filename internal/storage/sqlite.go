package storage

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/meur/tierboard/internal/models"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the embedded migrations. The migrate instance is not closed:
// closing it would close the shared *sql.DB.
func (s *Store) migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// --- TierLists ---

const tierListColumns = `id, title, description, content, cover_image, author_id, author_name,
	share_code, is_public, created_at, updated_at`

// generateShareCode creates a short unique share code
func generateShareCode() string {
	u := uuid.New()
	return u.String()[:8]
}

// CreateTierList creates a new tier list
func (s *Store) CreateTierList(tl *models.TierListCreate) (*models.TierList, error) {
	id := uuid.New().String()
	shareCode := generateShareCode()
	content, err := json.Marshal(tl.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content: %w", err)
	}
	now := time.Now()

	_, err = s.db.Exec(`
		INSERT INTO tierlists (id, title, description, content, cover_image, author_id, author_name,
			share_code, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, tl.Title, tl.Description, string(content), tl.CoverImage, tl.AuthorID, tl.AuthorName,
		shareCode, tl.IsPublic, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tier list: %w", err)
	}

	return &models.TierList{
		ID:          id,
		Title:       tl.Title,
		Description: tl.Description,
		Content:     tl.Content,
		CoverImage:  tl.CoverImage,
		AuthorID:    tl.AuthorID,
		AuthorName:  tl.AuthorName,
		ShareCode:   shareCode,
		IsPublic:    tl.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetTierList returns a tier list by ID
func (s *Store) GetTierList(id string) (*models.TierList, error) {
	row := s.db.QueryRow(`SELECT `+tierListColumns+` FROM tierlists WHERE id = ?`, id)
	return scanTierList(row)
}

// GetTierListByShareCode returns a tier list by share code
func (s *Store) GetTierListByShareCode(code string) (*models.TierList, error) {
	row := s.db.QueryRow(`SELECT `+tierListColumns+` FROM tierlists WHERE share_code = ?`, code)
	return scanTierList(row)
}

// ListTierLists returns one page of public tier lists, newest first. Pages start at 1.
func (s *Store) ListTierLists(page, limit int) ([]models.TierListSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	rows, err := s.db.Query(`
		SELECT `+tierListColumns+`
		FROM tierlists WHERE is_public = 1
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tier lists: %w", err)
	}
	return scanSummaries(rows)
}

// ListRandomTierLists returns up to limit public tier lists in random order.
func (s *Store) ListRandomTierLists(limit int) ([]models.TierListSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT `+tierListColumns+`
		FROM tierlists WHERE is_public = 1
		ORDER BY RANDOM() LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list random tier lists: %w", err)
	}
	return scanSummaries(rows)
}

// CountTierLists returns the number of public tier lists.
func (s *Store) CountTierLists() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tierlists WHERE is_public = 1`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tier lists: %w", err)
	}
	return n, nil
}

// UpdateTierList updates an existing tier list. It reports whether the tier list exists.
func (s *Store) UpdateTierList(id string, update *models.TierListUpdate) (bool, error) {
	// Build dynamic update query
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Content != nil {
		content, err := json.Marshal(update.Content)
		if err != nil {
			return false, fmt.Errorf("failed to encode content: %w", err)
		}
		sets = append(sets, "content = ?")
		args = append(args, string(content))
	}
	if update.IsPublic != nil {
		sets = append(sets, "is_public = ?")
		args = append(args, *update.IsPublic)
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE tierlists SET %s WHERE id = ?", strings.Join(sets, ", "))

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update tier list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTierList removes a tier list. It reports whether anything was deleted.
func (s *Store) DeleteTierList(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tierlists WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete tier list: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTierList(row scanner) (*models.TierList, error) {
	var tl models.TierList
	var content string
	var authorID sql.NullString

	err := row.Scan(&tl.ID, &tl.Title, &tl.Description, &content, &tl.CoverImage, &authorID,
		&tl.AuthorName, &tl.ShareCode, &tl.IsPublic, &tl.CreatedAt, &tl.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		tl.AuthorID = &authorID.String
	}
	if err := json.Unmarshal([]byte(content), &tl.Content); err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", tl.ID, err)
	}
	return &tl, nil
}

func scanSummaries(rows *sql.Rows) ([]models.TierListSummary, error) {
	defer rows.Close()

	out := []models.TierListSummary{}
	for rows.Next() {
		tl, err := scanTierList(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, models.TierListSummary{
			ID:         tl.ID,
			Title:      tl.Title,
			CoverImage: tl.CoverImage,
			AuthorName: tl.AuthorName,
			ShareCode:  tl.ShareCode,
			ItemCount:  models.RankedItemCount(tl.Content),
			CreatedAt:  tl.CreatedAt,
		})
	}
	return out, rows.Err()
}
