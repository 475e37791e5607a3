package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jpryor812/shopify-aloha/internal/models"
	"github.com/jpryor812/shopify-aloha/internal/utils"
)

// RecommendationService persists merchant-authored recommendation lists in
// sqlite and serves reads from an in-memory snapshot. Writes replace the
// full map, matching how the admin surface submits it.
type RecommendationService struct {
	db *sql.DB

	mu       sync.RWMutex
	snapshot map[string][]models.CustomRecommendation
}

func NewRecommendationService(dbPath string) (*RecommendationService, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open recommendations db: %w", err)
	}

	s := &RecommendationService{
		db:       db,
		snapshot: make(map[string][]models.CustomRecommendation),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *RecommendationService) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS recommendations (
		product_id      TEXT PRIMARY KEY,
		recommendations TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migrate recommendations: %w", err)
	}
	return nil
}

func (s *RecommendationService) load() error {
	rows, err := s.db.Query(`SELECT product_id, recommendations FROM recommendations`)
	if err != nil {
		return fmt.Errorf("load recommendations: %w", err)
	}
	defer rows.Close()

	snapshot := make(map[string][]models.CustomRecommendation)
	for rows.Next() {
		var productID, raw string
		if err := rows.Scan(&productID, &raw); err != nil {
			return fmt.Errorf("scan recommendation row: %w", err)
		}
		var recs []models.CustomRecommendation
		if err := json.Unmarshal([]byte(raw), &recs); err != nil {
			return fmt.Errorf("decode recommendations for %s: %w", productID, err)
		}
		snapshot[productID] = recs
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load recommendations: %w", err)
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return nil
}

// Reload re-reads the full mapping from sqlite, picking up rows written by
// other processes sharing the database file.
func (s *RecommendationService) Reload(ctx context.Context) error {
	if err := s.load(); err != nil {
		utils.LogWarn(ctx, "recommendations reload failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Empty reports whether the snapshot currently holds no entries.
func (s *RecommendationService) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot) == 0
}

// All returns the full recommendation map. The result is a fresh map but
// shares the underlying slices; callers must not mutate them.
func (s *RecommendationService) All() map[string][]models.CustomRecommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]models.CustomRecommendation, len(s.snapshot))
	for k, v := range s.snapshot {
		out[k] = v
	}
	return out
}

// ForProduct returns the authored list for one product, nil if absent.
func (s *RecommendationService) ForProduct(productID string) []models.CustomRecommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot[productID]
}

// Save replaces the recommendation list for a product. An empty list
// removes the entry.
func (s *RecommendationService) Save(ctx context.Context, productID string, recs []models.CustomRecommendation) error {
	if len(recs) == 0 {
		if _, err := s.db.Exec(`DELETE FROM recommendations WHERE product_id = ?`, productID); err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}
		s.mu.Lock()
		delete(s.snapshot, productID)
		s.mu.Unlock()
		utils.LogInfo(ctx, "🗑️ recommendations cleared", slog.String("product_id", productID))
		return nil
	}

	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}

	_, err = s.db.Exec(`
	INSERT INTO recommendations (product_id, recommendations) VALUES (?, ?)
	ON CONFLICT(product_id) DO UPDATE SET recommendations = excluded.recommendations`,
		productID, string(raw))
	if err != nil {
		return fmt.Errorf("save recommendations: %w", err)
	}

	s.mu.Lock()
	s.snapshot[productID] = recs
	s.mu.Unlock()

	utils.LogInfo(ctx, "💾 recommendations saved",
		slog.String("product_id", productID),
		slog.Int("count", len(recs)),
	)
	return nil
}

func (s *RecommendationService) Close() error {
	return s.db.Close()
}
