package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/catalog"
)

// HistoryRepository records search and price observations. All writes are
// append-only and best-effort; with a disabled store they become no-ops and
// reads return empty results.
type HistoryRepository struct {
	store *Store
}

// NewHistoryRepository creates a history repository.
func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// SaveSearch appends one SearchHistoryEntry. The product list is stored as a
// JSON document alongside the query and result count.
func (r *HistoryRepository) SaveSearch(ctx context.Context, query string, products []catalog.ProductRecord) error {
	if !r.store.Enabled() {
		return nil
	}

	doc, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO search_history (id, query, total, products, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), query, len(products), string(doc), time.Now().UTC(),
	)
	return err
}

// SavePrices appends one PriceHistoryEntry per product record.
func (r *HistoryRepository) SavePrices(ctx context.Context, products []catalog.ProductRecord) error {
	if !r.store.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	for _, p := range products {
		_, err := r.store.db.ExecContext(ctx,
			`INSERT INTO price_history (id, title, price, created_at)
			 VALUES ($1, $2, $3, $4)`,
			uuid.New().String(), p.Title, p.Price, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// PriceHistory returns every observation for the exact title, newest first.
func (r *HistoryRepository) PriceHistory(ctx context.Context, title string) ([]PriceHistoryEntry, error) {
	if !r.store.Enabled() {
		return []PriceHistoryEntry{}, nil
	}

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, title, price, created_at
		 FROM price_history
		 WHERE title = $1
		 ORDER BY created_at DESC`,
		title,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []PriceHistoryEntry{}
	for rows.Next() {
		var e PriceHistoryEntry
		var id string
		if err := rows.Scan(&id, &e.Title, &e.Price, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID, _ = uuid.Parse(id)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecentSearches returns the latest search entries, newest first. Used by the
// admin CLI.
func (r *HistoryRepository) RecentSearches(ctx context.Context, limit int) ([]SearchHistoryEntry, error) {
	if !r.store.Enabled() {
		return []SearchHistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, query, total, products, created_at
		 FROM search_history
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []SearchHistoryEntry{}
	for rows.Next() {
		var e SearchHistoryEntry
		var id, doc string
		if err := rows.Scan(&id, &e.Query, &e.Total, &doc, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID, _ = uuid.Parse(id)
		if err := json.Unmarshal([]byte(doc), &e.Products); err != nil {
			e.Products = []catalog.ProductRecord{}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
