// Package storage provides the persistence layer: search history, price
// history, and user accounts over sqlite or postgres. An unconfigured store
// degrades every operation to a safe no-op or empty result.
package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/GitSubham-00/shopgenius-ai-backend/internal/catalog"
)

// Role represents a user account role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// SearchHistoryEntry captures one completed search: the original
// (pre-translation) query, the result count, and the full normalized product
// list. Append-only.
type SearchHistoryEntry struct {
	ID        uuid.UUID               `json:"id"`
	Query     string                  `json:"query"`
	Total     int                     `json:"total"`
	Products  []catalog.ProductRecord `json:"products"`
	CreatedAt time.Time               `json:"timestamp"`
}

// PriceHistoryEntry is one price observation for a product title.
// Append-only; never updated or deleted.
type PriceHistoryEntry struct {
	ID        uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	Price     string    `json:"price"`
	CreatedAt time.Time `json:"timestamp"`
}

// UserAccount is a registered user. Email is the unique lookup key.
type UserAccount struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
