package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository manages user accounts.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a user repository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares a plaintext password against a stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Create registers a new user. Returns ErrDuplicateEmail when the email is
// already taken and ErrStoreDisabled when no store is configured.
func (r *UserRepository) Create(ctx context.Context, name, email, password string, role Role) (*UserAccount, error) {
	if !r.store.Enabled() {
		return nil, ErrStoreDisabled
	}

	if _, err := r.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &UserAccount{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = r.store.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID.String(), user.Name, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail looks a user up by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*UserAccount, error) {
	if !r.store.Enabled() {
		return nil, ErrStoreDisabled
	}

	user := &UserAccount{}
	var id, role string
	err := r.store.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.ID, _ = uuid.Parse(id)
	user.Role = Role(role)
	return user, nil
}

// Authenticate validates an email/password pair. A missing account and a bad
// password both come back as ErrInvalidCredentials.
func (r *UserRepository) Authenticate(ctx context.Context, email, password string) (*UserAccount, error) {
	user, err := r.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// List returns all user accounts.
func (r *UserRepository) List(ctx context.Context) ([]UserAccount, error) {
	if !r.store.Enabled() {
		return []UserAccount{}, nil
	}

	rows, err := r.store.db.QueryContext(ctx,
		`SELECT id, name, email, password_hash, role, created_at
		 FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []UserAccount{}
	for rows.Next() {
		var u UserAccount
		var id, role string
		if err := rows.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.ID, _ = uuid.Parse(id)
		u.Role = Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteByEmail removes the account with the given email.
func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	if !r.store.Enabled() {
		return ErrStoreDisabled
	}

	res, err := r.store.db.ExecContext(ctx, `DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole changes the role of the account with the given email.
func (r *UserRepository) UpdateRole(ctx context.Context, email string, role Role) error {
	if !r.store.Enabled() {
		return ErrStoreDisabled
	}

	res, err := r.store.db.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE email = $2`,
		string(role), email,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureAdmin seeds a default admin account if no admin exists yet. It is a
// startup convenience: a concurrent duplicate insert across instances is
// tolerated. Seeding is skipped when email or password is empty or the store
// is disabled.
func (r *UserRepository) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if !r.store.Enabled() || email == "" || password == "" {
		return false, nil
	}

	var count int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE role = $1`, string(RoleAdmin),
	).Scan(&count)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if name == "" {
		name = "Administrator"
	}
	_, err = r.Create(ctx, name, email, password, RoleAdmin)
	if err != nil {
		return false, err
	}
	return true, nil
}
