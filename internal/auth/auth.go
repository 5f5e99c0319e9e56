// internal/auth/auth.go
//
// Accounts, sessions and the identity provider for chain submissions.
// Responsibilities:
//   - Signup/login against the users table (bcrypt password hashes).
//   - HS256 JWT signing and parsing.
//   - CurrentUser(): the game.Identity implementation used by the controller.
//
// The HTTP side (token extraction, cookies, middleware) is in middleware.go.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/wordchain/apps/go-server/internal/game"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service owns the users table and token signing.
type Service struct {
	db     *sql.DB
	secret []byte
	expiry time.Duration
	cost   int
}

// NewService returns a Service signing tokens with secret, valid for expiry.
func NewService(db *sql.DB, secret string, expiry time.Duration) *Service {
	return &Service{db: db, secret: []byte(secret), expiry: expiry, cost: bcrypt.DefaultCost}
}

// SetBcryptCost overrides the hashing cost (tests use bcrypt.MinCost).
func (s *Service) SetBcryptCost(cost int) { s.cost = cost }

// Signup validates input, checks uniqueness, hashes the password and
// inserts a new user.
func (s *Service) Signup(ctx context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, password); err != nil {
		return nil, err
	}
	if _, err := s.findByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(h),
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	if err := s.insertUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// insertUser writes u. A concurrent signup that wins the race on the unique
// username index surfaces as ErrUsernameTaken.
func (s *Service) insertUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Login checks username/password and returns the user.
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	u, err := s.findByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// FindByID loads a user; sql.ErrNoRows if missing.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func (s *Service) findByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

// scanUser converts a *sql.Row into a User.
func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("user %s created_at %q: %w", u.ID, created, err)
	}
	u.CreatedAt = t
	return &u, nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

// ------------------------------ JWT ----------------------------------------

// SignToken creates an HS256 JWT carrying id/username.
func (s *Service) SignToken(u *User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.expiry)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       u.ID,
		"username": u.Username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// ParseToken verifies tok and returns the claimed user.
func (s *Service) ParseToken(tok string) (game.User, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return game.User{}, ErrInvalidToken
	}
	id, _ := claims["id"].(string)
	username, _ := claims["username"].(string)
	if id == "" || username == "" {
		return game.User{}, ErrInvalidToken
	}
	return game.User{ID: id, Username: username}, nil
}

// --------------------------- identity provider -----------------------------

// CurrentUser implements game.Identity. The user comes from the request
// context (set by OptionalAuth/RequireAuth) and must still exist.
func (s *Service) CurrentUser(ctx context.Context) (game.User, error) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return game.User{}, ErrUnauthenticated
	}
	row, err := s.FindByID(ctx, u.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return game.User{}, ErrUnauthenticated
		}
		return game.User{}, fmt.Errorf("lookup user %s: %w", u.ID, err)
	}
	return game.User{ID: row.ID, Username: row.Username}, nil
}
