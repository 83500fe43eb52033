package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devcheck/devcheck-be/internal/models"
	"github.com/devcheck/devcheck-be/internal/serializers"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	RegisterUser(ctx context.Context, in serializers.RegisterInput) (models.User, error)
	UpdateProfile(ctx context.Context, id string, in serializers.ProfileInput, partial bool) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserService provides business logic for user management.
type UserService struct {
	db   *sql.DB
	cost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, cost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.cost = cost
	return s
}

var errDuplicateUsername = &ConflictError{
	Field:  "username",
	Reason: "a user with that username already exists",
}

const userColumns = `id, username, email, password_hash, is_staff, date_joined`

func scanUser(row scanner) (models.User, error) {
	var (
		u      models.User
		staff  int
		joined string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &staff, &joined); err != nil {
		return models.User{}, err
	}
	u.IsStaff = staff != 0

	var err error
	if u.DateJoined, err = parseTime(joined); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *UserService) getUser(ctx context.Context, db DBTX, column, value string) (models.User, error) {
	row := db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = ?", value)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("loading user: %w", err)
	}
	return u, nil
}

// GetUserByID retrieves a single user by their ID. The password hash is cleared.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	u, err := s.getUser(ctx, s.db, "id", id)
	u.PasswordHash = ""
	return u, err
}

// RegisterUser creates a new account, hashing the password.
func (s *UserService) RegisterUser(ctx context.Context, in serializers.RegisterInput) (models.User, error) {
	if err := in.Validate(); err != nil {
		return models.User{}, err
	}
	return s.createUser(ctx, in.Username.Value, in.Email.Value, in.Password.Value, false)
}

func (s *UserService) createUser(ctx context.Context, username, email, password string, staff bool) (models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsStaff:      staff,
		DateJoined:   now(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash, is_staff, date_joined) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash, boolToInt(user.IsStaff), formatTime(user.DateJoined),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, errDuplicateUsername
		}
		return models.User{}, fmt.Errorf("inserting user: %w", err)
	}

	// Return user without password hash
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile updates the user's own account. A provided password is
// re-hashed; username collisions are conflicts.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in serializers.ProfileInput, partial bool) (models.User, error) {
	if err := in.Validate(partial); err != nil {
		return models.User{}, err
	}

	var u models.User
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		if u, err = s.getUser(ctx, tx, "id", id); err != nil {
			return err
		}
		in.Apply(&u)

		if in.Password.Set {
			hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password.Value), s.cost)
			if err != nil {
				return fmt.Errorf("failed to hash new password: %w", err)
			}
			u.PasswordHash = string(hashed)
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE users SET username = ?, email = ?, password_hash = ? WHERE id = ?",
			u.Username, u.Email, u.PasswordHash, u.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return errDuplicateUsername
			}
			return fmt.Errorf("updating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	u.PasswordHash = ""
	return u, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.getUser(ctx, s.db, "username", username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// EnsureSuperuser creates a staff account unless one with the username
// already exists. It reports whether an account was created.
func (s *UserService) EnsureSuperuser(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || password == "" {
		return false, errors.New("superuser username and password are required")
	}

	_, err := s.getUser(ctx, s.db, "username", username)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ErrNotFound):
		return false, err
	}

	if _, err := s.createUser(ctx, username, email, password, true); err != nil {
		if errors.Is(err, ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
