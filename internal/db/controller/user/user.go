// Package user provides the persistence operations on user records.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/marketlink/marketlink/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
	idQueryPattern    = "id = ?"

	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueViolated = "UNIQUE constraint failed"
)

// Conn hands out the database handle, see pool.Pool.
type Conn interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Store reads and writes user records.
type Store struct {
	conn Conn
}

// New creates a Store on conn.
func New(conn Conn) *Store {
	return &Store{conn: conn}
}

func (s *Store) db(ctx context.Context) (*gorm.DB, error) {
	if s == nil || s.conn == nil {
		return nil, ErrDBNil
	}

	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if db == nil {
		return nil, ErrDBNil
	}

	return db.WithContext(ctx), nil
}

// FindByEmail returns the record with the given email. The email is normalized first.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, ErrEmailEmpty
	}

	return s.first(ctx, emailQueryPattern, email)
}

// FindByID returns the record with the given id.
func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrIDEmpty
	}

	return s.first(ctx, idQueryPattern, id)
}

func (s *Store) first(ctx context.Context, query string, arg any) (*models.User, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	var u models.User

	result := db.Where(query, arg).Take(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// Insert creates u. A missing ID is generated, the email is normalized and a
// missing user type is set to unassigned. A taken email yields ErrDuplicateEmail.
func (s *Store) Insert(ctx context.Context, u *models.User) error {
	u.Email = models.NormalizeEmail(u.Email)
	if u.Email == "" {
		return ErrEmailEmpty
	}

	db, err := s.db(ctx)
	if err != nil {
		return err
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	if u.UserType == "" {
		u.UserType = models.UserTypeUnassigned
	}

	if err = db.Create(u).Error; err != nil {
		if IsDuplicate(err) {
			return ErrDuplicateEmail
		}

		return err //nolint:wrapcheck
	}

	return nil
}

// UpdateByID writes the named fields of values to the record with the given id.
// Fields are gorm field names such as "UserType" or "Company"; zero values are written too.
func (s *Store) UpdateByID(ctx context.Context, id string, values *models.User, fields ...string) error {
	if id == "" {
		return ErrIDEmpty
	}

	if len(fields) == 0 {
		return nil
	}

	db, err := s.db(ctx)
	if err != nil {
		return err
	}

	values.UpdatedAt = time.Now()

	result := db.Model(&models.User{}).
		Where(idQueryPattern, id).
		Select(append(fields[:len(fields):len(fields)], "UpdatedAt")).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// IsDuplicate reports whether err is a unique constraint violation of any supported engine.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}

	return strings.Contains(err.Error(), sqliteUniqueViolated)
}
