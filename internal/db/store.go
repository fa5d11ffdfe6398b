package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/essence-shop/essence/internal/models"
	"github.com/essence-shop/essence/internal/shared"
)

// Store implements Database on top of gorm
type Store struct {
	db *gorm.DB
}

var _ Database = (*Store)(nil)

// NewStore creates a store bound to a gorm session
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithTx runs fn inside a transaction
func (s *Store) WithTx(ctx context.Context, fn func(tx Database) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) session(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// translate maps driver errors onto the package's sentinel errors
func translate(err error, entity, key string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s not found: %s: %w", entity, key, ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s already exists: %s: %w", entity, key, ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s %s is still referenced or references a missing row: %w", entity, key, ErrConflict)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return true
		}
		// ON DELETE RESTRICT is enforced as a trigger-style constraint
		return liteErr.Code == sqlite3.ErrConstraint &&
			(liteErr.ExtendedCode == sqlite3.ErrConstraintTrigger ||
				strings.Contains(liteErr.Error(), "FOREIGN KEY"))
	}
	return false
}

// affected turns a zero-row update or delete into ErrNotFound
func affected(result *gorm.DB, entity, key string) error {
	if result.Error != nil {
		return translate(result.Error, entity, key)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s not found: %s: %w", entity, key, ErrNotFound)
	}
	return nil
}

// paginate applies a limit/offset window; a non-positive limit means no limit
func paginate(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

// User Operations

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return translate(s.session(ctx).Create(user).Error, "user", user.Email)
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.session(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user", id)
	}
	return &user, nil
}

// ListUsers lists users, newest first
func (s *Store) ListUsers(ctx context.Context, page shared.Page) ([]*models.User, int64, error) {
	var (
		users []*models.User
		total int64
	)
	q := s.session(ctx).Model(&models.User{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Order("created_at DESC"), page.Limit, page.Offset).Find(&users).Error
	return users, total, err
}

// UpdateUser updates an existing user
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	result := s.session(ctx).Model(user).Select("name", "phone", "password_hash", "active", "updated_at").Updates(user)
	return affected(result, "user", user.ID)
}

// DeleteUser deletes a user
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	return affected(s.session(ctx).Delete(&models.User{}, "id = ?", id), "user", id)
}

// Brand Operations

// CreateBrand creates a new brand
func (s *Store) CreateBrand(ctx context.Context, brand *models.Brand) error {
	if brand.ID == "" {
		brand.ID = uuid.NewString()
	}
	return translate(s.session(ctx).Create(brand).Error, "brand", brand.Name)
}

// GetBrand retrieves a brand by ID
func (s *Store) GetBrand(ctx context.Context, id string) (*models.Brand, error) {
	var brand models.Brand
	if err := s.session(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, translate(err, "brand", id)
	}
	return &brand, nil
}

// ListBrands lists brands alphabetically
func (s *Store) ListBrands(ctx context.Context, page shared.Page) ([]*models.Brand, int64, error) {
	var (
		brands []*models.Brand
		total  int64
	)
	q := s.session(ctx).Model(&models.Brand{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Order("name ASC"), page.Limit, page.Offset).Find(&brands).Error
	return brands, total, err
}

// UpdateBrand updates an existing brand
func (s *Store) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	result := s.session(ctx).Model(brand).Select("name", "description", "logo_url", "updated_at").Updates(brand)
	return affected(result, "brand", brand.ID)
}

// DeleteBrand deletes a brand. Brands that still carry products cannot be deleted.
func (s *Store) DeleteBrand(ctx context.Context, id string) error {
	var products int64
	if err := s.session(ctx).Model(&models.Product{}).Where("brand_id = ?", id).Count(&products).Error; err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("brand %s still has %d products: %w", id, products, ErrConflict)
	}
	return affected(s.session(ctx).Delete(&models.Brand{}, "id = ?", id), "brand", id)
}
