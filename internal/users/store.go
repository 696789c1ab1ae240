// Package users stores back-office user accounts.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"backoffice/internal/models"
)

var (
	ErrNotFound           = errors.New("users: user not found")
	ErrDuplicate          = errors.New("users: email or phone already registered")
	ErrInvalidCredentials = errors.New("users: wrong email or password")
	ErrInvalid            = errors.New("users: invalid user")
	ErrNoChanges          = errors.New("users: no fields to update")
)

// Store reads and writes users through gorm.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Registration is the input of Register.
type Registration struct {
	FirstName string
	LastName  string
	Age       int
	Phone     string
	Email     string
	Password  string
	City      string
	Country   string
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Country string
	City    string
	Email   string
	MinAge  *int
	MaxAge  *int
}

// Changes is a partial user update; nil fields are left alone.
type Changes struct {
	FirstName *string
	LastName  *string
	Age       *int
	Phone     *string
	Email     *string
	City      *string
	Country   *string
}

// Register hashes the password and inserts a new user.
func (s *Store) Register(ctx context.Context, r Registration) (models.User, error) {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Email == "" || r.Phone == "" || r.Password == "" || r.FirstName == "" || r.LastName == "" {
		return models.User{}, fmt.Errorf("%w: names, email, phone and password are required", ErrInvalid)
	}
	if r.Age < 0 {
		return models.User{}, fmt.Errorf("%w: negative age", ErrInvalid)
	}
	if err := s.ensureUnique(ctx, 0, r.Email, r.Phone); err != nil {
		return models.User{}, err
	}

	hash, err := models.HashPassword(r.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("users: hash password: %w", err)
	}
	u := models.User{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Age:          r.Age,
		Phone:        r.Phone,
		Email:        r.Email,
		PasswordHash: hash,
		City:         r.City,
		Country:      r.Country,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("users: create: %w", err)
	}
	return u, nil
}

// Authenticate returns the user owning email when password matches.
func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !models.CheckPassword(u.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Get returns the user with the given id.
func (s *Store) Get(ctx context.Context, id uint) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return models.User{}, s.wrapGet(err, fmt.Sprintf("id %d", id))
	}
	return u, nil
}

// GetByEmail returns the user registered with email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return models.User{}, s.wrapGet(err, "email "+email)
	}
	return u, nil
}

// List returns users matching f in id order.
func (s *Store) List(ctx context.Context, f Filter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Country != "" {
		q = q.Where("country = ?", f.Country)
	}
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Email != "" {
		q = q.Where("email = ?", strings.ToLower(f.Email))
	}
	if f.MinAge != nil {
		q = q.Where("age >= ?", *f.MinAge)
	}
	if f.MaxAge != nil {
		q = q.Where("age <= ?", *f.MaxAge)
	}
	out := []models.User{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return out, nil
}

// Update applies c and returns the stored user.
func (s *Store) Update(ctx context.Context, id uint, c Changes) (models.User, error) {
	fields := map[string]any{}
	set := func(col string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	set("first_name", c.FirstName)
	set("last_name", c.LastName)
	set("city", c.City)
	set("country", c.Country)
	set("phone", c.Phone)
	if c.Email != nil && strings.TrimSpace(*c.Email) != "" {
		fields["email"] = strings.ToLower(strings.TrimSpace(*c.Email))
	}
	if c.Age != nil {
		if *c.Age < 0 {
			return models.User{}, fmt.Errorf("%w: negative age", ErrInvalid)
		}
		fields["age"] = *c.Age
	}
	if len(fields) == 0 {
		return models.User{}, ErrNoChanges
	}

	email, _ := fields["email"].(string)
	phone, _ := fields["phone"].(string)
	if err := s.ensureUnique(ctx, id, email, phone); err != nil {
		return models.User{}, err
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, fmt.Errorf("users: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.User{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.Get(ctx, id)
}

// Delete removes the user.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("users: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// ensureUnique fails when another user than self owns email or phone.
func (s *Store) ensureUnique(ctx context.Context, self uint, email, phone string) error {
	check := func(col, v string) error {
		if v == "" {
			return nil
		}
		var cnt int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where(col+" = ? AND id <> ?", v, self).Count(&cnt).Error; err != nil {
			return fmt.Errorf("users: check %s: %w", col, err)
		}
		if cnt > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicate, col)
		}
		return nil
	}
	if err := check("email", email); err != nil {
		return err
	}
	return check("phone", phone)
}

func (s *Store) wrapGet(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("users: get %s: %w", what, err)
}
