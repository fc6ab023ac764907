package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/threadline/threadline/app/models"
	"github.com/threadline/threadline/app/repositories"
	"github.com/threadline/threadline/pkg/auth"
	"github.com/threadline/threadline/pkg/logger"
)

// AccountStore is the user persistence surface the account flows need.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// UpdateProfileInput carries the mutable profile fields. Nil pointers mean
// "leave as is"; Addresses replaces the whole collection when present.
type UpdateProfileInput struct {
	Name      *string
	Phone     *string
	Addresses *[]models.Address
}

// AccountService handles registration, login, and profile management.
type AccountService struct {
	users AccountStore
}

func NewAccountService(users AccountStore) *AccountService {
	return &AccountService{users: users}
}

// Register creates a customer account and returns it with a signed token.
// The email is lowercased and trimmed before storage so lookups are
// case-insensitive by construction.
func (s *AccountService) Register(ctx context.Context, name, email, password, phone string) (*models.User, string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    normalizeEmail(email),
		Password: hash,
		Role:     models.RoleCustomer,
		Phone:    strings.TrimSpace(phone),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicateEmail(err) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}

	return user, token, nil
}

// Profile returns the requester's own account document.
func (s *AccountService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the provided fields and persists the document.
// When Addresses is set, the stored collection is replaced wholesale; this
// is the profile contract the clients rely on, address identity being the
// array position.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Addresses != nil {
		addrs := *in.Addresses
		for i := range addrs {
			addrs[i].Normalize()
		}
		user.Addresses = addrs
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// AddAddress appends one address to the profile and persists it.
func (s *AccountService) AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	addr.Normalize()
	user.Addresses = append(user.Addresses, addr)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
