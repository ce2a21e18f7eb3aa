package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/repositories"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// Listing defaults.
const (
	DefaultPage      = 1
	MaxPage          = 1_000_000
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "asc"
)

type UserService interface {
	GetAll(ctx context.Context, filters models.UserFilters, opts models.PaginationOptions) (*models.UserPage, error)
	// GetOne looks a user up by the id as it appears in the path.
	GetOne(ctx context.Context, rawID string) (*models.User, error)
	GetMe(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

// NormalizePagination fills in defaults and clamps the page number and size
// so the row offset always fits.
func NormalizePagination(opts models.PaginationOptions) models.PaginationOptions {
	switch {
	case opts.Page < 1:
		opts.Page = DefaultPage
	case opts.Page > MaxPage:
		opts.Page = MaxPage
	}
	switch {
	case opts.Limit < 1:
		opts.Limit = DefaultLimit
	case opts.Limit > MaxLimit:
		opts.Limit = MaxLimit
	}
	if opts.SortBy == "" {
		opts.SortBy = DefaultSortBy
	}
	opts.SortOrder = strings.ToLower(opts.SortOrder)
	if opts.SortOrder != "desc" {
		opts.SortOrder = DefaultSortOrder
	}
	return opts
}

func (s *userService) GetAll(ctx context.Context, filters models.UserFilters, opts models.PaginationOptions) (*models.UserPage, error) {
	opts = NormalizePagination(opts)
	filters.Email = normalizeEmail(filters.Email)
	filters.SearchTerm = strings.TrimSpace(filters.SearchTerm)
	filters.Fullname = strings.TrimSpace(filters.Fullname)
	if filters.Phone != "" {
		if e164, err := utils.NormalizePhone(filters.Phone); err == nil {
			filters.Phone = e164
		}
	}

	users, total, err := s.users.List(ctx, filters, opts)
	if err != nil {
		utils.Logger.WithError(err).Error("Listing users failed")
		return nil, utils.NewInternal(err)
	}
	if users == nil {
		users = []*models.User{}
	}

	return &models.UserPage{
		Meta: models.PageMeta{Total: total, Page: opts.Page, Limit: opts.Limit},
		Data: users,
	}, nil
}

func (s *userService) GetOne(ctx context.Context, rawID string) (*models.User, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, &utils.CastError{Field: "_id", Value: rawID, Err: err}
	}
	return s.GetMe(ctx, id)
}

func (s *userService) GetMe(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		utils.Logger.WithError(err).Error("User lookup failed")
		return nil, utils.NewInternal(err)
	}
	if user == nil {
		return nil, utils.NewNotFound(utils.MsgUserNotFound)
	}
	return user, nil
}
