package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/testhelpers"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

func seedUsers(repo *testhelpers.MemoryUserRepository) []*models.User {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	people := []struct {
		name string
		role models.Role
	}{
		{"Alice Rahman", models.RoleUser},
		{"Bob Karim", models.RoleSeller},
		{"alicia Das", models.RoleSeller},
		{"Dina Roy", models.RoleAdmin},
	}
	var out []*models.User
	for i, p := range people {
		u := &models.User{
			ID:           uuid.New(),
			Fullname:     p.name,
			Email:        fmt.Sprintf("user%d@x.com", i),
			Role:         p.role,
			PasswordHash: "hash",
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		repo.Put(u)
		out = append(out, u)
	}
	return out
}

func TestNormalizePagination(t *testing.T) {
	got := NormalizePagination(models.PaginationOptions{})
	assert.Equal(t, models.PaginationOptions{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "asc"}, got)

	got = NormalizePagination(models.PaginationOptions{Page: 3, Limit: 1000, SortBy: "email", SortOrder: "DESC"})
	assert.Equal(t, models.PaginationOptions{Page: 3, Limit: MaxLimit, SortBy: "email", SortOrder: "desc"}, got)

	got = NormalizePagination(models.PaginationOptions{Page: math.MaxInt / 10, Limit: MaxLimit})
	assert.Equal(t, MaxPage, got.Page)
	assert.Equal(t, (MaxPage-1)*MaxLimit, got.Offset())
}

func TestUserService_GetAll(t *testing.T) {
	repo := testhelpers.NewMemoryUserRepository()
	seeded := seedUsers(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		page, err := svc.GetAll(ctx, models.UserFilters{}, models.PaginationOptions{})
		require.NoError(t, err)
		assert.Equal(t, models.PageMeta{Total: 4, Page: 1, Limit: 10}, page.Meta)
		require.Len(t, page.Data, 4)
		assert.Equal(t, seeded[0].ID, page.Data[0].ID)
		for _, u := range page.Data {
			assert.Empty(t, u.PasswordHash)
		}
	})

	t.Run("fullname is a case-insensitive partial match", func(t *testing.T) {
		page, err := svc.GetAll(ctx, models.UserFilters{Fullname: "ALIC"}, models.PaginationOptions{})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Meta.Total)
	})

	t.Run("role and paging", func(t *testing.T) {
		page, err := svc.GetAll(ctx, models.UserFilters{Role: models.RoleSeller},
			models.PaginationOptions{Page: 2, Limit: 1, SortBy: "createdAt", SortOrder: "desc"})
		require.NoError(t, err)
		assert.Equal(t, models.PageMeta{Total: 2, Page: 2, Limit: 1}, page.Meta)
		require.Len(t, page.Data, 1)
		assert.Equal(t, seeded[1].ID, page.Data[0].ID)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		page, err := svc.GetAll(ctx, models.UserFilters{Email: "nobody@x.com"}, models.PaginationOptions{})
		require.NoError(t, err)
		assert.NotNil(t, page.Data)
		assert.Empty(t, page.Data)
	})
}

func TestUserService_GetAllStoreFailure(t *testing.T) {
	repo := testhelpers.NewMemoryUserRepository()
	repo.Err = errors.New("down")

	_, err := NewUserService(repo).GetAll(context.Background(), models.UserFilters{}, models.PaginationOptions{})
	assert.True(t, utils.IsKind(err, utils.KindInternal))
}

func TestUserService_GetOne(t *testing.T) {
	repo := testhelpers.NewMemoryUserRepository()
	seeded := seedUsers(repo)
	svc := NewUserService(repo)

	u, err := svc.GetOne(context.Background(), seeded[2].ID.String())
	require.NoError(t, err)
	assert.Equal(t, seeded[2].Fullname, u.Fullname)

	_, err = svc.GetOne(context.Background(), uuid.NewString())
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	_, err = svc.GetOne(context.Background(), "12345")
	var castErr *utils.CastError
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, "_id", castErr.Field)
}
