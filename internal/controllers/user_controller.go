package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shadiptomojumder/skb-backend/internal/dtos"
	"github.com/shadiptomojumder/skb-backend/internal/middleware"
	"github.com/shadiptomojumder/skb-backend/internal/models"
	"github.com/shadiptomojumder/skb-backend/internal/services"
	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

type UserController struct {
	userService services.UserService
	errors      *utils.ErrorRenderer
}

func NewUserController(userService services.UserService, renderer *utils.ErrorRenderer) *UserController {
	return &UserController{userService: userService, errors: renderer}
}

// GetAll handles GET /api/v1/user/all.
func (c *UserController) GetAll(w http.ResponseWriter, r *http.Request) {
	q, err := parseListUsersQuery(r)
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}
	if err := utils.Validate.Struct(q); err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	filters := models.UserFilters{
		SearchTerm: q.SearchTerm,
		Fullname:   q.Fullname,
		Email:      q.Email,
		Phone:      q.Phone,
		Role:       models.Role(q.Role),
	}
	opts := models.PaginationOptions{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}

	page, err := c.userService.GetAll(r.Context(), filters, opts)
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, "Users retrieved successfully", page.Data, page.Meta)
}

// GetMe handles GET /api/v1/user/me.
func (c *UserController) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		c.errors.HandleError(w, r, utils.NewUnauthorized(utils.MsgNotAuthorized))
		return
	}

	user, err := c.userService.GetMe(r.Context(), claims.UserID)
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "User retrieved successfully", user, nil)
}

// GetOne handles GET /api/v1/user/{id}.
func (c *UserController) GetOne(w http.ResponseWriter, r *http.Request) {
	user, err := c.userService.GetOne(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.errors.HandleError(w, r, err)
		return
	}
	utils.RespondSuccess(w, http.StatusOK, "User retrieved successfully", user, nil)
}

func parseListUsersQuery(r *http.Request) (dtos.ListUsersQuery, error) {
	values := r.URL.Query()
	q := dtos.ListUsersQuery{
		SearchTerm: values.Get("searchTerm"),
		Fullname:   values.Get("fullname"),
		Email:      values.Get("email"),
		Phone:      values.Get("phone"),
		Role:       values.Get("role"),
		SortBy:     values.Get("sortBy"),
		SortOrder:  values.Get("sortOrder"),
	}

	var err error
	if q.Page, err = queryInt(r, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		return q, err
	}
	return q, nil
}
