package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/shadiptomojumder/skb-backend/internal/models"
)

// UserRepository persists identities. Every read path except
// GetPasswordHash leaves the password hash, refresh token and OTP out.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByEmailOrFullname returns any user matching either value.
	FindByEmailOrFullname(ctx context.Context, email, fullname string) (*models.User, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	// GetPasswordHash explicitly selects the secret for credential checks.
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	// UpdateRefreshToken overwrites the stored refresh token.
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error
	List(ctx context.Context, filters models.UserFilters, opts models.PaginationOptions) ([]*models.User, int, error)
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func baseSelectUser() string {
	return `
		SELECT id, fullname, email, phone, address, avatar, role, created_at, updated_at
		FROM users
	`
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.DefaultRole
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (
			id, fullname, email, phone, address, avatar, role, password_hash,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`, u.ID, u.Fullname, u.Email, u.Phone, u.Address, u.Avatar, string(u.Role), u.PasswordHash)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id)
	return scanUser(row)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1", email)
	return scanUser(row)
}

func (r *userRepo) FindByEmailOrFullname(ctx context.Context, email, fullname string) (*models.User, error) {
	row := r.db.QueryRow(ctx, baseSelectUser()+" WHERE email=$1 OR fullname=$2 LIMIT 1", email, fullname)
	return scanUser(row)
}

func (r *userRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE phone=$1)`, phone).Scan(&exists)
	return exists, err
}

func (r *userRepo) GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error) {
	var hash string
	err := r.db.QueryRow(ctx, `SELECT password_hash FROM users WHERE id=$1`, id).Scan(&hash)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	return hash, err
}

func (r *userRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, refreshToken string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET refresh_token=$2, updated_at=NOW() WHERE id=$1
	`, id, refreshToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// sortColumns whitelists the sortable fields; keys are the API names.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"fullname":  "fullname",
	"email":     "email",
	"role":      "role",
}

func (r *userRepo) List(ctx context.Context, f models.UserFilters, opts models.PaginationOptions) ([]*models.User, int, error) {
	where, args := userWhere(f)

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if strings.EqualFold(opts.SortOrder, "desc") {
		dir = "DESC"
	}

	query := fmt.Sprintf("%s%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		baseSelectUser(), where, col, dir, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*models.User, 0, opts.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// userWhere builds the WHERE clause for f. Name filters are
// case-insensitive partial matches; the rest are exact.
func userWhere(f models.UserFilters) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.SearchTerm != "" {
		args = append(args, "%"+escapeLike(f.SearchTerm)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(fullname ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n))
	}
	if f.Fullname != "" {
		add("fullname ILIKE $%d", "%"+escapeLike(f.Fullname)+"%")
	}
	if f.Email != "" {
		add("email = $%d", f.Email)
	}
	if f.Phone != "" {
		add("phone = $%d", f.Phone)
	}
	if f.Role != "" {
		add("role = $%d", string(f.Role))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(
		&u.ID, &u.Fullname, &u.Email, &u.Phone, &u.Address, &u.Avatar,
		&role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}
