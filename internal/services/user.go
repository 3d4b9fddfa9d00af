// server/internal/services/user.go
package services

import (
	"context"
	"log/slog"
	"strings"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/store"
)

const (
	msgDuplicateUser  = "User with this email already exists"
	minPasswordLength = 6
)

var userSchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyStatus: {Name: "status", Allowed: []string{"active", "inactive"}},
		query.KeyType:   {Name: "role", Allowed: models.Roles},
	},
	SearchFields: []string{"name", "email"},
	Sort:         []query.SortKey{{Field: "createdAt", Desc: true}},
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdateInput is the patchable part of a user; the password is changed separately.
type UserUpdateInput struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type UserService struct {
	res    resource[models.User]
	tokens *auth.Manager
}

func NewUserService(repo store.Repository[models.User], tokens *auth.Manager, log *slog.Logger) *UserService {
	return &UserService{
		res:    resource[models.User]{name: "User", repo: repo, schema: userSchema, log: log},
		tokens: tokens,
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	role, err := enum("role", in.Role, string(models.RoleStaff), models.Roles)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	u := models.User{Name: name, Email: email, Password: hash, Role: models.Role(role), Status: "active"}
	if err := s.res.repo.Insert(ctx, &u); err != nil {
		return nil, s.res.duplicate(err, "create", msgDuplicateUser)
	}
	return &u, nil
}

// Login checks the credentials and issues a JWT. Unknown email and wrong password give the
// same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, u.Password) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}
	if u.Status != "active" {
		return nil, apperr.Unauthorized("Account is inactive")
	}
	token, err := s.tokens.GenerateJWT(u.ID.Hex(), u.Email, string(u.Role))
	if err != nil {
		return nil, apperr.Internal(err, "failed to generate token")
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	items, err := s.res.repo.Find(ctx, query.Query{
		Equals: []query.Condition{{Field: "email", Value: strings.ToLower(strings.TrimSpace(email))}},
		Page:   1,
		Limit:  1,
	})
	if err != nil {
		return nil, s.res.wrap(err, "get")
	}
	if len(items) == 0 {
		return nil, s.res.wrap(store.ErrNotFound, "get")
	}
	return &items[0], nil
}

func (s *UserService) List(ctx context.Context, f query.Filter) ([]models.User, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.res.get(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, patch []byte) (*models.User, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(UserUpdateInput{Name: current.Name, Role: string(current.Role), Status: current.Status}, patch)
	if err != nil {
		return nil, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return nil, err
	}
	role, err := enum("role", in.Role, "", models.Roles)
	if err != nil {
		return nil, err
	}
	status, err := enum("status", in.Status, "active", []string{"active", "inactive"})
	if err != nil {
		return nil, err
	}
	current.Name, current.Role, current.Status = name, models.Role(role), status
	if err := s.res.repo.Replace(ctx, current); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return current, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account when no user has that email yet.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return false, err
	}
	_, err = s.Register(ctx, RegisterInput{Name: "Administrator", Email: email, Password: password, Role: string(models.RoleAdmin)})
	if err != nil {
		// Một instance khác vừa tạo admin.
		if apperr.KindOf(err) == apperr.KindDuplicate {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
