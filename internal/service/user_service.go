package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/repository"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

const usersListCachePrefix = "users:list:"

// listQueryTimeout bounds a shared list query, which outlives any single caller.
const listQueryTimeout = 10 * time.Second

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateUserRequest represents payload for creating users.
type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
	Phone    *string         `json:"phone"`
	Username *string         `json:"username"`
}

// UserService handles user management workflows.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	cache     *CacheService
	metrics   *MetricsService
	cacheTTL  time.Duration
	group     singleflight.Group
	logger    *zap.Logger
}

// UserServiceOption customises the user service.
type UserServiceOption func(*UserService)

// WithUserCache enables the list page cache.
func WithUserCache(cache *CacheService, ttl time.Duration) UserServiceOption {
	return func(s *UserService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithUserMetrics records mutation outcomes.
func WithUserMetrics(metrics *MetricsService) UserServiceOption {
	return func(s *UserService) {
		s.metrics = metrics
	}
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger, opts ...UserServiceOption) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = models.NewValidator()
	}
	svc := &UserService{repo: repo, validator: validate, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// List returns one page of users in the GET /users wire shape.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) (*models.UserPage, error) {
	filter = normaliseUserFilter(filter)
	key := listCacheKey(filter)

	var cached models.UserPage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	flight := s.group.DoChan(key, func() (interface{}, error) {
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), listQueryTimeout)
		defer cancel()

		users, total, err := s.repo.List(qctx, filter)
		if err != nil {
			return nil, err
		}
		page := &models.UserPage{
			Page:     filter.Page,
			Total:    total,
			LastPage: models.LastPage(total, filter.Limit),
			Message:  "Users retrieved successfully",
			Users:    users,
		}
		if err := s.cache.Set(qctx, key, page, s.cacheTTL); err != nil {
			s.logger.Debug("users list not cached", zap.String("key", key), zap.Error(err))
		}
		return page, nil
	})

	select {
	case <-ctx.Done():
		return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	case res := <-flight:
		if res.Err != nil {
			return nil, appErrors.Wrap(res.Err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
		}
		return res.Val.(*models.UserPage), nil
	}
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// Create adds a new user.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest, actorID int64, meta models.RequestMeta) (user *models.User, err error) {
	defer func() { s.metrics.RecordUserMutation("create", err) }()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, "invalid create user payload"))
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user = &models.User{
		Name:         req.Name,
		Username:     optionalString(req.Username),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Role:         req.Role,
		Phone:        optionalString(req.Phone),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	s.invalidateLists(ctx)

	resourceID := strconv.FormatInt(user.ID, 10)
	newPayload, _ := json.Marshal(map[string]interface{}{"id": user.ID, "email": user.Email, "role": user.Role})
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		ActorID:    actorRef(actorID),
		Action:     models.AuditActionUserCreate,
		Resource:   "users",
		ResourceID: &resourceID,
		NewValues:  newPayload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record user create audit log", zap.Error(err))
	}

	return user, nil
}

// Delete permanently removes a user. A second delete of the same id reports not found.
func (s *UserService) Delete(ctx context.Context, id int64, actorID int64, meta models.RequestMeta) (err error) {
	defer func() { s.metrics.RecordUserMutation("delete", err) }()

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}

	s.invalidateLists(ctx)

	resourceID := strconv.FormatInt(id, 10)
	oldPayload, _ := json.Marshal(map[string]interface{}{"email": user.Email, "role": user.Role})
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		ActorID:    actorRef(actorID),
		Action:     models.AuditActionUserDelete,
		Resource:   "users",
		ResourceID: &resourceID,
		OldValues:  oldPayload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record user delete audit log", zap.Error(err))
	}

	return nil
}

func (s *UserService) invalidateLists(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, usersListCachePrefix+"*"); err != nil {
		s.logger.Warn("failed to invalidate users list cache", zap.Error(err))
	}
}

func normaliseUserFilter(filter models.UserFilter) models.UserFilter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return filter
}

func listCacheKey(filter models.UserFilter) string {
	roles := make([]string, len(filter.Roles))
	for i, role := range filter.Roles {
		roles[i] = string(role)
	}
	sort.Strings(roles)
	return fmt.Sprintf("%spage=%d:limit=%d:search=%s:roles=%s", usersListCachePrefix, filter.Page, filter.Limit, strings.ToLower(filter.Search), strings.Join(roles, ","))
}

func optionalString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func actorRef(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// validationMessage turns the first field error into a readable message.
func validationMessage(err error, fallback string) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fallback
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "email must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case models.RoleTag:
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(models.RoleValues(), ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fallback
	}
}
