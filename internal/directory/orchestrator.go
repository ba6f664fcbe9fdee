package directory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

type userMutator interface {
	CreateUser(ctx context.Context, body CreateUserBody) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// CreateUserInput is the add-user form.
type CreateUserInput struct {
	Name                 string          `json:"name" validate:"required"`
	Email                string          `json:"email" validate:"required,email"`
	Password             string          `json:"password" validate:"required,min=6"`
	PasswordConfirmation string          `json:"password_confirmation" validate:"omitempty,eqfield=Password"`
	Role                 models.UserRole `json:"role" validate:"required,user_role"`
	Phone                string          `json:"phone"`
	Username             string          `json:"username"`
}

// UpdateUserInput holds edits made on the user detail form.
type UpdateUserInput struct {
	Name     *string
	Username *string
	Phone    *string
	Role     *models.UserRole
}

// Orchestrator runs create, update and delete for one screen, one mutation at a time.
type Orchestrator struct {
	client    userMutator
	pager     *Pager
	validator *validator.Validate
	logger    *zap.Logger

	busy      atomic.Bool
	mu        sync.Mutex
	onCreated []func(*models.User)
}

// NewOrchestrator builds an orchestrator. pager may be nil when no table is displayed.
func NewOrchestrator(client userMutator, pager *Pager, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{client: client, pager: pager, validator: newFormValidator(), logger: logger}
}

// OnCreated registers the completion signal fired after a successful create.
func (o *Orchestrator) OnCreated(fn func(*models.User)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onCreated = append(o.onCreated, fn)
}

// Busy reports whether a mutation is in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Create validates the form and posts it. Nothing is sent when validation fails.
func (o *Orchestrator) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Username = strings.TrimSpace(in.Username)
	if err := o.validator.Struct(in); err != nil {
		return nil, formError(err)
	}

	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrMutationInFlight
	}
	defer o.busy.Store(false)

	user, err := o.client.CreateUser(ctx, CreateUserBody{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
		Phone:    nonEmpty(in.Phone),
		Username: nonEmpty(in.Username),
	})
	if err != nil {
		o.logger.Warn("create user failed", zap.String("email", in.Email), zap.Error(err))
		return nil, asRequestError("create user", err, "Failed to create user")
	}

	o.mu.Lock()
	callbacks := append(([]func(*models.User))(nil), o.onCreated...)
	o.mu.Unlock()
	for _, fn := range callbacks {
		fn(user)
	}
	return user, nil
}

// Update does not persist: the API has no edit endpoint, so edits are logged and echoed back.
func (o *Orchestrator) Update(ctx context.Context, id int64, in UpdateUserInput) (UpdateUserInput, error) {
	fields := make([]string, 0, 4)
	if in.Name != nil {
		fields = append(fields, "name")
	}
	if in.Username != nil {
		fields = append(fields, "username")
	}
	if in.Phone != nil {
		fields = append(fields, "phone")
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return in, newValidationError("role", fmt.Sprintf("role must be one of %s", strings.Join(models.RoleValues(), ", ")))
		}
		fields = append(fields, "role")
	}
	// TODO: send a PATCH /users/:id once the API exposes user edits.
	o.logger.Warn("user edit not persisted", zap.Int64("user_id", id), zap.Strings("fields", fields))
	return in, nil
}

// Delete asks for confirmation, deletes the user and drops it from the displayed page.
// On failure the row stays visible.
func (o *Orchestrator) Delete(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil {
		return ErrDeleteCancelled
	}
	ok, err := confirm.Confirm(ctx, o.deletePrompt(id))
	if err != nil {
		return err
	}
	if !ok {
		return ErrDeleteCancelled
	}

	if !o.busy.CompareAndSwap(false, true) {
		return ErrMutationInFlight
	}
	defer o.busy.Store(false)

	if err := o.client.DeleteUser(ctx, id); err != nil {
		o.logger.Warn("delete user failed", zap.Int64("user_id", id), zap.Error(err))
		return asRequestError("delete user", err, "Failed to delete user")
	}
	if o.pager != nil {
		o.pager.Remove(id)
	}
	return nil
}

func (o *Orchestrator) deletePrompt(id int64) string {
	if o.pager != nil {
		if view, ok := o.pager.Current(); ok {
			for _, user := range view.Records {
				if user.ID == id {
					return fmt.Sprintf("Delete %s (%s)?", user.Name, user.Email)
				}
			}
		}
	}
	return fmt.Sprintf("Delete user #%d?", id)
}

func newFormValidator() *validator.Validate {
	v := models.NewValidator()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	return v
}

func formError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newValidationError("", "Please check the form")
	}
	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return newValidationError(field, fmt.Sprintf("%s is required", field))
	case "email":
		return newValidationError(field, "email must be a valid email address")
	case "min":
		return newValidationError(field, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "eqfield":
		return newValidationError(field, "passwords do not match")
	case models.RoleTag:
		return newValidationError(field, fmt.Sprintf("role must be one of %s", strings.Join(models.RoleValues(), ", ")))
	default:
		return newValidationError(field, fmt.Sprintf("%s is invalid", field))
	}
}

func nonEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
