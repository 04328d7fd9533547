package muser

import (
	"context"
	"strings"

	"kyri56xcaesar/abac-front/internal/utils"
)

type RegisterForm struct {
	Name       string `form:"name"`
	Username   string `form:"username"`
	Password   string `form:"password"`
	RepeatPass string `form:"repeat-password"`
}

func (r RegisterForm) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return utils.NewValidation("name", "cannot be empty")
	}
	if strings.TrimSpace(r.Username) == "" {
		return utils.NewValidation("username", "cannot be empty")
	}
	if r.Password == "" {
		return utils.NewValidation("password", "cannot be empty")
	}
	if r.Password != r.RepeatPass {
		return utils.NewValidation("repeat-password", "passwords do not match")
	}

	return nil
}

// Register creates the account; it does not sign in.
func Register(ctx context.Context, users *Service, form RegisterForm) error {
	if err := form.validate(); err != nil {
		return err
	}

	return users.Create(ctx, CreateUserRequest{
		Username: strings.TrimSpace(form.Username),
		Password: form.Password,
		Name:     strings.TrimSpace(form.Name),
	})
}
