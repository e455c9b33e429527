package adminapi

import (
	"context"

	"github.com/thepivo/pivoadmin/internal/models"
)

// UserInput is sent as JSON. Nil fields are omitted.
type UserInput struct {
	Name       *string        `json:"name,omitempty" mapstructure:"name"`
	Email      *string        `json:"email,omitempty" mapstructure:"email"`
	Password   *string        `json:"password,omitempty" mapstructure:"password"`
	Role       *string        `json:"role,omitempty" mapstructure:"role"`
	Phone      *string        `json:"phone,omitempty" mapstructure:"phone"`
	Restaurant *string        `json:"restaurant,omitempty" mapstructure:"restaurant"`
	Extra      map[string]any `json:"-" mapstructure:",remain"`
}

type UserClient struct {
	c collection[models.User]
}

func (u *UserClient) GetAll(ctx context.Context, q ListQuery) (*ListResult[models.User], error) {
	return u.c.list(ctx, q.Values())
}

func (u *UserClient) GetByID(ctx context.Context, id string) (*models.User, error) {
	return u.c.get(ctx, id)
}

func (u *UserClient) Create(ctx context.Context, in *UserInput) (*models.User, error) {
	return u.send(ctx, "", in)
}

func (u *UserClient) Update(ctx context.Context, id string, in *UserInput) (*models.User, error) {
	return u.send(ctx, id, in)
}

func (u *UserClient) Delete(ctx context.Context, id string) error {
	return u.c.delete(ctx, id)
}

func (u *UserClient) send(ctx context.Context, id string, in *UserInput) (*models.User, error) {
	if in == nil {
		in = &UserInput{}
	}
	body, err := jsonBody(in, in.Extra)
	if err != nil {
		return nil, err
	}
	return u.c.sendJSON(ctx, id, body)
}
