package adminapi

import (
	"context"

	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/models"
)

type MenuItemInput struct {
	Name        *string        `mapstructure:"name"`
	Description *string        `mapstructure:"description"`
	Price       *float64       `mapstructure:"price"`
	Category    *string        `mapstructure:"category"`
	Restaurant  *string        `mapstructure:"restaurant"`
	IsAvailable *bool          `mapstructure:"is_available"`
	Extra       map[string]any `mapstructure:",remain"`

	Image *formdata.File `mapstructure:"-"`
}

var MenuItemSchema = formdata.Schema[MenuItemInput]{
	formdata.String("name", func(in *MenuItemInput) *string { return in.Name }),
	formdata.String("description", func(in *MenuItemInput) *string { return in.Description }),
	formdata.Float("price", func(in *MenuItemInput) *float64 { return in.Price }),
	formdata.String("category", func(in *MenuItemInput) *string { return in.Category }),
	formdata.String("restaurant", func(in *MenuItemInput) *string { return in.Restaurant }),
	formdata.Bool("is_available", func(in *MenuItemInput) *bool { return in.IsAvailable }),
	formdata.Extra(func(in *MenuItemInput) map[string]any { return in.Extra }),
	formdata.Single("image", "image", func(in *MenuItemInput) *formdata.File { return in.Image }),
}

type MenuItemClient struct {
	c collection[models.MenuItem]
}

func (m *MenuItemClient) GetAll(ctx context.Context, q ListQuery) (*ListResult[models.MenuItem], error) {
	return m.c.list(ctx, q.Values())
}

func (m *MenuItemClient) GetByID(ctx context.Context, id string) (*models.MenuItem, error) {
	return m.c.get(ctx, id)
}

func (m *MenuItemClient) Create(ctx context.Context, in *MenuItemInput) (*models.MenuItem, error) {
	return m.c.sendForm(ctx, "", MenuItemSchema.Build(in))
}

func (m *MenuItemClient) Update(ctx context.Context, id string, in *MenuItemInput) (*models.MenuItem, error) {
	return m.c.sendForm(ctx, id, MenuItemSchema.Build(in))
}

func (m *MenuItemClient) Delete(ctx context.Context, id string) error {
	return m.c.delete(ctx, id)
}
