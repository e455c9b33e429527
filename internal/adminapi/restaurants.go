package adminapi

import (
	"context"

	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/models"
)

// RestaurantInput is the editable part of a restaurant. Images are uploaded in
// order, one part each.
type RestaurantInput struct {
	Name         *string        `mapstructure:"name"`
	Address      *string        `mapstructure:"address"`
	Phone        *string        `mapstructure:"phone"`
	Email        *string        `mapstructure:"email"`
	Description  *string        `mapstructure:"description"`
	OpeningHours *string        `mapstructure:"opening_hours"`
	Capacity     *int           `mapstructure:"capacity"`
	IsActive     *bool          `mapstructure:"is_active"`
	Extra        map[string]any `mapstructure:",remain"`

	Images []*formdata.File `mapstructure:"-"`
}

var RestaurantSchema = formdata.Schema[RestaurantInput]{
	formdata.String("name", func(in *RestaurantInput) *string { return in.Name }),
	formdata.String("address", func(in *RestaurantInput) *string { return in.Address }),
	formdata.String("phone", func(in *RestaurantInput) *string { return in.Phone }),
	formdata.String("email", func(in *RestaurantInput) *string { return in.Email }),
	formdata.String("description", func(in *RestaurantInput) *string { return in.Description }),
	formdata.String("opening_hours", func(in *RestaurantInput) *string { return in.OpeningHours }),
	formdata.Int("capacity", func(in *RestaurantInput) *int { return in.Capacity }),
	formdata.Bool("is_active", func(in *RestaurantInput) *bool { return in.IsActive }),
	formdata.Extra(func(in *RestaurantInput) map[string]any { return in.Extra }),
	formdata.Repeated("images", "images", func(in *RestaurantInput) []*formdata.File { return in.Images }),
}

type RestaurantClient struct {
	c collection[models.Restaurant]
}

func (r *RestaurantClient) GetAll(ctx context.Context, q ListQuery) (*ListResult[models.Restaurant], error) {
	return r.c.list(ctx, q.Values())
}

func (r *RestaurantClient) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	return r.c.get(ctx, id)
}

func (r *RestaurantClient) Create(ctx context.Context, in *RestaurantInput) (*models.Restaurant, error) {
	return r.c.sendForm(ctx, "", RestaurantSchema.Build(in))
}

func (r *RestaurantClient) Update(ctx context.Context, id string, in *RestaurantInput) (*models.Restaurant, error) {
	return r.c.sendForm(ctx, id, RestaurantSchema.Build(in))
}

func (r *RestaurantClient) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}
