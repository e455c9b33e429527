package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thepivo/pivoadmin/internal/adminapi"
	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/models"
)

func newNewsCmd(a *app) *cobra.Command {
	var category, status string
	return resourceCommands[models.News, adminapi.NewsInput]{
		name:     "news",
		singular: "news post",
		list: func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[models.News], error) {
			return c.News.GetAll(ctx, adminapi.NewsQuery{
				Category: category,
				Status:   status,
				Search:   q.Search,
				Page:     q.Page,
				Limit:    q.Limit,
				Sort:     q.Sort,
			})
		},
		get: func(ctx context.Context, c *adminapi.Client, id string) (*models.News, error) {
			return c.News.GetByID(ctx, id)
		},
		create: func(ctx context.Context, c *adminapi.Client, in *adminapi.NewsInput) (*models.News, error) {
			return c.News.Create(ctx, in)
		},
		update: func(ctx context.Context, c *adminapi.Client, id string, in *adminapi.NewsInput) (*models.News, error) {
			return c.News.Update(ctx, id, in)
		},
		delete: func(ctx context.Context, c *adminapi.Client, id string) error {
			return c.News.Delete(ctx, id)
		},
		line: func(n *models.News) string {
			return fmt.Sprintf("%s [%s] (%s)", n.Title, joinNonEmpty(n.CategoryLabel(), n.StatusLabel()), n.ID)
		},
		listFlags: func(cmd *cobra.Command) {
			cmd.Flags().StringVar(&category, "category", "", "Filter by category: events, promo, new_menu, restaurant")
			cmd.Flags().StringVar(&status, "status", "", "Filter by status: draft, published, archived")
		},
		attachments: []attachment[adminapi.NewsInput]{
			{
				flag:   "image",
				usage:  "Cover image file",
				fields: []string{"image"},
				set:    func(in *adminapi.NewsInput, files []*formdata.File) { in.Image = files[0] },
			},
			{
				flag:   "video",
				usage:  "Video file; use --set video_url=URL for a link",
				fields: []string{"video", "video_file"},
				set:    func(in *adminapi.NewsInput, files []*formdata.File) { in.VideoFile = files[0] },
			},
		},
	}.command(a)
}

func newRestaurantsCmd(a *app) *cobra.Command {
	return resourceCommands[models.Restaurant, adminapi.RestaurantInput]{
		name:     "restaurants",
		singular: "restaurant",
		list: func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[models.Restaurant], error) {
			return c.Restaurants.GetAll(ctx, q)
		},
		get: func(ctx context.Context, c *adminapi.Client, id string) (*models.Restaurant, error) {
			return c.Restaurants.GetByID(ctx, id)
		},
		create: func(ctx context.Context, c *adminapi.Client, in *adminapi.RestaurantInput) (*models.Restaurant, error) {
			return c.Restaurants.Create(ctx, in)
		},
		update: func(ctx context.Context, c *adminapi.Client, id string, in *adminapi.RestaurantInput) (*models.Restaurant, error) {
			return c.Restaurants.Update(ctx, id, in)
		},
		delete: func(ctx context.Context, c *adminapi.Client, id string) error {
			return c.Restaurants.Delete(ctx, id)
		},
		line: func(r *models.Restaurant) string {
			s := fmt.Sprintf("%s (%s)", joinNonEmpty(r.Name, r.Address), r.ID)
			if !r.IsActive {
				s += " inactive"
			}
			return s
		},
		attachments: []attachment[adminapi.RestaurantInput]{
			{
				flag:   "images",
				usage:  "Photo file; repeat to upload several in order",
				fields: []string{"images"},
				many:   true,
				set:    func(in *adminapi.RestaurantInput, files []*formdata.File) { in.Images = files },
			},
		},
	}.command(a)
}

func newMenuCmd(a *app) *cobra.Command {
	return resourceCommands[models.MenuItem, adminapi.MenuItemInput]{
		name:     "menu",
		singular: "menu item",
		list: func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[models.MenuItem], error) {
			return c.MenuItems.GetAll(ctx, q)
		},
		get: func(ctx context.Context, c *adminapi.Client, id string) (*models.MenuItem, error) {
			return c.MenuItems.GetByID(ctx, id)
		},
		create: func(ctx context.Context, c *adminapi.Client, in *adminapi.MenuItemInput) (*models.MenuItem, error) {
			return c.MenuItems.Create(ctx, in)
		},
		update: func(ctx context.Context, c *adminapi.Client, id string, in *adminapi.MenuItemInput) (*models.MenuItem, error) {
			return c.MenuItems.Update(ctx, id, in)
		},
		delete: func(ctx context.Context, c *adminapi.Client, id string) error {
			return c.MenuItems.Delete(ctx, id)
		},
		line: func(m *models.MenuItem) string {
			s := fmt.Sprintf("%s %.2f (%s)", joinNonEmpty(m.Name, m.Category), m.Price, m.ID)
			if !m.IsAvailable {
				s += " unavailable"
			}
			return s
		},
		attachments: []attachment[adminapi.MenuItemInput]{
			{
				flag:   "image",
				usage:  "Dish photo file",
				fields: []string{"image"},
				set:    func(in *adminapi.MenuItemInput, files []*formdata.File) { in.Image = files[0] },
			},
		},
	}.command(a)
}

func newUsersCmd(a *app) *cobra.Command {
	return resourceCommands[models.User, adminapi.UserInput]{
		name:     "users",
		singular: "user",
		list: func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[models.User], error) {
			return c.Users.GetAll(ctx, q)
		},
		get: func(ctx context.Context, c *adminapi.Client, id string) (*models.User, error) {
			return c.Users.GetByID(ctx, id)
		},
		create: func(ctx context.Context, c *adminapi.Client, in *adminapi.UserInput) (*models.User, error) {
			return c.Users.Create(ctx, in)
		},
		update: func(ctx context.Context, c *adminapi.Client, id string, in *adminapi.UserInput) (*models.User, error) {
			return c.Users.Update(ctx, id, in)
		},
		delete: func(ctx context.Context, c *adminapi.Client, id string) error {
			return c.Users.Delete(ctx, id)
		},
		line: func(u *models.User) string {
			return fmt.Sprintf("%s <%s> %s (%s)", u.Name, u.Email, u.RoleLabel(), u.ID)
		},
	}.command(a)
}

func newReservationsCmd(a *app) *cobra.Command {
	cmd := resourceCommands[models.Reservation, adminapi.ReservationInput]{
		name:     "reservations",
		singular: "reservation",
		list: func(ctx context.Context, c *adminapi.Client, q adminapi.ListQuery) (*adminapi.ListResult[models.Reservation], error) {
			return c.Reservations.GetAll(ctx, q)
		},
		get: func(ctx context.Context, c *adminapi.Client, id string) (*models.Reservation, error) {
			return c.Reservations.GetByID(ctx, id)
		},
		create: func(ctx context.Context, c *adminapi.Client, in *adminapi.ReservationInput) (*models.Reservation, error) {
			return c.Reservations.Create(ctx, in)
		},
		update: func(ctx context.Context, c *adminapi.Client, id string, in *adminapi.ReservationInput) (*models.Reservation, error) {
			return c.Reservations.Update(ctx, id, in)
		},
		delete: func(ctx context.Context, c *adminapi.Client, id string) error {
			return c.Reservations.Delete(ctx, id)
		},
		line: func(r *models.Reservation) string {
			return fmt.Sprintf("%s, %s %s, %d guests, %s (%s)", r.Name, r.Date, r.Time, r.Guests, r.StatusLabel(), r.ID)
		},
	}.command(a)

	cmd.AddCommand(newReservationStatusCmd(a, "confirm", "Confirm", func(ctx context.Context, c *adminapi.Client, id string) (*models.Reservation, error) {
		return c.Reservations.Confirm(ctx, id)
	}))
	cmd.AddCommand(newReservationStatusCmd(a, "cancel", "Cancel", func(ctx context.Context, c *adminapi.Client, id string) (*models.Reservation, error) {
		return c.Reservations.Cancel(ctx, id)
	}))
	return cmd
}

func newReservationStatusCmd(a *app, use, verb string, fn func(context.Context, *adminapi.Client, string) (*models.Reservation, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: verb + " a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.requireLogin()
			if err != nil {
				return err
			}
			r, err := fn(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			if a.jsonOutput {
				a.printJSON(r)
				return nil
			}
			if r == nil {
				a.printOK("Reservation %s updated", args[0])
				return nil
			}
			a.printOK("Reservation %s is now %s", args[0], r.StatusLabel())
			return nil
		},
	}
}
