// Package adminapi is the resource facade of the admin client: one sub-client per
// remote collection, each expressed in terms of the httpclient transport. Calls are
// never cached and errors from the transport are returned unchanged.
package adminapi

import (
	jsonitor "github.com/json-iterator/go"
	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/models"
	"github.com/thepivo/pivoadmin/internal/session"
)

var json = jsonitor.ConfigCompatibleWithStandardLibrary

// Remote collection names.
const (
	ResourceNews         = "news"
	ResourceRestaurants  = "restaurants"
	ResourceUsers        = "users"
	ResourceReservations = "reservations"
	ResourceMenu         = "menu"
)

// Client groups the sub-clients. All of them share one transport and one session.
type Client struct {
	Auth         *AuthClient
	News         *NewsClient
	Restaurants  *RestaurantClient
	Users        *UserClient
	Reservations *ReservationClient
	MenuItems    *MenuItemClient
}

// New creates the facade. store must be the session the transport reads its token
// from, so that a login is visible to the following calls.
func New(transport httpclient.Transport, store session.Store) *Client {
	return &Client{
		Auth:         &AuthClient{transport: transport, store: store},
		News:         &NewsClient{collection[models.News]{transport: transport, resource: ResourceNews}},
		Restaurants:  &RestaurantClient{collection[models.Restaurant]{transport: transport, resource: ResourceRestaurants}},
		Users:        &UserClient{collection[models.User]{transport: transport, resource: ResourceUsers}},
		Reservations: &ReservationClient{collection[models.Reservation]{transport: transport, resource: ResourceReservations}},
		MenuItems:    &MenuItemClient{collection[models.MenuItem]{transport: transport, resource: ResourceMenu}},
	}
}

// NewFromHTTPClient creates the facade over an HTTPClient and its own session.
func NewFromHTTPClient(c *httpclient.HTTPClient) *Client {
	return New(c, c.Session())
}
