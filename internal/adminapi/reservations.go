package adminapi

import (
	"context"

	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/models"
	"github.com/tidwall/sjson"
)

// ReservationInput is sent as JSON. Nil fields are omitted.
type ReservationInput struct {
	Restaurant *string        `json:"restaurant,omitempty" mapstructure:"restaurant"`
	Name       *string        `json:"name,omitempty" mapstructure:"name"`
	Phone      *string        `json:"phone,omitempty" mapstructure:"phone"`
	Email      *string        `json:"email,omitempty" mapstructure:"email"`
	Date       *string        `json:"date,omitempty" mapstructure:"date"`
	Time       *string        `json:"time,omitempty" mapstructure:"time"`
	Guests     *int           `json:"guests,omitempty" mapstructure:"guests"`
	Status     *string        `json:"status,omitempty" mapstructure:"status"`
	Comment    *string        `json:"comment,omitempty" mapstructure:"comment"`
	Extra      map[string]any `json:"-" mapstructure:",remain"`
}

type ReservationClient struct {
	c collection[models.Reservation]
}

func (r *ReservationClient) GetAll(ctx context.Context, q ListQuery) (*ListResult[models.Reservation], error) {
	return r.c.list(ctx, q.Values())
}

func (r *ReservationClient) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	return r.c.get(ctx, id)
}

func (r *ReservationClient) Create(ctx context.Context, in *ReservationInput) (*models.Reservation, error) {
	return r.send(ctx, "", in)
}

func (r *ReservationClient) Update(ctx context.Context, id string, in *ReservationInput) (*models.Reservation, error) {
	return r.send(ctx, id, in)
}

func (r *ReservationClient) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// Confirm sets the reservation status to confirmed.
func (r *ReservationClient) Confirm(ctx context.Context, id string) (*models.Reservation, error) {
	return r.setStatus(ctx, id, models.ReservationConfirmed)
}

// Cancel sets the reservation status to cancelled.
func (r *ReservationClient) Cancel(ctx context.Context, id string) (*models.Reservation, error) {
	return r.setStatus(ctx, id, models.ReservationCancelled)
}

func (r *ReservationClient) setStatus(ctx context.Context, id, status string) (*models.Reservation, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "status", status)
	if err != nil {
		return nil, httpclient.ErrInvalidRequest.MsgErr("unable to encode status", err)
	}
	return r.c.sendJSON(ctx, id, body)
}

func (r *ReservationClient) send(ctx context.Context, id string, in *ReservationInput) (*models.Reservation, error) {
	if in == nil {
		in = &ReservationInput{}
	}
	body, err := jsonBody(in, in.Extra)
	if err != nil {
		return nil, err
	}
	return r.c.sendJSON(ctx, id, body)
}
