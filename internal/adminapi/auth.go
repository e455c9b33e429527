package adminapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/httpclient"
	"github.com/thepivo/pivoadmin/internal/models"
	"github.com/thepivo/pivoadmin/internal/session"
)

// AuthClient manages the operator session.
type AuthClient struct {
	transport httpclient.Transport
	store     session.Store
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with the service. When the service answers with a token, the
// token and the returned profile are written to the session before Login returns.
// Nothing is written when the call fails.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, httpclient.ErrInvalidRequest.MsgErr("unable to encode credentials", err)
	}
	env, err := a.transport.Request(ctx, "auth/login", httpclient.RequestOptions{
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeItem[models.User](env)
	if err != nil {
		return nil, err
	}
	res := &LoginResult{Token: env.Token, User: user}
	if env.Token == "" {
		return res, nil
	}
	if err := a.store.SetToken(env.Token); err != nil {
		return nil, err
	}
	if user == nil {
		// the previous operator's profile must not outlive their token
		if err := a.store.ClearUser(); err != nil {
			return nil, err
		}
		return res, nil
	}
	if err := a.store.SetUser(user); err != nil {
		// a token without its profile is not a session we want to leave behind
		_ = a.store.Clear()
		return nil, err
	}
	return res, nil
}

// Logout ends the remote session. The local session is cleared on every path, and
// the remote failure, if any, is still returned.
func (a *AuthClient) Logout(ctx context.Context) (err error) {
	defer func() {
		if cerr := a.store.Clear(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	_, err = a.transport.Request(ctx, "auth/logout", httpclient.RequestOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		log.Warn().Err(err).Msg("remote logout failed, clearing local session")
	}
	return err
}

// GetProfile fetches the operator profile and caches it in the session.
func (a *AuthClient) GetProfile(ctx context.Context) (*models.User, error) {
	env, err := a.transport.Request(ctx, "auth/me", httpclient.RequestOptions{
		Method: http.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	user, err := decodeItem[models.User](env)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := a.store.SetUser(user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// IsAuthenticated reports whether a token is stored.
func (a *AuthClient) IsAuthenticated() bool {
	return a.store.GetToken() != ""
}

// CurrentUser returns the cached profile, or nil.
func (a *AuthClient) CurrentUser() *models.User {
	return a.store.GetUser()
}
