package fakeapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/thepivo/pivoadmin/internal/common/httpx"
	"github.com/thepivo/pivoadmin/internal/common/uuid"
	"github.com/thepivo/pivoadmin/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// account is a user record with its password hash.
type account struct {
	User         models.User
	PasswordHash []byte
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type principalKey struct{}

type principal struct {
	user   models.User
	claims *claims
}

func principalFrom(ctx context.Context) *principal {
	p, _ := ctx.Value(principalKey{}).(*principal)
	return p
}

// AddUser creates an account. Email addresses are unique, case-insensitively.
func (s *Server) AddUser(name, email, password, role string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, httpx.ErrInvalidRequest("name, email and password are required")
	}
	if role == "" {
		role = models.RoleUser
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, httpx.ErrApplicationError("unable to hash password")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts.find(byEmail(email)); taken {
		return nil, httpx.ErrConflict("email already registered")
	}
	now := time.Now().UTC()
	a := s.accounts.insert(account{
		User: models.User{
			Name:      name,
			Email:     email,
			Role:      role,
			CreatedAt: &now,
		},
		PasswordHash: hash,
	})
	return &a.User, nil
}

func byEmail(email string) func(*account) bool {
	return func(a *account) bool {
		return strings.EqualFold(a.User.Email, email)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(r *http.Request) (*httpx.Response, error) {
	var req loginRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if req.Email == "" || req.Password == "" {
		return nil, httpx.ErrInvalidRequest("email and password are required")
	}
	a, ok := s.accounts.find(byEmail(req.Email))
	if !ok {
		return nil, httpx.ErrUnAuthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(req.Password)); err != nil {
		log.Ctx(r.Context()).Info().Str("email", req.Email).Msg("password mismatch")
		return nil, httpx.ErrUnAuthorized("invalid credentials")
	}
	token, err := s.issueToken(&a.User)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("unable to sign token")
		return nil, httpx.ErrApplicationError("unable to issue token")
	}
	return &httpx.Response{
		Data:  a.User,
		Token: token,
	}, nil
}

func (s *Server) logout(r *http.Request) (*httpx.Response, error) {
	p := principalFrom(r.Context())
	s.mu.Lock()
	s.revoked[p.claims.ID] = p.claims.ExpiresAt.Time
	s.mu.Unlock()
	return &httpx.Response{}, nil
}

func (s *Server) me(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{Data: principalFrom(r.Context()).user}, nil
}

func (s *Server) issueToken(u *models.User) (string, error) {
	now := time.Now()
	c := &claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-2 * time.Minute)), // clock skew
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*claims, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(raw, c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return c, nil
}

func (s *Server) isRevoked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
	_, ok := s.revoked[id]
	return ok
}

// authenticate rejects requests without a valid, unrevoked bearer token of an
// existing account.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			httpx.ErrUnAuthorized("authentication required").Send(w)
			return
		}
		c, err := s.parseToken(raw)
		if err != nil {
			log.Ctx(r.Context()).Info().Err(err).Msg("rejected token")
			httpx.ErrUnAuthorized("invalid token").Send(w)
			return
		}
		if s.isRevoked(c.ID) {
			httpx.ErrUnAuthorized("token revoked").Send(w)
			return
		}
		a, ok := s.accounts.get(c.Subject)
		if !ok {
			httpx.ErrUnAuthorized("user not found").Send(w)
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, &principal{user: a.User, claims: c})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := principalFrom(r.Context()); p == nil || p.user.Role != models.RoleAdmin {
			httpx.ErrForbidden().Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
