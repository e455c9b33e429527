package fakeapi

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/thepivo/pivoadmin/internal/common/httpx"
	"github.com/thepivo/pivoadmin/internal/common/uuid"
	"github.com/thepivo/pivoadmin/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UploadPrefix is the path prefix of stored attachments.
const UploadPrefix = "/uploads/"

// form reads the fields of a parsed multipart body. Absent fields leave the
// destination untouched.
type form struct {
	*multipart.Form
}

func parseForm(r *http.Request) (form, error) {
	if err := httpx.ParseMultipart(r); err != nil {
		return form{}, err
	}
	return form{r.MultipartForm}, nil
}

func (f form) value(name string) (string, bool) {
	v, ok := f.Value[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func (f form) str(name string, dst *string) {
	if v, ok := f.value(name); ok {
		*dst = v
	}
}

func (f form) integer(name string, dst *int) error {
	v, ok := f.value(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return httpx.ErrInvalidRequest("invalid " + name)
	}
	*dst = n
	return nil
}

func (f form) decimal(name string, dst *float64) error {
	v, ok := f.value(name)
	if !ok {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return httpx.ErrInvalidRequest("invalid " + name)
	}
	*dst = n
	return nil
}

func (f form) boolean(name string, dst *bool) error {
	v, ok := f.value(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return httpx.ErrInvalidRequest("invalid " + name)
	}
	*dst = b
	return nil
}

// uploads returns the stored locations of the files sent under name.
func (f form) uploads(name string) []string {
	var out []string
	for _, fh := range f.File[name] {
		out = append(out, UploadPrefix+uuid.NewString()+"/"+fh.Filename)
	}
	return out
}

func (s *Server) newsHandlers() handlers {
	h := crud(s.news, "news", func(n *models.News, q url.Values) bool {
		return equalOrEmpty(q.Get("category"), n.Category) &&
			equalOrEmpty(q.Get("status"), n.Status) &&
			contains(q.Get("search"), n.Title, n.Summary, n.Content)
	})
	h.create = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		now := time.Now().UTC()
		author := principalFrom(r.Context()).user
		n := models.News{
			Status:    models.NewsDraft,
			Author:    &models.Author{ID: author.ID, Name: author.Name},
			CreatedAt: &now,
			UpdatedAt: &now,
		}
		if err := applyNews(f, &n); err != nil {
			return nil, err
		}
		if n.Title == "" {
			return nil, httpx.ErrInvalidRequest("title is required")
		}
		return created(s.news, n), nil
	}
	h.update = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		return updated(s.news, "news", r, func(n *models.News) error {
			if err := applyNews(f, n); err != nil {
				return err
			}
			now := time.Now().UTC()
			n.UpdatedAt = &now
			return nil
		})
	}
	return h
}

func applyNews(f form, n *models.News) error {
	f.str("title", &n.Title)
	f.str("category", &n.Category)
	f.str("status", &n.Status)
	f.str("summary", &n.Summary)
	f.str("content", &n.Content)
	f.str("restaurant", &n.Restaurant)
	if v, ok := f.value("tags"); ok {
		n.Tags = splitList(v)
	}
	if v, ok := f.value("video_url"); ok && v != "" {
		n.Video = &models.Video{Type: "url", URL: v}
	}
	if files := f.uploads("image"); len(files) > 0 {
		n.Image = files[0]
	}
	if files := f.uploads("video"); len(files) > 0 {
		n.Video = &models.Video{Type: "file", File: files[0]}
	}
	if n.Category != "" && !models.IsNewsCategory(n.Category) {
		return httpx.ErrInvalidRequest("unknown category " + n.Category)
	}
	if !models.IsNewsStatus(n.Status) {
		return httpx.ErrInvalidRequest("unknown status " + n.Status)
	}
	if n.Status == models.NewsPublished && n.PublishedAt == nil {
		now := time.Now().UTC()
		n.PublishedAt = &now
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *Server) restaurantHandlers() handlers {
	h := crud(s.restaurants, "restaurant", func(r *models.Restaurant, q url.Values) bool {
		return contains(q.Get("search"), r.Name, r.Address, r.Description)
	})
	h.create = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		rest := models.Restaurant{IsActive: true}
		if err := applyRestaurant(f, &rest); err != nil {
			return nil, err
		}
		if rest.Name == "" {
			return nil, httpx.ErrInvalidRequest("name is required")
		}
		return created(s.restaurants, rest), nil
	}
	h.update = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		return updated(s.restaurants, "restaurant", r, func(rest *models.Restaurant) error {
			return applyRestaurant(f, rest)
		})
	}
	return h
}

func applyRestaurant(f form, r *models.Restaurant) error {
	f.str("name", &r.Name)
	f.str("address", &r.Address)
	f.str("phone", &r.Phone)
	f.str("email", &r.Email)
	f.str("description", &r.Description)
	f.str("opening_hours", &r.OpeningHours)
	if err := f.integer("capacity", &r.Capacity); err != nil {
		return err
	}
	if err := f.boolean("is_active", &r.IsActive); err != nil {
		return err
	}
	if files := f.uploads("images"); len(files) > 0 {
		r.Images = files
	}
	return nil
}

func (s *Server) menuHandlers() handlers {
	h := crud(s.menu, "menu item", func(m *models.MenuItem, q url.Values) bool {
		return equalOrEmpty(q.Get("category"), m.Category) &&
			equalOrEmpty(q.Get("restaurant"), m.Restaurant) &&
			contains(q.Get("search"), m.Name, m.Description)
	})
	h.create = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		item := models.MenuItem{IsAvailable: true}
		if err := applyMenuItem(f, &item); err != nil {
			return nil, err
		}
		if item.Name == "" {
			return nil, httpx.ErrInvalidRequest("name is required")
		}
		return created(s.menu, item), nil
	}
	h.update = func(r *http.Request) (*httpx.Response, error) {
		f, err := parseForm(r)
		if err != nil {
			return nil, err
		}
		return updated(s.menu, "menu item", r, func(item *models.MenuItem) error {
			return applyMenuItem(f, item)
		})
	}
	return h
}

func applyMenuItem(f form, m *models.MenuItem) error {
	f.str("name", &m.Name)
	f.str("description", &m.Description)
	f.str("category", &m.Category)
	f.str("restaurant", &m.Restaurant)
	if err := f.decimal("price", &m.Price); err != nil {
		return err
	}
	if m.Price < 0 {
		return httpx.ErrInvalidRequest("price must not be negative")
	}
	if err := f.boolean("is_available", &m.IsAvailable); err != nil {
		return err
	}
	if files := f.uploads("image"); len(files) > 0 {
		m.Image = files[0]
	}
	return nil
}

type reservationBody struct {
	Restaurant *string `json:"restaurant"`
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Date       *string `json:"date"`
	Time       *string `json:"time"`
	Guests     *int    `json:"guests"`
	Status     *string `json:"status"`
	Comment    *string `json:"comment"`
}

func (b *reservationBody) apply(r *models.Reservation) error {
	setIf(&r.Restaurant, b.Restaurant)
	setIf(&r.Name, b.Name)
	setIf(&r.Phone, b.Phone)
	setIf(&r.Email, b.Email)
	setIf(&r.Date, b.Date)
	setIf(&r.Time, b.Time)
	setIf(&r.Guests, b.Guests)
	setIf(&r.Status, b.Status)
	setIf(&r.Comment, b.Comment)
	if !models.IsReservationStatus(r.Status) {
		return httpx.ErrInvalidRequest("unknown status " + r.Status)
	}
	if r.Guests < 0 {
		return httpx.ErrInvalidRequest("guests must not be negative")
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) reservationHandlers() handlers {
	h := crud(s.reservations, "reservation", func(r *models.Reservation, q url.Values) bool {
		return equalOrEmpty(q.Get("status"), r.Status) &&
			equalOrEmpty(q.Get("restaurant"), r.Restaurant) &&
			equalOrEmpty(q.Get("date"), r.Date) &&
			contains(q.Get("search"), r.Name, r.Phone, r.Email)
	})
	h.create = func(r *http.Request) (*httpx.Response, error) {
		var body reservationBody
		if err := httpx.GetRequestData(r, &body); err != nil {
			return nil, err
		}
		res := models.Reservation{Status: models.ReservationPending, Guests: 1}
		if err := body.apply(&res); err != nil {
			return nil, err
		}
		if res.Restaurant == "" || res.Name == "" || res.Date == "" || res.Time == "" {
			return nil, httpx.ErrInvalidRequest("restaurant, name, date and time are required")
		}
		return created(s.reservations, res), nil
	}
	h.update = func(r *http.Request) (*httpx.Response, error) {
		var body reservationBody
		if err := httpx.GetRequestData(r, &body); err != nil {
			return nil, err
		}
		return updated(s.reservations, "reservation", r, body.apply)
	}
	return h
}

type userBody struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	Phone      *string `json:"phone"`
	Restaurant *string `json:"restaurant"`
}

func (s *Server) userHandlers() handlers {
	h := crud(s.accounts, "user", func(a *account, q url.Values) bool {
		return equalOrEmpty(q.Get("role"), a.User.Role) &&
			contains(q.Get("search"), a.User.Name, a.User.Email)
	})
	// listings and lookups must not leak password hashes
	list, get := h.list, h.get
	h.list = func(r *http.Request) (*httpx.Response, error) {
		rsp, err := list(r)
		if err != nil {
			return nil, err
		}
		rsp.Data = publicUsers(rsp.Data.([]account))
		return rsp, nil
	}
	h.get = func(r *http.Request) (*httpx.Response, error) {
		rsp, err := get(r)
		if err != nil {
			return nil, err
		}
		rsp.Data = rsp.Data.(account).User
		return rsp, nil
	}
	h.create = func(r *http.Request) (*httpx.Response, error) {
		var body userBody
		if err := httpx.GetRequestData(r, &body); err != nil {
			return nil, err
		}
		u, err := s.AddUser(deref(body.Name), deref(body.Email), deref(body.Password), deref(body.Role))
		if err != nil {
			return nil, err
		}
		if body.Phone != nil || body.Restaurant != nil {
			a, _, err := s.accounts.update(u.ID, func(a *account) error {
				setIf(&a.User.Phone, body.Phone)
				setIf(&a.User.Restaurant, body.Restaurant)
				return nil
			})
			if err != nil {
				return nil, err
			}
			u = &a.User
		}
		return &httpx.Response{StatusCode: http.StatusCreated, Data: u}, nil
	}
	h.update = func(r *http.Request) (*httpx.Response, error) {
		var body userBody
		if err := httpx.GetRequestData(r, &body); err != nil {
			return nil, err
		}
		var hash []byte
		if body.Password != nil {
			var err error
			if hash, err = bcrypt.GenerateFromPassword([]byte(*body.Password), bcrypt.DefaultCost); err != nil {
				return nil, httpx.ErrApplicationError("unable to hash password")
			}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if body.Email != nil {
			id := chi.URLParam(r, "id")
			if other, taken := s.accounts.find(byEmail(*body.Email)); taken && other.User.ID != id {
				return nil, httpx.ErrConflict("email already registered")
			}
		}
		rsp, err := updated(s.accounts, "user", r, func(a *account) error {
			setIf(&a.User.Name, body.Name)
			setIf(&a.User.Email, body.Email)
			setIf(&a.User.Role, body.Role)
			setIf(&a.User.Phone, body.Phone)
			setIf(&a.User.Restaurant, body.Restaurant)
			if hash != nil {
				a.PasswordHash = hash
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		rsp.Data = rsp.Data.(account).User
		return rsp, nil
	}
	return h
}

func publicUsers(accounts []account) []models.User {
	out := make([]models.User, len(accounts))
	for i := range accounts {
		out[i] = accounts[i].User
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
