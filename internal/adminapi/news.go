package adminapi

import (
	"context"
	"net/url"

	"github.com/thepivo/pivoadmin/internal/formdata"
	"github.com/thepivo/pivoadmin/internal/models"
)

// NewsQuery holds the listing options recognized by the news collection.
type NewsQuery struct {
	Category string `mapstructure:"category"`
	Status   string `mapstructure:"status"`
	Search   string `mapstructure:"search"`
	Page     int    `mapstructure:"page"`
	Limit    int    `mapstructure:"limit"`
	Sort     string `mapstructure:"sort"`
}

func (q NewsQuery) Values() url.Values {
	v := url.Values{}
	setString(v, "category", q.Category)
	setString(v, "status", q.Status)
	setString(v, "search", q.Search)
	setInt(v, "page", q.Page)
	setInt(v, "limit", q.Limit)
	setString(v, "sort", q.Sort)
	return v
}

// NewsInput is the editable part of a news post. Nil fields are not sent.
type NewsInput struct {
	Title      *string        `mapstructure:"title"`
	Category   *string        `mapstructure:"category"`
	Status     *string        `mapstructure:"status"`
	Summary    *string        `mapstructure:"summary"`
	Content    *string        `mapstructure:"content"`
	Tags       []string       `mapstructure:"tags"`
	Restaurant *string        `mapstructure:"restaurant"`
	VideoURL   *string        `mapstructure:"video_url"`
	Extra      map[string]any `mapstructure:",remain"`

	Image     *formdata.File `mapstructure:"-"`
	VideoFile *formdata.File `mapstructure:"-"`
}

var NewsSchema = formdata.Schema[NewsInput]{
	formdata.String("title", func(in *NewsInput) *string { return in.Title }),
	formdata.String("category", func(in *NewsInput) *string { return in.Category }),
	formdata.String("status", func(in *NewsInput) *string { return in.Status }),
	formdata.String("summary", func(in *NewsInput) *string { return in.Summary }),
	formdata.String("content", func(in *NewsInput) *string { return in.Content }),
	formdata.StringList("tags", func(in *NewsInput) []string { return in.Tags }),
	formdata.String("restaurant", func(in *NewsInput) *string { return in.Restaurant }),
	formdata.String("video_url", func(in *NewsInput) *string { return in.VideoURL }),
	formdata.Extra(func(in *NewsInput) map[string]any { return in.Extra }),
	formdata.Single("image", "image", func(in *NewsInput) *formdata.File { return in.Image }),
	formdata.Single("video_file", "video", func(in *NewsInput) *formdata.File { return in.VideoFile }),
}

type NewsClient struct {
	c collection[models.News]
}

func (n *NewsClient) GetAll(ctx context.Context, q NewsQuery) (*ListResult[models.News], error) {
	return n.c.list(ctx, q.Values())
}

func (n *NewsClient) GetByID(ctx context.Context, id string) (*models.News, error) {
	return n.c.get(ctx, id)
}

func (n *NewsClient) Create(ctx context.Context, in *NewsInput) (*models.News, error) {
	return n.c.sendForm(ctx, "", NewsSchema.Build(in))
}

func (n *NewsClient) Update(ctx context.Context, id string, in *NewsInput) (*models.News, error) {
	return n.c.sendForm(ctx, id, NewsSchema.Build(in))
}

func (n *NewsClient) Delete(ctx context.Context, id string) error {
	return n.c.delete(ctx, id)
}
