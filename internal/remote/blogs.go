package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rcliao/bloglist/internal/model"
)

const blogsPath = "/api/blogs"

// LikePayload is the body of a like update. It is built from the record the
// client already holds.
type LikePayload struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
	Likes  int    `json:"likes"`
	User   string `json:"user,omitempty"`
}

// BlogGateway is the typed wrapper around the remote blog collection.
type BlogGateway struct {
	c *Client
}

// NewBlogGateway creates a BlogGateway on c.
func NewBlogGateway(c *Client) *BlogGateway {
	return &BlogGateway{c: c}
}

// FetchAll returns the full remote collection.
func (g *BlogGateway) FetchAll(ctx context.Context) ([]model.BlogRecord, error) {
	var blogs []model.BlogRecord
	if err := g.c.do(ctx, http.MethodGet, blogsPath, "", nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// Create sends draft and returns the record assigned by the remote.
func (g *BlogGateway) Create(ctx context.Context, draft model.Draft, credential string) (model.BlogRecord, error) {
	var rec model.BlogRecord
	err := g.c.do(ctx, http.MethodPost, blogsPath, credential, draft, &rec)
	return rec, err
}

// UpdateLikes sends a like update for id through the like-only endpoint.
func (g *BlogGateway) UpdateLikes(ctx context.Context, id string, p LikePayload, credential string) (model.BlogRecord, error) {
	var rec model.BlogRecord
	err := g.c.do(ctx, http.MethodPut, blogsPath+"/like/"+url.PathEscape(id), credential, p, &rec)
	return rec, err
}

// Update replaces every field of blog id. The remote restricts this to the
// blog's owner.
func (g *BlogGateway) Update(ctx context.Context, rec model.BlogRecord, credential string) (model.BlogRecord, error) {
	body := LikePayload{
		Title:  rec.Title,
		Author: rec.Author,
		URL:    rec.URL,
		Likes:  rec.Likes,
		User:   rec.Owner.ID,
	}
	var out model.BlogRecord
	err := g.c.do(ctx, http.MethodPut, blogsPath+"/"+url.PathEscape(rec.ID), credential, body, &out)
	return out, err
}

// Delete removes blog id.
func (g *BlogGateway) Delete(ctx context.Context, id, credential string) error {
	return g.c.do(ctx, http.MethodDelete, blogsPath+"/"+url.PathEscape(id), credential, nil, nil)
}
