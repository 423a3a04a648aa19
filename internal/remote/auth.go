package remote

import (
	"context"
	"errors"
	"net/http"

	"github.com/rcliao/bloglist/internal/model"
)

const loginPath = "/api/login"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthGateway exchanges credentials for a session.
type AuthGateway struct {
	c *Client
}

// NewAuthGateway creates an AuthGateway on c.
func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

// Authenticate logs in. Any 4xx rejection is reported as
// ErrInvalidCredentials, without saying which credential was wrong.
func (g *AuthGateway) Authenticate(ctx context.Context, username, password string) (model.Session, error) {
	var s model.Session
	err := g.c.do(ctx, http.MethodPost, loginPath, "", loginRequest{Username: username, Password: password}, &s)
	if err != nil {
		var re *Error
		if errors.As(err, &re) && re.Status >= 400 && re.Status < 500 {
			re.Kind = KindInvalidCredentials
		}
		return model.Session{}, err
	}
	if s.Token == "" {
		return model.Session{}, &Error{Kind: KindInvalidCredentials, Status: http.StatusOK, Reason: "no token in response"}
	}
	return s, nil
}
