// Package lifecycle orchestrates login and logout across the session store,
// the auth gateway, the blog collection, and the notification channel.
package lifecycle

import (
	"context"
	"log/slog"

	"github.com/rcliao/bloglist/internal/model"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (model.Session, error)
}

// SessionStore is the subset of session.Store the lifecycle drives.
type SessionStore interface {
	Restore(ctx context.Context) (model.Session, bool)
	Persist(ctx context.Context, s model.Session) error
	Clear(ctx context.Context) error
	Current() (model.Session, bool)
}

// Loader refreshes the blog collection at session start.
type Loader interface {
	Load(ctx context.Context) ([]model.BlogRecord, error)
}

// Notifier receives outcome messages.
type Notifier interface {
	Show(sev model.Severity, text string)
}

// EntryState is credential-entry state owned by the front end. It is reset
// after a successful login and left alone after a failed one.
type EntryState interface {
	Reset()
}

// Controller drives the session lifecycle.
type Controller struct {
	auth     Authenticator
	sessions SessionStore
	blogs    Loader
	notes    Notifier
	logger   *slog.Logger
}

// New creates a Controller.
func New(auth Authenticator, sessions SessionStore, blogs Loader, notes Notifier, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{auth: auth, sessions: sessions, blogs: blogs, notes: notes, logger: logger}
}

// Start restores a persisted session, if any, and loads the collection.
func (c *Controller) Start(ctx context.Context) (model.Session, bool) {
	sess, ok := c.sessions.Restore(ctx)
	if ok {
		c.logger.Info("session restored", slog.String("username", sess.Username))
	}
	c.blogs.Load(ctx)
	return sess, ok
}

// Login authenticates and stores the resulting session. Failures are
// reported with a single generic message.
func (c *Controller) Login(ctx context.Context, username, password string, entry EntryState) error {
	sess, err := c.auth.Authenticate(ctx, username, password)
	if err != nil {
		c.logger.Info("login rejected", slog.String("username", username), slog.String("error", err.Error()))
		c.notes.Show(model.SeverityError, "wrong credentials")
		return err
	}

	if err := c.sessions.Persist(ctx, sess); err != nil {
		// The session is live for this run; it just won't survive a restart.
		c.logger.Warn("session not persisted", slog.String("error", err.Error()))
	}
	if entry != nil {
		entry.Reset()
	}
	c.notes.Show(model.SeveritySuccess, "Welcome "+sess.DisplayName)
	return nil
}

// Logout tears down the live session. It never fails: a storage error is
// reported as a notification and the credential is gone regardless.
func (c *Controller) Logout(ctx context.Context) {
	sess, ok := c.sessions.Current()
	if !ok {
		return
	}

	c.notes.Show(model.SeveritySuccess, "Goodbye "+sess.DisplayName)
	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Error("logout storage clear failed", slog.String("error", err.Error()))
		c.notes.Show(model.SeverityError, "Logout failed, try to logout again")
	}
}
