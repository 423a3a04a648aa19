package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rcliao/bloglist/internal/blogs"
	"github.com/rcliao/bloglist/internal/config"
	"github.com/rcliao/bloglist/internal/lifecycle"
	"github.com/rcliao/bloglist/internal/logger"
	"github.com/rcliao/bloglist/internal/notify"
	"github.com/rcliao/bloglist/internal/remote"
	"github.com/rcliao/bloglist/internal/session"
	"github.com/rcliao/bloglist/internal/store"
)

// app is one running client: durable slots, session, collection,
// notifications, and the lifecycle driving them.
type app struct {
	logger   *slog.Logger
	logFile  *os.File
	slots    *store.SQLiteStore
	sessions *session.Store
	notes    *notify.Channel
	blogs    *blogs.Controller
	life     *lifecycle.Controller
}

func openApp(cfg *config.Config, errOut io.Writer) (*app, error) {
	a := &app{}

	var logOut io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		logOut = f
	}
	a.logger = logger.Setup(logOut, logger.ParseLevel(cfg.LogLevel))

	slots, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.slots = slots

	client := remote.NewClient(cfg.ServerURL, &http.Client{Timeout: cfg.HTTPTimeout}, a.logger)
	a.notes = notify.New(a.logger)
	a.notes.Subscribe(func(e notify.Event) {
		if e.Kind == notify.Shown {
			printNotification(errOut, e.Notification)
		}
	})
	a.sessions = session.NewStore(slots, a.logger)
	a.blogs = blogs.NewController(remote.NewBlogGateway(client), a.notes, a.sessions, a.logger)
	a.life = lifecycle.New(remote.NewAuthGateway(client), a.sessions, a.blogs, a.notes, a.logger)
	return a, nil
}

// start restores the session and loads the collection.
func (a *app) start(ctx context.Context) {
	a.life.Start(ctx)
}

// restore picks up the persisted session without loading blogs.
func (a *app) restore(ctx context.Context) {
	a.sessions.Restore(ctx)
}

func (a *app) Close() {
	if a.notes != nil {
		a.notes.Close()
	}
	if a.slots != nil {
		a.slots.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
