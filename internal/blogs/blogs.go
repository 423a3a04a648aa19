// Package blogs keeps the client's in-memory blog collection consistent with
// the remote service and reports the outcome of every remote call through
// the notification channel.
package blogs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rcliao/bloglist/internal/model"
	"github.com/rcliao/bloglist/internal/remote"
)

var (
	// ErrInFlight is returned when the same action is already outstanding.
	ErrInFlight = errors.New("action already in progress")
	// ErrDeclined is returned when the user declines a confirmation.
	ErrDeclined = errors.New("declined")
)

// Gateway is the remote blog collection.
type Gateway interface {
	FetchAll(ctx context.Context) ([]model.BlogRecord, error)
	Create(ctx context.Context, draft model.Draft, credential string) (model.BlogRecord, error)
	UpdateLikes(ctx context.Context, id string, p remote.LikePayload, credential string) (model.BlogRecord, error)
	Delete(ctx context.Context, id, credential string) error
}

// Notifier receives outcome messages.
type Notifier interface {
	Show(sev model.Severity, text string)
}

// Sessions supplies the credential and ownership checks for the live session.
type Sessions interface {
	Credential() (string, bool)
	Owns(rec model.BlogRecord) bool
}

// Confirmer is a yes/no gate presented to the user.
type Confirmer interface {
	Confirm(question string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(q string) bool { return f(q) }

// CreateResult is delivered to create-completion callbacks after every Add.
type CreateResult struct {
	Record model.BlogRecord
	Err    error
}

// Controller owns the local blog collection.
type Controller struct {
	gw       Gateway
	notes    Notifier
	sessions Sessions
	logger   *slog.Logger

	mu       sync.Mutex
	blogs    []model.BlogRecord
	inFlight map[string]bool
	onCreate []func(CreateResult)
}

// NewController creates a Controller with an empty collection.
func NewController(gw Gateway, notes Notifier, sessions Sessions, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		gw:       gw,
		notes:    notes,
		sessions: sessions,
		logger:   logger,
		inFlight: make(map[string]bool),
	}
}

// OnCreateDone registers fn to run after every Add attempt, successful or not.
func (c *Controller) OnCreateDone(fn func(CreateResult)) {
	c.mu.Lock()
	c.onCreate = append(c.onCreate, fn)
	c.mu.Unlock()
}

// Load replaces the collection with the remote one. On failure the
// collection keeps its previous value.
func (c *Controller) Load(ctx context.Context) ([]model.BlogRecord, error) {
	blogs, err := c.gw.FetchAll(ctx)
	if err != nil {
		c.notes.Show(model.SeverityError, "could not load blogs: "+remote.Reason(err))
		return c.Records(), err
	}

	c.mu.Lock()
	c.blogs = dedupe(blogs)
	c.mu.Unlock()

	c.logger.Debug("blogs loaded", slog.Int("count", len(blogs)))
	return c.Records(), nil
}

// Add creates a blog from draft. Validation is left to the remote.
func (c *Controller) Add(ctx context.Context, draft model.Draft) (model.BlogRecord, error) {
	if !c.begin("add") {
		return model.BlogRecord{}, ErrInFlight
	}
	defer c.end("add")

	cred, _ := c.sessions.Credential()
	rec, err := c.gw.Create(ctx, draft, cred)
	if err != nil {
		c.notes.Show(model.SeverityError, remote.Reason(err))
		c.createDone(CreateResult{Err: err})
		return model.BlogRecord{}, err
	}

	c.mu.Lock()
	if i := c.indexLocked(rec.ID); i >= 0 {
		c.blogs[i] = rec
	} else {
		c.blogs = append(c.blogs, rec)
	}
	c.mu.Unlock()

	c.notes.Show(model.SeveritySuccess, fmt.Sprintf("a new blog %s by %s added", rec.Title, rec.Author))
	c.createDone(CreateResult{Record: rec})
	return rec, nil
}

// Like adds one like to blog id. The payload comes from the record already
// held locally and the stored likes count is whatever the remote returns.
func (c *Controller) Like(ctx context.Context, id string) (model.BlogRecord, error) {
	key := "like:" + id
	if !c.begin(key) {
		return model.BlogRecord{}, ErrInFlight
	}
	defer c.end(key)

	held, ok := c.Get(id)
	if !ok {
		err := notLoaded(id)
		c.notes.Show(model.SeverityError, "sorry, something went wrong: "+err.Error())
		return model.BlogRecord{}, err
	}

	cred, _ := c.sessions.Credential()
	updated, err := c.gw.UpdateLikes(ctx, id, remote.LikePayload{
		Title:  held.Title,
		Author: held.Author,
		URL:    held.URL,
		Likes:  held.Likes + 1,
		User:   held.Owner.ID,
	}, cred)
	if err != nil {
		c.notes.Show(model.SeverityError, "sorry, something went wrong: "+remote.Reason(err))
		return model.BlogRecord{}, err
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.blogs[i] = updated
	}
	c.mu.Unlock()

	c.notes.Show(model.SeveritySuccess,
		fmt.Sprintf("You liked blog %q which has now %d likes in total!", updated.Title, updated.Likes))
	return updated, nil
}

// Remove deletes blog id after confirm agrees. Ownership is not enforced
// here; the remote decides and its reason is reported.
func (c *Controller) Remove(ctx context.Context, id string, confirm Confirmer) error {
	key := "remove:" + id
	if !c.begin(key) {
		return ErrInFlight
	}
	defer c.end(key)

	held, ok := c.Get(id)
	if !ok {
		err := notLoaded(id)
		c.notes.Show(model.SeverityError, "sorry, something went wrong: "+err.Error())
		return err
	}

	if !confirm.Confirm(fmt.Sprintf("Remove %s?", held.Title)) {
		return ErrDeclined
	}

	cred, _ := c.sessions.Credential()
	if err := c.gw.Delete(ctx, id, cred); err != nil {
		if errors.Is(err, remote.ErrAuthorization) {
			c.notes.Show(model.SeverityError, "You cannot remove blogs added by another user: "+remote.Reason(err))
		} else {
			c.notes.Show(model.SeverityError, "sorry, something went wrong: "+remote.Reason(err))
		}
		return err
	}

	c.mu.Lock()
	c.blogs = slices.DeleteFunc(c.blogs, func(b model.BlogRecord) bool { return b.ID == id })
	c.mu.Unlock()

	c.notes.Show(model.SeveritySuccess, fmt.Sprintf("You removed blog %q", held.Title))
	return nil
}

// VisibleOrder returns the collection sorted by likes, most first. Equal
// likes keep their collection order.
func (c *Controller) VisibleOrder() []model.BlogRecord {
	out := c.Records()
	slices.SortStableFunc(out, func(a, b model.BlogRecord) int {
		return cmp.Compare(b.Likes, a.Likes)
	})
	return out
}

// Records returns a copy of the collection in stored order.
func (c *Controller) Records() []model.BlogRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.blogs)
}

// Len returns the number of blogs held.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blogs)
}

// Get returns the held record for id.
func (c *Controller) Get(id string) (model.BlogRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.blogs[i], true
	}
	return model.BlogRecord{}, false
}

// Owns reports whether the live session created blog id.
func (c *Controller) Owns(id string) bool {
	rec, ok := c.Get(id)
	return ok && c.sessions.Owns(rec)
}

func (c *Controller) indexLocked(id string) int {
	return slices.IndexFunc(c.blogs, func(b model.BlogRecord) bool { return b.ID == id })
}

func (c *Controller) begin(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[key] {
		return false
	}
	c.inFlight[key] = true
	return true
}

func (c *Controller) end(key string) {
	c.mu.Lock()
	delete(c.inFlight, key)
	c.mu.Unlock()
}

func (c *Controller) createDone(r CreateResult) {
	c.mu.Lock()
	fns := slices.Clone(c.onCreate)
	c.mu.Unlock()
	for _, fn := range fns {
		fn(r)
	}
}

func notLoaded(id string) error {
	return fmt.Errorf("blog %s: %w", id, remote.ErrNotFound)
}

// dedupe keeps the last record for each id, at the position of its first
// occurrence.
func dedupe(blogs []model.BlogRecord) []model.BlogRecord {
	out := make([]model.BlogRecord, 0, len(blogs))
	seen := make(map[string]int, len(blogs))
	for _, b := range blogs {
		if i, ok := seen[b.ID]; ok {
			out[i] = b
			continue
		}
		seen[b.ID] = len(out)
		out = append(out, b)
	}
	return out
}
