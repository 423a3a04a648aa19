package blogs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/rcliao/bloglist/internal/model"
	"github.com/rcliao/bloglist/internal/remote"
)

// fakeGateway is an in-memory remote collection.
type fakeGateway struct {
	mu      sync.Mutex
	blogs   []model.BlogRecord
	nextID  int
	calls   []string
	creds   []string
	failAll error
	failOn  map[string]error
	block   chan struct{} // when set, mutating calls wait on it
}

func newFakeGateway(blogs ...model.BlogRecord) *fakeGateway {
	return &fakeGateway{blogs: blogs, nextID: 100, failOn: map[string]error{}}
}

func (g *fakeGateway) record(op, cred string) error {
	g.mu.Lock()
	g.calls = append(g.calls, op)
	g.creds = append(g.creds, cred)
	block := g.block
	err := g.failAll
	if e, ok := g.failOn[op]; ok {
		err = e
	}
	g.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (g *fakeGateway) FetchAll(ctx context.Context) ([]model.BlogRecord, error) {
	if err := g.record("fetch", ""); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]model.BlogRecord, len(g.blogs))
	copy(out, g.blogs)
	return out, nil
}

func (g *fakeGateway) Create(ctx context.Context, d model.Draft, cred string) (model.BlogRecord, error) {
	if err := g.record("create", cred); err != nil {
		return model.BlogRecord{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	rec := model.BlogRecord{
		ID: fmt.Sprint(g.nextID), Title: d.Title, Author: d.Author, URL: d.URL,
		Owner: model.Owner{ID: "u1", DisplayName: "Matti Luukkainen"},
	}
	g.blogs = append(g.blogs, rec)
	return rec, nil
}

func (g *fakeGateway) UpdateLikes(ctx context.Context, id string, p remote.LikePayload, cred string) (model.BlogRecord, error) {
	if err := g.record("like:"+id, cred); err != nil {
		return model.BlogRecord{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range g.blogs {
		if b.ID == id {
			g.blogs[i].Likes = p.Likes
			return g.blogs[i], nil
		}
	}
	return model.BlogRecord{}, &remote.Error{Kind: remote.KindNotFound, Status: 404, Reason: "blog not found"}
}

func (g *fakeGateway) Delete(ctx context.Context, id, cred string) error {
	if err := g.record("delete:"+id, cred); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range g.blogs {
		if b.ID == id {
			g.blogs = append(g.blogs[:i], g.blogs[i+1:]...)
			return nil
		}
	}
	return &remote.Error{Kind: remote.KindNotFound, Status: 404, Reason: "blog not found"}
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type shown struct {
	sev  model.Severity
	text string
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []shown
}

func (n *recordingNotifier) Show(sev model.Severity, text string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, shown{sev, text})
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []shown {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]shown(nil), n.msgs...)
}

type fakeSessions struct {
	cred    string
	ownerID string
}

func (s fakeSessions) Credential() (string, bool) { return s.cred, s.cred != "" }
func (s fakeSessions) Owns(rec model.BlogRecord) bool {
	return s.ownerID != "" && rec.Owner.ID == s.ownerID
}

var yes = ConfirmFunc(func(string) bool { return true })

func newTestController(t *testing.T, gw *fakeGateway) (*Controller, *recordingNotifier) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	notes := &recordingNotifier{}
	return NewController(gw, notes, fakeSessions{cred: "bearer abc123", ownerID: "u1"}, logger), notes
}

func blog(id string, likes int) model.BlogRecord {
	return model.BlogRecord{ID: id, Title: "Blog " + id, Author: "Author " + id, Likes: likes,
		Owner: model.Owner{ID: "u1"}}
}

func TestLoad(t *testing.T) {
	gw := newFakeGateway(blog("1", 0), blog("2", 5))
	c, notes := newTestController(t, gw)

	got, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || c.Len() != 2 {
		t.Errorf("expected 2 blogs, got %d", len(got))
	}
	if len(notes.all()) != 0 {
		t.Errorf("successful load is silent, got %v", notes.all())
	}
}

func TestLoadFailureKeepsCollection(t *testing.T) {
	gw := newFakeGateway(blog("1", 0))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	gw.failAll = &remote.Error{Kind: remote.KindUnavailable, Status: 500, Reason: "down"}
	got, err := c.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 {
		t.Errorf("expected previous collection kept, got %d", len(got))
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeverityError || !strings.Contains(msgs[0].text, "down") {
		t.Errorf("expected one error notification, got %v", msgs)
	}
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	dup := blog("1", 9)
	gw := newFakeGateway(blog("1", 0), blog("2", 0), dup)
	c, _ := newTestController(t, gw)

	got, _ := c.Load(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 unique blogs, got %d", len(got))
	}
	if got[0].ID != "1" || got[0].Likes != 9 {
		t.Errorf("expected later duplicate to win in first position, got %+v", got[0])
	}
}

func TestAdd(t *testing.T) {
	gw := newFakeGateway()
	c, notes := newTestController(t, gw)

	var results []CreateResult
	c.OnCreateDone(func(r CreateResult) { results = append(results, r) })

	rec, err := c.Add(context.Background(), model.Draft{Title: "Test Blog", Author: "A. Author", URL: "http://x"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.Len() != 1 || rec.Likes != 0 {
		t.Errorf("expected one record with 0 likes, got %d records, %+v", c.Len(), rec)
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeveritySuccess ||
		!strings.Contains(msgs[0].text, "Test Blog") || !strings.Contains(msgs[0].text, "A. Author") {
		t.Errorf("unexpected notifications %v", msgs)
	}
	if gw.creds[0] != "bearer abc123" {
		t.Errorf("expected credential on create, got %q", gw.creds[0])
	}
	if len(results) != 1 || results[0].Err != nil || results[0].Record.ID != rec.ID {
		t.Errorf("expected one successful completion, got %+v", results)
	}
}

func TestAddManyUniqueIDs(t *testing.T) {
	gw := newFakeGateway()
	c, _ := newTestController(t, gw)

	const n = 25
	for i := 0; i < n; i++ {
		if _, err := c.Add(context.Background(), model.Draft{Title: fmt.Sprint(i)}); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if c.Len() != n {
		t.Fatalf("expected %d records, got %d", n, c.Len())
	}
	seen := map[string]bool{}
	for _, r := range c.Records() {
		if seen[r.ID] {
			t.Errorf("duplicate id %s", r.ID)
		}
		seen[r.ID] = true
	}
}

func TestAddFailure(t *testing.T) {
	gw := newFakeGateway(blog("1", 0))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	gw.failOn["create"] = &remote.Error{Kind: remote.KindValidation, Status: 400, Reason: "title missing"}

	var results []CreateResult
	c.OnCreateDone(func(r CreateResult) { results = append(results, r) })

	_, err := c.Add(context.Background(), model.Draft{URL: "http://x"})
	if !errors.Is(err, remote.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("collection must be untouched, got %d", c.Len())
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeverityError || msgs[0].text != "title missing" {
		t.Errorf("expected remote reason verbatim, got %v", msgs)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Errorf("completion must fire on failure too, got %+v", results)
	}
}

func TestLike(t *testing.T) {
	gw := newFakeGateway(blog("1", 0), blog("2", 7))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	rec, err := c.Like(context.Background(), "1")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if rec.Likes != 1 {
		t.Errorf("expected 1 like, got %d", rec.Likes)
	}
	got, _ := c.Get("1")
	if got.Likes != 1 {
		t.Errorf("local record likes = %d, want 1", got.Likes)
	}
	other, _ := c.Get("2")
	if other.Likes != 7 {
		t.Errorf("other record changed: %d", other.Likes)
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeveritySuccess || !strings.Contains(msgs[0].text, "1 likes") {
		t.Errorf("unexpected notifications %v", msgs)
	}
	if gw.callCount() != 2 {
		t.Errorf("like must be a single update, calls = %v", gw.calls)
	}
}

func TestLikeTrustsServerValue(t *testing.T) {
	gw := newFakeGateway(blog("1", 3))
	c, _ := newTestController(t, gw)
	c.Load(context.Background())

	// Someone else liked it in the meantime; the remote holds 10
	gw.blogs[0].Likes = 10
	wrapped := &overridingGateway{fakeGateway: gw, likes: 11}
	c.gw = wrapped

	rec, err := c.Like(context.Background(), "1")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if rec.Likes != 11 {
		t.Errorf("expected server value 11, got %d", rec.Likes)
	}
	if wrapped.sent.Likes != 4 {
		t.Errorf("payload must derive from the held record, got %d", wrapped.sent.Likes)
	}
}

type overridingGateway struct {
	*fakeGateway
	likes int
	sent  remote.LikePayload
}

func (g *overridingGateway) UpdateLikes(ctx context.Context, id string, p remote.LikePayload, cred string) (model.BlogRecord, error) {
	g.sent = p
	rec, err := g.fakeGateway.UpdateLikes(ctx, id, p, cred)
	rec.Likes = g.likes
	return rec, err
}

func TestLikeFailure(t *testing.T) {
	gw := newFakeGateway(blog("1", 2))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	gw.failOn["like:1"] = &remote.Error{Kind: remote.KindAuthorization, Status: 401, Reason: "token missing or invalid"}
	if _, err := c.Like(context.Background(), "1"); !errors.Is(err, remote.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	got, _ := c.Get("1")
	if got.Likes != 2 {
		t.Errorf("collection must be untouched, likes = %d", got.Likes)
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeverityError || !strings.Contains(msgs[0].text, "token missing or invalid") {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestLikeRemotelyDeleted(t *testing.T) {
	gw := newFakeGateway(blog("1", 2))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())
	gw.blogs = nil

	if _, err := c.Like(context.Background(), "1"); !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if c.Len() != 1 {
		t.Error("local collection is left as-is until the next load")
	}
	if msgs := notes.all(); len(msgs) != 1 || msgs[0].sev != model.SeverityError {
		t.Errorf("expected one error notification, got %v", msgs)
	}
}

func TestRemove(t *testing.T) {
	gw := newFakeGateway(blog("1", 0), blog("2", 0))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	var asked string
	confirm := ConfirmFunc(func(q string) bool { asked = q; return true })
	if err := c.Remove(context.Background(), "1", confirm); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if asked != "Remove Blog 1?" {
		t.Errorf("unexpected prompt %q", asked)
	}
	for _, r := range c.VisibleOrder() {
		if r.ID == "1" {
			t.Error("removed blog still visible")
		}
	}
	msgs := notes.all()
	if len(msgs) != 1 || msgs[0].sev != model.SeveritySuccess || !strings.Contains(msgs[0].text, "Blog 1") {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestRemoveDeclined(t *testing.T) {
	gw := newFakeGateway(blog("1", 0))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())
	before := gw.callCount()

	err := c.Remove(context.Background(), "1", ConfirmFunc(func(string) bool { return false }))
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if gw.callCount() != before {
		t.Error("declined remove must not call the remote")
	}
	if len(notes.all()) != 0 {
		t.Errorf("declined remove is silent, got %v", notes.all())
	}
	if c.Len() != 1 {
		t.Error("collection must be untouched")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	gw := newFakeGateway(blog("1", 0))
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	err := c.Remove(context.Background(), "nope", yes)
	if !errors.Is(err, remote.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if c.Len() != 1 {
		t.Error("collection must be untouched")
	}
	if msgs := notes.all(); len(msgs) != 1 || msgs[0].sev != model.SeverityError {
		t.Errorf("expected one error notification, got %v", msgs)
	}
}

func TestRemoveNotOwnerReportsRemoteReason(t *testing.T) {
	other := blog("1", 0)
	other.Owner.ID = "someone-else"
	gw := newFakeGateway(other)
	c, notes := newTestController(t, gw)
	c.Load(context.Background())

	if c.Owns("1") {
		t.Fatal("session must not own the blog")
	}

	gw.failOn["delete:1"] = &remote.Error{Kind: remote.KindAuthorization, Status: 401, Reason: "only the creator can delete"}
	err := c.Remove(context.Background(), "1", yes)
	if !errors.Is(err, remote.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if gw.calls[len(gw.calls)-1] != "delete:1" {
		t.Error("remove must not be blocked client-side")
	}
	msgs := notes.all()
	if len(msgs) != 1 || !strings.Contains(msgs[0].text, "only the creator can delete") {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestVisibleOrderIsStable(t *testing.T) {
	gw := newFakeGateway(blog("a", 1), blog("b", 5), blog("c", 1), blog("d", 5), blog("e", 0))
	c, _ := newTestController(t, gw)
	c.Load(context.Background())

	var ids []string
	for _, r := range c.VisibleOrder() {
		ids = append(ids, r.ID)
	}
	if got := strings.Join(ids, ","); got != "b,d,a,c,e" {
		t.Errorf("visible order = %s, want b,d,a,c,e", got)
	}

	var stored []string
	for _, r := range c.Records() {
		stored = append(stored, r.ID)
	}
	if got := strings.Join(stored, ","); got != "a,b,c,d,e" {
		t.Errorf("stored order mutated: %s", got)
	}
}

func TestDoubleSubmitIsRejected(t *testing.T) {
	gw := newFakeGateway(blog("1", 0))
	c, _ := newTestController(t, gw)
	c.Load(context.Background())

	gw.block = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		_, err := c.Like(context.Background(), "1")
		done <- err
	}()

	// Wait until the first like reaches the gateway
	for gw.callCount() < 2 {
		runtime.Gosched()
	}

	if _, err := c.Like(context.Background(), "1"); !errors.Is(err, ErrInFlight) {
		t.Errorf("expected ErrInFlight, got %v", err)
	}
	close(gw.block)
	if err := <-done; err != nil {
		t.Fatalf("first like: %v", err)
	}
	if gw.callCount() != 2 {
		t.Errorf("expected exactly one like call, got %v", gw.calls)
	}
}

func TestOwns(t *testing.T) {
	mine := blog("1", 0)
	theirs := blog("2", 0)
	theirs.Owner.ID = "u2"
	gw := newFakeGateway(mine, theirs)
	c, _ := newTestController(t, gw)
	c.Load(context.Background())

	if !c.Owns("1") || c.Owns("2") || c.Owns("missing") {
		t.Error("unexpected ownership facts")
	}
}
