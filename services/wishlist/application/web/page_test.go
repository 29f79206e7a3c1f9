package web_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ghuser/wishlist/pkg/logger"
	"github.com/ghuser/wishlist/pkg/session"
	"github.com/ghuser/wishlist/services/wishlist/application/controller"
	"github.com/ghuser/wishlist/services/wishlist/application/services"
	"github.com/ghuser/wishlist/services/wishlist/application/web"
	"github.com/ghuser/wishlist/services/wishlist/domain/models"
	"github.com/ghuser/wishlist/services/wishlist/infrastructure/persistence/memory"
)

var errDown = errors.New("connection refused")

type harness struct {
	srv    *httptest.Server
	client *http.Client
	repo   *memory.WishRepository
	redis  *miniredis.Miniredis
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })

	repo := memory.NewWishRepository()
	ctrl := controller.New(services.NewWishService(repo), logger.Discard(), nil)
	store := session.NewRedisStore(rdb,
		[]byte("0123456789abcdef0123456789abcdef"),
		[]byte("abcdef0123456789abcdef0123456789"),
		false,
	)
	page, err := web.NewPage(ctrl, store, logger.Discard())
	if err != nil {
		t.Fatalf("new page: %v", err)
	}

	r := chi.NewRouter()
	page.Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &harness{
		srv:    srv,
		client: &http.Client{Jar: jar, Timeout: 5 * time.Second},
		repo:   repo,
		redis:  mr,
	}
}

func (h *harness) get(t *testing.T, path string) string {
	t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return readPage(t, resp)
}

// post submits a form and follows the 303 back to the page.
func (h *harness) post(t *testing.T, path string, form url.Values) string {
	t.Helper()
	resp, err := h.client.PostForm(h.srv.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	if resp.Request.Method != http.MethodGet || resp.Request.URL.Path != "/wishlist" {
		t.Fatalf("POST %s should redirect to GET /wishlist, ended at %s %s",
			path, resp.Request.Method, resp.Request.URL.Path)
	}
	return readPage(t, resp)
}

func readPage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func (h *harness) add(t *testing.T, name, item string) string {
	t.Helper()
	return h.post(t, "/wishlist", url.Values{"name": {name}, "item": {item}})
}

func TestPage_RootRedirects(t *testing.T) {
	h := newHarness(t)

	body := h.get(t, "/")
	if !strings.Contains(body, web.Title) {
		t.Fatal("expected the wishlist page after redirect")
	}
}

func TestPage_Empty(t *testing.T) {
	h := newHarness(t)

	body := h.get(t, "/wishlist")
	for _, want := range []string{web.Title, "Your Name", "I wish for...", ">Add<", "No items yet. Add one above!"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "maxlength") {
		t.Error("inputs must not cap the typed text")
	}
}

func TestPage_AddLongItemListedWhole(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("k", 300)

	body := h.add(t, "Bob", long)
	if !strings.Contains(body, "Bob: "+long) {
		t.Fatal("long item should be listed whole")
	}
	if stored := h.repo.Snapshot(); len(stored) != 1 || stored[0].Item.String() != long {
		t.Errorf("unexpected stored set %+v", stored)
	}
}

func TestPage_AddShowsNewestFirst(t *testing.T) {
	h := newHarness(t)

	h.add(t, "Alice", "a pony")
	body := h.add(t, "  Bob ", " a kite ")

	alice := strings.Index(body, "Alice: a pony")
	bob := strings.Index(body, "Bob: a kite")
	if alice < 0 || bob < 0 {
		t.Fatalf("both wishes should be listed:\n%s", body)
	}
	if bob > alice {
		t.Error("newest wish should be listed first")
	}
	if strings.Contains(body, `value="  Bob "`) {
		t.Error("create form should be cleared after a successful add")
	}
}

func TestPage_AddBlankKeepsPending(t *testing.T) {
	h := newHarness(t)

	body := h.add(t, "Bob", "   ")
	if len(h.repo.Snapshot()) != 0 {
		t.Fatal("blank item must not be stored")
	}
	if h.repo.Calls(memory.OpInsert) != 0 {
		t.Error("blank item must not reach the store")
	}
	if !strings.Contains(body, `value="Bob"`) {
		t.Error("pending name should survive the no-op")
	}
}

func TestPage_AddFailureKeepsPending(t *testing.T) {
	h := newHarness(t)
	h.repo.FailOn(memory.OpInsert, errDown)

	body := h.add(t, "Alice", "a pony")
	if !strings.Contains(body, `value="Alice"`) || !strings.Contains(body, `value="a pony"`) {
		t.Error("pending fields should be kept when the store fails")
	}
	if strings.Contains(body, "connection refused") {
		t.Error("store errors must not be shown")
	}
}

func TestPage_EditAndSave(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Alice", "a pony")
	w := h.repo.Snapshot()[0]

	body := h.post(t, "/wishlist/"+w.ID.String()+"/edit", nil)
	if !strings.Contains(body, `action="/wishlist/edit"`) || !strings.Contains(body, `value="a pony"`) {
		t.Fatalf("row should be in edit mode:\n%s", body)
	}

	body = h.post(t, "/wishlist/edit", url.Values{"name": {"Alice"}, "item": {" two ponies "}})
	if !strings.Contains(body, "Alice: two ponies") {
		t.Fatalf("updated wish should be listed:\n%s", body)
	}
	if strings.Contains(body, `action="/wishlist/edit"`) {
		t.Error("edit mode should end after save")
	}

	got := h.repo.Snapshot()[0]
	if got.ID != w.ID || !got.CreatedAt.Equal(w.CreatedAt) {
		t.Errorf("id and created_at must be preserved: %+v", got)
	}
}

func TestPage_EditThenCancel(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Alice", "a pony")
	before := h.repo.Snapshot()

	h.post(t, "/wishlist/"+before[0].ID.String()+"/edit", nil)
	body := h.post(t, "/wishlist/edit/cancel", url.Values{"name": {"X"}, "item": {"Y"}})

	if strings.Contains(body, `action="/wishlist/edit"`) {
		t.Error("cancel should leave edit mode")
	}
	if h.repo.Calls(memory.OpUpdate) != 0 {
		t.Error("cancel must not touch the store")
	}
	if after := h.repo.Snapshot(); after[0] != before[0] {
		t.Errorf("wish changed: %+v", after[0])
	}
}

func TestPage_EditUnknownIsNoop(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Alice", "a pony")

	body := h.post(t, "/wishlist/"+uuid.NewString()+"/edit", nil)
	if strings.Contains(body, `action="/wishlist/edit"`) {
		t.Error("unknown id should not enter edit mode")
	}
}

func TestPage_Delete(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Alice", "a pony")
	h.add(t, "Bob", "a kite")
	alice := h.repo.Snapshot()[1]

	body := h.post(t, "/wishlist/"+alice.ID.String()+"/delete", nil)
	if strings.Contains(body, "Alice: a pony") || !strings.Contains(body, "Bob: a kite") {
		t.Fatalf("only Alice's wish should be removed:\n%s", body)
	}
}

func TestPage_DeleteBadIDIsNoop(t *testing.T) {
	h := newHarness(t)

	h.post(t, "/wishlist/not-a-uuid/delete", nil)
	if h.repo.Calls(memory.OpDelete) != 0 {
		t.Error("invalid id must not reach the store")
	}
}

func TestPage_StaleOnLoadFailure(t *testing.T) {
	h := newHarness(t)
	h.add(t, "Alice", "a pony")
	h.repo.FailOn(memory.OpList, errDown)

	body := h.get(t, "/wishlist")
	if !strings.Contains(body, "Alice: a pony") {
		t.Error("last loaded list should stay visible when loading fails")
	}
}

func TestPage_EscapesValues(t *testing.T) {
	h := newHarness(t)
	h.repo.Seed(models.Wish{
		ID:        uuid.New(),
		Name:      "<b>Mallory</b>",
		Item:      "<script>alert(1)</script>",
		CreatedAt: time.Now().UTC(),
	})

	body := h.get(t, "/wishlist")
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatal("wish text must be escaped")
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Error("expected escaped wish text")
	}
}

func TestPage_LegacyNullName(t *testing.T) {
	h := newHarness(t)
	h.repo.Seed(models.Wish{ID: uuid.New(), Item: "a pony", CreatedAt: time.Now().UTC()})

	body := h.get(t, "/wishlist")
	if !strings.Contains(body, ": a pony") {
		t.Error("wish without a name should still be listed")
	}
}

func TestPage_Stylesheet(t *testing.T) {
	h := newHarness(t)

	resp, err := h.client.Get(h.srv.URL + "/static/wishlist.css")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("expected text/css, got %q", ct)
	}
}

func TestPage_WorksWithoutRedis(t *testing.T) {
	h := newHarness(t)
	h.redis.Close()

	body := h.add(t, "Alice", "a pony")
	if !strings.Contains(body, "Alice: a pony") {
		t.Error("mutations should still work when sessions cannot be saved")
	}
}
