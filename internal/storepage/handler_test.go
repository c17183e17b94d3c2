package storepage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront_backend/internal/cart"
	"storefront_backend/internal/catalog/domain"
	internalhttp "storefront_backend/internal/http"
	"storefront_backend/internal/pages"
	"storefront_backend/internal/session"
	"storefront_backend/platform/logger"
)

type handlerTestConfig struct{}

func (handlerTestConfig) GetImageHost() string    { return "img.example.com" }
func (handlerTestConfig) GetProcessorURL() string { return "https://pay.example.com/process" }

type handlerSessionConfig struct{}

func (handlerSessionConfig) GetRedisURL() string          { return "" }
func (handlerSessionConfig) GetSessionCookieName() string { return "sid" }
func (handlerSessionConfig) GetSessionTTL() time.Duration { return time.Hour }
func (handlerSessionConfig) GetSessionCookieSecure() bool { return false }

func newTestEngine(t *testing.T, repo *pages.Memory, catalog CatalogFinder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewStore(client, handlerSessionConfig{})

	module, err := NewModule(repo, catalog, cart.NewManager(), handlerTestConfig{}, logger.New("test"))
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}

	engine := gin.New()
	module.RegisterRoutes(&internalhttp.RouterContext{
		Engine:  engine,
		Session: store.Middleware(),
	})
	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestServeOrdinaryPage(t *testing.T) {
	repo := pages.NewMemory()
	page := seedStorePage(t, repo)
	engine := newTestEngine(t, repo, &fakeCatalog{})

	w := get(engine, page.Path)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "welcome to the store") {
		t.Fatalf("body part missing from response: %q", body)
	}
	if !strings.Contains(body, "<header>site</header>") {
		t.Fatalf("layout missing from response: %q", body)
	}
}

func TestServeVirtualProductPage(t *testing.T) {
	repo := pages.NewMemory()
	page := seedStorePage(t, repo)
	catalog := &fakeCatalog{products: []domain.Product{testProduct("widget", 300)}}
	engine := newTestEngine(t, repo, catalog)

	w := get(engine, page.Path+"/widget")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product:widget") {
		t.Fatalf("product part not rendered: %q", w.Body.String())
	}
}

func TestServeVirtualCartPageSkipsLayout(t *testing.T) {
	repo := pages.NewMemory()
	page := seedStorePage(t, repo)
	engine := newTestEngine(t, repo, &fakeCatalog{})

	w := get(engine, page.Path+"/cart")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
	if w.Body.String() != "cart:0.00" {
		t.Fatalf("got %q, want the bare cart fragment", w.Body.String())
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("Cache-Control %q, want no-store", cc)
	}
}

func TestServeUnknownPathWithoutNotFoundPage(t *testing.T) {
	repo := pages.NewMemory()
	seedStorePage(t, repo)
	engine := newTestEngine(t, repo, &fakeCatalog{})

	w := get(engine, "/nowhere")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
}

func TestServeNotFoundPageEchoesAttemptedURL(t *testing.T) {
	repo := pages.NewMemory()
	seedStorePage(t, repo)
	if _, err := repo.Create(context.Background(), pages.CreatePageParams{
		Slug:  "404",
		Kind:  pages.KindContent,
		Title: "Not Found",
		Parts: map[string]string{
			pages.PartBody: `missing: <r:shopping:attempted_url />`,
		},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	engine := newTestEngine(t, repo, &fakeCatalog{})

	w := get(engine, "/no/such/page?q=<b>")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "missing: /no/such/page?q=&lt;b&gt;") {
		t.Fatalf("attempted url not echoed escaped: %q", body)
	}
}
