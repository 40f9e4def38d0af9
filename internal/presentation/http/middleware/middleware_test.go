package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/config"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/infrastructure/repository"
	"github.com/sangkips/pharmacy-pos/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withUser(userID string, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, userID)
		c.Set(ContextPermissions, permissions)
		c.Next()
	}
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour)
	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"|"+c.GetString(ContextStoreID))
	})

	if w := perform(r, http.MethodGet, "/me", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: status %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Token abc"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad scheme: status %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer nope"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d", w.Code)
	}

	token, err := jwtManager.GenerateAccessToken("u1", "Asha", "store-1", nil, nil)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK || w.Body.String() != "u1|store-1" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestRequirePermission(t *testing.T) {
	handle := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/allowed", withUser("u1", "day-close"), RequirePermission("day-close"), handle)
	r.GET("/denied", withUser("u1", "view"), RequirePermission("day-close"), handle)

	if w := perform(r, http.MethodGet, "/allowed", "", nil); w.Code != http.StatusNoContent {
		t.Fatalf("allowed: status %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/denied", "", nil); w.Code != http.StatusForbidden {
		t.Fatalf("denied: status %d", w.Code)
	}
}

func newIdempotencyRouter(t *testing.T, status *atomic.Int32, calls *atomic.Int32) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.IdempotencyKey{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	r := gin.New()
	r.POST("/orders", withUser("u1"), Idempotency(IdempotencyConfig{Repo: repository.NewIdempotencyRepository(db)}), func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(int(status.Load()), gin.H{"call": n})
	})
	return r
}

func TestIdempotencyReplaysSuccessfulResponse(t *testing.T) {
	var status, calls atomic.Int32
	status.Store(http.StatusCreated)
	r := newIdempotencyRouter(t, &status, &calls)
	headers := map[string]string{IdempotencyKeyHeader: "draft-1"}

	first := perform(r, http.MethodPost, "/orders", `{"a":1}`, headers)
	second := perform(r, http.MethodPost, "/orders", `{"a":1}`, headers)

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("status %d then %d", first.Code, second.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times", calls.Load())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" || second.Body.String() != first.Body.String() {
		t.Fatalf("not replayed: %q", second.Body.String())
	}

	mismatch := perform(r, http.MethodPost, "/orders", `{"a":2}`, headers)
	if mismatch.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reused key with other body: status %d", mismatch.Code)
	}
}

func TestIdempotencyDoesNotStoreFailures(t *testing.T) {
	var status, calls atomic.Int32
	status.Store(http.StatusBadGateway)
	r := newIdempotencyRouter(t, &status, &calls)
	headers := map[string]string{IdempotencyKeyHeader: "draft-2"}

	if w := perform(r, http.MethodPost, "/orders", `{}`, headers); w.Code != http.StatusBadGateway {
		t.Fatalf("status %d", w.Code)
	}
	status.Store(http.StatusCreated)
	if w := perform(r, http.MethodPost, "/orders", `{}`, headers); w.Code != http.StatusCreated {
		t.Fatalf("retry status %d", w.Code)
	}
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	var status, calls atomic.Int32
	status.Store(http.StatusCreated)
	r := newIdempotencyRouter(t, &status, &calls)

	perform(r, http.MethodPost, "/orders", `{}`, nil)
	perform(r, http.MethodPost, "/orders", `{}`, nil)
	if calls.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", calls.Load())
	}
}

func TestUserRateLimiter(t *testing.T) {
	rl := NewUserRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	r := gin.New()
	r.GET("/a", withUser("u1"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/b", withUser("u2"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, http.MethodGet, "/a", "", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := perform(r, http.MethodGet, "/a", "", nil)
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("over limit: status %d", w.Code)
	}
	if w := perform(r, http.MethodGet, "/b", "", nil); w.Code != http.StatusOK {
		t.Fatalf("other user limited: status %d", w.Code)
	}
}

func TestCORSAllowsIdempotencyKey(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.CORSConfig{AllowedHeaders: []string{"Accept"}}))
	r.POST("/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key, Authorization")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow origin %q", got)
	}
}
