package cart

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/product"
)

type cartResponse struct {
	SessionID string `json:"sessionId"`
	Items     []Item `json:"items"`
}

func makeAppWithCartHandler(t *testing.T, products []product.Product) (*fiber.App, *Sessions) {
	t.Helper()
	sessions := NewSessions("test-secret", time.Hour)
	catalog := product.NewService(product.NewInMemoryRepository(products))
	h := NewHandler(NewService(NewInMemoryRepository(), catalog), sessions)

	app := fiber.New()
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app)
	return app, sessions
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func newSession(t *testing.T, app *fiber.App) Session {
	t.Helper()
	code, body := call(t, app, "POST", "/cart/session", "", "")
	if code != fiber.StatusCreated {
		t.Fatalf("expected 201 creating session, got %d", code)
	}
	var s Session
	if err := json.Unmarshal(body, &s); err != nil {
		t.Fatalf("bad session json: %v", err)
	}
	if s.Token == "" || s.SessionID == "" {
		t.Fatalf("incomplete session %+v", s)
	}
	return s
}

func TestCartRoutes_Registered(t *testing.T) {
	app, _ := makeAppWithCartHandler(t, nil)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{"POST /cart/session", "GET /cart", "POST /cart/items", "DELETE /cart"} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}
}

func TestCart_RequiresToken(t *testing.T) {
	app, _ := makeAppWithCartHandler(t, nil)

	for _, tc := range []struct{ method, path, token string }{
		{"GET", "/cart", ""},
		{"POST", "/cart/items", ""},
		{"DELETE", "/cart", ""},
		{"GET", "/cart", "not-a-jwt"},
	} {
		code, _ := call(t, app, tc.method, tc.path, tc.token, "")
		if code != fiber.StatusUnauthorized {
			t.Fatalf("%s %s token=%q: expected 401, got %d", tc.method, tc.path, tc.token, code)
		}
	}

	forged, _ := NewSessions("other-secret", time.Hour).Issue()
	code, _ := call(t, app, "GET", "/cart", forged.Token, "")
	if code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for token signed with another secret, got %d", code)
	}
}

func TestCart_AddIncrementRemoveClear(t *testing.T) {
	fern := primitive.NewObjectID()
	app, _ := makeAppWithCartHandler(t, []product.Product{{ID: fern, Title: "Boston Fern"}})
	s := newSession(t, app)

	code, body := call(t, app, "POST", "/cart/items", s.Token, `{"productId":"`+fern.Hex()+`"}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 adding item, got %d %s", code, body)
	}
	var got cartResponse
	_ = json.Unmarshal(body, &got)
	if got.SessionID != s.SessionID || len(got.Items) != 1 || got.Items[0].Quantity != 1 {
		t.Fatalf("default quantity should be 1, got %+v", got)
	}

	_, body = call(t, app, "POST", "/cart/items", s.Token, `{"productId":"`+fern.Hex()+`","quantity":2}`)
	if !strings.Contains(string(body), `"quantity":3`) {
		t.Fatalf("expected quantity 3, got %s", body)
	}

	_, body = call(t, app, "POST", "/cart/items", s.Token, `{"productId":"`+fern.Hex()+`","quantity":-3}`)
	if strings.Contains(string(body), fern.Hex()) {
		t.Fatalf("line should be removed at zero, got %s", body)
	}

	_, _ = call(t, app, "POST", "/cart/items", s.Token, `{"productId":"`+fern.Hex()+`","quantity":5}`)
	code, _ = call(t, app, "DELETE", "/cart", s.Token, "")
	if code != fiber.StatusNoContent {
		t.Fatalf("expected 204 clearing cart, got %d", code)
	}
	code, body = call(t, app, "GET", "/cart", s.Token, "")
	if code != fiber.StatusOK || strings.Contains(string(body), "productId") {
		t.Fatalf("expected empty cart after clear, got %d %s", code, body)
	}
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	fern := primitive.NewObjectID()
	app, _ := makeAppWithCartHandler(t, []product.Product{{ID: fern, Title: "Fern"}})
	a, b := newSession(t, app), newSession(t, app)

	_, _ = call(t, app, "POST", "/cart/items", a.Token, `{"productId":"`+fern.Hex()+`"}`)
	_, body := call(t, app, "GET", "/cart", b.Token, "")
	if strings.Contains(string(body), fern.Hex()) {
		t.Fatalf("session b sees session a's cart: %s", body)
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	app, _ := makeAppWithCartHandler(t, nil)
	s := newSession(t, app)

	code, _ := call(t, app, "POST", "/cart/items", s.Token, `{"productId":"`+primitive.NewObjectID().Hex()+`"}`)
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", code)
	}
	code, _ = call(t, app, "POST", "/cart/items", s.Token, `{"productId":"rose"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed product id, got %d", code)
	}
}

func TestSessionIDFromCtx(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Get("X-Session"); sid != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"sid": sid}})
		}
		return c.Next()
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		sid, err := SessionIDFromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(sid)
	})

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Session", "abc")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	if res.StatusCode != fiber.StatusOK || string(b) != "abc" {
		t.Fatalf("expected sid abc, got %d %s", res.StatusCode, b)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}
}

func TestSessions_IssueSetsExpiry(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions("k", 72*time.Hour)
	s.now = func() time.Time { return fixed }

	sess, err := s.Issue()
	if err != nil {
		t.Fatal(err)
	}
	if !sess.ExpiresAt.Equal(fixed.Add(72 * time.Hour)) {
		t.Fatalf("unexpected expiry %v", sess.ExpiresAt)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(sess.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("k"), nil
	}); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sid"] != sess.SessionID {
		t.Fatalf("sid claim %v != %s", claims["sid"], sess.SessionID)
	}
}
