package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wichananm65/nursery-shop-backend/internal/database"
	"github.com/wichananm65/nursery-shop-backend/internal/query"
)

type listResponse struct {
	Status     bool             `json:"status"`
	Data       []map[string]any `json:"data"`
	Pagination query.Pagination `json:"pagination"`
}

func setupApp(repo Repository) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(repo), false).RegisterPublicRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func TestProductRoutes_Registered(t *testing.T) {
	app := setupApp(NewInMemoryRepository(nil))

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Method+" "+r.Path] = true
		}
	}
	for _, want := range []string{
		"GET /products", "GET /products/:id", "POST /products",
		"PUT /products/:id", "DELETE /products/:id", "POST /clear-cart",
	} {
		if !routes[want] {
			t.Fatalf("expected route %q to be registered", want)
		}
	}
}

func TestListProducts_Pagination(t *testing.T) {
	seed := make([]Product, 0, 25)
	for i := 0; i < 25; i++ {
		seed = append(seed, Product{Title: fmt.Sprintf("Plant %02d", i), Price: float64(i)})
	}
	app := setupApp(NewInMemoryRepository(seed))

	code, body := doJSON(t, app, "GET", "/products?page=3&limit=10&sortBy=price", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, body)
	}
	var got listResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !got.Status {
		t.Fatalf("expected status true")
	}
	if len(got.Data) != 5 {
		t.Fatalf("expected 5 products on page 3, got %d", len(got.Data))
	}
	if got.Data[0]["title"] != "Plant 20" {
		t.Fatalf("page should start at Plant 20, got %v", got.Data[0]["title"])
	}
	want := query.Pagination{TotalProducts: 25, TotalPages: 3, CurrentPage: 3, PageSize: 10}
	if got.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", got.Pagination, want)
	}
}

func TestListProducts_PageLengthNeverExceedsLimit(t *testing.T) {
	seed := make([]Product, 0, 13)
	for i := 0; i < 13; i++ {
		seed = append(seed, Product{Title: fmt.Sprintf("Fern %d", i)})
	}
	app := setupApp(NewInMemoryRepository(seed))

	for _, limit := range []int{1, 2, 5, 13, 50} {
		for page := 1; page <= 4; page++ {
			code, body := doJSON(t, app, "GET", fmt.Sprintf("/products?page=%d&limit=%d", page, limit), "")
			if code != fiber.StatusOK {
				t.Fatalf("expected 200 got %d", code)
			}
			var got listResponse
			_ = json.Unmarshal(body, &got)
			if len(got.Data) > limit {
				t.Fatalf("page %d limit %d returned %d items", page, limit, len(got.Data))
			}
			if wantPages := int64((13 + limit - 1) / limit); got.Pagination.TotalPages != wantPages {
				t.Fatalf("limit %d: totalPages %d want %d", limit, got.Pagination.TotalPages, wantPages)
			}
		}
	}
}

func TestListProducts_FilterAndSearch(t *testing.T) {
	seed := []Product{
		{Title: "Desert Rose", Category: "Succulents"},
		{Title: "ROSEMARY", Category: "Herbs"},
		{Title: "Tulip", Category: "Bulbs"},
		{Title: "Aloe", Category: "Succulents ", AddedToCart: true},
	}
	app := setupApp(NewInMemoryRepository(seed))

	code, body := doJSON(t, app, "GET", "/products?search=rose", "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
	var got listResponse
	_ = json.Unmarshal(body, &got)
	if len(got.Data) != 2 {
		t.Fatalf("expected 2 rose matches, got %d", len(got.Data))
	}
	for _, p := range got.Data {
		if !strings.Contains(strings.ToLower(p["title"].(string)), "rose") {
			t.Fatalf("unexpected search hit %v", p["title"])
		}
	}

	_, body = doJSON(t, app, "GET", "/products?category=Succulents", "")
	got = listResponse{}
	_ = json.Unmarshal(body, &got)
	if len(got.Data) != 1 || got.Data[0]["category"] != "Succulents" {
		t.Fatalf("category filter must be exact, got %+v", got.Data)
	}

	_, body = doJSON(t, app, "GET", "/products?addedToCart=true", "")
	got = listResponse{}
	_ = json.Unmarshal(body, &got)
	if len(got.Data) != 1 || got.Data[0]["title"] != "Aloe" {
		t.Fatalf("addedToCart filter, got %+v", got.Data)
	}
}

func TestListProducts_BadParams(t *testing.T) {
	app := setupApp(NewInMemoryRepository(nil))
	for _, qs := range []string{"page=0", "limit=abc", "sortOrder=random"} {
		code, _ := doJSON(t, app, "GET", "/products?"+qs, "")
		if code != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", qs, code)
		}
	}
}

func TestGetProduct_FoundMissingInvalid(t *testing.T) {
	id := primitive.NewObjectID()
	app := setupApp(NewInMemoryRepository([]Product{{ID: id, Title: "Monstera", Extra: map[string]any{"potSize": "20cm"}}}))

	code, body := doJSON(t, app, "GET", "/products/"+id.Hex(), "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", code)
	}
	if !strings.Contains(string(body), `"potSize":"20cm"`) || !strings.Contains(string(body), id.Hex()) {
		t.Fatalf("unexpected body: %s", body)
	}

	code, _ = doJSON(t, app, "GET", "/products/"+primitive.NewObjectID().Hex(), "")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", code)
	}

	code, _ = doJSON(t, app, "GET", "/products/not-an-id", "")
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", code)
	}
}

func TestCreateProduct_AcceptsArbitraryFields(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupApp(repo)

	code, body := doJSON(t, app, "POST", "/products", `{"title":"Peace Lily","price":19.5,"light":"shade","_id":"client-chosen"}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, body)
	}
	var res database.InsertResult
	_ = json.Unmarshal(body, &res)
	if !res.Acknowledged || res.InsertedID == "" || res.InsertedID == "client-chosen" {
		t.Fatalf("unexpected insert result %+v", res)
	}
	oid, _ := primitive.ObjectIDFromHex(res.InsertedID)
	p, err := repo.GetByID(context.Background(), oid)
	if err != nil {
		t.Fatalf("created product not stored: %v", err)
	}
	if p.Title != "Peace Lily" || p.Extra["light"] != "shade" {
		t.Fatalf("stored product %+v", p)
	}

	if _, ok := p.Fields()["description"]; ok {
		t.Fatalf("fields the client never sent were stored: %+v", p.Fields())
	}
}

func TestCreateProduct_KeepsUnusualTypes(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	app := setupApp(repo)

	code, body := doJSON(t, app, "POST", "/products", `{"title":"Rose","price":"12.99","addedToCart":"no"}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, body)
	}
	var res database.InsertResult
	_ = json.Unmarshal(body, &res)

	code, body = doJSON(t, app, "GET", "/products/"+res.InsertedID, "")
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, body)
	}
	var got struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	want := map[string]any{"_id": res.InsertedID, "title": "Rose", "price": "12.99", "addedToCart": "no"}
	if fmt.Sprint(got.Data) != fmt.Sprint(want) {
		t.Fatalf("stored %v, want %v", got.Data, want)
	}

	code, _ = doJSON(t, app, "POST", "/products", `{"title":42}`)
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 for numeric title, got %d", code)
	}
	code, _ = doJSON(t, app, "GET", "/products?sortBy=title", "")
	if code != fiber.StatusOK {
		t.Fatalf("listing mixed documents: expected 200 got %d", code)
	}
}

func TestUpdateProduct_IdentifierNeverChanges(t *testing.T) {
	id := primitive.NewObjectID()
	repo := NewInMemoryRepository([]Product{{ID: id, Title: "Cactus", Price: 5}})
	app := setupApp(repo)

	other := primitive.NewObjectID().Hex()
	code, body := doJSON(t, app, "PUT", "/products/"+id.Hex(), fmt.Sprintf(`{"_id":%q,"price":7.25}`, other))
	if code != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", code, body)
	}
	p, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("product lost its id: %v", err)
	}
	if p.Price != 7.25 || p.Title != "Cactus" {
		t.Fatalf("partial update not merged: %+v", p)
	}

	code, _ = doJSON(t, app, "PUT", "/products/"+primitive.NewObjectID().Hex(), `{"price":1}`)
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 when nothing matched, got %d", code)
	}

	code, _ = doJSON(t, app, "PUT", "/products/"+id.Hex(), `{"_id":"x"}`)
	if code != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for an update with only _id, got %d", code)
	}
}

func TestDeleteProduct(t *testing.T) {
	id := primitive.NewObjectID()
	app := setupApp(NewInMemoryRepository([]Product{{ID: id, Title: "Orchid"}}))

	code, body := doJSON(t, app, "DELETE", "/products/"+id.Hex(), "")
	if code != fiber.StatusOK || !strings.Contains(string(body), `"deletedCount":1`) {
		t.Fatalf("expected 200 with deletedCount 1, got %d %s", code, body)
	}
	code, _ = doJSON(t, app, "DELETE", "/products/"+id.Hex(), "")
	if code != fiber.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", code)
	}
}

func TestClearCart_ResetsEveryProduct(t *testing.T) {
	repo := NewInMemoryRepository([]Product{
		{Title: "A", AddedToCart: true},
		{Title: "B", AddedToCart: false},
		{Title: "C", AddedToCart: true},
	})
	app := setupApp(repo)

	code, body := doJSON(t, app, "POST", "/clear-cart", "")
	if code != fiber.StatusOK || !strings.Contains(string(body), "message") {
		t.Fatalf("expected 200 with message, got %d %s", code, body)
	}
	all, _, _ := repo.List(context.Background(), query.Params{Page: 1, Limit: 100, SortBy: "title", SortOrder: query.Ascending})
	for _, p := range all {
		if p.AddedToCart {
			t.Fatalf("product %s still in cart", p.Title)
		}
	}
}

func TestResetProducts_Gated(t *testing.T) {
	app := setupApp(NewInMemoryRepository(nil))
	code, _ := doJSON(t, app, "POST", "/dev/reset-products", "")
	if code != fiber.StatusForbidden {
		t.Fatalf("expected 403 when reset disabled, got %d", code)
	}

	repo := NewInMemoryRepository(nil)
	app = fiber.New()
	NewHandler(NewService(repo), true).RegisterPublicRoutes(app)
	code, body := doJSON(t, app, "POST", "/dev/reset-products", "")
	if code != fiber.StatusOK || !strings.Contains(string(body), fmt.Sprintf(`"inserted":%d`, len(samplePlants))) {
		t.Fatalf("expected sample reseed, got %d %s", code, body)
	}
}

type failingRepo struct{ InMemoryRepository }

func (*failingRepo) List(context.Context, query.Params) ([]Product, int64, error) {
	return nil, 0, errors.New("server selection timeout")
}

func TestListProducts_StoreDown(t *testing.T) {
	app := setupApp(&failingRepo{})
	code, body := doJSON(t, app, "GET", "/products", "")
	if code != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", code)
	}
	if strings.Contains(string(body), "server selection") {
		t.Fatalf("store error leaked to client: %s", body)
	}
}
