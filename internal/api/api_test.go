package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/db"
	"github.com/erazemk/najdeno/internal/export"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/query"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

const testJWTSecret = "test-secret"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.NewSQL(db.NewTestDB(t), db.SQLite)
	svc := service.New(st, query.New(st), auth.NewPasswords(auth.SchemeBcrypt, auth.WithCost(bcrypt.MinCost)), auth.NewIssuer(testJWTSecret, time.Hour))
	server := httptest.NewServer(NewRouter(svc, Options{}))
	t.Cleanup(server.Close)
	return server
}

type apiResponse struct {
	Status  int
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (r apiResponse) decode(t *testing.T, target any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, target); err != nil {
		t.Fatalf("decoding data %s: %v", r.Data, err)
	}
}

func call(t *testing.T, method, url, token string, body any) apiResponse {
	t.Helper()

	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	out := apiResponse{Status: resp.StatusCode}
	json.NewDecoder(resp.Body).Decode(&out)
	return out
}

func umbrella() map[string]string {
	return map[string]string{
		"title":       "Black Umbrella",
		"description": "Left by the door",
		"type":        "found",
		"address":     "123 Main St",
		"city":        "Evanston",
		"zip_code":    "60208",
		"email":       "a@b.com",
	}
}

func createItem(t *testing.T, server *httptest.Server, body map[string]string) model.Item {
	t.Helper()
	resp := call(t, "POST", server.URL+"/api/items", "", body)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}
	var it model.Item
	resp.decode(t, &it)
	return it
}

func login(t *testing.T, server *httptest.Server, username, password string) string {
	t.Helper()
	resp := call(t, "POST", server.URL+"/api/login", "", map[string]string{"username": username, "password": password})
	if resp.Status != http.StatusOK {
		t.Fatalf("login failed: %d (%s)", resp.Status, resp.Error)
	}
	var res service.LoginResult
	resp.decode(t, &res)
	if res.Token == "" {
		t.Fatal("empty token from login")
	}
	return res.Token
}

func TestCreateItemEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := call(t, "POST", server.URL+"/api/items", "", umbrella())
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Status)
	}
	if resp.Message != "item created" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	var it model.Item
	resp.decode(t, &it)
	if it.Location != "123 Main St, Evanston 60208" {
		t.Errorf("unexpected location %q", it.Location)
	}
	if it.Status != "active" {
		t.Errorf("expected status 'active', got %q", it.Status)
	}
}

func TestCreateItemAcceptsZipCodeAlias(t *testing.T) {
	server := setupTestServer(t)

	body := umbrella()
	delete(body, "zip_code")
	body["zipCode"] = "60201"

	it := createItem(t, server, body)
	if it.ZipCode != "60201" {
		t.Errorf("expected zip code from zipCode, got %q", it.ZipCode)
	}
}

func TestCreateItemValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name    string
		body    any
		wantErr string
	}{
		{"missing title", func() map[string]string { b := umbrella(); delete(b, "title"); return b }(), "missing required field: title"},
		{"bad type", func() map[string]string { b := umbrella(); b["type"] = "stolen"; return b }(), "type must be 'lost' or 'found'"},
		{"bad email", func() map[string]string { b := umbrella(); b["email"] = "nope"; return b }(), "invalid email"},
		{"zip code too long", func() map[string]string { b := umbrella(); b["zip_code"] = "602081234567"; return b }(), "zip_code must be at most 10 characters"},
		{"malformed body", "{not json", "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := call(t, "POST", server.URL+"/api/items", "", tt.body)
			if resp.Status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Status)
			}
			if resp.Error != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, resp.Error)
			}
		})
	}

	list := call(t, "GET", server.URL+"/api/items", "", nil)
	var items []model.Item
	list.decode(t, &items)
	if len(items) != 0 {
		t.Errorf("expected no items after failed creates, got %d", len(items))
	}
}

func TestListItemsTypeFilter(t *testing.T) {
	server := setupTestServer(t)

	createItem(t, server, umbrella())
	lost := umbrella()
	lost["title"] = "Blue Jacket"
	lost["type"] = "lost"
	createItem(t, server, lost)

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"?type=lost", 1},
		{"?type=found", 1},
		{"?type=bogus", 2},
		{"?search=jacket", 1},
		{"?type=found&search=jacket", 0},
	}
	for _, tt := range tests {
		resp := call(t, "GET", server.URL+"/api/items"+tt.query, "", nil)
		var items []model.Item
		resp.decode(t, &items)
		if len(items) != tt.want {
			t.Errorf("GET /api/items%s: expected %d items, got %d", tt.query, tt.want, len(items))
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	server := setupTestServer(t)
	createItem(t, server, umbrella())

	resp := call(t, "GET", server.URL+"/api/search?q=", "", nil)
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	if string(resp.Data) != "[]" {
		t.Errorf("expected empty array for empty query, got %s", resp.Data)
	}

	resp = call(t, "GET", server.URL+"/api/search?q=EVANSTON", "", nil)
	var items []model.Item
	resp.decode(t, &items)
	if len(items) != 1 {
		t.Errorf("expected 1 match, got %d", len(items))
	}
}

func TestUpdateItemStatusOnly(t *testing.T) {
	server := setupTestServer(t)
	before := createItem(t, server, umbrella())

	for _, method := range []string{"PUT", "PATCH"} {
		resp := call(t, method, server.URL+"/api/items/"+itoa(before.ID), "", map[string]string{"status": "resolved"})
		if resp.Status != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", method, resp.Status, resp.Error)
		}
		var after model.Item
		resp.decode(t, &after)
		if after.Status != "resolved" || after.UpdatedAt == nil {
			t.Errorf("%s: expected resolved with updated_at, got %+v", method, after)
		}
		if after.Title != before.Title || after.Location != before.Location || after.Email != before.Email || after.Date != before.Date {
			t.Errorf("%s: untouched fields changed: %+v", method, after)
		}
	}

	resp := call(t, "PUT", server.URL+"/api/items/"+itoa(before.ID), "", map[string]string{"title": " "})
	if resp.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for blank title, got %d", resp.Status)
	}
	resp = call(t, "PATCH", server.URL+"/api/items/"+itoa(before.ID), "", map[string]string{"status": strings.Repeat("x", 21)})
	if resp.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for an overlong status, got %d", resp.Status)
	}
	resp = call(t, "PUT", server.URL+"/api/items/999", "", map[string]string{"status": "resolved"})
	if resp.Status != http.StatusNotFound {
		t.Errorf("expected 404 for missing item, got %d", resp.Status)
	}
}

func TestDeleteItem(t *testing.T) {
	server := setupTestServer(t)
	it := createItem(t, server, umbrella())
	url := server.URL + "/api/items/" + itoa(it.ID)

	resp := call(t, "DELETE", url, "", nil)
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var removed model.Item
	resp.decode(t, &removed)
	if removed.ID != it.ID {
		t.Errorf("expected removed item %d, got %d", it.ID, removed.ID)
	}

	if resp := call(t, "GET", url, "", nil); resp.Status != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.Status)
	}
	if resp := call(t, "DELETE", url, "", nil); resp.Status != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", resp.Status)
	}
	if resp := call(t, "GET", server.URL+"/api/items/abc", "", nil); resp.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid id, got %d", resp.Status)
	}
}

func TestStatsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := call(t, "GET", server.URL+"/api/stats", "", nil)
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	var raw map[string]any
	resp.decode(t, &raw)
	if raw["total_items"] != float64(0) {
		t.Errorf("expected total_items 0, got %v", raw["total_items"])
	}
	if v, ok := raw["most_recent"]; !ok || v != nil {
		t.Errorf("expected most_recent null, got %v", v)
	}

	createItem(t, server, umbrella())

	resp = call(t, "GET", server.URL+"/api/stats/cities", "", nil)
	var cities map[string]int
	resp.decode(t, &cities)
	if cities["Evanston"] != 1 {
		t.Errorf("expected 1 item in Evanston, got %v", cities)
	}

	resp = call(t, "GET", server.URL+"/api/stats/recent?days=7", "", nil)
	var recent struct {
		Days  int `json:"days"`
		Count int `json:"count"`
	}
	resp.decode(t, &recent)
	if recent.Days != 7 || recent.Count != 1 {
		t.Errorf("unexpected recent window: %+v", recent)
	}

	for _, days := range []string{"-1", "0", "abc", "3651", "9223372036854775807"} {
		resp := call(t, "GET", server.URL+"/api/stats/recent?days="+days, "", nil)
		if resp.Status != http.StatusBadRequest {
			t.Errorf("days=%s: expected 400, got %d", days, resp.Status)
		}
	}
	if resp := call(t, "GET", server.URL+"/api/stats/recent?days=3650", "", nil); resp.Status != http.StatusOK {
		t.Errorf("expected the largest window to be accepted, got %d", resp.Status)
	}
}

func TestUserRegistrationConflicts(t *testing.T) {
	server := setupTestServer(t)

	alice := map[string]string{"username": "alice", "password": "pw", "email": "alice@x.com"}
	resp := call(t, "POST", server.URL+"/api/users", "", alice)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}
	if strings.Contains(string(resp.Data), "password") {
		t.Errorf("response leaked password: %s", resp.Data)
	}

	dup := map[string]string{"username": "alice2", "password": "pw", "email": "alice@x.com"}
	resp = call(t, "POST", server.URL+"/api/auth/register", "", dup)
	if resp.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Status)
	}
	if resp.Error != "email already exists" {
		t.Errorf("unexpected error %q", resp.Error)
	}

	token := login(t, server, "alice", "pw")
	resp = call(t, "GET", server.URL+"/api/users", token, nil)
	var users []model.UserSummary
	resp.decode(t, &users)
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}
}

func TestLoginAndLogout(t *testing.T) {
	server := setupTestServer(t)
	call(t, "POST", server.URL+"/api/users", "", map[string]string{"username": "bob", "password": "pw", "email": "bob@x.com"})

	resp := call(t, "POST", server.URL+"/api/auth/login", "", map[string]string{"username": "bob", "password": "wrong"})
	if resp.Status != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.Status)
	}
	resp = call(t, "POST", server.URL+"/api/login", "", map[string]string{"username": "nobody", "password": "pw"})
	if resp.Status != http.StatusUnauthorized {
		t.Errorf("expected 401 for unknown user, got %d", resp.Status)
	}

	if resp := call(t, "GET", server.URL+"/api/users", "", nil); resp.Status != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.Status)
	}

	token := login(t, server, "bob", "pw")
	if resp := call(t, "GET", server.URL+"/api/users", token, nil); resp.Status != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", resp.Status)
	}

	if resp := call(t, "POST", server.URL+"/api/auth/logout", token, nil); resp.Status != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", resp.Status)
	}
	if resp := call(t, "GET", server.URL+"/api/users", token, nil); resp.Status != http.StatusUnauthorized {
		t.Errorf("expected revoked token to be rejected, got %d", resp.Status)
	}
}

func TestReportsEndpoints(t *testing.T) {
	server := setupTestServer(t)

	report := map[string]string{
		"title": "Lost Wallet", "type": "lost", "address": "Northwestern University",
		"city": "Evanston", "zip_code": "60208", "description": "Brown leather", "email": "r@x.com",
	}
	resp := call(t, "POST", server.URL+"/api/reports", "", report)
	if resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", resp.Status, resp.Error)
	}

	delete(report, "city")
	if resp := call(t, "POST", server.URL+"/api/reports", "", report); resp.Status != http.StatusBadRequest {
		t.Errorf("expected 400 for missing city, got %d", resp.Status)
	}

	resp = call(t, "GET", server.URL+"/api/reports", "", nil)
	var reports []model.Report
	resp.decode(t, &reports)
	if len(reports) != 1 || reports[0].Title != "Lost Wallet" {
		t.Errorf("unexpected reports: %+v", reports)
	}
}

func TestItemImageEndpoints(t *testing.T) {
	server := setupTestServer(t)
	it := createItem(t, server, umbrella())
	url := server.URL + "/api/items/" + itoa(it.ID) + "/image"

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 before upload, got %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30)))
	req, _ := http.NewRequest("PUT", url, &buf)
	req.Header.Set("Content-Type", "image/png")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from upload, got %d", resp.StatusCode)
	}

	resp, err = http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", ct)
	}

	req, _ = http.NewRequest("PUT", url, strings.NewReader("not an image"))
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for non-image upload, got %d", resp2.StatusCode)
	}
}

func TestExportEndpoints(t *testing.T) {
	server := setupTestServer(t)
	createItem(t, server, umbrella())

	for _, path := range []string{"/api/items/export", "/api/reports/export"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != export.ContentType {
			t.Errorf("%s: unexpected content type %q", path, ct)
		}
	}
}

func TestIndexHealthAndMetrics(t *testing.T) {
	server := setupTestServer(t)

	if resp := call(t, "GET", server.URL+"/", "", nil); resp.Status != http.StatusOK {
		t.Errorf("expected 200 from index, got %d", resp.Status)
	}
	if resp := call(t, "GET", server.URL+"/api/health", "", nil); resp.Status != http.StatusOK {
		t.Errorf("expected 200 from health, got %d", resp.Status)
	}

	call(t, "GET", server.URL+"/api/items", "", nil)
	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "najdeno_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	server := setupTestServer(t)

	req, _ := http.NewRequest("OPTIONS", server.URL+"/api/items", nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected any origin allowed, got %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}

	resp, err = http.Get(server.URL + "/api/items")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
