package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"arbeitsrapport/pkg/rapport"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	return bytes.NewBuffer(b)
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	var err error
	cfg, err = LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	jwtSecret = []byte(cfg.JWTSecret)
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user (409 is fine when the row survived an earlier run)
	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, map[string]string{"username": "rapportuser", "password": "geheim1"}), "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, map[string]string{"username": "rapportuser", "password": "geheim1"}), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create report with one entry
	createBody := map[string]any{
		"name":   "März 2025",
		"period": "01. - 15. März 2025",
		"entries": []map[string]any{
			{"date": "2025-03-03", "object": "Goldhaldestr", "location": "Zürich", "hours": 8},
		},
	}
	resp = performRequest(r, http.MethodPost, "/reports", jsonBody(t, createBody), token)
	if resp.Code != 200 {
		t.Fatalf("create report failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var created map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &created)
	reportID, _ := created["id"].(float64)
	if reportID == 0 {
		t.Fatalf("no report id in response: %+v", created)
	}
	idPath := "/reports/" + strconv.Itoa(int(reportID))

	// 4. List reports
	resp = performRequest(r, http.MethodGet, "/reports", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list reports failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Get report with decoded content
	resp = performRequest(r, http.MethodGet, idPath, nil, token)
	if resp.Code != 200 {
		t.Fatalf("get report failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Goldhaldestr") {
		t.Fatalf("report content missing entry: %s", resp.Body.String())
	}

	// 6. Append an entry
	resp = performRequest(r, http.MethodPost, idPath+"/entries",
		jsonBody(t, map[string]any{"date": "2025-03-04", "object": "Büro", "hours": 2.5}), token)
	if resp.Code != 200 {
		t.Fatalf("append entry failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 7. An empty draft must be rejected even when it carries a date
	resp = performRequest(r, http.MethodPost, idPath+"/entries",
		jsonBody(t, map[string]any{"date": "2025-03-05"}), token)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty entry, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 8. CSV export
	resp = performRequest(r, http.MethodGet, idPath+"/csv", nil, token)
	if resp.Code != 200 {
		t.Fatalf("csv export failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !strings.HasPrefix(resp.Body.String(), rapport.Header) {
		t.Fatalf("csv does not start with the fixed header: %s", resp.Body.String())
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, ".csv") {
		t.Fatalf("missing csv attachment disposition: %q", cd)
	}

	// 9. Chart: by object, then by day for one object
	resp = performRequest(r, http.MethodGet, "/charts/hours?period="+url.QueryEscape("01. - 15. März 2025"), nil, token)
	if resp.Code != 200 {
		t.Fatalf("chart by object failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Goldhaldestr") {
		t.Fatalf("chart labels missing object: %s", resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet,
		"/charts/hours?period="+url.QueryEscape("01. - 15. März 2025")+"&object=Goldhaldestr", nil, token)
	if resp.Code != 200 {
		t.Fatalf("chart by day failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. Chart with a period nothing falls into -> no_data
	resp = performRequest(r, http.MethodGet, "/charts/hours?period="+url.QueryEscape("Januar 2019"), nil, token)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 no_data, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 11. Object vocabulary
	resp = performRequest(r, http.MethodPost, "/objects", jsonBody(t, map[string]string{"name": "Goldhaldestr"}), token)
	if resp.Code != 200 {
		t.Fatalf("create object failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/objects", nil, token)
	if resp.Code != 200 || !strings.Contains(resp.Body.String(), "Goldhaldestr") {
		t.Fatalf("list objects failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 12. SMTP settings round trip, password never echoed
	resp = performRequest(r, http.MethodPut, "/settings/smtp",
		jsonBody(t, map[string]any{"host": "mail.example.com", "username": "u", "password": "pw", "from_email": "u@example.com"}), token)
	if resp.Code != 200 {
		t.Fatalf("put smtp settings failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/settings/smtp", nil, token)
	if resp.Code != 200 {
		t.Fatalf("get smtp settings failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if strings.Contains(resp.Body.String(), "pw") {
		t.Fatalf("smtp password echoed back: %s", resp.Body.String())
	}

	// 13. Delete report
	resp = performRequest(r, http.MethodDelete, idPath, nil, token)
	if resp.Code != 200 {
		t.Fatalf("delete report failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, idPath, nil, token)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}

	// 14. Unauthorized access to a protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/reports", nil, "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list reports got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
