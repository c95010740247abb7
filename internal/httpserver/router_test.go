package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"vkseva-content/internal/blob"
	"vkseva-content/internal/domain"
	"vkseva-content/internal/repository/sqlite"
	"vkseva-content/internal/service/admin"
	"vkseva-content/internal/service/cards"
	"vkseva-content/internal/service/settings"
	"vkseva-content/internal/session"
	"vkseva-content/internal/upload"
)

const testPassword = "let-me-in-please"

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type testEnv struct {
	router *gin.Engine
	cards  *cards.Store
	blobs  *blob.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cardStore := cards.New(db.Cards(), nil)
	settingsStore := settings.New(db.Settings(), nil)
	if err := cardStore.Sync(ctx); err != nil {
		t.Fatalf("sync cards: %v", err)
	}
	if err := settingsStore.Sync(ctx); err != nil {
		t.Fatalf("sync settings: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	adminSvc := admin.New(session.NewMemoryStore(), admin.Options{PasswordHash: string(hashed), IdleTimeout: time.Minute})
	blobs := blob.NewMemory("/uploads")

	router, err := buildRouter(logDiscard(), Deps{
		Cards:    cardStore,
		Settings: settingsStore,
		Admin:    adminSvc,
		Uploader: upload.New(blobs, 1<<20, nil),
		DB:       db,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{router: router, cards: cardStore, blobs: blobs}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return e.do(t, method, path, token, r, "application/json")
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/admin/login", "", `{"password":"`+testPassword+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if resp.Token == "" || resp.ExpiresIn != 60 {
		t.Fatalf("unexpected login response %s", rec.Body.String())
	}
	return resp.Token
}

func decodeCards(t *testing.T, rec *httptest.ResponseRecorder) []domain.Card {
	t.Helper()
	var resp struct {
		Cards []domain.Card `json:"cards"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode cards: %v", err)
	}
	return resp.Cards
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := env.do(t, http.MethodGet, path, "", nil, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") != "abc-123" {
		t.Fatalf("expected request id echoed, got %q", rec.Header().Get("X-Request-Id"))
	}
}

func TestPublicCardsOnlyActive(t *testing.T) {
	env := newTestEnv(t)
	hidden := env.cards.Cards()[1]
	if _, err := env.cards.ToggleActive(context.Background(), hidden.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	got := decodeCards(t, env.do(t, http.MethodGet, "/api/cards", "", nil, ""))
	if len(got) != 5 {
		t.Fatalf("expected 5 active cards, got %d", len(got))
	}
	for _, c := range got {
		if c.ID == hidden.ID {
			t.Fatalf("hidden card leaked to public list")
		}
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.doJSON(t, http.MethodGet, "/api/admin/cards", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec = env.doJSON(t, http.MethodGet, "/api/admin/cards", "forged", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}
	rec = env.doJSON(t, http.MethodPost, "/api/admin/login", "", `{"password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	if rec := env.doJSON(t, http.MethodPost, "/api/admin/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := env.doJSON(t, http.MethodGet, "/api/admin/cards", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestCardLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.doJSON(t, http.MethodPost, "/api/admin/cards", token, `{"title":"VK SPORTS","gradient":"from-lime-400 to-green-600","active":true,"badges":["A","B"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.Card
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Order != 7 {
		t.Fatalf("expected order 7, got %d", created.Order)
	}

	rec = env.doJSON(t, http.MethodPost, "/api/admin/cards/"+created.ID+"/move", token, `{"direction":-1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("move: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	moved := decodeCards(t, rec)
	if moved[5].ID != created.ID {
		t.Fatalf("expected new card at position 6")
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/admin/cards/"+created.ID, token, `{"subtitle":"Games for every village"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}

	third := env.cards.Cards()[2]
	rec = env.doJSON(t, http.MethodDelete, "/api/admin/cards/"+third.ID, token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	all := decodeCards(t, env.doJSON(t, http.MethodGet, "/api/admin/cards", token, ""))
	if len(all) != 6 {
		t.Fatalf("expected 6 cards, got %d", len(all))
	}
	for i, c := range all {
		if c.Order != i+1 {
			t.Fatalf("orders not contiguous: %+v", all)
		}
	}

	if rec := env.doJSON(t, http.MethodPost, "/api/admin/refresh", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", rec.Code)
	}
}

func TestCardErrors(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	id := env.cards.Cards()[0].ID

	cases := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing title", http.MethodPost, "/api/admin/cards", `{"subtitle":"x"}`, http.StatusBadRequest},
		{"too many badges", http.MethodPatch, "/api/admin/cards/" + id, `{"badges":["1","2","3","4","5"]}`, http.StatusBadRequest},
		{"bad direction", http.MethodPost, "/api/admin/cards/" + id + "/move", `{"direction":3}`, http.StatusBadRequest},
		{"no direction", http.MethodPost, "/api/admin/cards/" + id + "/move", `{}`, http.StatusBadRequest},
		{"unknown toggle", http.MethodPost, "/api/admin/cards/nope/toggle", ``, http.StatusNotFound},
		{"unknown delete", http.MethodDelete, "/api/admin/cards/nope", ``, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSON(t, tc.method, tc.path, token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSettingsRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	rec := env.doJSON(t, http.MethodPatch, "/api/admin/settings/hero", token, `{"title":"Changing Lives"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/settings/hero", "", nil, "")
	var hero domain.HeroSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &hero); err != nil {
		t.Fatalf("decode hero: %v", err)
	}
	if hero.Title != "Changing Lives" || hero.Badge != domain.DefaultHero().Badge {
		t.Fatalf("unexpected hero %+v", hero)
	}

	rec = env.do(t, http.MethodGet, "/api/settings", "", nil, "")
	var all domain.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if all.Hero.Title != "Changing Lives" || len(all.Stats.Items) == 0 {
		t.Fatalf("unexpected snapshot %+v", all)
	}

	if rec := env.do(t, http.MethodGet, "/api/settings/footer", "", nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown section, got %d", rec.Code)
	}
	if rec := env.doJSON(t, http.MethodPatch, "/api/admin/settings/stats", token, `{"items":"nope"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid shape, got %d", rec.Code)
	}
	if rec := env.doJSON(t, http.MethodPatch, "/api/admin/settings/cta", token, `[1]`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object body, got %d", rec.Code)
	}
}

func multipartBody(t *testing.T, filename, title string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if title != "" {
		_ = w.WriteField("title", title)
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

	body, ct := multipartBody(t, "logo.png", "Clean Water", png)
	rec := env.do(t, http.MethodPost, "/api/admin/upload", token, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, "_Clean-Water-image.png") {
		t.Fatalf("unexpected url %q", resp.URL)
	}
	if _, ok := env.blobs.Bytes(strings.TrimPrefix(resp.URL, "/uploads/")); !ok {
		t.Fatalf("blob not stored")
	}

	body, ct = multipartBody(t, "", "", nil)
	if rec := env.do(t, http.MethodPost, "/api/admin/upload", token, body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", rec.Code)
	}
	body, ct = multipartBody(t, "notes.txt", "", []byte("just text"))
	if rec := env.do(t, http.MethodPost, "/api/admin/upload", token, body, ct); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image, got %d", rec.Code)
	}
}

func (e *testEnv) upload(t *testing.T, token, title string) string {
	t.Helper()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	body, ct := multipartBody(t, "card.png", title, png)
	rec := e.do(t, http.MethodPost, "/api/admin/upload", token, body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp.URL
}

func (e *testEnv) stored(url string) bool {
	_, ok := e.blobs.Bytes(strings.TrimPrefix(url, "/uploads/"))
	return ok
}

func TestReplacedCardImagesAreReleased(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)
	first := env.upload(t, token, "first")
	second := env.upload(t, token, "second")

	var a, b domain.Card
	rec := env.doJSON(t, http.MethodPost, "/api/admin/cards", token, `{"title":"A","active":true,"image":"`+first+`"}`)
	_ = json.Unmarshal(rec.Body.Bytes(), &a)
	rec = env.doJSON(t, http.MethodPost, "/api/admin/cards", token, `{"title":"B","active":true,"image":"`+first+`"}`)
	_ = json.Unmarshal(rec.Body.Bytes(), &b)
	if a.ID == "" || b.ID == "" {
		t.Fatalf("create cards failed: %s", rec.Body.String())
	}

	if rec := env.doJSON(t, http.MethodPatch, "/api/admin/cards/"+a.ID, token, `{"image":"`+second+`"}`); rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", rec.Code)
	}
	if !env.stored(first) {
		t.Fatalf("image still used by another card must be kept")
	}

	if rec := env.doJSON(t, http.MethodDelete, "/api/admin/cards/"+b.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if env.stored(first) {
		t.Fatalf("expected unreferenced image released")
	}

	rec = env.doJSON(t, http.MethodPatch, "/api/admin/settings/mission", token, `{"image":"`+second+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings update: expected 200, got %d", rec.Code)
	}
	if rec := env.doJSON(t, http.MethodDelete, "/api/admin/cards/"+a.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if !env.stored(second) {
		t.Fatalf("image referenced by settings must be kept")
	}
}

func TestBuildRouterRequiresDeps(t *testing.T) {
	if _, err := buildRouter(logDiscard(), Deps{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":  "abc",
		"bearer  xyz": "xyz",
		"Basic abc":   "",
		"Bearer":      "",
		"":            "",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", in, got, want)
		}
	}
}
