package lyrics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contre95/neteaselyrics/src/music"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

type fakeArtwork struct {
	data []byte
	err  error
}

func (a *fakeArtwork) Thumbnail(ctx context.Context, url string, size int) ([]byte, error) {
	return a.data, a.err
}

func newTestApp(t *testing.T, provider *fakeProvider, artwork ArtworkService) *fiber.App {
	t.Helper()
	engine := html.New("../../../views", ".html")
	engine.AddFuncMap(TemplateFuncs())
	app := fiber.New(fiber.Config{Views: engine})
	RegisterRoutes(app, NewHandler(NewService([]LyricsProvider{provider}, nil, nil), artwork))
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string, http.Header) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestHandler_SearchCandidates(t *testing.T) {
	app := newTestApp(t, newFakeProvider(), nil)

	status, body, _ := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/search?q=one", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var candidates []music.SearchCandidate
	if err := json.Unmarshal([]byte(body), &candidates); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(candidates) != 4 || candidates[0].Name != "one" {
		t.Errorf("unexpected candidates: %+v", candidates)
	}
}

func TestHandler_SearchCandidatesEmptyIsArray(t *testing.T) {
	provider := newFakeProvider()
	provider.candidates = nil
	app := newTestApp(t, provider, nil)

	status, body, _ := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/search?q=none", nil))
	if status != fiber.StatusOK || strings.TrimSpace(body) != "[]" {
		t.Fatalf("expected 200 with [], got %d %q", status, body)
	}
}

func TestHandler_BadRequests(t *testing.T) {
	app := newTestApp(t, newFakeProvider(), &fakeArtwork{})

	tests := []struct {
		path   string
		status int
	}{
		{"/api/lyrics/fake/search", fiber.StatusBadRequest},
		{"/api/lyrics/fake/search?q=" + strings.Repeat("a", 201), fiber.StatusBadRequest},
		{"/api/lyrics/unknown/search?q=x", fiber.StatusNotFound},
		{"/api/lyrics/fake/lrc?q=x&index=12", fiber.StatusBadRequest},
		{"/api/lyrics/artwork", fiber.StatusBadRequest},
		{"/api/lyrics/artwork?url=not-a-url", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		if status, body, _ := do(t, app, httptest.NewRequest("GET", tt.path, nil)); status != tt.status {
			t.Errorf("%s: expected %d, got %d: %s", tt.path, tt.status, status, body)
		}
	}
}

func TestHandler_FetchLyrics(t *testing.T) {
	app := newTestApp(t, newFakeProvider(), nil)

	post := func(body string) *http.Request {
		req := httptest.NewRequest("POST", "/api/lyrics/fake/fetch", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	status, body, _ := do(t, app, post(`{"id":1,"name":"one"}`))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	var view LyricsView
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if view.Title != "one" || len(view.Lines) != 1 || view.Lines[0].Position != 1 {
		t.Errorf("unexpected view: %+v", view)
	}

	if status, _, _ := do(t, app, post(`{"id":2}`)); status != fiber.StatusNotFound {
		t.Errorf("expected 404 for candidate without lyrics, got %d", status)
	}
	if status, _, _ := do(t, app, post(`{"name":"no id"}`)); status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for candidate without id, got %d", status)
	}
}

func TestHandler_FetchAll(t *testing.T) {
	app := newTestApp(t, newFakeProvider(), nil)

	status, body, _ := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/lyrics?q=x", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var views []LyricsView
	if err := json.Unmarshal([]byte(body), &views); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(views) != 3 || views[1].Title != "three" {
		t.Errorf("unexpected results: %+v", views)
	}
}

func TestHandler_DownloadLRC(t *testing.T) {
	provider := newFakeProvider()
	provider.lyrics[1].SetIDTag(music.TagArtist, "Sigur Rós")
	app := newTestApp(t, provider, nil)

	status, body, header := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/lrc?q=x&index=0", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, "[00:01.00]one") {
		t.Errorf("unexpected LRC body %q", body)
	}
	if cd := header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, `Sigur Ros - one.lrc`) {
		t.Errorf("unexpected content disposition %q", cd)
	}

	if status, _, _ := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/lrc?q=x&index=1", nil)); status != fiber.StatusNotFound {
		t.Errorf("expected 404 for candidate without lyrics, got %d", status)
	}
	if status, _, _ := do(t, app, httptest.NewRequest("GET", "/api/lyrics/fake/lrc?q=x&index=7", nil)); status != fiber.StatusNotFound {
		t.Errorf("expected 404 for missing candidate, got %d", status)
	}
}

func TestHandler_GetArtwork(t *testing.T) {
	tests := []struct {
		name   string
		art    *fakeArtwork
		status int
	}{
		{"ok", &fakeArtwork{data: []byte{0xff, 0xd8}}, fiber.StatusOK},
		{"host", &fakeArtwork{err: fmt.Errorf("%w: evil.com", music.ErrArtworkHostNotAllowed)}, fiber.StatusBadRequest},
		{"download", &fakeArtwork{err: errors.New("timeout")}, fiber.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, newFakeProvider(), tt.art)
			status, _, header := do(t, app, httptest.NewRequest("GET", "/api/lyrics/artwork?url=http://p1.music.126.net/a.jpg", nil))
			if status != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, status)
			}
			if tt.status == fiber.StatusOK && header.Get(fiber.HeaderContentType) != "image/jpeg" {
				t.Errorf("unexpected content type %q", header.Get(fiber.HeaderContentType))
			}
		})
	}
}

func TestHandler_RenderSearchPage(t *testing.T) {
	app := newTestApp(t, newFakeProvider(), nil)

	status, body, _ := do(t, app, httptest.NewRequest("GET", "/ui/lyrics?q=anything", nil))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	for _, want := range []string{"<h2>three</h2>", "[00:01.00]", "Fake fake"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	status, body, _ = do(t, app, httptest.NewRequest("GET", "/ui/lyrics", nil))
	if status != fiber.StatusOK || strings.Contains(body, "No lyrics found") {
		t.Errorf("expected empty search page, got %d", status)
	}
}

func TestFilename(t *testing.T) {
	l := music.NewLyrics(nil, nil)
	l.SetIDTag(music.TagTitle, "Hoppípolla")
	l.SetIDTag(music.TagArtist, "AC/DC")
	if got := Filename(l); got != "ACDC - Hoppipolla.lrc" {
		t.Errorf("unexpected filename %q", got)
	}
	if got := Filename(music.NewLyrics(nil, nil)); got != "lyrics.lrc" {
		t.Errorf("unexpected fallback filename %q", got)
	}
}
