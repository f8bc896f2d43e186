package artwork

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"testing"

	"github.com/contre95/neteaselyrics/src/features/config"
	"github.com/contre95/neteaselyrics/src/music"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestService(handler roundTripFunc) *Service {
	return NewService(config.NewManager(config.Default(), ""), &http.Client{Transport: handler})
}

func TestThumbnail_ResizesToBox(t *testing.T) {
	source := pngBytes(t, 400, 200)
	service := newTestService(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://p1.music.126.net/cover.png" {
			t.Fatalf("unexpected url %s", req.URL)
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(source))}, nil
	})

	data, err := service.Thumbnail(context.Background(), "http://p1.music.126.net/cover.png", 100)
	if err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("expected JPEG output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50 thumbnail, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestThumbnail_RejectsForeignHosts(t *testing.T) {
	service := newTestService(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	for _, u := range []string{"http://169.254.169.254/latest", "file:///etc/passwd", "http://evil.com/x.126.net.jpg"} {
		if _, err := service.Thumbnail(context.Background(), u, 0); !errors.Is(err, music.ErrArtworkHostNotAllowed) {
			t.Errorf("%s: expected music.ErrArtworkHostNotAllowed, got %v", u, err)
		}
	}
}

func TestThumbnail_RejectsRedirectToForeignHost(t *testing.T) {
	source := pngBytes(t, 20, 20)
	var hosts []string
	service := newTestService(func(req *http.Request) (*http.Response, error) {
		hosts = append(hosts, req.URL.Host)
		if req.URL.Host == "p1.music.126.net" {
			return &http.Response{
				StatusCode: http.StatusFound,
				Header:     http.Header{"Location": []string{"http://169.254.169.254/latest/meta-data"}},
				Body:       io.NopCloser(bytes.NewReader(nil)),
				Request:    req,
			}, nil
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(source)), Request: req}, nil
	})

	_, err := service.Thumbnail(context.Background(), "http://p1.music.126.net/cover.png", 10)
	if !errors.Is(err, music.ErrArtworkHostNotAllowed) {
		t.Fatalf("expected music.ErrArtworkHostNotAllowed, got %v", err)
	}
	if len(hosts) != 1 {
		t.Errorf("expected only the allowed host to be contacted, got %v", hosts)
	}
}

func TestThumbnail_FollowsRedirectWithinAllowedHosts(t *testing.T) {
	source := pngBytes(t, 20, 20)
	service := newTestService(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "music.163.com" {
			return &http.Response{
				StatusCode: http.StatusFound,
				Header:     http.Header{"Location": []string{"http://p2.music.126.net/cover.png"}},
				Body:       io.NopCloser(bytes.NewReader(nil)),
				Request:    req,
			}, nil
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader(source)), Request: req}, nil
	})

	if _, err := service.Thumbnail(context.Background(), "http://music.163.com/cover.png", 10); err != nil {
		t.Fatalf("Thumbnail failed: %v", err)
	}
}

func TestThumbnail_DownloadErrors(t *testing.T) {
	tests := map[string]roundTripFunc{
		"status": func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 404, Body: io.NopCloser(bytes.NewReader(nil))}, nil
		},
		"not an image": func(*http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewReader([]byte("<html>")))}, nil
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := newTestService(handler).Thumbnail(context.Background(), "https://music.163.com/a.jpg", 50); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
