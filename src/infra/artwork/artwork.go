package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contre95/neteaselyrics/src/features/config"
	"github.com/contre95/neteaselyrics/src/music"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// maxArtworkBytes caps the size of a downloaded cover.
const maxArtworkBytes = 10 << 20

var allowedHostSuffixes = []string{".126.net", ".163.com"}

// Service downloads candidate artwork and renders thumbnails in memory.
type Service struct {
	config     *config.Manager
	httpClient *http.Client
}

// NewService creates a new artwork service. A nil client uses http.DefaultClient.
// Redirects are followed only while they stay on allowed hosts.
func NewService(config *config.Manager, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	client := *httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		return checkURL(req.URL.String())
	}
	return &Service{
		config:     config,
		httpClient: &client,
	}
}

// Thumbnail downloads the image at rawURL and returns it as a JPEG no larger
// than size pixels on either side. size <= 0 uses the configured size.
func (s *Service) Thumbnail(ctx context.Context, rawURL string, size int) ([]byte, error) {
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	cfg := s.config.Get()
	if size <= 0 {
		size = cfg.Artwork.Size
	}
	if cfg.HTTP.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	data, err := s.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return resizeImage(data, size, cfg.Artwork.Quality)
}

func (s *Service) download(ctx context.Context, rawURL string) ([]byte, error) {
	slog.Debug("Downloading artwork", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read artwork: %w", err)
	}
	return data, nil
}

// resizeImage scales image data to fit in a size x size box and encodes it as JPEG.
func resizeImage(imgData []byte, size, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork image: %w", err)
	}

	resized := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode artwork: %w", err)
	}
	slog.Debug("Artwork resized", "format", format, "size", size, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid artwork URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", music.ErrArtworkHostNotAllowed, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	for _, suffix := range allowedHostSuffixes {
		if strings.HasSuffix(host, suffix) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", music.ErrArtworkHostNotAllowed, host)
}
