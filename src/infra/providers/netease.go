package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/contre95/neteaselyrics/src/music"
)

const (
	netEaseSearchURL   = "http://music.163.com/api/search/pc?"
	netEaseLyricsURL   = "http://music.163.com/api/song/lyric?"
	netEaseReferer     = "http://music.163.com/"
	netEaseSearchLimit = 10
	netEaseTypeSong    = 1

	NetEaseName = "netease"
)

// Failure kinds absorbed at the provider boundary.
var (
	ErrTransport = errors.New("transport failure")
	ErrDecode    = errors.New("decode failure")
	ErrNoLyrics  = errors.New("no usable lyrics")
)

// NetEase returns timestamps as [mm:ss:xx]; the last separator must be a dot.
var netEaseTimeTagFixer = regexp.MustCompile(`(\[\d+:\d+):(\d+\])`)

// NetEase API response structures
type netEaseSearchResponse struct {
	Result struct {
		Songs []netEaseSong `json:"songs"`
	} `json:"result"`
}

type netEaseSong struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		PicURL string `json:"picUrl"`
	} `json:"album"`
	Duration int64 `json:"duration"`
}

type netEaseLyricsResponse struct {
	Lrc       *netEaseLyric `json:"lrc"`
	Tlyric    *netEaseLyric `json:"tlyric"`
	Klyric    *netEaseLyric `json:"klyric"`
	LyricUser *struct {
		Nickname string `json:"nickname"`
	} `json:"lyricUser"`
}

type netEaseLyric struct {
	Lyric *string `json:"lyric"`
}

// FailureRecorder is notified of every failure the provider absorbs.
type FailureRecorder interface {
	RecordFailure(provider, operation, kind string)
}

// NetEaseProvider implements LyricsProvider for NetEase Cloud Music
type NetEaseProvider struct {
	enabled    bool
	httpClient *http.Client
	recorder   FailureRecorder

	mu        sync.RWMutex
	userAgent string
	timeout   time.Duration
}

// Option configures a NetEaseProvider.
type Option func(*NetEaseProvider)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *NetEaseProvider) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(p *NetEaseProvider) {
		p.userAgent = userAgent
	}
}

// WithTimeout bounds every request. Zero means no limit beyond the client's own.
func WithTimeout(timeout time.Duration) Option {
	return func(p *NetEaseProvider) {
		p.timeout = timeout
	}
}

// WithRecorder registers a recorder for absorbed failures.
func WithRecorder(recorder FailureRecorder) Option {
	return func(p *NetEaseProvider) {
		p.recorder = recorder
	}
}

// NewNetEaseProvider creates a new NetEase provider
func NewNetEaseProvider(enabled bool, opts ...Option) *NetEaseProvider {
	p := &NetEaseProvider{
		enabled:    enabled,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Configure replaces the User-Agent and request timeout used by later requests.
func (p *NetEaseProvider) Configure(userAgent string, timeout time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userAgent = userAgent
	p.timeout = timeout
}

func (p *NetEaseProvider) Name() string        { return NetEaseName }
func (p *NetEaseProvider) DisplayName() string { return "NetEase Cloud Music" }
func (p *NetEaseProvider) IsEnabled() bool     { return p.enabled }

// Search returns up to ten song candidates for term. Failures yield no candidates.
func (p *NetEaseProvider) Search(ctx context.Context, term string) []music.SearchCandidate {
	candidates, err := p.search(ctx, term)
	if err != nil {
		p.absorb("search", err, "term", term)
		return nil
	}
	slog.Debug("NetEase search finished", "term", term, "candidates", len(candidates))
	return candidates
}

// Fetch downloads and normalizes the lyrics of candidate. It returns nil when
// the request fails or the response carries no usable lyrics.
func (p *NetEaseProvider) Fetch(ctx context.Context, candidate music.SearchCandidate) *music.Lyrics {
	lyrics, err := p.fetch(ctx, candidate)
	if err != nil {
		p.absorb("fetch", err, "id", candidate.ID, "title", candidate.Name)
		return nil
	}
	return lyrics
}

func (p *NetEaseProvider) search(ctx context.Context, term string) ([]music.SearchCandidate, error) {
	ctx, cancel := p.requestContext(ctx)
	defer cancel()

	params := url.Values{}
	params.Set("s", term)
	params.Set("offset", "0")
	params.Set("limit", strconv.Itoa(netEaseSearchLimit))
	params.Set("type", strconv.Itoa(netEaseTypeSong))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, netEaseSearchURL+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	req.Header.Set("Referer", netEaseReferer)

	var searchResp netEaseSearchResponse
	if err := p.doJSON(req, &searchResp); err != nil {
		return nil, err
	}

	candidates := make([]music.SearchCandidate, 0, len(searchResp.Result.Songs))
	for _, song := range searchResp.Result.Songs {
		candidates = append(candidates, song.candidate())
	}
	return candidates, nil
}

func (p *NetEaseProvider) fetch(ctx context.Context, candidate music.SearchCandidate) (*music.Lyrics, error) {
	ctx, cancel := p.requestContext(ctx)
	defer cancel()

	params := url.Values{}
	params.Set("id", candidate.Token())
	params.Set("lv", "1")
	params.Set("kv", "1")
	params.Set("tv", "-1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, netEaseLyricsURL+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}

	var lyricsResp netEaseLyricsResponse
	if err := p.doJSON(req, &lyricsResp); err != nil {
		return nil, err
	}

	lyrics, err := lyricsResp.merge()
	if err != nil {
		return nil, err
	}
	if err := lyrics.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var contributor string
	if lyricsResp.LyricUser != nil {
		contributor = lyricsResp.LyricUser.Nickname
	}

	// Response metadata wins over tags embedded in the lyric text.
	lyrics.SetIDTag(music.TagTitle, candidate.Name)
	lyrics.SetIDTag(music.TagArtist, candidate.FirstArtist())
	lyrics.SetIDTag(music.TagAlbum, candidate.Album)
	lyrics.SetIDTag(music.TagLrcBy, contributor)
	lyrics.Length = candidate.DurationSeconds()
	lyrics.Metadata.ArtworkURL = candidate.ArtworkURL
	lyrics.Metadata.Service = NetEaseName
	lyrics.Metadata.ServiceToken = candidate.Token()
	return lyrics, nil
}

func (p *NetEaseProvider) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	p.mu.RLock()
	timeout := p.timeout
	p.mu.RUnlock()
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (p *NetEaseProvider) doJSON(req *http.Request, v any) error {
	p.mu.RLock()
	userAgent := p.userAgent
	p.mu.RUnlock()
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to make request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: NetEase API request failed with status %d", ErrTransport, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrDecode, err)
	}
	return nil
}

// absorb logs and records err. Callers only ever see an empty result.
func (p *NetEaseProvider) absorb(operation string, err error, args ...any) {
	kind := failureKind(err)
	if p.recorder != nil {
		p.recorder.RecordFailure(NetEaseName, operation, kind)
	}
	args = append(args, "operation", operation, "kind", kind, "error", err.Error())
	if errors.Is(err, ErrNoLyrics) || errors.Is(err, context.Canceled) {
		slog.Debug("NetEase lookup yielded nothing", args...)
		return
	}
	slog.Warn("NetEase lookup failed", args...)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrNoLyrics):
		return "no_lyrics"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}

// merge picks the karaoke lyric as base when present, otherwise the primary
// one. Translations are merged by index onto karaoke lyrics and by matching
// time tags onto primary lyrics.
func (r netEaseLyricsResponse) merge() (*music.Lyrics, error) {
	translation := r.Tlyric.parse(music.ParseLRC)

	if kLrc := r.Klyric.parse(parseKaraoke); kLrc != nil {
		kLrc.ForceMerge(translation)
		return kLrc, nil
	}
	if lrc := r.Lrc.parse(music.ParseLRC); lrc != nil {
		lrc.Merge(translation)
		return lrc, nil
	}
	return nil, ErrNoLyrics
}

func (l *netEaseLyric) parse(parser func(string) (*music.Lyrics, error)) *music.Lyrics {
	if l == nil || l.Lyric == nil {
		return nil
	}
	lyrics, err := parser(FixTimeTags(*l.Lyric))
	if err != nil {
		return nil
	}
	return lyrics
}

func (s netEaseSong) candidate() music.SearchCandidate {
	artists := make([]string, 0, len(s.Artists))
	for _, a := range s.Artists {
		artists = append(artists, a.Name)
	}
	return music.SearchCandidate{
		ID:         s.ID,
		Name:       s.Name,
		Artists:    artists,
		Album:      s.Album.Name,
		ArtworkURL: s.Album.PicURL,
		Duration:   s.Duration,
	}
}

// FixTimeTags rewrites [mm:ss:xx] time tags into [mm:ss.xx].
func FixTimeTags(lyric string) string {
	return netEaseTimeTagFixer.ReplaceAllString(lyric, "${1}.${2}")
}
