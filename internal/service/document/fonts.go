package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

var (
	ErrNoFont      = errors.New("font url not configured")
	ErrInvalidFont = errors.New("not a TrueType font")
)

type FontConfig struct {
	RegularURL string
	BoldURL    string
	Timeout    time.Duration
	CacheTTL   time.Duration
	// FailureTTL is how long a failed download is remembered before the next
	// attempt.
	FailureTTL time.Duration
}

// Fonts holds the raw TTF data for the two faces every document uses.
type Fonts struct {
	Regular []byte
	Bold    []byte
}

// FontLoader downloads TTF files and keeps them in memory for CacheTTL.
type FontLoader struct {
	cfg    FontConfig
	client *http.Client
	cache  *cache.Cache
}

func NewFontLoader(cfg FontConfig) *FontLoader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.FailureTTL <= 0 {
		cfg.FailureTTL = 30 * time.Second
	}
	return &FontLoader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
	}
}

func (l *FontLoader) Load(ctx context.Context) (*Fonts, error) {
	regular, err := l.fetch(ctx, l.cfg.RegularURL)
	if err != nil {
		return nil, fmt.Errorf("regular font: %w", err)
	}
	bold, err := l.fetch(ctx, l.cfg.BoldURL)
	if err != nil {
		return nil, fmt.Errorf("bold font: %w", err)
	}
	return &Fonts{Regular: regular, Bold: bold}, nil
}

// Invalidate drops the cached fonts after they failed to register and holds
// off further downloads for FailureTTL.
func (l *FontLoader) Invalidate() {
	for _, url := range []string{l.cfg.RegularURL, l.cfg.BoldURL} {
		if url == "" {
			continue
		}
		l.cache.Delete(url)
		l.cache.Set(failureKey(url), ErrInvalidFont, l.cfg.FailureTTL)
	}
}

func failureKey(url string) string {
	return "failed:" + url
}

func (l *FontLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoFont
	}
	if data, ok := l.cache.Get(url); ok {
		return data.([]byte), nil
	}
	if err, ok := l.cache.Get(failureKey(url)); ok {
		return nil, err.(error)
	}

	data, err := l.download(ctx, url)
	if err != nil {
		// a caller giving up says nothing about the server
		if ctx.Err() == nil {
			l.cache.Set(failureKey(url), err, l.cfg.FailureTTL)
		}
		return nil, err
	}
	l.cache.Set(url, data, cache.DefaultExpiration)
	return data, nil
}

func (l *FontLoader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !isTrueType(data) {
		return nil, fmt.Errorf("GET %s: %w", url, ErrInvalidFont)
	}
	return data, nil
}

// isTrueType checks the sfnt version tag. CFF-flavoured OpenType ("OTTO") is
// rejected as well, fpdf only embeds glyf outlines.
func isTrueType(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	tag := data[:4]
	return bytes.Equal(tag, []byte{0x00, 0x01, 0x00, 0x00}) || bytes.Equal(tag, []byte("true"))
}
