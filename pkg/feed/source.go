package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package feed contains the live-news source definition and timeline client.

// Source describes the news endpoint the relay polls. TimelineURL serves the
// JSON timeline; LandingURL is the page that hands out the session cookie.
type Source struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	TimelineURL string            `json:"timeline_url" yaml:"timeline_url"`
	LandingURL  string            `json:"landing_url" yaml:"landing_url"`
	Category    int               `json:"category" yaml:"category"`
	Count       int               `json:"count" yaml:"count"`
	Headers     map[string]string `json:"headers" yaml:"headers"`
}

type sourceFile struct {
	Source Source `json:"source" yaml:"source"`
}

const (
	defaultSourceID    = "xueqiu-livenews"
	defaultSourceName  = "Xueqiu Live News"
	defaultTimelineURL = "https://xueqiu.com/v4/statuses/public_timeline_by_category.json"
	defaultLandingURL  = "https://xueqiu.com/?category=livenews"
	defaultCategory    = 6
	defaultCount       = 10
)

// defaultHeaders is the browser-shaped request signature the endpoint expects;
// without it the provider rejects the client.
func defaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":       "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:70.0) Gecko/20100101 Firefox/70.0",
		"X-Requested-With": "XMLHttpRequest",
		"Referer":          "https://xueqiu.com/today/",
		"Accept":           "application/json, text/javascript, */*; q=0.01",
		"Content-Type":     "application/x-www-form-urlencoded; charset=UTF-8",
		"Accept-Language":  "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7",
	}
}

// DefaultSource returns the built-in Xueqiu live-news source definition.
func DefaultSource() Source {
	return sanitizeSource(Source{})
}

// LoadSource reads a source definition from a YAML/JSON file. Unset fields fall
// back to the built-in defaults.
func LoadSource(path string) (Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Source{}, errors.New("feed source file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("open feed source file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Source{}, fmt.Errorf("read feed source file: %w", err)
	}

	parsed, err := parseSourceFile(raw, filepath.Ext(path))
	if err != nil {
		return Source{}, err
	}

	src := sanitizeSource(parsed.Source)
	if err := validateSource(src); err != nil {
		return Source{}, err
	}
	return src, nil
}

func parseSourceFile(data []byte, ext string) (sourceFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out sourceFile
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}

	return sourceFile{}, errors.New("feed source file format not recognized (expected YAML or JSON)")
}

func sanitizeSource(src Source) Source {
	src.ID = strings.TrimSpace(src.ID)
	src.Name = strings.TrimSpace(src.Name)
	src.TimelineURL = strings.TrimSpace(src.TimelineURL)
	src.LandingURL = strings.TrimSpace(src.LandingURL)

	if src.ID == "" {
		src.ID = defaultSourceID
	}
	if src.Name == "" {
		src.Name = defaultSourceName
	}
	if src.TimelineURL == "" {
		src.TimelineURL = defaultTimelineURL
	}
	if src.LandingURL == "" {
		src.LandingURL = defaultLandingURL
	}
	if src.Category <= 0 {
		src.Category = defaultCategory
	}
	if src.Count <= 0 {
		src.Count = defaultCount
	}

	headers := defaultHeaders()
	for k, v := range src.Headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	src.Headers = headers

	return src
}

func validateSource(src Source) error {
	if !strings.HasPrefix(src.TimelineURL, "http") {
		return fmt.Errorf("invalid timeline_url %q for source %q", src.TimelineURL, src.ID)
	}
	if !strings.HasPrefix(src.LandingURL, "http") {
		return fmt.Errorf("invalid landing_url %q for source %q", src.LandingURL, src.ID)
	}
	return nil
}
