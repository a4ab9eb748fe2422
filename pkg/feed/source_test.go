package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSource(t *testing.T) {
	src := DefaultSource()

	if src.TimelineURL != defaultTimelineURL {
		t.Errorf("timeline url = %q", src.TimelineURL)
	}
	if src.Category != 6 || src.Count != 10 {
		t.Errorf("expected category=6 count=10, got category=%d count=%d", src.Category, src.Count)
	}
	for _, header := range []string{"User-Agent", "Referer", "Accept", "X-Requested-With"} {
		if src.Headers[header] == "" {
			t.Errorf("missing default header %s", header)
		}
	}
}

func TestLoadSourceFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	content := `source:
  id: custom
  count: 25
  headers:
    User-Agent: test-agent
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if src.ID != "custom" {
		t.Errorf("id = %q", src.ID)
	}
	if src.Count != 25 {
		t.Errorf("count = %d, want 25", src.Count)
	}
	if src.TimelineURL != defaultTimelineURL {
		t.Errorf("timeline url should default, got %q", src.TimelineURL)
	}
	if src.Headers["User-Agent"] != "test-agent" {
		t.Errorf("header override lost: %q", src.Headers["User-Agent"])
	}
	if src.Headers["Referer"] == "" {
		t.Error("default headers should survive a partial override")
	}
}

func TestLoadSourceRejectsBadURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	if err := os.WriteFile(path, []byte("source:\n  timeline_url: not-a-url\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadSource(path); err == nil {
		t.Fatal("expected validation error for non-http timeline_url")
	}
}

func TestLoadSourceMissingFile(t *testing.T) {
	if _, err := LoadSource(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
