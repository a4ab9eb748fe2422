package format

import (
	"strings"
	"testing"

	"github.com/quantstream-hq/xueqiu-relay/internal/domain"
)

func TestEscapeMarkdownV2CoversReservedSet(t *testing.T) {
	for _, c := range markdownReserved {
		got := EscapeMarkdownV2(string(c))
		want := `\` + string(c)
		if got != want {
			t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", string(c), got, want)
		}
	}
}

func TestEscapeMarkdownV2AppliedOnceDoubleEscapes(t *testing.T) {
	once := EscapeMarkdownV2("a.b")
	if once != `a\.b` {
		t.Fatalf("single escape = %q, want %q", once, `a\.b`)
	}
	// Re-escaping is not safe: the inserted backslash survives and the dot
	// picks up another one.
	twice := EscapeMarkdownV2(once)
	if twice != `a\\.b` {
		t.Fatalf("double escape = %q, want %q", twice, `a\\.b`)
	}
}

func TestEscapeMarkdownV2Empty(t *testing.T) {
	if got := EscapeMarkdownV2(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestEscapeMarkdownV2PassesPlainText(t *testing.T) {
	if got := EscapeMarkdownV2("hello world"); got != "hello world" {
		t.Fatalf("plain text altered: %q", got)
	}
}

func TestToMarkdownLayout(t *testing.T) {
	// 2023-11-14 22:13:20 UTC = 2023-11-15 06:13 UTC+8.
	item := domain.NewsItem{ID: 1, Text: "A_B", CreatedAt: 1700000000000}

	got := ToMarkdown(item)
	want := "\n" + `A\_B` + "\n\n" + `\(2023\-11\-15 06:13\)` + "\n"
	if got != want {
		t.Fatalf("ToMarkdown = %q, want %q", got, want)
	}
}

func TestToMarkdownEmptyBodyKeepsTimestamp(t *testing.T) {
	item := domain.NewsItem{ID: 2, Text: "", CreatedAt: 1700000000000}

	got := ToMarkdown(item)
	if !strings.HasPrefix(got, "\n\n\n") {
		t.Fatalf("expected empty body segment, got %q", got)
	}
	if !strings.Contains(got, `\(2023\-11\-15 06:13\)`) {
		t.Fatalf("expected timestamp segment, got %q", got)
	}
}

func TestStripHTMLRemovesAnchors(t *testing.T) {
	got := StripHTML(`Fed holds rates <a href="https://example.com/x">full text</a>`)
	if got != "Fed holds rates full text" {
		t.Fatalf("StripHTML = %q", got)
	}
}

func TestStripHTMLPassthroughWithoutMarkup(t *testing.T) {
	const text = "CPI up 0.3% m/m"
	if got := StripHTML(text); got != text {
		t.Fatalf("StripHTML altered plain text: %q", got)
	}
}
