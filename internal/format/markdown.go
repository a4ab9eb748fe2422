package format

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/quantstream-hq/xueqiu-relay/internal/domain"
)

// displayZone is the fixed offset the provider's audience reads timestamps in.
var displayZone = time.FixedZone("UTC+8", 8*60*60)

const timestampLayout = "(2006-01-02 15:04)"

// markdownReserved is the complete MarkdownV2 special character set. Every
// occurrence must be escaped exactly once or the Bot API rejects the message.
const markdownReserved = "_*[]()~`>#+-=|{}.!"

// EscapeMarkdownV2 prefixes each reserved MarkdownV2 character with a
// backslash. Escaping is not idempotent: callers apply it exactly once per
// field, after any content transformation.
func EscapeMarkdownV2(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(markdownReserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// StripHTML reduces embedded markup in a feed body to its text content.
// Timeline bodies occasionally carry anchor tags; bodies without markup pass
// through untouched.
func StripHTML(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	return strings.TrimSpace(doc.Text())
}

// ToMarkdown renders a news item as a MarkdownV2 message: escaped body, blank
// line, escaped publication timestamp in UTC+8, framed by leading and trailing
// newlines. An empty body still renders the timestamp segment.
func ToMarkdown(item domain.NewsItem) string {
	body := EscapeMarkdownV2(StripHTML(item.Text))
	ts := EscapeMarkdownV2(item.PublishedAt().In(displayZone).Format(timestampLayout))
	return "\n" + body + "\n\n" + ts + "\n"
}
