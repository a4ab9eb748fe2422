package domain

import "time"

// Domain contains core models shared across the relay.

// NewsItem is one published entry from the live-news timeline. CreatedAt is the
// provider's publication timestamp in epoch milliseconds, UTC. Items are built
// fresh from each fetch and never mutated.
type NewsItem struct {
	ID        int64
	Text      string
	Mark      int
	Target    string
	CreatedAt int64
}

// PublishedAt returns the publication instant in UTC.
func (n NewsItem) PublishedAt() time.Time {
	return time.UnixMilli(n.CreatedAt).UTC()
}

// SameItem reports whether two items refer to the same provider entry.
// Provider identity is carried by ID alone; the other fields may differ between
// fetches of the same entry.
func SameItem(a, b NewsItem) bool {
	return a.ID == b.ID
}
