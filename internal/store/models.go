package store

import "time"

// createdDateLayout is fixed width so text ordering matches time ordering.
const createdDateLayout = "2006-01-02T15:04:05.000000000Z"

// User is a registered account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
}

// Post is a blog post joined with its author's name and like count.
type Post struct {
	ID         int64
	CreatedAt  time.Time
	Title      string
	Content    string
	AuthorID   int64
	AuthorName string
	Likes      int
}

// Comment is a comment joined with its author's name.
type Comment struct {
	ID         int64
	AuthorID   int64
	PostID     int64
	Content    string
	AuthorName string
}

func formatCreatedDate(t time.Time) string {
	return t.UTC().Format(createdDateLayout)
}

func parseCreatedDate(s string) time.Time {
	t, err := time.Parse(createdDateLayout, s)
	if err != nil {
		// Rows written by other tools may use RFC 3339.
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}
