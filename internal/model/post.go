// Package model defines core data structures and types for the blog application.
package model

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// PostMetadata is everything known about a post without its body.
type PostMetadata struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	Featured    bool     `json:"featured"`
	ReadingTime int      `json:"readingTime"`
}

type Post struct {
	PostMetadata

	// Markdown body with the front matter stripped.
	Content string `json:"content"`
}

type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// RenderedPost is a post ready for the presentation layer.
type RenderedPost struct {
	*Post

	HTML     template.HTML `json:"html"`
	Headings []Heading     `json:"headings"`
}

func NewRenderedPost(post *Post, html []byte, headings []Heading) *RenderedPost {
	if headings == nil {
		headings = []Heading{}
	}
	return &RenderedPost{
		Post:     post,
		HTML:     template.HTML(html),
		Headings: headings,
	}
}

// NewPostMetadata builds metadata from decoded front matter. Missing or
// mistyped fields fall back to their zero values.
func NewPostMetadata(slug string, fm map[string]any) PostMetadata {
	return PostMetadata{
		Slug:        slug,
		Title:       stringField(fm["title"]),
		Description: stringField(fm["description"]),
		Date:        stringField(fm["date"]),
		Author:      stringField(fm["author"]),
		Tags:        tagsField(fm["tags"]),
		Featured:    boolField(fm["featured"]),
	}
}

// PublishedAt parses the leading calendar date of Date.
func (m PostMetadata) PublishedAt() (time.Time, bool) {
	if len(m.Date) < len(dateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, m.Date[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (m PostMetadata) DisplayDate() string {
	if t, ok := m.PublishedAt(); ok {
		return t.Format("January 2, 2006")
	}
	return m.Date
}

func (m PostMetadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func stringField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		if h, m, s := val.Clock(); h == 0 && m == 0 && s == 0 && val.Nanosecond() == 0 {
			return val.Format(dateLayout)
		}
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

func tagsField(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, val...)
	case []any:
		tags := make([]string, 0, len(val))
		for _, item := range val {
			tags = append(tags, stringField(item))
		}
		return tags
	default:
		return []string{stringField(val)}
	}
}

// boolField treats a value as set when it is truthy: true, a non-zero number
// or a non-empty string. Strings spelling a negative ("false", "no", "off",
// "0") count as unset.
func boolField(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "", "false", "no", "off", "n", "0":
			return false
		}
		return true
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	default:
		return false
	}
}
