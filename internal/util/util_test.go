package util

import (
	"strings"
	"testing"
	"time"
)

func TestParseFrontMatter(t *testing.T) {
	testCases := []struct {
		name          string
		markdown      []byte
		expectError   bool
		expectedTitle any
		expectedBody  string
	}{
		{
			name: "YAML Front Matter",
			markdown: []byte(`---
title: Hello World
tags: [go, rust]
---
# Content`),
			expectedTitle: "Hello World",
			expectedBody:  "# Content",
		},
		{
			name: "TOML Front Matter",
			markdown: []byte(`+++
title = "Hello TOML"
+++
# Content`),
			expectedTitle: "Hello TOML",
			expectedBody:  "# Content",
		},
		{
			name: "Mmark Title Block",
			markdown: []byte(`%%%
title = "Hello Mmark"
%%%
# Content`),
			expectedTitle: "Hello Mmark",
			expectedBody:  "# Content",
		},
		{
			name:          "No Front Matter",
			markdown:      []byte("# Just Content\nNo front matter here."),
			expectedTitle: nil,
			expectedBody:  "# Just Content\nNo front matter here.",
		},
		{
			name:          "Empty File",
			markdown:      []byte(""),
			expectedTitle: nil,
			expectedBody:  "",
		},
		{
			name: "Windows Line Endings",
			markdown: []byte("---\r\ntitle: CRLF\r\n---\r\nBody"),
			expectedTitle: "CRLF",
			expectedBody:  "Body",
		},
		{
			name: "Malformed YAML",
			markdown: []byte(`---
title: [unterminated
---
# Content`),
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			meta, body, err := ParseFrontMatter(tc.markdown)
			if tc.expectError {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if meta == nil {
				t.Fatal("Expected non-nil metadata map")
			}
			if meta["title"] != tc.expectedTitle {
				t.Errorf("Expected title %v, got %v", tc.expectedTitle, meta["title"])
			}
			if strings.TrimSpace(string(body)) != tc.expectedBody {
				t.Errorf("Expected body %q, got %q", tc.expectedBody, string(body))
			}
		})
	}
}

func TestParseFrontMatterDates(t *testing.T) {
	meta, _, err := ParseFrontMatter([]byte("---\ndate: 2024-06-01\n---\nbody"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got, ok := meta["date"].(time.Time)
	if !ok {
		t.Fatalf("Expected YAML date to decode as time.Time, got %T", meta["date"])
	}
	if !got.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date: %v", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		wpm   int
		wants int
	}{
		{"empty body", "", 200, 1},
		{"whitespace only", " \n\t ", 200, 1},
		{"one word", "hello", 200, 1},
		{"exactly one minute", strings.Repeat("word ", 200), 200, 1},
		{"just over one minute", strings.Repeat("word ", 201), 200, 2},
		{"whitespace runs count once", "a   b\n\n\tc", 1, 3},
		{"invalid speed falls back to default", strings.Repeat("w ", 401), 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadingTime(tt.body, tt.wpm); got != tt.wants {
				t.Errorf("ReadingTime() = %d, want %d", got, tt.wants)
			}
		})
	}
}

func TestReadingTimeMonotonic(t *testing.T) {
	prev := 0
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString("word ")
		got := ReadingTime(b.String(), DefaultWordsPerMinute)
		if got < prev {
			t.Fatalf("Reading time decreased at %d words: %d < %d", i+1, got, prev)
		}
		if got < 1 {
			t.Fatalf("Reading time below one minute at %d words", i+1)
		}
		prev = got
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHashString("hello")
	if a != b {
		t.Errorf("Expected equal hashes, got %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(a))
	}
	if a == ContentHashString("hello!") {
		t.Error("Expected different content to hash differently")
	}
}
