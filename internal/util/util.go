// Package util provides utility functions for content hashing, front matter parsing
// and reading time estimation.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"github.com/gomarkdown/markdown"
	"gopkg.in/yaml.v3"
)

// DefaultWordsPerMinute is the reading speed assumed by ReadingTime.
const DefaultWordsPerMinute = 200

var frontMatterFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	// mmark title block
	frontmatter.NewFormat("%%%", "%%%", toml.Unmarshal),
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// ParseFrontMatter splits raw into its front matter block and the markdown body.
// A document without front matter yields an empty map and the whole input as body.
func ParseFrontMatter(raw []byte) (map[string]any, []byte, error) {
	raw = markdown.NormalizeNewlines(raw)

	meta := make(map[string]any)
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta, frontMatterFormats...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}
	if meta == nil {
		meta = make(map[string]any)
	}

	return meta, body, nil
}

// ReadingTime estimates the minutes needed to read body at wordsPerMinute,
// rounded up, never less than one minute.
func ReadingTime(body string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	words := len(strings.Fields(body))
	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	return max(minutes, 1)
}
