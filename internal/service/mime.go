package service

import (
	"mime"
	"path/filepath"
	"strings"
)

const defaultMime = "text/markdown"

// inferMime picks a content-type hint from a file name
func inferMime(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case "", ".md", ".markdown", ".mdx":
		return defaultMime
	}

	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}

	return "text/plain"
}
