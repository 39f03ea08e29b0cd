package domain

import (
	"net/url"
	"strings"
)

// MediaURL builds the public URL of an uploaded file. The filename is always
// path-escaped, so names with spaces or '#' survive. It returns "" when there
// is no file.
func MediaURL(base, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/uploads/" + url.PathEscape(filename)
}
