package textutil

import (
	"path"
	"strings"
)

// thumbnailReplacer applies the libretro-thumbnails naming rule: characters
// that are unsafe on common filesystems become underscores.
var thumbnailReplacer = strings.NewReplacer(
	"&", "_",
	"*", "_",
	"/", "_",
	":", "_",
	"`", "_",
	"<", "_",
	">", "_",
	"?", "_",
	"\\", "_",
	"|", "_",
	"\"", "_",
)

// ThumbnailName converts a ROM filename or title into the basename used by
// libretro thumbnail repositories. The file extension is removed when the name
// looks like a filename.
func ThumbnailName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(thumbnailReplacer.Replace(TrimExtension(name)))
}

// TrimExtension removes a trailing file extension. Only short, space-free
// suffixes count as extensions, so titles such as "Dr. Mario" survive.
func TrimExtension(name string) string {
	ext := path.Ext(name)
	if ext == "" || ext == name || len(ext) > 6 || strings.ContainsAny(ext, " ()[]") {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// EscapePathSegment percent-encodes a single URL path segment. Unlike
// url.PathEscape it leaves RFC 3986 sub-delimiters such as parentheses
// intact, matching how thumbnail servers publish their paths.
func EscapePathSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment) + 16)
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if keepInPath(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

const hexDigits = "0123456789ABCDEF"

func keepInPath(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', '!', '$', '\'', '(', ')', '*', '+', ',', ';', '=', '@':
		return true
	}
	return false
}
