package vdisk

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	fileListSegment = "/fileList/"
	fileSegment     = "/file/"

	// unsafeChars are printable ASCII bytes that EncodePath always escapes.
	// '/' is deliberately absent so path separators stay readable.
	unsafeChars = " +%$&,:;=?@<>#"

	upperHex = "0123456789ABCDEF"
)

// EncodePath percent-encodes s for use inside a file URL.
//
// The UTF-8 bytes of s are copied through unchanged except for control bytes
// (< 32), bytes >= 127 and the punctuation in " +%$&,:;=?@<>#", which become
// %XX with uppercase hex digits. Unlike url.PathEscape it never encodes '/'
// and it always encodes '+', ':', '@', '&', '=', '$' and ','.
func EncodePath(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnsafe(c) {
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}

	return b.String()
}

func isUnsafe(c byte) bool {
	if c < 32 || c >= 127 {
		return true
	}
	return strings.IndexByte(unsafeChars, c) >= 0
}

// DecodeURI reverses percent-encoding with form-decoding rules while keeping
// literal '+' characters, which a form decoder would otherwise turn into spaces.
func DecodeURI(s string) (string, error) {
	decoded, err := url.QueryUnescape(strings.ReplaceAll(s, "+", "%2B"))
	if err != nil {
		return "", fmt.Errorf("decode uri: %w: %w", ErrInvalidInput, err)
	}
	return decoded, nil
}

// ToFileURIPrefix converts a list request URI such as
//
//	http://host/FileAccessService/api/fileAccessor/fileList/Vacation?x=y
//
// into the prefix that individual file URLs are built on:
//
//	http://host/FileAccessService/api/fileAccessor/file/Vacation
//
// requestURI is the raw URI as received; diskName is already decoded. When the
// request named no disk (default disk implied) the disk name is appended.
func ToFileURIPrefix(requestURI, diskName string) (string, error) {
	uri := stripQuery(requestURI)

	uri, err := DecodeURI(uri)
	if err != nil {
		return "", fmt.Errorf("file uri prefix: %w", err)
	}

	if !strings.HasSuffix(uri, diskName) {
		uri = uri + "/" + diskName
	}

	if !strings.Contains(uri, fileListSegment) {
		return "", fmt.Errorf("file uri prefix: %w: missing \"fileList\" path component: %s", ErrInvalidInput, requestURI)
	}

	return strings.ReplaceAll(uri, fileListSegment, fileSegment), nil
}

func stripQuery(uri string) string {
	if i := strings.IndexByte(uri, '?'); i > 0 {
		return uri[:i]
	}
	return uri
}
