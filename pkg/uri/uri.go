// Package uri generates URIs of new resources.
package uri

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize makes s usable as an URI path segment:
// lower-cased, accents removed, and runs of other than [a-z0-9] replaced with a '_'.
//
//	Normalize("Blé dur / 2020") // -> "ble_dur_2020"
func Normalize(s string) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	b := new(strings.Builder)
	sep := false
	for _, r := range strings.ToLower(plain) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			if sep && b.Len() != 0 {
				b.WriteRune('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	return b.String()
}

func join(base string, parts ...string) string {
	b := strings.TrimRight(base, "/")
	for _, p := range parts {
		if p == "" {
			continue
		}
		b += "/" + p
	}
	return b
}

// ForClass is `{base}/{prefix}/{normalized segments...}`.
func ForClass(base string, prefix string, segments ...string) string {
	parts := []string{prefix}
	for _, s := range segments {
		parts = append(parts, Normalize(s))
	}
	return join(base, parts...)
}

// WithSuffix is the n-th candidate of uri, for n >= 2: `{uri}-{n}`. For smaller n it is uri.
func WithSuffix(uri string, n int) string {
	if n < 2 {
		return uri
	}
	return fmt.Sprintf("%s-%d", uri, n)
}

// ForInstance is `{base}/id/{kind}/{random uuid}`.
func ForInstance(base string, kind string) string {
	return join(base, "id", kind, uuid.NewString())
}

// ForYearSequence is `{base}/{year}/{letter}{yy}{n}`, where n is zero-padded to digits.
//
//	ForYearSequence("http://example.com", 2017, "v", 4, 12) // -> "http://example.com/2017/v170012"
func ForYearSequence(base string, year int, letter string, digits int, n int) string {
	return join(base, fmt.Sprint(year)) + fmt.Sprintf("/%s%02d%0*d", letter, year%100, digits, n)
}

// YearSequencePrefix is the common prefix of URIs given by ForYearSequence for the year.
func YearSequencePrefix(base string, year int, letter string) string {
	return join(base, fmt.Sprint(year)) + fmt.Sprintf("/%s%02d", letter, year%100)
}

// ForFile is `{base}/id/file/{collection}/{ulid}`.
func ForFile(base string, collection string) string {
	return join(base, "id", "file", collection, strings.ToLower(ulid.Make().String()))
}

// Collection is the collection segment of URIs given by ForFile: the second last path segment.
func Collection(fileURI string) string {
	parts := strings.Split(strings.TrimRight(fileURI, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
