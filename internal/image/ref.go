package image

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/distribution/reference"
)

const (

	// Tag applied when the user supplies none.
	DefaultTag = "latest"

	// Namespace prepended to official images when pulling through a mirror.
	officialNamespace = "library"

	// Timestamp layout embedded in archive file names.
	timestampLayout = "20060102_150405"
)

// Characters permitted in an image name. Everything else is replaced with an
// underscore.
var nameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_./-]`)

// Characters replaced when a reference component is embedded in a file name.
var fileSanitizer = regexp.MustCompile(`[:/]`)

// A container image reference as supplied by the user.
type Ref struct {
	Name string // Image name, possibly namespaced (e.g. "grafana/loki").
	Tag  string // Tag portion, "latest" when the input carried none.
}

// Parses a raw name[:tag] string into a reference.
//
// The input is split at the first colon: everything before it is the name,
// everything after it is the tag, so tags containing further colons survive
// intact. Characters outside [a-zA-Z0-9_./-] in the name are replaced with
// underscores rather than rejected.
func ParseRef(input string) (Ref, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Ref{}, fmt.Errorf("%w: empty input", ErrInvalidReference)
	}

	name, tag, found := strings.Cut(input, ":")
	if !found || strings.TrimSpace(tag) == "" {
		tag = DefaultTag
	}

	name = nameSanitizer.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		return Ref{}, fmt.Errorf("%w: %q has no name", ErrInvalidReference, input)
	}

	return Ref{Name: name, Tag: strings.TrimSpace(tag)}, nil
}

// Returns the canonical "name:tag" form.
func (r Ref) String() string {
	return r.Name + ":" + r.Tag
}

// Returns true if the name carries no namespace segment, meaning the image
// lives in the registry's default "library" namespace.
func (r Ref) Official() bool {
	return !strings.Contains(r.Name, "/")
}

// Returns the reference to hand to the pull command.
//
// With an empty mirror this is the canonical form. Otherwise the mirror host
// is prepended, with official images routed through the "library" namespace
// ("nginx" becomes "<mirror>/library/nginx") and namespaced images prefixed
// directly ("grafana/loki" becomes "<mirror>/grafana/loki"). Any http:// or
// https:// scheme on the mirror is stripped first.
func (r Ref) PullRef(mirror string) string {
	mirror = stripScheme(mirror)
	if mirror == "" {
		return r.String()
	}

	if r.Official() {
		return mirror + "/" + officialNamespace + "/" + r.String()
	}
	return mirror + "/" + r.String()
}

// Removes the URL scheme and any trailing slash from a mirror endpoint,
// leaving a bare host[:port].
func stripScheme(mirror string) string {
	mirror = strings.TrimSpace(mirror)
	mirror = strings.TrimPrefix(mirror, "https://")
	mirror = strings.TrimPrefix(mirror, "http://")
	return strings.TrimSuffix(mirror, "/")
}

// Checks a pull reference against the canonical distribution grammar.
//
// Catches uppercase names, malformed tags, and broken mirror endpoints before
// any command runs, with the same rules the registry applies.
func Validate(ref string) error {
	if _, err := reference.ParseNormalizedNamed(ref); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidReference, ref, err)
	}
	return nil
}

// Returns the base file name for archives of this image: the name, tag,
// architecture, and timestamp joined with underscores. Slashes and colons in
// each component are replaced so the result is a single path element, and the
// timestamp keeps repeated runs from colliding.
func (r Ref) FileBase(arch string, now time.Time) string {
	name := fileSanitizer.ReplaceAllString(r.Name, "_")
	tag := fileSanitizer.ReplaceAllString(r.Tag, "_")
	slug := strings.ReplaceAll(arch, "/", "-")

	return fmt.Sprintf("%s_%s_%s_%s", name, tag, slug, now.Format(timestampLayout))
}
