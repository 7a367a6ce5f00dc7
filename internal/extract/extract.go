package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/competitionkit/ozcomps/internal/entry"
	"github.com/competitionkit/ozcomps/internal/logger"
)

const (
	// BaseOrigin is prepended to relative node links
	BaseOrigin = "https://www.ozbargain.com.au"

	// Characters searched for a source domain around each match start
	windowBefore = 900
	windowAfter  = 1500
)

// RE2's \s is ASCII only; listing pages also put NBSP and other Unicode spaces between tags.
const space = `\s\v\p{Z}\x{FEFF}`

var (
	// <h2 ...> <a ... href="...node/123..." ...>Title</a> </h2>
	listingPattern = regexp.MustCompile(`(?is)<h2[^>]*>[` + space + `]*<a[^>]*href="([^"]*/node/(\d+)[^"]*)"[^>]*>(.*?)</a>[` + space + `]*</h2>`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
	domainPattern  = regexp.MustCompile(`(?i)https?://([^"/` + space + `]+)`)
)

// Extractor turns listing HTML into entries, resolving relative links against a base origin
type Extractor struct {
	base    string
	baseURL *url.URL
}

var defaultExtractor = mustNew(BaseOrigin)

// New creates an Extractor for the given base origin, e.g. "https://www.ozbargain.com.au".
func New(baseOrigin string) (*Extractor, error) {
	base := strings.TrimRight(strings.TrimSpace(baseOrigin), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base origin: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base origin must be an absolute http(s) URL: %q", baseOrigin)
	}

	return &Extractor{
		base:    base,
		baseURL: u,
	}, nil
}

func mustNew(baseOrigin string) *Extractor {
	x, err := New(baseOrigin)
	if err != nil {
		panic(err)
	}
	return x
}

// Extract runs the default extractor (BaseOrigin) over html
func Extract(html string, limit int) []*entry.Entry {
	return defaultExtractor.Extract(html, limit)
}

// Extract returns at most limit entries in document order. Scanning stops once the limit
// is reached. A document without matches yields an empty, non-nil slice.
func (x *Extractor) Extract(html string, limit int) []*entry.Entry {
	entries := make([]*entry.Entry, 0)
	if limit < 1 {
		return entries
	}

	pos := 0
	for len(entries) < limit && pos < len(html) {
		loc := listingPattern.FindStringSubmatchIndex(html[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		pos = loc[1]

		e, err := x.build(html, loc)
		if err != nil {
			logger.Warn("Skipping listing candidate", logger.Fields{
				"offset": loc[0],
				"error":  err.Error(),
			})
			continue
		}
		entries = append(entries, e)
	}

	return entries
}

// build constructs one entry from a match. loc holds the submatch byte offsets:
// 2,3 href; 4,5 node id; 6,7 anchor content.
func (x *Extractor) build(html string, loc []int) (e *entry.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("building entry: %v", r)
		}
	}()

	href := html[loc[2]:loc[3]]
	nodeID := html[loc[4]:loc[5]]
	title := CleanTitle(html[loc[6]:loc[7]])
	nodeURL := x.resolve(href)
	domain := SourceDomain(html, loc[0])

	return entry.New(nodeID, title, nodeURL, domain)
}

// resolve makes a link target absolute
func (x *Extractor) resolve(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return x.base + href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return x.base + "/" + href
	}
	root := *x.baseURL
	root.Path = "/"
	return root.ResolveReference(ref).String()
}

// CleanTitle strips tags, collapses whitespace runs to a single space and trims.
func CleanTitle(raw string) string {
	text := tagPattern.ReplaceAllString(raw, "")
	return strings.Join(strings.FieldsFunc(text, isSpace), " ")
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// SourceDomain returns the host of the first absolute http(s) URL in the window around
// byte offset start, or "" if there is none.
func SourceDomain(html string, start int) string {
	if m := domainPattern.FindStringSubmatch(window(html, start)); m != nil {
		return m[1]
	}
	return ""
}

// window returns html from windowBefore characters before start to windowAfter
// characters after it, clamped to the document
func window(html string, start int) string {
	if start < 0 {
		start = 0
	}
	if start > len(html) {
		start = len(html)
	}

	lo := start
	for n := 0; n < windowBefore && lo > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(html[:lo])
		lo -= size
	}

	hi := start
	for n := 0; n < windowAfter && hi < len(html); n++ {
		_, size := utf8.DecodeRuneInString(html[hi:])
		hi += size
	}

	return html[lo:hi]
}
