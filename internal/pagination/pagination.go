package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mhartmann/auswaerts/internal/logger"
)

const (
	// DefaultMaxPages bounds a walk against runaway pagination.
	DefaultMaxPages = 200

	// DefaultDelay is the politeness pause between page requests. It is a
	// courtesy to the upstream server, not a correctness requirement, and
	// tests set it to zero.
	DefaultDelay = 500 * time.Millisecond

	navSelector     = "td.sportViewNavigationLinkPageNumber"
	navLinkSelector = "a.sportViewNavigationLink"
	offsetParam     = "startrow"
)

// FetchFunc fetches the listing page at the given offset.
type FetchFunc func(ctx context.Context, offset int) (*goquery.Document, error)

// VisitFunc consumes one fetched page. Returning an error aborts the walk.
type VisitFunc func(doc *goquery.Document, offset int) error

// Walker walks a paginated listing. A zero MaxPages falls back to
// DefaultMaxPages; a zero Delay disables the politeness pause. Production
// callers pass DefaultDelay explicitly.
type Walker struct {
	MaxPages int
	Delay    time.Duration
}

// Result summarizes a finished walk.
type Result struct {
	Pages     int
	Truncated bool
}

// Walk fetches pages starting at offset 0 and follows the navigation links
// until no greater offset is discoverable. Hitting the page cap sets
// Truncated on the result; partial results remain valid.
func (w Walker) Walk(ctx context.Context, fetch FetchFunc, visit VisitFunc) (Result, error) {
	maxPages := w.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var res Result
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		doc, err := fetch(ctx, offset)
		if err != nil {
			return res, fmt.Errorf("fetching page at offset %d: %w", offset, err)
		}
		res.Pages++
		logger.Incr("pagination.pages")

		if err := visit(doc, offset); err != nil {
			return res, err
		}

		next, ok := NextOffset(doc, offset)
		if !ok {
			return res, nil
		}
		if res.Pages >= maxPages {
			logger.Warn("page cap hit, truncating walk", logger.Fields{
				"pages":  res.Pages,
				"offset": offset,
			})
			res.Truncated = true
			return res, nil
		}

		if err := sleep(ctx, w.Delay); err != nil {
			return res, err
		}
		offset = next
	}
}

// NextOffset scans the page navigation region and returns the smallest offset
// strictly greater than current. The strict comparison is what terminates the
// walk: the last page's navigation only references itself and earlier pages.
func NextOffset(doc *goquery.Document, current int) (int, bool) {
	next := -1

	doc.Find(navSelector).Find(navLinkSelector).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.Contains(href, offsetParam+"=") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		n, err := strconv.Atoi(u.Query().Get(offsetParam))
		if err != nil {
			return
		}
		if n > current && (next == -1 || n < next) {
			next = n
		}
	})

	if next == -1 {
		return 0, false
	}
	return next, true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
