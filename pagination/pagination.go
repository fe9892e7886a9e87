// Package pagination parses pagination query parameters at request time.
//
// Two modes exist. Classic pagination reads page and pageSize and injects
// page, pageSize and offset into the request parameters. Cursor
// pagination reads pageSize and an opaque cursor and injects page,
// pageSize and cursor; cursor is a nil *string when the query has none.
//
// Malformed input never fails the request: an unparsable, non-positive or
// overflowing page becomes 1, and a pageSize outside the allowed sizes
// becomes the configured default.
package pagination

import (
	"math"
	"slices"
	"strconv"

	"github.com/kalyuk/swagdeco/meta"
	"github.com/kalyuk/swagdeco/route"
)

// Query parameter names and the request parameter keys written by Wrap.
const (
	ParamPage     = "page"
	ParamPageSize = "pageSize"
	ParamOffset   = "offset"
	ParamCursor   = "cursor"
)

// Defaults applied to zero Config fields.
var (
	DefaultType     = meta.Classic
	DefaultPageSize = 10
	DefaultSizes    = []int{10, 15, 20, 25, 50, 100}
)

// Config is the pagination configuration of a member.
type Config struct {
	Type     meta.Mode
	PageSize int
	Sizes    []int
}

// withDefaults returns cfg with zero fields replaced by the defaults.
func (cfg Config) withDefaults() Config {
	if cfg.Type == "" {
		cfg.Type = DefaultType
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if len(cfg.Sizes) == 0 {
		cfg.Sizes = DefaultSizes
	}
	cfg.Sizes = slices.Clone(cfg.Sizes)
	return cfg
}

// Shape returns the pagination shape recorded in the metadata store.
func (cfg Config) Shape() meta.Pagination {
	cfg = cfg.withDefaults()
	return meta.Pagination{
		Type:     cfg.Type,
		PageSize: cfg.PageSize,
		Sizes:    cfg.Sizes,
	}
}

// Page is the typed view of the values injected by Wrap.
type Page struct {
	Page     int
	PageSize int

	// Offset is set in classic mode.
	Offset int

	// Cursor is set in cursor mode; nil when the request had none.
	Cursor *string
}

// Wrap returns a handler that injects the resolved pagination values into
// req.Params and then calls next. It performs no I/O.
func Wrap(cfg Config, next route.HandlerFunc) route.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(req *route.Request) (any, error) {
		size := parsePageSize(req.Query[ParamPageSize], cfg)
		page := parsePage(req.Query[ParamPage], size)

		req.Params[ParamPage] = page
		req.Params[ParamPageSize] = size

		if cfg.Type == meta.Cursor {
			var cursor *string
			if v, ok := req.Query[ParamCursor]; ok && v != "" {
				cursor = &v
			}
			req.Params[ParamCursor] = cursor
		} else {
			req.Params[ParamOffset] = (page - 1) * size
		}

		return next(req)
	}
}

// Middleware returns Wrap as a route.Middleware.
func Middleware(cfg Config) route.Middleware {
	return func(next route.HandlerFunc) route.HandlerFunc {
		return Wrap(cfg, next)
	}
}

// FromRequest returns the values injected by Wrap. ok is false when the
// request was not paginated.
func FromRequest(req *route.Request) (p Page, ok bool) {
	if p.Page, ok = req.Params.Int(ParamPage); !ok {
		return Page{}, false
	}
	p.PageSize, _ = req.Params.Int(ParamPageSize)
	p.Offset, _ = req.Params.Int(ParamOffset)
	if cursor, ok := req.Params.String(ParamCursor); ok {
		p.Cursor = &cursor
	}
	return p, true
}

// parsePage returns the page number, or 1 when raw is not a positive
// integer or when (page-1)*size would overflow an int.
func parsePage(raw string, size int) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	if size > 0 && page-1 > math.MaxInt/size {
		return 1
	}
	return page
}

func parsePageSize(raw string, cfg Config) int {
	if raw == "" {
		return cfg.PageSize
	}
	size, err := strconv.Atoi(raw)
	if err != nil || !slices.Contains(cfg.Sizes, size) {
		return cfg.PageSize
	}
	return size
}
