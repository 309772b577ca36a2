package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPageSize is the page size applied when the client sends none.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows a single page can request.
	MaxPageSize = 100
)

// Params holds page-number pagination inputs from controllers.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the params to a valid page and page size.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Envelope is the paginated list shape returned by every list endpoint.
type Envelope struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// BuildEnvelope wraps results with count and next/previous page links. Links
// are absolute, rebuilt from the inbound request's host and forwarded proto.
func BuildEnvelope(r *http.Request, params Params, count int64, results any) Envelope {
	params = params.Normalize()
	envelope := Envelope{
		Count:   count,
		Results: results,
	}

	if int64(params.Offset()+params.PageSize) < count {
		envelope.Next = pageLink(r, params, params.Page+1)
	}
	if params.Page > 1 {
		envelope.Previous = pageLink(r, params, params.Page-1)
	}
	return envelope
}

func pageLink(r *http.Request, params Params, page int) *string {
	if r == nil || r.URL == nil {
		return nil
	}
	link := *r.URL
	if r.Host != "" {
		link.Scheme = requestScheme(r)
		link.Host = r.Host
	}
	query := link.Query()
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(params.PageSize))
	link.RawQuery = query.Encode()
	value := link.String()
	return &value
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
