package whoop

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/garrettladley/whoopy/internal/xslog"
)

const idPlaceholder = "{id}"

// Endpoint reads one resource kind: single records by id and the
// paginated collection.
type Endpoint[T any] struct {
	client *Client
	kind   Kind
	route  string
	single string
}

func newEndpoint[T any](c *Client, kind Kind, route string, single string) *Endpoint[T] {
	return &Endpoint[T]{client: c, kind: kind, route: route, single: single}
}

func (e *Endpoint[T]) Kind() Kind { return e.kind }

// Single fetches the record with the given id. A 404 is a NotFoundError.
func (e *Endpoint[T]) Single(ctx context.Context, id string) (*T, error) {
	path := strings.Replace(e.single, idPlaceholder, url.PathEscape(id), 1)
	return getOne[T](ctx, e.client, e.kind, path, id)
}

// List fetches one page.
func (e *Endpoint[T]) List(ctx context.Context, params ListParams) (*PaginatedResponse[T], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var page PaginatedResponse[T]
	if err := e.client.do(ctx, http.MethodGet, e.kind, e.route, params.values(), &page); err != nil {
		return nil, err
	}
	for i := range page.Records {
		if err := validateRecord(&page.Records[i]); err != nil {
			return nil, &DecodeError{Kind: e.kind, Path: e.route, Err: err}
		}
	}
	return &page, nil
}

// Collection fetches records in provider order. With getAllPages it follows
// cursors until the provider stops returning one and the returned cursor is
// nil; a failing page yields a CollectionFetchError holding the records read
// so far. Without getAllPages exactly one page is fetched, starting at
// params.NextToken, and its cursor is returned for the caller to continue.
func (e *Endpoint[T]) Collection(ctx context.Context, params ListParams, getAllPages bool) ([]T, *string, error) {
	if !getAllPages {
		page, err := e.List(ctx, params)
		if err != nil {
			return nil, nil, err
		}
		return page.Records, page.cursor(), nil
	}

	if err := params.validate(); err != nil {
		return nil, nil, err
	}

	var (
		records []T
		seen    = make(map[string]struct{})
		pages   int
	)
	fail := func(err error) ([]T, *string, error) {
		return nil, nil, &CollectionFetchError[T]{Kind: e.kind, Records: records, Pages: pages, Err: err}
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		page, err := e.List(ctx, params)
		if err != nil {
			return fail(err)
		}
		pages++
		records = append(records, page.Records...)

		e.client.logger.DebugContext(ctx, "fetched page",
			xslog.Resource(string(e.kind)),
			xslog.Page(pages),
			xslog.Count(len(page.Records)),
		)

		next := page.cursor()
		if next == nil {
			return records, nil, nil
		}
		if _, ok := seen[*next]; ok {
			return fail(ErrCursorLoop)
		}
		seen[*next] = struct{}{}
		params.NextToken = next
	}
}

// All fetches every page.
func (e *Endpoint[T]) All(ctx context.Context, params ListParams) ([]T, error) {
	records, _, err := e.Collection(ctx, params, true)
	return records, err
}

// Latest fetches the most recent record.
func (e *Endpoint[T]) Latest(ctx context.Context) (*T, error) {
	page, err := e.List(ctx, ListParams{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(page.Records) == 0 {
		return nil, &NotFoundError{Kind: e.kind, ID: "latest"}
	}
	return &page.Records[0], nil
}

func getOne[T any](ctx context.Context, c *Client, kind Kind, path string, id string) (*T, error) {
	var rec T
	if err := c.do(ctx, http.MethodGet, kind, path, nil, &rec); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Kind: kind, ID: id, Err: err}
		}
		return nil, err
	}
	if err := validateRecord(&rec); err != nil {
		return nil, &DecodeError{Kind: kind, Path: path, Err: err}
	}
	return &rec, nil
}
