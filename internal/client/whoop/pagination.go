package whoop

import (
	"net/url"
	"strconv"
	"time"
)

const (
	MaxLimit = 25

	paramLimit     = "limit"
	paramStart     = "start"
	paramEnd       = "end"
	paramNextToken = "nextToken"
)

// ListParams filters a collection. Start is inclusive and End exclusive.
// A zero Limit leaves the page size to the provider.
type ListParams struct {
	Limit     int
	Start     *time.Time
	End       *time.Time
	NextToken *string
}

func (p ListParams) validate() error {
	if p.Limit < 0 || p.Limit > MaxLimit {
		return &ValidationError{Field: paramLimit, Message: "must be between 0 and " + strconv.Itoa(MaxLimit) + " (0 for the provider default)"}
	}
	if p.Start != nil && p.End != nil && !p.Start.Before(*p.End) {
		return &ValidationError{Field: paramEnd, Message: "must be after start"}
	}
	if p.NextToken != nil && *p.NextToken == "" {
		return &ValidationError{Field: paramNextToken, Message: "must not be empty"}
	}
	return nil
}

func (p ListParams) values() url.Values {
	v := make(url.Values)

	if p.Limit > 0 {
		v.Set(paramLimit, strconv.Itoa(p.Limit))
	}
	if p.Start != nil {
		v.Set(paramStart, p.Start.UTC().Format(time.RFC3339Nano))
	}
	if p.End != nil {
		v.Set(paramEnd, p.End.UTC().Format(time.RFC3339Nano))
	}
	if p.NextToken != nil {
		v.Set(paramNextToken, *p.NextToken)
	}

	return v
}

type PaginatedResponse[T any] struct {
	Records   []T     `json:"records"`
	NextToken *string `json:"next_token,omitempty"`
}

func (p *PaginatedResponse[T]) HasMore() bool {
	return p.NextToken != nil && *p.NextToken != ""
}

// cursor returns the next page token, or nil on the last page.
func (p *PaginatedResponse[T]) cursor() *string {
	if !p.HasMore() {
		return nil
	}
	next := *p.NextToken
	return &next
}
