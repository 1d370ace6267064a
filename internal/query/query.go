// Package query turns storefront list parameters (filters, sort, paging)
// into a Mongo filter and find options.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "name"

	Ascending  = "asc"
	Descending = "desc"
)

var ErrInvalidParam = errors.New("invalid query parameter")

// Params are the optional list parameters accepted by GET /products.
type Params struct {
	Category    string
	Search      string
	AddedToCart *bool
	Page        int64
	Limit       int64
	SortBy      string
	SortOrder   string
}

// Default returns params with no filters and default paging/sort.
func Default() Params {
	return Params{Page: DefaultPage, Limit: DefaultLimit, SortBy: DefaultSortBy, SortOrder: Ascending}
}

// Parse reads raw query-string values through get. Missing values fall back
// to defaults; malformed page/limit/sortOrder are rejected.
func Parse(get func(key string) string) (Params, error) {
	p := Default()
	p.Category = get("category")
	p.Search = get("search")

	if v := get("addedToCart"); v != "" {
		b := v == "true"
		p.AddedToCart = &b
	}

	var err error
	if p.Page, err = positiveInt(get("page"), DefaultPage); err != nil {
		return Params{}, fmt.Errorf("%w: page %v", ErrInvalidParam, err)
	}
	if p.Limit, err = positiveInt(get("limit"), DefaultLimit); err != nil {
		return Params{}, fmt.Errorf("%w: limit %v", ErrInvalidParam, err)
	}

	if v := get("sortBy"); v != "" {
		p.SortBy = v
	}
	switch strings.ToLower(get("sortOrder")) {
	case "", Ascending:
		p.SortOrder = Ascending
	case Descending:
		p.SortOrder = Descending
	default:
		return Params{}, fmt.Errorf("%w: sortOrder must be %q or %q", ErrInvalidParam, Ascending, Descending)
	}
	return p, nil
}

func positiveInt(raw string, def int64) (int64, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if n < 1 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

// Filter builds the match predicate. Absent parameters add no condition.
func (p Params) Filter() bson.M {
	f := bson.M{}
	if p.Category != "" {
		f["category"] = p.Category
	}
	if p.Search != "" {
		f["title"] = bson.M{"$regex": regexp.QuoteMeta(p.Search), "$options": "i"}
	}
	if p.AddedToCart != nil {
		f["addedToCart"] = *p.AddedToCart
	}
	return f
}

// Direction is 1 for ascending and -1 for descending.
func (p Params) Direction() int {
	if p.SortOrder == Descending {
		return -1
	}
	return 1
}

func (p Params) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// Sort orders by the requested field, then by _id in the same direction so
// pages are stable across runs.
func (p Params) Sort() bson.D {
	d := p.Direction()
	if p.SortBy == "_id" {
		return bson.D{{Key: "_id", Value: d}}
	}
	return bson.D{{Key: p.SortBy, Value: d}, {Key: "_id", Value: d}}
}

func (p Params) FindOptions() *options.FindOptions {
	return options.Find().
		SetSkip(p.Skip()).
		SetLimit(p.Limit).
		SetSort(p.Sort())
}
