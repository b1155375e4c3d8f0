package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort field whitelists per resource. Keys are the field names accepted in
// the sortBy query parameter, values the backing columns. Free-form sort
// expressions are rejected so callers can never order by (or probe) columns
// that are not meant to be exposed.
var (
	VideoSortFields = map[string]string{
		"createdAt": "created_at",
		"title":     "title",
		"duration":  "duration",
		"views":     "views",
	}
	CommentSortFields = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
	TweetSortFields = map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
)

// Page carries validated pagination and sorting inputs for list queries.
// Column is guaranteed to come from one of the whitelists above, so it is
// safe to interpolate into an ORDER BY clause.
type Page struct {
	Number int    // 1-based page number
	Limit  int    // max records per page
	Column string // whitelisted sort column
	Desc   bool   // sort direction
}

// NewPage validates raw query string inputs against the given sort field
// whitelist. Empty inputs fall back to the defaults: page 1, limit 10,
// createdAt descending. Any malformed or non-whitelisted value yields
// ErrBadPage before a single query is issued.
func NewPage(pageStr, limitStr, sortBy, sortType string, allowed map[string]string) (Page, error) {
	p := Page{Number: 1, Limit: 10, Column: "created_at", Desc: true}

	if s := strings.TrimSpace(pageStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, ErrBadPage
		}
		p.Number = n
	}
	if s := strings.TrimSpace(limitStr); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Page{}, ErrBadPage
		}
		p.Limit = n
	}
	if s := strings.TrimSpace(sortBy); s != "" {
		col, ok := allowed[s]
		if !ok {
			return Page{}, ErrBadPage
		}
		p.Column = col
	}
	switch strings.ToLower(strings.TrimSpace(sortType)) {
	case "", "desc":
		p.Desc = true
	case "asc":
		p.Desc = false
	default:
		return Page{}, ErrBadPage
	}
	return p, nil
}

// OrderClause renders the ORDER BY fragment for the validated sort.
func (p Page) OrderClause() string {
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", p.Column, dir)
}

// Offset returns the number of records to skip: (page-1)*limit.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}
