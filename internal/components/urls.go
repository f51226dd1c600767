// Package components renders the shared storefront header pieces and holds
// the logic behind them.
package components

import (
	"net/url"
	"strconv"
)

const (
	SearchPagePath = "/searchpage"
	DiscountedURL  = SearchPagePath + "?discounted=true"

	ErrorEmpty     = "empty"
	ErrorNoResults = "noresults"
)

func CategoryURL(slug string) string {
	return SearchPagePath + "?category=" + url.QueryEscape(slug)
}

// SearchURL is the results route for term, with no error marker.
func SearchURL(term string) string {
	return SearchPagePath + "?query=" + url.QueryEscape(term)
}

// SearchErrorURL appends error=<marker> to the results route for term.
func SearchErrorURL(term, marker string) string {
	return SearchURL(term) + "&error=" + url.QueryEscape(marker)
}

func pickURL(id int64, name string) string {
	return "/suggestions/pick?id=" + strconv.FormatInt(id, 10) + "&name=" + url.QueryEscape(name)
}
