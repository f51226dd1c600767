package components

import (
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// Badge is the corner label on a result card.
type Badge struct {
	Text  string
	Class string // "ondiscount" or "onsale"
}

type Card struct {
	Name  string
	Alt   string
	Image string
	Price decimal.Decimal
	Stars int
	Badge Badge
}

const ResultsTitle = "Suits and Tuxedos"

const cardImage = "/static/images/tuxedo4.jpg"

// Cards is the fixed result set shown on the search page.
var Cards = []Card{
	{Name: "Black Italian Tuxedo", Alt: "Italian Suits", Image: cardImage, Price: decimal.NewFromInt(1000), Stars: 4, Badge: Badge{"-18%", "ondiscount"}},
	{Name: "Grey Official Suit", Alt: "Grey Suit", Image: cardImage, Price: decimal.NewFromInt(700), Stars: 4, Badge: Badge{"New", "onsale"}},
	{Name: "Blue Official Tuxedo", Alt: "Blue Tuxedo", Image: cardImage, Price: decimal.NewFromInt(1000), Stars: 4, Badge: Badge{"-18%", "ondiscount"}},
	{Name: "White Official Suit", Alt: "White Suit", Image: cardImage, Price: decimal.NewFromInt(700), Stars: 4, Badge: Badge{"New", "onsale"}},
}

// FormatPrice renders whole amounts without decimals, e.g. "$1000".
func FormatPrice(p decimal.Decimal) string {
	if p.Equal(p.Truncate(0)) {
		return "$" + p.StringFixed(0)
	}
	return "$" + p.StringFixed(2)
}

// SearchNotice returns the message for the error marker in query, or "" when
// there is none.
func SearchNotice(query url.Values) string {
	switch query.Get("error") {
	case ErrorEmpty:
		return "Please enter a search term."
	case ErrorNoResults:
		return `No results found for "` + query.Get("query") + `".`
	}
	return ""
}

// SearchResults is the body under the header stack: title, optional notice
// and the cards.
func SearchResults(query url.Values) g.Node {
	notice := SearchNotice(query)
	return g.Group([]g.Node{
		html.H4(html.Class("searchresultstitle"), g.Text(ResultsTitle)),
		g.If(notice != "", html.P(html.Class("search-notice"), g.Attr("role", "status"), g.Text(notice))),
		html.Div(html.Class("searchresultsimages"),
			g.Map(Cards, ResultCard),
		),
	})
}

func ResultCard(c Card) g.Node {
	stars := make([]g.Node, c.Stars)
	for i := range stars {
		stars[i] = html.Span(html.Class("star shopping"), g.Attr("aria-hidden", "true"), g.Text("★"))
	}
	return html.Span(html.Class("image"),
		html.Div(html.Class("container"),
			html.Span(html.Class(c.Badge.Class), g.Text(c.Badge.Text)),
			html.Img(html.Src(c.Image), html.Alt(c.Alt)),
			html.P(g.Text(c.Name)),
			html.Span(html.Class("stars"), g.Attr("aria-label", strconv.Itoa(c.Stars)+" stars"), g.Group(stars)),
			html.P(html.Class("price"), g.Text(FormatPrice(c.Price))),
		),
	)
}

// Header is the stack every storefront page starts with.
func Header(bar g.Node, searchBar SearchBarProps) g.Node {
	return g.Group([]g.Node{
		bar,
		NavButtons(),
		SearchBar(searchBar),
	})
}

// SearchPage composes the full body of /searchpage.
func SearchPage(bar g.Node, searchBar SearchBarProps, query url.Values) g.Node {
	return g.Group([]g.Node{
		Header(bar, searchBar),
		SearchResults(query),
	})
}
