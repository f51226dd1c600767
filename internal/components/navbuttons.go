package components

import (
	"github.com/andrewindechemain/modern-man/internal/models"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// NavButtons renders one image-backed link per category.
func NavButtons() g.Node {
	return html.Div(html.Class("categories"),
		g.Map(models.Categories, func(c models.Category) g.Node {
			return html.A(html.Href(CategoryURL(c.Slug)),
				html.Button(
					html.Type("button"),
					html.Class(c.Slug+"-image"),
					g.Attr("style", "background-image: url("+c.ImageURL+")"),
					g.Text(c.Name),
				),
			)
		}),
	)
}
