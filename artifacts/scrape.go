package artifacts

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/fhirtools/igdiff/markup"
)

// Fallbacks for profile pages that lack the expected heading or narrative.
const (
	unknownName        = "Unknown"
	missingDescription = "No description found."
)

// ScrapeProfileMeta pulls a profile's display name and description out of
// its rendered page. The publisher titles the page with an h2 whose id is
// "root" and whose text reads "Resource Profile: <name>"; the description
// is the first paragraph that follows it.
func ScrapeProfileMeta(root *html.Node) (name, description string) {
	name = unknownName
	description = missingDescription

	heading := markup.Find(root, func(e *html.Node) bool {
		return e.Data == "h2" && markup.Attr(e, "id") == "root"
	})
	if heading == nil {
		return name, description
	}

	text := markup.Text(heading)
	if i := strings.Index(text, ":"); i >= 0 {
		text = text[i+1:]
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		name = trimmed
	}

	for sibling := heading.NextSibling; sibling != nil; sibling = sibling.NextSibling {
		if sibling.Type != html.ElementNode {
			continue
		}
		if sibling.Data == "p" {
			if para := strings.TrimSpace(markup.Text(sibling)); para != "" {
				description = para
			}
			break
		}
		// Another heading before any paragraph means there is no narrative
		if strings.HasPrefix(sibling.Data, "h") && len(sibling.Data) == 2 {
			break
		}
	}
	return name, description
}
