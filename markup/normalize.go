package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// AddMaxWidth clamps every <td> under n to a maximum width and forces
// normal whitespace wrapping, so two table copies fit side by side without
// overflowing their columns.
func AddMaxWidth(n *html.Node) {
	for _, td := range FindAllTags(n, "td") {
		style := Attr(td, "style")
		if !strings.Contains(style, "max-width") {
			style += "; max-width: 150px"
		}
		if strings.Contains(style, "white-space") && strings.Contains(style, "nowrap") {
			style = strings.Replace(style, "nowrap", "normal", 1)
		}
		SetAttr(td, "style", strings.Trim(style, "; "))
	}
}

// Each pattern consumes an existing .toLowerCase() call when present, so the
// rewrite is idempotent across repeated merges.
var handlerValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(this\.value)(?:\s*\.\s*toLowerCase\s*\(\s*\))?`),
	regexp.MustCompile(`(event\.target\.value)(?:\s*\.\s*toLowerCase\s*\(\s*\))?`),
}

// RewriteIDs prefixes every id and anchor name under n and fixes the
// references that point at them: on* handler strings and internal # links.
// Both the previous and current table copy end up in one page, so their ids
// must not collide.
func RewriteIDs(n *html.Node, prefix string) {
	idMap := make(map[string]string)

	for _, tagged := range FindAll(n, func(e *html.Node) bool { return Attr(e, "id") != "" }) {
		original := Attr(tagged, "id")
		idMap[original] = prefix + original
		SetAttr(tagged, "id", prefix+original)
	}

	for _, anchor := range FindAll(n, func(e *html.Node) bool {
		return e.Data == "a" && Attr(e, "name") != ""
	}) {
		original := Attr(anchor, "name")
		idMap[original] = prefix + original
		SetAttr(anchor, "name", prefix+original)
	}

	rewriteHandler := func(handler string) string {
		if handler == "" {
			return handler
		}
		for _, pat := range handlerValuePatterns {
			handler = pat.ReplaceAllString(handler, "$1.toLowerCase()")
		}
		for orig, renamed := range idMap {
			handler = strings.ReplaceAll(handler, "'"+orig+"'", "'"+renamed+"'")
			handler = strings.ReplaceAll(handler, `"`+orig+`"`, `"`+renamed+`"`)
			handler = strings.ReplaceAll(handler, " "+orig+" ", " "+renamed+" ")
		}
		return handler
	}

	for _, el := range FindAll(n, func(e *html.Node) bool {
		for _, a := range e.Attr {
			if strings.HasPrefix(a.Key, "on") {
				return true
			}
		}
		return false
	}) {
		for i, a := range el.Attr {
			if strings.HasPrefix(a.Key, "on") {
				el.Attr[i].Val = rewriteHandler(a.Val)
			}
		}
	}

	for _, link := range FindAll(n, func(e *html.Node) bool {
		return e.Data == "a" && Attr(e, "href") != ""
	}) {
		href := Attr(link, "href")
		if strings.HasPrefix(href, "#") && len(href) > 1 {
			if renamed, ok := idMap[href[1:]]; ok {
				SetAttr(link, "href", "#"+renamed)
			}
		}
	}
}
