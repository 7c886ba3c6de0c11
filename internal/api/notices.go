package api

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

const (
	errorNoticeClass   = "alert-danger"
	successNoticeClass = "alert-success"
)

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return utils.NormalizeSpace(b.String())
}

func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// notices returns the text of every element carrying class.
func notices(body []byte, class string) []string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var out []string
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasClass(n, class) {
			if t := text(n); t != "" {
				out = append(out, t)
			}
			return false
		}
		return true
	})
	return out
}

// idFromLinks returns the idParam value of the first link whose text is
// name. The back office lists entities as links to their edit page.
func idFromLinks(body []byte, base *url.URL, idParam, name string) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	want := utils.NormalizeSpace(name)
	id := ""
	walk(doc, func(n *html.Node) bool {
		if id != "" {
			return false
		}
		if n.Type != html.ElementNode || n.Data != "a" {
			return true
		}
		if text(n) != want {
			return true
		}
		href, err := url.Parse(attr(n, "href"))
		if err != nil {
			return true
		}
		if base != nil {
			href = base.ResolveReference(href)
		}
		id = href.Query().Get(idParam)
		return true
	})
	return id
}
