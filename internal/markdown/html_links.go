package markdown

import (
	"bytes"

	"golang.org/x/net/html"
)

// extractHTMLLinks pulls href/src targets out of raw HTML carried in a
// Markdown body. The fragment is parsed as a full document; x/net/html
// tolerates partial markup, which matches what authors actually write.
func extractHTMLLinks(fragment []byte) []Link {
	doc, err := html.Parse(bytes.NewReader(fragment))
	if err != nil {
		return nil
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if href := htmlAttr(n, "href"); href != "" {
					links = append(links, Link{Kind: LinkKindHTML, Destination: href})
				}
			case "img", "script", "video", "audio", "source", "iframe":
				if src := htmlAttr(n, "src"); src != "" {
					links = append(links, Link{Kind: LinkKindHTML, Destination: src})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}

// htmlAttr retrieves an attribute value from an HTML node.
func htmlAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
