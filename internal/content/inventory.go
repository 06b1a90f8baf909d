package content

import "golang.org/x/text/unicode/norm"

// Inventory is the scanned view of a content directory: every markdown
// page and asset, addressable by route and by relative path.
type Inventory struct {
	Dir    string
	Pages  []*Page
	Assets []*Page

	byRoute map[string]*Page
	byRel   map[string]*Page
}

func newInventory(dir string) *Inventory {
	return &Inventory{
		Dir:     dir,
		byRoute: make(map[string]*Page),
		byRel:   make(map[string]*Page),
	}
}

func (inv *Inventory) add(p *Page) {
	inv.byRel[norm.NFC.String(p.RelativePath)] = p
	if p.IsAsset {
		inv.Assets = append(inv.Assets, p)
		return
	}
	inv.Pages = append(inv.Pages, p)
	// First writer wins when index.md and README.md share a directory.
	if _, exists := inv.byRoute[p.Route]; !exists {
		inv.byRoute[p.Route] = p
	}
}

// Page returns the markdown page registered for a route.
func (inv *Inventory) Page(route string) (*Page, bool) {
	p, ok := inv.byRoute[norm.NFC.String(route)]
	return p, ok
}

// HasRoute reports whether a route resolves to a markdown page.
func (inv *Inventory) HasRoute(route string) bool {
	_, ok := inv.Page(route)
	return ok
}

// File returns any scanned file (page or asset) by its slash-separated
// path relative to the content root.
func (inv *Inventory) File(rel string) (*Page, bool) {
	p, ok := inv.byRel[norm.NFC.String(rel)]
	return p, ok
}

// Routes returns every page route in scan order.
func (inv *Inventory) Routes() []string {
	routes := make([]string, 0, len(inv.Pages))
	seen := make(map[string]bool, len(inv.Pages))
	for _, p := range inv.Pages {
		if seen[p.Route] {
			continue
		}
		seen[p.Route] = true
		routes = append(routes, p.Route)
	}
	return routes
}

// Sections returns the unique top-level section names in scan order.
func (inv *Inventory) Sections() []string {
	var sections []string
	seen := make(map[string]bool)
	for _, p := range inv.Pages {
		if p.Section == "" || seen[p.Section] {
			continue
		}
		seen[p.Section] = true
		sections = append(sections, p.Section)
	}
	return sections
}

// HasSection reports whether any page lives under the named section.
func (inv *Inventory) HasSection(name string) bool {
	for _, p := range inv.Pages {
		if p.Section == name {
			return true
		}
	}
	return false
}

// Len returns the number of markdown pages.
func (inv *Inventory) Len() int { return len(inv.Pages) }
