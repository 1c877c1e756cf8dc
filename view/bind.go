package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNotBound is returned by Click for a code with no card in the most
// recently bound markup.
var ErrNotBound = errors.New("view: no card bound for code")

// ClickFunc handles a click on the card for code.
type ClickFunc func(ctx context.Context, code string) error

// Binder holds the click handlers for the cards currently on screen. Each
// Bind replaces the whole table, so rebinding after every render never
// stacks handlers.
type Binder struct {
	mu    sync.Mutex
	cards map[string]ClickFunc
}

func NewBinder() *Binder { return &Binder{cards: map[string]ClickFunc{}} }

// Bind scans markup for cards and points each one at onClick. Markup with
// no cards, including an empty string, leaves nothing bound. It returns the
// number of distinct cards bound.
func (b *Binder) Bind(markup string, onClick ClickFunc) int {
	next := map[string]ClickFunc{}
	for _, code := range CardCodes(markup) {
		next[code] = onClick
	}
	b.mu.Lock()
	b.cards = next
	b.mu.Unlock()
	return len(next)
}

// Click fires the handler bound to code, at most once per call.
func (b *Binder) Click(ctx context.Context, code string) error {
	b.mu.Lock()
	fn, ok := b.cards[code]
	b.mu.Unlock()
	if !ok || fn == nil {
		return ErrNotBound
	}
	return fn(ctx, code)
}

func (b *Binder) Bound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.cards)
}

// CardCodes returns the identifier of every card in markup, in order. The
// data-location-code attribute wins; cards without it fall back to the first
// line of their text.
func CardCodes(markup string) []string {
	var codes []string
	for _, card := range findCards(markup) {
		code := attr(card, "data-location-code")
		if code == "" {
			code = firstLine(textOf(card))
		}
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// CardCode reads a card's identifier from the first line of its visible
// text, ignoring any attributes.
func CardCode(markup string) string {
	cards := findCards(markup)
	if len(cards) == 0 {
		return ""
	}
	return firstLine(textOf(cards[0]))
}

func findCards(markup string) []*html.Node {
	if strings.TrimSpace(markup) == "" {
		return nil
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), root)
	if err != nil {
		return nil
	}
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, CardClass) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
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

// textOf approximates innerText: block elements and <br> start new lines.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
			return
		case n.Type == html.ElementNode && n.DataAtom == atom.Br:
			b.WriteByte('\n')
			return
		}
		block := n.Type == html.ElementNode && blockElements[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)
	return b.String()
}

var blockElements = map[atom.Atom]bool{
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Div: true, atom.P: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Table: true, atom.Tr: true,
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
