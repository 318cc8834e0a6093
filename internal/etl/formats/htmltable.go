package formats

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"dataprep/internal/etl"
)

// ── HTML Table Format ───────────────────────────────────────
// Parses the first <table> element out of a staged HTML page. The first
// row (usually <th> cells) is the header. Cell text is collected with
// whitespace collapsed; empty cells become nulls.

type htmlTableFormat struct{}

func init() { etl.RegisterFormat(&htmlTableFormat{}) }

func (f *htmlTableFormat) Name() string { return "htmltable" }

func (f *htmlTableFormat) Staged() bool { return true }

func (f *htmlTableFormat) Normalize(ctx context.Context, name string, in etl.Input) (*etl.Dataset, error) {
	file, err := os.Open(in.Path)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	defer file.Close()

	doc, err := html.Parse(file)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, &etl.ParseError{Input: in.Path, Err: fmt.Errorf("no table element found")}
	}

	var header []string
	var rows [][]etl.Cell
	for _, tr := range findAll(table, "tr") {
		var texts []string
		for _, cell := range findCells(tr) {
			texts = append(texts, collapseText(cell))
		}
		if len(texts) == 0 {
			continue
		}
		if header == nil {
			header = texts
			continue
		}
		row := make([]etl.Cell, len(texts))
		for i, t := range texts {
			if t == "" {
				row[i] = etl.Null()
			} else {
				row[i] = etl.String(t)
			}
		}
		rows = append(rows, row)
	}

	if header == nil {
		return nil, &etl.ParseError{Input: in.Path, Err: fmt.Errorf("table has no rows")}
	}

	ds, err := etl.NewDataset(name, header, rows)
	if err != nil {
		return nil, &etl.ParseError{Input: in.Path, Err: err}
	}
	return ds, nil
}

// findFirst returns the first element named tag in depth-first order.
func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element named tag under n, in document order.
func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return // rows do not nest
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// findCells returns the th/td children of a row.
func findCells(tr *html.Node) []*html.Node {
	var out []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "th" || c.Data == "td") {
			out = append(out, c)
		}
	}
	return out
}

// collapseText joins all text under n with single spaces.
func collapseText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
