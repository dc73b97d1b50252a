// Package parser renders cached pages as readable text so skipped pages can
// be checked by hand.
package parser

import (
	"bufio"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Block is one heading, paragraph, list item or table of a page.
type Block struct {
	Type  string
	Text  string
	Table *Table
}

type Table struct {
	Headers []string
	Rows    [][]string
}

// Document is the readable part of a page.
type Document struct {
	URL    string
	Title  string
	Blocks []Block
}

// Readable extracts the main content of html with go-readability and splits
// it into blocks.
func Readable(rawURL string, html []byte) (*Document, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(string(html)), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract readable content: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil, err
	}

	var blocks []Block
	doc.Find("h1,h2,h3,h4,p,li,table").Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		if tag == "table" {
			if table := extractTable(s); table != nil {
				blocks = append(blocks, Block{Type: tag, Table: table})
			}
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			blocks = append(blocks, Block{Type: tag, Text: text})
		}
	})

	return &Document{
		URL:    rawURL,
		Title:  normalizeText(article.Title),
		Blocks: blocks,
	}, nil
}

// Text renders the document as plain text: headings are underlined, table
// cells are tab separated.
func (d *Document) Text() string {
	var b strings.Builder
	if d.Title != "" {
		b.WriteString(d.Title + "\n" + strings.Repeat("=", len(d.Title)) + "\n\n")
	}
	for _, block := range d.Blocks {
		switch block.Type {
		case "table":
			if len(block.Table.Headers) > 0 {
				b.WriteString(strings.Join(block.Table.Headers, "\t") + "\n")
			}
			for _, row := range block.Table.Rows {
				b.WriteString(strings.Join(row, "\t") + "\n")
			}
		case "li":
			b.WriteString("- " + block.Text + "\n")
		case "h1", "h2", "h3", "h4":
			b.WriteString("\n" + block.Text + "\n" + strings.Repeat("-", len(block.Text)) + "\n")
		default:
			b.WriteString(block.Text + "\n")
		}
	}
	return b.String()
}

// normalizeText cleans up a string by trimming space and removing excess newlines.
func normalizeText(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	scanner := bufio.NewScanner(strings.NewReader(strings.ReplaceAll(input, "\u00a0", " ")))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			b.WriteString(line)
			b.WriteString(" ")
		}
	}
	return strings.TrimSpace(b.String())
}

func extractTable(s *goquery.Selection) *Table {
	var headers []string
	var rows [][]string

	s.Find("thead tr th").Each(func(i int, th *goquery.Selection) {
		headers = append(headers, normalizeText(th.Text()))
	})

	// Fallback: first row
	if len(headers) == 0 {
		s.Find("tr").First().Find("th,td").Each(func(i int, cell *goquery.Selection) {
			headers = append(headers, normalizeText(cell.Text()))
		})
	}

	// Row headers hold the player name on stat tables.
	s.Find("tbody tr").Each(func(i int, tr *goquery.Selection) {
		var row []string
		tr.Find("th,td").Each(func(j int, cell *goquery.Selection) {
			row = append(row, normalizeText(cell.Text()))
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	if len(headers) == 0 && len(rows) == 0 {
		return nil
	}
	return &Table{Headers: headers, Rows: rows}
}
