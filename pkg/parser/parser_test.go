package parser

import (
	"strings"
	"testing"
)

const article = `<!DOCTYPE html>
<html><head><title>Trea Turner Stats</title></head>
<body>
<div id="nav"><a href="/">Home</a> <a href="/players/">Players</a></div>
<div id="content">
<h1>Trea Turner</h1>
<p>Trea Turner was drafted by the San Diego Padres in the first round of the 2014 amateur draft and traded to the Washington Nationals later that year. He made his debut in August 2015.</p>
<p>He is known for his speed on the bases, leading the National League in stolen bases in 2018 and again in 2021, while playing shortstop and second base for several clubs.</p>
<p>In 2019 he hit for the cycle for the second time in his career, becoming one of a small group of players to do so more than once with the same franchise.</p>
<table>
<thead><tr><th>Year</th><th>Tm</th><th>HR</th></tr></thead>
<tbody>
<tr><th>2017</th><td>WSN</td><td>11</td></tr>
<tr><th>2018</th><td>WSN</td><td>19</td></tr>
</tbody>
</table>
</div>
</body></html>`

func TestReadable(t *testing.T) {
	doc, err := Readable("https://www.baseball-reference.com/players/t/turnetr01.shtml", []byte(article))
	if err != nil {
		t.Fatalf("Readable() error = %v", err)
	}
	if !strings.Contains(doc.Title, "Trea Turner") {
		t.Errorf("Title = %q, want it to name the player", doc.Title)
	}

	text := doc.Text()
	if !strings.Contains(text, "stolen bases in 2018") {
		t.Errorf("Text() = %q, want the article paragraphs", text)
	}
}

func TestReadableBadURL(t *testing.T) {
	if _, err := Readable("://bad", []byte(article)); err == nil {
		t.Error("Readable() with a bad URL should fail")
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Trea Turner  ", "Trea Turner"},
		{"line one\n\n   line two\n", "line one line two"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeText(tt.in); got != tt.want {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocumentText(t *testing.T) {
	doc := &Document{
		Title: "Box Score",
		Blocks: []Block{
			{Type: "h2", Text: "Line Score"},
			{Type: "table", Table: &Table{Headers: []string{"Tm", "R"}, Rows: [][]string{{"CHC", "9"}, {"WSN", "8"}}}},
			{Type: "li", Text: "Attendance: 43,849"},
		},
	}
	want := "Box Score\n=========\n\n\nLine Score\n----------\nTm\tR\nCHC\t9\nWSN\t8\n- Attendance: 43,849\n"
	if got := doc.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
