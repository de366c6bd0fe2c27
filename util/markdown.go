package util

import (
	"html/template"
	"strings"

	"gitlab.com/golang-commonmark/markdown"
	"golang.org/x/net/html"
)

// raw HTML is not passed through, because the input comes from the database
var commonMarkParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// Markdown renders CommonMark to HTML.
func Markdown(src string) template.HTML {
	return template.HTML(commonMarkParser.RenderToString([]byte(src)))
}

// Excerpt renders CommonMark and returns the first maxRunes runes of the resulting text, without tags.
func Excerpt(src string, maxRunes int) string {

	var tokenizer = html.NewTokenizerFragment(strings.NewReader(commonMarkParser.RenderToString([]byte(src))), "body")
	var text = &strings.Builder{}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken: // io.EOF
			return Trunc(strings.Join(strings.Fields(text.String()), " "), maxRunes)
		case html.TextToken:
			text.Write(tokenizer.Text())
		case html.StartTagToken, html.EndTagToken:
			text.WriteString(" ")
		}
	}
}
