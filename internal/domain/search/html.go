package search

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML extracts the visible text of an html fragment for indexing.
// Invalid markup is tolerated, the tokenizer consumes whatever it can.
func StripHTML(s string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(s))

	var b strings.Builder
	skip := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip = true
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "script" || tag == "style" {
				skip = false
			}

		case html.TextToken:
			if !skip {
				b.Write(tokenizer.Text())
				b.WriteByte(' ')
			}
		}
	}
}
