package resolver

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractTitle returns the text of the first <title> element in page.
// Tag matching is case-insensitive and entities are decoded. The boolean is
// false when no non-empty title exists.
func ExtractTitle(page string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(page))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			// The tokenizer treats <title> content as raw text, so the
			// next token holds the whole title.
			if z.Next() != html.TextToken {
				return "", false
			}
			title := strings.Join(strings.Fields(string(z.Text())), " ")
			return title, title != ""
		}
	}
}
