package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   string
		wantOK bool
	}{
		{name: "simple", page: "<html><head><title>Hello</title></head></html>", want: "Hello", wantOK: true},
		{name: "upper case tag", page: "<HTML><HEAD><TITLE>Shout</TITLE></HEAD></HTML>", want: "Shout", wantOK: true},
		{name: "first title wins", page: "<title>One</title><svg><title>Two</title></svg>", want: "One", wantOK: true},
		{name: "whitespace collapsed", page: "<title>\n  Multi\n  line  </title>", want: "Multi line", wantOK: true},
		{name: "entities decoded", page: "<title>Tom &amp; Jerry</title>", want: "Tom & Jerry", wantOK: true},
		{name: "attributes allowed", page: `<title data-x="1">Attr</title>`, want: "Attr", wantOK: true},
		{name: "no title", page: "<html><body>nothing</body></html>", wantOK: false},
		{name: "empty title", page: "<title></title>", wantOK: false},
		{name: "blank title", page: "<title>   </title>", wantOK: false},
		{name: "empty page", page: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTitle(tt.page)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
