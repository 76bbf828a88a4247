package bot

import (
	"fmt"
	"net/url"
	"strings"

	"curator/internal/domain"
)

// FirstURL returns the first http(s) URL in text.
func FirstURL(text string) (string, bool) {
	for _, field := range strings.Fields(text) {
		u, err := url.Parse(field)
		if err != nil || u.Host == "" {
			continue
		}
		if u.Scheme == "http" || u.Scheme == "https" {
			return field, true
		}
	}
	return "", false
}

// FormatResource renders one resource as a short chat message.
func FormatResource(r domain.Resource) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", r.Title)
	fmt.Fprintf(&sb, "📁 %s · %s · %s\n", r.Topic, r.Difficulty, r.ContentType)
	if r.Summary != "" {
		fmt.Fprintf(&sb, "%s\n", r.Summary)
	}
	if len(r.Tags) > 0 {
		fmt.Fprintf(&sb, "#%s\n", strings.Join(r.Tags, " #"))
	}
	fmt.Fprintf(&sb, "id: %s", r.ID)
	return sb.String()
}

// FormatLibrary renders topic groups, one section per topic.
func FormatLibrary(groups []domain.TopicGroup) string {
	if len(groups) == 0 {
		return "No resources yet. Send me a link to add some!"
	}
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "📁 %s (%d)\n", g.Topic, g.Count)
		for _, r := range g.Resources {
			kind := string(r.ContentType)
			if kind == "" {
				kind = "Resource"
			}
			fmt.Fprintf(&sb, "• [%s] %s - %s\n  %s\n", kind, r.Title, r.Difficulty, r.URL)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
