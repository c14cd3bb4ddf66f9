package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/classify"
)

// Heading is the top-level title of the rendered memo.
const Heading = "# YouTube Subscriptions by Genre"

// Report maps a genre label to its channels in classification order.
type Report map[string][]classify.Classified

// Build groups classified channels by genre. Every channel lands in exactly
// one bucket and keeps its position relative to the other channels of the
// same genre.
func Build(channels []classify.Classified) Report {
	grouped := make(Report)
	for _, ch := range channels {
		grouped[ch.Genre] = append(grouped[ch.Genre], ch)
	}
	return grouped
}

// Genres returns the genre labels in alphabetical order.
func (r Report) Genres() []string {
	genres := make([]string, 0, len(r))
	for genre := range r {
		genres = append(genres, genre)
	}
	sort.Strings(genres)
	return genres
}

// Render serializes the report as Markdown. Output is deterministic: the
// same report always renders to byte-identical text.
func Render(r Report) string {
	var b strings.Builder
	b.WriteString(Heading + "\n")
	for _, genre := range r.Genres() {
		b.WriteString("\n## " + genre + "\n\n")
		for _, ch := range r[genre] {
			desc := flattenDescription(ch.Description)
			if desc != "" {
				fmt.Fprintf(&b, "- [%s](%s) — %s\n", ch.Title, ch.ChannelURL, desc)
			} else {
				fmt.Fprintf(&b, "- [%s](%s)\n", ch.Title, ch.ChannelURL)
			}
		}
	}
	return b.String()
}

// Write overwrites the file at path with the rendered memo.
func Write(path, markdown string) error {
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func flattenDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	desc = strings.ReplaceAll(desc, "\r\n", " ")
	return strings.ReplaceAll(desc, "\n", " ")
}
