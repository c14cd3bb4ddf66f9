package classify

import (
	"net/url"
	"strings"

	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/youtube"
)

// Uncategorized is the genre assigned to channels without topic metadata.
const Uncategorized = "Uncategorized"

// Classified is a subscription with its resolved genre label.
type Classified struct {
	youtube.Subscription
	Genre string
}

// Genre resolves the genre for an ordered topic-category list. The first
// category wins; an empty list maps to Uncategorized.
func Genre(topicURLs []string) string {
	if len(topicURLs) == 0 {
		return Uncategorized
	}
	return Label(topicURLs[0])
}

// Label converts a topic-category URL (typically a Wikipedia link such as
// https://en.wikipedia.org/wiki/Hip_hop_music) into a readable genre label.
func Label(topicURL string) string {
	parsed, err := url.Parse(topicURL)
	if err != nil {
		return Uncategorized
	}
	label := parsed.Path
	if i := strings.LastIndex(label, "/"); i >= 0 {
		label = label[i+1:]
	}
	label = strings.ReplaceAll(label, "_", " ")
	if unescaped, err := url.PathUnescape(label); err == nil {
		label = unescaped
	}
	if strings.TrimSpace(label) == "" {
		return Uncategorized
	}
	return label
}

// Channels assigns a genre to every subscription, preserving input order.
// A channel missing from the topic map (empty metadata or a failed lookup)
// is classified as Uncategorized instead of aborting the run.
func Channels(subs []youtube.Subscription, topics map[string][]string) []Classified {
	classified := make([]Classified, 0, len(subs))
	for _, sub := range subs {
		classified = append(classified, Classified{
			Subscription: sub,
			Genre:        Genre(topics[sub.ChannelID]),
		})
	}
	return classified
}
