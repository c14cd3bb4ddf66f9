package youtube

// Subscription is one channel the authenticated user follows.
type Subscription struct {
	ChannelID   string
	Title       string
	Description string
	ChannelURL  string
}

// ChannelURL returns the public URL for a channel ID.
func ChannelURL(channelID string) string {
	return "https://www.youtube.com/channel/" + channelID
}

type subscriptionListResponse struct {
	NextPageToken string             `json:"nextPageToken"`
	Items         []subscriptionItem `json:"items"`
}

type subscriptionItem struct {
	Snippet struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ResourceID  struct {
			ChannelID string `json:"channelId"`
		} `json:"resourceId"`
	} `json:"snippet"`
}

type channelListResponse struct {
	Items []channelItem `json:"items"`
}

type channelItem struct {
	ID           string `json:"id"`
	TopicDetails struct {
		TopicCategories []string `json:"topicCategories"`
	} `json:"topicDetails"`
}
