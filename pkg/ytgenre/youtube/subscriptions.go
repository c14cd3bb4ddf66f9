package youtube

import (
	"context"
	"fmt"
)

const pageSize = "50"

type SubscriptionService struct {
	client *Client
}

func (c *Client) Subscriptions() *SubscriptionService {
	return &SubscriptionService{client: c}
}

// ListAll fetches every subscription of the authenticated user, following
// nextPageToken until the API stops returning one. The page cap guards
// against a malformed response that keeps handing back the same token.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]Subscription, error) {
	var subs []Subscription
	pageToken := ""
	for page := 0; ; page++ {
		if page >= s.client.maxPages {
			return nil, fmt.Errorf("subscription pagination exceeded %d pages", s.client.maxPages)
		}
		params := map[string]string{
			"part":       "snippet",
			"mine":       "true",
			"maxResults": pageSize,
			"order":      "alphabetical",
		}
		if pageToken != "" {
			params["pageToken"] = pageToken
		}
		var resp subscriptionListResponse
		if err := s.client.get(ctx, "subscriptions", params, &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			channelID := item.Snippet.ResourceID.ChannelID
			if channelID == "" {
				continue
			}
			subs = append(subs, Subscription{
				ChannelID:   channelID,
				Title:       item.Snippet.Title,
				Description: item.Snippet.Description,
				ChannelURL:  ChannelURL(channelID),
			})
		}
		s.client.log.Debugw("fetched subscription page", "page", page+1, "items", len(resp.Items), "total", len(subs))
		if resp.NextPageToken == "" {
			return subs, nil
		}
		pageToken = resp.NextPageToken
	}
}
