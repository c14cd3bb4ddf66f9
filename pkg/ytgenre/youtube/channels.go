package youtube

import (
	"context"
	"errors"
	"strings"
)

// topicBatchSize is the API ceiling on ids per channels.list call.
const topicBatchSize = 50

type ChannelService struct {
	client *Client
}

func (c *Client) Channels() *ChannelService {
	return &ChannelService{client: c}
}

// TopicCategories looks up the ordered topic-category URLs for each channel
// ID, batching requests at the API limit. A failed batch does not stop the
// remaining batches; the joined error is returned alongside the partial map
// so the caller can decide whether the run continues.
func (s *ChannelService) TopicCategories(ctx context.Context, channelIDs []string) (map[string][]string, error) {
	topics := make(map[string][]string, len(channelIDs))
	var errs []error
	for _, batch := range chunk(channelIDs, topicBatchSize) {
		params := map[string]string{
			"part":       "snippet,topicDetails",
			"id":         strings.Join(batch, ","),
			"maxResults": pageSize,
		}
		var resp channelListResponse
		if err := s.client.get(ctx, "channels", params, &resp); err != nil {
			s.client.log.Warnw("channel metadata lookup failed", "channels", len(batch), "error", err)
			errs = append(errs, err)
			continue
		}
		for _, item := range resp.Items {
			if item.ID == "" {
				continue
			}
			topics[item.ID] = item.TopicDetails.TopicCategories
		}
	}
	return topics, errors.Join(errs...)
}

func chunk(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
