package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicCategories_BatchesAtAPILimit(t *testing.T) {
	var batchSizes []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/channels", r.URL.Path)
		require.Equal(t, "snippet,topicDetails", r.URL.Query().Get("part"))

		ids := strings.Split(r.URL.Query().Get("id"), ",")
		batchSizes = append(batchSizes, len(ids))

		var items []string
		for _, id := range ids {
			items = append(items, fmt.Sprintf(`{"id":%q,"topicDetails":{"topicCategories":["https://en.wikipedia.org/wiki/Music"]}}`, id))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"items":[%s]}`, strings.Join(items, ","))
	}))
	defer server.Close()

	ids := make([]string, 120)
	for i := range ids {
		ids[i] = fmt.Sprintf("UC%03d", i)
	}

	client, err := New(WithBaseURL(server.URL), WithToken("test-token"))
	require.NoError(t, err)

	topics, err := client.Channels().TopicCategories(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 50, 20}, batchSizes)
	require.Len(t, topics, 120)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Music"}, topics["UC000"])
}

func TestTopicCategories_FailedBatchReturnsPartialResult(t *testing.T) {
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		w.Header().Set("Content-Type", "application/json")
		if call == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"UC050","topicDetails":{"topicCategories":["https://en.wikipedia.org/wiki/Comedy"]}}]}`))
	}))
	defer server.Close()

	ids := make([]string, 51)
	for i := range ids {
		ids[i] = fmt.Sprintf("UC%03d", i)
	}

	client, err := New(WithBaseURL(server.URL), WithToken("test-token"))
	require.NoError(t, err)

	topics, err := client.Channels().TopicCategories(context.Background(), ids)
	require.Error(t, err)

	// The second batch still succeeded.
	require.Len(t, topics, 1)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Comedy"}, topics["UC050"])
}

func TestTopicCategories_ChannelWithoutTopics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"UC001"},{"id":"UC002","topicDetails":{"topicCategories":[]}}]}`))
	}))
	defer server.Close()

	client, err := New(WithBaseURL(server.URL), WithToken("test-token"))
	require.NoError(t, err)

	topics, err := client.Channels().TopicCategories(context.Background(), []string{"UC001", "UC002"})
	require.NoError(t, err)
	assert.Empty(t, topics["UC001"])
	assert.Empty(t, topics["UC002"])
}

func TestTopicCategories_NoIDs(t *testing.T) {
	client, err := New(WithToken("test-token"))
	require.NoError(t, err)

	topics, err := client.Channels().TopicCategories(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, topics)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		size int
		want [][]string
	}{
		{name: "empty", ids: nil, size: 2, want: nil},
		{name: "single partial batch", ids: []string{"a"}, size: 2, want: [][]string{{"a"}}},
		{name: "exact batches", ids: []string{"a", "b", "c", "d"}, size: 2, want: [][]string{{"a", "b"}, {"c", "d"}}},
		{name: "trailing partial batch", ids: []string{"a", "b", "c"}, size: 2, want: [][]string{{"a", "b"}, {"c"}}},
		{name: "invalid size", ids: []string{"a"}, size: 0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunk(tt.ids, tt.size))
		})
	}
}
