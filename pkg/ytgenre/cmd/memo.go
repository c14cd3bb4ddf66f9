package cmd

import (
	"context"
	"fmt"

	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/auth"
	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/classify"
	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/report"
	"github.com/MotiMotiMa/youtubeChanelGE/pkg/ytgenre/youtube"
)

// runMemo is the end-to-end pipeline behind the root command: authenticate,
// list subscriptions, classify them by topic category, and write the memo.
func runMemo(ctx context.Context, rt *runtimeState) error {
	log := newLogger(rt.verbose)
	defer func() {
		_ = log.Sync()
	}()

	store, err := auth.NewStore(rt.TokenStorage(), rt.TokenFile())
	if err != nil {
		return err
	}
	stored, ok, err := store.Load()
	if err != nil {
		return err
	}
	token := stored
	if !ok || !stored.Valid() {
		// The client secret is only needed once a refresh or an
		// interactive grant has to run.
		oauthCfg, err := auth.LoadClientSecret(rt.ClientSecretPath())
		if err != nil {
			return err
		}
		manager := &auth.Manager{Store: store, Flow: rt.flow(), Log: log}
		token, err = manager.Obtain(ctx, oauthCfg)
		if err != nil {
			return err
		}
	}

	timeout, err := rt.Timeout()
	if err != nil {
		return err
	}
	opts := []youtube.Option{
		youtube.WithToken(token.AccessToken),
		youtube.WithTimeout(timeout),
		youtube.WithLogger(log),
	}
	if pages := rt.MaxPages(); pages > 0 {
		opts = append(opts, youtube.WithMaxPages(pages))
	}
	if rt.apiBaseURL != "" {
		opts = append(opts, youtube.WithBaseURL(rt.apiBaseURL))
	}
	client, err := youtube.New(opts...)
	if err != nil {
		return err
	}

	subs, err := client.Subscriptions().ListAll(ctx)
	if err != nil {
		return err
	}
	log.Debugw("fetched subscriptions", "count", len(subs))

	topics, err := client.Channels().TopicCategories(ctx, channelIDs(subs))
	if err != nil {
		// Channels whose metadata could not be fetched fall back to
		// Uncategorized; the memo is still worth writing.
		log.Warnw("some channel metadata could not be fetched", "error", err)
	}

	classified := classify.Channels(subs, topics)
	memo := report.Render(report.Build(classified))
	if err := report.Write(rt.OutputPath(), memo); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(rt.Writer(), "Wrote %d subscriptions to %s\n", len(subs), rt.OutputPath())
	return nil
}

func channelIDs(subs []youtube.Subscription) []string {
	ids := make([]string, 0, len(subs))
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.ChannelID]; ok {
			continue
		}
		seen[sub.ChannelID] = struct{}{}
		ids = append(ids, sub.ChannelID)
	}
	return ids
}
