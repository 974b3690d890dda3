// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/platform/constants"
)

// Feed shares newly created titles between replicas over Redis pub/sub.
//
// Every replica keeps its own index. A title created on one replica is published;
// the others stage it and make it visible on their next refresh.
type Feed struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewFeed(client *redis.Client, logger *slog.Logger) *Feed {
	return &Feed{client: client, channel: constants.RedisChannelTitleCreated, logger: logger}
}

// Publish announces a created title.
func (feed *Feed) Publish(ctx context.Context, title catalogue.Title) error {
	payload, err := json.Marshal(title)
	if err != nil {
		return fmt.Errorf("search: encode title %s: %w", title.ID, err)
	}
	if err := feed.client.Publish(ctx, feed.channel, payload).Err(); err != nil {
		return fmt.Errorf("search: publish title %s: %w", title.ID, err)
	}
	return nil
}

// Subscribe calls handle for every announced title until ctx is done.
func (feed *Feed) Subscribe(ctx context.Context, handle func(catalogue.Title)) error {
	subscription := feed.client.Subscribe(ctx, feed.channel)
	defer subscription.Close()

	if _, err := subscription.Receive(ctx); err != nil {
		return fmt.Errorf("search: subscribe to %s: %w", feed.channel, err)
	}
	feed.logger.Info("title_feed_subscribed", slog.String("channel", feed.channel))

	messages := subscription.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}
			title, err := decodeTitle(message.Payload)
			if err != nil {
				feed.logger.Warn("title_feed_message_dropped", slog.Any("error", err))
				continue
			}
			handle(title)
		}
	}
}

func decodeTitle(payload string) (catalogue.Title, error) {
	var title catalogue.Title
	if err := json.Unmarshal([]byte(payload), &title); err != nil {
		return catalogue.Title{}, fmt.Errorf("search: decode feed message: %w", err)
	}
	if title.ID == "" {
		return catalogue.Title{}, fmt.Errorf("search: feed message without title id")
	}
	return title, nil
}

// # Broadcaster

// Publisher announces created titles to other replicas.
type Publisher interface {
	Publish(ctx context.Context, title catalogue.Title) error
}

// Broadcaster indexes a title locally and then announces it. It satisfies
// [catalogue.TitleIndexer].
type Broadcaster struct {
	index     catalogue.TitleIndexer
	publisher Publisher
	logger    *slog.Logger
}

func NewBroadcaster(index catalogue.TitleIndexer, publisher Publisher, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{index: index, publisher: publisher, logger: logger}
}

// AddTitle indexes title locally. A failed announcement is logged only; other
// replicas pick the title up on their next rebuild.
func (broadcaster *Broadcaster) AddTitle(ctx context.Context, title catalogue.Title) error {
	if err := broadcaster.index.AddTitle(ctx, title); err != nil {
		return err
	}
	if err := broadcaster.publisher.Publish(ctx, title); err != nil {
		broadcaster.logger.Warn("title_feed_publish_failed", slog.String("title_id", title.ID), slog.Any("error", err))
	}
	return nil
}
