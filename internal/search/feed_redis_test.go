// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/catalogue"
	"github.com/taibuivan/avisbase/internal/platform/constants"
	"github.com/taibuivan/avisbase/internal/search"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), Protocol: 2, DisableIdentity: true})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

/*
TestFeed_ReplicaPicksUpPublishedTitle carries a title from one replica's feed into
another replica's index, skipping malformed messages on the way.
*/
func TestFeed_ReplicaPicksUpPublishedTitle(t *testing.T) {
	server, client := newRedisClient(t)
	feed := search.NewFeed(client, discardLogger())
	replica := readyIndex(t, newspapers())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Subscribe(ctx, replica.Stage) }()

	require.Eventually(t, func() bool {
		return server.PubSubNumSub(constants.RedisChannelTitleCreated)[constants.RedisChannelTitleCreated] == 1
	}, time.Second, 5*time.Millisecond)

	server.Publish(constants.RedisChannelTitleCreated, "not json")
	server.Publish(constants.RedisChannelTitleCreated, `{"name":"Without id"}`)
	require.NoError(t, feed.Publish(ctx, catalogue.Title{ID: "9", Name: "Dagbladet"}))

	require.Eventually(t, func() bool {
		replica.Refresh()
		got, err := replica.Search(ctx, "dagblad")
		return err == nil && len(got) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 4, replica.Len())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop")
	}
}

/*
TestFeed_StagedTitleWaitsForRefresh keeps a received title out of searches until refresh.
*/
func TestFeed_StagedTitleWaitsForRefresh(t *testing.T) {
	server, client := newRedisClient(t)
	feed := search.NewFeed(client, discardLogger())
	replica := readyIndex(t, newspapers())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	received := make(chan catalogue.Title, 1)
	go func() {
		_ = feed.Subscribe(ctx, func(title catalogue.Title) {
			replica.Stage(title)
			received <- title
		})
	}()
	require.Eventually(t, func() bool {
		return server.PubSubNumSub(constants.RedisChannelTitleCreated)[constants.RedisChannelTitleCreated] == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, feed.Publish(ctx, catalogue.Title{ID: "8", Name: "Nordlys"}))

	select {
	case title := <-received:
		assert.Equal(t, "8", title.ID)
	case <-time.After(time.Second):
		t.Fatal("title not received")
	}

	got, err := replica.Search(ctx, "nordlys")
	require.NoError(t, err)
	assert.Empty(t, got)

	replica.Refresh()
	got, err = replica.Search(ctx, "nordlys")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

/*
TestBroadcaster_PublishesOverRedis indexes locally and announces on the shared channel.
*/
func TestBroadcaster_PublishesOverRedis(t *testing.T) {
	server, client := newRedisClient(t)
	index := search.NewIndex(search.Options{}, nil, discardLogger())
	broadcaster := search.NewBroadcaster(index, search.NewFeed(client, discardLogger()), discardLogger())

	subscriber := client.Subscribe(context.Background(), constants.RedisChannelTitleCreated)
	t.Cleanup(func() { _ = subscriber.Close() })
	_, err := subscriber.Receive(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, server.PubSubNumSub(constants.RedisChannelTitleCreated)[constants.RedisChannelTitleCreated])

	require.NoError(t, broadcaster.AddTitle(context.Background(), catalogue.Title{ID: "5", Name: "Nordlandsposten"}))
	assert.Equal(t, 1, index.Len())

	select {
	case message := <-subscriber.Channel():
		assert.JSONEq(t, `{"id":"5","name":"Nordlandsposten"}`, message.Payload)
	case <-time.After(time.Second):
		t.Fatal("broadcast not received")
	}
}
