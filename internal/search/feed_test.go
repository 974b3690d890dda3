// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/avisbase/internal/catalogue"
)

type recordingPublisher struct {
	published []catalogue.Title
	err       error
}

func (publisher *recordingPublisher) Publish(_ context.Context, title catalogue.Title) error {
	publisher.published = append(publisher.published, title)
	return publisher.err
}

func TestDecodeTitle(t *testing.T) {
	title, err := decodeTitle(`{"id":"42","name":"Aftenposten","language":"nob"}`)
	require.NoError(t, err)
	assert.Equal(t, "42", title.ID)
	assert.Equal(t, "Aftenposten", title.Name)

	_, err = decodeTitle(`{"name":"Aftenposten"}`)
	assert.Error(t, err, "message without id")

	_, err = decodeTitle(`not json`)
	assert.Error(t, err)
}

func TestBroadcaster_AddTitle(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	title := catalogue.Title{ID: "42", Name: "Aftenposten"}

	t.Run("indexes and announces", func(t *testing.T) {
		index := NewIndex(Options{}, nil, logger)
		publisher := &recordingPublisher{}

		require.NoError(t, NewBroadcaster(index, publisher, logger).AddTitle(ctx, title))
		assert.Equal(t, []catalogue.Title{title}, publisher.published)
		assert.Equal(t, 1, index.Len())
	})

	t.Run("announce failure is not fatal", func(t *testing.T) {
		index := NewIndex(Options{}, nil, logger)
		publisher := &recordingPublisher{err: errors.New("redis down")}

		require.NoError(t, NewBroadcaster(index, publisher, logger).AddTitle(ctx, title))
		assert.Equal(t, 1, index.Len())
	})
}

func TestFold(t *testing.T) {
	assert.Equal(t, fold("AFTENPOSTEN"), fold("aftenposten"))
	assert.Equal(t, fold("Åndalsnes"), fold("Åndalsnes"))
	assert.Equal(t, "bergens-tidende (1868)", fold("Bergens-Tidende (1868)"))
	assert.Equal(t, []string{"aft", "fte", "ten"}, trigrams("aften"))
	assert.Nil(t, trigrams("av"))
}
