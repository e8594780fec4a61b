package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTweetRecord_FullRecord(t *testing.T) {
	data := []byte(`{
		"tweet_id": 1886134234802414042,
		"retweet_id": 0,
		"quote_id": 1886000000000000001,
		"reply_id": 1886000000000000002,
		"conversation_id": 1886134234802414042,
		"date": "2025-02-02 21:51:32",
		"lang": "ja",
		"source": "Twitter for iPhone",
		"sensitive": true,
		"sensitive_flags": ["adult_content"],
		"favorite_count": 120,
		"quote_count": 3,
		"reply_count": 7,
		"retweet_count": 15,
		"bookmark_count": 9,
		"view_count": 54000,
		"content": "hello world",
		"quote_by": "someone",
		"count": 2,
		"category": "art",
		"subcategory": "illustration",
		"hashtags": ["art", "oc"],
		"author": {
			"id": 77,
			"name": "Artist",
			"nick": "artist_nick",
			"verified": true,
			"followers_count": 1200,
			"profile_image": "https://pbs.example.com/profile_images/77/me.jpg",
			"profile_banner": "https://pbs.example.com/profile_banners/77/bg.png"
		},
		"user": {
			"id": 88,
			"name": "Viewer"
		}
	}`)

	record, err := ParseTweetRecord(data)
	require.NoError(t, err)

	assert.Equal(t, int64(1886134234802414042), record.TweetID)
	assert.Equal(t, int64(1886000000000000001), record.QuoteID)
	assert.Equal(t, int64(1886000000000000002), record.ReplyID)
	assert.Equal(t, int64(0), record.RetweetID)
	assert.Equal(t, "ja", record.Lang)
	assert.True(t, record.Sensitive)
	assert.Equal(t, []string{"adult_content"}, record.SensitiveFlags)
	assert.Equal(t, 120, record.FavoriteCount)
	assert.Equal(t, int64(54000), record.ViewCount)
	assert.Equal(t, "hello world", record.Content)
	assert.Equal(t, []string{"art", "oc"}, record.Hashtags)

	require.NotNil(t, record.Author)
	assert.Equal(t, int64(77), record.Author.ID)
	assert.Equal(t, int64(77), record.AuthorID)
	assert.True(t, record.Author.Verified)
	assert.Equal(t, 1200, record.Author.FollowersCount)

	require.NotNil(t, record.User)
	assert.Equal(t, int64(88), record.UserID)
}

func TestParseTweetRecord_Defaults(t *testing.T) {
	record, err := ParseTweetRecord([]byte(`{"tweet_id": 1001, "content": "hello"}`))
	require.NoError(t, err)

	assert.Equal(t, int64(1001), record.TweetID)
	assert.Equal(t, "hello", record.Content)
	assert.Equal(t, int64(0), record.RetweetID)
	assert.Equal(t, int64(0), record.QuoteID)
	assert.Equal(t, int64(0), record.ReplyID)
	assert.Equal(t, "", record.Lang)
	assert.False(t, record.Sensitive)
	assert.Empty(t, record.SensitiveFlags)
	assert.Equal(t, 0, record.FavoriteCount)
	assert.Empty(t, record.Hashtags)
	assert.Nil(t, record.Author)
	assert.Nil(t, record.User)
	assert.Equal(t, int64(0), record.AuthorID)
}

func TestParseTweetRecord_Malformed(t *testing.T) {
	t.Run("NotJSON", func(t *testing.T) {
		_, err := ParseTweetRecord([]byte("this is not json"))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("MissingTweetID", func(t *testing.T) {
		_, err := ParseTweetRecord([]byte(`{"content": "no id here"}`))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("NonNumericTweetID", func(t *testing.T) {
		_, err := ParseTweetRecord([]byte(`{"tweet_id": "abc"}`))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("AuthorWithoutID", func(t *testing.T) {
		_, err := ParseTweetRecord([]byte(`{"tweet_id": 1, "author": {"name": "nobody"}}`))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := ParseTweetRecord([]byte(`{"tweet_i`))
		assert.ErrorIs(t, err, ErrMalformedRecord)
	})
}

func TestParseTweetRecord_ReplyAndQuoteStayIndependent(t *testing.T) {
	record, err := ParseTweetRecord([]byte(`{"tweet_id": 5, "reply_id": 6, "quote_id": 7}`))
	require.NoError(t, err)

	assert.Equal(t, int64(6), record.ReplyID)
	assert.Equal(t, int64(7), record.QuoteID)
	assert.Equal(t, int64(0), record.RetweetID)
}
