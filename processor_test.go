package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSnapshot(t *testing.T, metaFiles map[string]string, imgFiles ...string) string {
	base := t.TempDir()

	metaDir := filepath.Join(base, TWITTER_META_DIR)
	require.NoError(t, os.MkdirAll(metaDir, 0755))
	for name, content := range metaFiles {
		require.NoError(t, os.WriteFile(filepath.Join(metaDir, name), []byte(content), 0644))
	}

	if len(imgFiles) > 0 {
		imgDir := filepath.Join(base, IMG_DIR)
		require.NoError(t, os.MkdirAll(imgDir, 0755))
		for _, name := range imgFiles {
			require.NoError(t, os.WriteFile(filepath.Join(imgDir, name), []byte("media"), 0644))
		}
	}

	return base
}

func newTestProcessor(t *testing.T, base string) (*Processor, *DatabaseService) {
	db, err := NewDatabaseService(filepath.Join(base, DATABASE_FILE))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fetcher, err := NewAssetFetcher(filepath.Join(base, AVATAR_DIR), "")
	require.NoError(t, err)

	processor := NewProcessor(base, db, fetcher)
	processor.pause = 0
	return processor, db
}

func TestProcessor_Scenario(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"1001.json": `{"tweet_id":1001,"content":"hello","author_id":77}`,
	})
	processor, db := newTestProcessor(t, base)

	summary, err := processor.ProcessAll()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesSucceeded)
	assert.Equal(t, 0, summary.FilesFailed)

	tweet, err := db.GetTweet(1001)
	require.NoError(t, err)
	assert.Equal(t, "hello", tweet.Content)
	assert.Equal(t, int64(77), tweet.AuthorID)
	assert.Equal(t, `[]`, tweet.MediaFiles)

	// Bare author_id without author metadata creates no user row.
	userCount, err := db.GetUserCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), userCount)

	mediaCount, err := db.GetMediaFileCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), mediaCount)
}

func TestProcessor_AuthorMetadataCreatesUser(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"1002.json": `{"tweet_id":1002,"content":"with author","author":{"id":77,"name":"Artist","followers_count":12}}`,
	})
	processor, db := newTestProcessor(t, base)

	_, err := processor.ProcessAll()
	require.NoError(t, err)

	user, err := db.GetUser(77)
	require.NoError(t, err)
	assert.Equal(t, "Artist", user.Name)
	assert.Equal(t, 12, user.FollowersCount)

	tweet, err := db.GetTweet(1002)
	require.NoError(t, err)
	assert.Equal(t, int64(77), tweet.AuthorID)
}

func TestProcessor_MediaAssociation(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"123.json":  `{"tweet_id":123,"content":"has media"}`,
		"1234.json": `{"tweet_id":1234,"content":"other media"}`,
	}, "123_1.jpg", "123_2.mp4", "1234_1.jpg")
	processor, db := newTestProcessor(t, base)

	_, err := processor.ProcessAll()
	require.NoError(t, err)

	tweet, err := db.GetTweet(123)
	require.NoError(t, err)
	assert.Equal(t, `["123_1.jpg","123_2.mp4"]`, tweet.MediaFiles)

	rows, err := db.GetMediaFiles(123)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, FILE_TYPE_IMAGE, rows[0].FileType)
	assert.Equal(t, "img/123_1.jpg", rows[0].FilePath)
	assert.Equal(t, FILE_TYPE_VIDEO, rows[1].FileType)

	rows, err = db.GetMediaFiles(1234)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1234_1.jpg", rows[0].FileName)
}

func TestProcessor_Idempotence(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"1.json": `{"tweet_id":1,"content":"one","author":{"id":10,"name":"A"}}`,
		"2.json": `{"tweet_id":2,"content":"two","author":{"id":11,"name":"B"}}`,
	}, "1_1.jpg")
	processor, db := newTestProcessor(t, base)

	_, err := processor.ProcessAll()
	require.NoError(t, err)
	_, err = processor.ProcessAll()
	require.NoError(t, err)

	tweetCount, err := db.GetTweetCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), tweetCount)

	userCount, err := db.GetUserCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), userCount)

	mediaCount, err := db.GetMediaFileCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), mediaCount)

	tweet, err := db.GetTweet(1)
	require.NoError(t, err)
	assert.Equal(t, "one", tweet.Content)
	assert.Equal(t, `["1_1.jpg"]`, tweet.MediaFiles)
}

func TestProcessor_PartialFailureIsolation(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"good1.json":  `{"tweet_id":201,"content":"fine"}`,
		"broken.json": `not json at all`,
		"good2.json":  `{"tweet_id":202,"content":"also fine"}`,
	})
	processor, db := newTestProcessor(t, base)

	summary, err := processor.ProcessAll()
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesProcessed)
	assert.Equal(t, 2, summary.FilesSucceeded)
	assert.Equal(t, 1, summary.FilesFailed)

	tweetCount, err := db.GetTweetCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), tweetCount)
	assert.True(t, db.TweetExists(201))
	assert.True(t, db.TweetExists(202))
}

func TestProcessor_MissingMetaDirIsSetupError(t *testing.T) {
	base := t.TempDir()
	processor, _ := newTestProcessor(t, base)

	_, err := processor.ProcessAll()
	assert.ErrorIs(t, err, ErrSetup)
}

func TestProcessor_ProfileAssetsFetchedOncePerUser(t *testing.T) {
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg"))
	}))
	t.Cleanup(server.Close)

	author := fmt.Sprintf(`{"id":77,"name":"A","profile_image":"%s/images/77/a.jpg","profile_banner":"%s/banners/77/b.jpg"}`, server.URL, server.URL)
	base := setupSnapshot(t, map[string]string{
		"1.json": fmt.Sprintf(`{"tweet_id":1,"author":%s}`, author),
		"2.json": fmt.Sprintf(`{"tweet_id":2,"author":%s}`, author),
	})
	processor, _ := newTestProcessor(t, base)

	summary, err := processor.ProcessAll()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.AssetsDownloaded)
	assert.Equal(t, 0, summary.AssetsSkipped)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))

	// A second run hits the ledger, not the network.
	summary, err = processor.ProcessAll()
	require.NoError(t, err)
	assert.Equal(t, 0, summary.AssetsDownloaded)
	assert.Equal(t, 2, summary.AssetsSkipped)
	assert.Equal(t, int64(2), atomic.LoadInt64(&requests))
}

func TestProcessor_RecordsRunHistory(t *testing.T) {
	base := setupSnapshot(t, map[string]string{
		"1.json": `{"tweet_id":1,"content":"x"}`,
	})
	processor, db := newTestProcessor(t, base)

	_, err := processor.ProcessAll()
	require.NoError(t, err)
	_, err = processor.ProcessAll()
	require.NoError(t, err)

	var runs []ProcessingRunModel
	require.NoError(t, db.db.Find(&runs).Error)
	require.Len(t, runs, 2)
	assert.Equal(t, 1, runs[0].FilesProcessed)
	assert.Equal(t, 1, runs[0].FilesSucceeded)
}
