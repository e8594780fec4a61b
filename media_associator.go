package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MediaAssociator maps tweet ids to local media files named
// {tweet_id}_{index}.{ext}. The img directory is listed once per batch and
// indexed by the exact id segment, so tweet 123 never picks up 1234_1.jpg.
type MediaAssociator struct {
	imgDir  string
	byTweet map[int64][]string
}

func NewMediaAssociator(imgDir string) (*MediaAssociator, error) {
	associator := &MediaAssociator{
		imgDir:  imgDir,
		byTweet: make(map[int64][]string),
	}

	entries, err := os.ReadDir(imgDir)
	if os.IsNotExist(err) {
		// No img directory means no media, not an error.
		return associator, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list media directory %s: %w", imgDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		tweetID, ok := tweetIDFromFileName(entry.Name())
		if !ok {
			continue
		}
		associator.byTweet[tweetID] = append(associator.byTweet[tweetID], entry.Name())
	}

	for _, files := range associator.byTweet {
		sort.Strings(files)
	}

	return associator, nil
}

// MediaFilesFor returns the sorted media file names belonging to a tweet,
// empty when it has none.
func (a *MediaAssociator) MediaFilesFor(tweetID int64) []string {
	files := a.byTweet[tweetID]
	result := make([]string, len(files))
	copy(result, files)
	return result
}

// FilePathFor returns the store-relative path recorded for a media file.
func (a *MediaAssociator) FilePathFor(fileName string) string {
	return IMG_DIR + "/" + fileName
}

// tweetIDFromFileName extracts the exact id segment before the first "_" or
// ".". Names without a separator or with a non-numeric id segment are not
// media files.
func tweetIDFromFileName(name string) (int64, bool) {
	i := strings.IndexAny(name, "_.")
	if i <= 0 {
		return 0, false
	}

	tweetID, err := strconv.ParseInt(name[:i], 10, 64)
	if err != nil {
		return 0, false
	}
	return tweetID, true
}

// ClassifyFileType buckets a media file by its extension.
func ClassifyFileType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return FILE_TYPE_IMAGE
	case ".mp4", ".mov", ".avi", ".webm", ".m4v", ".mkv":
		return FILE_TYPE_VIDEO
	default:
		return FILE_TYPE_OTHER
	}
}
