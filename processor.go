package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// filePause keeps the batch under the remote service's implicit rate
// tolerance; a fixed pause, deliberately not adaptive.
const filePause = 100 * time.Millisecond

// Processor drives one ingestion batch: enumerate metadata files once, then
// parse, associate media, fetch profile assets and write, file by file. No
// single file's failure aborts the batch.
type Processor struct {
	basePath  string
	dbService *DatabaseService
	fetcher   *AssetFetcher
	pause     time.Duration
}

type ProcessingSummary struct {
	FilesProcessed   int
	FilesSucceeded   int
	FilesFailed      int
	AssetsDownloaded int
	AssetsSkipped    int
	StartedAt        time.Time
	FinishedAt       time.Time
}

func (s *ProcessingSummary) String() string {
	return fmt.Sprintf("Processing Summary:\n  Files processed: %d\n  Files succeeded: %d\n  Files failed: %d\n  Assets downloaded: %d\n  Assets skipped: %d\n  Duration: %s",
		s.FilesProcessed, s.FilesSucceeded, s.FilesFailed, s.AssetsDownloaded, s.AssetsSkipped, s.FinishedAt.Sub(s.StartedAt).Round(time.Second))
}

func NewProcessor(basePath string, dbService *DatabaseService, fetcher *AssetFetcher) *Processor {
	return &Processor{
		basePath:  basePath,
		dbService: dbService,
		fetcher:   fetcher,
		pause:     filePause,
	}
}

// ProcessAll runs the full batch and returns its summary. Only setup
// problems (missing twitter-meta directory, unreadable img directory) fail
// the call; per-file errors are logged and counted.
func (p *Processor) ProcessAll() (*ProcessingSummary, error) {
	metaDir := filepath.Join(p.basePath, TWITTER_META_DIR)
	info, err := os.Stat(metaDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: metadata directory not found: %s", ErrSetup, metaDir)
	}

	files, err := filepath.Glob(filepath.Join(metaDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list metadata files: %v", ErrSetup, err)
	}
	sort.Strings(files)
	log.Printf("Found %d metadata files", len(files))

	// The img listing is computed once for the whole batch.
	associator, err := NewMediaAssociator(filepath.Join(p.basePath, IMG_DIR))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSetup, err)
	}

	summary := &ProcessingSummary{StartedAt: time.Now()}
	seenUsers := make(map[int64]bool)
	lastProgress := time.Now()

	for i, filePath := range files {
		if err := p.processFile(filePath, associator, seenUsers, summary); err != nil {
			log.Printf("Failed to process %s: %v", filepath.Base(filePath), err)
			summary.FilesFailed++
		} else {
			summary.FilesSucceeded++
		}
		summary.FilesProcessed++

		if time.Since(lastProgress) >= time.Minute {
			log.Printf("Progress: %d/%d (%.1f%%)", i+1, len(files), float64(i+1)/float64(len(files))*100)
			lastProgress = time.Now()
		}

		time.Sleep(p.pause)
	}

	summary.FinishedAt = time.Now()

	run := &ProcessingRunModel{
		StartedAt:        summary.StartedAt,
		FinishedAt:       summary.FinishedAt,
		FilesProcessed:   summary.FilesProcessed,
		FilesSucceeded:   summary.FilesSucceeded,
		FilesFailed:      summary.FilesFailed,
		AssetsDownloaded: summary.AssetsDownloaded,
		AssetsSkipped:    summary.AssetsSkipped,
	}
	if err := p.dbService.SaveProcessingRun(run); err != nil {
		log.Printf("Warning: failed to record processing run: %v", err)
	}

	return summary, nil
}

// processFile runs the parse → associate → fetch → write sequence for one
// metadata file.
func (p *Processor) processFile(filePath string, associator *MediaAssociator, seenUsers map[int64]bool, summary *ProcessingSummary) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	record, err := ParseTweetRecord(data)
	if err != nil {
		return err
	}

	// Profile assets are fetched once per user per run.
	for _, user := range profileUsers(record) {
		if seenUsers[user.ID] {
			continue
		}
		seenUsers[user.ID] = true
		downloaded, skipped := p.fetcher.FetchProfileImages(user)
		summary.AssetsDownloaded += downloaded
		summary.AssetsSkipped += skipped
	}

	mediaFiles := associator.MediaFilesFor(record.TweetID)

	tweet, err := buildTweetModel(record, mediaFiles)
	if err != nil {
		return err
	}

	users := make([]*UserModel, 0, 2)
	for _, user := range profileUsers(record) {
		users = append(users, buildUserModel(user))
	}

	mediaRows := make([]*MediaFileModel, 0, len(mediaFiles))
	for _, fileName := range mediaFiles {
		mediaRows = append(mediaRows, &MediaFileModel{
			TweetID:  record.TweetID,
			FileName: fileName,
			FileType: ClassifyFileType(fileName),
			FilePath: associator.FilePathFor(fileName),
		})
	}

	return p.dbService.SaveTweetBundle(tweet, users, mediaRows)
}

// profileUsers returns the distinct author/user records of one tweet.
func profileUsers(record *TweetRecord) []*UserRecord {
	users := make([]*UserRecord, 0, 2)
	if record.Author != nil {
		users = append(users, record.Author)
	}
	if record.User != nil && (record.Author == nil || record.User.ID != record.Author.ID) {
		users = append(users, record.User)
	}
	return users
}

func buildTweetModel(record *TweetRecord, mediaFiles []string) (*TweetModel, error) {
	hashtags, err := json.Marshal(record.Hashtags)
	if err != nil {
		return nil, fmt.Errorf("%w: hashtags: %v", ErrMalformedRecord, err)
	}
	sensitiveFlags, err := json.Marshal(record.SensitiveFlags)
	if err != nil {
		return nil, fmt.Errorf("%w: sensitive flags: %v", ErrMalformedRecord, err)
	}
	media, err := json.Marshal(mediaFiles)
	if err != nil {
		return nil, fmt.Errorf("%w: media files: %v", ErrMalformedRecord, err)
	}

	return &TweetModel{
		TweetID:        record.TweetID,
		RetweetID:      record.RetweetID,
		QuoteID:        record.QuoteID,
		ReplyID:        record.ReplyID,
		ConversationID: record.ConversationID,
		SourceID:       record.SourceID,
		Date:           record.Date,
		Lang:           record.Lang,
		Source:         record.Source,
		Sensitive:      record.Sensitive,
		SensitiveFlags: string(sensitiveFlags),
		FavoriteCount:  record.FavoriteCount,
		QuoteCount:     record.QuoteCount,
		ReplyCount:     record.ReplyCount,
		RetweetCount:   record.RetweetCount,
		BookmarkCount:  record.BookmarkCount,
		ViewCount:      record.ViewCount,
		Content:        record.Content,
		QuoteBy:        record.QuoteBy,
		Count:          record.Count,
		Category:       record.Category,
		Subcategory:    record.Subcategory,
		MediaFiles:     string(media),
		AuthorID:       record.AuthorID,
		UserID:         record.UserID,
		Hashtags:       string(hashtags),
	}, nil
}

func buildUserModel(user *UserRecord) *UserModel {
	return &UserModel{
		UserID:          user.ID,
		Name:            user.Name,
		Nick:            user.Nick,
		Location:        user.Location,
		Date:            user.Date,
		Verified:        user.Verified,
		Protected:       user.Protected,
		ProfileBanner:   user.ProfileBanner,
		ProfileImage:    user.ProfileImage,
		FavouritesCount: user.FavouritesCount,
		FollowersCount:  user.FollowersCount,
		FriendsCount:    user.FriendsCount,
		ListedCount:     user.ListedCount,
		MediaCount:      user.MediaCount,
		StatusesCount:   user.StatusesCount,
		Description:     user.Description,
		URL:             user.URL,
	}
}
