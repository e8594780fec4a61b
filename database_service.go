package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DatabaseService owns the physical schema and all mutating access to the
// store. The viewer and the --stats path only read through it.
type DatabaseService struct {
	db *gorm.DB
}

// additiveMigration is one step of the schema history. Steps are applied in
// order, are idempotent (guarded by a column check) and only ever add
// columns, so a store written by an older version keeps all of its data.
type additiveMigration struct {
	version int
	model   interface{}
	field   string
}

var additiveMigrations = []additiveMigration{
	{2, &TweetModel{}, "AuthorID"},
	{2, &TweetModel{}, "UserID"},
	{3, &TweetModel{}, "Hashtags"},
}

// NewDatabaseService opens (or creates) the store and brings its schema up
// to date. A migration error is fatal, the store would be in an unknown
// structural state.
func NewDatabaseService(dbPath string) (*DatabaseService, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent to reduce log noise
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database %s: %v", ErrSetup, dbPath, err)
	}

	service := &DatabaseService{db: db}

	if err := service.runMigrations(); err != nil {
		return nil, err
	}

	return service, nil
}

// runMigrations bootstraps missing tables and applies the ordered additive
// migration steps.
func (s *DatabaseService) runMigrations() error {
	m := s.db.Migrator()

	models := []interface{}{&TweetModel{}, &UserModel{}, &MediaFileModel{}, &ProcessingRunModel{}}
	for _, model := range models {
		if m.HasTable(model) {
			continue
		}
		if err := m.CreateTable(model); err != nil {
			return fmt.Errorf("%w: failed to create table: %v", ErrMigration, err)
		}
	}

	for _, step := range additiveMigrations {
		if m.HasColumn(step.model, step.field) {
			continue
		}
		if err := m.AddColumn(step.model, step.field); err != nil {
			return fmt.Errorf("%w: schema v%d, column %s: %v", ErrMigration, step.version, step.field, err)
		}
		log.Printf("Schema v%d: added column %s", step.version, step.field)
	}

	return nil
}

// SaveTweet upserts a tweet as a full-row replace keyed by tweet_id.
func (s *DatabaseService) SaveTweet(tweet *TweetModel) error {
	tweet.CreatedAt = time.Now()
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(tweet).Error
}

// SaveUser upserts a user as a full-row replace keyed by user_id.
func (s *DatabaseService) SaveUser(user *UserModel) error {
	user.CreatedAt = time.Now()
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(user).Error
}

// SaveTweetBundle writes everything belonging to one input file in a single
// transaction: user upserts, the tweet upsert and the media row sweep. A
// failure rolls back only this file's changes.
func (s *DatabaseService) SaveTweetBundle(tweet *TweetModel, users []*UserModel, mediaFiles []*MediaFileModel) error {
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, user := range users {
			user.CreatedAt = now
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(user).Error; err != nil {
				return err
			}
		}

		tweet.CreatedAt = now
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(tweet).Error; err != nil {
			return err
		}

		// Delete-then-insert keeps re-ingestion from accumulating duplicate
		// media rows.
		if err := tx.Where("tweet_id = ?", tweet.TweetID).Delete(&MediaFileModel{}).Error; err != nil {
			return err
		}
		for _, mediaFile := range mediaFiles {
			mediaFile.ID = 0
			mediaFile.CreatedAt = now
			if err := tx.Create(mediaFile).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: tweet %d: %v", ErrStoreWrite, tweet.TweetID, err)
	}
	return nil
}

// GetTweet retrieves a tweet by tweet id.
func (s *DatabaseService) GetTweet(tweetID int64) (*TweetModel, error) {
	var tweet TweetModel
	err := s.db.Where("tweet_id = ?", tweetID).First(&tweet).Error
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

// TweetExists checks if a tweet exists by tweet id.
func (s *DatabaseService) TweetExists(tweetID int64) bool {
	var count int64
	s.db.Model(&TweetModel{}).Where("tweet_id = ?", tweetID).Count(&count)
	return count > 0
}

// GetUser retrieves a user by user id.
func (s *DatabaseService) GetUser(userID int64) (*UserModel, error) {
	var user UserModel
	err := s.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists checks if a user exists by user id.
func (s *DatabaseService) UserExists(userID int64) bool {
	var count int64
	s.db.Model(&UserModel{}).Where("user_id = ?", userID).Count(&count)
	return count > 0
}

// GetMediaFiles retrieves the media rows for a tweet in file name order.
func (s *DatabaseService) GetMediaFiles(tweetID int64) ([]MediaFileModel, error) {
	var mediaFiles []MediaFileModel
	err := s.db.Where("tweet_id = ?", tweetID).Order("file_name ASC").Find(&mediaFiles).Error
	return mediaFiles, err
}

// GetTweetCount returns the total number of tweets in the store.
func (s *DatabaseService) GetTweetCount() (int64, error) {
	var count int64
	err := s.db.Model(&TweetModel{}).Count(&count).Error
	return count, err
}

// GetUserCount returns the total number of users in the store.
func (s *DatabaseService) GetUserCount() (int64, error) {
	var count int64
	err := s.db.Model(&UserModel{}).Count(&count).Error
	return count, err
}

// GetMediaFileCount returns the total number of media rows in the store.
func (s *DatabaseService) GetMediaFileCount() (int64, error) {
	var count int64
	err := s.db.Model(&MediaFileModel{}).Count(&count).Error
	return count, err
}

// GetStatistics aggregates the counts reported by --stats and the viewer's
// stats endpoint.
func (s *DatabaseService) GetStatistics() (*StoreStatistics, error) {
	stats := &StoreStatistics{
		MediaByType: make(map[string]int),
	}

	if err := s.db.Model(&TweetModel{}).Count(&stats.Tweets).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&UserModel{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&MediaFileModel{}).Count(&stats.MediaFiles).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&TweetModel{}).
		Where("media_files IS NOT NULL AND media_files != '' AND media_files != '[]'").
		Count(&stats.TweetsWithMedia).Error; err != nil {
		return nil, err
	}

	// A retweet in this dataset is a tweet whose author differs from the
	// viewing user.
	if err := s.db.Model(&TweetModel{}).
		Where("author_id != 0 AND user_id != 0 AND author_id != user_id").
		Count(&stats.Retweets).Error; err != nil {
		return nil, err
	}
	stats.OriginalTweets = stats.Tweets - stats.Retweets

	rows, err := s.db.Model(&MediaFileModel{}).
		Select("file_type, COUNT(*) as count").
		Group("file_type").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var fileType string
		var count int
		if err := rows.Scan(&fileType, &count); err != nil {
			return nil, err
		}
		stats.MediaByType[fileType] = count
	}

	if err := s.db.Order("followers_count DESC").Limit(5).Find(&stats.TopFollowed).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("favorite_count DESC").Limit(5).Find(&stats.TopLiked).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// SaveProcessingRun records one completed ingestion run.
func (s *DatabaseService) SaveProcessingRun(run *ProcessingRunModel) error {
	return s.db.Create(run).Error
}

// Close closes the database connection.
func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
