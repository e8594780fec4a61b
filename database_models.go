package main

import (
	"time"
)

// Tweet model for database storage. Column set mirrors the historical
// backup schema; retweet_id/quote_id/reply_id are independent (a tweet can
// be both a reply and a quote), 0 means absent.
type TweetModel struct {
	TweetID        int64     `gorm:"primaryKey;column:tweet_id" json:"tweet_id"`
	RetweetID      int64     `gorm:"column:retweet_id" json:"retweet_id"`
	QuoteID        int64     `gorm:"column:quote_id" json:"quote_id"`
	ReplyID        int64     `gorm:"column:reply_id" json:"reply_id"`
	ConversationID int64     `gorm:"column:conversation_id" json:"conversation_id"`
	SourceID       int64     `gorm:"column:source_id" json:"source_id"`
	Date           string    `gorm:"column:date" json:"date"`
	Lang           string    `gorm:"column:lang" json:"lang"`
	Source         string    `gorm:"column:source" json:"source"`
	Sensitive      bool      `gorm:"column:sensitive" json:"sensitive"`
	SensitiveFlags string    `gorm:"column:sensitive_flags" json:"sensitive_flags"` // JSON array of strings
	FavoriteCount  int       `gorm:"column:favorite_count" json:"favorite_count"`
	QuoteCount     int       `gorm:"column:quote_count" json:"quote_count"`
	ReplyCount     int       `gorm:"column:reply_count" json:"reply_count"`
	RetweetCount   int       `gorm:"column:retweet_count" json:"retweet_count"`
	BookmarkCount  int       `gorm:"column:bookmark_count" json:"bookmark_count"`
	ViewCount      int64     `gorm:"column:view_count" json:"view_count"`
	Content        string    `gorm:"column:content" json:"content"`
	QuoteBy        string    `gorm:"column:quote_by" json:"quote_by"`
	Count          int       `gorm:"column:count" json:"count"`
	Category       string    `gorm:"column:category" json:"category"`
	Subcategory    string    `gorm:"column:subcategory" json:"subcategory"`
	MediaFiles     string    `gorm:"column:media_files" json:"media_files"` // JSON array of file names
	AuthorID       int64     `gorm:"column:author_id;index" json:"author_id"`
	UserID         int64     `gorm:"column:user_id;index" json:"user_id"`
	Hashtags       string    `gorm:"column:hashtags" json:"hashtags"` // JSON array of strings
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TweetModel) TableName() string {
	return "tweets"
}

// User model for database storage. author_id/user_id on tweets are soft
// references to this table; dangling ids are tolerated.
type UserModel struct {
	UserID          int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name            string    `gorm:"column:name" json:"name"`
	Nick            string    `gorm:"column:nick" json:"nick"`
	Location        string    `gorm:"column:location" json:"location"`
	Date            string    `gorm:"column:date" json:"date"`
	Verified        bool      `gorm:"column:verified" json:"verified"`
	Protected       bool      `gorm:"column:protected" json:"protected"`
	ProfileBanner   string    `gorm:"column:profile_banner" json:"profile_banner"`
	ProfileImage    string    `gorm:"column:profile_image" json:"profile_image"`
	FavouritesCount int       `gorm:"column:favourites_count" json:"favourites_count"`
	FollowersCount  int       `gorm:"column:followers_count" json:"followers_count"`
	FriendsCount    int       `gorm:"column:friends_count" json:"friends_count"`
	ListedCount     int       `gorm:"column:listed_count" json:"listed_count"`
	MediaCount      int       `gorm:"column:media_count" json:"media_count"`
	StatusesCount   int       `gorm:"column:statuses_count" json:"statuses_count"`
	Description     string    `gorm:"column:description" json:"description"`
	URL             string    `gorm:"column:url" json:"url"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// MediaFile model, one row per physical file belonging to a tweet. Rows for
// a tweet are swept and re-inserted on every ingestion of that tweet.
type MediaFileModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	TweetID   int64     `gorm:"column:tweet_id;index" json:"tweet_id"`
	FileName  string    `gorm:"column:file_name" json:"file_name"`
	FileType  string    `gorm:"column:file_type" json:"file_type"` // "image", "video" or "other"
	FilePath  string    `gorm:"column:file_path" json:"file_path"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MediaFileModel) TableName() string {
	return "media_files"
}

// ProcessingRun model, one row per completed ingestion run.
type ProcessingRunModel struct {
	ID               uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	StartedAt        time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt       time.Time `gorm:"column:finished_at" json:"finished_at"`
	FilesProcessed   int       `gorm:"column:files_processed" json:"files_processed"`
	FilesSucceeded   int       `gorm:"column:files_succeeded" json:"files_succeeded"`
	FilesFailed      int       `gorm:"column:files_failed" json:"files_failed"`
	AssetsDownloaded int       `gorm:"column:assets_downloaded" json:"assets_downloaded"`
	AssetsSkipped    int       `gorm:"column:assets_skipped" json:"assets_skipped"`
}

func (ProcessingRunModel) TableName() string {
	return "processing_runs"
}

// Statistics aggregated from the store, used by --stats and the viewer.
type StoreStatistics struct {
	Tweets          int64          `json:"tweets"`
	OriginalTweets  int64          `json:"original_tweets"`
	Retweets        int64          `json:"retweets"`
	Users           int64          `json:"users"`
	MediaFiles      int64          `json:"media_files"`
	TweetsWithMedia int64          `json:"tweets_with_media"`
	MediaByType     map[string]int `json:"media_by_type"`
	TopFollowed     []UserModel    `json:"top_followed"`
	TopLiked        []TweetModel   `json:"top_liked"`
}
