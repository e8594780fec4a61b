package main

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ViewerDB is the read-only query layer over a finished store. It never
// mutates; all writes belong to the processor.
type ViewerDB struct {
	db *gorm.DB
}

// TweetRow is one tweet joined with its author's display fields.
type TweetRow struct {
	TweetID        int64  `json:"tweet_id"`
	RetweetID      int64  `json:"retweet_id"`
	QuoteID        int64  `json:"quote_id"`
	ReplyID        int64  `json:"reply_id"`
	ConversationID int64  `json:"conversation_id"`
	Date           string `json:"date"`
	Lang           string `json:"lang"`
	Source         string `json:"source"`
	Sensitive      bool   `json:"sensitive"`
	SensitiveFlags string `json:"sensitive_flags"`
	FavoriteCount  int    `json:"favorite_count"`
	QuoteCount     int    `json:"quote_count"`
	ReplyCount     int    `json:"reply_count"`
	RetweetCount   int    `json:"retweet_count"`
	BookmarkCount  int    `json:"bookmark_count"`
	ViewCount      int64  `json:"view_count"`
	Content        string `json:"content"`
	QuoteBy        string `json:"quote_by"`
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	MediaFiles     string `json:"media_files"`
	AuthorID       int64  `json:"author_id"`
	UserID         int64  `json:"user_id"`
	Hashtags       string `json:"hashtags"`
	AuthorNick     string `json:"author_nick"`
	AuthorName     string `json:"author_name"`
	AuthorAvatar   string `json:"author_avatar"`
	AuthorBanner   string `json:"author_banner"`
}

type UserRow struct {
	UserID          int64  `json:"user_id"`
	Name            string `json:"name"`
	Nick            string `json:"nick"`
	Location        string `json:"location"`
	Date            string `json:"date"`
	Verified        bool   `json:"verified"`
	Protected       bool   `json:"protected"`
	ProfileBanner   string `json:"profile_banner"`
	ProfileImage    string `json:"profile_image"`
	FavouritesCount int    `json:"favourites_count"`
	FollowersCount  int    `json:"followers_count"`
	FriendsCount    int    `json:"friends_count"`
	ListedCount     int    `json:"listed_count"`
	MediaCount      int    `json:"media_count"`
	StatusesCount   int    `json:"statuses_count"`
	Description     string `json:"description"`
	URL             string `json:"url"`
}

const tweetSelect = `
	SELECT t.tweet_id, t.retweet_id, t.quote_id, t.reply_id, t.conversation_id,
	       t.date, t.lang, t.source, t.sensitive, t.sensitive_flags,
	       t.favorite_count, t.quote_count, t.reply_count, t.retweet_count,
	       t.bookmark_count, t.view_count, t.content, t.quote_by,
	       t.category, t.subcategory, t.media_files, t.author_id, t.user_id, t.hashtags,
	       u.nick AS author_nick, u.name AS author_name,
	       u.profile_image AS author_avatar, u.profile_banner AS author_banner
	FROM tweets t
	LEFT JOIN users u ON t.author_id = u.user_id`

func NewViewerDB(dbPath string) (*ViewerDB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &ViewerDB{db: db}, nil
}

// GetTweets returns one page of tweets, newest first, optionally filtered
// to one author.
func (v *ViewerDB) GetTweets(page, perPage int, userID int64) ([]TweetRow, error) {
	offset := (page - 1) * perPage
	var tweets []TweetRow

	query := tweetSelect
	args := []interface{}{}
	if userID != 0 {
		query += " WHERE t.author_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY t.date DESC LIMIT ? OFFSET ?"
	args = append(args, perPage, offset)

	err := v.db.Raw(query, args...).Scan(&tweets).Error
	return tweets, err
}

func (v *ViewerDB) GetTweet(tweetID int64) (*TweetRow, error) {
	var tweet TweetRow
	err := v.db.Raw(tweetSelect+" WHERE t.tweet_id = ?", tweetID).Scan(&tweet).Error
	if err != nil {
		return nil, err
	}
	if tweet.TweetID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &tweet, nil
}

// SearchTweets matches content and author nick/name, newest first.
func (v *ViewerDB) SearchTweets(query string, page, perPage int) ([]TweetRow, error) {
	offset := (page - 1) * perPage
	pattern := "%" + query + "%"
	var tweets []TweetRow

	err := v.db.Raw(tweetSelect+`
		WHERE t.content LIKE ? OR u.nick LIKE ? OR u.name LIKE ?
		ORDER BY t.date DESC LIMIT ? OFFSET ?`,
		pattern, pattern, pattern, perPage, offset).Scan(&tweets).Error
	return tweets, err
}

func (v *ViewerDB) GetUser(userID int64) (*UserRow, error) {
	var user UserRow
	err := v.db.Raw("SELECT * FROM users WHERE user_id = ?", userID).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.UserID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

// CountTweets returns the total tweet count, optionally per author.
func (v *ViewerDB) CountTweets(userID int64) (int64, error) {
	var count int64
	query := v.db.Table("tweets")
	if userID != 0 {
		query = query.Where("author_id = ?", userID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (v *ViewerDB) GetStats() (map[string]int64, error) {
	stats := make(map[string]int64)

	var count int64
	if err := v.db.Table("tweets").Count(&count).Error; err != nil {
		return nil, err
	}
	stats["total_tweets"] = count

	if err := v.db.Table("users").Count(&count).Error; err != nil {
		return nil, err
	}
	stats["total_users"] = count

	if err := v.db.Table("media_files").Count(&count).Error; err != nil {
		return nil, err
	}
	stats["total_media"] = count

	if err := v.db.Table("tweets").
		Where("media_files IS NOT NULL AND media_files != '' AND media_files != '[]'").
		Count(&count).Error; err != nil {
		return nil, err
	}
	stats["tweets_with_media"] = count

	return stats, nil
}

func (v *ViewerDB) Close() error {
	sqlDB, err := v.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
