package main

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// UserRecord is the in-memory form of an author/user object embedded in a
// metadata file.
type UserRecord struct {
	ID              int64
	Name            string
	Nick            string
	Location        string
	Date            string
	Verified        bool
	Protected       bool
	ProfileBanner   string
	ProfileImage    string
	FavouritesCount int
	FollowersCount  int
	FriendsCount    int
	ListedCount     int
	MediaCount      int
	StatusesCount   int
	Description     string
	URL             string
}

// TweetRecord is the in-memory form of one decoded metadata file.
// RetweetID/QuoteID/ReplyID stay independent, a tweet can be a reply and a
// quote at the same time; 0 means the relation is absent.
type TweetRecord struct {
	TweetID        int64
	RetweetID      int64
	QuoteID        int64
	ReplyID        int64
	ConversationID int64
	SourceID       int64
	Date           string
	Lang           string
	Source         string
	Sensitive      bool
	SensitiveFlags []string
	FavoriteCount  int
	QuoteCount     int
	ReplyCount     int
	RetweetCount   int
	BookmarkCount  int
	ViewCount      int64
	Content        string
	QuoteBy        string
	Count          int
	Category       string
	Subcategory    string
	AuthorID       int64
	UserID         int64
	Hashtags       []string
	Author         *UserRecord
	User           *UserRecord
}

// ParseTweetRecord decodes one raw metadata payload. Only a payload that is
// not JSON, has no numeric tweet_id, or carries an author/user object
// without an id fails with ErrMalformedRecord; every other field falls back
// to a type-appropriate default.
func ParseTweetRecord(data []byte) (*TweetRecord, error) {
	tweetID, err := jsonparser.GetInt(data, "tweet_id")
	if err != nil {
		return nil, fmt.Errorf("%w: tweet_id: %v", ErrMalformedRecord, err)
	}

	record := &TweetRecord{
		TweetID:        tweetID,
		RetweetID:      getInt(data, "retweet_id"),
		QuoteID:        getInt(data, "quote_id"),
		ReplyID:        getInt(data, "reply_id"),
		ConversationID: getInt(data, "conversation_id"),
		SourceID:       getInt(data, "source_id"),
		Date:           getString(data, "date"),
		Lang:           getString(data, "lang"),
		Source:         getString(data, "source"),
		Sensitive:      getBool(data, "sensitive"),
		SensitiveFlags: getStringArray(data, "sensitive_flags"),
		FavoriteCount:  int(getInt(data, "favorite_count")),
		QuoteCount:     int(getInt(data, "quote_count")),
		ReplyCount:     int(getInt(data, "reply_count")),
		RetweetCount:   int(getInt(data, "retweet_count")),
		BookmarkCount:  int(getInt(data, "bookmark_count")),
		ViewCount:      getInt(data, "view_count"),
		Content:        getString(data, "content"),
		QuoteBy:        getString(data, "quote_by"),
		Count:          int(getInt(data, "count")),
		Category:       getString(data, "category"),
		Subcategory:    getString(data, "subcategory"),
		Hashtags:       getStringArray(data, "hashtags"),
	}

	// Some snapshots carry bare author_id/user_id fields without the
	// embedded objects; keep them as soft references.
	record.AuthorID = getInt(data, "author_id")
	record.UserID = getInt(data, "user_id")

	if authorData, dataType, _, err := jsonparser.Get(data, "author"); err == nil && dataType == jsonparser.Object {
		author, err := parseUserRecord(authorData)
		if err != nil {
			return nil, err
		}
		record.Author = author
		record.AuthorID = author.ID
	}

	if userData, dataType, _, err := jsonparser.Get(data, "user"); err == nil && dataType == jsonparser.Object {
		user, err := parseUserRecord(userData)
		if err != nil {
			return nil, err
		}
		record.User = user
		record.UserID = user.ID
	}

	return record, nil
}

func parseUserRecord(data []byte) (*UserRecord, error) {
	id, err := jsonparser.GetInt(data, "id")
	if err != nil {
		return nil, fmt.Errorf("%w: user id: %v", ErrMalformedRecord, err)
	}

	return &UserRecord{
		ID:              id,
		Name:            getString(data, "name"),
		Nick:            getString(data, "nick"),
		Location:        getString(data, "location"),
		Date:            getString(data, "date"),
		Verified:        getBool(data, "verified"),
		Protected:       getBool(data, "protected"),
		ProfileBanner:   getString(data, "profile_banner"),
		ProfileImage:    getString(data, "profile_image"),
		FavouritesCount: int(getInt(data, "favourites_count")),
		FollowersCount:  int(getInt(data, "followers_count")),
		FriendsCount:    int(getInt(data, "friends_count")),
		ListedCount:     int(getInt(data, "listed_count")),
		MediaCount:      int(getInt(data, "media_count")),
		StatusesCount:   int(getInt(data, "statuses_count")),
		Description:     getString(data, "description"),
		URL:             getString(data, "url"),
	}, nil
}

func getString(data []byte, key string) string {
	value, err := jsonparser.GetString(data, key)
	if err != nil {
		return ""
	}
	return value
}

func getInt(data []byte, key string) int64 {
	value, err := jsonparser.GetInt(data, key)
	if err != nil {
		return 0
	}
	return value
}

func getBool(data []byte, key string) bool {
	value, err := jsonparser.GetBoolean(data, key)
	if err != nil {
		return false
	}
	return value
}

func getStringArray(data []byte, key string) []string {
	values := []string{}
	jsonparser.ArrayEach(data, func(item []byte, dataType jsonparser.ValueType, offset int, err error) {
		if dataType == jsonparser.String {
			if s, err := jsonparser.ParseString(item); err == nil {
				values = append(values, s)
			}
		}
	}, key)
	return values
}
