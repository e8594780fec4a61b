package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const placeholderAvatar = "https://via.placeholder.com/48x48/cccccc/666666?text=?"

type Handler struct {
	db       *ViewerDB
	dataRoot string
}

func NewHandler(db *ViewerDB, dataRoot string) *Handler {
	return &Handler{db: db, dataRoot: dataRoot}
}

// localAssetPath maps a remote profile URL to the downloaded copy under
// avatar/, when one exists on disk.
func (h *Handler) localAssetPath(kind string, userID int64, remoteURL string) string {
	if remoteURL == "" || userID == 0 {
		return ""
	}
	parsed, err := url.Parse(remoteURL)
	if err != nil {
		return ""
	}
	fileName := fmt.Sprintf("%s_%d%s", kind, userID, path.Ext(parsed.Path))
	if _, err := os.Stat(filepath.Join(h.dataRoot, "avatar", fileName)); err != nil {
		return ""
	}
	return "/avatar/" + fileName
}

// renderTweet rewrites remote asset URLs to local paths and decodes the
// JSON list columns for the client.
func (h *Handler) renderTweet(tweet *TweetRow) gin.H {
	avatar := h.localAssetPath("avatar", tweet.AuthorID, tweet.AuthorAvatar)
	if avatar == "" {
		avatar = placeholderAvatar
	}
	banner := h.localAssetPath("banner", tweet.AuthorID, tweet.AuthorBanner)

	mediaFiles := []string{}
	json.Unmarshal([]byte(tweet.MediaFiles), &mediaFiles)
	mediaPaths := make([]string, 0, len(mediaFiles))
	for _, fileName := range mediaFiles {
		clean := strings.TrimPrefix(fileName, "/")
		if !strings.HasPrefix(clean, "img/") {
			clean = "img/" + clean
		}
		mediaPaths = append(mediaPaths, clean)
	}

	hashtags := []string{}
	json.Unmarshal([]byte(tweet.Hashtags), &hashtags)

	return gin.H{
		"tweet_id":        tweet.TweetID,
		"retweet_id":      tweet.RetweetID,
		"quote_id":        tweet.QuoteID,
		"reply_id":        tweet.ReplyID,
		"conversation_id": tweet.ConversationID,
		"date":            tweet.Date,
		"lang":            tweet.Lang,
		"source":          tweet.Source,
		"sensitive":       tweet.Sensitive,
		"favorite_count":  tweet.FavoriteCount,
		"quote_count":     tweet.QuoteCount,
		"reply_count":     tweet.ReplyCount,
		"retweet_count":   tweet.RetweetCount,
		"bookmark_count":  tweet.BookmarkCount,
		"view_count":      tweet.ViewCount,
		"content":         tweet.Content,
		"quote_by":        tweet.QuoteBy,
		"category":        tweet.Category,
		"subcategory":     tweet.Subcategory,
		"author_id":       tweet.AuthorID,
		"user_id":         tweet.UserID,
		"author_nick":     tweet.AuthorNick,
		"author_name":     tweet.AuthorName,
		"author_avatar":   avatar,
		"author_banner":   banner,
		"media_files":     mediaPaths,
		"hashtags":        hashtags,
	}
}

func (h *Handler) ListTweets(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	userID, _ := strconv.ParseInt(c.DefaultQuery("user_id", "0"), 10, 64)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	tweets, err := h.db.GetTweets(page, perPage, userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	total, err := h.db.CountTweets(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	rendered := make([]gin.H, 0, len(tweets))
	for i := range tweets {
		rendered = append(rendered, h.renderTweet(&tweets[i]))
	}

	c.JSON(200, gin.H{
		"tweets": rendered,
		"pagination": gin.H{
			"current_page": page,
			"per_page":     perPage,
			"total_count":  total,
			"total_pages":  (total + int64(perPage) - 1) / int64(perPage),
		},
	})
}

func (h *Handler) GetTweet(c *gin.Context) {
	tweetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid tweet id"})
		return
	}

	tweet, err := h.db.GetTweet(tweetID)
	if err == gorm.ErrRecordNotFound {
		c.JSON(404, gin.H{"error": "tweet not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, h.renderTweet(tweet))
}

func (h *Handler) SearchTweets(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(400, gin.H{"error": "missing query"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	tweets, err := h.db.SearchTweets(query, page, perPage)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	rendered := make([]gin.H, 0, len(tweets))
	for i := range tweets {
		rendered = append(rendered, h.renderTweet(&tweets[i]))
	}

	c.JSON(200, gin.H{"query": query, "page": page, "tweets": rendered})
}

func (h *Handler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.db.GetUser(userID)
	if err == gorm.ErrRecordNotFound {
		c.JSON(404, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	avatar := h.localAssetPath("avatar", user.UserID, user.ProfileImage)
	if avatar == "" {
		avatar = placeholderAvatar
	}

	c.JSON(200, gin.H{
		"user":   user,
		"avatar": avatar,
		"banner": h.localAssetPath("banner", user.UserID, user.ProfileBanner),
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.db.GetStats()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, stats)
}
