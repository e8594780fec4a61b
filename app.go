package main

import (
	"fmt"
	"log"
)

type Application struct {
	config    *Config
	dbService *DatabaseService
	processor *Processor
	notifier  *SummaryNotifier
}

func NewApplication(
	config *Config,
	dbService *DatabaseService,
	processor *Processor,
	notifier *SummaryNotifier,
) (*Application, error) {
	return &Application{
		config:    config,
		dbService: dbService,
		processor: processor,
		notifier:  notifier,
	}, nil
}

// Run executes either the stats report or a full ingestion batch.
func (app *Application) Run() error {
	if app.config.StatsOnly {
		return app.printStatistics()
	}

	summary, err := app.processor.ProcessAll()
	if err != nil {
		return err
	}

	log.Println(summary.String())
	app.notifier.NotifySummary(summary)

	return nil
}

func (app *Application) printStatistics() error {
	stats, err := app.dbService.GetStatistics()
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}

	fmt.Println("=== Store Statistics ===")
	fmt.Printf("Tweets: %d\n", stats.Tweets)
	fmt.Printf("Original tweets: %d\n", stats.OriginalTweets)
	fmt.Printf("Retweets: %d\n", stats.Retweets)
	fmt.Printf("Users: %d\n", stats.Users)
	fmt.Printf("Media files: %d\n", stats.MediaFiles)
	fmt.Printf("Tweets with media: %d\n", stats.TweetsWithMedia)
	for fileType, count := range stats.MediaByType {
		fmt.Printf("  %s: %d\n", fileType, count)
	}
	if len(stats.TopFollowed) > 0 {
		fmt.Println("Most followed users:")
		for _, user := range stats.TopFollowed {
			fmt.Printf("  %s (@%s): %d followers\n", user.Name, user.Nick, user.FollowersCount)
		}
	}
	if len(stats.TopLiked) > 0 {
		fmt.Println("Most liked tweets:")
		for _, tweet := range stats.TopLiked {
			fmt.Printf("  %d: %d likes\n", tweet.TweetID, tweet.FavoriteCount)
		}
	}

	return nil
}

func (app *Application) Shutdown() {
	if err := app.dbService.Close(); err != nil {
		log.Printf("Warning: failed to close database: %v", err)
	}
}
