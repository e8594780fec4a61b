package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/dig"
)

type Config struct {
	BasePath        string
	DatabasePath    string
	ProxyDSN        string
	TelegramAPIKey  string
	TelegramChatIDs string
	StatsOnly       bool
}

// Args carries the command line inputs into the container.
type Args struct {
	BasePath  string
	StatsOnly bool
}

func ProvideConfig(args *Args) (*Config, error) {
	info, err := os.Stat(args.BasePath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: data folder not found: %s", ErrSetup, args.BasePath)
	}

	dbName := os.Getenv(ENV_DATABASE_NAME)
	if dbName == "" {
		dbName = DATABASE_FILE
	}

	return &Config{
		BasePath:        args.BasePath,
		DatabasePath:    filepath.Join(args.BasePath, dbName),
		ProxyDSN:        os.Getenv(ENV_PROXY_DSN),
		TelegramAPIKey:  os.Getenv(ENV_TELEGRAM_API_KEY),
		TelegramChatIDs: os.Getenv(ENV_TELEGRAM_ADMIN_CHAT_ID),
		StatsOnly:       args.StatsOnly,
	}, nil
}

func ProvideDatabaseService(config *Config) (*DatabaseService, error) {
	return NewDatabaseService(config.DatabasePath)
}

func ProvideAssetFetcher(config *Config) (*AssetFetcher, error) {
	return NewAssetFetcher(filepath.Join(config.BasePath, AVATAR_DIR), config.ProxyDSN)
}

func ProvideProcessor(config *Config, dbService *DatabaseService, fetcher *AssetFetcher) *Processor {
	return NewProcessor(config.BasePath, dbService, fetcher)
}

func ProvideSummaryNotifier(config *Config) (*SummaryNotifier, error) {
	return NewSummaryNotifier(config.TelegramAPIKey, config.TelegramChatIDs)
}

func BuildContainer(args *Args) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() *Args { return args }); err != nil {
		return nil, fmt.Errorf("failed to provide args: %w", err)
	}

	if err := container.Provide(ProvideConfig); err != nil {
		return nil, fmt.Errorf("failed to provide config: %w", err)
	}

	if err := container.Provide(ProvideDatabaseService); err != nil {
		return nil, fmt.Errorf("failed to provide database service: %w", err)
	}

	if err := container.Provide(ProvideAssetFetcher); err != nil {
		return nil, fmt.Errorf("failed to provide asset fetcher: %w", err)
	}

	if err := container.Provide(ProvideProcessor); err != nil {
		return nil, fmt.Errorf("failed to provide processor: %w", err)
	}

	if err := container.Provide(ProvideSummaryNotifier); err != nil {
		return nil, fmt.Errorf("failed to provide summary notifier: %w", err)
	}

	if err := container.Provide(NewApplication); err != nil {
		return nil, fmt.Errorf("failed to provide application: %w", err)
	}

	return container, nil
}
