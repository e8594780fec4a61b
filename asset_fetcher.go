package main

import (
	"bufio"
	"crypto/md5"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const downloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// AssetFetcher downloads avatar/banner assets into the avatar directory.
// A line-oriented ledger of URL hashes short-circuits repeated downloads
// across runs; it is loaded fully at construction and appended after every
// successful download, so a crash mid-batch loses nothing already fetched.
type AssetFetcher struct {
	avatarDir  string
	ledgerPath string
	downloaded map[string]bool
	httpClient *http.Client
}

func NewAssetFetcher(avatarDir string, proxyDSN string) (*AssetFetcher, error) {
	if err := os.MkdirAll(avatarDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}

	transport := &http.Transport{}
	if proxyDSN != "" {
		proxyURL, err := url.Parse(proxyDSN)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy DSN: %w", err)
		}
		transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: false,
			},
		}
	}

	fetcher := &AssetFetcher{
		avatarDir:  avatarDir,
		ledgerPath: filepath.Join(avatarDir, DOWNLOADED_IMAGES_FILE),
		downloaded: make(map[string]bool),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}

	if err := fetcher.loadLedger(); err != nil {
		return nil, err
	}

	return fetcher, nil
}

func (f *AssetFetcher) loadLedger() error {
	file, err := os.Open(f.ledgerPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open download ledger: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			f.downloaded[line] = true
		}
	}
	return scanner.Err()
}

// appendLedger persists one hash immediately so already-downloaded state
// survives a crash mid-batch.
func (f *AssetFetcher) appendLedger(hash string) error {
	file, err := os.OpenFile(f.ledgerPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open download ledger: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s\n", hash); err != nil {
		return fmt.Errorf("failed to append download ledger: %w", err)
	}
	return file.Sync()
}

// LocalFileName derives the deterministic file name for a (kind, user id)
// pair, keeping the extension of the remote URL.
func (f *AssetFetcher) LocalFileName(kind string, userID int64, rawURL string) string {
	ext := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		ext = path.Ext(parsed.Path)
	}
	return fmt.Sprintf("%s_%d%s", kind, userID, ext)
}

// Fetch ensures a local copy of the asset exists. It returns the local path
// and whether a network download actually happened; a hash already present
// in the ledger skips the network entirely.
func (f *AssetFetcher) Fetch(rawURL string, kind string, userID int64) (string, bool, error) {
	hash := hashURL(rawURL)
	fileName := f.LocalFileName(kind, userID, rawURL)
	localPath := filepath.Join(f.avatarDir, fileName)

	if f.downloaded[hash] {
		return localPath, false, nil
	}

	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}
	req.Header.Set("User-Agent", downloadUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", false, fmt.Errorf("%w: %s: status %d", ErrFetchFailed, rawURL, resp.StatusCode)
	}
	if contentType := resp.Header.Get("Content-Type"); contentType != "" &&
		!strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "application/octet-stream") {
		return "", false, fmt.Errorf("%w: %s: unexpected content type %s", ErrFetchFailed, rawURL, contentType)
	}

	// Download into a temp file and rename, so the final path never holds a
	// half-written asset.
	tmpPath := filepath.Join(f.avatarDir, ".tmp-"+uuid.NewString())
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}
	if err := os.Rename(tmpPath, localPath); err != nil {
		os.Remove(tmpPath)
		return "", false, fmt.Errorf("%w: %s: %v", ErrFetchFailed, rawURL, err)
	}

	// The ledger entry is written only after a fully successful download, a
	// failed attempt stays retryable on the next run.
	f.downloaded[hash] = true
	if err := f.appendLedger(hash); err != nil {
		log.Printf("Warning: failed to persist download ledger entry: %v", err)
	}

	return localPath, true, nil
}

// FetchProfileImages downloads a user's banner and avatar when set. Fetch
// errors are logged and counted, never fatal.
func (f *AssetFetcher) FetchProfileImages(user *UserRecord) (downloaded int, skipped int) {
	if user.ProfileBanner != "" {
		if _, wasDownloaded, err := f.Fetch(user.ProfileBanner, ASSET_KIND_BANNER, user.ID); err != nil {
			log.Printf("Failed to download banner for user %d: %v", user.ID, err)
		} else if wasDownloaded {
			downloaded++
		} else {
			skipped++
		}
	}

	if user.ProfileImage != "" {
		if _, wasDownloaded, err := f.Fetch(user.ProfileImage, ASSET_KIND_AVATAR, user.ID); err != nil {
			log.Printf("Failed to download avatar for user %d: %v", user.ID, err)
		} else if wasDownloaded {
			downloaded++
		} else {
			skipped++
		}
	}

	return downloaded, skipped
}

func hashURL(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
