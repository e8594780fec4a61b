package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultProviderURL = "https://api.openai.com/v1/chat/completions"
const defaultProviderModel = "gpt-3.5-turbo"

// supportedLanguages mirrors the language set the translation provider is
// prompted with.
var supportedLanguages = map[string]string{
	"zh": "中文",
	"en": "English",
	"ja": "日本語",
	"ko": "한국어",
	"es": "Español",
	"fr": "Français",
	"de": "Deutsch",
	"ru": "Русский",
	"ar": "العربية",
	"hi": "हिन्दी",
	"pt": "Português",
	"it": "Italiano",
}

// TranslationHandler forwards translation requests to an OpenAI-compatible
// provider with caller-supplied credentials. No state, no caching.
type TranslationHandler struct {
	client *http.Client
}

func NewTranslationHandler() *TranslationHandler {
	return &TranslationHandler{
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type translateRequest struct {
	Content    string `json:"content" binding:"required"`
	TargetLang string `json:"target_lang"`
	SourceLang string `json:"source_lang"`
	APIKey     string `json:"api_key" binding:"required"`
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
}

type detectRequest struct {
	Content string `json:"content" binding:"required"`
	APIKey  string `json:"api_key" binding:"required"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (t *TranslationHandler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	targetLang := req.TargetLang
	if targetLang == "" {
		targetLang = "zh"
	}
	targetName, ok := supportedLanguages[targetLang]
	if !ok {
		c.JSON(400, gin.H{"error": "unsupported target language: " + targetLang})
		return
	}

	content := cleanTweetContent(req.Content)
	if content == "" {
		c.JSON(400, gin.H{"error": "empty content"})
		return
	}

	systemPrompt := fmt.Sprintf("You are a tweet translator. Translate the tweet into %s, keeping the original tone, emoji, hashtags and links. Return only the translation.", targetName)

	translated, err := t.complete(req.APIKey, req.BaseURL, req.Model, systemPrompt, content)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"success":     true,
		"original":    req.Content,
		"translated":  translated,
		"target_lang": targetLang,
	})
}

func (t *TranslationHandler) DetectLanguage(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	content := cleanTweetContent(req.Content)
	if content == "" {
		c.JSON(400, gin.H{"error": "empty content"})
		return
	}

	systemPrompt := "Detect the language of the following text. Answer with only the ISO 639-1 two-letter code."

	code, err := t.complete(req.APIKey, req.BaseURL, req.Model, systemPrompt, content)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"success": true, "language": strings.ToLower(strings.TrimSpace(code))})
}

func (t *TranslationHandler) SupportedLanguages(c *gin.Context) {
	c.JSON(200, gin.H{"languages": supportedLanguages})
}

// complete forwards one chat completion to the provider and returns the
// first choice's content.
func (t *TranslationHandler) complete(apiKey, baseURL, model, systemPrompt, userContent string) (string, error) {
	if baseURL == "" {
		baseURL = defaultProviderURL
	}
	if model == "" {
		model = defaultProviderModel
	}

	payload, err := json.Marshal(chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("provider returned invalid response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("provider error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// cleanTweetContent strips HTML tags and collapses whitespace before the
// content goes to the provider.
func cleanTweetContent(content string) string {
	var b strings.Builder
	inTag := false
	for _, r := range content {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
