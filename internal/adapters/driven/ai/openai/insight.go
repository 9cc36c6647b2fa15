// Package openai provides a text insight adapter using the OpenAI API.
// A single service covers embeddings (text-embedding-3-small), image
// description and document extraction (gpt-4o-mini vision) and audio
// transcription (whisper-1), so the reconciler talks to one provider.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nublado-labs/nublado-cli/internal/core/ports/driven"
	"github.com/nublado-labs/nublado-cli/internal/logger"
)

// Ensure InsightService implements the interface.
var _ driven.TextInsight = (*InsightService)(nil)

// Default configuration values.
const (
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultEmbedModel      = "text-embedding-3-small"
	DefaultChatModel       = "gpt-4o-mini"
	DefaultTranscribeModel = "whisper-1"
	DefaultTimeout         = 120 * time.Second
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// summarizeInputCap limits how much document text is sent with the summary
// prompt. Only the opening of a document is needed for two sentences.
const summarizeInputCap = 4000

// visionPrompt drives both image description and scanned-document OCR.
const visionPrompt = "Describe this image in detail. If it contains text, transcribe it. Classify it (invoice, trip, chat, etc)."

// documentPrompt asks the model to return the text of an attached document.
const documentPrompt = "Extract the full text content of this document. Return only the text, no commentary."

// summarizeSystemPrompt frames summaries for display in search results.
const summarizeSystemPrompt = "You are an expert archivist. Summarize the following text in at most 2 short sentences describing what the document is about."

// Config holds configuration for the OpenAI insight service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// EmbedModel is the embedding model (default: text-embedding-3-small).
	EmbedModel string

	// ChatModel is the vision/summary model (default: gpt-4o-mini).
	ChatModel string

	// TranscribeModel is the audio model (default: whisper-1).
	TranscribeModel string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Dimensions overrides the default dimension for the embedding model.
	Dimensions int
}

// InsightService extracts, embeds, summarizes and transcribes file content
// through the OpenAI API.
type InsightService struct {
	client          *http.Client
	baseURL         string
	apiKey          string
	embedModel      string
	chatModel       string
	transcribeModel string
	dimensions      int
	promptStore     driven.PromptStore
}

// embeddingRequest is the OpenAI /embeddings request format.
type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

// embeddingResponse is the OpenAI /embeddings response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// chatRequest is the OpenAI /chat/completions request format. Content is
// either a plain string or a list of content parts for multimodal input.
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
	File     *filePart `json:"file,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type filePart struct {
	Filename string `json:"filename"`
	FileData string `json:"file_data"`
}

// chatResponse is the OpenAI /chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// transcriptionResponse is the OpenAI /audio/transcriptions response format.
type transcriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewInsightService creates a new OpenAI insight service.
func NewInsightService(cfg Config) (*InsightService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.TranscribeModel == "" {
		cfg.TranscribeModel = DefaultTranscribeModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		dimensions, ok = modelDimensions[cfg.EmbedModel]
		if !ok {
			dimensions = 1536 // Default fallback
		}
	}

	return &InsightService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		embedModel:      cfg.EmbedModel,
		chatModel:       cfg.ChatModel,
		transcribeModel: cfg.TranscribeModel,
		dimensions:      dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text. Empty input
// returns a nil vector without calling the provider.
func (s *InsightService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, nil
	}

	reqBody := embeddingRequest{
		Model: s.embedModel,
		Input: strings.ReplaceAll(text, "\x00", ""),
	}

	// Only include dimensions for text-embedding-3-* models
	if strings.HasPrefix(s.embedModel, "text-embedding-3-") && s.dimensions > 0 {
		reqBody.Dimensions = s.dimensions
	}

	body, err := s.postJSON(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, err
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if embedResp.Error != nil {
		return nil, fmt.Errorf("openai error: %s", embedResp.Error.Message)
	}
	if len(embedResp.Data) == 0 {
		return nil, fmt.Errorf("openai: no embedding returned")
	}

	embedding := make([]float32, len(embedResp.Data[0].Embedding))
	for i, v := range embedResp.Data[0].Embedding {
		embedding[i] = float32(v)
	}
	return embedding, nil
}

// Summarize produces a short description of the text for display in
// search results.
func (s *InsightService) Summarize(ctx context.Context, text string) (string, error) {
	if len(text) > summarizeInputCap {
		text = text[:summarizeInputCap]
	}

	reqBody := chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: s.loadPrompt(driven.PromptSummarize, summarizeSystemPrompt)},
			{Role: "user", Content: text},
		},
		MaxTokens: 100,
	}

	result, err := s.chatCompletion(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.TrimSpace(result), nil
}

// ExtractText reads the file and returns its text content, dispatching by
// extension. Failures degrade to an empty string so one unreadable file
// never blocks a batch.
func (s *InsightService) ExtractText(ctx context.Context, localPath string) string {
	if localPath == "" {
		return ""
	}
	if _, err := os.Stat(localPath); err != nil {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(localPath), "."))

	var text string
	var err error
	switch ext {
	case "jpg", "jpeg", "png", "webp":
		text, err = s.describeImage(ctx, localPath)
	case "ogg", "mp3", "wav", "mp4", "m4a":
		text, err = s.Transcribe(ctx, localPath)
	case "pdf", "docx":
		text, err = s.extractDocument(ctx, localPath)
	case "txt", "md", "csv":
		text, err = readTextFile(localPath)
	default:
		return ""
	}
	if err != nil {
		logger.Warn("text extraction failed for %s: %v", filepath.Base(localPath), err)
		return ""
	}

	return sanitizeText(text)
}

// Transcribe converts an audio file to text via the transcription endpoint.
func (s *InsightService) Transcribe(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("model", s.transcribeModel); err != nil {
		return "", fmt.Errorf("write form field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/audio/transcriptions",
		&buf,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var trResp transcriptionResponse
	if err := json.Unmarshal(body, &trResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if trResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", trResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	return trResp.Text, nil
}

// describeImage sends the image through the vision model and returns a
// textual description, including any transcribed text.
func (s *InsightService) describeImage(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read image file: %w", err)
	}

	reqBody := chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: s.loadPrompt(driven.PromptVision, visionPrompt)},
					{Type: "image_url", ImageURL: &imageURL{
						URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		},
		MaxTokens: 400,
	}

	return s.chatCompletion(ctx, reqBody)
}

// extractDocument attaches the document to a chat completion and asks the
// model for its text. Covers both native and scanned PDFs without a local
// rendering dependency.
func (s *InsightService) extractDocument(ctx context.Context, localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read document file: %w", err)
	}

	mimeType := "application/pdf"
	if strings.HasSuffix(strings.ToLower(localPath), ".docx") {
		mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	reqBody := chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: s.loadPrompt(driven.PromptDocumentExtract, documentPrompt)},
					{Type: "file", File: &filePart{
						Filename: filepath.Base(localPath),
						FileData: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		},
		MaxTokens: 4000,
	}

	return s.chatCompletion(ctx, reqBody)
}

// chatCompletion posts a chat request and returns the first choice content.
func (s *InsightService) chatCompletion(ctx context.Context, reqBody chatRequest) (string, error) {
	body, err := s.postJSON(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// postJSON sends a JSON POST and returns the response body. Non-200
// statuses are returned as errors with the body included.
func (s *InsightService) postJSON(ctx context.Context, path string, reqBody any) ([]byte, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *InsightService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *InsightService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// Dimensions returns the embedding vector size.
func (s *InsightService) Dimensions() int {
	return s.dimensions
}

// Ping validates the service is reachable by checking the /models endpoint.
// This is a lightweight check that validates the API key without running inference.
func (s *InsightService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("openai: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("openai: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *InsightService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// readTextFile reads a plain text file, tolerating invalid encodings.
func readTextFile(localPath string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}

// sanitizeText strips NUL and non-printable control bytes (keeping
// newlines and tabs) and trims surrounding whitespace.
func sanitizeText(text string) string {
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}
