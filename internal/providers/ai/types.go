package ai

import (
	"errors"
	"time"
)

const (
	// SystemPrompt frames every chat conversation
	SystemPrompt = "You are Astra, a helpful AI assistant integrated into NextMac OS. Keep your responses concise and helpful. Your personality is friendly and curious."
	// FallbackReply is returned when the model produces no text
	FallbackReply = "I'm sorry, I couldn't generate a response."

	RoleUser  = "user"
	RoleModel = "model"

	WallpaperWidth  = 1920
	WallpaperHeight = 1080
)

var (
	// ErrNoImage is returned when an edit completes without image output
	ErrNoImage = errors.New("image generation failed to return an image")
	// ErrNotConfigured is returned by model calls when no API key is set
	ErrNotConfigured = errors.New("ai provider not configured")
	// ErrInvalidInput is returned for empty prompts, themes or images
	ErrInvalidInput = errors.New("invalid ai request")
)

// Config configures the AI client
type Config struct {
	BaseURL          string
	APIKey           string
	ChatModel        string
	ImageModel       string
	WallpaperBaseURL string
	Timeout          time.Duration
	Retries          int
	RetryWaitMin     time.Duration
	RetryWaitMax     time.Duration
}

// DefaultConfig returns production defaults without an API key
func DefaultConfig() Config {
	return Config{
		BaseURL:          "https://generativelanguage.googleapis.com/v1beta",
		ChatModel:        "gemini-2.5-flash",
		ImageModel:       "gemini-2.5-flash-image-preview",
		WallpaperBaseURL: "https://picsum.photos",
		Timeout:          60 * time.Second,
		RetryWaitMin:     500 * time.Millisecond,
		RetryWaitMax:     5 * time.Second,
	}
}

// Message is one turn of chat history
type Message struct {
	Role    string `json:"role"`
	Content []Text `json:"content"`
}

// Text is a text fragment of a message
type Text struct {
	Text string `json:"text"`
}

// UserMessage builds a single-fragment user turn
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: []Text{{Text: text}}}
}

// ModelMessage builds a single-fragment model turn
func ModelMessage(text string) Message {
	return Message{Role: RoleModel, Content: []Text{{Text: text}}}
}

// generateContent request and response bodies

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateRequest struct {
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SafetySettings    []safetySetting   `json:"safetySettings,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

var permissiveSafety = []safetySetting{
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_NONE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_NONE"},
}
