package chat

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

const systemPrompt = `You are the EcoSound Assistant, an AI assistant for an urban noise monitoring platform.
You help users with:
- Understanding sound classifications (traffic, construction, nature, human, industrial)
- Interpreting decibel levels and WHO noise guidelines
- Zoning noise limits and compliance reports
- Reading the noise map and submitting feedback

Provide helpful, accurate, and concise responses. Be technical when needed but explain complex concepts clearly.
Keep responses conversational and under 200 words unless more detail is specifically requested.`

type GeminiClient struct {
	client *genai.Client
	ctx    context.Context
}

func NewGeminiClient() (*GeminiClient, error) {
	_ = godotenv.Load()

	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{
		client: client,
		ctx:    ctx,
	}, nil
}

func (g *GeminiClient) GenerateResponse(message string) (string, error) {
	systemInstruction := genai.NewContentFromText(systemPrompt, genai.RoleModel)
	userContent := genai.NewContentFromText(message, genai.RoleUser)

	config := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       genai.Ptr(float32(0.7)),
		TopP:              genai.Ptr(float32(0.8)),
		TopK:              genai.Ptr(float32(40)),
		MaxOutputTokens:   int32(200),
	}

	resp, err := g.client.Models.GenerateContent(
		g.ctx,
		"gemini-2.5-flash",
		[]*genai.Content{userContent},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %v", err)
	}

	text := resp.Text()
	if text == "" {
		return "I'm sorry, I couldn't generate a response. Please try rephrasing your question.", nil
	}

	return strings.ReplaceAll(text, "*", ""), nil
}

func (g *GeminiClient) Close() error {
	// The client manages its resources automatically.
	return nil
}
