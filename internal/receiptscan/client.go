package receiptscan

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const extractionPrompt = `Analyze this receipt image and extract the following information in JSON format:

{
  "vendor": "Name of the store/restaurant",
  "date": "Date in YYYY-MM-DD format if visible",
  "currency": "Currency code (USD, MXN, EUR, etc.) - infer from symbols or context",
  "line_items": [
    {
      "description": "Item description",
      "amount": 12.99,
      "category": "One of: food, drink, alcohol, transportation, accommodation, activity, shopping, other"
    }
  ],
  "tax_lines": [
    {
      "description": "Tax type (e.g., 'Sales Tax', 'IVA', 'VAT')",
      "amount": 1.50
    }
  ],
  "subtotal": 25.00,
  "total": 26.50,
  "tip": null
}

Important:
- All amounts should be numeric values, not strings
- If a field is not visible or cannot be determined, use null
- For line items, try to categorize each item based on its description
- Include all individual items, not grouped totals
- If tip is included, extract it separately
- Return ONLY the JSON, no additional text`

// Client wraps the hosted vision model.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient constructs a vision client.
func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// Scan sends a receipt image to the vision model and decodes its answer.
// Image bytes are inlined as a base64 data URL. Output the model produces
// around the JSON document is tolerated; output without a JSON document
// yields an empty Result, not an error.
func (c *Client) Scan(ctx context.Context, image []byte, mediaType string) (Result, error) {
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(image))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 2048,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
				},
			},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("receiptscan: vision request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, nil
	}
	return decodeModelOutput(resp.Choices[0].Message.Content), nil
}
