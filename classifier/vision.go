package classifier

import (
	"context"
	"encoding/base64"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"go-wastewise/types"
)

const visionConfidence = 0.90

// Vision asks a multimodal model for the waste label instead of running the
// keyword heuristic. Any API failure or unrecognized answer falls back to the
// wrapped classifier, so the pipeline contract is unchanged.
type Vision struct {
	client   *openai.Client
	fallback Classifier
}

func NewVision(apiKey string, fallback Classifier) *Vision {
	return &Vision{client: openai.NewClient(apiKey), fallback: fallback}
}

func (v *Vision) Classify(ctx context.Context, image []byte, filename string) Result {
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := v.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleSystem,
					Content: "You classify photos of waste. Answer with exactly one of: " +
						"Plastic, Organic, E-Waste, Glass, Metal, Paper, Textile, Biomedical, General.",
				},
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{Type: openai.ChatMessagePartTypeText, Text: "What type of waste is in this photo?"},
						{
							Type:     openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
						},
					},
				},
			},
			MaxTokens: 10,
		},
	)
	if err != nil {
		log.Printf("Vision classification failed, using heuristic: %v", err)
		return v.fallback.Classify(ctx, image, filename)
	}

	label := strings.TrimSpace(resp.Choices[0].Message.Content)
	for _, t := range types.AllWasteTypes {
		if strings.EqualFold(label, string(t)) {
			return Result{t, visionConfidence}
		}
	}

	log.Printf("Vision model returned unknown label %q, using heuristic", label)
	return v.fallback.Classify(ctx, image, filename)
}
