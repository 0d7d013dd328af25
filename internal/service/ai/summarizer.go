package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/luokai/emberroom/backend/internal/config"
	"github.com/luokai/emberroom/backend/internal/model/room"
)

// Service adapts a room transcript into a call to the external
// summarization model and parses its structured reply.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the summarization chain against the configured Ark
// chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(summarySystemPrompt),
		schema.UserMessage("{transcript}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile summary chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Summarize issues the transcript to the model and returns the parsed
// Summary. The caller decides whether and when to retry; no retry happens
// here.
func (s *Service) Summarize(ctx context.Context, messages []room.Message) (room.Summary, error) {
	input := map[string]any{
		"transcript": buildTranscript(messages),
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return room.Summary{}, fmt.Errorf("summarization call failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return room.Summary{}, fmt.Errorf("summarization returned empty output")
	}

	payload, err := parseSummaryPayload(msg.Content)
	if err != nil {
		return room.Summary{}, fmt.Errorf("unparseable summary output: %w", err)
	}

	log.Printf("[ai] summary generated, messages=%d keyPoints=%d actionItems=%d",
		len(messages), len(payload.KeyPoints), len(payload.ActionItems))

	return buildSummary(payload, len(messages)), nil
}

// buildTranscript renders the messages chronologically, one line per turn.
func buildTranscript(messages []room.Message) string {
	var builder strings.Builder
	for i, msg := range messages {
		builder.WriteString("[")
		builder.WriteString(msg.SentAt.Format("15:04:05"))
		builder.WriteString("] ")
		builder.WriteString(msg.Author)
		builder.WriteString(": ")
		builder.WriteString(msg.Text)
		if i < len(messages)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// parseSummaryPayload extracts the JSON object from the model output,
// tolerating markdown fences or prose wrapped around it.
func parseSummaryPayload(content string) (*summaryPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &summaryPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// buildSummary fills defaults for missing fields; partial data is not an
// error, only totally unparseable output is.
func buildSummary(payload *summaryPayload, messageCount int) room.Summary {
	overview := strings.TrimSpace(payload.Overview)
	summary := room.Summary{
		Overview:            overview,
		OverviewUnavailable: overview == "",
		KeyPoints:           payload.KeyPoints,
		ActionItems:         payload.ActionItems,
		MessageCount:        messageCount,
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.ActionItems == nil {
		summary.ActionItems = []string{}
	}
	return summary
}

type summaryPayload struct {
	Overview    string   `json:"overview"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
}

const summarySystemPrompt = "You summarize a short two-person chat transcript. " +
	"Read the conversation and reply with a single JSON object and nothing else, using exactly these fields: " +
	"overview (a 2-3 sentence summary of the conversation), " +
	"key_points (an array of short strings covering the main topics discussed), " +
	"action_items (an array of short strings listing concrete follow-ups, empty if there are none). " +
	"Do not include any text outside the JSON object."
