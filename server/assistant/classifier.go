package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// classifyTimeout bounds a single classification round trip.
const classifyTimeout = 15 * time.Second

// Classifier turns raw user text into a tagged Intent. Implementations are
// free to be non-deterministic; the dispatcher treats their output as
// untrusted and re-validates every argument.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Intent, error)
}

// completionClient is the slice of the OpenAI client the classifier needs.
// Tests stub it; production wiring passes the plugin/ai provider.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClassifier classifies intent via OpenAI-compatible function calling
// against the fixed five-operation tool schema.
type OpenAIClassifier struct {
	client completionClient
	model  string
}

// NewOpenAIClassifier creates a classifier backed by an OpenAI-compatible
// chat completion client.
func NewOpenAIClassifier(client completionClient, model string) *OpenAIClassifier {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClassifier{client: client, model: model}
}

// Classify sends the user text through the function-calling layer and maps
// the response onto an Intent. A tool call outside the fixed schema, or one
// with undecodable arguments, yields the Unknown intent rather than an
// error: only transport-level failures are returned.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, classifyTimeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Tools: calendarTools,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		return nil, errors.Wrap(err, "classification request failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty response from classifier")
	}

	message := resp.Choices[0].Message
	slog.Debug("intent classification completed",
		"input", truncateForLog(text, 50),
		"tool_calls", len(message.ToolCalls),
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)

	if len(message.ToolCalls) > 0 {
		return mapToolCall(message.ToolCalls[0]), nil
	}
	if message.Content != "" {
		return &Intent{Kind: IntentReply, Reply: message.Content}, nil
	}
	return &Intent{Kind: IntentUnknown}, nil
}

// mapToolCall decodes a single tool call into an Intent. Alien operation
// names and malformed argument payloads both collapse into Unknown so the
// dispatcher has exactly one fallback path.
func mapToolCall(call openai.ToolCall) *Intent {
	raw := []byte(call.Function.Arguments)

	decode := func(v any) bool {
		if err := json.Unmarshal(raw, v); err != nil {
			slog.Warn("undecodable tool call arguments",
				"function", call.Function.Name,
				"error", err)
			return false
		}
		return true
	}

	switch call.Function.Name {
	case "schedule_event":
		args := &ScheduleEventArgs{}
		if !decode(args) {
			break
		}
		return &Intent{Kind: IntentScheduleEvent, ScheduleEvent: args}
	case "show_events":
		args := &ShowEventsArgs{}
		if !decode(args) {
			break
		}
		return &Intent{Kind: IntentShowEvents, ShowEvents: args}
	case "find_slots":
		args := &FindSlotsArgs{}
		if !decode(args) {
			break
		}
		return &Intent{Kind: IntentFindSlots, FindSlots: args}
	case "update_event":
		args := &UpdateEventArgs{}
		if !decode(args) {
			break
		}
		return &Intent{Kind: IntentUpdateEvent, UpdateEvent: args}
	case "delete_event":
		args := &DeleteEventArgs{}
		if !decode(args) {
			break
		}
		return &Intent{Kind: IntentDeleteEvent, DeleteEvent: args}
	default:
		slog.Warn("classifier returned unknown operation", "function", call.Function.Name)
	}
	return &Intent{Kind: IntentUnknown}
}

// calendarTools is the fixed five-operation schema handed to the model.
var calendarTools = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "schedule_event",
			Description: "Schedule a new calendar event. Use this when users want to create or add events.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Title or purpose of the event",
					},
					"start_time": map[string]any{
						"type":        "string",
						"description": "Event time exactly as specified by user (e.g., 'tomorrow at 2 PM', 'today at 3:30 PM')",
					},
					"duration_minutes": map[string]any{
						"type":        "integer",
						"description": "Duration of event in minutes (default 60)",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Optional event description or details",
					},
				},
				"required": []string{"title", "start_time", "duration_minutes"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "show_events",
			Description: "Show calendar events for a time period. Use this to view existing events.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"start_time": map[string]any{
						"type":        "string",
						"description": "Start time (e.g., 'today', 'tomorrow', 'tomorrow at 2 PM')",
					},
					"end_time": map[string]any{
						"type":        "string",
						"description": "End time (e.g., 'tomorrow at 5 PM')",
					},
				},
				"required": []string{"start_time", "end_time"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "find_slots",
			Description: "Find available time slots. Use this ONLY when users ask about availability or free time.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date": map[string]any{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format, or 'today', or 'tomorrow'",
					},
					"duration_minutes": map[string]any{
						"type":        "integer",
						"description": "Length of slot needed in minutes",
					},
				},
				"required": []string{"date", "duration_minutes"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "update_event",
			Description: "Update an existing event. Use this to modify events.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"event_id": map[string]any{"type": "string"},
					"title":    map[string]any{"type": "string"},
					"start_time": map[string]any{
						"type":        "string",
						"description": "Event time exactly as specified by user",
					},
					"description": map[string]any{"type": "string"},
				},
				"required": []string{"event_id"},
			},
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "delete_event",
			Description: "Delete an event. Use this to remove events.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"event_id": map[string]any{"type": "string"},
				},
				"required": []string{"event_id"},
			},
		},
	},
}

// truncateForLog trims user text before it reaches structured logs.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
