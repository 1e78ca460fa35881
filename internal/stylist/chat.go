package stylist

import (
	"context"
	"errors"
	"strings"

	"stylemart/internal/genai"
)

// Chat replies shown instead of a model answer.
const (
	ChatUnavailableMessage = "I apologize, but I'm having trouble processing your request right now. Please try again in a moment, or ask me about specific product categories like 'casual wear', 'workout clothes', or 'formal attire'."
	ChatEmptyMessage       = "I'm having trouble generating suggestions right now. Could you try asking about specific clothing items like 'what should I wear to a casual dinner' or 'suggest an outfit for work'?"
	ChatErrorMessage       = "I apologize, but I'm experiencing some technical difficulties. Please try again in a moment."
	ChatTimeoutMessage     = "Request timed out. Please try again with a shorter message."
)

const chatPrompt = `You are a fashion stylist AI helping users find clothing and outfit suggestions based on their preferences, mood, and occasion.

Your job is to:
- Understand user inputs like "I want something for college", "I feel lazy today", or "I like black"
- Immediately respond with specific outfit ideas or items (not more questions)
- Always suggest 2–3 outfit ideas with:
    - Top
    - Bottom
    - Footwear
    - Accessories (optional)
    - Color/style reasoning

✅ Sample Output Format:
👗 Outfit 1 – Chill College Vibe:
- Top: Oversized white hoodie
- Bottom: Black joggers
- Shoes: White sneakers
- Why: Comfortable and casual, perfect for laid-back days.

👗 Outfit 2 – Sleek & Minimal:
- Top: Slim black t-shirt
- Bottom: Beige chinos
- Shoes: Loafers or clean canvas shoes
- Why: This balances a dark color with a lighter tone for a clean look.

IMPORTANT: Keep replies short, direct, and focused on clothing suggestions. Don't ask too many follow-up questions unless really needed.

`

// Turn is one earlier exchange line given to Chat as context.
type Turn struct {
	FromCustomer bool
	Text         string
}

// maxHistoryRunes keeps the transcript section from crowding out the query.
const maxHistoryRunes = 4000

// Chat answers a free-text styling question. history, oldest first, is
// optional. Upstream trouble never surfaces as an error; it becomes one of
// the Chat*Message replies.
func (s *Service) Chat(ctx context.Context, query string, history ...Turn) (string, error) {
	query, ok := cleanText(query)
	if !ok {
		return "", &InputError{Field: "query", Message: "Invalid query provided"}
	}

	var prompt strings.Builder
	prompt.WriteString(chatPrompt)
	if transcript := formatHistory(history); transcript != "" {
		prompt.WriteString("Conversation so far:\n")
		prompt.WriteString(transcript)
		prompt.WriteString("\n")
	}
	prompt.WriteString("Customer Query: ")
	prompt.WriteString(query)

	callCtx, cancel := context.WithTimeout(ctx, s.chatTimeout)
	defer cancel()

	text, err := s.gen.Generate(callCtx, genai.Request{Prompt: prompt.String()})
	if err != nil {
		var statusErr *genai.StatusError
		switch {
		case errors.Is(err, genai.ErrNotConfigured):
			return "", err
		case errors.Is(callCtx.Err(), context.DeadlineExceeded):
			s.logger.Warn("chat timed out", "timeout", s.chatTimeout)
			return ChatTimeoutMessage, nil
		case errors.As(err, &statusErr):
			s.logger.Warn("chat upstream error", "status", statusErr.Code)
			return ChatUnavailableMessage, nil
		case errors.Is(err, genai.ErrEmptyResponse):
			return ChatEmptyMessage, nil
		default:
			s.logger.Error("chat request failed", "error", err)
			return ChatErrorMessage, nil
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ChatEmptyMessage, nil
	}
	return text, nil
}

func formatHistory(history []Turn) string {
	var lines []string
	total := 0
	for i := len(history) - 1; i >= 0; i-- {
		t := strings.TrimSpace(history[i].Text)
		if t == "" {
			continue
		}
		speaker := "Stylist"
		if history[i].FromCustomer {
			speaker = "Customer"
		}
		line := speaker + ": " + t
		total += len([]rune(line))
		if total > maxHistoryRunes {
			break
		}
		lines = append(lines, line)
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
