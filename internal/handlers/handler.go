// Package handlers turns Telegram updates into stylist, catalog and cart
// operations and replies in the same chat.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"stylemart/internal/catalog"
	"stylemart/internal/genai"
	"stylemart/internal/session"
	"stylemart/internal/speech"
	"stylemart/internal/stylist"
	"stylemart/internal/telegram"
)

// Messenger is the subset of the Telegram client the handler needs.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendTyping(chatID int64)
	SendKeyboard(chatID int64, text string, rows [][]telegram.Button) error
	SendPhotoURL(chatID int64, photoURL string, caption string) error
	AnswerCallback(callbackID, text string) error
	DownloadFile(ctx context.Context, fileID, fallbackMime string) (genai.Blob, error)
}

type Options struct {
	Messenger   Messenger
	Stylist     *stylist.Service
	Catalog     *catalog.Catalog
	Sessions    *session.Store
	Transcriber *speech.Transcriber
	Images      stylist.ImageResolver
	Logger      *slog.Logger
}

type Handler struct {
	tg          Messenger
	stylist     *stylist.Service
	catalog     *catalog.Catalog
	sessions    *session.Store
	transcriber *speech.Transcriber
	images      stylist.ImageResolver
	logger      *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Handler{
		tg:          opts.Messenger,
		stylist:     opts.Stylist,
		catalog:     opts.Catalog,
		sessions:    opts.Sessions,
		transcriber: opts.Transcriber,
		images:      opts.Images,
		logger:      logger,
	}
}

const (
	msgGenericError   = "❌ Something went wrong. Please try again."
	msgNotConfigured  = "⚙️ The stylist is not configured yet. Please try again later."
	msgUnknownCommand = "❌ Unknown command. Use /help."
)

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName

	switch {
	case msg.IsCommand():
		return h.handleCommand(ctx, chatID, userID, username, msg)
	case len(msg.Photo) > 0:
		return h.handlePhoto(ctx, chatID, msg)
	case msg.Voice != nil:
		return h.handleVoice(ctx, chatID, userID, username, msg)
	case strings.TrimSpace(msg.Text) != "":
		return h.handleText(ctx, chatID, userID, username, msg.Text)
	}
	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID, userID int64, username string, msg *telegram.Message) error {
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return h.tg.SendText(chatID, helpText)
	case "clear":
		h.sessions.Clear(userID)
		return h.tg.SendText(chatID, "✅ Conversation and cart cleared.")
	case "deals":
		return h.sendDeals(ctx, chatID)
	case "moods":
		return h.sendMoods(chatID)
	case "add":
		return h.addToCart(chatID, userID, username, args)
	case "cart":
		return h.sendCart(chatID, userID, username)
	case "history":
		return h.sendHistory(chatID, userID, username)
	case "stylist":
		if args == "" {
			return h.tg.SendText(chatID, "❌ Describe an item.\nExample: /stylist navy linen blazer")
		}
		h.tg.SendTyping(chatID)
		return h.smartStylist(ctx, chatID, stylist.SmartStylistInput{Description: args, Type: stylist.InputText})
	default:
		return h.tg.SendText(chatID, msgUnknownCommand)
	}
}

const helpText = "👗 StyleMart stylist\n\n" +
	"Send a message and I'll suggest outfits.\n" +
	"Send a selfie and I'll give you style advice.\n" +
	"Send a photo of a clothing item with the caption \"stylist\" and I'll tell you what goes with it.\n" +
	"Send a voice message and I'll answer it like text.\n\n" +
	"Commands:\n" +
	"/stylist <description> - styling ideas for an item\n" +
	"/deals - current deals\n" +
	"/moods - shop by mood\n" +
	"/add <id> [qty] - add a product to your cart\n" +
	"/cart - show your cart\n" +
	"/history - show this conversation\n" +
	"/clear - clear conversation and cart"

func (h *Handler) handleText(ctx context.Context, chatID, userID int64, username, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	h.tg.SendTyping(chatID)

	history := h.sessions.History(userID, username)
	turns := make([]stylist.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, stylist.Turn{FromCustomer: m.Role == session.RoleUser, Text: m.Content})
	}

	reply, err := h.stylist.Chat(ctx, text, turns...)
	if err != nil {
		return h.replyError(chatID, "chat", err)
	}

	h.sessions.Append(userID, username,
		session.ChatMessage{Role: session.RoleUser, Content: text},
		session.ChatMessage{Role: session.RoleAssistant, Content: reply},
	)
	return h.tg.SendText(chatID, reply)
}

// replyError tells the user what went wrong without leaking internals.
func (h *Handler) replyError(chatID int64, op string, err error) error {
	var inputErr *stylist.InputError
	switch {
	case errors.As(err, &inputErr):
		return h.tg.SendText(chatID, "❌ "+inputErr.Message)
	case errors.Is(err, genai.ErrNotConfigured):
		h.logger.Error("generator not configured", "op", op, "err", err)
		return h.tg.SendText(chatID, msgNotConfigured)
	default:
		h.logger.Error("operation failed", "op", op, "err", err)
		return h.tg.SendText(chatID, msgGenericError)
	}
}

// formatPrice renders a catalog price, which is a whole number of rupees.
func formatPrice(rupees int) string {
	return fmt.Sprintf("₹%d.00", rupees)
}

func formatProduct(p catalog.Product) string {
	line := fmt.Sprintf("• %s (#%s) %s", p.Name, p.ID, formatPrice(p.Price))
	if p.Deal != "" {
		line += " 🔥 " + p.Deal
	}
	return line
}

func formatProducts(products []catalog.Product, limit int) string {
	var lines []string
	for i, p := range products {
		if limit > 0 && i == limit {
			break
		}
		lines = append(lines, formatProduct(p))
	}
	return strings.Join(lines, "\n")
}

func parseAddArgs(args string) (string, int, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return "", 0, errors.New("usage: /add <id> [qty]")
	}

	qty := 1
	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n == 0 {
			return "", 0, errors.New("quantity must be a non-zero number")
		}
		qty = n
	}
	return strings.TrimPrefix(fields[0], "#"), qty, nil
}
