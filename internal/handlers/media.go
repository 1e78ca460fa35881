package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stylemart/internal/genai"
	"stylemart/internal/speech"
	"stylemart/internal/stylist"
	"stylemart/internal/telegram"
)

const stylistCaption = "stylist"

// handlePhoto sends selfies to the style advisor. A caption starting with
// "stylist" switches to item styling instead.
func (h *Handler) handlePhoto(ctx context.Context, chatID int64, msg *telegram.Message) error {
	h.tg.SendTyping(chatID)

	photo := msg.Photo[len(msg.Photo)-1]
	blob, err := h.tg.DownloadFile(ctx, photo.FileID, "image/jpeg")
	if err != nil {
		h.logger.Error("photo download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not download the photo.")
	}

	caption := strings.ToLower(strings.TrimSpace(msg.Caption))
	if strings.HasPrefix(caption, stylistCaption) {
		return h.smartStylist(ctx, chatID, stylist.SmartStylistInput{PhotoDataURI: blob.DataURI(), Type: stylist.InputImage})
	}

	advice, err := h.stylist.StyleAdvice(ctx, blob.DataURI())
	if err != nil {
		return h.replyError(chatID, "style_advice", err)
	}
	return h.tg.SendText(chatID, h.formatAdvice(advice))
}

func (h *Handler) formatAdvice(a stylist.StyleAdvice) string {
	var b strings.Builder
	fa := a.FacialAnalysis
	fmt.Fprintf(&b, "🪞 Gender: %s · Age: %s · Face: %s · Mood: %s\n\n", fa.Gender, fa.Age, fa.FaceShape, fa.Mood)
	b.WriteString(a.StyleAdvice)

	if len(a.RecommendedProductTags) > 0 {
		b.WriteString("\n\n🏷 " + strings.Join(a.RecommendedProductTags, ", "))
		if picks := productsForTags(h.catalog, a.RecommendedProductTags, 5); picks != "" {
			b.WriteString("\n\nFrom our store:\n" + picks)
		}
	}
	return b.String()
}

func (h *Handler) smartStylist(ctx context.Context, chatID int64, in stylist.SmartStylistInput) error {
	result, err := h.stylist.SmartStylist(ctx, in)
	if err != nil {
		return h.replyError(chatID, "smart_stylist", err)
	}
	return h.tg.SendText(chatID, h.formatSmartStylist(result))
}

func (h *Handler) formatSmartStylist(r stylist.SmartStylistResult) string {
	var b strings.Builder
	m := r.MainItem
	fmt.Fprintf(&b, "👕 %s\n%s · %s · %s · %s\n", m.Name, m.Color, m.Category, m.Style, m.Fabric)

	items := make([]string, 0, len(r.Complementary))
	if len(r.Complementary) > 0 {
		b.WriteString("\nPairs well with:\n")
		for _, c := range r.Complementary {
			fmt.Fprintf(&b, "• %s (%s): %s\n", c.Item, c.Category, c.Reason)
			items = append(items, c.Item)
		}
	}
	if len(r.ColorPalette) > 0 {
		b.WriteString("\n🎨 " + strings.Join(r.ColorPalette, ", ") + "\n")
	}
	if r.StyleNotes != "" {
		b.WriteString("\n" + r.StyleNotes + "\n")
	}

	if picks := h.catalog.MatchComplementary(m.Category, m.Style, items, 6); len(picks) > 0 {
		b.WriteString("\nFrom our store:\n" + formatProducts(picks, 0) + "\n")
	}
	fmt.Fprintf(&b, "\nConfidence: %.0f%%", r.Confidence*100)
	return b.String()
}

// handleVoice transcribes a voice note and answers it as chat text.
func (h *Handler) handleVoice(ctx context.Context, chatID, userID int64, username string, msg *telegram.Message) error {
	if h.transcriber == nil {
		return h.tg.SendText(chatID, "🎙 Voice messages are not supported here. Please type your question.")
	}

	h.tg.SendTyping(chatID)

	fallbackMime := msg.Voice.MimeType
	if fallbackMime == "" {
		fallbackMime = "audio/ogg"
	}
	blob, err := h.tg.DownloadFile(ctx, msg.Voice.FileID, fallbackMime)
	if err != nil {
		h.logger.Error("voice download failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not download the voice message.")
	}
	// Sniffing an ogg container gives application/ogg; Telegram knows better.
	if msg.Voice.MimeType != "" {
		blob.MimeType = msg.Voice.MimeType
	}

	text, err := h.transcribe(ctx, blob)
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		return h.tg.SendText(chatID, "🎙 I couldn't hear any words. Could you try again?")
	case errors.Is(err, genai.ErrNotConfigured):
		return h.replyError(chatID, "transcribe", err)
	case err != nil:
		h.logger.Error("transcription failed", "err", err)
		return h.tg.SendText(chatID, "❌ Could not understand the voice message. Please type your question.")
	}

	_ = h.tg.SendText(chatID, "🎙 "+text)
	return h.handleText(ctx, chatID, userID, username, text)
}

// transcribe holds a recognizer slot only for the recognition call.
func (h *Handler) transcribe(ctx context.Context, audio genai.Blob) (string, error) {
	sess, err := h.transcriber.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer sess.Release()

	return sess.Transcribe(ctx, audio)
}
