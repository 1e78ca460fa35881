package handlers

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"stylemart/internal/cart"
	"stylemart/internal/catalog"
	"stylemart/internal/imagesearch"
	"stylemart/internal/session"
	"stylemart/internal/telegram"
)

const (
	callbackMood = "mood:"
	callbackAdd  = "add:"
)

// sendDeals posts each deal with a photo. Photo lookups run concurrently;
// sends stay in catalog order.
func (h *Handler) sendDeals(ctx context.Context, chatID int64) error {
	deals := h.catalog.Deals()
	if len(deals) == 0 {
		return h.tg.SendText(chatID, "No deals right now. Check back soon!")
	}

	photos := make([]string, len(deals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range deals {
		photos[i] = imagesearch.Placeholder
		if h.images == nil {
			continue
		}
		g.Go(func() error {
			url, err := h.images.Resolve(gctx, p.AIHint)
			if err != nil {
				h.logger.Debug("deal photo skipped", "product", p.ID, "err", err)
				return nil
			}
			photos[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, p := range deals {
		caption := fmt.Sprintf("🔥 %s\n%s\n%s\n/add %s", p.Deal, p.Name, formatPrice(p.Price), p.ID)
		if photos[i] == imagesearch.Placeholder {
			if err := h.tg.SendText(chatID, caption); err != nil {
				return err
			}
			continue
		}
		if err := h.tg.SendPhotoURL(chatID, photos[i], caption); err != nil {
			h.logger.Warn("send deal photo failed, falling back to text", "product", p.ID, "err", err)
			if err := h.tg.SendText(chatID, caption); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handler) sendMoods(chatID int64) error {
	var row []telegram.Button
	for _, m := range h.catalog.Moods() {
		row = append(row, telegram.Button{Text: m, Data: callbackMood + m})
	}
	if len(row) == 0 {
		return h.tg.SendText(chatID, "No moods available.")
	}
	return h.tg.SendKeyboard(chatID, "What's the vibe today?", [][]telegram.Button{row})
}

func (h *Handler) handleCallback(ctx context.Context, cq *telegram.CallbackQuery) error {
	if cq.Message == nil || cq.From == nil {
		return h.tg.AnswerCallback(cq.ID, "")
	}
	chatID := cq.Message.Chat.ID

	switch {
	case strings.HasPrefix(cq.Data, callbackMood):
		name := strings.TrimPrefix(cq.Data, callbackMood)
		products, ok := h.catalog.Mood(name)
		if !ok || len(products) == 0 {
			return h.tg.AnswerCallback(cq.ID, "Nothing for that mood yet")
		}
		_ = h.tg.AnswerCallback(cq.ID, "")

		rows := make([][]telegram.Button, 0, len(products))
		for _, p := range products {
			rows = append(rows, []telegram.Button{{Text: "🛒 " + p.Name, Data: callbackAdd + p.ID}})
		}
		return h.tg.SendKeyboard(chatID, fmt.Sprintf("%s picks:\n%s", name, formatProducts(products, 0)), rows)

	case strings.HasPrefix(cq.Data, callbackAdd):
		id := strings.TrimPrefix(cq.Data, callbackAdd)
		p, ok := h.catalog.Product(id)
		if !ok {
			return h.tg.AnswerCallback(cq.ID, "Product not found")
		}
		var qty int
		h.sessions.UpdateCart(cq.From.ID, cq.From.UserName, func(c *cart.Cart) { qty = c.Add(p, 1) })
		return h.tg.AnswerCallback(cq.ID, fmt.Sprintf("Added %s (%d in cart)", p.Name, qty))
	}

	return h.tg.AnswerCallback(cq.ID, "")
}

func (h *Handler) addToCart(chatID, userID int64, username, args string) error {
	id, qty, err := parseAddArgs(args)
	if err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error())
	}

	p, ok := h.catalog.Product(id)
	if !ok {
		return h.tg.SendText(chatID, fmt.Sprintf("❌ No product with id %s.", id))
	}

	var total int
	snapshot := h.sessions.UpdateCart(userID, username, func(c *cart.Cart) { total = c.Add(p, qty) })
	if total == 0 {
		return h.tg.SendText(chatID, fmt.Sprintf("🗑 Removed %s. Cart: %d items, %s", p.Name, snapshot.Count(), formatPrice(snapshot.Subtotal())))
	}
	return h.tg.SendText(chatID, fmt.Sprintf("🛒 %s × %d. Cart: %d items, %s", p.Name, total, snapshot.Count(), formatPrice(snapshot.Subtotal())))
}

func (h *Handler) sendCart(chatID, userID int64, username string) error {
	c := h.sessions.UpdateCart(userID, username, nil)
	if c.Empty() {
		return h.tg.SendText(chatID, "🛒 Your cart is empty. Try /deals or /moods.")
	}
	return h.tg.SendText(chatID, formatCart(c))
}

func formatCart(c cart.Cart) string {
	var b strings.Builder
	b.WriteString("🛒 Your cart\n")
	for _, it := range c.Items() {
		fmt.Fprintf(&b, "• %s × %d = %s\n", it.Product.Name, it.Quantity, formatPrice(it.Product.Price*it.Quantity))
	}
	fmt.Fprintf(&b, "\nItems: %d\nSubtotal: %s", c.Count(), formatPrice(c.Subtotal()))
	return b.String()
}

func (h *Handler) sendHistory(chatID, userID int64, username string) error {
	history := h.sessions.History(userID, username)
	if len(history) == 0 {
		return h.tg.SendText(chatID, "No conversation yet. Ask me what to wear!")
	}

	var b strings.Builder
	for _, m := range history {
		speaker := "🤖"
		if m.Role == session.RoleUser {
			speaker = "🧑"
		}
		fmt.Fprintf(&b, "%s %s\n\n", speaker, m.Content)
	}
	return h.tg.SendText(chatID, strings.TrimSpace(b.String()))
}

func productsForTags(c *catalog.Catalog, tags []string, limit int) string {
	return formatProducts(c.ByTags(tags...), limit)
}
