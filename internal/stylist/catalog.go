package stylist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"stylemart/internal/catalog"
	"stylemart/internal/imagesearch"
)

type RecommendInput struct {
	Preferences string `json:"preferences"`
	Budget      string `json:"budget"`
	Style       string `json:"style"`
	Weather     string `json:"weather"`
}

type Recommendation struct {
	Products []string `json:"products"`
	Matches  []Match  `json:"matches"`
}

// Match is a catalog product named by the model, with its resolved image.
type Match struct {
	Product  catalog.Product `json:"product"`
	ImageURL string          `json:"imageUrl"`
}

type productList struct {
	Products []string `json:"products"`
}

func (l *productList) Validate() error {
	names := make([]string, 0, len(l.Products))
	for _, n := range l.Products {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	l.Products = names
	return nil
}

const recommendPrompt = `You are an AI product recommendation agent.

You will generate a list of products based on the customer's preferences, budget, style, and the current weather.

Preferences: %s
Budget: %s
Style: %s
Weather: %s

Respond with JSON only, in this exact format:
{"products": ["product name", "product name"]}

Products:`

// Recommend asks the model for product names, then attaches catalog
// products whose names match, each with a photo URL.
func (s *Service) Recommend(ctx context.Context, in RecommendInput) (Recommendation, error) {
	preferences, ok := cleanText(in.Preferences)
	if !ok || utf8.RuneCountInString(preferences) < 2 {
		return Recommendation{}, &InputError{Field: "preferences", Message: "Please describe your preferences."}
	}
	budget, ok := cleanText(in.Budget)
	if !ok {
		return Recommendation{}, &InputError{Field: "budget", Message: "Please select a budget."}
	}
	style, ok := cleanText(in.Style)
	if !ok || utf8.RuneCountInString(style) < 2 {
		return Recommendation{}, &InputError{Field: "style", Message: "Please describe your style."}
	}
	weather, ok := cleanText(in.Weather)
	if !ok {
		weather = "any"
	}

	list, err := generateStructured(ctx, s, structuredCall[productList]{
		op:       "recommend_products",
		prompt:   fmt.Sprintf(recommendPrompt, preferences, budget, style, weather),
		required: []string{"products"},
		fallback: func(string) productList { return s.fallbackProducts() },
	})
	if err != nil {
		return Recommendation{}, err
	}

	matches, err := s.withImages(ctx, s.catalog.MatchNames(list.Products))
	if err != nil {
		return Recommendation{}, err
	}

	return Recommendation{
		Products: emptyIfNil(list.Products),
		Matches:  matches,
	}, nil
}

func (s *Service) fallbackProducts() productList {
	var names []string
	for _, p := range s.catalog.Deals() {
		names = append(names, p.Name)
	}
	return productList{Products: names}
}

// withImages resolves each product's image hint concurrently. A missing
// resolver, missing credential or failed lookup yields the placeholder.
func (s *Service) withImages(ctx context.Context, products []catalog.Product) ([]Match, error) {
	out := make([]Match, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.imageLookups)

	for i, p := range products {
		out[i] = Match{Product: p, ImageURL: imagesearch.Placeholder}
		if s.images == nil || strings.TrimSpace(p.AIHint) == "" {
			continue
		}

		g.Go(func() error {
			url, err := s.images.Resolve(gctx, p.AIHint)
			if err != nil {
				s.logger.Debug("image lookup skipped", "product", p.ID, "error", err)
				return nil
			}
			out[i].ImageURL = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type RestockSuggestion struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	CurrentStock      int    `json:"currentStock"`
	SuggestedQuantity int    `json:"suggestedQuantity"`
	Reason            string `json:"reason"`
}

type RestockPlan struct {
	Suggestions []RestockSuggestion `json:"suggestions"`
}

func (p *RestockPlan) Validate() error {
	for _, sg := range p.Suggestions {
		if strings.TrimSpace(sg.ProductID) == "" {
			return errors.New("suggestion without productId")
		}
		if sg.SuggestedQuantity <= 0 {
			return fmt.Errorf("suggestion for %s has quantity %d", sg.ProductID, sg.SuggestedQuantity)
		}
	}
	p.Suggestions = emptyIfNil(p.Suggestions)
	return nil
}

// RestockTarget is the stock level templated suggestions top items up to.
const RestockTarget = 25

const restockPrompt = `You are an inventory planner for an online fashion store.

The following products are low on stock (fewer than %d units). For each one, suggest how many units to reorder and give a one-sentence reason that considers the product's category, price and typical seasonal demand.

Low-stock products (JSON):
%s

Respond with JSON only, in this exact format:
{
  "suggestions": [
    {
      "productId": "id from the list",
      "productName": "name from the list",
      "currentStock": 0,
      "suggestedQuantity": 0,
      "reason": "..."
    }
  ]
}`

type restockItem struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Price    int      `json:"price"`
	Stock    int      `json:"stock"`
	Tags     []string `json:"tags"`
}

// Restock proposes reorder quantities for low-stock catalog items. With
// nothing low on stock it returns an empty plan without calling the model.
func (s *Service) Restock(ctx context.Context) (RestockPlan, error) {
	low := s.catalog.LowStock()
	if len(low) == 0 {
		return RestockPlan{Suggestions: []RestockSuggestion{}}, nil
	}

	items := make([]restockItem, 0, len(low))
	for _, p := range low {
		items = append(items, restockItem{ID: p.ID, Name: p.Name, Category: p.Category, Price: p.Price, Stock: p.Stock, Tags: p.Tags})
	}
	listing, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return RestockPlan{}, fmt.Errorf("marshal low-stock items: %w", err)
	}

	plan, err := generateStructured(ctx, s, structuredCall[RestockPlan]{
		op:       "restock",
		prompt:   fmt.Sprintf(restockPrompt, s.catalog.LowStockThreshold(), listing),
		required: []string{"suggestions"},
		fallback: func(string) RestockPlan { return FallbackRestock(low) },
	})
	if err != nil {
		return RestockPlan{}, err
	}

	byID := make(map[string]catalog.Product, len(low))
	for _, p := range low {
		byID[p.ID] = p
	}

	// Names and stock come from the catalog, not the model.
	kept := make([]RestockSuggestion, 0, len(plan.Suggestions))
	for _, sg := range plan.Suggestions {
		p, ok := byID[strings.TrimSpace(sg.ProductID)]
		if !ok {
			s.logger.Warn("restock suggestion for unknown product", "productId", sg.ProductID)
			continue
		}
		sg.ProductID = p.ID
		sg.ProductName = p.Name
		sg.CurrentStock = p.Stock
		kept = append(kept, sg)
	}
	if len(kept) == 0 {
		return FallbackRestock(low), nil
	}
	return RestockPlan{Suggestions: kept}, nil
}

// FallbackRestock tops every item up to RestockTarget units.
func FallbackRestock(low []catalog.Product) RestockPlan {
	out := make([]RestockSuggestion, 0, len(low))
	for _, p := range low {
		qty := RestockTarget - p.Stock
		if qty <= 0 {
			continue
		}
		out = append(out, RestockSuggestion{
			ProductID:         p.ID,
			ProductName:       p.Name,
			CurrentStock:      p.Stock,
			SuggestedQuantity: qty,
			Reason:            fmt.Sprintf("Only %d left in stock; reorder to bring it back to %d units.", p.Stock, RestockTarget),
		})
	}
	return RestockPlan{Suggestions: out}
}
