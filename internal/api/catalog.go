package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"stylemart/internal/catalog"
)

const catalogCacheControl = "public, max-age=300"

type productsResponse struct {
	Products []catalog.Product `json:"products"`
}

type productResponse struct {
	Product catalog.Product   `json:"product"`
	Related []catalog.Product `json:"related"`
}

type moodsResponse struct {
	Moods []string `json:"moods"`
}

type moodResponse struct {
	Mood     string            `json:"mood"`
	Products []catalog.Product `json:"products"`
}

type categoriesResponse struct {
	Categories []catalog.Category `json:"categories"`
}

type lowStockResponse struct {
	Threshold int               `json:"threshold"`
	Products  []catalog.Product `json:"products"`
}

func writeCatalog(w http.ResponseWriter, v any) {
	w.Header().Set("Cache-Control", catalogCacheControl)
	writeJSON(w, http.StatusOK, v)
}

func orEmpty(in []catalog.Product) []catalog.Product {
	if in == nil {
		return []catalog.Product{}
	}
	return in
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	var tags []string
	for _, t := range strings.Split(r.URL.Query().Get("tags"), ",") {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}

	if len(tags) == 0 {
		writeCatalog(w, productsResponse{Products: h.catalog.Products()})
		return
	}
	writeCatalog(w, productsResponse{Products: orEmpty(h.catalog.ByTags(tags...))})
}

func (h *Handler) handleProduct(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "productID"))
	p, ok := h.catalog.Product(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "product not found"})
		return
	}
	writeCatalog(w, productResponse{Product: p, Related: orEmpty(h.catalog.Related(id))})
}

func (h *Handler) handleDeals(w http.ResponseWriter, r *http.Request) {
	writeCatalog(w, productsResponse{Products: orEmpty(h.catalog.Deals())})
}

func (h *Handler) handleMoods(w http.ResponseWriter, r *http.Request) {
	writeCatalog(w, moodsResponse{Moods: h.catalog.Moods()})
}

func (h *Handler) handleMood(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "mood"))
	products, ok := h.catalog.Mood(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: "mood not found"})
		return
	}
	writeCatalog(w, moodResponse{Mood: canonicalMood(h.catalog, name), Products: orEmpty(products)})
}

func canonicalMood(c *catalog.Catalog, name string) string {
	for _, m := range c.Moods() {
		if strings.EqualFold(m, name) {
			return m
		}
	}
	return name
}

func (h *Handler) handleInspired(w http.ResponseWriter, r *http.Request) {
	writeCatalog(w, productsResponse{Products: orEmpty(h.catalog.Inspired())})
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeCatalog(w, categoriesResponse{Categories: h.catalog.Categories()})
}

func (h *Handler) handleLowStock(w http.ResponseWriter, r *http.Request) {
	writeCatalog(w, lowStockResponse{
		Threshold: h.catalog.LowStockThreshold(),
		Products:  orEmpty(h.catalog.LowStock()),
	})
}
