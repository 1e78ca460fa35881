package api

import (
	"errors"
	"net/http"

	"stylemart/internal/render"
	"stylemart/internal/stylist"
)

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Response     string `json:"response"`
	ResponseHTML string `json:"responseHtml,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	reply, err := h.stylist.Chat(r.Context(), req.Query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := chatResponse{Response: reply}
	if html, err := render.Markdown(reply); err != nil {
		h.logger.Warn("render chat reply", "error", err)
	} else {
		out.ResponseHTML = html
	}
	writeJSON(w, http.StatusOK, out)
}

type styleAdvisorRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
}

func (h *Handler) handleStyleAdvisor(w http.ResponseWriter, r *http.Request) {
	var req styleAdvisorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	advice, err := h.stylist.StyleAdvice(r.Context(), req.PhotoDataURI)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, advice)
}

func (h *Handler) handleSmartStylist(w http.ResponseWriter, r *http.Request) {
	var req stylist.SmartStylistInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.stylist.SmartStylist(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req stylist.RecommendInput
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	rec, err := h.stylist.Recommend(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleRestock(w http.ResponseWriter, r *http.Request) {
	plan, err := h.stylist.Restock(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type probeFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *Handler) handleProbe(w http.ResponseWriter, r *http.Request) {
	result, err := h.stylist.Probe(r.Context())
	if err != nil {
		var probeErr *stylist.ProbeError
		if errors.As(err, &probeErr) {
			h.logger.Warn("generator probe failed", "error", err)
			writeJSON(w, http.StatusBadGateway, probeFailure{Success: false, Error: probeErr.Error()})
			return
		}
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (h *Handler) handlePexels(w http.ResponseWriter, r *http.Request) {
	if h.images == nil {
		h.writeError(w, r, errors.New("image resolver is not wired"))
		return
	}

	url, err := h.images.Resolve(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	writeJSON(w, http.StatusOK, imageResponse{ImageURL: url})
}
