package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/newthinker/tickerscope/internal/api/response"
	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/news"
)

// NewsHandler handles headline lookups.
type NewsHandler struct {
	provider news.Provider
	limit    int
}

// NewNewsHandler creates a new news handler returning at most limit items.
func NewNewsHandler(provider news.Provider, limit int) *NewsHandler {
	return &NewsHandler{provider: provider, limit: limit}
}

// List handles GET /api/v1/news?q=<query>
func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrQueryInvalid, errors.New("q is required")))
		return
	}

	items := news.Top(h.provider.Search(r.Context(), query), h.limit)
	if items == nil {
		items = []news.Item{}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"query": query,
		"items": items,
	})
}
