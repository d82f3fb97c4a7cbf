package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/api/response"
)

// DefaultSearchURL is Yahoo's symbol autocomplete endpoint.
const DefaultSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"

// SymbolSearchResult represents a single search result
type SymbolSearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Market   string `json:"market"`
	Type     string `json:"type"`
}

// SymbolsHandler handles symbol search API requests
type SymbolsHandler struct {
	httpClient *http.Client
	searchURL  string
	userAgent  string
	logger     *zap.Logger
}

// NewSymbolsHandler creates a new symbols handler. An empty searchURL uses
// DefaultSearchURL.
func NewSymbolsHandler(searchURL, userAgent string, timeout time.Duration, logger *zap.Logger) *SymbolsHandler {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SymbolsHandler{
		httpClient: &http.Client{Timeout: timeout},
		searchURL:  searchURL,
		userAgent:  userAgent,
		logger:     logger,
	}
}

// Search handles GET /api/v1/symbols/search?q=<query>. Lookup failures
// produce an empty result list.
func (h *SymbolsHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		response.JSON(w, http.StatusOK, map[string]any{
			"results": []SymbolSearchResult{},
		})
		return
	}

	results, err := h.searchYahoo(r, query)
	if err != nil {
		h.logger.Warn("symbol search failed", zap.String("query", query), zap.Error(err))
		results = []SymbolSearchResult{}
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// searchYahoo searches Yahoo Finance for symbols
func (h *SymbolsHandler) searchYahoo(r *http.Request, query string) ([]SymbolSearchResult, error) {
	apiURL := fmt.Sprintf("%s?q=%s&quotesCount=10&newsCount=0", h.searchURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var yahooResp struct {
		Quotes []struct {
			Symbol    string `json:"symbol"`
			ShortName string `json:"shortname"`
			LongName  string `json:"longname"`
			Exchange  string `json:"exchange"`
			QuoteType string `json:"quoteType"`
		} `json:"quotes"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&yahooResp); err != nil {
		return nil, err
	}

	results := []SymbolSearchResult{}
	for _, q := range yahooResp.Quotes {
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}

		results = append(results, SymbolSearchResult{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.Exchange,
			Market:   detectMarket(q.Exchange, q.Symbol),
			Type:     detectType(q.QuoteType),
		})
	}

	return results, nil
}

// detectMarket detects market from Yahoo exchange code
func detectMarket(exchange, symbol string) string {
	exchange = strings.ToUpper(exchange)
	switch {
	case exchange == "TAI" || strings.HasSuffix(symbol, ".TW"):
		return "TWSE"
	case exchange == "TWO" || strings.HasSuffix(symbol, ".TWO"):
		return "TPEx"
	case exchange == "HKG" || strings.HasSuffix(symbol, ".HK"):
		return "HK"
	case strings.HasSuffix(symbol, ".SS") || strings.HasSuffix(symbol, ".SZ"):
		return "CN"
	default:
		return "US"
	}
}

// detectType detects asset type from Yahoo quote type
func detectType(quoteType string) string {
	switch strings.ToUpper(quoteType) {
	case "ETF":
		return "etf"
	case "INDEX":
		return "index"
	case "MUTUALFUND":
		return "fund"
	case "CRYPTOCURRENCY":
		return "crypto"
	case "FUTURE":
		return "future"
	default:
		return "stock"
	}
}
