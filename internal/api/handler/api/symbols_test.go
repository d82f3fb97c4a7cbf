package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolsHandler_Search(t *testing.T) {
	var gotQuery, gotAgent string
	yahoo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"quotes":[
			{"symbol":"2330.TW","shortname":"TSMC","longname":"Taiwan Semiconductor Manufacturing Company Limited","exchange":"TAI","quoteType":"EQUITY"},
			{"symbol":"0050.TW","shortname":"YUANTA 50","exchange":"TAI","quoteType":"ETF"},
			{"symbol":"TSM","shortname":"TSMC ADR","exchange":"NYQ","quoteType":"EQUITY"}
		]}`))
	}))
	defer yahoo.Close()

	handler := NewSymbolsHandler(yahoo.URL, "tickerscope-test", time.Second, nil)

	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest("GET", "/api/v1/symbols/search?q=tsmc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tsmc", gotQuery)
	assert.Equal(t, "tickerscope-test", gotAgent)

	results := decodeData(t, w)["results"].([]any)
	require.Len(t, results, 3)

	first := results[0].(map[string]any)
	assert.Equal(t, "2330.TW", first["symbol"])
	assert.Equal(t, "Taiwan Semiconductor Manufacturing Company Limited", first["name"])
	assert.Equal(t, "TWSE", first["market"])
	assert.Equal(t, "stock", first["type"])

	second := results[1].(map[string]any)
	assert.Equal(t, "YUANTA 50", second["name"])
	assert.Equal(t, "etf", second["type"])

	assert.Equal(t, "US", results[2].(map[string]any)["market"])
}

func TestSymbolsHandler_Search_ShortQuery(t *testing.T) {
	handler := NewSymbolsHandler("http://127.0.0.1:0", "", time.Second, nil)

	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest("GET", "/api/v1/symbols/search?q=t", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeData(t, w)["results"])
}

func TestSymbolsHandler_Search_UpstreamFailure(t *testing.T) {
	yahoo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer yahoo.Close()

	handler := NewSymbolsHandler(yahoo.URL, "", time.Second, nil)

	w := httptest.NewRecorder()
	handler.Search(w, httptest.NewRequest("GET", "/api/v1/symbols/search?q=tsmc", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decodeData(t, w)["results"])
}

func TestDetectMarket(t *testing.T) {
	tests := []struct {
		exchange, symbol, want string
	}{
		{"TAI", "2330.TW", "TWSE"},
		{"", "6488.TWO", "TPEx"},
		{"HKG", "0700.HK", "HK"},
		{"SHH", "600519.SS", "CN"},
		{"NMS", "AAPL", "US"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectMarket(tt.exchange, tt.symbol), tt.symbol)
	}
}
