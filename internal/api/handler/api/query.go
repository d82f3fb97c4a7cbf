package api

import (
	"net/http"
	"net/url"

	"github.com/newthinker/tickerscope/internal/dashboard"
)

// symbolQuery parses the request's query string with the path symbol taking
// the place of the ticker parameter.
func symbolQuery(r *http.Request, symbol string, d dashboard.Defaults) (dashboard.Query, error) {
	v := cloneValues(r.URL.Query())
	v.Set("ticker", symbol)
	return dashboard.ParseQuery(v, d)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
