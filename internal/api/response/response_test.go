package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newthinker/tickerscope/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"hello": "world"}

	JSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json content type")
	}

	var resp SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil {
		t.Error("expected data in response")
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestError_WithCoreError(t *testing.T) {
	w := httptest.NewRecorder()
	err := core.WrapError(core.ErrSymbolInvalid, errors.New(`"??" is not a ticker`))

	Error(w, http.StatusBadRequest, err)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "SYMBOL_INVALID" {
		t.Errorf("expected SYMBOL_INVALID, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != `"??" is not a ticker` {
		t.Errorf("unexpected cause %q", resp.Error.Cause)
	}
}

func TestError_WithStandardError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusInternalServerError, errors.New("boom"))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected INTERNAL_ERROR, got %s", resp.Error.Code)
	}
	if resp.Error.Cause != "" {
		t.Errorf("plain errors must not leak a cause, got %q", resp.Error.Cause)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrSymbolInvalid, http.StatusBadRequest},
		{core.WrapError(core.ErrRangeInvalid, nil), http.StatusBadRequest},
		{core.ErrQueryInvalid, http.StatusBadRequest},
		{core.ErrInvalidWindow, http.StatusBadRequest},
		{core.ErrInvalidCapital, http.StatusBadRequest},
		{core.ErrNoData, http.StatusNotFound},
		{fmt.Errorf("fetching: %w", core.ErrNoData), http.StatusNotFound},
		{core.WrapError(core.ErrCollectorFailed, errors.New("503")), http.StatusBadGateway},
		{core.ErrExportFailed, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFail(t *testing.T) {
	w := httptest.NewRecorder()
	Fail(w, core.WrapError(core.ErrCollectorFailed, errors.New("upstream 503")))

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}
