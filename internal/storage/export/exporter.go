package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

// Observer receives the outcome of every export.
type Observer interface {
	ObserveExport(sink, status string)
}

// Exporter writes table snapshots to a sink.
type Exporter struct {
	sink   Sink
	obs    Observer
	logger *zap.Logger
	now    func() time.Time
}

// NewExporter creates an exporter over sink. obs may be nil.
func NewExporter(sink Sink, obs Observer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{sink: sink, obs: obs, logger: logger, now: time.Now}
}

// SnapshotPath is where a snapshot of symbol taken at t is stored.
func SnapshotPath(symbol string, t time.Time) string {
	return fmt.Sprintf("%s/%s.csv", snapshotDir(symbol), t.UTC().Format("20060102T150405Z"))
}

func snapshotDir(symbol string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, symbol)
}

// Export writes rows as CSV and returns the stored path.
func (e *Exporter) Export(ctx context.Context, symbol string, rows []dashboard.Row) (string, error) {
	var buf bytes.Buffer
	if err := dashboard.WriteCSV(&buf, rows); err != nil {
		e.observe("error")
		return "", core.WrapError(core.ErrExportFailed, err)
	}

	path := SnapshotPath(symbol, e.now())
	if err := e.sink.Write(ctx, path, buf.Bytes()); err != nil {
		e.observe("error")
		e.logger.Error("export failed",
			zap.String("sink", e.sink.Name()),
			zap.String("path", path),
			zap.Error(err),
		)
		return "", core.WrapError(core.ErrExportFailed, err)
	}

	e.observe("ok")
	e.logger.Info("exported snapshot",
		zap.String("sink", e.sink.Name()),
		zap.String("symbol", symbol),
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)
	return path, nil
}

// Snapshots lists stored snapshots for symbol.
func (e *Exporter) Snapshots(ctx context.Context, symbol string) ([]string, error) {
	return e.sink.List(ctx, snapshotDir(symbol)+"/")
}

func (e *Exporter) observe(status string) {
	if e.obs != nil {
		e.obs.ObserveExport(e.sink.Name(), status)
	}
}
