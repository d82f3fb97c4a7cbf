package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/newthinker/tickerscope/internal/core"
	"github.com/newthinker/tickerscope/internal/dashboard"
)

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) ObserveExport(sink, status string) {
	r.calls = append(r.calls, sink+":"+status)
}

type failingSink struct{}

func (failingSink) Name() string { return "broken" }
func (failingSink) Write(ctx context.Context, path string, data []byte) error {
	return errors.New("disk full")
}
func (failingSink) List(ctx context.Context, prefix string) ([]string, error) { return nil, nil }
func (failingSink) Exists(ctx context.Context, path string) (bool, error)     { return false, nil }

func TestSnapshotPath(t *testing.T) {
	at := time.Date(2024, 6, 15, 18, 0, 0, 0, time.FixedZone("CST", 8*3600))
	assert.Equal(t, "2330.TW/20240615T100000Z.csv", SnapshotPath("2330.TW", at))
	assert.Equal(t, "A_B/20240615T100000Z.csv", SnapshotPath("A/B", at))
}

func TestExporter_Export(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewLocalFS(dir)
	require.NoError(t, err)

	obs := &recordingObserver{}
	e := NewExporter(sink, obs, zaptest.NewLogger(t))
	e.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	rows := []dashboard.Row{
		{Date: "2024-06-14", Open: 10, High: 11, Low: 9.5, Close: 10.5, Volume: 1200},
		{Date: "2024-06-13", Open: 9, High: 10, Low: 8.75, Close: 10, Volume: 900},
	}

	path, err := e.Export(context.Background(), "2330.TW", rows)
	require.NoError(t, err)
	assert.Equal(t, "2330.TW/20240615T100000Z.csv", path)

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t,
		"date,open,high,low,close,volume\n"+
			"2024-06-14,10,11,9.5,10.5,1200\n"+
			"2024-06-13,9,10,8.75,10,900\n",
		string(data))

	assert.Equal(t, []string{"localfs:ok"}, obs.calls)

	snaps, err := e.Snapshots(context.Background(), "2330.TW")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, snaps)
}

func TestExporter_SinkFailure(t *testing.T) {
	obs := &recordingObserver{}
	e := NewExporter(failingSink{}, obs, nil)

	_, err := e.Export(context.Background(), "2330.TW", nil)
	require.Error(t, err)

	var coreErr *core.Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, "EXPORT_FAILED", coreErr.Code)
	assert.Equal(t, []string{"broken:error"}, obs.calls)
}

func TestNew(t *testing.T) {
	sink, err := New(Config{Type: "localfs", Path: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "localfs", sink.Name())

	sink, err = New(Config{Type: "s3", S3: S3Config{Bucket: "b", Endpoint: "http://127.0.0.1:9000"}})
	require.NoError(t, err)
	assert.Equal(t, "s3", sink.Name())

	_, err = New(Config{Type: "ftp"})
	assert.Error(t, err)
}
