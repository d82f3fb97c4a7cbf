package core

import (
	"testing"
	"time"
)

func TestOHLCV_IsUp(t *testing.T) {
	tests := []struct {
		name string
		bar  OHLCV
		want bool
	}{
		{"close above open", OHLCV{Open: 100, Close: 101}, true},
		{"flat", OHLCV{Open: 100, Close: 100}, true},
		{"close below open", OHLCV{Open: 100, Close: 99}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.bar.IsUp(); got != tt.want {
				t.Errorf("IsUp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOHLCV_Date(t *testing.T) {
	bar := OHLCV{Time: time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC)}
	if bar.Date() != "2024-03-08" {
		t.Errorf("Date() = %s, want 2024-03-08", bar.Date())
	}
}

func TestClosesAndVolumes(t *testing.T) {
	bars := []OHLCV{
		{Close: 10, Volume: 100},
		{Close: 11, Volume: 200},
	}

	closes := Closes(bars)
	if len(closes) != 2 || closes[0] != 10 || closes[1] != 11 {
		t.Errorf("unexpected closes: %v", closes)
	}

	volumes := Volumes(bars)
	if len(volumes) != 2 || volumes[0] != 100 || volumes[1] != 200 {
		t.Errorf("unexpected volumes: %v", volumes)
	}

	// Mutating the extracted slice must not touch the bars.
	closes[0] = 999
	if bars[0].Close != 10 {
		t.Error("Closes must return a copy")
	}
}
