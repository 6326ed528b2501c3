package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    Level
		wantErr bool
	}{
		{"debug", Debug, false},
		{"INFO", Info, false},
		{" notice ", Notice, false},
		{"warning", Warning, false},
		{"error", Error, false},
		{"loud", Notice, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSetLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	prev := CurrentLevel()
	SetSink(&buf)
	defer func() {
		SetLevel(prev)
	}()

	SetLevel(Warning)
	logger := New("frame")
	logger.Infof("dispatched %d tiles", 4)
	logger.Warningf("%d paths ran out of bounces", 2)

	out := buf.String()
	if strings.Contains(out, "dispatched") {
		t.Errorf("Info message should be filtered at warning level: %q", out)
	}
	if !strings.Contains(out, "2 paths ran out of bounces") || !strings.Contains(out, "[frame]") {
		t.Errorf("Expected the warning with its module name, got %q", out)
	}
}

func TestSetSinkKeepsLevel(t *testing.T) {
	prev := CurrentLevel()
	defer SetLevel(prev)

	SetLevel(Error)
	var buf bytes.Buffer
	SetSink(&buf)

	New("renderer").Warning("dropped")
	if buf.Len() != 0 {
		t.Errorf("Expected the error level to survive a sink change, got %q", buf.String())
	}
	if CurrentLevel() != Error {
		t.Errorf("Expected level error, got %v", CurrentLevel())
	}
}
