package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLoggingBeforeInit(t *testing.T) {
	if Log == nil || Sugar == nil {
		t.Fatal("package logger must be usable before Init")
	}
	Warn("placed geometry without a mesh", zap.String("label", "entry_0"))
	Sync()
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	old := console
	console = &buf
	defer func() { console = old }()

	if err := Init("warn", ""); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	Info("exported level")
	Warn("placed geometry without a mesh", zap.String("label", "rock"))
	Sync()

	out := buf.String()
	if strings.Contains(out, "exported level") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "placed geometry without a mesh") || !strings.Contains(out, `"label": "rock"`) {
		t.Errorf("expected warning with label field, got %s", out)
	}
}

func TestStructuredFields(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "fields.log")

	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	Info("exported level", zap.Int("entries", 12), zap.String("format", "SA2"))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	for _, want := range []string{"exported level", `"entries": 12`, `"format": "SA2"`} {
		if !strings.Contains(string(content), want) {
			t.Errorf("expected %q in log output, got %s", want, content)
		}
	}
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "convert.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	label := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("converted mesh %d: %s", i, label)
	}
	Sync()

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var current bool
	var rotated []string
	for _, f := range files {
		switch {
		case f.Name() == "convert.log":
			current = true
		case strings.HasPrefix(f.Name(), "convert-20") && strings.HasSuffix(f.Name(), ".log"):
			rotated = append(rotated, f.Name())
		}
	}
	if !current {
		t.Error("current log file does not exist")
	}
	if len(rotated) == 0 {
		t.Errorf("expected rotated log files, got %v", files)
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			for _, exp := range tt.expected {
				if !strings.Contains(string(content), exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(string(content), exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
		{"fatal", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/saiotool.log")

	if cfg.Path != "/tmp/saiotool.log" {
		t.Errorf("expected path /tmp/saiotool.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation limits: %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
