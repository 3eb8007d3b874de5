package logging

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestFormatterLine(t *testing.T) {
	f := &CustomFormatter{SystemName: "ems-test"}
	entry := &logrus.Entry{
		Time:    time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Event ID: LOGIN, Description: user logged in",
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	line := string(out)

	for _, want := range []string{
		"Date: 2024-05-10",
		"Time: 09:30:00",
		"Event Source: ems-test",
		"Event Type: INFO",
		"Message: Event ID: LOGIN, Description: user logged in",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line missing %q: %s", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("line not newline terminated: %q", line)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("LOG_DIR", "")
	if got := envOr("LOG_DIR", "logs"); got != "logs" {
		t.Errorf("empty env: got %q, want fallback", got)
	}

	t.Setenv("LOG_DIR", t.TempDir())
	if got := envOr("LOG_DIR", "logs"); got == "logs" {
		t.Errorf("set env ignored")
	}
}

func TestInitLoggerHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", filepath.Join(dir, "audit"))
	t.Setenv("LOG_SYSTEM_NAME", "ems-test")
	t.Setenv("LOG_LEVEL", "debug")

	InitLogger()

	if Logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
	formatter, ok := Logger.Formatter.(*CustomFormatter)
	if !ok {
		t.Fatalf("formatter = %T", Logger.Formatter)
	}
	if formatter.SystemName != "ems-test" {
		t.Errorf("system name = %q", formatter.SystemName)
	}
}
