package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	type entry struct {
		Level      string            `json:"level"`
		Message    string            `json:"message"`
		Properties map[string]string `json:"properties"`
		Trace      string            `json:"trace"`
	}

	t.Run("INFO level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("server started", map[string]string{"addr": ":4000"})
		var got entry
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", got.Level)
		}
		if got.Message != "server started" {
			t.Errorf("unexpected message %q", got.Message)
		}
		if got.Properties["addr"] != ":4000" {
			t.Errorf("unexpected properties %v", got.Properties)
		}
		if got.Trace != "" {
			t.Error("expected no stack trace at INFO level")
		}
	})

	t.Run("ERROR level includes trace", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var got entry
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", got.Level)
		}
		if got.Trace == "" {
			t.Error("expected a stack trace at ERROR level")
		}
	})

	t.Run("FATAL level logs and terminates", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		exitCode := -1
		l.exit = func(code int) { exitCode = code }
		l.PrintFatal(errors.New("database connection failed"), nil)
		if exitCode != 1 {
			t.Errorf("expected exit code 1; got %d", exitCode)
		}
		var got entry
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Level != "FATAL" {
			t.Errorf("expected level FATAL; got %s", got.Level)
		}
	})

	t.Run("below minimum level is discarded", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("ignored", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})
}
