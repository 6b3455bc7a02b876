package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ziadkadry99/kinlink-docs/internal/content"
	"github.com/ziadkadry99/kinlink-docs/internal/copybutton"
)

func testSample() content.Sample {
	return content.Sample{
		Name:       "hello",
		Title:      "Say hello",
		CodeSample: content.CodeSample{Source: "a\nb\n", Language: "javascript", Filename: "hello.js"},
	}
}

func TestCopySample(t *testing.T) {
	var got string
	clip := copybutton.ClipboardFunc(func(_ context.Context, text string) error {
		got = text
		return nil
	})

	var out bytes.Buffer
	if !copySample(context.Background(), &out, testSample(), clip) {
		t.Fatal("copySample reported failure")
	}
	if got != "a\nb\n" {
		t.Errorf("clipboard = %q, want full source", got)
	}
	if want := "Copied hello.js (2 lines)"; !strings.Contains(out.String(), want) {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCopySampleFailureIsNotFatal(t *testing.T) {
	failing := copybutton.ClipboardFunc(func(context.Context, string) error {
		return errors.New("denied")
	})

	for name, clip := range map[string]copybutton.Clipboard{
		"no clipboard":   nil,
		"write rejected": failing,
	} {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			if copySample(context.Background(), &out, testSample(), clip) {
				t.Fatal("copySample reported success")
			}
			if strings.Contains(out.String(), "Copied") {
				t.Errorf("output confirms a copy: %q", out.String())
			}
			if !strings.Contains(out.String(), "samples show hello") {
				t.Errorf("output = %q, want a pointer to samples show", out.String())
			}
		})
	}
}
