package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/CosmoTheDev/rekt-terminal/internal/terminal"
)

func TestValidateOutput(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		if err := validateOutput(f); err != nil {
			t.Errorf("validateOutput(%q) = %v", f, err)
		}
	}
	if err := validateOutput("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestWriteEncodedYAMLUsesJSONNames(t *testing.T) {
	raw, err := terminal.MarshalResponse(terminal.ReferralResponse{Code: "REKT-1234ABCD", Link: "https://rekt.example/r/REKT-1234ABCD"})
	if err != nil {
		t.Fatalf("MarshalResponse: %v", err)
	}
	var buf bytes.Buffer
	if err := writeEncodedJSON(&buf, outputYAML, raw); err != nil {
		t.Fatalf("writeEncodedJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"type: referral", "code: REKT-1234ABCD"} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEncodedJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeEncoded(&buf, outputJSON, map[string]int{"scans": 2}); err != nil {
		t.Fatalf("writeEncoded: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "{\n  \"scans\": 2\n}" {
		t.Fatalf("json output = %q", got)
	}
}
