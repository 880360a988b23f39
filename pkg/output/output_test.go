package output

import (
	"strings"
	"testing"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format string
		valid  bool
	}{
		{"text", true},
		{"json", true},
		{"table", false},
		{"yaml", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateFormat(tt.format); got != tt.valid {
			t.Errorf("ValidateFormat(%q) = %v, want %v", tt.format, got, tt.valid)
		}
	}
}

func TestFormatAsPrettyJSON(t *testing.T) {
	out, err := FormatAsPrettyJSON(map[string]string{"key": "value"})
	if err != nil {
		t.Fatalf("FormatAsPrettyJSON failed: %v", err)
	}
	if !strings.Contains(out, `"key": "value"`) {
		t.Errorf("Output not indented JSON: %s", out)
	}
}

func TestFormatAsPrettyJSON_Unmarshalable(t *testing.T) {
	if _, err := FormatAsPrettyJSON(make(chan int)); err == nil {
		t.Error("Channels should not serialize")
	}
}

func TestPrintHelpers_NoPanic(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Print helper panicked: %v", r)
		}
	}()

	PrintSuccess("ok %d", 1)
	PrintError("bad %s", "thing")
	PrintInfo("fyi")
	PrintWarning("careful")
}
