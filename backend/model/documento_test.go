package model

import "testing"

func TestFormatearTamanio(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1536, "1.50 KB"},
		{10 * 1024 * 1024, "10.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatearTamanio(tt.bytes); got != tt.expected {
			t.Errorf("FormatearTamanio(%d): expected %q, got %q", tt.bytes, tt.expected, got)
		}
	}
}

func TestMimePermitido(t *testing.T) {
	if !MimePermitido("application/pdf") {
		t.Error("PDF should be allowed")
	}
	if MimePermitido("application/zip") {
		t.Error("ZIP should not be allowed")
	}
}
