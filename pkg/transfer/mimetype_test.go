package transfer

import "testing"

func TestInferTypeDeclaredWins(t *testing.T) {
	ct, ext := InferType("application/pdf", []byte("%PDF-1.7"), "report")
	if ct != "application/pdf" || ext != ".pdf" {
		t.Fatalf("got %q %q", ct, ext)
	}

	// Parameters are stripped from declared types.
	ct, ext = InferType("text/plain; charset=utf-8", nil, "notes")
	if ct != "text/plain" || ext != ".txt" {
		t.Fatalf("got %q %q", ct, ext)
	}
}

func TestInferTypeSniffsSignature(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	ct, ext := InferType("", png, "picture")
	if ct != "image/png" || ext != ".png" {
		t.Fatalf("got %q %q", ct, ext)
	}
}

func TestInferTypeFallsBackToExtension(t *testing.T) {
	// Payload bytes that sniff as octet-stream.
	blob := []byte{0x00, 0x01, 0x02, 0x03}
	ct, ext := InferType("", blob, "archive.zip")
	if ct != "application/zip" || ext != ".zip" {
		t.Fatalf("got %q %q", ct, ext)
	}
}

func TestInferTypeUnknownDegrades(t *testing.T) {
	blob := []byte{0x00, 0xff, 0x00, 0xff}
	ct, ext := InferType("", blob, "mystery")
	if ct != "application/octet-stream" || ext != ".bin" {
		t.Fatalf("got %q %q", ct, ext)
	}
}

func TestInferTypeDeclaredOctetStreamIsIgnored(t *testing.T) {
	// A generic declared type should not block better heuristics.
	ct, ext := InferType("application/octet-stream", nil, "data.json")
	if ct != "application/json" || ext != ".json" {
		t.Fatalf("got %q %q", ct, ext)
	}
}

func TestContentTypeForExtension(t *testing.T) {
	tests := []struct {
		reported string
		filename string
		want     string
	}{
		{"application/octet-stream", "photo.png", "image/png"},
		{"text/html", "movie.mp4", "video/mp4"},
		{"application/json", "data.unknown", "application/json"},
		{"", "data.unknown", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentTypeForExtension(tt.reported, tt.filename); got != tt.want {
			t.Fatalf("ContentTypeForExtension(%q, %q) = %q, want %q", tt.reported, tt.filename, got, tt.want)
		}
	}
}
