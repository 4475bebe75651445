package transfer

import (
	"errors"
	"testing"
)

func TestObjectURLIsDeterministic(t *testing.T) {
	key := StorageKey{DirectoryPath: []string{"mydir", "2025", "12", "27"}, Filename: "a", Extension: ".txt"}

	first := ObjectURL("obs.example.com", "media", key)
	second := ObjectURL("https://obs.example.com/", "media", key)

	want := "https://obs.example.com/media/mydir/2025/12/27/a.txt"
	if first != want || second != want {
		t.Fatalf("urls = %q, %q, want %q", first, second, want)
	}
}

func TestParseObjectURLPathStyle(t *testing.T) {
	bucket, key, err := ParseObjectURL("obs.example.com", "https://obs.example.com/media/mydir/a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bucket != "media" || key != "mydir/a.txt" {
		t.Fatalf("got %q %q", bucket, key)
	}
}

func TestParseObjectURLVirtualHostStyle(t *testing.T) {
	bucket, key, err := ParseObjectURL("obs.example.com", "https://media.obs.example.com/mydir/a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bucket != "media" || key != "mydir/a.txt" {
		t.Fatalf("got %q %q", bucket, key)
	}
}

func TestParseObjectURLUntrustedHost(t *testing.T) {
	_, _, err := ParseObjectURL("obs.example.com", "https://evil.example.org/media/a.txt")
	if !errors.Is(err, ErrUntrustedSource) {
		t.Fatalf("err = %v, want ErrUntrustedSource", err)
	}
}

func TestParseObjectURLMissingKey(t *testing.T) {
	if _, _, err := ParseObjectURL("obs.example.com", "https://obs.example.com/media"); err == nil {
		t.Fatal("expected error for url without object key")
	}
}
