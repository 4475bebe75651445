package transfer

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"ferry/pkg/storage"
)

func batchRequests(n int) []Request {
	reqs := make([]Request, n)
	for i := range reqs {
		reqs[i] = Request{
			SourceName: fmt.Sprintf("file-%d.txt", i),
			Body:       []byte(fmt.Sprintf("payload %d", i)),
			Directory:  "batch",
		}
	}
	return reqs
}

func TestUploadAllPartialFailurePreservesOrder(t *testing.T) {
	store := newFakeStore()
	// Item index 4 (the fifth) fails at the transport layer.
	store.putErr["batch/file-4.txt"] = &storage.StatusError{Code: 500, Message: "backend exploded"}

	c := NewCoordinator(newTestTransferrer(store), 10, 4)
	br, err := c.UploadAll(context.Background(), batchRequests(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(br.Items) != 10 {
		t.Fatalf("len = %d, want 10", len(br.Items))
	}
	if br.Succeeded != 9 || br.Failed != 1 {
		t.Fatalf("summary = %d/%d", br.Succeeded, br.Failed)
	}
	for i, item := range br.Items {
		wantName := fmt.Sprintf("file-%d.txt", i)
		if item.OriginalFilename != wantName {
			t.Fatalf("item %d is %q, output order must match input order", i, item.OriginalFilename)
		}
		wantStatus := StatusSuccess
		if i == 4 {
			wantStatus = StatusFailed
		}
		if item.Status != wantStatus {
			t.Fatalf("item %d status = %v (%s)", i, item.Status, item.ErrorMessage)
		}
	}
}

func TestUploadAllTooManyItemsFailsFast(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(newTestTransferrer(store), 10, 4)

	_, err := c.UploadAll(context.Background(), batchRequests(11))
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("err = %v, want ErrBatchTooLarge", err)
	}
	if puts, _ := store.calls(); puts != 0 {
		t.Fatalf("oversized batch performed %d network calls, want 0", puts)
	}
}

func TestUploadAllValidationErrorIsolated(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(newTestTransferrer(store), 10, 4)

	reqs := batchRequests(3)
	reqs[1].Directory = "../escape"

	br, err := c.UploadAll(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.Items[0].Status != StatusSuccess || br.Items[2].Status != StatusSuccess {
		t.Fatal("siblings of an invalid item must still run")
	}
	if br.Items[1].Status != StatusFailed {
		t.Fatal("invalid item must be reported as failed")
	}
}

func TestFetchAllCancelledContextStopsNewItems(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(newTestTransferrer(store), 10, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	br, err := c.FetchAll(ctx, []string{"https://obs.example.com/media/d/a.txt", "https://obs.example.com/media/d/b.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(br.Items) != 2 || br.Failed != 2 {
		t.Fatalf("summary = %+v", br)
	}
}

func TestCoordinatorOnResultSeesEveryItem(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(newTestTransferrer(store), 10, 2)

	seen := make(chan int, 10)
	c.OnResult = func(i int, _ Result) { seen <- i }

	if _, err := c.UploadAll(context.Background(), batchRequests(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	close(seen)

	var got []int
	for i := range seen {
		got = append(got, i)
	}
	if len(got) != 5 {
		t.Fatalf("callback fired %d times, want 5", len(got))
	}
}

func TestUploadAllTimestampModeAvoidsCollisions(t *testing.T) {
	store := newFakeStore()
	c := NewCoordinator(newTestTransferrer(store), 10, 4)

	// Same source name twice, fixed clock: the coordinator must still
	// produce two distinct keys.
	reqs := []Request{
		{SourceName: "dup.txt", Body: []byte("one"), Directory: "d", FilenameMode: NameModeTimestamp},
		{SourceName: "dup.txt", Body: []byte("two"), Directory: "d", FilenameMode: NameModeTimestamp},
	}

	br, err := c.UploadAll(context.Background(), reqs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if br.Failed != 0 {
		t.Fatalf("failures: %+v", br.Items)
	}
	if br.Items[0].Key.String() == br.Items[1].Key.String() {
		t.Fatalf("keys collided: %q", br.Items[0].Key.String())
	}
}

func TestSplitURLList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"urlA;;urlB", []string{"urlA", "urlB"}},
		{" a ; b ;", []string{"a", "b"}},
		{"a;a", []string{"a", "a"}},
		{";;;", nil},
	}
	for _, tt := range tests {
		if got := SplitURLList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("SplitURLList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
