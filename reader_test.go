package lakefs

import (
	"errors"
	"io"
	"testing"

	"github.com/additiveai/lakeFS/api/ephemeral"
)

func newTestClient(t *testing.T) (*Client, *ephemeral.Transport) {
	t.Helper()

	transport := ephemeral.New()
	client, err := NewClient(WithTransport(transport))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	return client, transport
}

func seedObject(t *testing.T, transport *ephemeral.Transport, repository, branch, path string, content []byte) {
	t.Helper()

	_, err := transport.UploadObject(t.Context(), repository, branch, path, content, nil)
	if err != nil {
		t.Fatalf("failed to seed object %s: %v", path, err)
	}
}

func TestRangeString(t *testing.T) {
	cases := []struct {
		Name     string
		Start    int64
		N        int64
		Expected string
	}{
		{"full_object", 0, -1, ""},
		{"from_start_with_length", 0, 10, "bytes=0-9"},
		{"tail_read", 5, -1, "bytes=5-"},
		{"mid_read", 5, 10, "bytes=5-14"},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			if got := rangeString(tt.Start, tt.N); got != tt.Expected {
				t.Errorf("rangeString(%d, %d) = %q, expected %q", tt.Start, tt.N, got, tt.Expected)
			}
		})
	}
}

func TestObjectReader_Seek(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello world"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	pos, err := reader.Seek(10, io.SeekStart)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if pos != 10 {
		t.Errorf("expected position 10, got %d", pos)
	}

	if _, err := reader.Seek(-1, io.SeekStart); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative seek, got %v", err)
	}

	if _, err := reader.Seek(0, io.SeekEnd); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation for end-relative seek, got %v", err)
	}
}

// Relative seeks resolve to offset minus the whence code, independent of
// the current position. The test pins that behavior.
func TestObjectReader_SeekCurrentUsesWhenceAsBase(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello world"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	pos, err := reader.Seek(7, io.SeekCurrent)
	if err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	if pos != 7-int64(io.SeekCurrent) {
		t.Errorf("expected position %d, got %d", 7-int64(io.SeekCurrent), pos)
	}
}

func TestObjectReader_ReadAdvancesPosition(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello world"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	buffer := make([]byte, 5)
	n, err := reader.Read(buffer)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 bytes, got %d", n)
	}
	if string(buffer) != "hello" {
		t.Errorf("expected %q, got %q", "hello", string(buffer))
	}
	if reader.Tell() != 5 {
		t.Errorf("expected position 5, got %d", reader.Tell())
	}

	rest, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(rest) != " world" {
		t.Errorf("expected %q, got %q", " world", string(rest))
	}
	if reader.Tell() != 11 {
		t.Errorf("expected position 11, got %d", reader.Tell())
	}
}

func TestObjectReader_ReadEmptyBuffer(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Read(nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty read buffer, got %v", err)
	}
	if transport.CallCount("get") != 0 {
		t.Errorf("expected no remote fetch, got %d", transport.CallCount("get"))
	}
}

func TestObjectReader_ReadPastEnd(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Seek(100, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	if _, err := reader.Read(make([]byte, 4)); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF past object end, got %v", err)
	}

	contents, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(contents) != 0 {
		t.Errorf("expected empty tail read, got %q", contents)
	}
}

func TestObjectReader_ReadAllFromPosition(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello world"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Seek(6, io.SeekStart); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}

	contents, err := reader.ReadAllString()
	if err != nil {
		t.Fatalf("ReadAllString failed: %v", err)
	}
	if contents != "world" {
		t.Errorf("expected %q, got %q", "world", contents)
	}
}

func TestObjectReader_TextModeInvalidUTF8(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "bin.dat", []byte{0xff, 0xfe, 0xfd})

	reader, err := client.Object("repo", "main", "bin.dat").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.ReadAll(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for invalid UTF-8 in text mode, got %v", err)
	}

	binary, err := client.Object("repo", "main", "bin.dat").Open(t.Context(), WithOpenMode(OpenModeReadBinary))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer binary.Close()

	contents, err := binary.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(contents) != 3 {
		t.Errorf("expected 3 bytes, got %d", len(contents))
	}
}

func TestObjectReader_UnsupportedOperations(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Write([]byte("data")); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation from Write, got %v", err)
	}
	if _, err := reader.WriteString("data"); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation from WriteString, got %v", err)
	}
	if _, err := reader.ReadLine(); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation from ReadLine, got %v", err)
	}
	if err := reader.Truncate(0); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("expected ErrUnsupportedOperation from Truncate, got %v", err)
	}
}

func TestObjectReader_Close(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello"))

	reader, err := client.Object("repo", "main", "a/b.txt").Open(t.Context())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := reader.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Errorf("expected idempotent Close, got %v", err)
	}
	if !reader.Closed() {
		t.Error("expected Closed to report true")
	}

	if _, err := reader.Read(make([]byte, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from read after close, got %v", err)
	}
	if _, err := reader.Seek(0, io.SeekStart); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from seek after close, got %v", err)
	}
}

func TestObjectReader_InvalidOpenMode(t *testing.T) {
	client, transport := newTestClient(t)
	seedObject(t, transport, "repo", "main", "a/b.txt", []byte("hello"))

	_, err := client.Object("repo", "main", "a/b.txt").Open(t.Context(), WithOpenMode("q"))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for invalid open mode, got %v", err)
	}
}
