package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSinkStaysUnderCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink, err := newFileSink(path, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	line := bytes.Repeat([]byte("x"), 300*1024)
	for i := 0; i < 5; i++ {
		if _, err := sink.Write(line); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() > 1<<20 {
		t.Fatalf("log grew to %d bytes, cap is %d", info.Size(), 1<<20)
	}
}

func TestFileSinkKeepsLatestWriteAfterRollover(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink, err := newFileSink(path, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	filler := bytes.Repeat([]byte("a"), 600*1024)
	if _, err := sink.Write(filler); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if _, err := sink.Write(filler); err != nil {
		t.Fatalf("roll over: %v", err)
	}
	if _, err := sink.Write([]byte("latest entry\n")); err != nil {
		t.Fatalf("write after rollover: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasSuffix(data, []byte("latest entry\n")) {
		t.Fatal("newest write missing after rollover")
	}
	if int64(len(data)) != int64(len(filler))+13 {
		t.Fatalf("file holds %d bytes, want one filler plus the tail line", len(data))
	}
}

func TestFileSinkWriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	sink, err := newFileSink(path, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := sink.Write([]byte("x")); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("write after close = %v, want os.ErrClosed", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("double close: %v", err)
	}
}
