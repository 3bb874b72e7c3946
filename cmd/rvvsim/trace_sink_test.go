package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTraceSinkWritesToBothStdoutAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	sink, err := newFileTraceSink(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sink.Write([]byte("line one\n")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read trace file: %v", err)
	}
	if string(data) != "line one\n" {
		t.Fatalf("got trace file content %q, want %q", string(data), "line one\n")
	}
}

func TestFileTraceSinkWithEmptyPathStillDrains(t *testing.T) {
	sink, err := newFileTraceSink("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := sink.Write([]byte("no file configured\n")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}
