package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoaderLoadsLocalFiles(t *testing.T) {
	dir := t.TempDir()
	lobPath := writeFile(t, dir, "lob.csv",
		"exchange,timestamp,ask0,ask0a,bid0,bid0a\nbinance,1000,100,1,99,1\n")
	tradesPath := writeFile(t, dir, "trades.csv",
		"exchange,timestamp,side,price,amount\nbinance,1000,buy,100,1\n")

	l := NewLoader(1, nil, testLogger())
	ds, err := l.Load(context.Background(), lobPath, tradesPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Snapshots) != 1 || len(ds.Trades) != 1 {
		t.Fatalf("dataset = %d snapshots / %d trades, want 1/1", len(ds.Snapshots), len(ds.Trades))
	}
}

func TestLoaderTradesOptional(t *testing.T) {
	dir := t.TempDir()
	lobPath := writeFile(t, dir, "lob.csv",
		"exchange,timestamp,ask0,ask0a,bid0,bid0a\nbinance,1000,100,1,99,1\n")

	l := NewLoader(1, nil, testLogger())
	ds, err := l.Load(context.Background(), lobPath, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Snapshots) != 1 || ds.Trades != nil {
		t.Fatalf("dataset = %+v", ds)
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(1, nil, testLogger())
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoaderS3WithoutReader(t *testing.T) {
	l := NewLoader(1, nil, testLogger())
	if _, err := l.Load(context.Background(), "s3://bucket/lob.csv", ""); err == nil {
		t.Fatal("expected error when object storage is not configured")
	}
}
