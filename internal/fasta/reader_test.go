package fasta

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const plain = `>sp|P69905|HBA_HUMAN Hemoglobin subunit alpha
MVLSPADKTN
VKAAWGKVGA

>tr|Q000|Q000_X
MKV
`

func writeGz(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func TestScan(t *testing.T) {
	var got []Record
	err := Scan(context.Background(), strings.NewReader(plain), func(r Record) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 records, got %d", len(got))
	}
	if got[0].ID != "sp|P69905|HBA_HUMAN" || got[0].Description != "sp|P69905|HBA_HUMAN Hemoglobin subunit alpha" {
		t.Fatalf("bad header parse: %+v", got[0])
	}
	if string(got[0].Seq) != "MVLSPADKTNVKAAWGKVGA" {
		t.Fatalf("bad seq: %q", got[0].Seq)
	}
	if got[1].ID != "tr|Q000|Q000_X" || string(got[1].Seq) != "MKV" {
		t.Fatalf("bad second record: %+v", got[1])
	}
}

func TestScan_SequenceBeforeHeader(t *testing.T) {
	err := Scan(context.Background(), strings.NewReader("MKV\n>a\nMKV\n"), func(Record) error { return nil })
	if err == nil || !strings.Contains(err.Error(), "before first header") {
		t.Fatalf("want header error, got %v", err)
	}
}

func TestScan_EmptyInput(t *testing.T) {
	n := 0
	if err := Scan(context.Background(), strings.NewReader(""), func(Record) error { n++; return nil }); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if n != 0 {
		t.Fatalf("want 0 records, got %d", n)
	}
}

func TestScan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Scan(ctx, strings.NewReader(plain), func(Record) error { return nil })
	if err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestReadFile_Gzip(t *testing.T) {
	recs, err := ReadFile(context.Background(), writeGz(t, plain))
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if len(recs) != 2 || recs[1].ID != "tr|Q000|Q000_X" {
		t.Fatalf("gzip parse failed: %+v", recs)
	}
}

func TestReadFile_Stdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	recs, err := ReadFile(context.Background(), "-")
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", len(recs))
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.fa")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWrite_WrapsAndRoundTrips(t *testing.T) {
	long := bytes.Repeat([]byte("ACDEFGHIKL"), 13) // 130 residues
	in := []Record{
		{ID: "sp|A|x", Description: "sp|A|x some protein", Seq: long},
		{ID: "sp|B|y", Seq: []byte("MKV")},
	}
	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[0] != ">sp|A|x some protein" || len(lines[1]) != LineWidth || len(lines[3]) != 10 {
		t.Fatalf("unexpected layout:\n%s", buf.String())
	}
	if lines[4] != ">sp|B|y" {
		t.Fatalf("header falls back to ID, got %q", lines[4])
	}

	var back []Record
	if err := Scan(context.Background(), &buf, func(r Record) error { back = append(back, r); return nil }); err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if len(back) != 2 || !bytes.Equal(back[0].Seq, long) || back[1].ID != "sp|B|y" {
		t.Fatalf("roundtrip mismatch: %+v", back)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.fa")
	if err := WriteFile(path, []Record{{ID: "a", Seq: []byte("MK")}}); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != ">a\nMK\n" {
		t.Fatalf("got %q", data)
	}
}
