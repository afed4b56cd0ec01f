// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one FASTA entry. ID is the first whitespace-delimited token of
// the header; Description is the full header line without '>'.
type Record struct {
	ID          string
	Description string
	Seq         []byte
}

// Scan parses FASTA from r and calls emit once per record, in file order.
// Sequence lines are concatenated with surrounding whitespace removed.
// Cancellation via ctx is checked between lines.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		cur    Record
		seq    = make([]byte, 0, 4096)
		inRec  bool
		lineNo int
	)
	flush := func() error {
		if !inRec {
			return nil
		}
		cur.Seq = append([]byte(nil), seq...)
		return emit(cur)
	}

	for sc.Scan() {
		lineNo++
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			hdr := bytes.TrimSpace(line[1:])
			cur = Record{ID: parseHeaderID(hdr), Description: string(hdr)}
			seq = seq[:0]
			inRec = true
			continue
		}
		if !inRec {
			return fmt.Errorf("fasta: line %d: sequence data before first header", lineNo)
		}
		seq = append(seq, line...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

// ReadFile reads every record of path ("-" for stdin, gzip allowed).
func ReadFile(ctx context.Context, path string) ([]Record, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var out []Record
	err = Scan(ctx, rc, func(r Record) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func parseHeaderID(hdr []byte) string {
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
