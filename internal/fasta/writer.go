// internal/fasta/writer.go
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LineWidth is the sequence wrap width used by Write.
const LineWidth = 60

// Write emits records as FASTA, wrapping sequences at LineWidth.
// The header is Description when set, else ID.
func Write(w io.Writer, records []Record) error {
	for _, r := range records {
		hdr := r.Description
		if hdr == "" {
			hdr = r.ID
		}
		if _, err := fmt.Fprintf(w, ">%s\n", hdr); err != nil {
			return err
		}
		for off := 0; off < len(r.Seq); off += LineWidth {
			end := off + LineWidth
			if end > len(r.Seq) {
				end = len(r.Seq)
			}
			if _, err := w.Write(r.Seq[off:end]); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile writes records to path, replacing any existing file.
func WriteFile(path string, records []Record) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(fh)
	if err := Write(bw, records); err != nil {
		_ = fh.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
