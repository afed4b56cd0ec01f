package writers

import (
	"bufio"
	"os"
	"path/filepath"

	"protannot/internal/annotate"
)

// WriteFile writes rows to path in format. The table goes to a temporary
// sibling first and is renamed into place, so a failed write never leaves
// a partial table behind.
func WriteFile(path, format string, rows []annotate.AnnotationRow) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = Write(format, bw, rows); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
