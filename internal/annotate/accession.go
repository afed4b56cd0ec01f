package annotate

import "strings"

// Accession returns the database accession of a pipe-delimited identifier
// such as "sp|P69905|HBA_HUMAN". Only the second field is used; the
// identifier is never repaired.
func Accession(id string) (string, error) {
	bar := strings.IndexByte(id, '|')
	if bar < 0 {
		return "", &MalformedIdentifierError{ID: id, Reason: "no '|' separated accession field"}
	}
	acc := id[bar+1:]
	if end := strings.IndexByte(acc, '|'); end >= 0 {
		acc = acc[:end]
	}
	if acc == "" {
		return "", &MalformedIdentifierError{ID: id, Reason: "empty accession field"}
	}
	return acc, nil
}
