// Package jsonutil holds the indented JSON encoder behind the json output
// format of the annotation table.
package jsonutil

import (
	"encoding/json"
	"io"
)

// EncodePretty writes v as indented JSON to w. HTML escaping is off so
// function text such as "<5 kDa" or "A & B" is written as-is.
func EncodePretty(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
