package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var errUnknownFormat = errors.New("unknown output format")

// printer renders command results. Text output is produced by the caller's
// closure; json and yaml encode the value itself.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (printer, error) {
	switch format {
	case formatText, formatJSON, formatYAML:
		return printer{w: w, format: format}, nil
	case "":
		return printer{w: w, format: formatText}, nil
	}
	return printer{}, fmt.Errorf("%w: %q", errUnknownFormat, format)
}

func (p printer) print(v any, text func(w io.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.w)
		return nil
	}
}

func printNames(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "(no entries)")
		return
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}
