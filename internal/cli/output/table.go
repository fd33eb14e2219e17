package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// TableFormatter renders data as aligned KEY/VALUE rows. twt-cli output is
// either a single opaque string or a flat claims/info map, so no general
// struct reflection is needed; anything else falls back to fmt.
type TableFormatter struct {
	NoHeaders bool
}

// Format writes data as a two-column table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case map[string]any:
		return f.renderMap(w, v)
	default:
		_, err := fmt.Fprintf(w, "%v\n", v)
		return err
	}
}

func (f *TableFormatter) renderMap(w io.Writer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if !f.NoHeaders {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, m[k])
	}
	return tw.Flush()
}
