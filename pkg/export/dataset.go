package export

// Dataset defines tabular export content. Rows are keyed by header; Footer,
// when set, is rendered after the rows in the same layout.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Footer  map[string]string
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

// width returns the longest value of column i in runes, header included.
func (d Dataset) width(i int) int {
	header := d.Headers[i]
	w := len([]rune(header))
	for _, row := range d.Rows {
		if n := len([]rune(row[header])); n > w {
			w = n
		}
	}
	if n := len([]rune(d.Footer[header])); n > w {
		w = n
	}
	return w
}
