package namespace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Record is one flattened row of a namespace tree.
type Record struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Doc         string `yaml:"doc,omitempty"`
	Value       string `yaml:"value,omitempty"`
}

func newRecord(name string, item any, withDoc, withValues bool) Record {
	typ := fmt.Sprintf("%T", item)
	if _, ok := item.(recorder); ok {
		typ = "Namespace"
	}

	doc := ""
	if d, ok := item.(Documented); ok {
		doc = d.Doc()
	}
	desc, _, _ := strings.Cut(doc, "\n")

	r := Record{Name: name, Type: typ, Description: strings.TrimSpace(desc)}
	if withDoc {
		r.Doc = doc
	}
	if withValues {
		r.Value = fmt.Sprint(item)
	}
	return r
}

// Table is a printable list of records.
type Table struct {
	Records    []Record
	WithDoc    bool
	WithValues bool
}

// Headers implements output.Tabular.
func (t Table) Headers() []string {
	headers := []string{"Name", "Type", "Description"}
	if t.WithDoc {
		headers = append(headers, "Docstring")
	}
	if t.WithValues {
		headers = append(headers, "Value")
	}
	return headers
}

// Rows implements output.Tabular.
func (t Table) Rows() [][]string {
	rows := make([][]string, len(t.Records))
	for i, r := range t.Records {
		row := []string{r.Name, r.Type, r.Description}
		if t.WithDoc {
			row = append(row, r.Doc)
		}
		if t.WithValues {
			row = append(row, r.Value)
		}
		rows[i] = row
	}
	return rows
}

// Names returns the record names in order.
func (t Table) Names() []string {
	names := make([]string, len(t.Records))
	for i, r := range t.Records {
		names[i] = r.Name
	}
	return names
}

// Render draws the records as a plain ASCII table.
func (t Table) Render() string {
	return table.New().
		Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(int, int) lipgloss.Style { return lipgloss.NewStyle().Padding(0, 1) }).
		Headers(t.Headers()...).
		Rows(t.Rows()...).
		Render()
}
