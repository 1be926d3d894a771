package commands

import (
	"gopkg.in/yaml.v3"
)

// InfoHeaders are the column titles matching InfoRow.
var InfoHeaders = []string{"name", "description", "line", "cell", "function"}

// HelperHeaders are the column titles matching HelperRow.
var HelperHeaders = []string{"name", "help", "arguments"}

// InfoRow flattens info into table cells ordered like InfoHeaders.
func InfoRow(info Info) []string {
	return []string{info.Name, info.Description, info.Line, info.Cell, info.Function}
}

// HelperRow flattens info into table cells ordered like HelperHeaders.
func HelperRow(info HelperInfo) []string {
	return []string{info.Name, info.Help, info.Arguments}
}

// ExportYAML renders the visible magics and all helpers as YAML.
func (r *Registry) ExportYAML() ([]byte, error) {
	doc := struct {
		Magics  []Info       `yaml:"magics"`
		Helpers []HelperInfo `yaml:"helpers,omitempty"`
	}{
		Magics:  r.List(),
		Helpers: r.Helpers(),
	}
	return yaml.Marshal(doc)
}

// InfoTable prints as a table of magics.
type InfoTable []Info

// Headers implements output.Tabular.
func (t InfoTable) Headers() []string { return InfoHeaders }

// Rows implements output.Tabular.
func (t InfoTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, info := range t {
		rows[i] = InfoRow(info)
	}
	return rows
}

// HelperTable prints as a table of helpers.
type HelperTable []HelperInfo

// Headers implements output.Tabular.
func (t HelperTable) Headers() []string { return HelperHeaders }

// Rows implements output.Tabular.
func (t HelperTable) Rows() [][]string {
	rows := make([][]string, len(t))
	for i, info := range t {
		rows[i] = HelperRow(info)
	}
	return rows
}
