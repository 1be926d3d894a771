package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_BasicOutput(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Print("hello")
		p.Println("world")
		p.Printf("number: %d", 42)
	})

	assert.Equal(t, "helloworld\nnumber: 42", out)
}

func TestPrinter_SemanticOutput(t *testing.T) {
	buffer := NewCaptureBuffer()
	printer := NewPrinter(WithWriter(buffer), TestMode())

	printer.Info("information")
	printer.Success("completed")
	printer.Warning("careful")
	printer.Error("failed")

	assert.Equal(t, []string{
		"ℹ information",
		"✓ completed",
		"⚠ careful",
		"✗ failed",
	}, buffer.Lines())
}

func TestPrinter_WithMockStyleProvider(t *testing.T) {
	out := CaptureOutputWithStyles(NewMockStyleProvider(), func(p *Printer) {
		p.Info("test message")
		p.Success("success message")
		p.Command("echo")
	})

	assert.Contains(t, out, "[info]test message[/info]\n")
	assert.Contains(t, out, "[success]success message[/success]\n")
	assert.Contains(t, out, "[command]echo[/command]")
}

func TestPrinter_UnavailableProviderFallsBack(t *testing.T) {
	provider := NewMockStyleProvider()
	provider.SetAvailable(false)

	out := CaptureOutputWithStyles(provider, func(p *Printer) {
		p.Warning("plain")
	})
	assert.Equal(t, "⚠ plain\n", out)
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(WithWriter(&buf), JSON())

	printer.Error("broken")

	var msg map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, map[string]string{"type": "error", "message": "broken"}, msg)
}

func TestPrinter_JSONTableAndMarkdown(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(WithWriter(&buf), JSON())

	printer.Table([]string{"Name", "Kind"}, [][]string{{"echo", "cell"}, {"vars", "line"}})
	printer.Markdown("# echo\n")

	dec := json.NewDecoder(&buf)
	var table struct {
		Type string              `json:"type"`
		Rows []map[string]string `json:"rows"`
	}
	require.NoError(t, dec.Decode(&table))
	assert.Equal(t, "table", table.Type)
	assert.Equal(t, []map[string]string{
		{"Name": "echo", "Kind": "cell"},
		{"Name": "vars", "Kind": "line"},
	}, table.Rows)

	var msg map[string]string
	require.NoError(t, dec.Decode(&msg))
	assert.Equal(t, map[string]string{"type": "plain", "message": "# echo\n"}, msg)
}

func TestPrinter_SilentAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(WithWriter(&buf), Silent()).Info("nothing")
	assert.Empty(t, buf.String())

	NewPrinter(WithWriter(&buf), TestMode(), WithPrefix("> ")).Println("x")
	assert.Equal(t, "> x\n", buf.String())
}

func TestPrinter_PlainStripsANSI(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(WithWriter(&buf), PlainText())

	printer.Print("\x1b[31mred\x1b[0m")
	assert.Equal(t, "red", buf.String())
}

func TestPrinter_Table(t *testing.T) {
	out := CaptureOutput(func(p *Printer) {
		p.Table([]string{"name", "description"}, [][]string{
			{"alpha", "first"},
			{"beta", "second"},
		})
	})

	assert.NotContains(t, out, "\x1b[")
	for _, want := range []string{"name", "description", "alpha", "second", "+", "|"} {
		assert.Contains(t, out, want)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}

type fakeTable struct{}

func (fakeTable) Headers() []string { return []string{"key"} }
func (fakeTable) Rows() [][]string  { return [][]string{{"value"}} }

func TestPrinter_Value(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{name: "nil", value: nil},
		{name: "string", value: "text", want: []string{"text\n"}},
		{name: "number", value: 42, want: []string{"42\n"}},
		{name: "slice", value: []string{"a", "b"}, want: []string{"[a b]\n"}},
		{name: "table", value: fakeTable{}, want: []string{"key", "value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := CaptureOutput(func(p *Printer) { p.Value(tt.value) })
			if len(tt.want) == 0 {
				assert.Empty(t, out)
				return
			}
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestPrinter_MarkdownPlain(t *testing.T) {
	out := CaptureOutput(func(p *Printer) { p.Markdown("# Title\n\nbody\n\n") })
	assert.Equal(t, "# Title\n\nbody\n", out)
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown("**bold** text", "notty")
	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "text")
}

func TestThemeStyles(t *testing.T) {
	for _, name := range []string{"dark", "light"} {
		theme := NewThemeStyles(name)
		assert.Equal(t, name, theme.GetThemeType())
		assert.True(t, theme.IsAvailable())
		assert.Contains(t, theme.GetStyle("error").Render("x"), "x")
		assert.Contains(t, theme.GetStyle("unknown").Render("y"), "y")
	}
}

func TestCaptureBuffer(t *testing.T) {
	buffer := NewCaptureBuffer()
	assert.Equal(t, []string{}, buffer.Lines())

	_, _ = buffer.Write([]byte("one\ntwo\n"))
	assert.Equal(t, []string{"one", "two"}, buffer.Lines())
	assert.True(t, buffer.Contains("two"))
	assert.Equal(t, 8, buffer.Len())

	buffer.Reset()
	assert.Zero(t, buffer.Len())
}
