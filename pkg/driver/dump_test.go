package driver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func checkedSource(t *testing.T, text string) *Result {
	t.Helper()
	res, err := Check(Source{Name: "dump.mini", Text: text}, Options{})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return res
}

func TestDumpTokensJSON(t *testing.T) {
	res := checkedSource(t, "print 'hi';")
	var buf bytes.Buffer
	if err := DumpTokens(&buf, res.Tokens, FormatJSON); err != nil {
		t.Fatalf("DumpTokens: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 4 || decoded[1]["kind"] != "string" || decoded[1]["value"] != "hi" || decoded[3]["value"] != nil {
		t.Fatalf("unexpected token dump %v", decoded)
	}
}

func TestDumpTokensYAML(t *testing.T) {
	res := checkedSource(t, "x = 42;")
	var buf bytes.Buffer
	if err := DumpTokens(&buf, res.Tokens, FormatYAML); err != nil {
		t.Fatalf("DumpTokens: %v", err)
	}
	var decoded []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(decoded) != 5 || decoded[2]["kind"] != "number" || decoded[2]["value"] != 42 {
		t.Fatalf("unexpected token dump %v", decoded)
	}
}

func TestDumpProgramFormats(t *testing.T) {
	res := checkedSource(t, "function f(a) { return -a; }\nprint f(1) == 2 || false;")
	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		if err := DumpProgram(&buf, res.Program, format); err != nil {
			t.Fatalf("DumpProgram(%s): %v", format, err)
		}
		out := buf.String()
		for _, want := range []string{"FunctionDeclaration", "UnaryExpression", "LogicalExpression", "ComparisonExpression", "CallExpression", "argument"} {
			if !strings.Contains(out, want) {
				t.Fatalf("%s dump missing %q:\n%s", format, want, out)
			}
		}
		if strings.Contains(out, "Marker") || strings.Contains(out, "nodeImpl") {
			t.Fatalf("%s dump leaks internal fields:\n%s", format, out)
		}
	}
}

func TestDumpProgramYAMLRoundTripsAsMap(t *testing.T) {
	res := checkedSource(t, "let x = 1;")
	var buf bytes.Buffer
	if err := DumpProgram(&buf, res.Program, FormatYAML); err != nil {
		t.Fatalf("DumpProgram: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	body, ok := decoded["body"].([]any)
	if decoded["type"] != "Program" || !ok || len(body) != 1 {
		t.Fatalf("unexpected program dump %v", decoded)
	}
	decl := body[0].(map[string]any)
	if decl["type"] != "VariableDeclaration" || decl["kind"] != "let" || decl["identifier"] != "x" {
		t.Fatalf("unexpected declaration dump %v", decl)
	}
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
