package format

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/xa-lang/xa/internal/parser"
)

const messy = `x=0;repeat(10){x=x+1;}
IF (x>5&&x!=9){OUTPUT x;}ELSEIF(x){}else{output 0;output 1   ;}
`

const canonical = `x = 0;
repeat (10) {
    x = x + 1;
}
if (x > 5 && x != 9) {
    output x;
} elseif (x) {} else {
    output 0;
    output 1;
}
`

func TestPrintCanonical(t *testing.T) {
	got, err := Source(messy, DefaultPrintOptions())
	if err != nil {
		t.Fatalf("Source failed: %v", err)
	}
	if got != canonical {
		t.Fatalf("canonical form mismatch:\ngot:\n%s\nwant:\n%s", got, canonical)
	}
}

func TestPrintIsIdempotent(t *testing.T) {
	again, err := Source(canonical, DefaultPrintOptions())
	if err != nil {
		t.Fatal(err)
	}
	if again != canonical {
		t.Errorf("formatting canonical source changed it:\n%s", again)
	}
}

func TestPrintRoundTrip(t *testing.T) {
	programs := []string{
		"",
		"output 1;",
		"a = 1 - 2 - 3; b = 8 / 4 / 2 % 3; c = 1 + 2 * 3 - 4;",
		"x = a || b && c == d < e + f * g;",
		"x = a * b + c * d <= e - f / g;",
		"if (a) { if (b) { output 1; } elseif (c) { } else { repeat (3) { } } }",
		"repeat (n % 2 == 0 || n > 10) { n = n - 1; output n; }",
	}

	for i, src := range programs {
		first, err := parser.ParseString(src)
		if err != nil {
			t.Fatalf("tests[%d] - parse failed: %v", i, err)
		}
		printed := Print(first, PrintOptions{IndentSize: 2})
		second, err := parser.ParseString(printed)
		if err != nil {
			t.Fatalf("tests[%d] - reparse of %q failed: %v", i, printed, err)
		}
		if first.String() != second.String() {
			t.Errorf("tests[%d] - round trip changed the tree:\n%s\n%s", i, first, second)
		}
	}
}

func TestPrintTabs(t *testing.T) {
	got, err := Source("repeat (2) { output 1; }", PrintOptions{PreferTabs: true})
	if err != nil {
		t.Fatal(err)
	}
	want := "repeat (2) {\n\toutput 1;\n}\n"
	if got != want {
		t.Errorf("got=%q want=%q", got, want)
	}
}

func TestSourceKeepsCRLF(t *testing.T) {
	got, err := Source("x=1;\r\noutput x;\r\n", DefaultPrintOptions())
	if err != nil {
		t.Fatal(err)
	}
	if want := "x = 1;\r\noutput x;\r\n"; got != want {
		t.Errorf("got=%q want=%q", got, want)
	}
}

func TestSourceComments(t *testing.T) {
	src := "// counter\nx = 1;\n"

	if _, err := Source(src, DefaultPrintOptions()); !errors.Is(err, ErrComments) {
		t.Fatalf("expected ErrComments, got %v", err)
	}

	opts := DefaultPrintOptions()
	opts.DropComments = true
	got, err := Source(src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if got != "x = 1;\n" {
		t.Errorf("got=%q", got)
	}
}

func TestSourceSyntaxError(t *testing.T) {
	_, err := Source("x = ;", DefaultPrintOptions())
	if !errors.Is(err, parser.ErrUnexpectedToken) {
		t.Errorf("expected syntax error, got %v", err)
	}
}

func TestChanged(t *testing.T) {
	changed, _, err := Changed(canonical, DefaultPrintOptions())
	if err != nil || changed {
		t.Errorf("canonical source reported as changed (%v)", err)
	}
	changed, formatted, err := Changed(messy, DefaultPrintOptions())
	if err != nil || !changed || formatted != canonical {
		t.Errorf("messy source not reported as changed (%v)", err)
	}
}

func TestDumpTree(t *testing.T) {
	prog, err := parser.ParseString("x = a + 1;\nif (x) { output x; }")
	if err != nil {
		t.Fatal(err)
	}

	got, err := Dump(prog, DumpTree)
	if err != nil {
		t.Fatal(err)
	}
	want := `Program @1:1
  Assign x @1:1
    value: Binary Add @1:5
      left: Var a @1:5
      right: Literal 1 @1:9
  If @2:1
    condition: Var x @2:5
    body: Block @2:8
      Output @2:10
        value: Var x @2:17
    else: Block @2:21
`
	if string(got) != want {
		t.Errorf("tree mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpYAMLAndJSON(t *testing.T) {
	prog, err := parser.ParseString("n = 0 - 7;")
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []string{DumpYAML, DumpJSON} {
		data, err := Dump(prog, format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}

		var node Node
		if format == DumpYAML {
			err = yaml.Unmarshal(data, &node)
		} else {
			err = json.Unmarshal(data, &node)
		}
		if err != nil {
			t.Fatalf("%s: decoding dump: %v\n%s", format, err, data)
		}

		if node.Type != "Program" || len(node.Children) != 1 {
			t.Fatalf("%s: unexpected root %+v", format, node)
		}
		assign := node.Children[0]
		if assign.Type != "Assign" || assign.Name != "n" {
			t.Errorf("%s: unexpected statement %+v", format, assign)
		}
		bin := assign.Children[0]
		if bin.Operator != "Sub" || bin.Children[1].Value == nil || *bin.Children[1].Value != 7 {
			t.Errorf("%s: unexpected expression %+v", format, bin)
		}
	}

	if _, err := Dump(prog, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestDiffUnified(t *testing.T) {
	original := "a\nb\nc\nd\ne\nf\ng\nh\n"
	modified := "a\nb\nC\nd\ne\nf\ng\nh\ni\n"

	df := NewDiffFormatter(DiffOptions{Mode: DiffModeUnified, Context: 1})
	result := df.GenerateDiff(original, modified)
	if !result.HasChanges {
		t.Fatal("expected changes")
	}
	if len(result.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(result.Hunks))
	}
	if result.Stats.LinesAdded != 2 || result.Stats.LinesRemoved != 1 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}

	want := `--- f.xa	(original)
+++ f.xa	(formatted)
@@ -2,3 +2,3 @@
 b
-c
+C
 d
@@ -8,1 +8,2 @@
 h
+i
`
	if got := df.FormatDiff("f.xa", result); got != want {
		t.Errorf("diff mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDiffNoChanges(t *testing.T) {
	df := NewDiffFormatter(DefaultDiffOptions())
	result := df.GenerateDiff("x\n", "x\n")
	if result.HasChanges || df.FormatDiff("f.xa", result) != "" {
		t.Error("identical input should produce no diff")
	}
}

func TestDiffIgnoreSpace(t *testing.T) {
	df := NewDiffFormatter(DiffOptions{IgnoreSpace: true, TabWidth: 4})
	if df.GenerateDiff("\tx;  \n", "    x;\n").HasChanges {
		t.Error("whitespace-only change should be ignored")
	}
}

func TestSourceWithDiff(t *testing.T) {
	formatted, diff, err := SourceWithDiff("f.xa", "output  1 ;\n", DefaultPrintOptions(), DefaultDiffOptions())
	if err != nil {
		t.Fatal(err)
	}
	if formatted != "output 1;\n" {
		t.Errorf("formatted=%q", formatted)
	}
	if !strings.Contains(diff, "-output  1 ;") || !strings.Contains(diff, "+output 1;") {
		t.Errorf("unexpected diff:\n%s", diff)
	}

	_, diff, err = SourceWithDiff("f.xa", "output 1;\n", DefaultPrintOptions(), DefaultDiffOptions())
	if err != nil || diff != "" {
		t.Errorf("expected empty diff, got %q (%v)", diff, err)
	}
}

func TestParseDiffMode(t *testing.T) {
	for name, want := range map[string]DiffMode{"": DiffModeUnified, "context": DiffModeContext, "side": DiffModeSideBySide} {
		got, err := ParseDiffMode(name)
		if err != nil || got != want {
			t.Errorf("ParseDiffMode(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseDiffMode("fancy"); err == nil {
		t.Error("expected error")
	}
}
