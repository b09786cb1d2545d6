package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/twofish/pkg/errors"
	tfio "github.com/matzehuels/twofish/pkg/io"
	"github.com/matzehuels/twofish/pkg/scene"
)

const stackJSON = `{"nodes":[
	{"id":"A","type":"Rect","bbox":{"x":0,"y":0,"width":20,"height":10}},
	{"id":"B","type":"Rect","bbox":{"x":30,"y":0,"width":10,"height":10}},
	{"id":"S","type":"Stack","bbox":{},"childrenIds":["A","B"],"data":{"direction":"horizontal","spacing":5}}
]}`

const shapesJSON = `{"nodes":[
	{"id":"a","type":"Rect","bbox":{"x":0,"y":0,"width":10,"height":10}},
	{"id":"b","type":"Rect","bbox":{"x":30,"y":20,"width":20,"height":10}}
]}`

// execute runs the CLI with caching disabled and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeScene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type positions struct {
	Positions []struct {
		ID string   `json:"id"`
		X  *float64 `json:"x"`
	} `json:"positionsToUpdate"`
}

func TestRelayoutCommand(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)
	out, err := execute(t, "relayout", path)
	if err != nil {
		t.Fatalf("relayout error = %v", err)
	}
	var res positions
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	for _, p := range res.Positions {
		if p.ID == "B" {
			if p.X == nil || *p.X != 25 {
				t.Errorf("B x = %v, want 25", p.X)
			}
			return
		}
	}
	t.Errorf("no write for B in %s", out)
}

func TestApplyCommandWritesScene(t *testing.T) {
	path := writeScene(t, "shapes.json", shapesJSON)
	dest := filepath.Join(t.TempDir(), "out.json")

	_, err := execute(t, "apply", path, "--kind", "align", "--id", "l", "--ids", "a,b", "--alignment", "left", "--x", "5", "-o", dest)
	if err != nil {
		t.Fatalf("apply error = %v", err)
	}
	s, err := tfio.ImportJSON(dest)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	for _, id := range []string{"a", "b"} {
		n, _ := s.Node(id)
		if cl := n.Claim(scene.AxisX); cl.Owner != "l" {
			t.Errorf("%s x owner = %q, want l", id, cl.Owner)
		}
		if x, ok := n.Effective(scene.AxisX); !ok || x != 5 {
			t.Errorf("%s x = %v, want 5", id, x)
		}
	}
}

func TestApplyCommandErrors(t *testing.T) {
	path := writeScene(t, "shapes.json", shapesJSON)
	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"unknown kind", []string{"--kind", "circle", "--ids", "a,b"}, errs.ErrCodeInvalidInput},
		{"shape kind", []string{"--kind", "rect", "--ids", "a,b"}, errs.ErrCodeInvalidInput},
		{"bad alignment", []string{"--kind", "align", "--ids", "a,b", "--alignment", "middle"}, errs.ErrCodeInvalidInput},
		{"nan spacing", []string{"--kind", "stack", "--ids", "a,b", "--spacing", "NaN"}, errs.ErrCodeInvalidNumeric},
		{"unknown child", []string{"--kind", "group", "--ids", "a,zz"}, errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"apply", path}, tt.args...)...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestEditInPlace(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)
	if _, err := execute(t, "edit", path, "S", "--spacing", "15", "-i"); err != nil {
		t.Fatalf("edit error = %v", err)
	}
	s, err := tfio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.Node("B")
	if x, _ := b.Effective(scene.AxisX); x != 35 {
		t.Errorf("B x = %v, want 35", x)
	}
}

func TestInPlaceRejectsScripts(t *testing.T) {
	path := writeScene(t, "d.tfs", "rect a x=0 y=0 w=10 h=10\nrect b x=20 y=0 w=10 h=10\n")
	_, err := execute(t, "delete", path, "b", "-i")
	if err == nil || !strings.Contains(err.Error(), "--in-place") {
		t.Errorf("error = %v, want --in-place error", err)
	}
}

func TestDeleteMissingNode(t *testing.T) {
	path := writeScene(t, "shapes.json", shapesJSON)
	_, err := execute(t, "delete", path, "nope")
	if !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestMoveRejectsBadAxis(t *testing.T) {
	path := writeScene(t, "shapes.json", shapesJSON)
	_, err := execute(t, "move", path, "a", "--axis", "z", "--value", "3")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestResizePositionsOnly(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)
	out, err := execute(t, "resize", path, "A", "--width", "30", "--positions")
	if err != nil {
		t.Fatalf("resize error = %v", err)
	}
	var ps []struct {
		ID string   `json:"id"`
		X  *float64 `json:"x"`
	}
	if err := json.Unmarshal([]byte(out), &ps); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	for _, p := range ps {
		if p.ID == "B" && (p.X == nil || *p.X != 35) {
			t.Errorf("B x = %v, want 35", p.X)
		}
	}
}

func TestScriptCommand(t *testing.T) {
	path := writeScene(t, "d.tfs", `rect a x=0 y=0 w=10 h=10
rect b x=40 y=0 w=10 h=10
stack s horizontal top spacing=5 [a, b]
`)
	out, err := execute(t, "script", path)
	if err != nil {
		t.Fatalf("script error = %v", err)
	}
	s, err := tfio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	b, _ := s.Node("b")
	if x, _ := b.Effective(scene.AxisX); x != 15 {
		t.Errorf("b x = %v, want 15", x)
	}
}

func TestShowAndGraph(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)

	out, err := execute(t, "show", path)
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	for _, want := range []string{"Stack", "horizontal", "spacing 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "graph", path)
	if err != nil {
		t.Fatalf("graph error = %v", err)
	}
	if !strings.Contains(out, `"A" -> "S";`) {
		t.Errorf("graph output missing edge:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	good := writeScene(t, "stack.json", stackJSON)
	if _, err := execute(t, "validate", good); err != nil {
		t.Errorf("validate error = %v", err)
	}

	bad := writeScene(t, "bad.json", `{"nodes":[
	{"id":"S","type":"Stack","bbox":{},"childrenIds":["A","B"],"data":{"direction":"horizontal"}},
	{"id":"A","type":"Rect","bbox":{"x":0,"y":0,"width":20,"height":10}},
	{"id":"B","type":"Rect","bbox":{"x":30,"y":0,"width":10,"height":10}}
]}`)
	if _, err := execute(t, "validate", bad); err == nil {
		t.Error("validate accepted a relation listed before its children")
	}
}

func TestValidateFix(t *testing.T) {
	bad := writeScene(t, "bad.json", `{"nodes":[
	{"id":"S","type":"Stack","bbox":{},"childrenIds":["A","B"],"data":{"direction":"horizontal"}},
	{"id":"A","type":"Rect","bbox":{"x":0,"y":0,"width":20,"height":10}},
	{"id":"B","type":"Rect","bbox":{"x":30,"y":0,"width":10,"height":10}}
]}`)
	out, err := execute(t, "validate", bad, "--fix")
	if err != nil {
		t.Fatalf("validate --fix error = %v", err)
	}
	s, err := tfio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v\n%s", err, out)
	}
	if got := strings.Join(s.IDs(), ","); got != "A,B,S" {
		t.Errorf("order = %s, want A,B,S", got)
	}
}

func TestShowNode(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)
	out, err := execute(t, "show", path, "--node", "A")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "bound by:  S") {
		t.Errorf("show --node output missing dependents:\n%s", out)
	}
	if _, err := execute(t, "show", path, "--node", "nope"); !errs.Is(err, errs.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestRenderRejectsFormat(t *testing.T) {
	path := writeScene(t, "stack.json", stackJSON)
	if _, err := execute(t, "render", path, "-f", "png"); err == nil {
		t.Error("render accepted png for the scene view")
	}
}

func TestEditParamsSpacingAuto(t *testing.T) {
	cmd := &cobra.Command{}
	var n numericFlags
	n.register(cmd, "spacing", "padding", "x", "y")
	if err := cmd.ParseFlags([]string{"--spacing", "auto"}); err != nil {
		t.Fatal(err)
	}
	edit, err := editParams(cmd.Flags(), "", "", &n)
	if err != nil {
		t.Fatalf("editParams() error = %v", err)
	}
	if edit.Spacing == nil || edit.Spacing.Valid {
		t.Errorf("Spacing = %+v, want inferred", edit.Spacing)
	}
}

func TestEditParamsNothingToChange(t *testing.T) {
	cmd := &cobra.Command{}
	var n numericFlags
	n.register(cmd, "spacing")
	if _, err := editParams(cmd.Flags(), "", "", &n); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestParseRelationKind(t *testing.T) {
	tests := []struct {
		in   string
		want scene.Kind
		ok   bool
	}{
		{"stack", scene.KindStack, true},
		{"ALIGN", scene.KindAlign, true},
		{"Background", scene.KindBackground, true},
		{"rect", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := parseRelationKind(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseRelationKind(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct{ path, want string }{
		{"out.PDF", "pdf"},
		{"dir/out.svg", "svg"},
		{"", "svg"},
		{"noext", "svg"},
	}
	for _, tt := range tests {
		if got := formatFromPath(tt.path, "svg"); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNodePickerModel(t *testing.T) {
	s := scene.MustNew(
		scene.Node{ID: "a", Kind: scene.KindRect, BBox: scene.Box(0, 0, 1, 1)},
		scene.Node{ID: "b", Kind: scene.KindRect, BBox: scene.Box(0, 0, 1, 1)},
	)
	var m tea.Model = NewNodePickerModel("Pick", s.Nodes())

	press := func(msg tea.KeyMsg) {
		m, _ = m.Update(msg)
	}
	toggle := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}

	press(tea.KeyMsg{Type: tea.KeyEnter}) // nothing picked yet
	if m.(NodePickerModel).Confirmed {
		t.Fatal("confirmed with no picks")
	}
	press(tea.KeyMsg{Type: tea.KeyDown})
	press(toggle)
	press(tea.KeyMsg{Type: tea.KeyUp})
	press(toggle)
	press(tea.KeyMsg{Type: tea.KeyEnter})

	fm := m.(NodePickerModel)
	if !fm.Confirmed {
		t.Fatal("not confirmed")
	}
	if got := strings.Join(fm.Picked, ","); got != "b,a" {
		t.Errorf("Picked = %s, want b,a", got)
	}
	if !strings.Contains(fm.View(), "Pick") {
		t.Error("View() missing title")
	}
}
