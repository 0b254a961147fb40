package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/termtree/internal/renderer/core"
	"github.com/dshills/termtree/internal/ui"
)

const demoScene = `
title = "demo"
script = '''
clicks = 0
function on_click(ev)
  clicks = clicks + 1
  ui.set_text("status", "clicks " .. clicks)
end
'''

[[nodes]]
id = "panel"
kind = "box"
position = "absolute"
left = 2
top = 1
width = 20
height = 5
border = true
focusable = true
fg = "white"
bg = "#000080"
attrs = ["bold"]
on = { click = "on_click" }

  [[nodes.children]]
  id = "status"
  text = "idle"

[[nodes]]
id = "list"
kind = "scrollbox"
position = "absolute"
left = 25
width = 10
height = 3

  [[nodes.children]]
  text = "one"

  [[nodes.children]]
  text = "two"
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestParse(t *testing.T) {
	f, err := Parse("demo.toml", []byte(demoScene))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if f.Title != "demo" || f.Path != "demo.toml" {
		t.Errorf("file = %q at %q", f.Title, f.Path)
	}
	if len(f.Nodes) != 2 || len(f.Nodes[0].Children) != 1 || len(f.Nodes[1].Children) != 2 {
		t.Fatalf("unexpected tree shape: %+v", f.Nodes)
	}
	if f.Nodes[0].On["click"] != "on_click" {
		t.Errorf("on = %v", f.Nodes[0].On)
	}
	if !strings.Contains(f.Script, "function on_click") {
		t.Error("inline script missing")
	}
}

func TestNodeKindInference(t *testing.T) {
	tests := []struct {
		node Node
		want ui.Kind
	}{
		{Node{Text: "hi"}, ui.KindText},
		{Node{}, ui.KindBox},
		{Node{Text: "hi", Children: []Node{{}}}, ui.KindBox},
		{Node{Kind: "scrollbox"}, ui.KindScrollBox},
	}
	for _, tt := range tests {
		got, err := tt.node.kind()
		if err != nil || got != tt.want {
			t.Errorf("kind(%+v) = %v, %v; want %v", tt.node, got, err, tt.want)
		}
	}
}

func TestNodeStyle(t *testing.T) {
	n := Node{Border: true, Fg: "red", Bg: "idx(4)", Attrs: []string{"bold", "underline"}}
	s, err := n.style()
	if err != nil {
		t.Fatalf("style() failed: %v", err)
	}
	if !s.Border || !s.Foreground.Equals(core.ColorFromRGB(255, 0, 0)) || !s.Background.Equals(core.ColorFromIndex(4)) {
		t.Errorf("style = %+v", s)
	}
	if !s.Attributes.Has(core.AttrBold) || !s.Attributes.Has(core.AttrUnderline) {
		t.Errorf("attributes = %v", s.Attributes)
	}

	plain, _ := (&Node{}).style()
	if !plain.Foreground.IsDefault() || !plain.Background.IsDefault() {
		t.Error("unset colors should be terminal defaults")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[[nodes]\nid = 1", "line"},
		{"kind", "[[nodes]]\nkind = \"window\"", "kind"},
		{"root kind", "[[nodes]]\nkind = \"root\"", "kind"},
		{"position", "[[nodes]]\nposition = \"fixed\"", "position"},
		{"size", "[[nodes]]\nwidth = -1", "size"},
		{"color", "[[nodes]]\nfg = \"#zz\"", "style"},
		{"attr", "[[nodes]]\nattrs = [\"shiny\"]", "style"},
		{"event", "[[nodes]]\non = { keydown = \"f\" }", "unknown event keydown"},
		{"duplicate", "[[nodes]]\nid = \"a\"\n[[nodes]]\nid = \"a\"", "duplicate id"},
		{"root id", "[[nodes]]\nid = \"root\"", "duplicate id"},
		{"text children", "[[nodes]]\nkind = \"text\"\n[[nodes.children]]\nid = \"c\"", "text nodes cannot have children"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.toml", []byte(tt.body))
			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("Parse() = %v, want *Error", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadScriptFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "handlers.lua", "function extra() end\n")
	path := writeFile(t, dir, "scene.toml", "script = \"x = 1\"\nscriptFile = \"handlers.lua\"\n")

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if f.Script != "x = 1\nfunction extra() end\n" {
		t.Errorf("script = %q", f.Script)
	}
}

func TestLoadMissing(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want ErrNotExist", err)
	}
	path := writeFile(t, dir, "scene.toml", "scriptFile = \"gone.lua\"\n")
	if _, err := Load(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing script) = %v, want ErrNotExist", err)
	}
}
