package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/matzehuels/spiderweb/pkg/render"
	"github.com/matzehuels/spiderweb/pkg/web"
)

func TestVec3Value(t *testing.T) {
	tests := []struct {
		in      string
		want    vec3Value
		wantErr bool
	}{
		{"1,2,3", vec3Value{1, 2, 3}, false},
		{" 0, -9.81 ,0.5", vec3Value{0, -9.81, 0.5}, false},
		{"1,2", vec3Value{}, true},
		{"1,2,3,4", vec3Value{}, true},
		{"a,b,c", vec3Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var v vec3Value
			err := v.Set(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if v != tt.want {
				t.Errorf("Set(%q) = %v, want %v", tt.in, v, tt.want)
			}
		})
	}

	v := vec3Value{0, -4, 1.5}
	if got := v.String(); got != "0,-4,1.5" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, png,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.in)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func newTestFlagSet(f *configFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.bindWeb(fs)
	f.bindRender(fs)
	f.bindAnimation(fs)
	return fs
}

func TestConfigFlagsDefaults(t *testing.T) {
	f := newConfigFlags()
	fs := newTestFlagSet(f)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if err := f.load(fs, ""); err != nil {
		t.Fatal(err)
	}

	opts := f.options()
	if diff := cmp.Diff(web.DefaultParams(), opts.Web); diff != "" {
		t.Errorf("web params mismatch (-want +got):\n%s", diff)
	}
	if opts.Animation.Behavior != "spread" || opts.View != render.ViewTop {
		t.Errorf("behavior %q view %q, want spread top", opts.Animation.Behavior, opts.View)
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("default options invalid: %v", err)
	}
}

func TestConfigFlagsLayering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.toml")
	const cfg = `
[web]
size = 2.0
spokes = 9
ribs = 4
shape = "polygonal"

[animation]
behavior = "shot"
origin = [0.0, -6.0, 1.0]

[render]
formats = ["png", "json"]
view = "iso"
`
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	f := newConfigFlags()
	fs := newTestFlagSet(f)
	if err := fs.Parse([]string{"--spokes", "12", "--target", "1,1,0", "-f", "svg"}); err != nil {
		t.Fatal(err)
	}
	if err := f.load(fs, path); err != nil {
		t.Fatal(err)
	}
	opts := f.options()

	// File values replace defaults.
	if opts.Web.Size != 2 || opts.Web.Ribs != 4 || opts.Web.Shape != web.ShapePolygonal {
		t.Errorf("file values lost: %+v", opts.Web)
	}
	if opts.Animation.Behavior != "shot" || opts.Animation.Origin != [3]float64{0, -6, 1} {
		t.Errorf("file animation lost: %+v", opts.Animation)
	}
	if opts.View != render.ViewIso {
		t.Errorf("view = %q, want iso", opts.View)
	}
	// Explicit flags win over the file.
	if opts.Web.Spokes != 12 {
		t.Errorf("spokes = %d, want flag value 12", opts.Web.Spokes)
	}
	if opts.Animation.Target != [3]float64{1, 1, 0} {
		t.Errorf("target = %v, want flag value", opts.Animation.Target)
	}
	if diff := cmp.Diff([]string{"svg"}, opts.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFlagsFileFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.toml")
	if err := os.WriteFile(path, []byte("[render]\nformats = [\"png\", \"json\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f := newConfigFlags()
	fs := newTestFlagSet(f)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if err := f.load(fs, path); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"png", "json"}, f.options().Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigFlagsMissingFile(t *testing.T) {
	f := newConfigFlags()
	fs := newTestFlagSet(f)
	if err := f.load(fs, filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("load() of a missing file should fail")
	}
}
