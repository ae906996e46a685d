package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/spiderweb/pkg/errors"
	pkgio "github.com/matzehuels/spiderweb/pkg/io"
	"github.com/matzehuels/spiderweb/pkg/observability"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv(redisEnv, "")
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func assertFiles(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing output: %v", err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"init", "generate", "animate", "render", "inspect", "preview", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web.toml")
	if err := runCLI(t, "init", path); err != nil {
		t.Fatal(err)
	}
	cfg, err := pkgio.LoadConfig(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.Web.Spokes != pkgio.DefaultConfig().Web.Spokes {
		t.Errorf("spokes = %d, want default", cfg.Web.Spokes)
	}

	if err := runCLI(t, "init", path); err == nil {
		t.Error("init overwrote an existing file without --force")
	}
	if err := runCLI(t, "init", "--force", path); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestGenerateAndRender(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "porch")
	mesh := filepath.Join(dir, "porch.mesh.json")

	err := runCLI(t, "generate", "--no-cache",
		"--spokes", "7", "--ribs", "3", "--curvature", "0.3",
		"-f", "svg,json,dot", "-o", base+".svg", "--mesh", mesh)
	if err != nil {
		t.Fatal(err)
	}
	assertFiles(t, base+".svg", base+".json", base+".dot", mesh)

	m, err := pkgio.ImportMesh(mesh)
	if err != nil {
		t.Fatal(err)
	}
	if m.Spokes != 7 || m.Rings != 3 {
		t.Errorf("mesh has %d spokes %d rings, want 7 3", m.Spokes, m.Rings)
	}

	if err := runCLI(t, "render", mesh, "--no-cache", "--view", "iso"); err != nil {
		t.Fatal(err)
	}
	assertFiles(t, filepath.Join(dir, "porch.svg"))

	again := filepath.Join(dir, "again")
	if err := runCLI(t, "render", mesh, "-t", "topology", "-f", "dot", "-o", again); err != nil {
		t.Fatal(err)
	}
	assertFiles(t, again+".dot")
}

func TestRenderRefusesToOverwriteMesh(t *testing.T) {
	dir := t.TempDir()
	mesh := filepath.Join(dir, "web.json")
	if err := runCLI(t, "generate", "--no-cache", "-o", filepath.Join(dir, "tmp"), "--mesh", mesh); err != nil {
		t.Fatal(err)
	}
	err := runCLI(t, "render", mesh, "--no-cache", "-f", "json")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	err := runCLI(t, "generate", "--no-cache", "--spokes", "2", "-o", filepath.Join(t.TempDir(), "web"))
	if !errors.Is(err, errors.ErrCodeInvalidParameter) {
		t.Errorf("err = %v, want INVALID_PARAMETER", err)
	}
}

func TestAnimateCommand(t *testing.T) {
	for _, behavior := range []string{"spread", "shot", "tether"} {
		t.Run(behavior, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "frames")
			err := runCLI(t, "animate", "--no-cache", "-b", behavior,
				"--frames", "2", "--origin", "0,-4,0", "--target", "0,0,0", "-o", out)
			if err != nil {
				t.Fatal(err)
			}
			assertFiles(t, frameBase(out, 0)+".svg", frameBase(out, 1)+".svg", frameBase(out, 2)+".svg")
			if _, err := os.Stat(frameBase(out, 3) + ".svg"); err == nil {
				t.Error("wrote more frames than requested")
			}
		})
	}
}

func TestAnimateRejectsBehavior(t *testing.T) {
	err := runCLI(t, "animate", "--no-cache", "-b", "wobble", "-o", t.TempDir())
	if !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("err = %v, want INVALID_STATE", err)
	}
}

func TestAnimateFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "web.toml")
	cfg := "[animation]\nbehavior = \"shot\"\nframes = 1\norigin = [0.0, -5.0, 0.0]\n\n[render]\nformats = [\"json\"]\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "frames")
	if err := runCLI(t, "animate", path, "--no-cache", "-o", out); err != nil {
		t.Fatal(err)
	}
	assertFiles(t, frameBase(out, 0)+".json", frameBase(out, 1)+".json")
}

func TestInspectCommand(t *testing.T) {
	if err := runCLI(t, "inspect", "--spokes", "9", "--ribs", "4", "--open-hub"); err != nil {
		t.Fatal(err)
	}
}

func TestCacheCommands(t *testing.T) {
	if err := runCLI(t, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
}

func TestCompletionCommand(t *testing.T) {
	t.Cleanup(observability.Reset)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetArgs([]string{"completion", shell})
			root.SetOut(&out)
			root.SetErr(io.Discard)
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
	if err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion accepted an unsupported shell")
	}
}
