package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyanho/lunac/internal/config"
	"github.com/zyanho/lunac/internal/executor"
	"github.com/zyanho/lunac/internal/logging"
	"github.com/zyanho/lunac/internal/workspace"
)

type call struct {
	tool string
	root string
	args []string
}

// fakeRunner records invocations instead of spawning cargo
type fakeRunner struct {
	mu     sync.Mutex
	tool   string
	root   string
	calls  *[]call
	failOn func(args []string) error
}

func (r *fakeRunner) Run(_ context.Context, args []string) error {
	r.mu.Lock()
	*r.calls = append(*r.calls, call{tool: r.tool, root: r.root, args: append([]string(nil), args...)})
	r.mu.Unlock()
	if r.failOn != nil {
		return r.failOn(args)
	}
	return nil
}

type harness struct {
	root  string
	env   map[string]string
	calls []call
	fail  func(args []string) error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[workspace]\nmembers = [\"crates/*\"]\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "crates", "lunaris", "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "crates", "lunaris", "Cargo.toml"), []byte("[package]\nname = \"lunaris\"\n"), 0644))
	return &harness{root: root, env: map[string]string{}}
}

func (h *harness) execute(args ...string) (string, error) {
	a := newApp()
	a.lookup = func(key string) (string, bool) {
		v, ok := h.env[key]
		return v, ok
	}
	a.newRunner = func(tool, root string, _ logging.Logger) executor.Runner {
		return &fakeRunner{tool: tool, root: root, calls: &h.calls, failOn: h.fail}
	}

	rootCmd := newRootCmd(a)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) argv() [][]string {
	var all [][]string
	for _, c := range h.calls {
		all = append(all, c.args)
	}
	return all
}

var updateArgv = []string{"run", "-q", "-p", "linker_updater", "--", "crates/linker/Cargo.toml", "plugins/"}

func TestCLI_CargoCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "build",
			args: []string{"build"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full"}},
		},
		{
			name: "build release",
			args: []string{"build", "--release"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "--release"}},
		},
		{
			name: "build release barebones short flag",
			args: []string{"build", "-r", "--barebones"},
			want: [][]string{{"build", "--package", "lunaris", "--release"}},
		},
		{
			name: "build passthrough after dash",
			args: []string{"build", "--release", "--", "--target", "wasm32-unknown-unknown"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "--release", "--target", "wasm32-unknown-unknown"}},
		},
		{
			name: "build flags after first positional are passthrough",
			args: []string{"build", "extra", "--release"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "extra", "--release"}},
		},
		{
			name: "run updates first",
			args: []string{"run", "--barebones", "--", "--", "--scene", "demo.lun"},
			want: [][]string{updateArgv, {"run", "--package", "lunaris", "--", "--scene", "demo.lun"}},
		},
		{
			name: "check",
			args: []string{"check"},
			want: [][]string{{"check", "--package", "lunaris"}},
		},
		{
			name: "clippy",
			args: []string{"clippy", "--", "--", "-D", "warnings"},
			want: [][]string{{"clippy", "--package", "lunaris", "--", "-D", "warnings"}},
		},
		{
			name: "test passthrough order",
			args: []string{"test", "--", "--nocapture", "foo"},
			want: [][]string{{"test", "--package", "lunaris", "--nocapture", "foo"}},
		},
		{
			name: "test positional first",
			args: []string{"test", "foo", "--nocapture"},
			want: [][]string{{"test", "--package", "lunaris", "foo", "--nocapture"}},
		},
		{
			name: "update",
			args: []string{"update"},
			want: [][]string{updateArgv},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.execute(append([]string{"-C", h.root}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.argv())
		})
	}
}

func TestCLI_ResolvesRootFromSubdirectory(t *testing.T) {
	h := newHarness(t)
	_, err := h.execute("-C", filepath.Join(h.root, "crates", "lunaris", "src"), "check")
	require.NoError(t, err)

	require.Len(t, h.calls, 1)
	assert.Equal(t, h.root, h.calls[0].root)
	assert.Equal(t, "cargo", h.calls[0].tool)
}

func TestCLI_RunAbortsWhenUpdateFails(t *testing.T) {
	h := newHarness(t)
	h.fail = func(args []string) error {
		if len(args) > 1 && args[1] == "-q" {
			return &executor.FailedError{Tool: "cargo", Args: args, Code: 4}
		}
		return nil
	}

	_, err := h.execute("-C", h.root, "run", "--release")
	require.Error(t, err)
	assert.Equal(t, 4, executor.ExitCode(err))
	assert.Equal(t, [][]string{updateArgv}, h.argv())
}

func TestCLI_Stubs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "add", args: []string{"add", "./plugins/blur"}, want: "Adding plugin: ./plugins/blur\n"},
		{name: "remove", args: []string{"remove", "blur"}, want: "Removing plugin: blur\n"},
		{name: "align", args: []string{"align"}, want: "Aligning plugin versions...\n"},
		{name: "validate", args: []string{"validate"}, want: "Validating lunaris.toml...\n"},
		{name: "new", args: []string{"new", "effect", "glow"}, want: "Creating new effect plugin: glow\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.fail = func([]string) error { return assert.AnError }

			out, err := h.execute(append([]string{"-C", h.root}, tt.args...)...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, out, "(Not implemented yet")
			assert.Empty(t, h.calls)
		})
	}
}

func TestCLI_ArgumentErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "add without plugin", args: []string{"add"}},
		{name: "new with one arg", args: []string{"new", "effect"}},
		{name: "update with args", args: []string{"update", "extra"}},
		{name: "global flag after non-forwarding subcommand", args: []string{"update", "-v"}},
		{name: "log level typo", args: []string{"--log-level", "loud", "check"}},
		{name: "verbose and quiet", args: []string{"-v", "-q", "check"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.execute(append([]string{"-C", h.root}, tt.args...)...)
			assert.Error(t, err)
			assert.Empty(t, h.calls)
		})
	}
}

func TestCLI_WorkspaceNotFound(t *testing.T) {
	h := newHarness(t)
	h.env["LUNAC_WORKSPACE_MARKER"] = "[lunac-test-marker-never-present]"

	_, err := h.execute("-C", h.root, "build")
	require.Error(t, err)
	assert.True(t, workspace.IsWorkspaceNotFound(err))
	assert.Equal(t, 1, executor.ExitCode(err))
	assert.Empty(t, h.calls)
}

func TestCLI_HyphenPassthrough(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "test hyphen arg without dash",
			args: []string{"test", "--nocapture"},
			want: [][]string{{"test", "--package", "lunaris", "--nocapture"}},
		},
		{
			name: "build own flag then cargo flag",
			args: []string{"build", "-r", "--target", "x"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "--release", "--target", "x"}},
		},
		{
			name: "build release then long cargo flag",
			args: []string{"build", "--release", "--target", "wasm32"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "--release", "--target", "wasm32"}},
		},
		{
			name: "cargo quiet flag reaches cargo",
			args: []string{"test", "-q"},
			want: [][]string{{"test", "--package", "lunaris", "-q"}},
		},
		{
			name: "cargo verbose flag reaches cargo",
			args: []string{"test", "-v", "foo"},
			want: [][]string{{"test", "--package", "lunaris", "-v", "foo"}},
		},
		{
			name: "lunac dir flag after subcommand is forwarded",
			args: []string{"check", "-C", "elsewhere", "--profile", "core"},
			want: [][]string{{"check", "--package", "lunaris", "-C", "elsewhere", "--profile", "core"}},
		},
		{
			name: "own flags after first cargo arg are forwarded",
			args: []string{"run", "--workspace", "--release", "--barebones"},
			want: [][]string{updateArgv, {"run", "--package", "lunaris", "--features", "full", "--workspace", "--release", "--barebones"}},
		},
		{
			name: "only one dash is consumed",
			args: []string{"test", "--", "--", "--nocapture"},
			want: [][]string{{"test", "--package", "lunaris", "--", "--nocapture"}},
		},
		{
			name: "assignment form is not an own flag",
			args: []string{"build", "--release=true"},
			want: [][]string{{"build", "--package", "lunaris", "--features", "full", "--release=true"}},
		},
		{
			name: "help after dash goes to cargo",
			args: []string{"clippy", "--", "--help"},
			want: [][]string{{"clippy", "--package", "lunaris", "--help"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.execute(append([]string{"-C", h.root}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.argv())
		})
	}
}

func TestCLI_GlobalFlagsBeforeSubcommand(t *testing.T) {
	h := newHarness(t)
	nested := filepath.Join(h.root, "crates", "lunaris")

	_, err := h.execute("-q", "--profile", "core", "-C", nested, "test", "-q")
	require.NoError(t, err)
	require.Len(t, h.calls, 1)
	assert.Equal(t, h.root, h.calls[0].root)
	assert.Equal(t, []string{"test", "--package", "lunaris_core", "-q"}, h.calls[0].args)
}

func TestAppLevel(t *testing.T) {
	tests := []struct {
		name    string
		app     app
		def     logging.Level
		want    logging.Level
		wantErr bool
	}{
		{name: "default warn", def: logging.LevelWarn, want: logging.LevelWarn},
		{name: "watch default info", def: logging.LevelInfo, want: logging.LevelInfo},
		{name: "verbose", app: app{verbose: true}, def: logging.LevelInfo, want: logging.LevelDebug},
		{name: "quiet", app: app{quiet: true}, def: logging.LevelInfo, want: logging.LevelError},
		{name: "log level flag", app: app{logLevel: "error"}, def: logging.LevelInfo, want: logging.LevelError},
		{name: "verbose beats log level", app: app{verbose: true, logLevel: "error"}, def: logging.LevelWarn, want: logging.LevelDebug},
		{name: "bad log level", app: app{logLevel: "loud"}, def: logging.LevelWarn, wantErr: true},
		{name: "verbose and quiet", app: app{verbose: true, quiet: true}, def: logging.LevelWarn, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.app.level(tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLI_HelpWorksOutsideWorkspace(t *testing.T) {
	h := newHarness(t)
	h.env["LUNAC_WORKSPACE_MARKER"] = "[lunac-test-marker-never-present]"

	out, err := h.execute("-C", h.root, "help", "build")
	require.NoError(t, err)
	assert.Contains(t, out, "--barebones")

	out, err = h.execute("build", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--release")

	out, err = h.execute("-C", h.root, "test", "-h")
	require.NoError(t, err)
	assert.Contains(t, out, "Run tests")
	assert.Empty(t, h.calls)
}

func TestCLI_CoreProfile(t *testing.T) {
	h := newHarness(t)

	_, err := h.execute("-C", h.root, "--profile", "core", "run", "--release")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"run", "-q", "-p", "linker_updater", "--", "linker/Cargo.toml", "plugins/"},
		{"run", "--package", "lunaris_core", "--release"},
	}, h.argv())

	h.calls = nil
	_, err = h.execute("-C", h.root, "--profile", "core", "build", "--barebones")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--barebones is not supported")
	assert.Empty(t, h.calls)
}

func TestCLI_ProfileFromEnvAndConfigFile(t *testing.T) {
	h := newHarness(t)
	h.env["LUNAC_PROFILE"] = string(config.ProfileCore)
	require.NoError(t, os.WriteFile(filepath.Join(h.root, config.FileName), []byte("package: lunaris_editor\ntool: cross\n"), 0644))

	_, err := h.execute("-C", h.root, "check")
	require.NoError(t, err)
	require.Len(t, h.calls, 1)
	assert.Equal(t, "cross", h.calls[0].tool)
	assert.Equal(t, []string{"check", "--package", "lunaris_editor"}, h.calls[0].args)
}

func TestCLI_UnknownProfile(t *testing.T) {
	h := newHarness(t)
	_, err := h.execute("-C", h.root, "--profile", "desktop", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}

func TestCLI_UpdateWatchRequiresPluginsDir(t *testing.T) {
	h := newHarness(t)
	_, err := h.execute("-C", h.root, "update", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plugins directory not found")
	assert.Empty(t, h.calls)
}
