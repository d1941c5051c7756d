package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/server/responses"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newContentCLI writes a config that serves only the files in a temp content
// directory and returns a CLI primed with it.
func newContentCLI(t *testing.T, files map[string]string) *CLI {
	t.Helper()
	root := t.TempDir()
	contentDir := filepath.Join(root, "articles")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644))
	}

	cfgPath := filepath.Join(root, "config.yaml")
	cfgYAML := fmt.Sprintf("content:\n  disable_bundled: true\n  directories: [%q]\n", contentDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	cli := &CLI{Config: cfgPath}
	require.NoError(t, cli.AfterApply())
	return cli
}

func run(t *testing.T, fn func(g *Global) error) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := fn(&Global{Logger: quietLogger(), Stdout: &out})
	return out.String(), err
}

const (
	partnerDoc = "---\ntitle: Making Partner\ndate: 2024-06-01\nauthor: Jo\ndescription: What changes\ncategory: Career\ntags: [Partnership]\n---\nBody.\n"
	courtsDoc  = "---\ntitle: Remote Courts\ndate: 2024-05-01\nauthor: Sam\ndescription: Hearings\ncategory: Innovation\ntags: [AI Ethics]\n---\nHearings moved online.\n"
	brokenDoc  = "---\ntitle: Never closed\n"
)

func TestSettings_MissingFileUsesDefaults(t *testing.T) {
	cli := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cli.AfterApply())

	cfg, err := cli.Settings()
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server.Addr, cfg.Server.Addr)
}

func TestSettings_InvalidFileIsConfigError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0o644))

	cli := &CLI{Config: path}
	require.NoError(t, cli.AfterApply())

	_, err := cli.Settings()
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestList_Text(t *testing.T) {
	cli := newContentCLI(t, map[string]string{
		"making-partner.md": partnerDoc,
		"remote-courts.md":  courtsDoc,
	})

	out, err := run(t, func(g *Global) error { return (&ListCmd{View: "default", Format: "text"}).Run(g, cli) })
	require.NoError(t, err)
	assert.Contains(t, out, "making-partner")
	assert.Contains(t, out, "remote-courts")
	assert.Less(t, bytes.Index([]byte(out), []byte("making-partner")), bytes.Index([]byte(out), []byte("remote-courts")))
	assert.Contains(t, out, "2 insights")
}

func TestList_JSONFiltersByViewAndTag(t *testing.T) {
	cli := newContentCLI(t, map[string]string{
		"making-partner.md": partnerDoc,
		"remote-courts.md":  courtsDoc,
	})

	out, err := run(t, func(g *Global) error {
		return (&ListCmd{View: "future", Tag: "ai ethics", Format: "json"}).Run(g, cli)
	})
	require.NoError(t, err)

	var resp responses.InsightListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "future", resp.View)
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, "remote-courts", resp.Insights[0].Slug)
}

func TestShow(t *testing.T) {
	cli := newContentCLI(t, map[string]string{"making-partner.md": partnerDoc})

	out, err := run(t, func(g *Global) error {
		return (&ShowCmd{Slug: "making-partner", Format: "text"}).Run(g, cli)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Making Partner\n==============\n")
	assert.Contains(t, out, "Category: Career")
	assert.Contains(t, out, "Body.")

	out, err = run(t, func(g *Global) error {
		return (&ShowCmd{Slug: "making-partner", Format: "json"}).Run(g, cli)
	})
	require.NoError(t, err)
	var detail responses.InsightDetail
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Contains(t, detail.HTML, "Body.")
	assert.NotEmpty(t, detail.Fingerprint)
}

func TestShow_NotFound(t *testing.T) {
	cli := newContentCLI(t, map[string]string{"making-partner.md": partnerDoc})

	_, err := run(t, func(g *Global) error { return (&ShowCmd{Slug: "nope", Format: "text"}).Run(g, cli) })
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, quietLogger()).ExitCodeFor(err))
}

func TestLint(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		cli := newContentCLI(t, map[string]string{"making-partner.md": partnerDoc})
		out, err := run(t, func(g *Global) error { return (&LintCmd{Format: "text"}).Run(g, cli) })
		require.NoError(t, err)
		assert.Contains(t, out, "All content passes linting")
	})

	t.Run("broken front matter fails", func(t *testing.T) {
		cli := newContentCLI(t, map[string]string{
			"making-partner.md": partnerDoc,
			"broken.md":         brokenDoc,
		})
		out, err := run(t, func(g *Global) error { return (&LintCmd{Format: "json"}).Run(g, cli) })
		require.ErrorIs(t, err, ErrLintFailed)
		assert.Contains(t, out, "document-unparseable")
	})
}

func TestLintWatch_NoDirectories(t *testing.T) {
	cli := &CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}
	require.NoError(t, cli.AfterApply())
	cfg, err := cli.Settings()
	require.NoError(t, err)

	l := &LintCmd{Format: "text"}
	err = l.watch(context.Background(), cfg, quietLogger(), io.Discard)
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cli := &CLI{Config: path}

	out, err := run(t, func(g *Global) error { return (&InitCmd{}).Run(g, cli) })
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")

	_, err = config.Load(path)
	require.NoError(t, err)

	_, err = run(t, func(g *Global) error { return (&InitCmd{}).Run(g, cli) })
	assert.Error(t, err, "existing file without --force")
}

func TestVersion(t *testing.T) {
	out, err := run(t, func(g *Global) error { return (&VersionCmd{}).Run(g) })
	require.NoError(t, err)
	assert.Contains(t, out, "insightsite ")
	assert.Contains(t, out, "commit:")
}

func TestServe_StartsAndStops(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg, quietLogger(), func(addr string) { ready <- addr }) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	for _, path := range []string{"/healthz", "/metrics", "/api/insights"} {
		resp, err := http.Get("http://" + addr + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeCmd_Overrides(t *testing.T) {
	cfg := config.Default()
	(&ServeCmd{Addr: ":9999", MediaDir: "/srv/media", NoProbe: true, NoMetrics: true}).apply(cfg)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/srv/media", cfg.Server.MediaDir)
	assert.True(t, cfg.Monitoring.DisableProbe)
	assert.True(t, cfg.Monitoring.DisableMetrics)
}
