package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const menuYAML = `
tag: ul
bind:
  title: heading
on:
  click@.item: pick
children:
  - tag: li
    attrs: {class: item, id: a}
    text: A
  - tag: li
    attrs: {class: other, id: b}
    text: B
  - tag: span
    bind: {text: heading}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	a := newApp()
	t.Cleanup(a.close)

	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)

	err := a.root.Execute()
	return out.String(), err
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menu.yaml", menuYAML)
	state := writeFile(t, dir, "state.yaml", "heading: Menu\n")

	out, err := runCLI(t, "render", "menu", "--templates", dir, "--state", state,
		"--set", "heading=Dinner", "--trigger", "click@li")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "event pick target=li#a.item (ul>)", lines[0])
	require.Equal(t,
		`<ul title="Dinner"><li class="item" id="a">A</li><li class="other" id="b">B</li><span>Dinner</span></ul>`,
		lines[1])
}

func TestRenderTypedChanges(t *testing.T) {
	changes, err := parseChanges([]string{"n=3", "on=true", "name=x y", "empty="})
	require.NoError(t, err)
	require.Equal(t, []change{
		{key: "n", value: 3},
		{key: "on", value: true},
		{key: "name", value: "x y"},
		{key: "empty", value: nil},
	}, changes)

	_, err = parseChanges([]string{"novalue"})
	require.ErrorContains(t, err, "key=value")

	_, err = parseTriggers([]string{"@li"})
	require.Error(t, err)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menu.yaml", menuYAML)

	_, err := runCLI(t, "render", "missing", "--templates", dir)
	require.ErrorContains(t, err, "template not found")

	_, err = runCLI(t, "render", "menu", "--templates", dir, "--trigger", "click@li[")
	require.Error(t, err)

	_, err = runCLI(t, "render")
	require.Error(t, err)
}

func TestConfigSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menu.yaml", menuYAML)

	cfgFile := writeFile(t, t.TempDir(), "wadeview.yaml", "templates: "+dir+"\ncache_ttl: 1m\n")
	out, err := runCLI(t, "render", "menu", "--config", cfgFile)
	require.NoError(t, err)
	require.Contains(t, out, "<ul>")

	t.Setenv("WADEVIEW_TEMPLATES", dir)
	out, err = runCLI(t, "render", "menu")
	require.NoError(t, err)
	require.Contains(t, out, "<span></span>")

	bad := writeFile(t, t.TempDir(), "bad.yaml", "cache_ttl: -1s\n")
	_, err = runCLI(t, "render", "menu", "--config", bad)
	require.ErrorContains(t, err, "invalid configuration")
}

func TestDebugLog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menu.yaml", menuYAML)
	logFile := filepath.Join(dir, "debug.log")
	t.Setenv("WADEVIEW_LOG_FILE", logFile)

	_, err := runCLI(t, "render", "menu", "--templates", dir, "--debug")
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "[cli] config loaded")
	require.Contains(t, string(data), "[render] rendered")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "menu.yaml", menuYAML)

	a := newApp()
	a.cfg.Templates = dir

	ctx, cancel := context.WithCancel(context.Background())
	var out, errs syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, &out, &errs, a.loader(), "menu", renderOptions{})
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "<ul>")
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "menu.yaml"), []byte("tag: p\ntext: changed\n"), 0o644)
		return strings.Contains(out.String(), "<p>changed</p>")
	}, 5*time.Second, 50*time.Millisecond)
	require.Contains(t, out.String(), "--- menu changed")

	cancel()
	require.NoError(t, <-done)
}
