package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"humspine/internal/config"
	"humspine/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	baseDir    string
	configPath string
	cachePath  string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "humspine.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		baseDir:    base,
		configPath: configPath,
		cachePath:  cfg.Cache.Path,
	}
}

func (e *cliTestEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return testsupport.WriteSpineFile(t, e.baseDir, name, content)
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
