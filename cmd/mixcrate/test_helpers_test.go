package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mixcrate/internal/library"
	"mixcrate/internal/logging"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataDir    string
	cachePath  string
	musicDir   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	dataDir := filepath.Join(base, "data")
	logDir := filepath.Join(base, "logs")
	musicDir := filepath.Join(base, "music")
	for _, dir := range []string{dataDir, logDir, musicDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\napi_bind = \"127.0.0.1:0\"\n\n[library]\nroots = [%q]\n",
		dataDir, logDir, musicDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		baseDir:    base,
		configPath: configPath,
		dataDir:    dataDir,
		cachePath:  filepath.Join(dataDir, "analysis_cache.json"),
		musicDir:   musicDir,
	}
}

// seedCache persists the given tracks into the env's analysis cache so CLI
// commands that read the cache see a populated library.
func (env *cliTestEnv) seedCache(t *testing.T, tracks ...library.Track) {
	t.Helper()

	cache := library.NewCache(env.cachePath, logging.NewNop())
	for i, track := range tracks {
		cache.Put(library.Entry{
			Fingerprint: library.Fingerprint{MTime: int64(1000 + i), Size: 4096},
			Info:        track,
		})
	}
	if err := cache.Save(); err != nil {
		t.Fatalf("save cache: %v", err)
	}
}

// testTrack builds a fully analyzed track rooted under the env's music dir.
func (env *cliTestEnv) testTrack(folder, filename, camelot string, bpm int) library.Track {
	track := library.NewTrack(filepath.ToSlash(filepath.Join(env.musicDir, folder, filename)))
	track.Duration = 200
	track.Bitrate = 320000
	track.SampleRate = 44100
	track.LoudnessDBFS = -9.5
	track.Key = "C Major"
	track.Camelot = camelot
	track.BPM = bpm
	return track
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
