package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	global := []string{"--config", filepath.Join(home, "arcade.yaml"), "--log-level", "error"}

	steps := []struct {
		args    []string
		want    string
		notWant string
		wantErr bool
	}{
		{args: []string{"config", "set", "difficulty", "hard"}, want: "difficulty = hard"},
		{args: []string{"config", "get", "difficulty"}, want: "hard"},
		{args: []string{"config", "set", "fps", "0"}, wantErr: true},
		{args: []string{"config", "set", "no.such.key", "1"}, wantErr: true},
		{args: []string{"list"}, want: "Pong Classic"},
		{args: []string{"plugins", "disable", "pong"}, want: "pong disabled"},
		{args: []string{"list"}, want: "Tetris Classic", notWant: "pong"},
		{args: []string{"config", "get", "disabled_plugins"}, want: "pong"},
		{args: []string{"plugins", "list"}, want: "7 games, 6 enabled, 1 disabled"},
		{args: []string{"plugins", "enable", "pong"}, want: "pong enabled"},
		{args: []string{"plugins", "info", "tetris"}, want: "time_attack"},
		{args: []string{"plugins", "search", "invader"}, want: "Space Invaders"},
		{args: []string{"plugins", "info", "solitaire"}, wantErr: true},
		{args: []string{"scores", "maze"}, want: "No scores recorded yet."},
		{args: []string{"scores"}, want: "platformer"},
		{args: []string{"achievements"}, want: "(0/"},
		{args: []string{"play", "maze", "--mode", "multiplayer"}, wantErr: true},
		{args: []string{"play", "solitaire"}, wantErr: true},
	}
	for _, st := range steps {
		name := strings.Join(st.args, " ")
		out, err := execute(append(st.args, global...)...)
		if st.wantErr {
			if err == nil {
				t.Errorf("arcade %s: expected an error", name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("arcade %s: %v", name, err)
		}
		if !strings.Contains(out, st.want) {
			t.Errorf("arcade %s: output missing %q:\n%s", name, st.want, out)
		}
		if st.notWant != "" && strings.Contains(out, st.notWant) {
			t.Errorf("arcade %s: output has %q:\n%s", name, st.notWant, out)
		}
	}
}

// chdir changes the working directory for the duration of the test, like
// testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
