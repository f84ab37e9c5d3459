package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Addr != DefaultAddr || c.Root != "." || !c.IsPretty() || c.MaxUpload != DefaultMaxUpload {
		t.Errorf("unexpected defaults: %+v", c)
	}
	if d := cmp.Diff(DefaultExtensions, c.Extensions); d != "" {
		t.Errorf("extensions (-want +got):\n%s", d)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nbtedit.yaml")
	data := []byte("addr: 127.0.0.1:9000\nroot: /srv/worlds\npretty: false\nmax_upload: 1024\nextensions: [.dat]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := &Config{
		Addr:       "127.0.0.1:9000",
		Root:       "/srv/worlds",
		Pretty:     new(bool),
		MaxUpload:  1024,
		Extensions: []string{".dat"},
	}
	if d := cmp.Diff(want, c); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("adr: :80\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}
