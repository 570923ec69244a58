package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rigsplit.yaml")
	src := "rotate_to_face_z: true\nforward_hint: Chest\nextensions: [.fbx, .FBX7]\nformat: glb\nname_encoding: shift_jis\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.RotateToFaceZ || opts.ForwardHint != "Chest" || opts.Format != FormatGLB || opts.NameEncoding != "shift_jis" {
		t.Error("options: ", opts)
	}
	if len(opts.Extensions) != 2 || opts.Dump {
		t.Error("extensions: ", opts.Extensions)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rigsplit.yaml")
	if err := os.WriteFile(path, []byte("dump: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	opts, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Dump || opts.ForwardHint != "Spine" || opts.Format != FormatBinary || opts.Extensions[0] != ".fbx" {
		t.Error("defaults: ", opts)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"format.yaml": "format: obj\n",
		"syntax.yaml": "extensions: [\n",
		"empty.yaml":  "extensions: []\n",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error(name, " should fail")
		}
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestMatchExtension(t *testing.T) {
	opts := Default()
	for name, want := range map[string]bool{
		"a.fbx":     true,
		"B.FBX":     true,
		"c.Fbx":     true,
		"d.obj":     false,
		"fbx":       false,
		"e.fbx.bak": false,
	} {
		if got := opts.MatchExtension(name); got != want {
			t.Errorf("%s: %v", name, got)
		}
	}
	opts.Extensions = []string{"fbx"}
	if !opts.MatchExtension("a.fbx") {
		t.Error("extension without dot")
	}
}
