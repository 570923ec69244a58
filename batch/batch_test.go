package batch

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/binzume/rigsplit/config"
	"github.com/binzume/rigsplit/converter"
	"github.com/binzume/rigsplit/fbx"
	"github.com/binzume/rigsplit/geom"
	"github.com/binzume/rigsplit/scene"
)

type recorder struct {
	lines []string
}

func (r *recorder) Printf(format string, v ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, v...))
}

func (r *recorder) contains(s string) bool {
	for _, l := range r.lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// fakeIO returns a scene per file name and records exported paths.
type fakeIO struct {
	scenes   map[string]*scene.Scene
	failOn   string
	exported map[string]*scene.Scene
}

func (f *fakeIO) Import(path string) (*scene.Scene, error) {
	if s, ok := f.scenes[filepath.Base(path)]; ok {
		return s, nil
	}
	return nil, errors.New("broken file")
}

func (f *fakeIO) Export(s *scene.Scene, path string) error {
	if f.failOn != "" && strings.Contains(path, f.failOn) {
		return errors.New("disk full")
	}
	f.exported[filepath.Base(path)] = s
	return nil
}

func newActorScene(names ...string) *scene.Scene {
	s := scene.New("")
	for i, name := range names {
		id := s.AddNode(s.Root(), name)
		s.Node(id).Translation = geom.Vector3{X: float64(i + 1), Y: 90, Z: 3}
		s.Node(id).Attribute = &scene.Skeleton{SkeletonType: scene.SkeletonRoot, Size: 1}
		child := s.AddNode(id, name+"_Spine")
		s.Node(child).Translation = geom.Vector3{Y: 10}
		s.Node(child).Attribute = &scene.Skeleton{SkeletonType: scene.SkeletonLimbNode, Size: 1}
	}
	return s
}

func newTestProcessor(t *testing.T, fio *fakeIO, opts *config.Options) (*Processor, *recorder) {
	t.Helper()
	rec := &recorder{}
	p := NewProcessor(opts, rec)
	p.Importer = fio
	p.Exporter = fio
	return p, rec
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	for in, want := range map[string]string{
		"Hero":            "Hero",
		"mixamorig:Hips":  "mixamorig_Hips",
		"Actor 01.v2":     "Actor_01_v2",
		"テスト":             "___",
		"":                "",
		"a/b\\c":          "a_b_c",
		"Skeleton_Root-1": "Skeleton_Root_1",
	} {
		if got := SanitizeName(in); got != want {
			t.Errorf("%q: %q != %q", in, got, want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	dir := filepath.Join("data", "capture")
	if p := OutputPath(filepath.Join(dir, "scene.fbx"), "Actor:1", ".fbx"); p != filepath.Join(dir, "scene_Actor_1.fbx") {
		t.Error(p)
	}
	if p := OutputPath(filepath.Join(dir, "take.v2.FBX"), "Hips", ".glb"); p != filepath.Join(dir, "take.v2_Hips.glb") {
		t.Error(p)
	}
}

func TestProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "scene.fbx", "other.FBX", "notes.txt", "broken.fbx", "empty.fbx")
	if err := os.Mkdir(filepath.Join(dir, "sub.fbx"), 0755); err != nil {
		t.Fatal(err)
	}

	fio := &fakeIO{
		scenes: map[string]*scene.Scene{
			"scene.fbx": newActorScene("Hero", "Villain:01"),
			"other.FBX": newActorScene("Hero"),
			"notes.txt": newActorScene("Ignored"),
			"empty.fbx": scene.New(""),
		},
		exported: map[string]*scene.Scene{},
	}
	p, rec := newTestProcessor(t, fio, nil)
	if err := p.ProcessDirectory(dir); err != nil {
		t.Fatal(err)
	}

	if len(fio.exported) != 3 {
		t.Fatal("exported: ", fio.exported)
	}
	for _, name := range []string{"scene_Hero.fbx", "scene_Villain_01.fbx", "other_Hero.FBX"} {
		if fio.exported[name] == nil {
			t.Error("missing output: ", name)
		}
	}
	want := Summary{Files: 4, Skeletons: 3, Outputs: 3, ImportFailures: 1}
	if p.Summary != want {
		t.Error("summary: ", p.Summary)
	}
	if !rec.contains("Found 2 skeletons in the file.") || !rec.contains("Found 0 skeletons in the file.") {
		t.Error("log: ", rec.lines)
	}
	if !rec.contains("broken file") {
		t.Error("import failure should be logged")
	}

	// extracted scenes are recentered
	hero := fio.exported["scene_Hero.fbx"]
	roots := hero.Children(hero.Root())
	if len(roots) != 1 || hero.Node(roots[0]).Name != "Hero" || hero.Node(roots[0]).Translation.Y != 90 {
		t.Fatal("hero scene")
	}
}

func TestProcessDirectoryMissing(t *testing.T) {
	p, _ := newTestProcessor(t, &fakeIO{}, nil)
	if err := p.ProcessDirectory(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("should fail")
	}
}

func TestProcessDirectoryEmpty(t *testing.T) {
	fio := &fakeIO{exported: map[string]*scene.Scene{}}
	p, _ := newTestProcessor(t, fio, nil)
	if err := p.ProcessDirectory(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if len(fio.exported) != 0 || p.Summary != (Summary{}) {
		t.Error("summary: ", p.Summary)
	}
}

func TestProcessFileExportFailure(t *testing.T) {
	dir := t.TempDir()
	fio := &fakeIO{
		scenes:   map[string]*scene.Scene{"scene.fbx": newActorScene("A", "B", "C")},
		failOn:   "_B",
		exported: map[string]*scene.Scene{},
	}
	p, rec := newTestProcessor(t, fio, nil)
	if err := p.ProcessFile(filepath.Join(dir, "scene.fbx")); err != nil {
		t.Fatal(err)
	}
	if len(fio.exported) != 2 || fio.exported["scene_A.fbx"] == nil || fio.exported["scene_C.fbx"] == nil {
		t.Error("exported: ", fio.exported)
	}
	if p.Summary.ExportFailures != 1 || p.Summary.Outputs != 2 {
		t.Error("summary: ", p.Summary)
	}
	if !rec.contains("disk full") {
		t.Error("log: ", rec.lines)
	}

	err := p.ProcessFile(filepath.Join(dir, "missing.fbx"))
	if _, ok := err.(*ImportError); !ok {
		t.Fatal("import error: ", err)
	}
	if errors.Cause(err).Error() != "broken file" {
		t.Error("cause: ", errors.Cause(err))
	}
}

func TestProcessFileRotate(t *testing.T) {
	s := scene.New("")
	root := s.AddNode(s.Root(), "Hero")
	s.Node(root).Attribute = &scene.Skeleton{SkeletonType: scene.SkeletonRoot}
	spine := s.AddNode(root, "Spine")
	s.Node(spine).Translation = geom.Vector3{X: 1}
	s.Node(spine).Attribute = &scene.Skeleton{SkeletonType: scene.SkeletonLimbNode}

	fio := &fakeIO{scenes: map[string]*scene.Scene{"a.fbx": s}, exported: map[string]*scene.Scene{}}
	opts := config.Default()
	opts.RotateToFaceZ = true
	opts.Dump = true
	p, rec := newTestProcessor(t, fio, opts)
	if err := p.ProcessFile("a.fbx"); err != nil {
		t.Fatal(err)
	}
	out := fio.exported["a_Hero.fbx"]
	if out == nil {
		t.Fatal("no output")
	}
	if r := out.Node(out.Children(out.Root())[0]).Rotation.Y; math.Abs(r+90) > 1e-9 {
		t.Error("rotation: ", r)
	}
	if s.Node(root).Rotation.Y != 0 {
		t.Error("source scene was modified")
	}
	if !rec.contains("Rotated Hero") || !rec.contains("Spine") {
		t.Error("log: ", rec.lines)
	}
}

func TestFileIO(t *testing.T) {
	doc, err := converter.NewSceneToFBXConverter(nil).Convert(newActorScene("Hero", "Sidekick"))
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []string{config.FormatASCII, config.FormatBinary, config.FormatGLB} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			if err := fbx.Save(doc, filepath.Join(dir, "actors.fbx")); err != nil {
				t.Fatal(err)
			}
			opts := config.Default()
			opts.Format = format
			p := NewProcessor(opts, &recorder{})
			if err := p.ProcessDirectory(dir); err != nil {
				t.Fatal(err)
			}
			if p.Summary.Outputs != 2 || p.Summary.ImportFailures != 0 {
				t.Fatal("summary: ", p.Summary)
			}

			ext := ".fbx"
			if format == config.FormatGLB {
				ext = ".glb"
			}
			out := filepath.Join(dir, "actors_Sidekick"+ext)
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			switch format {
			case config.FormatASCII:
				if !bytes.HasPrefix(data, []byte("; FBX")) {
					t.Error("ascii header")
				}
				s, err := (&FileIO{}).Import(out)
				if err != nil {
					t.Fatal(err)
				}
				if s.NodeCount() != 3 || s.FindNode("Sidekick_Spine") == scene.NoNode {
					t.Error("reimported nodes: ", s.NodeCount())
				}
			case config.FormatBinary:
				if !bytes.HasPrefix(data, []byte("Kaydara FBX Binary")) {
					t.Error("binary header")
				}
			case config.FormatGLB:
				if !bytes.HasPrefix(data, []byte("glTF")) {
					t.Error("glb header")
				}
			}
		})
	}
}
