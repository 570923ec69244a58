// Package batch runs skeleton extraction over a directory of scene files.
package batch

import (
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/binzume/rigsplit/config"
	"github.com/binzume/rigsplit/extract"
	"github.com/binzume/rigsplit/scene"
)

type Logger interface {
	Printf(format string, v ...interface{})
}

// Summary counts what a Processor has done so far.
type Summary struct {
	Files          int
	Skeletons      int
	Outputs        int
	ImportFailures int
	ExportFailures int
}

type Processor struct {
	Importer  Importer
	Exporter  Exporter
	Extractor *extract.Extractor
	Summary   Summary

	options *config.Options
	log     Logger
	spew    *spew.ConfigState
}

// NewProcessor creates a Processor reading and writing files with FileIO.
func NewProcessor(options *config.Options, logger Logger) *Processor {
	if options == nil {
		options = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	fio := &FileIO{Format: options.Format, NameEncoding: options.NameEncoding}
	sc := spew.NewDefaultConfig()
	sc.DisableCapacities = true
	sc.DisablePointerAddresses = true
	return &Processor{
		Importer: fio,
		Exporter: fio,
		Extractor: extract.NewExtractor(&extract.Options{
			RotateToFaceZ: options.RotateToFaceZ,
			ForwardHint:   options.ForwardHint,
		}, logger),
		options: options,
		log:     logger,
		spew:    sc,
	}
}

// SanitizeName replaces every rune outside [A-Za-z0-9] with '_'.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, name)
}

// OutputPath returns <dir>/<base>_<skeleton><ext> for the input path.
func OutputPath(input, skeleton, ext string) string {
	base := filepath.Base(input)
	base = base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(filepath.Dir(input), base+"_"+SanitizeName(skeleton)+ext)
}

func (p *Processor) outputExt(input string) string {
	if p.options.Format == config.FormatGLB {
		return ".glb"
	}
	return filepath.Ext(input)
}

// ProcessDirectory processes every regular file directly in dir that has
// a configured extension. Subdirectories are not visited.
func (p *Processor) ProcessDirectory(dir string) error {
	p.log.Printf("Processing directory: %s", dir)
	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "read directory")
	}
	for _, e := range entries {
		if !e.Mode().IsRegular() || !p.options.MatchExtension(e.Name()) {
			continue
		}
		if err := p.ProcessFile(filepath.Join(dir, e.Name())); err != nil {
			p.log.Printf("Failed to import scene: %v", err)
		}
	}
	return nil
}

// ProcessFile extracts every skeleton of the file into its own output.
// Export failures are logged and counted; only import failures are
// returned, as *ImportError.
func (p *Processor) ProcessFile(path string) error {
	p.log.Printf("Processing: %s", path)
	p.Summary.Files++

	src, err := p.Importer.Import(path)
	if err != nil {
		p.Summary.ImportFailures++
		return &ImportError{Path: path, Err: err}
	}

	roots := extract.FindSkeletonRoots(src)
	p.log.Printf("Found %d skeletons in the file.", len(roots))
	p.Summary.Skeletons += len(roots)

	for _, root := range roots {
		name := src.Node(root).Name
		p.log.Printf("  Processing skeleton: %s", name)

		s := p.Extractor.Extract(src, root)
		p.Extractor.Normalize(s)
		if p.options.Dump {
			p.log.Printf("%s", p.spew.Sdump(summarize(s)))
		}

		out := OutputPath(path, name, p.outputExt(path))
		if err := p.Exporter.Export(s, out); err != nil {
			p.Summary.ExportFailures++
			p.log.Printf("Failed to export scene: %v", &ExportError{Path: out, Skeleton: name, Err: err})
			continue
		}
		p.Summary.Outputs++
		p.log.Printf("  Successfully exported: %s", out)
	}
	return nil
}

func (p *Processor) LogSummary() {
	s := p.Summary
	p.log.Printf("Processed %d files: %d skeletons, %d outputs, %d import failures, %d export failures",
		s.Files, s.Skeletons, s.Outputs, s.ImportFailures, s.ExportFailures)
}

type nodeSummary struct {
	Name        string
	Attribute   string
	Translation [3]float64
	Rotation    [3]float64
	Children    []*nodeSummary
}

type stackSummary struct {
	Name   string
	Layers map[string]int // curves per layer
}

type sceneSummary struct {
	Name   string
	Root   []*nodeSummary
	Stacks []stackSummary
}

func summarizeNode(s *scene.Scene, id scene.NodeID) *nodeSummary {
	n := s.Node(id)
	ns := &nodeSummary{
		Name:        n.Name,
		Translation: [3]float64{n.Translation.X, n.Translation.Y, n.Translation.Z},
		Rotation:    [3]float64{n.Rotation.X, n.Rotation.Y, n.Rotation.Z},
	}
	if n.Attribute != nil {
		ns.Attribute = n.Attribute.Type().String()
	}
	for _, c := range s.Children(id) {
		ns.Children = append(ns.Children, summarizeNode(s, c))
	}
	return ns
}

func summarize(s *scene.Scene) *sceneSummary {
	ss := &sceneSummary{Name: s.Name}
	for _, c := range s.Children(s.Root()) {
		ss.Root = append(ss.Root, summarizeNode(s, c))
	}
	for _, st := range s.Stacks {
		sts := stackSummary{Name: st.Name, Layers: map[string]int{}}
		for _, l := range st.Layers {
			sts.Layers[l.Name] = l.CurveCount()
		}
		ss.Stacks = append(ss.Stacks, sts)
	}
	return ss
}
