// Package config holds rigsplit run options.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Output formats.
const (
	FormatBinary = "binary"
	FormatASCII  = "ascii"
	FormatGLB    = "glb"
)

type Options struct {
	RotateToFaceZ bool     `yaml:"rotate_to_face_z"`
	ForwardHint   string   `yaml:"forward_hint"`
	Extensions    []string `yaml:"extensions"`
	Format        string   `yaml:"format"`
	NameEncoding  string   `yaml:"name_encoding"`
	Dump          bool     `yaml:"dump"`
}

func Default() *Options {
	return &Options{
		ForwardHint: "Spine",
		Extensions:  []string{".fbx"},
		Format:      FormatBinary,
	}
}

// Load reads options from a YAML file. Fields missing from the file keep
// their default values.
func Load(path string) (*Options, error) {
	opts := Default()
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	if err := yaml.NewDecoder(r).Decode(opts); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return opts, opts.Validate()
}

func (o *Options) Validate() error {
	switch o.Format {
	case FormatBinary, FormatASCII, FormatGLB:
	default:
		return errors.Errorf("unknown format: %q", o.Format)
	}
	if len(o.Extensions) == 0 {
		return errors.New("no input extensions")
	}
	return nil
}

// MatchExtension reports whether the file name has one of the configured
// extensions. Comparison is case-insensitive.
func (o *Options) MatchExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range o.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
