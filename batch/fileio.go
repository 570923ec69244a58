package batch

import (
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	"github.com/binzume/rigsplit/config"
	"github.com/binzume/rigsplit/converter"
	"github.com/binzume/rigsplit/fbx"
	"github.com/binzume/rigsplit/scene"
)

type Importer interface {
	Import(path string) (*scene.Scene, error)
}

type Exporter interface {
	Export(s *scene.Scene, path string) error
}

// FileIO reads FBX files and writes scenes as FBX (binary or ASCII) or glb.
type FileIO struct {
	Format       string
	NameEncoding string
}

func (f *FileIO) Import(path string) (*scene.Scene, error) {
	doc, err := fbx.Load(path)
	if err != nil {
		return nil, err
	}
	return converter.NewFBXToSceneConverter(&converter.FBXToSceneOption{NameEncoding: f.NameEncoding}).Convert(doc)
}

func (f *FileIO) Export(s *scene.Scene, path string) error {
	if f.Format == config.FormatGLB {
		doc, err := converter.NewSceneToGLTFConverter(nil).Convert(s)
		if err != nil {
			return err
		}
		return gltf.SaveBinary(doc, path)
	}

	doc, err := converter.NewSceneToFBXConverter(nil).Convert(s)
	if err != nil {
		return err
	}
	switch f.Format {
	case config.FormatASCII:
		return fbx.Save(doc, path)
	case config.FormatBinary, "":
		return fbx.SaveBinary(doc, path)
	}
	return errors.Errorf("unsupported output format: %v", f.Format)
}
