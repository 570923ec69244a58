package fbx

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

func Load(path string) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// Parse reads a binary or ASCII FBX document.
func Parse(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	var root *Node
	var err error
	if magic, _ := br.Peek(len(binaryMagic)); string(magic) == binaryMagic {
		p := binaryParser{r: &positionReader{r: br}}
		root, err = p.Parse()
	} else {
		p := textParser{r: br}
		root, err = p.Parse()
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse fbx")
	}
	return BuildDocument(root)
}

// Save writes doc to path in ASCII format.
func Save(doc *Document, path string) error {
	return writeFile(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)
		if err := Write(bw, doc); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// writeFile creates path and passes it to write. The file is removed
// when write or Close fails.
func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

func Write(w io.Writer, doc *Document) error {
	doc.UpdateDefinitions()

	v := doc.Version
	if _, err := fmt.Fprintf(w, "; FBX %d.%d.%d project file\n", v/1000, v/100%10, v%100); err != nil {
		return err
	}
	fmt.Fprintln(w, "; Generator: "+doc.Creator)
	fmt.Fprintln(w, "; ----------------------------------------------------")
	fmt.Fprintln(w)
	for _, n := range doc.RawNode.Children {
		if n.Name != "FileId" {
			n.Dump(w, 0, true)
		}
	}
	return nil
}
