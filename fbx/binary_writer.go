package fbx

import (
	"io"
	"io/ioutil"
	"os"

	"github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"
)

const binaryCreationTime = "1970-01-01 10:00:00:000"

var defaultFileId = []byte{
	0x28, 0xb3, 0x2a, 0xeb, 0xb6, 0x24, 0xcc, 0xc2,
	0xbf, 0xc8, 0xb0, 0x2a, 0xa9, 0x2b, 0xfc, 0xf1}

func toBinaryValue(v interface{}) interface{} {
	switch v := v.(type) {
	case int:
		return int32(v)
	case uint8:
		return int32(v)
	}
	return v
}

func toBinaryNode(n *Node) *fbx.Node {
	bn := &fbx.Node{Name: n.Name}
	for _, a := range n.Attributes {
		bn.Properties = append(bn.Properties, toBinaryValue(a.Value))
	}
	for _, c := range n.Children {
		bn.AddNodes(toBinaryNode(c))
	}
	return bn
}

// toBinaryFBX converts doc into a binary FBX 7.4 tree. The header records
// are regenerated.
func toBinaryFBX(doc *Document) *fbx.FBX {
	doc.UpdateDefinitions()

	fileId := doc.FileId
	if len(fileId) == 0 {
		fileId = defaultFileId
	}
	f := fbx.NewFBX(7400)
	f.Root.AddNodes(
		bfbx73.FBXHeaderExtension().AddNodes(
			bfbx73.FBXHeaderVersion(1003),
			bfbx73.FBXVersion(7400),
			bfbx73.EncryptionType(0),
			bfbx73.Creator(doc.Creator),
		),
		bfbx73.FileId(fileId),
		bfbx73.CreationTime(binaryCreationTime),
		bfbx73.Creator(doc.Creator),
	)
	for _, n := range doc.RawNode.Children {
		switch n.Name {
		case "FBXHeaderExtension", "FileId", "CreationTime", "Creator":
			continue
		}
		f.Root.AddNodes(toBinaryNode(n))
	}
	return f
}

// SaveBinary writes doc to path in binary format.
func SaveBinary(doc *Document, path string) error {
	return writeFile(path, func(f *os.File) error {
		return errors.Wrap(fbx.Write(f, toBinaryFBX(doc)), "write fbx")
	})
}

// WriteBinary writes doc in binary format. The encoder needs a seekable
// file, so the output is staged in a temporary file.
func WriteBinary(w io.Writer, doc *Document) error {
	tempFile, err := ioutil.TempFile("", "rigsplit.*.fbx")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	if err := fbx.Write(tempFile, toBinaryFBX(doc)); err != nil {
		return errors.Wrap(err, "write fbx")
	}
	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "unable to seek")
	}
	_, err = io.Copy(w, tempFile)
	return err
}
