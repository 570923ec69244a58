package fbx

import (
	"compress/zlib"
	"encoding/binary"
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

const binaryMagic = "Kaydara FBX Binary  "

type positionReader struct {
	r        io.Reader
	position int64
}

func (r *positionReader) Read(p []byte) (n int, err error) {
	n, err = r.r.Read(p)
	r.position += int64(n)
	return n, err
}

func (r *positionReader) SkipTo(pos int64) error {
	offset := pos - r.position
	if offset < 0 {
		return errors.Errorf("cannot rewind to %d from %d", pos, r.position)
	}
	_, err := io.CopyN(ioutil.Discard, r, offset)
	return err
}

type binaryParser struct {
	r       *positionReader
	version uint32
	err     error
}

func (p *binaryParser) read(v interface{}) error {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
	return p.err
}

func (p *binaryParser) readUint8() uint8 {
	var v uint8
	p.read(&v)
	return v
}

func (p *binaryParser) readInt16() int16 {
	var v int16
	p.read(&v)
	return v
}

func (p *binaryParser) readInt32() int32 {
	var v int32
	p.read(&v)
	return v
}

func (p *binaryParser) readUint32() uint32 {
	var v uint32
	p.read(&v)
	return v
}

func (p *binaryParser) readInt64() int64 {
	var v int64
	p.read(&v)
	return v
}

func (p *binaryParser) readFloat32() float32 {
	var v float32
	p.read(&v)
	return v
}

func (p *binaryParser) readFloat64() float64 {
	var v float64
	p.read(&v)
	return v
}

// readOffset reads a record header field. 7.5 and later use 64 bits.
func (p *binaryParser) readOffset() uint64 {
	if p.version >= 7500 {
		var v uint64
		p.read(&v)
		return v
	}
	return uint64(p.readUint32())
}

func (p *binaryParser) readBytes(n uint32) []byte {
	buf := make([]byte, n)
	p.read(buf)
	return buf
}

func (p *binaryParser) readString(n uint32) string {
	return string(p.readBytes(n))
}

func (p *binaryParser) readArray(typ uint8) *Attribute {
	count := p.readUint32()
	encoding := p.readUint32()
	size := p.readUint32()
	if p.err != nil {
		return nil
	}

	var buf interface{}
	switch typ {
	case 'b':
		buf = make([]bool, count)
	case 'i':
		buf = make([]int32, count)
	case 'l':
		buf = make([]int64, count)
	case 'f':
		buf = make([]float32, count)
	case 'd':
		buf = make([]float64, count)
	}

	if encoding == 0 {
		p.read(buf)
	} else {
		next := p.r.position + int64(size)
		r, err := zlib.NewReader(io.LimitReader(p.r, int64(size)))
		if err != nil {
			p.err = errors.Wrap(err, "array")
			return nil
		}
		defer r.Close()
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			p.err = errors.Wrap(err, "array")
			return nil
		}
		p.err = p.r.SkipTo(next)
	}
	return &Attribute{Value: buf, ArraySize: uint(count)}
}

func (p *binaryParser) readAttribute() *Attribute {
	typ := p.readUint8()
	switch typ {
	case 'C':
		return &Attribute{Value: p.readUint8() != 0}
	case 'B':
		return &Attribute{Value: p.readUint8()}
	case 'Y':
		return &Attribute{Value: p.readInt16()}
	case 'I':
		return &Attribute{Value: p.readInt32()}
	case 'L':
		return &Attribute{Value: p.readInt64()}
	case 'F':
		return &Attribute{Value: p.readFloat32()}
	case 'D':
		return &Attribute{Value: p.readFloat64()}
	case 'S':
		return &Attribute{Value: p.readString(p.readUint32())}
	case 'R':
		return &Attribute{Value: p.readBytes(p.readUint32())}
	case 'b', 'i', 'l', 'f', 'd':
		return p.readArray(typ)
	}
	if p.err == nil {
		p.err = errors.Errorf("unknown attribute type: %v", typ)
	}
	return nil
}

// readNode returns nil at the null record that ends a node list.
func (p *binaryParser) readNode() *Node {
	end := p.readOffset()
	nattr := p.readOffset()
	p.readOffset() // attribute list length
	name := p.readString(uint32(p.readUint8()))
	if end == 0 || p.err != nil {
		return nil
	}

	n := &Node{Name: name}
	for i := uint64(0); i < nattr && p.err == nil; i++ {
		if a := p.readAttribute(); a != nil {
			n.Attributes = append(n.Attributes, a)
		}
	}

	for p.r.position < int64(end) && p.err == nil {
		child := p.readNode()
		if child == nil {
			break
		}
		n.Children = append(n.Children, child)
	}
	if p.err == nil {
		p.err = p.r.SkipTo(int64(end))
	}
	if p.err != nil {
		p.err = errors.Wrapf(p.err, "node %s", name)
		return nil
	}
	return n
}

func (p *binaryParser) Parse() (*Node, error) {
	if p.readString(uint32(len(binaryMagic))) != binaryMagic {
		return nil, errors.New("unknown fbx format")
	}
	p.readBytes(3)
	p.version = p.readUint32()
	if p.err != nil {
		return nil, p.err
	}

	root := &Node{Name: "_FBX_ROOT"}
	for p.err == nil {
		node := p.readNode()
		if node == nil {
			break
		}
		root.Children = append(root.Children, node)
	}
	if p.err != nil {
		return nil, p.err
	}
	return root, nil
}
