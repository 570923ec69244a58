package fbx

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type tokenType int

const (
	Ident tokenType = iota
	Number
	String
	Operator
	BlockStart
	BlockEnd
	EOL
	EOF
)

type textParser struct {
	r   io.Reader
	buf []byte
	err error
}

var unquoteReplacer = strings.NewReplacer("&quot;", "\"", "&#10;", "\n")

func (p *textParser) errorf(f string, a ...interface{}) error {
	if p.err == nil {
		p.err = errors.Errorf(f, a...)
	}
	return p.err
}

func (p *textParser) read() byte {
	if len(p.buf) > 0 {
		b := p.buf[0]
		p.buf = p.buf[1:]
		return b
	}
	b := []byte{0}
	if p.err == nil {
		_, p.err = io.ReadFull(p.r, b)
	}
	return b[0]
}

func (p *textParser) unread(c byte) {
	if p.err == nil {
		p.buf = append(p.buf, c)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || isDigit(c) || c == '_' || c == '|' || c == '-'
}

func (p *textParser) getToken() (tokenType, string) {
	var c byte
	for p.err == nil {
		c = p.read()
		if p.err != nil {
			break
		}
		if c == ';' {
			for p.err == nil && c != '\n' {
				c = p.read()
			}
			if p.err == nil {
				return EOL, ""
			}
			continue
		} else if c == '{' {
			return BlockStart, string(c)
		} else if c == '}' {
			return BlockEnd, string(c)
		} else if c == '*' || c == ':' || c == ',' {
			return Operator, string(c)
		} else if isDigit(c) || c == '.' || c == '-' || c == '+' {
			buf := []byte{c}
			c = p.read()
			for (isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+') && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			p.unread(c)
			return Number, string(buf)
		} else if c == '\n' {
			return EOL, ""
		} else if c == '"' {
			buf := []byte{}
			c = p.read()
			for c != '"' && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			return String, unquoteReplacer.Replace(string(buf))
		} else if isIdentChar(c) {
			buf := []byte{}
			for isIdentChar(c) && p.err == nil {
				buf = append(buf, c)
				c = p.read()
			}
			p.unread(c)
			return Ident, string(buf)
		}
	}
	return EOF, ""
}

func (p *textParser) skip(t tokenType) bool {
	typ, s := p.getToken()
	if typ != t {
		p.errorf("unexpected token %q", s)
	}
	return typ == t
}

func isFloatToken(s string) bool {
	return strings.ContainsAny(s, ".eE")
}

func (p *textParser) parseArray() *Attribute {
	_, s := p.getToken()
	size, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		p.errorf("failed to parse array size: %q", s)
		return nil
	}
	p.skip(BlockStart)
	for p.err == nil {
		typ, s := p.getToken()
		if s == ":" || typ == BlockEnd {
			if typ == BlockEnd {
				p.buf = append([]byte{'}'}, p.buf...)
			}
			break
		}
	}

	var values []string
	hasPoint := false
	for p.err == nil {
		typ, s := p.getToken()
		if typ == EOL || typ == Operator {
			continue
		} else if typ == BlockEnd {
			break
		} else if typ == Number {
			values = append(values, s)
			hasPoint = hasPoint || isFloatToken(s)
		} else {
			p.errorf("invalid token in array: %q", s)
		}
	}
	if p.err != nil {
		return nil
	}
	if uint64(len(values)) != size {
		p.errorf("array size mismatch: %v != %v", size, len(values))
		return nil
	}

	if hasPoint {
		f := make([]float64, len(values))
		for i, s := range values {
			f[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				p.errorf("failed to parse number: %q", s)
			}
		}
		return &Attribute{Value: f, ArraySize: uint(size)}
	}

	l := make([]int64, len(values))
	fitsInt32 := true
	for i, s := range values {
		l[i], err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			p.errorf("failed to parse number: %q", s)
		}
		fitsInt32 = fitsInt32 && l[i] >= math.MinInt32 && l[i] <= math.MaxInt32
	}
	if !fitsInt32 {
		return &Attribute{Value: l, ArraySize: uint(size)}
	}
	i32 := make([]int32, len(l))
	for i, v := range l {
		i32[i] = int32(v)
	}
	return &Attribute{Value: i32, ArraySize: uint(size)}
}

func (p *textParser) parseValue(typ tokenType, s string) *Attribute {
	switch typ {
	case Number:
		if isFloatToken(s) {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				p.errorf("failed to parse number: %q", s)
			}
			return &Attribute{Value: v}
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			p.errorf("failed to parse number: %q", s)
		}
		return &Attribute{Value: v}
	case String:
		return &Attribute{Value: s}
	case Ident:
		switch s {
		case "T", "Y":
			return &Attribute{Value: true}
		case "F", "N":
			return &Attribute{Value: false}
		}
		return &Attribute{Value: s}
	}
	return nil
}

func (p *textParser) parseNodeList() []*Node {
	var nodes []*Node
	for p.err == nil {
		typ, s := p.getToken()
		if typ == EOL {
			continue
		} else if typ == EOF || typ == BlockEnd {
			break
		} else if typ != Ident {
			p.errorf("unexpected token %q", s)
			break
		}
		p.skip(Operator)
		node := &Node{Name: s}
		nodes = append(nodes, node)
		for p.err == nil {
			typ, s := p.getToken()
			if typ == EOL || typ == EOF {
				break
			} else if typ == BlockStart {
				node.Children = p.parseNodeList()
				break
			} else if typ == Operator {
				if s == "*" {
					if a := p.parseArray(); a != nil {
						node.Attributes = append(node.Attributes, a)
					}
				}
			} else if a := p.parseValue(typ, s); a != nil {
				node.Attributes = append(node.Attributes, a)
			} else {
				p.errorf("unexpected token %q in %s", s, node.Name)
			}
		}
	}
	return nodes
}

func (p *textParser) Parse() (*Node, error) {
	root := &Node{Name: "_FBX_ROOT"}
	root.Children = p.parseNodeList()
	if p.err != nil && p.err != io.EOF {
		return nil, p.err
	}
	return root, nil
}
