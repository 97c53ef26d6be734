package arena

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/ytype"
)

// Encoded schemas start with a magic plus a format version, so a cache can
// reject entries written by any other build without parsing further.
var codecMagic = []byte("YCS1")

const codecVersion = 1

const (
	tagNil = iota
	tagInt
	tagStr
	tagBool
	tagEmpty
	tagBinary
	tagDecimal64
	tagEnum
	tagBits
	tagIdentityRef
	tagUnion
)

// Encode writes the schema in its versioned binary form.
func (s *Schema) Encode(w io.Writer) error {
	buf := append([]byte(nil), codecMagic...)
	buf = binary.AppendUvarint(buf, codecVersion)
	buf = binary.AppendUvarint(buf, uint64(len(s.Nodes)))
	var err error
	for i := range s.Nodes {
		n := &s.Nodes[i]
		buf = binary.AppendUvarint(buf, uint64(n.Flags))
		buf = appendString(buf, n.Name)
		buf = appendString(buf, n.Module)
		buf = appendString(buf, n.Namespace)
		buf = appendString(buf, n.Units)
		buf = appendString(buf, n.Default)
		buf = binary.AppendUvarint(buf, uint64(n.Parent+1))
		buf = binary.AppendUvarint(buf, uint64(len(n.Children)))
		for _, c := range n.Children {
			buf = binary.AppendUvarint(buf, uint64(c))
		}
		buf = binary.AppendUvarint(buf, uint64(len(n.Keys)))
		for _, k := range n.Keys {
			buf = appendString(buf, k)
		}
		buf, err = appendType(buf, n.Type)
		if err != nil {
			return fmt.Errorf("node %d (%s): %w", i, n.Name, err)
		}
	}
	buf = binary.AppendUvarint(buf, uint64(len(s.Annotations)))
	for _, a := range s.Annotations {
		buf = appendString(buf, a.Name)
		buf, err = appendType(buf, a.Type)
		if err != nil {
			return fmt.Errorf("annotation %s: %w", a.Name, err)
		}
	}
	_, err = w.Write(buf)
	return err
}

func appendString(buf []byte, s string) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendType(buf []byte, t ytype.Type) ([]byte, error) {
	switch x := t.(type) {
	case nil:
		return append(buf, tagNil), nil
	case ytype.Int:
		buf = append(buf, tagInt)
		buf = binary.AppendUvarint(buf, uint64(x.Bits))
		if x.Signed {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		return appendString(buf, x.Ranges.String()), nil
	case ytype.Str:
		buf = append(buf, tagStr)
		return appendString(buf, x.Lengths.String()), nil
	case ytype.Bool:
		return append(buf, tagBool), nil
	case ytype.Empty:
		return append(buf, tagEmpty), nil
	case ytype.Binary:
		buf = append(buf, tagBinary)
		return appendString(buf, x.Lengths.String()), nil
	case ytype.Decimal64:
		buf = append(buf, tagDecimal64)
		buf = binary.AppendUvarint(buf, uint64(x.FractionDigits))
		return appendString(buf, x.Ranges.String()), nil
	case ytype.Enum:
		buf = append(buf, tagEnum)
		buf = binary.AppendUvarint(buf, uint64(len(x.Items)))
		for _, it := range x.Items {
			buf = appendString(buf, it.Name)
			buf = binary.AppendVarint(buf, int64(it.Value))
		}
		return buf, nil
	case ytype.Bits:
		buf = append(buf, tagBits)
		buf = binary.AppendUvarint(buf, uint64(len(x.Items)))
		for _, it := range x.Items {
			buf = appendString(buf, it.Name)
			buf = binary.AppendUvarint(buf, uint64(it.Pos))
		}
		return buf, nil
	case ytype.IdentityRef:
		buf = append(buf, tagIdentityRef)
		buf = binary.AppendUvarint(buf, uint64(len(x.Bases)))
		for _, b := range x.Bases {
			mod, _ := b.Space.ModuleName()
			buf = appendString(buf, mod)
			buf = appendString(buf, b.Name)
		}
		buf = binary.AppendUvarint(buf, uint64(len(x.Values)))
		for _, v := range x.Values {
			buf = appendString(buf, v)
		}
		return buf, nil
	case ytype.Union:
		buf = append(buf, tagUnion)
		buf = binary.AppendUvarint(buf, uint64(len(x.Members)))
		var err error
		for _, m := range x.Members {
			buf, err = appendType(buf, m)
			if err != nil {
				return nil, err
			}
		}
		return buf, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnencodable, t.WireName())
}

type decoder struct {
	buf []byte
	off int
}

func (d *decoder) uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.buf[d.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: truncated varint", ErrCodec)
	}
	d.off += n
	return v, nil
}

func (d *decoder) varint() (int64, error) {
	v, n := binary.Varint(d.buf[d.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: truncated varint", ErrCodec)
	}
	d.off += n
	return v, nil
}

func (d *decoder) string() (string, error) {
	n, err := d.uvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(len(d.buf)-d.off) {
		return "", fmt.Errorf("%w: truncated string", ErrCodec)
	}
	s := string(d.buf[d.off : d.off+int(n)])
	d.off += int(n)
	return s, nil
}

func (d *decoder) byte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, fmt.Errorf("%w: truncated", ErrCodec)
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

func (d *decoder) count(max uint64) (int, error) {
	n, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, fmt.Errorf("%w: implausible count %d", ErrCodec, n)
	}
	return int(n), nil
}

// Decode reads a schema written by Encode. Any malformation, including a
// version mismatch, yields an error wrapping ErrCodec.
func Decode(r io.Reader) (*Schema, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	if len(raw) < len(codecMagic) || string(raw[:len(codecMagic)]) != string(codecMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrCodec)
	}
	d := &decoder{buf: raw, off: len(codecMagic)}
	ver, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	if ver != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCodec, ver)
	}
	nn, err := d.count(uint64(len(raw)))
	if err != nil {
		return nil, err
	}
	s := &Schema{Nodes: make([]Node, nn)}
	for i := 0; i < nn; i++ {
		n := &s.Nodes[i]
		if err := d.node(n, nn); err != nil {
			return nil, err
		}
	}
	na, err := d.count(uint64(len(raw)))
	if err != nil {
		return nil, err
	}
	for i := 0; i < na; i++ {
		name, err := d.string()
		if err != nil {
			return nil, err
		}
		t, err := d.typ()
		if err != nil {
			return nil, err
		}
		s.Annotations = append(s.Annotations, Annotation{Name: name, Type: t})
	}
	if d.off != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCodec, len(raw)-d.off)
	}
	return s, nil
}

func (d *decoder) node(n *Node, total int) error {
	f, err := d.uvarint()
	if err != nil {
		return err
	}
	n.Flags = Flags(f)
	for _, dst := range []*string{&n.Name, &n.Module, &n.Namespace, &n.Units, &n.Default} {
		if *dst, err = d.string(); err != nil {
			return err
		}
	}
	p, err := d.uvarint()
	if err != nil {
		return err
	}
	if p > uint64(total) {
		return fmt.Errorf("%w: parent index out of range", ErrCodec)
	}
	n.Parent = int32(p) - 1
	nc, err := d.count(uint64(total))
	if err != nil {
		return err
	}
	for i := 0; i < nc; i++ {
		c, err := d.uvarint()
		if err != nil {
			return err
		}
		if c >= uint64(total) {
			return fmt.Errorf("%w: child index out of range", ErrCodec)
		}
		n.Children = append(n.Children, int32(c))
	}
	nk, err := d.count(uint64(len(d.buf)))
	if err != nil {
		return err
	}
	for i := 0; i < nk; i++ {
		k, err := d.string()
		if err != nil {
			return err
		}
		n.Keys = append(n.Keys, k)
	}
	n.Type, err = d.typ()
	return err
}

func (d *decoder) typ() (ytype.Type, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagNil:
		return nil, nil
	case tagInt:
		bits, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		signed, err := d.byte()
		if err != nil {
			return nil, err
		}
		rs, err := d.ranges()
		if err != nil {
			return nil, err
		}
		return ytype.Int{Bits: uint(bits), Signed: signed != 0, Ranges: rs}, nil
	case tagStr:
		ls, err := d.ranges()
		if err != nil {
			return nil, err
		}
		return ytype.Str{Lengths: ls}, nil
	case tagBool:
		return ytype.Bool{}, nil
	case tagEmpty:
		return ytype.Empty{}, nil
	case tagBinary:
		ls, err := d.ranges()
		if err != nil {
			return nil, err
		}
		return ytype.Binary{Lengths: ls}, nil
	case tagDecimal64:
		fd, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		rs, err := d.ranges()
		if err != nil {
			return nil, err
		}
		return ytype.Decimal64{FractionDigits: uint(fd), Ranges: rs}, nil
	case tagEnum:
		n, err := d.count(uint64(len(d.buf)))
		if err != nil {
			return nil, err
		}
		t := ytype.Enum{}
		for i := 0; i < n; i++ {
			name, err := d.string()
			if err != nil {
				return nil, err
			}
			v, err := d.varint()
			if err != nil {
				return nil, err
			}
			t.Items = append(t.Items, ytype.EnumItem{Name: name, Value: int32(v)})
		}
		return t, nil
	case tagBits:
		n, err := d.count(uint64(len(d.buf)))
		if err != nil {
			return nil, err
		}
		t := ytype.Bits{}
		for i := 0; i < n; i++ {
			name, err := d.string()
			if err != nil {
				return nil, err
			}
			p, err := d.uvarint()
			if err != nil {
				return nil, err
			}
			t.Items = append(t.Items, ytype.BitItem{Name: name, Pos: uint32(p)})
		}
		return t, nil
	case tagIdentityRef:
		nb, err := d.count(uint64(len(d.buf)))
		if err != nil {
			return nil, err
		}
		t := ytype.IdentityRef{}
		for i := 0; i < nb; i++ {
			mod, err := d.string()
			if err != nil {
				return nil, err
			}
			name, err := d.string()
			if err != nil {
				return nil, err
			}
			t.Bases = append(t.Bases, ident.ModuleName(mod, name))
		}
		nv, err := d.count(uint64(len(d.buf)))
		if err != nil {
			return nil, err
		}
		for i := 0; i < nv; i++ {
			v, err := d.string()
			if err != nil {
				return nil, err
			}
			t.Values = append(t.Values, v)
		}
		return t, nil
	case tagUnion:
		n, err := d.count(uint64(len(d.buf)))
		if err != nil {
			return nil, err
		}
		t := ytype.Union{}
		for i := 0; i < n; i++ {
			m, err := d.typ()
			if err != nil {
				return nil, err
			}
			t.Members = append(t.Members, m)
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: unknown type tag %d", ErrCodec, tag)
}

func (d *decoder) ranges() (ytype.RangeSet, error) {
	s, err := d.string()
	if err != nil {
		return ytype.RangeSet{}, err
	}
	rs, err := ytype.ParseRangeSet(s)
	if err != nil {
		return ytype.RangeSet{}, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return rs, nil
}
