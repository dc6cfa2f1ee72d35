package remote

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/infinifold/levels/abi"
)

// Empty is the request or reply of calls that carry no data.
type Empty struct{}

// SymbolsReply lists the contract symbols the child's library exports. The value is
// empty for a usable symbol and holds the type error otherwise.
type SymbolsReply struct {
	Symbols map[string]string
}

// BoolReply carries a single flag.
type BoolReply struct {
	Value bool
}

// InfoReply carries the current LEVEL_INFO.
type InfoReply struct {
	Info abi.LevelInfo
}

// HandleMessage carries an instance handle.
type HandleMessage struct {
	Handle abi.Handle
}

// AngledRequest is the WhenAngled request.
type AngledRequest struct {
	Handle abi.Handle
	Angle  float32
}

// FacesReply carries the geometry of an instance.
type FacesReply struct {
	Faces []abi.Face
}

func (*Empty) appendWire(b []byte) []byte { return b }

func (*Empty) readWire(b []byte) error { return readFields(b, skipField) }

// Each symbol is a nested entry with the name in field 1 and the problem in field 2.
func (m *SymbolsReply) appendWire(b []byte) []byte {
	for name, problem := range m.Symbols {
		b = appendMessage(b, 1, func(e []byte) []byte {
			e = appendString(e, 1, name)
			return appendString(e, 2, problem)
		})
	}
	return b
}

func (m *SymbolsReply) readWire(b []byte) error {
	m.Symbols = make(map[string]string)
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return skipField(num, typ, b)
		}
		return readMessage(num, typ, b, func(e []byte) error {
			var name, problem string
			err := readFields(e, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
				switch num {
				case 1:
					return readString(num, typ, b, &name)
				case 2:
					return readString(num, typ, b, &problem)
				}
				return skipField(num, typ, b)
			})
			m.Symbols[name] = problem
			return err
		})
	})
}

func (m *BoolReply) appendWire(b []byte) []byte {
	return appendBool(b, 1, m.Value)
}

func (m *BoolReply) readWire(b []byte) error {
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return readBool(num, typ, b, &m.Value)
		}
		return skipField(num, typ, b)
	})
}

func (m *InfoReply) appendWire(b []byte) []byte {
	b = appendInt(b, 1, int64(m.Info.ID))
	b = appendString(b, 2, m.Info.Name)
	return appendString(b, 3, m.Info.Group)
}

func (m *InfoReply) readWire(b []byte) error {
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			var id int64
			n, err := readInt(num, typ, b, &id)
			m.Info.ID = int(id)
			return n, err
		case 2:
			return readString(num, typ, b, &m.Info.Name)
		case 3:
			return readString(num, typ, b, &m.Info.Group)
		}
		return skipField(num, typ, b)
	})
}

// appendHandle leaves the field out for Void.
func appendHandle(b []byte, num protowire.Number, h abi.Handle) []byte {
	v, ok := h.Value()
	if !ok {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}

func readHandle(num protowire.Number, typ protowire.Type, b []byte, dst *abi.Handle) (int, error) {
	if err := wantType(num, typ, protowire.Fixed64Type); err != nil {
		return 0, err
	}
	v, n := protowire.ConsumeFixed64(b)
	*dst = abi.HandleFromValue(v)
	return n, nil
}

func (m *HandleMessage) appendWire(b []byte) []byte {
	return appendHandle(b, 1, m.Handle)
}

func (m *HandleMessage) readWire(b []byte) error {
	m.Handle = abi.Void
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			return readHandle(num, typ, b, &m.Handle)
		}
		return skipField(num, typ, b)
	})
}

func (m *AngledRequest) appendWire(b []byte) []byte {
	b = appendHandle(b, 1, m.Handle)
	return appendFloat(b, 2, m.Angle)
}

func (m *AngledRequest) readWire(b []byte) error {
	m.Handle = abi.Void
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			return readHandle(num, typ, b, &m.Handle)
		case 2:
			return readFloat(num, typ, b, &m.Angle)
		}
		return skipField(num, typ, b)
	})
}

func (m *FacesReply) appendWire(b []byte) []byte {
	for i := range m.Faces {
		f := &m.Faces[i]
		b = appendMessage(b, 1, func(e []byte) []byte { return appendFace(e, f) })
	}
	return b
}

func (m *FacesReply) readWire(b []byte) error {
	m.Faces = nil
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return skipField(num, typ, b)
		}
		return readMessage(num, typ, b, func(e []byte) error {
			var f abi.Face
			if err := readFace(e, &f); err != nil {
				return err
			}
			m.Faces = append(m.Faces, f)
			return nil
		})
	})
}

// Face fields: corners 1-4, mask 5, colors 6, index 7, skipped 8.
func appendFace(b []byte, f *abi.Face) []byte {
	for i, p := range []abi.Vec3{f.P11, f.P12, f.P21, f.P22} {
		b = appendMessage(b, protowire.Number(i+1), func(e []byte) []byte { return appendVec3(e, p) })
	}
	if f.Mask != nil {
		mask := *f.Mask
		b = appendMessage(b, 5, func(e []byte) []byte {
			e = appendMessage(e, 1, func(v []byte) []byte { return appendVec3(v, mask.Pos) })
			return appendMessage(e, 2, func(v []byte) []byte { return appendVec3(v, mask.Dir) })
		})
	}
	for _, c := range f.Colors {
		b = appendMessage(b, 6, func(e []byte) []byte {
			e = appendFloat(e, 1, c.R)
			e = appendFloat(e, 2, c.G)
			e = appendFloat(e, 3, c.B)
			return appendFloat(e, 4, c.A)
		})
	}
	b = appendFloat(b, 7, f.Index)
	if f.Skipped {
		b = appendBool(b, 8, true)
	}
	return b
}

func readFace(b []byte, f *abi.Face) error {
	corners := []*abi.Vec3{&f.P11, &f.P12, &f.P21, &f.P22}
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1, 2, 3, 4:
			return readMessage(num, typ, b, func(e []byte) error { return readVec3(e, corners[num-1]) })
		case 5:
			f.Mask = &abi.Mask{}
			return readMessage(num, typ, b, func(e []byte) error {
				return readFields(e, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					switch num {
					case 1:
						return readMessage(num, typ, b, func(v []byte) error { return readVec3(v, &f.Mask.Pos) })
					case 2:
						return readMessage(num, typ, b, func(v []byte) error { return readVec3(v, &f.Mask.Dir) })
					}
					return skipField(num, typ, b)
				})
			})
		case 6:
			return readMessage(num, typ, b, func(e []byte) error {
				var c abi.Color
				channels := []*float32{&c.R, &c.G, &c.B, &c.A}
				err := readFields(e, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
					if num >= 1 && num <= 4 {
						return readFloat(num, typ, b, channels[num-1])
					}
					return skipField(num, typ, b)
				})
				f.Colors = append(f.Colors, c)
				return err
			})
		case 7:
			return readFloat(num, typ, b, &f.Index)
		case 8:
			return readBool(num, typ, b, &f.Skipped)
		}
		return skipField(num, typ, b)
	})
}

func appendVec3(b []byte, v abi.Vec3) []byte {
	b = appendFloat(b, 1, v.X)
	b = appendFloat(b, 2, v.Y)
	return appendFloat(b, 3, v.Z)
}

func readVec3(b []byte, v *abi.Vec3) error {
	axes := []*float32{&v.X, &v.Y, &v.Z}
	return readFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num >= 1 && num <= 3 {
			return readFloat(num, typ, b, axes[num-1])
		}
		return skipField(num, typ, b)
	})
}
