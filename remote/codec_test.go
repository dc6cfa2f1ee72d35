package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/infinifold/levels/abi"
)

func TestCodecMessages(t *testing.T) {
	tests := []struct {
		name string
		in   message
		out  message
	}{
		{
			name: "void handle",
			in:   &HandleMessage{Handle: abi.Void},
			out:  &HandleMessage{},
		},
		{
			name: "null handle",
			in:   &HandleMessage{Handle: abi.Null},
			out:  &HandleMessage{},
		},
		{
			name: "error handle",
			in:   &HandleMessage{Handle: abi.Error},
			out:  &HandleMessage{},
		},
		{
			name: "angle on live handle",
			in:   &AngledRequest{Handle: abi.NewHandle(3, 9), Angle: -1.5},
			out:  &AngledRequest{},
		},
		{
			name: "info",
			in:   &InfoReply{Info: abi.LevelInfo{ID: -2, Name: "Penrose", Group: "tiles"}},
			out:  &InfoReply{},
		},
		{
			name: "symbols",
			in:   &SymbolsReply{Symbols: map[string]string{abi.SymNew: "", abi.SymDestroy: "wrong type"}},
			out:  &SymbolsReply{},
		},
		{
			name: "full face",
			in: &FacesReply{Faces: []abi.Face{
				{
					P11:     abi.V3(1, 2, 3),
					P22:     abi.V3(-1, 0, 0.5),
					Mask:    &abi.Mask{Pos: abi.V3(0, 1, 0), Dir: abi.V3(0, 0, -1)},
					Colors:  []abi.Color{{R: 1, A: 1}, {G: 0.5, B: 0.25}},
					Index:   -0.75,
					Skipped: true,
				},
				{Index: 1},
			}},
			out: &FacesReply{},
		},
	}

	codec := wireCodec{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := codec.Marshal(tt.in)
			require.NoError(t, err)
			require.NoError(t, codec.Unmarshal(data, tt.out))
			assert.Equal(t, tt.in, tt.out)
		})
	}
}

func TestCodecSkipsUnknownFields(t *testing.T) {
	data := protowire.AppendTag(nil, 9, protowire.BytesType)
	data = protowire.AppendString(data, "from a newer host")
	data = appendBool(data, 1, true)

	reply := &BoolReply{}
	require.NoError(t, wireCodec{}.Unmarshal(data, reply))
	assert.True(t, reply.Value)
}

func TestCodecRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		into any
	}{
		{
			name: "wrong wire type",
			data: appendString(nil, 1, "yes"),
			into: &BoolReply{},
		},
		{
			name: "truncated float",
			data: protowire.AppendTag(nil, 2, protowire.Fixed32Type),
			into: &AngledRequest{},
		},
		{
			name: "not a level message",
			data: nil,
			into: &struct{}{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, wireCodec{}.Unmarshal(tt.data, tt.into))
		})
	}

	_, err := wireCodec{}.Marshal("text")
	assert.Error(t, err)
}
