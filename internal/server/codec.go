package server

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// jsonCodec replaces connect's built-in "json" codec so plain Go structs can
// travel as messages. Protobuf messages still go through protojson.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

// jsonCharsetCodec covers clients that send "application/json; charset=utf-8",
// which connect resolves to a separately named codec.
type jsonCharsetCodec struct{ jsonCodec }

func (jsonCharsetCodec) Name() string { return "json; charset=utf-8" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	if m, ok := msg.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if m, ok := msg.(proto.Message); ok {
		if len(data) == 0 {
			return nil
		}
		return protojson.Unmarshal(data, m)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
