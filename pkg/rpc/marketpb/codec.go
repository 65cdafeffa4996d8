package marketpb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodec implements encoding.Codec, swapping grpc's default protobuf
// wire format for plain JSON. grpc's transport and service-descriptor
// machinery are codec-agnostic, but selecting a non-default codec is
// not automatic: a server must be built with grpc.ForceServerCodec(
// JSONCodec), and a client must set grpc.CallContentSubtype(JSONCodec.
// Name()) (or grpc.ForceCodec(JSONCodec)) on its calls, or both sides
// silently fall back to the registered "proto" codec, which cannot
// marshal these plain structs.
type jsonCodec struct{}

// JSONCodec is the encoding.Codec to pass to grpc.ForceServerCodec on
// the server and grpc.CallContentSubtype/grpc.ForceCodec on the client;
// registering it under its name alone does not make grpc-go select it.
var JSONCodec encoding.Codec = jsonCodec{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marketpb: json marshal: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("marketpb: json unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return "json"
}

func init() {
	encoding.RegisterCodec(JSONCodec)
}
