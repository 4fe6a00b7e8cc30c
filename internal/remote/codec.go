// Package remote implements the remote deployment shape: RPC-backed stages
// that mirror the in-process built-in stages one-for-one, talking to
// sibling services over gRPC.
//
// No .proto/protoc-generated stubs are available in this build (see
// DESIGN.md for why); message bodies are small hand-written Go structs
// carried over a real grpc.ClientConn using a custom "json" codec instead
// of protoc-generated proto.Message types. The connection, dial-retry,
// per-call deadline and invocation machinery is all real
// google.golang.org/grpc, only the wire encoding swaps JSON for protobuf
// binary.
package remote

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const jsonCodecName = "json"

// jsonCodec adapts encoding/json to grpc's encoding.Codec interface so
// grpc.ClientConn.Invoke can carry plain Go structs without generated
// protobuf stubs.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return jsonCodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
