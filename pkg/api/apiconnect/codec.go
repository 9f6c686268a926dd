// Package apiconnect wires the tripsync messages into Connect handlers and
// clients. It follows the layout of protoc-gen-connect-go output, with a JSON
// codec in place of protobuf.
package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// CodecName is registered under the name Connect uses for application/json.
const CodecName = "json"

// Codec marshals plain Go structs with encoding/json.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// readOnlyClientOptions marks Get and List procedures as free of side effects.
func readOnlyClientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append(opts[:len(opts):len(opts)], connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}

func readOnlyHandlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append(opts[:len(opts):len(opts)], connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}
