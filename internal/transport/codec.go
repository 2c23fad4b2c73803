package transport

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the grpc content-subtype used for the admin service. The
// admin messages below are plain structs rather than protoc-gen-go output —
// see DESIGN.md for why — so we register a small JSON codec instead of
// relying on grpc's default proto codec.
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
