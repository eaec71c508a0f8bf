package connectrpc

import (
	"bytes"

	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

const codecNameJSON = "json"

// Codec encodes plain Go structs as JSON. It registers under the name "json" and
// replaces Connect's protojson codec, which only accepts protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecNameJSON }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// MarshalStable allows read-only procedures to be called with HTTP GET.
func (c Codec) MarshalStable(msg any) ([]byte, error) {
	return c.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	// Connect sends an empty body for messages with no fields set.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func (Codec) IsBinary() bool { return false }

// HandlerOptions returns the options every WordService handler is built with.
func HandlerOptions(interceptors ...connect.Interceptor) []connect.HandlerOption {
	opts := []connect.HandlerOption{connect.WithCodec(Codec{})}
	if len(interceptors) > 0 {
		opts = append(opts, connect.WithInterceptors(interceptors...))
	}
	return opts
}

// ClientOptions returns the options a WordService client needs to talk to
// handlers built with HandlerOptions.
func ClientOptions() []connect.ClientOption {
	return []connect.ClientOption{connect.WithCodec(Codec{})}
}
