package model

import (
	"encoding/json"
	"fmt"
	"mime"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// Codec converts wire payloads to and from the model types. JSON is the
// canonical shape: every codec decodes through the same strict JSON
// validation, so a field that is required in one encoding is required in all.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	canonical(data []byte) ([]byte, error)
}

var (
	JSON    Codec = jsonCodec{}
	Msgpack Codec = msgpackCodec{}
)

// CodecFor picks a codec from a Content-Type header value. Unknown or empty
// types fall back to JSON.
func CodecFor(contentType string) Codec {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return JSON
	}
	switch mt {
	case ContentTypeMsgpack, "application/x-msgpack":
		return Msgpack
	default:
		return JSON
	}
}

// CodecByName resolves the names accepted on the command line.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return ContentTypeJSON }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) canonical(data []byte) ([]byte, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return data, nil
}

type msgpackCodec struct{}

func (msgpackCodec) ContentType() string { return ContentTypeMsgpack }

// Marshal goes through JSON first so enum tags and field names match the
// JSON encoding exactly.
func (msgpackCodec) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal json: %w", err)
	}
	return msgpack.Marshal(generic)
}

func (msgpackCodec) canonical(data []byte) ([]byte, error) {
	var generic any
	if err := msgpack.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("unmarshal msgpack: %w", err)
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("convert msgpack: %w", err)
	}
	return out, nil
}
