// Package serialization encodes flow exports: a codec (JSON, YAML or
// MessagePack) optionally followed by gzip or zstd compression. The same
// pipeline decodes flow files read by the CLI.
// PRINCIPLES:
// - KISS: Simple interface with multiple codec implementations
// - SOLID: Interface segregation for different serializers
package serialization

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat reports a file name or media type no codec handles.
var ErrUnsupportedFormat = errors.New("unsupported serialization format")

// Codec interface for serialization
// PRINCIPLES:
// - ISP: Simple interface with ≤5 methods
// - SRP: Single responsibility for serialization
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
	ContentType() string
}

// CompressionType represents compression algorithms
type CompressionType string

const (
	CompressionNone CompressionType = "none"
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
)

// SerializationConfig holds serialization settings
type SerializationConfig struct {
	Codec       Codec
	Compression CompressionType
}

// Serializer runs the codec and compression steps
// PRINCIPLES:
// - KISS: Simple interface hiding complex operations
// - SRP: Single responsibility for complete serialization pipeline
type Serializer struct {
	config SerializationConfig
}

// NewSerializer creates a new serializer with configuration
func NewSerializer(config SerializationConfig) *Serializer {
	if config.Codec == nil {
		config.Codec = NewJSONCodec()
	}
	if config.Compression == "" {
		config.Compression = CompressionNone
	}
	return &Serializer{config: config}
}

// Serialize encodes and compresses data
func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}

	data, err = s.compress(data)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}
	return data, nil
}

// Deserialize decompresses and decodes data
func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	data, err := s.decompress(data)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("codec decoding failed: %w", err)
	}
	return nil
}

// ContentType is the media type of serialized output.
func (s *Serializer) ContentType() string {
	return s.config.Codec.ContentType()
}

// ContentEncoding is the HTTP Content-Encoding of serialized output, empty
// when uncompressed.
func (s *Serializer) ContentEncoding() string {
	if s.config.Compression == CompressionNone {
		return ""
	}
	return string(s.config.Compression)
}

// Config returns the serializer's settings.
func (s *Serializer) Config() SerializationConfig {
	return s.config
}

// compress applies compression based on configuration
func (s *Serializer) compress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionGzip:
		return compressGzip(data)
	case CompressionZstd:
		return compressZstd(data)
	default:
		return data, nil
	}
}

// decompress removes compression based on configuration
func (s *Serializer) decompress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionGzip:
		return decompressGzip(data)
	case CompressionZstd:
		return decompressZstd(data)
	default:
		return data, nil
	}
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// JSONCodec implements JSON serialization
type JSONCodec struct{}

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string        { return "json" }
func (c *JSONCodec) ContentType() string { return "application/json" }

// YAMLCodec implements YAML serialization
type YAMLCodec struct{}

func (c *YAMLCodec) Encode(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *YAMLCodec) Decode(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func (c *YAMLCodec) Name() string        { return "yaml" }
func (c *YAMLCodec) ContentType() string { return "application/yaml" }

// MsgPackCodec implements MessagePack serialization
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Name() string        { return "msgpack" }
func (c *MsgPackCodec) ContentType() string { return "application/msgpack" }

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() Codec {
	return &JSONCodec{}
}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() Codec {
	return &YAMLCodec{}
}

// NewMsgPackCodec creates a new MessagePack codec
func NewMsgPackCodec() Codec {
	return &MsgPackCodec{}
}

// DefaultSerializer creates a serializer with sensible defaults
func DefaultSerializer() *Serializer {
	return NewSerializer(SerializationConfig{
		Codec:       NewJSONCodec(),
		Compression: CompressionNone,
	})
}

// ForFile picks the pipeline from a file name: .json, .yaml/.yml or
// .msgpack, optionally followed by .gz or .zst.
func ForFile(name string) (*Serializer, error) {
	base := strings.ToLower(filepath.Base(name))
	cfg := SerializationConfig{Compression: CompressionNone}

	switch ext := filepath.Ext(base); ext {
	case ".gz":
		cfg.Compression = CompressionGzip
		base = strings.TrimSuffix(base, ext)
	case ".zst":
		cfg.Compression = CompressionZstd
		base = strings.TrimSuffix(base, ext)
	}

	switch filepath.Ext(base) {
	case ".json":
		cfg.Codec = NewJSONCodec()
	case ".yaml", ".yml":
		cfg.Codec = NewYAMLCodec()
	case ".msgpack", ".mpk":
		cfg.Codec = NewMsgPackCodec()
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	return NewSerializer(cfg), nil
}
