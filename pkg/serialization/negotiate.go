package serialization

import (
	"mime"
	"sort"
	"strconv"
	"strings"
)

// Negotiate picks the export pipeline for an HTTP request from its Accept
// and Accept-Encoding headers. JSON without compression is the fallback.
func Negotiate(accept, acceptEncoding string) *Serializer {
	cfg := SerializationConfig{
		Codec:       NewJSONCodec(),
		Compression: CompressionNone,
	}

	for _, mediaType := range preferred(accept) {
		switch mediaType {
		case "application/msgpack", "application/x-msgpack", "application/vnd.msgpack":
			cfg.Codec = NewMsgPackCodec()
		case "application/yaml", "application/x-yaml", "text/yaml":
			cfg.Codec = NewYAMLCodec()
		case "application/json", "*/*", "application/*":
			cfg.Codec = NewJSONCodec()
		default:
			continue
		}
		break
	}

	for _, coding := range preferred(acceptEncoding) {
		switch coding {
		case "zstd":
			cfg.Compression = CompressionZstd
		case "gzip":
			cfg.Compression = CompressionGzip
		default:
			continue
		}
		break
	}
	return NewSerializer(cfg)
}

// preferred splits a header list and orders its entries by q value, highest
// first, dropping q=0 entries. Equal weights keep header order.
func preferred(header string) []string {
	type entry struct {
		value string
		q     float64
	}
	var entries []entry
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, params, err := mime.ParseMediaType(part)
		if err != nil {
			value = strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
			params = nil
		}
		q := 1.0
		if raw, ok := params["q"]; ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				q = parsed
			}
		}
		if q <= 0 {
			continue
		}
		entries = append(entries, entry{value: value, q: q})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].q > entries[j].q })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}
