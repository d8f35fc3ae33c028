package logging

import (
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const redactedValue = "[REDACTED]"

// defaultRedactedKeys are field names whose string values are masked. The
// config file and every outbound request carry tenant API keys, so these must
// never reach log output.
var defaultRedactedKeys = []string{
	"api_key", "apikey", "authorization", "bearer", "token", "secret", "credential",
}

// redactingEncoder masks sensitive string fields by key name before encoding.
type redactingEncoder struct {
	zapcore.Encoder
	keys map[string]struct{}
}

func newRedactingEncoder(inner zapcore.Encoder, keys []string) (zapcore.Encoder, error) {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[strings.ToLower(k)] = struct{}{}
	}
	return &redactingEncoder{Encoder: inner, keys: set}, nil
}

func (e *redactingEncoder) Clone() zapcore.Encoder {
	return &redactingEncoder{Encoder: e.Encoder.Clone(), keys: e.keys}
}

func (e *redactingEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.StringType {
			if _, hit := e.keys[strings.ToLower(f.Key)]; hit {
				f.String = redactedValue
			}
		}
		out[i] = f
	}
	return e.Encoder.EncodeEntry(entry, out)
}
