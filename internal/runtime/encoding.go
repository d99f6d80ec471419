package runtime

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/leapstack-labs/pgparse/pkg/parser"
)

// EncodingUTF8 is the only server and client encoding supported.
const EncodingUTF8 = "UTF8"

// forceUTF8 pins both encodings to UTF-8 whatever the options asked for.
func forceUTF8(opts *Options, logger *slog.Logger) {
	for _, setting := range []struct {
		name  string
		value *string
	}{
		{"server_encoding", &opts.ServerEncoding},
		{"client_encoding", &opts.ClientEncoding},
	} {
		if !isUTF8Name(*setting.value) {
			logger.Debug("overriding encoding", "setting", setting.name, "requested", *setting.value, "using", EncodingUTF8)
		}
		*setting.value = EncodingUTF8
	}
}

func isUTF8Name(name string) bool {
	switch strings.ToUpper(strings.ReplaceAll(name, "-", "")) {
	case "UTF8", "UNICODE":
		return true
	}
	return false
}

// InvalidEncodingError reports the first byte that is not valid in the
// client encoding.
type InvalidEncodingError struct {
	Encoding string
	Offset   int
	Byte     byte
}

func (e *InvalidEncodingError) Error() string {
	return "invalid byte sequence for encoding \"" + e.Encoding + "\""
}

// ValidateClientEncoding checks that src is valid in the client encoding.
func (r *Runtime) ValidateClientEncoding(src []byte) error {
	return validateUTF8(r.Options.ClientEncoding, src)
}

// ParserOptions returns the grammar options, with strings built from
// escapes checked against the client encoding.
func (r *Runtime) ParserOptions() []parser.Option {
	return append(r.Options.ParserOptions(), parser.WithEncodingCheck(r.invalidByteOffset))
}

func (r *Runtime) invalidByteOffset(s string) int {
	var encErr *InvalidEncodingError
	if errors.As(r.ValidateClientEncoding([]byte(s)), &encErr) {
		return encErr.Offset
	}
	return -1
}

func validateUTF8(name string, src []byte) error {
	_, n, err := transform.Bytes(encoding.UTF8Validator, src)
	if err == nil {
		return nil
	}
	if !errors.Is(err, encoding.ErrInvalidUTF8) || n >= len(src) {
		return err
	}
	return &InvalidEncodingError{Encoding: name, Offset: n, Byte: src[n]}
}
