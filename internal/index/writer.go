package index

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// JSONWriter writes items as JSON lines.
type JSONWriter interface {
	Write(item protocol.Item) error
	Flush() error
}

type jsonWriter struct {
	bufferedWriter *bufio.Writer
	encoder        *json.Encoder
	err            error
}

var _ JSONWriter = &jsonWriter{}

// writerBufferSize is the size of the buffered writer wrapping output to the target file.
const writerBufferSize = 4096

// NewJSONWriter creates a new JSONWriter wrapping the given writer.
func NewJSONWriter(w io.Writer) JSONWriter {
	bufferedWriter := bufio.NewWriterSize(w, writerBufferSize)

	return &jsonWriter{
		bufferedWriter: bufferedWriter,
		encoder:        json.NewEncoder(bufferedWriter),
	}
}

// Write emits a single vertex or edge value. Once a write fails every later
// call returns the same error.
func (jw *jsonWriter) Write(item protocol.Item) error {
	if jw.err != nil {
		return jw.err
	}

	if err := jw.encoder.Encode(item); err != nil {
		jw.err = err
	}

	return jw.err
}

// Flush ensures that all elements have been written to the underlying writer.
func (jw *jsonWriter) Flush() error {
	if jw.err != nil {
		return jw.err
	}

	if err := jw.bufferedWriter.Flush(); err != nil {
		return err
	}

	return nil
}
