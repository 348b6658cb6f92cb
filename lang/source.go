package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// ReadSource reads all of r as source text. Input is read ahead
// asynchronously while earlier chunks are copied.
func ReadSource(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}
