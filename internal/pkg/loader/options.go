package loader

import (
	"io"
	"net/http"
	"os"
)

// Option configures a [Loader].
type Option func(*options)

type options struct {
	client *http.Client
	stdin  io.Reader
	comma  rune
}

// WithHTTPClient sets the client used to fetch http(s) sources. It defaults to [http.DefaultClient].
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithStdin sets the reader used for the "-" source. It defaults to [os.Stdin].
func WithStdin(r io.Reader) Option {
	return func(o *options) {
		o.stdin = r
	}
}

// WithComma sets the field delimiter of sources without a configured delimiter. It defaults to ','.
func WithComma(comma rune) Option {
	return func(o *options) {
		o.comma = comma
	}
}

func optionsWithDefaults(opts []Option) options {
	o := options{
		client: http.DefaultClient,
		stdin:  os.Stdin,
		comma:  ',',
	}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
