// Package loader reads delimited text resources into datasets of raw string records.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/fredbi/csvviz/internal/pkg/config"
	"github.com/fredbi/csvviz/internal/pkg/model"
)

const (
	stdinSource = "-"
	sniffLen    = 3072
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrMalformed is returned when an input cannot be read as delimited text with a header.
var ErrMalformed = errors.New("malformed input")

// Loader loads datasets from local files, standard input or http(s) URLs.
//
// Records are kept as raw strings: coercion happens later, in the transformation pipeline.
type Loader struct {
	options

	config   *config.Config
	datasets []model.Dataset
	l        *slog.Logger
}

// New [Loader] ready to load the datasets defined by a configuration.
//
// The configuration may be nil when loading ad-hoc sources with [Loader.Load].
func New(cfg *config.Config, opts ...Option) *Loader {
	return &Loader{
		options: optionsWithDefaults(opts),
		config:  cfg,
		l:       slog.Default().With(slog.String("module", "loader")),
	}
}

// LoadAll loads the given datasets concurrently. When no dataset is given, all configured datasets are loaded.
//
// Loading is all or nothing: if any source fails, the first error is returned and no dataset is retained.
func (l *Loader) LoadAll(ctx context.Context, datasets ...config.Dataset) error {
	if len(datasets) == 0 && l.config != nil {
		datasets = l.config.Datasets
	}

	results := make([]model.Dataset, len(datasets))
	grp, gctx := errgroup.WithContext(ctx)

	for i, def := range datasets {
		grp.Go(func() error {
			comma := l.comma
			if def.Delimiter != "" {
				comma = def.Comma()
			}

			dataset, err := l.load(gctx, def.Source, comma)
			if err != nil {
				return fmt.Errorf("dataset %q: %w", def.ID, err)
			}

			dataset.ID = def.ID
			dataset.Title = def.Title
			results[i] = dataset

			l.l.Info("dataset loaded",
				slog.String("dataset", def.ID),
				slog.String("source", dataset.Source),
				slog.Int("records", len(dataset.Records)),
			)

			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}

	l.datasets = results
	l.l.Info("all datasets loaded", slog.Int("loaded_datasets", len(results)))

	return nil
}

// Load a single source: "-" for standard input, an http(s) URL, or a file path
// resolved against the base directory of the configuration.
func (l *Loader) Load(ctx context.Context, source string) (model.Dataset, error) {
	return l.load(ctx, source, l.comma)
}

// Datasets returns the datasets loaded by [Loader.LoadAll], in the order they were requested.
func (l *Loader) Datasets() []model.Dataset {
	return l.datasets
}

// LoadInput reads delimited text with a header row.
//
// Each subsequent row becomes a record of string values keyed by the header fields.
// A leading UTF-8 byte order mark is ignored. Binary content, a missing header
// or rows with a number of fields different from the header are reported as [ErrMalformed].
func (l *Loader) LoadInput(r io.Reader) (model.Dataset, error) {
	return readCSV(r, l.comma)
}

func (l *Loader) load(ctx context.Context, source string, comma rune) (model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return model.Dataset{}, err
	}

	location := source
	if l.config != nil {
		location = l.config.ResolveSource(source)
	}

	reader, err := l.open(ctx, location)
	if err != nil {
		return model.Dataset{}, err
	}
	defer func() {
		_ = reader.Close()
	}()

	dataset, err := readCSV(reader, comma)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("source %q: %w", location, err)
	}
	dataset.Source = location

	return dataset, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	switch {
	case location == stdinSource:
		return io.NopCloser(l.stdin), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return l.fetch(ctx, location)
	default:
		file, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("input file %q: %w", location, err)
		}

		return file, nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %q: %w", url, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", url, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()

		return nil, fmt.Errorf("fetching %q: unexpected status %s", url, resp.Status)
	}

	return resp.Body, nil
}

func readCSV(r io.Reader, comma rune) (model.Dataset, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return model.Dataset{}, fmt.Errorf("reading input: %w", err)
	}

	if !isText(head) {
		return model.Dataset{}, fmt.Errorf("%w: content detected as %s", ErrMalformed, mimetype.Detect(head))
	}

	if bytes.HasPrefix(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return model.Dataset{}, fmt.Errorf("%w: missing header", ErrMalformed)
		}

		return model.Dataset{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	header = append([]string(nil), header...)

	dataset := model.Dataset{
		Header: header,
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		record := make(model.Record, len(header))
		for i, field := range header {
			record[field] = model.String(row[i])
		}

		dataset.Records = append(dataset.Records, record)
	}

	return dataset, nil
}

// isText reports whether the sniffed content is some kind of text (csv, tsv, plain text...).
func isText(head []byte) bool {
	for mime := mimetype.Detect(head); mime != nil; mime = mime.Parent() {
		if mime.Is("text/plain") {
			return true
		}
	}

	return false
}
