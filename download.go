package lidar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of tiles fetched at the same time.
const DefaultConcurrency = 2

// DefaultDir is the output directory, relative to the working directory.
const DefaultDir = "output"

// ErrNotInitialized is returned by Start when Init was not called.
var ErrNotInitialized = errors.New("download is not initialized")

type (

	// Download holds a grid download config and its state.
	Download struct {

		// Shared fields of every tile in the grid.
		PointFormat      PointFormat
		FileFormat       FileFormat
		AreaCode         AreaCode
		CoordinateSystem CoordinateSystem

		// Inclusive grid corners.
		First, Second Coordinate

		// Fetcher defaults to an HTTPFetcher over DefaultClient.
		Fetcher Fetcher

		// Max tiles to fetch at same time.
		Concurrency uint

		// BaseURL defaults to DefaultBaseURL.
		BaseURL string

		// Output directory, DefaultDir when empty.
		Dir string

		// Stdout receives one URL per tile. Defaults to os.Stdout.
		Stdout io.Writer

		// Log receives per tile diagnostics. Defaults to the logrus standard logger.
		Log logrus.FieldLogger

		// Progress interval in ms.
		Interval uint64

		Stats

		tiles []Tile

		ctx context.Context

		startedAt time.Time

		stopProgress int32
	}

	// result pairs a fetched body with the tile it was requested for.
	result struct {
		tile Tile
		url  string
		body []byte
		err  error
	}
)

// NewDownload returns new *Download with context.
func NewDownload(ctx context.Context, t Tile, first, second Coordinate) *Download {
	return &Download{
		ctx:              ctx,
		PointFormat:      t.PointFormat,
		FileFormat:       t.FileFormat,
		AreaCode:         t.AreaCode,
		CoordinateSystem: t.CoordinateSystem,
		First:            first,
		Second:           second,
	}
}

// Init sets defaults, creates the output directory, enumerates the grid and
// prints every tile URL. Call Init before Start.
func (d *Download) Init() error {

	d.startedAt = time.Now()

	if d.ctx == nil {
		d.ctx = context.Background()
	}

	if d.Fetcher == nil {
		d.Fetcher = NewHTTPFetcher(nil, 0)
	}

	if d.Concurrency == 0 {
		d.Concurrency = DefaultConcurrency
	}

	if d.Dir == "" {
		d.Dir = DefaultDir
	}

	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}

	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	if err := d.validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if Swapped(d.First, d.Second) {
		d.Log.WithFields(logrus.Fields{
			"first":  d.First.String(),
			"second": d.Second.String(),
		}).Warn("first corner is past the second corner, nothing to download")
	}

	coords := Grid(d.First, d.Second)
	d.tiles = make([]Tile, 0, len(coords))

	for _, c := range coords {

		t := d.tile(c)
		d.tiles = append(d.tiles, t)

		if _, err := fmt.Fprintln(d.Stdout, t.URL(d.BaseURL)); err != nil {
			return err
		}
	}

	d.setTotal(len(d.tiles))

	return nil
}

// Start fetches the tiles and writes them to Dir. Fetch errors are logged and
// skipped, write errors stop the download and are returned.
func (d *Download) Start() error {

	if d.startedAt.IsZero() {
		return ErrNotInitialized
	}

	defer d.StopProgress()

	g, ctx := errgroup.WithContext(d.ctx)

	var (
		jobs    = make(chan Tile)
		results = make(chan result, d.Concurrency)
		wg      sync.WaitGroup
	)

	// Producer.
	g.Go(func() error {
		defer close(jobs)

		for _, t := range d.tiles {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		return nil
	})

	// Workers.
	for i := uint(0); i < d.Concurrency; i++ {

		wg.Add(1)

		g.Go(func() error {
			defer wg.Done()

			for t := range jobs {

				r := result{tile: t, url: t.URL(d.BaseURL)}
				r.body, r.err = d.Fetcher.Fetch(ctx, r.url)

				select {
				case results <- r:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			return nil
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Writer.
	g.Go(func() error {

		for r := range results {

			if err := ctx.Err(); err != nil {
				return err
			}

			if err := d.save(r); err != nil {
				return err
			}
		}

		return nil
	})

	return g.Wait()
}

// Tiles returns the enumerated tiles, in request order.
func (d *Download) Tiles() []Tile {
	return d.tiles
}

// Path returns the output path of t.
func (d *Download) Path(t Tile) string {
	return filepath.Join(d.Dir, t.Filename())
}

func (d *Download) tile(c Coordinate) Tile {
	return Tile{
		PointFormat:      d.PointFormat,
		FileFormat:       d.FileFormat,
		AreaCode:         d.AreaCode,
		CoordinateSystem: d.CoordinateSystem,
		Coordinate:       c,
	}
}

func (d *Download) validate() error {

	switch {
	case !d.PointFormat.Valid():
		return fmt.Errorf("%w: %v", ErrUnknownPointFormat, d.PointFormat)
	case !d.FileFormat.Valid():
		return fmt.Errorf("%w: %v", ErrUnknownFileFormat, d.FileFormat)
	case !d.CoordinateSystem.Valid():
		return fmt.Errorf("%w: %v", ErrUnknownCoordinateSystem, d.CoordinateSystem)
	case d.AreaCode.IsZero():
		return fmt.Errorf("%w: not set", ErrInvalidAreaCode)
	}

	return nil
}

// save writes a successful result to its file, or logs a failed one.
func (d *Download) save(r result) error {

	log := d.Log.WithFields(logrus.Fields{
		"tile": r.tile.Coordinate.String(),
		"url":  r.url,
	})

	if r.err != nil {
		d.addFailed()
		log.WithError(r.err).Error("fetch failed")
		return nil
	}

	path := d.Path(r.tile)

	if err := writeFile(path, r.body); err != nil {
		return fmt.Errorf("write tile %s: %w", r.tile.Coordinate, err)
	}

	d.addWritten(len(r.body))
	log.WithField("bytes", len(r.body)).Debugf("saved %s", path)

	return nil
}

func writeFile(path string, body []byte) error {

	f, err := os.Create(path)

	if err != nil {
		return err
	}

	if _, err = f.Write(body); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
