package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arso-lidar/lidar"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gitlab.com/poldi1405/go-indicators/progress"
	"golang.org/x/term"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
)

var version = "dev"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the app and maps its error to an exit code.
func run(args []string, stdout, stderr io.Writer) int {

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := newApp(stdout, stderr).RunContext(ctx, args)

	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	// Flag parsing and missing required flags.
	return ExitInvalidArgs
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "lidar",
		Usage:     "download ARSO LiDAR tiles for a grid rectangle",
		UsageText: "lidar -p gkot -f zlas -a b14 -1 510_74 -2 512_76",
		Version:   version,
		// stdout carries tile URLs only.
		Writer:    stderr,
		ErrWriter: stderr,

		// Exit codes are set by run.
		ExitErrHandler: func(*cli.Context, error) {},

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "point-format",
				Aliases:  []string{"p"},
				Usage:    "GKOT, OTR or DTM",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "file-format",
				Aliases:  []string{"f"},
				Usage:    "ZLAS, LAZ or ASC",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "area-code",
				Aliases:  []string{"a"},
				Usage:    "area code, example: b14",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "coordinate-system",
				Aliases: []string{"s"},
				Usage:   "D96TM or D48GK",
				Value:   lidar.D96TM.String(),
			},
			&cli.StringFlag{
				Name:     "first-coord",
				Aliases:  []string{"1"},
				Usage:    "first (lower left) coordinate `X_Y`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "second-coord",
				Aliases:  []string{"2"},
				Usage:    "second (upper right) coordinate `X_Y`",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output `DIR`",
				Value:   lidar.DefaultDir,
				EnvVars: []string{"LIDAR_OUTPUT"},
			},
			&cli.UintFlag{
				Name:    "concurrency",
				Aliases: []string{"c"},
				Usage:   "maximum tiles to download at the same time",
				Value:   lidar.DefaultConcurrency,
				EnvVars: []string{"LIDAR_CONCURRENCY"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "per tile request timeout, 0 for none",
				EnvVars: []string{"LIDAR_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "YAML config `FILE`",
				EnvVars: []string{"LIDAR_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar on stderr",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log every saved tile",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Value:   lidar.DefaultBaseURL,
				EnvVars: []string{"LIDAR_BASE_URL"},
				Hidden:  true,
			},
		},

		Action: func(c *cli.Context) error {
			return download(c, stdout, stderr)
		},
	}
}

func download(c *cli.Context, stdout, stderr io.Writer) error {

	tile, first, second, err := parseTile(c)

	if err != nil {
		return cli.Exit(err, ExitInvalidArgs)
	}

	cfg, err := loadConfig(c)

	if err != nil {
		return cli.Exit(err, ExitInvalidArgs)
	}

	if !c.IsSet("coordinate-system") {
		tile.CoordinateSystem = cfg.CoordinateSystem
	}

	log := newLogger(stderr, c.Bool("verbose"))

	d := lidar.NewDownload(c.Context, tile, first, second)
	d.Fetcher = cfg.Fetcher()
	d.Concurrency = cfg.Concurrency
	d.BaseURL = cfg.BaseURL
	d.Dir = cfg.Output
	d.Stdout = stdout
	d.Log = log

	if err := d.Init(); err != nil {
		return cli.Exit(err, ExitGeneralError)
	}

	tty := isTerminal(stderr)

	stop := func() {}

	if c.Bool("progress") && tty {
		d.Interval = 100
		stop = startProgress(d, stderr)
	}

	err = d.Start()
	stop()

	if err != nil {
		return cli.Exit(err, ExitGeneralError)
	}

	summary(stderr, d, tty)

	return nil
}

// parseTile reads the tile identifier flags. Nothing touches the
// filesystem before this succeeds.
func parseTile(c *cli.Context) (t lidar.Tile, first, second lidar.Coordinate, err error) {

	if t.PointFormat, err = lidar.ParsePointFormat(c.String("point-format")); err != nil {
		return
	}

	if t.FileFormat, err = lidar.ParseFileFormat(c.String("file-format")); err != nil {
		return
	}

	if t.AreaCode, err = lidar.ParseAreaCode(c.String("area-code")); err != nil {
		return
	}

	if t.CoordinateSystem, err = lidar.ParseCoordinateSystem(c.String("coordinate-system")); err != nil {
		return
	}

	if first, err = lidar.ParseCoordinate(c.String("first-coord")); err != nil {
		err = fmt.Errorf("first coordinate: %w", err)
		return
	}

	if second, err = lidar.ParseCoordinate(c.String("second-coord")); err != nil {
		err = fmt.Errorf("second coordinate: %w", err)
	}

	return
}

// loadConfig merges defaults, the config file and explicitly set flags.
func loadConfig(c *cli.Context) (lidar.Config, error) {

	cfg := lidar.DefaultConfig()

	if path := c.String("config"); path != "" {

		var err error

		if cfg, err = lidar.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("output") || cfg.Output == "" {
		cfg.Output = c.String("output")
	}

	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Uint("concurrency")
	}

	if cfg.Concurrency == 0 {
		return cfg, errors.New("concurrency must be at least 1")
	}

	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}

	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {

	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func progressFunc(w io.Writer) lidar.ProgressFunc {

	var p progress.Progress
	p.Width = 30
	p.SetStyle(progressStyle)

	return func(d *lidar.Download) {

		total := d.Total()
		if total == 0 {
			return
		}

		perc, err := progress.GetPercentage(float64(d.Done()), float64(total))
		if err != nil {
			perc = 100
		}

		bar := p.GetBar(perc, 100)

		fmt.Fprintf(w, "\r%s%s%s %d/%d tiles | %s | %s ",
			l, color(bar), r,
			d.Done(), total,
			humanize.Bytes(d.Bytes()),
			d.TotalCost().Round(time.Second),
		)
	}
}

// startProgress draws the bar on w until the download stops. The returned
// func blocks until the last frame is drawn.
func startProgress(d *lidar.Download, w io.Writer) func() {

	done := make(chan struct{})

	go func() {
		defer close(done)
		d.RunProgress(progressFunc(w))
	}()

	return func() {
		d.StopProgress()
		<-done
	}
}

func summary(w io.Writer, d *lidar.Download, tty bool) {

	if tty {
		fmt.Fprint(w, "\r")
	}

	line := fmt.Sprintf("Saved %d/%d tiles (%s) to %s in %s",
		d.Written(), d.Total(),
		humanize.Bytes(d.Bytes()),
		d.Dir,
		d.TotalCost().Round(time.Millisecond),
	)

	failed := ""
	if n := d.Failed(); n > 0 {
		failed = fmt.Sprintf(", %d failed", n)
	}

	if tty {
		line, failed = color(line), alert(failed)
	}

	fmt.Fprintln(w, line+failed)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
