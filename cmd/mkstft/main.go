package main

import (
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/mkstft"
	"github.com/bodgit/mkstft/tft"
	"github.com/urfave/cli/v2"
)

const levelOff = "OFF"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// newLogger builds the logger from the log flags. A log file that cannot be
// created is reported and logging carries on to stderr only.
func newLogger(c *cli.Context) (*slog.Logger, func()) {
	level := strings.ToUpper(c.String("log-level"))
	if level == levelOff {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "Unknown log level %q, using WARN\n", c.String("log-level"))
		l = slog.LevelWarn
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	if file := c.String("log-file"); file != "" {
		f, err := os.Create(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s for writing: %v\n", file, err)
		} else {
			w = io.MultiWriter(os.Stderr, f)
			closer = func() { f.Close() }
		}
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), closer
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowAppHelpAndExit(c, 1)
	}

	logger, closer := newLogger(c)
	defer closer()
	logger.Debug("logging initialized")

	var db *mkstft.PreviewDB
	if file := c.String("db"); file != "" {
		var err error
		if db, err = mkstft.NewPreviewDB(file); err != nil {
			logger.Warn("cannot open preview cache, continuing without it", "db", file, "error", err)
			db = nil
		} else {
			defer db.Close()
		}
	}

	m, err := mkstft.New(db, logger, mkstft.Options{
		SmallSize: c.Int("simage-size"),
		LargeSize: c.Int("gimage-size"),
		Colors:    c.Int("colors"),
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	// Failures are only logged so the slicer carries on with the export
	if err := m.Process(c.Context, c.Args().Slice()...); err != nil {
		logger.Debug("finished with errors, not failing to let the slicer continue")
		return nil
	}

	logger.Debug("finished successfully")
	return nil
}

func preview(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	f, err := os.Open(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer f.Close()

	previews, err := mkstft.Previews(f)
	if err != nil {
		return cli.Exit(err, 1)
	}

	for tag, name := range map[string]string{tft.SmallTag: "simage.png", tft.LargeTag: "gimage.png"} {
		m, ok := previews[tag]
		if !ok {
			continue
		}

		out, err := os.Create(filepath.Join(c.Args().Get(1), name))
		if err != nil {
			return cli.Exit(err, 1)
		}

		if err := png.Encode(out, m); err != nil {
			out.Close()
			return cli.Exit(err, 1)
		}

		if err := out.Close(); err != nil {
			return cli.Exit(err, 1)
		}
	}

	return nil
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = mkstft.Name
	app.Usage = "Replace the G-code thumbnail with previews for MKS TFT displays"
	app.Version = mkstft.Version
	app.ArgsUsage = "FILE..."

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "simage-size",
			Aliases: []string{"s"},
			EnvVars: []string{"MKSTFT_SIMAGE_SIZE"},
			Value:   mkstft.DefaultSmallSize,
			Usage:   "size of the simage",
		},
		&cli.IntFlag{
			Name:    "gimage-size",
			Aliases: []string{"g"},
			EnvVars: []string{"MKSTFT_GIMAGE_SIZE"},
			Value:   mkstft.DefaultLargeSize,
			Usage:   "size of the gimage",
		},
		&cli.IntFlag{
			Name:    "colors",
			EnvVars: []string{"MKSTFT_COLORS"},
			Usage:   "reduce previews to this many colors, 0 keeps all of them",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MKSTFT_DB"},
			Usage:   "path to preview cache database",
		},
		&cli.StringFlag{
			Name:    "log-file",
			EnvVars: []string{"MKSTFT_LOG_FILE"},
			Usage:   "also write log to this file",
		},
		&cli.StringFlag{
			Name:    "log-level",
			EnvVars: []string{"MKSTFT_LOG_LEVEL"},
			Value:   "WARN",
			Usage:   "log level, one of OFF, DEBUG, INFO, WARN, ERROR",
		},
	}

	app.Action = convert

	app.Commands = []*cli.Command{
		{
			Name:        "preview",
			Usage:       "Extract the previews from a converted file",
			Description: "Writes simage.png and gimage.png to DIRECTORY",
			ArgsUsage:   "FILE DIRECTORY",
			Action:      preview,
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
