package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"webgis/internal/config"
	"webgis/internal/logger"
	"webgis/internal/session"
	"webgis/internal/tui"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"  env:"WEBGIS_CONFIG" description:"Path to configuration file"`
	Method     string `short:"m" long:"method"  env:"WEBGIS_METHOD" description:"Measuring method, overrides the configuration" choice:"spherical" choice:"geodesic"`
	Analyze    bool   `short:"a" long:"analyze"                     description:"Print the analysis of FILE and exit"`
	Format     string `short:"f" long:"format"                      description:"Analysis output format" choice:"yaml" choice:"json" default:"yaml"`
	Export     string `short:"e" long:"export"                      description:"Write the features of FILE to stdout and exit" choice:"geojson" choice:"wkt"`

	Args struct {
		File string `positional-arg-name:"FILE" description:"Document to open (GeoJSON, KML, CSV or WKT)"`
	} `positional-args:"yes"`
}

var errNoFile = errors.New("FILE is required with --analyze or --export")

func (o Options) batch() bool { return o.Analyze || o.Export != "" }

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	closeLog, err := opts.Logger.Setup(!opts.batch())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Method != "" {
		cfg.Analysis.Method = opts.Method
	}

	sess, err := session.New(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}

	if opts.batch() {
		if err := runBatch(opts, sess, os.Stdout); err != nil {
			log.Error().Err(err).Msg("Failed")
			_ = closeLog()
			os.Exit(1)
		}
		return
	}

	var m tea.Model
	if opts.Args.File != "" {
		m = tui.NewWithPath(sess, opts.Args.File)
	} else {
		m = tui.New(sess)
	}
	log.Info().Str("app", cfg.App.Name).Str("version", cfg.App.Version).Msg("Viewer started")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Error().Err(err).Msg("Viewer failed")
		_ = closeLog()
		os.Exit(1)
	}
}

// runBatch loads the file named in opts and writes the requested output.
func runBatch(opts Options, sess *session.Session, w io.Writer) error {
	if opts.Args.File == "" {
		return errNoFile
	}
	doc, err := sess.Load(opts.Args.File)
	if err != nil {
		return err
	}

	switch opts.Export {
	case "geojson":
		data, err := doc.Features.MarshalGeoJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "wkt":
		_, err := w.Write(doc.Features.MarshalWKT())
		return err
	}

	summary := sess.Summary()
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return err
	}
	return enc.Close()
}
