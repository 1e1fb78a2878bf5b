// paysplit reads a payroll frame and turns it into a structured record or a
// printable payslip.
//
// Usage:
//
//	paysplit parse [-i file | -u url | -fixture] [-o out.json]
//	paysplit gen   [-i file | -u url | -fixture] [-o out.pdf | -d dir]
//	paysplit serve
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"paysplit/internal/app/server"
	"paysplit/internal/domain/command"
	"paysplit/internal/platform/config"
	"paysplit/internal/platform/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "parse":
		err = runParse(ctx, os.Args[2:], os.Stdout)
	case "gen":
		err = runGen(ctx, os.Args[2:], os.Stdout)
	case "serve":
		err = server.Run(ctx, config.Load())
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `paysplit - payroll frame extractor and payslip generator

Usage:
  paysplit parse [options]
  paysplit gen [options]
  paysplit serve

Commands:
  parse   Extract the payroll record and print it as JSON
  gen     Extract the payroll record and write a PDF payslip
  serve   Run the HTTP API (configured through the environment)

Source options (default: SOURCE_KIND from the environment):
  -i <file>    Read a saved payroll frame
  -u <url>     Load the payroll page in a headless browser
  -fixture     Use the built-in sample record

Output options:
  -o <file>    parse: JSON output file (default: stdout)
               gen:   PDF output file
  -d <dir>     gen: output directory, file named after the record

Examples:
  paysplit parse -i frame.html
  paysplit gen -fixture -o sample.pdf
  SOURCE_COOKIES="ASP.NET_SessionId=..." paysplit gen -u https://hr.example.com/payslip -d out
`)
}

type cliOptions struct {
	input   string
	url     string
	fixture bool
	output  string
	dir     string
}

func parseFlags(name string, args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.input, "i", "", "payroll frame file")
	fs.StringVar(&opts.url, "u", "", "payroll page URL")
	fs.BoolVar(&opts.fixture, "fixture", false, "use the sample record")
	fs.StringVar(&opts.output, "o", "", "output file")
	fs.StringVar(&opts.dir, "d", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	chosen := 0
	for _, set := range []bool{opts.input != "", opts.url != "", opts.fixture} {
		if set {
			chosen++
		}
	}
	if chosen > 1 {
		return opts, fmt.Errorf("-i, -u and -fixture are mutually exclusive")
	}
	return opts, nil
}

// apply lets command-line flags override the environment configuration.
func (o cliOptions) apply(cfg config.Config) config.Config {
	switch {
	case o.input != "":
		cfg.SourceKind, cfg.SourcePath = config.SourceFile, o.input
	case o.url != "":
		cfg.SourceKind, cfg.SourceURL = config.SourceLive, o.url
	case o.fixture:
		cfg.SourceKind = config.SourceFixture
	}
	if o.dir != "" {
		cfg.OutputDir = o.dir
	}
	return cfg
}

func newService(opts cliOptions) (*command.Service, error) {
	cfg := opts.apply(config.Load())
	logger.InitWriter(os.Stderr, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return server.NewService(cfg, nil)
}

func runParse(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags("parse", args)
	if err != nil {
		return err
	}
	if opts.dir != "" {
		return fmt.Errorf("-d applies to gen only")
	}
	service, err := newService(opts)
	if err != nil {
		return err
	}

	resp, err := service.Dispatch(ctx, command.Request{Action: command.ActionParse})
	if err != nil {
		return err
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp.PaySplit); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func runGen(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags("gen", args)
	if err != nil {
		return err
	}
	if opts.output != "" && opts.dir != "" {
		return fmt.Errorf("-o and -d are mutually exclusive")
	}
	service, err := newService(opts)
	if err != nil {
		return err
	}

	if opts.output != "" {
		_, data, err := service.Render(ctx, nil)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return fmt.Errorf("writing payslip: %w", err)
		}
		fmt.Fprintln(stdout, opts.output)
		return nil
	}

	resp, err := service.Dispatch(ctx, command.Request{Action: command.ActionGenerate})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, resp.FilePath)
	return nil
}
