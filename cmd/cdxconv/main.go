// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// cdxconv converts chemical drawings between CDX, CDXML and base64 CDX.
//
// Usage:
//
//	cdxconv convert [flags] <input> [output]
//	cdxconv dump [flags] <input>
//	cdxconv extract [flags] <input> <directory>
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"go.e43.eu/cdx"
	"go.e43.eu/cdx/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "cdxconv: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return fmt.Errorf("no command given")
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "convert":
		return convertCmd(args, stdin, stdout, stderr)
	case "dump":
		return dumpCmd(args, stdin, stdout, stderr)
	case "extract":
		return extractCmd(args, stdin, stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `cdxconv - convert chemical drawings between CDX and CDXML

USAGE
    cdxconv <command> [flags] <arguments>

COMMANDS
    convert   Convert a document: cdxconv convert in.cdx out.cdxml
    dump      Print the document tree
    extract   Write embedded pictures and objects to a directory

Input and output formats are chosen by file extension (.cdx, .cdxml, .b64).
Use - for standard input or output together with --from and --to.

ENVIRONMENT
    CDXCONV_CONFIG   Path to a YAML configuration file
`)
}

// common holds the flags shared by every command
type common struct {
	flags *pflag.FlagSet

	configPath            string
	logLevel              string
	from                  string
	legacy                bool
	skipUnknownProperties bool
	skipUnknownObjects    bool
	skipUnknownAttributes bool
}

func newCommon(name string, stderr io.Writer) *common {
	c := &common{flags: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	c.flags.SetOutput(stderr)
	c.flags.StringVar(&c.configPath, "config", "", "YAML configuration file (default: $"+config.EnvVar+")")
	c.flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn or error")
	c.flags.StringVar(&c.from, "from", "", "input format when reading standard input: cdx, cdxml or base64")
	c.flags.BoolVar(&c.legacy, "legacy", false, "accept documents with the legacy CDX header")
	c.flags.BoolVar(&c.skipUnknownProperties, "skip-unknown-properties", false, "skip unknown CDX properties instead of failing")
	c.flags.BoolVar(&c.skipUnknownObjects, "skip-unknown-objects", false, "skip unknown CDX objects instead of failing")
	c.flags.BoolVar(&c.skipUnknownAttributes, "skip-unknown-attributes", false, "skip attributes with no CDX property instead of failing")
	return c
}

// setup loads the configuration, applies flag overrides and builds a converter
func (c *common) setup(stderr io.Writer) (*config.Config, *cdx.Converter, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, err
	}

	if c.flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if c.flags.Changed("legacy") {
		cfg.Reader.Legacy = c.legacy
	}
	if c.flags.Changed("skip-unknown-properties") {
		cfg.Reader.SkipUnknownProperties = c.skipUnknownProperties
	}
	if c.flags.Changed("skip-unknown-objects") {
		cfg.Reader.SkipUnknownObjects = c.skipUnknownObjects
	}
	if c.flags.Changed("skip-unknown-attributes") {
		cfg.Writer.SkipUnknownAttributes = c.skipUnknownAttributes
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	return cfg, cdx.NewConverter(cfg.Options(logger)), nil
}

// read reads the input document, from standard input if path is "-"
func (c *common) read(conv *cdx.Converter, path string, stdin io.Reader) (*cdx.Document, error) {
	if path != "-" {
		return conv.ReadFile(path)
	}

	format, err := cdx.ParseFormat(c.from)
	if err != nil {
		return nil, fmt.Errorf("--from is required when reading standard input: %w", err)
	}
	switch format {
	case cdx.FormatCDXML:
		return conv.ReadCDXML(stdin)
	case cdx.FormatBase64:
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return conv.ReadBase64CDX(string(b))
	default:
		return conv.ReadCDX(stdin)
	}
}

func convertCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := newCommon("convert", stderr)
	var to string
	c.flags.StringVar(&to, "to", "", "output format when writing standard output: cdx, cdxml or base64")
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.flags.NArg() < 1 || c.flags.NArg() > 2 {
		return fmt.Errorf("convert: expected <input> [output]")
	}

	cfg, conv, err := c.setup(stderr)
	if err != nil {
		return err
	}
	doc, err := c.read(conv, c.flags.Arg(0), stdin)
	if err != nil {
		return err
	}

	out := c.flags.Arg(1)
	if out != "" && out != "-" {
		return doc.WriteFile(out)
	}

	if to == "" {
		to = cfg.Writer.Format
	}
	format, err := cdx.ParseFormat(to)
	if err != nil {
		return err
	}
	b, err := doc.Marshal(format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(b)
	return err
}

func dumpCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := newCommon("dump", stderr)
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.flags.NArg() != 1 {
		return fmt.Errorf("dump: expected <input>")
	}

	_, conv, err := c.setup(stderr)
	if err != nil {
		return err
	}
	doc, err := c.read(conv, c.flags.Arg(0), stdin)
	if err != nil {
		return err
	}
	return dump(stdout, doc.Root)
}

type dumpFrame struct {
	el    *cdx.Element
	depth int
}

// dump prints an outline of the tree, one element per line
func dump(w io.Writer, root *cdx.Element) error {
	stack := []dumpFrame{{root, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var sb strings.Builder
		sb.WriteString(strings.Repeat("  ", f.depth))
		sb.WriteString(f.el.Tag)
		if f.el.ID != 0 {
			sb.WriteString("#")
			sb.WriteString(strconv.FormatUint(uint64(f.el.ID), 10))
		}
		for _, a := range f.el.Attrs {
			fmt.Fprintf(&sb, " %s=%q", a.Name, a.Value)
		}
		if f.el.Text != "" {
			fmt.Fprintf(&sb, " text=%q", f.el.Text)
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		for i := len(f.el.Children) - 1; i >= 0; i-- {
			stack = append(stack, dumpFrame{f.el.Children[i], f.depth + 1})
		}
	}
	return nil
}

func extractCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	c := newCommon("extract", stderr)
	if err := c.flags.Parse(args); err != nil {
		return err
	}
	if c.flags.NArg() != 2 {
		return fmt.Errorf("extract: expected <input> <directory>")
	}

	_, conv, err := c.setup(stderr)
	if err != nil {
		return err
	}
	doc, err := c.read(conv, c.flags.Arg(0), stdin)
	if err != nil {
		return err
	}

	objs, err := doc.EmbeddedObjects()
	if err != nil {
		return err
	}

	dir := c.flags.Arg(1)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, o := range objs {
		ext := o.Format
		if ext == "" {
			ext = strings.ToLower(o.Kind)
		}
		name := filepath.Join(dir, fmt.Sprintf("%d-%d.%s", o.Element.ID, i, ext))
		if err := os.WriteFile(name, o.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s\t%s\t%d bytes\n", name, o.Kind, len(o.Data))
	}
	return nil
}
