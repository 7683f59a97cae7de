package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-logr/logr"

	jm "github.com/novopl/json-models"
	"github.com/novopl/json-models/catalog"
	"github.com/novopl/json-models/codec"
	js "github.com/novopl/json-models/jsonschema"
)

// exitInvalid is returned by validate and build when the input is rejected.
const exitInvalid = 1

func main() {
	os.Exit(run(os.Args[1:], loadConfig(), os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `jsonmodels CLI

Usage:
  jsonmodels schema   -models models.yaml -model Name [-left] [-indent n]
  jsonmodels build    -models models.yaml -model Name -input data.json [-no-validate] [-preserve] [-indent n]
  jsonmodels validate -models models.yaml -model Name -input data.json
  jsonmodels formats

Notes:
  - -input - reads from stdin.
  - JSONMODELS_MODELS, JSONMODELS_INDENT and JSONMODELS_LOG_LEVEL (also read from .env) provide defaults.`)
}

func run(args []string, cfg config, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	log := logr.FromSlogHandler(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	c := &cli{cfg: cfg, log: log, stdin: stdin, stdout: stdout, stderr: stderr}

	var err error
	switch args[0] {
	case "schema":
		err = c.schema(args[1:])
	case "build":
		err = c.build(args[1:])
	case "validate":
		err = c.validate(args[1:])
	case "formats":
		for _, name := range codec.Default().Names() {
			fmt.Fprintln(stdout, name)
		}
	case "help", "-h", "--help":
		usage(stdout)
	default:
		usage(stderr)
		return 2
	}
	var ue usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ue):
		fmt.Fprintln(stderr, err)
		return 2
	case errors.Is(err, errInvalidInput):
		return exitInvalid
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

var errInvalidInput = errors.New("invalid input")

type cli struct {
	cfg    config
	log    logr.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type modelFlags struct {
	models string
	model  string
}

func (c *cli) modelFlags(fs *flag.FlagSet) *modelFlags {
	mf := &modelFlags{}
	fs.StringVar(&mf.models, "models", c.cfg.Models, "YAML model catalog")
	fs.StringVar(&mf.model, "model", "", "model name")
	return mf
}

func (c *cli) resolve(mf *modelFlags) (*jm.ModelType, error) {
	if mf.models == "" || mf.model == "" {
		return nil, usageError("-models and -model are required")
	}
	cat, err := catalog.LoadFile(mf.models, catalog.WithFormats(codec.Default()))
	if err != nil {
		return nil, err
	}
	c.log.V(1).Info("catalog loaded", "path", mf.models, "models", cat.Len())
	mt, ok := cat.Get(mf.model)
	if !ok {
		return nil, fmt.Errorf("model %q not found in %s", mf.model, mf.models)
	}
	return mt, nil
}

func (c *cli) readInput(path string) ([]byte, error) {
	switch path {
	case "":
		return nil, usageError("-input is required")
	case "-":
		return io.ReadAll(c.stdin)
	default:
		return os.ReadFile(path)
	}
}

func (c *cli) engine(opts ...jm.Option) *jm.Engine {
	return jm.New(append([]jm.Option{jm.WithLogr(c.log)}, opts...)...)
}

func (c *cli) schema(args []string) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	mf := c.modelFlags(fs)
	left := fs.Bool("left", false, "keep nested models as $ref markers")
	indent := fs.Int("indent", c.cfg.Indent, "indentation width, 0 for compact")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	mt, err := c.resolve(mf)
	if err != nil {
		return err
	}
	mode := jm.Expanded
	if *left {
		mode = jm.Left
	}
	doc, err := mt.JSONSchema(mode)
	if err != nil {
		return err
	}
	out, err := js.Marshal(doc, *indent)
	if err != nil {
		return err
	}
	return c.writeln(out)
}

func (c *cli) build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	mf := c.modelFlags(fs)
	input := fs.String("input", "", "JSON input file, - for stdin")
	noValidate := fs.Bool("no-validate", false, "skip schema validation")
	preserve := fs.Bool("preserve", false, "omit properties set only by defaults")
	indent := fs.Int("indent", c.cfg.Indent, "indentation width, 0 for compact")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	mt, err := c.resolve(mf)
	if err != nil {
		return err
	}
	data, err := c.readInput(*input)
	if err != nil {
		return err
	}
	var opts []jm.Option
	if *noValidate {
		opts = append(opts, jm.WithoutValidation())
	}
	e := c.engine(opts...)
	in, err := e.BuildJSON(mt, data)
	if err != nil {
		var ve *jm.ValidationError
		if errors.As(err, &ve) {
			c.printIssues(ve.Issues)
			return errInvalidInput
		}
		return err
	}
	mode := jm.EncodeCanonical
	if *preserve {
		mode = jm.EncodePreserve
	}
	plain, err := e.Encode(in, mode)
	if err != nil {
		return err
	}
	out, err := jm.MarshalPlain(plain, *indent)
	if err != nil {
		return err
	}
	return c.writeln(out)
}

func (c *cli) validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	mf := c.modelFlags(fs)
	input := fs.String("input", "", "JSON input file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	mt, err := c.resolve(mf)
	if err != nil {
		return err
	}
	data, err := c.readInput(*input)
	if err != nil {
		return err
	}
	raw, err := js.Decode(data)
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}
	iss, err := c.engine().Validate(mt, raw)
	if err != nil {
		return err
	}
	if len(iss) > 0 {
		c.printIssues(iss)
		return errInvalidInput
	}
	fmt.Fprintln(c.stdout, "ok")
	return nil
}

func (c *cli) printIssues(iss jm.Issues) {
	for _, it := range iss {
		fmt.Fprintf(c.stdout, "%s\t%s\t%s\n", it.Path, it.Code, it.Message)
	}
}

func (c *cli) writeln(b []byte) error {
	if _, err := c.stdout.Write(b); err != nil {
		return err
	}
	_, err := io.WriteString(c.stdout, "\n")
	return err
}
