// Command passdump prints the forward pass sequence of a frame file.
//
// The frame is read from a YAML or TOML file (see internal/framefile),
// sequenced with the default or file-supplied capabilities, validated and
// printed one pass per line. With --plan the attachment load and store
// operations of every rendering pass are printed as well.
//
// Usage:
//
//	passdump [flags] FRAME
//	passdump --frame frame.yaml --plan --verbose
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/forward"
	"github.com/gogpu/forward/internal/framefile"
	"github.com/gogpu/forward/render"
	"github.com/gogpu/gputypes"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// errUsage is returned when no frame file is given.
var errUsage = errors.New("a frame file is required (--frame or first argument)")

func run(args []string, stdout, stderr io.Writer) error {
	var (
		framePath string
		verbose   bool
		validate  bool
		plan      bool
		output    string
	)

	flagSet := pflag.NewFlagSet("passdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&framePath, "frame", "f", "", "frame file (.yaml, .yml or .toml)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log sequencing decisions to stderr")
	flagSet.BoolVar(&validate, "validate", true, "check the ordering invariant of the sequence")
	flagSet.BoolVar(&plan, "plan", false, "print attachment load/store operations")
	flagSet.StringVarP(&output, "output", "o", "text", "output format: text or yaml")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if framePath == "" && flagSet.NArg() > 0 {
		framePath = flagSet.Arg(0)
	}
	if framePath == "" {
		return errUsage
	}
	if output != "text" && output != "yaml" {
		return fmt.Errorf("unknown output format %q", output)
	}

	if verbose {
		forward.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer forward.SetLogger(nil)
	}

	file, err := framefile.Load(framePath)
	if err != nil {
		return err
	}
	ext, err := file.Registry()
	if err != nil {
		return err
	}

	var rec render.Recorder
	seq := forward.NewSequencer(file.Options()...).Setup(&file.Frame, ext, &rec)

	if validate {
		if err := seq.Validate(); err != nil {
			return err
		}
	}

	if output == "yaml" {
		return writeYAML(stdout, seq, rec.Plan(), plan)
	}
	writeText(stdout, seq, rec.Plan(), plan)
	return nil
}

func writeText(w io.Writer, seq *forward.Sequence, attachments []render.PassAttachments, plan bool) {
	fmt.Fprintf(w, "color=%s depth=%s size=%dx%d samples=%d\n",
		seq.Color, seq.Depth, seq.Target.Width, seq.Target.Height, seq.Target.SampleCount)

	for i, p := range seq.Passes {
		fmt.Fprintf(w, "%3d  %-26s in=[%s] out=[%s]\n", i, p.Name, names(p.Inputs), names(p.Outputs))
		if !plan || !attachments[i].Renders() {
			continue
		}
		if src := attachments[i].Source; src.IsValid() {
			fmt.Fprintf(w, "       source %s\n", src)
		}
		for _, c := range attachments[i].Colors {
			fmt.Fprintf(w, "       color %s load=%s store=%s", c.Handle, loadName(c.LoadOp), storeName(c.StoreOp))
			if c.Resolve.IsValid() {
				fmt.Fprintf(w, " resolve=%s", c.Resolve)
			}
			fmt.Fprintln(w)
		}
		if d := attachments[i].Depth; d != nil {
			fmt.Fprintf(w, "       depth %s load=%s store=%s\n", d.Handle, loadName(d.LoadOp), storeName(d.StoreOp))
		}
	}
}

// passDoc is the YAML form of one pass.
type passDoc struct {
	Name    string          `yaml:"name"`
	Kind    string          `yaml:"kind"`
	Inputs  []string        `yaml:"inputs,omitempty"`
	Outputs []string        `yaml:"outputs,omitempty"`
	Source  string          `yaml:"source,omitempty"`
	Attach  []attachmentDoc `yaml:"attachments,omitempty"`
}

type attachmentDoc struct {
	Handle string `yaml:"handle"`
	Aspect string `yaml:"aspect"`
	Load    string `yaml:"load"`
	Store   string `yaml:"store"`
	Resolve string `yaml:"resolve,omitempty"`
}

func writeYAML(w io.Writer, seq *forward.Sequence, attachments []render.PassAttachments, plan bool) error {
	docs := make([]passDoc, len(seq.Passes))
	for i, p := range seq.Passes {
		doc := passDoc{
			Name:    p.Name,
			Kind:    p.Kind.String(),
			Inputs:  nameList(p.Inputs),
			Outputs: nameList(p.Outputs),
		}
		if plan {
			if src := attachments[i].Source; src.IsValid() {
				doc.Source = src.String()
			}
			for _, c := range attachments[i].Colors {
				ad := attachmentDoc{
					Handle: c.Handle.String(), Aspect: "color",
					Load: loadName(c.LoadOp), Store: storeName(c.StoreOp),
				}
				if c.Resolve.IsValid() {
					ad.Resolve = c.Resolve.String()
				}
				doc.Attach = append(doc.Attach, ad)
			}
			if d := attachments[i].Depth; d != nil {
				doc.Attach = append(doc.Attach, attachmentDoc{
					Handle: d.Handle.String(), Aspect: "depth",
					Load: loadName(d.LoadOp), Store: storeName(d.StoreOp),
				})
			}
		}
		docs[i] = doc
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"passes": docs}); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func names(hs []forward.Handle) string {
	return strings.Join(nameList(hs), " ")
}

func nameList(hs []forward.Handle) []string {
	if len(hs) == 0 {
		return nil
	}
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.String()
	}
	return out
}

func loadName(op gputypes.LoadOp) string {
	switch op {
	case gputypes.LoadOpClear:
		return "clear"
	case gputypes.LoadOpLoad:
		return "load"
	}
	return "undefined"
}

func storeName(op gputypes.StoreOp) string {
	switch op {
	case gputypes.StoreOpStore:
		return "store"
	case gputypes.StoreOpDiscard:
		return "discard"
	}
	return "undefined"
}
