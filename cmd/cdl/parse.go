package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/boynton/cdl"
	"github.com/boynton/cdl/util"
)

var (
	parseFormat string
	parseWatch  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.cdl>",
	Short: "Parse a CDL file and print the result",
	Long: `Parse a CDL file, report diagnostics with source context, and print the
document as a tree, JSON, YAML, or normalized CDL. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "tree", "Output format: tree, json, yaml, cdl")
	parseCmd.Flags().BoolVarP(&parseWatch, "watch", "w", false, "Parse again whenever the file changes")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !parseWatch {
		return parseOnce(cmd, path)
	}
	if path == "-" {
		return fmt.Errorf("--watch needs a file, not stdin")
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watch(ctx, cmd, path)
}

func parseOnce(cmd *cobra.Command, path string) error {
	root, diags, err := load(cmd, path)
	if err != nil {
		return err
	}
	if root == nil {
		return fmt.Errorf("%s: no document", path)
	}
	if err := render(cmd.OutOrStdout(), root, parseFormat); err != nil {
		return err
	}
	if n := countErrors(diags); n > 0 {
		return fmt.Errorf("%s: %d error(s)", path, n)
	}
	return nil
}

// load parses path and writes every diagnostic to stderr. The document is
// the best-effort result, nil only when the root itself failed.
func load(cmd *cobra.Command, path string) (*cdl.RootGroup, []*cdl.Diagnostic, error) {
	src, err := readSource(cmd, path)
	if err != nil {
		return nil, nil, err
	}
	root, diags := cdl.ParseWithDiagnostics(src, conf.Options(logger))
	name := path
	if path == "-" {
		name = "<stdin>"
	}
	for _, d := range diags {
		out := d.Annotate(name, src, conf.ContextLines)
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		fmt.Fprint(cmd.ErrOrStderr(), out)
	}
	return root, diags, nil
}

func countErrors(diags []*cdl.Diagnostic) int {
	n := 0
	for _, d := range diags {
		if d.Severity == cdl.SeverityError {
			n++
		}
	}
	return n
}

func render(out io.Writer, root *cdl.RootGroup, format string) error {
	switch format {
	case "tree":
		fmt.Fprint(out, root.Description())
	case "json":
		fmt.Fprint(out, util.Pretty(root))
	case "yaml":
		s, err := util.ToYAML(root)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	case "cdl":
		s, err := cdl.Decompile(root)
		if err != nil {
			return err
		}
		fmt.Fprint(out, s)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}

// watch parses path once and then again after every write, until ctx is
// done. The directory is watched since editors often replace the file.
func watch(ctx context.Context, cmd *cobra.Command, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)
	reparse := func() {
		if err := parseOnce(cmd, path); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	}
	reparse()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			reparse()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch failed", "path", path, "err", err)
		}
	}
}
