package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/boynton/cdl"
	"github.com/boynton/cdl/graphql"
	"github.com/boynton/cdl/util"
)

var (
	exportOut   string
	exportForce bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert a CDL schema to another schema language",
}

var exportGraphqlCmd = &cobra.Command{
	Use:   "graphql <file.cdl>",
	Short: "Export a CDL schema as GraphQL SDL",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportGraphql,
}

func init() {
	exportCmd.AddCommand(exportGraphqlCmd)
	exportCmd.PersistentFlags().StringVarP(&exportOut, "out", "o", "", "Write to this file or directory instead of stdout")
	exportCmd.PersistentFlags().BoolVar(&exportForce, "force", false, "Overwrite an existing output file")
}

func runExportGraphql(cmd *cobra.Command, args []string) error {
	root, diags, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	if root == nil || countErrors(diags) > 0 {
		return fmt.Errorf("%s: not exported, fix the errors above first", args[0])
	}
	sdl, err := graphql.Export(root, logger)
	if err != nil {
		return err
	}
	if exportOut == "" {
		fmt.Fprint(cmd.OutOrStdout(), sdl)
		return nil
	}
	target := exportOut
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, util.BaseFileName(args[0])+".graphql")
	}
	gen := &cdl.Generator{Force: exportForce}
	gen.WriteFile(target, sdl)
	if gen.Err == nil {
		logger.Info("exported", "path", target)
	}
	return gen.Err
}
