// Command yamlfmt reformats or validates YAML documents.
package main

import (
	"bytes"
	"fmt"
	"os"

	charmlog "charm.land/log/v2"
	"github.com/spf13/cobra"

	yamlcore "github.com/yamlcore/yamlcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "yamlfmt [file...]",
		Short: "Reformat or validate YAML documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := charmlog.New(os.Stderr)
			if len(args) == 0 {
				args = []string{"-"}
			}
			failed := false
			for _, path := range args {
				if err := formatOne(logger, path, check); err != nil {
					logger.Error("format failed", "file", path, "err", err)
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more files failed formatting")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "report files that are not already formatted, without rewriting them")
	return cmd
}

func formatOne(logger *charmlog.Logger, path string, check bool) error {
	var src []byte
	var err error
	if path == "-" {
		src, err = readAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	doc, err := yamlcore.DeserializeBytes(src)
	if err != nil {
		return err
	}
	formatted, err := yamlcore.Serialize(doc)
	if err != nil {
		return err
	}

	if check {
		if string(src) != formatted {
			return fmt.Errorf("not formatted")
		}
		return nil
	}

	if path == "-" {
		_, err = os.Stdout.WriteString(formatted)
		return err
	}
	if formatted == string(src) {
		return nil
	}
	logger.Info("rewrote file", "file", path)
	return os.WriteFile(path, []byte(formatted), 0o644)
}

func readAll(f *os.File) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(f)
	return buf.Bytes(), err
}
