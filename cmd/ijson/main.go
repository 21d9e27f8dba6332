// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package main implements the ijson command line utility.
package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mdhender/ijson"
	"github.com/mdhender/ijson/pipelines/stages"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", false, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "ijson",
		Short: "integer JSON command line utility",
		Long:  `Parse, check and batch process documents containing integers, arrays and objects`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("ijson: version %q\n", ijson.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse())
	cmdRoot.AddCommand(cmdCheck())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdCompactDB())
	cmdRoot.AddCommand(cmdIngest())
	cmdRoot.AddCommand(cmdWork())
	cmdRoot.AddCommand(cmdStatus())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseOptions holds the flags shared by every command that runs the parser.
type parseOptions struct {
	maxDepth int
	maxSize  int
}

func (po *parseOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&po.maxDepth, "max-depth", ijson.DefaultMaxDepth, "maximum nesting of arrays and objects")
	cmd.Flags().IntVar(&po.maxSize, "max-size", 0, "maximum input size in bytes (0 for no limit)")
}

// options returns the parser options for the flags, plus a debug logger when requested.
func (po *parseOptions) options(cmd *cobra.Command) []ijson.Option {
	options := []ijson.Option{
		ijson.WithMaxDepth(po.maxDepth),
		ijson.WithMaxInputSize(po.maxSize),
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		options = append(options, ijson.WithLogger(logger))
	}
	return options
}

// errParseFailed is returned after a diagnostic has already been printed.
var errParseFailed = errors.New("parse failed")

func cmdParse() *cobra.Command {
	var po parseOptions
	showStats := false
	addFlags := func(cmd *cobra.Command) error {
		po.addFlags(cmd)
		cmd.Flags().BoolVar(&showStats, "stats", showStats, "show node counts after the table")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "parse <file>",
		Short:        "parse a file and print its values",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1), // require path to input file
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			src := string(data)
			options := append([]ijson.Option{ijson.WithSource(args[0])}, po.options(cmd)...)
			root, err := ijson.Parse(src, options...)
			if err != nil {
				if diag, ok := ijson.DiagnosticFromError(err, src); ok {
					ijson.PrintDiagnostic(os.Stderr, diag, src)
					cmd.SilenceErrors = true
					return errParseFailed
				}
				return err
			}

			if quiet {
				return nil
			}

			result := stages.NewResult(root)
			table := newTable("Path", "Kind", "Value", "Len")
			for _, node := range result.Values {
				value := ""
				if node.Integer != nil {
					value = fmt.Sprintf("%d", *node.Integer)
				}
				table.Append([]string{node.Path, node.Kind, value, fmt.Sprintf("%d", node.Length)})
			}
			table.Render()

			if showStats {
				fmt.Printf("\n%s values: %d integers, %d arrays, %d objects, depth %d\n",
					humanize.Comma(int64(result.Nodes)), result.Integers, result.Arrays, result.Objects, result.MaxDepth)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCheck() *cobra.Command {
	var po parseOptions
	addFlags := func(cmd *cobra.Command) error {
		po.addFlags(cmd)
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "check <file>...",
		Short:        "check that files parse",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1), // require path to input file
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, _ := cmd.Flags().GetBool("quiet")
			verbose, _ := cmd.Flags().GetBool("verbose")
			if quiet {
				verbose = false
			}

			failed := 0
			for _, input := range args {
				data, err := os.ReadFile(input)
				if err != nil {
					log.Printf("%s: %v\n", input, err)
					failed++
					continue
				}
				src := string(data)
				options := append([]ijson.Option{ijson.WithSource(input)}, po.options(cmd)...)
				root, err := ijson.Parse(src, options...)
				if err != nil {
					failed++
					if diag, ok := ijson.DiagnosticFromError(err, src); ok && !quiet {
						ijson.PrintDiagnostic(os.Stderr, diag, src)
					} else {
						log.Printf("%s: %v\n", input, err)
					}
					continue
				}
				if verbose {
					st := ijson.Measure(root)
					log.Printf("%s: ok: %s, %s values, depth %d\n",
						input, humanize.Bytes(uint64(len(data))), humanize.Comma(int64(st.Nodes)), st.MaxDepth)
				} else if !quiet {
					log.Printf("%s: ok\n", input)
				}
			}

			if failed != 0 {
				cmd.SilenceErrors = quiet
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(ijson.Version().String())
				return nil
			}
			fmt.Println(ijson.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
