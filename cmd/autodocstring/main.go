package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"autodocstring/internal/autodoc"
	"autodocstring/internal/config"
	"autodocstring/internal/docstring"
	"autodocstring/internal/extractor"
	"autodocstring/internal/pipeline"
)

var (
	rootCmd = &cobra.Command{
		Use:           "autodocstring",
		Short:         "Generate and maintain Python docstrings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	verbose    bool

	errWouldChange = errors.New("some files would be changed")
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file (default .autodocstring.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every declaration")

	documentCmd.Flags().StringVar(&docStyle, "style", "", "Force a style: google, numpy, sphinx or auto[_style]")
	documentCmd.Flags().IntVar(&docLine, "line", 0, "Only document the declaration enclosing this 1-based line")
	documentCmd.Flags().StringVar(&docChanged, "changed", "", "Only document declarations changed since this git ref")
	documentCmd.Flags().StringVar(&docQuote, "quote", "", "Quotes for new docstrings when force_default_qstyle is off")
	documentCmd.Flags().BoolVarP(&docWrite, "write", "w", false, "Write results back to the files")
	documentCmd.Flags().BoolVar(&docCheck, "check", false, "Exit non-zero when a file would change")

	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target style: google, numpy or sphinx")
	convertCmd.Flags().BoolVarP(&convertWrite, "write", "w", false, "Write results back to the files")
	_ = convertCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(signatureCmd)
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// initRunner loads the config and wires the engine to the OS file system.
func initRunner(style string) (*pipeline.Runner, error) {
	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if style != "" {
		cfg.Style = strings.ToLower(style)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log := newLogger()
	engine := autodoc.NewEngine(cfg, autodoc.WithLogger(log))
	return pipeline.NewRunner(fs, engine, log), nil
}

func pathsOrCwd(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

var (
	docStyle   string
	docLine    int
	docChanged string
	docQuote   string
	docWrite   bool
	docCheck   bool
)

var documentCmd = &cobra.Command{
	Use:   "document [paths...]",
	Short: "Insert or revise docstrings",
	Long: `Insert or revise the docstrings of every declaration in the given files
and directories. Without --write the updated source is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := initRunner(docStyle)
		if err != nil {
			return err
		}

		paths := args
		if docChanged == "" {
			paths = pathsOrCwd(args)
		}
		report, err := runner.Document(cmd.Context(), pipeline.Options{
			Paths:        paths,
			Line:         docLine,
			ChangedSince: docChanged,
			Write:        docWrite && !docCheck,
			Quote:        docQuote,
		})
		if err != nil {
			return err
		}
		return finish(cmd, report, docWrite, docCheck)
	},
}

var (
	convertTo    string
	convertWrite bool
)

var convertCmd = &cobra.Command{
	Use:   "convert --to STYLE [paths...]",
	Short: "Rewrite existing docstrings in another style",
	RunE: func(cmd *cobra.Command, args []string) error {
		style, err := docstring.ParseStyle(convertTo)
		if err != nil {
			return err
		}
		runner, err := initRunner("")
		if err != nil {
			return err
		}
		report, err := runner.Convert(cmd.Context(), pathsOrCwd(args), style, convertWrite)
		if err != nil {
			return err
		}
		return finish(cmd, report, convertWrite, false)
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [paths...]",
	Short: "Print the docstring style of each file",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := initRunner("")
		if err != nil {
			return err
		}
		found, err := runner.Detect(pathsOrCwd(args))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, d := range found {
			style := "unknown"
			if d.Found {
				style = d.Style.String()
			}
			fmt.Fprintf(out, "%s\t%s\n", d.Path, style)
		}
		return nil
	},
}

var signatureCmd = &cobra.Command{
	Use:   "signature HEADER",
	Short: "Print a tokenized def or class header as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var parsed any
		fn, err := extractor.ParseFunction(args[0])
		if err == nil {
			parsed = fn
		} else {
			cls, clsErr := extractor.ParseClass(args[0])
			if clsErr != nil {
				return err
			}
			parsed = cls
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(parsed); err != nil {
			return fmt.Errorf("failed to encode: %w", err)
		}
		return enc.Close()
	},
}

// finish prints the outcome of a run. Without write or check, rewritten
// sources go to stdout.
func finish(cmd *cobra.Command, report *pipeline.RunReport, write, check bool) error {
	out := cmd.OutOrStdout()
	switch {
	case check:
		changed := report.ChangedFiles()
		for _, path := range changed {
			fmt.Fprintln(out, path)
		}
		if len(changed) > 0 {
			return errWouldChange
		}
	case write:
		for _, path := range report.ChangedFiles() {
			fmt.Fprintf(out, "updated %s\n", path)
		}
	default:
		for _, f := range report.Files {
			if len(report.Files) > 1 {
				fmt.Fprintf(out, "# %s\n", f.Path)
			}
			_, _ = out.Write(f.Output)
		}
	}
	return report.Err()
}
