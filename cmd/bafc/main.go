package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bafproject/baf/engine"
	"github.com/bafproject/baf/engine/diagnostics"
	"github.com/bafproject/baf/engine/jsonexport"

	_ "github.com/bafproject/baf/cmd/bafc/schemas" // register demonstration schemas
)

func main() {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:           "bafc",
		Short:         "Build binary blobs from a declared BAF schema and a JSON/TOML document",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored error output")

	rootCmd.AddCommand(
		newBuildCmd(&noColor),
		newInspectCmd(&noColor),
		newSchemaCmd(&noColor),
	)

	if err := rootCmd.Execute(); err != nil {
		FormatError(os.Stderr, err, !noColor)
		os.Exit(1)
	}
}

func resolveSchema(name string) (*engine.BlockModel, error) {
	m, ok := engine.LookupSchema(name)
	if !ok {
		return nil, &CLIError{
			Message: fmt.Sprintf("no schema registered under %q", name),
			Hint:    fmt.Sprintf("available schemas: %s", strings.Join(engine.SchemaNames(), ", ")),
		}
	}
	blk, ok := m.(*engine.BlockModel)
	if !ok {
		return nil, &CLIError{Message: fmt.Sprintf("schema %q is not a record model", name)}
	}
	return blk, nil
}

func decodeAndBuild(model *engine.BlockModel, in, format string) (engine.Datum, error) {
	switch format {
	case "json":
		return engine.BuildJSONFile(model, in)
	case "toml":
		return engine.BuildTOMLFile(model, in)
	default:
		return nil, &CLIError{Message: fmt.Sprintf("unknown format %q", format), Hint: "use --format json or --format toml"}
	}
}

func newBuildCmd(noColor *bool) *cobra.Command {
	var (
		schemaName string
		in         string
		out        string
		format     string
		watch      bool
		showDigest bool
		validate   bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a binary blob from an input document",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := resolveSchema(schemaName)
			if err != nil {
				return err
			}
			run := func() error {
				if validate && format == "json" {
					raw, err := os.ReadFile(in)
					if err != nil {
						return &CLIError{Message: fmt.Sprintf("could not read %q: %v", in, err)}
					}
					if err := jsonexport.Validate(model, raw); err != nil {
						return &CLIError{Message: fmt.Sprintf("input failed schema validation: %v", err)}
					}
				}
				root, err := decodeAndBuild(model, in, format)
				if err != nil {
					return err
				}
				b, err := root.Bytes()
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, b, 0o644); err != nil {
					return &CLIError{Message: fmt.Sprintf("could not write %q: %v", out, err)}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%swrote %d bytes to %s%s\n", colorize("", colorGreen, !*noColor), len(b), out, colorReset)
				if showDigest {
					tree, err := diagnostics.Snapshot(root)
					if err != nil {
						return err
					}
					digest, err := diagnostics.Digest(tree)
					if err != nil {
						return err
					}
					content, err := diagnostics.ContentDigest(root)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "structure digest: %x\ncontent digest:   %x\n", digest, content)
				}
				return nil
			}
			if !watch {
				return run()
			}
			return watchAndRebuild(cmd, in, run)
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "registered schema name (required)")
	cmd.Flags().StringVar(&in, "in", "", "input document path (required)")
	cmd.Flags().StringVar(&out, "out", "", "output binary path (required)")
	cmd.Flags().StringVar(&format, "format", "json", "input format: json or toml")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild whenever the input document changes")
	cmd.Flags().BoolVar(&showDigest, "digest", false, "print structural and content digests after building")
	cmd.Flags().BoolVar(&validate, "validate", false, "validate the input document against the schema's derived JSON Schema first (json format only)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newInspectCmd(noColor *bool) *cobra.Command {
	var (
		schemaName string
		in         string
		format     string
		asCBOR     bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Visualize a built datum tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := resolveSchema(schemaName)
			if err != nil {
				return err
			}
			root, err := decodeAndBuild(model, in, format)
			if err != nil {
				return err
			}
			if asCBOR {
				tree, err := diagnostics.Snapshot(root)
				if err != nil {
					return err
				}
				enc, err := diagnostics.CBOR(tree)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(enc)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), engine.Visualize(root))
			return nil
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "registered schema name (required)")
	cmd.Flags().StringVar(&in, "in", "", "input document path (required)")
	cmd.Flags().StringVar(&format, "format", "json", "input format: json or toml")
	cmd.Flags().BoolVar(&asCBOR, "cbor", false, "emit a CBOR-encoded structural snapshot instead of text")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newSchemaCmd(noColor *bool) *cobra.Command {
	var schemaName string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export a JSON Schema document for a registered schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := resolveSchema(schemaName)
			if err != nil {
				return err
			}
			doc, err := jsonexport.FromBlock(model)
			if err != nil {
				return &CLIError{Message: err.Error()}
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&schemaName, "schema", "", "registered schema name (required)")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
