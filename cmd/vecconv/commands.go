package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GalacticDynamics/vector/internal/codec"
	"github.com/GalacticDynamics/vector/internal/convert"
	"github.com/GalacticDynamics/vector/internal/logging"
	"github.com/GalacticDynamics/vector/internal/vecerr"
)

// app carries the flag values and the engine shared by all commands.
type app struct {
	output   string
	logLevel string
	lossy    string
	file     string

	logger *logging.Logger
	conv   *convert.Converter
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vecconv",
		Short:         "Convert coordinate vectors between representations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "output format (json or yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	root.PersistentFlags().StringVar(&a.lossy, "lossy", "warn", "policy for dimension-reducing conversions (warn, ignore, error)")

	root.AddCommand(a.typesCmd(), a.convertCmd(), a.jacobianCmd())
	return root
}

func (a *app) init() error {
	policy, err := vecerr.ParseLossyPolicy(a.lossy)
	if err != nil {
		return err
	}
	switch codec.Format(a.output) {
	case codec.JSON, codec.YAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
	if a.logger == nil {
		cfg := logging.DefaultConfig()
		cfg.Level = a.logLevel
		l, err := logging.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		a.logger = l
	}
	a.conv = convert.New(
		convert.WithLogger(a.logger.Converter()),
		convert.WithLossyPolicy(policy),
	)
	return nil
}

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the registered vector types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.write(cmd.OutOrStdout(), codec.Describe())
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a vector described in a request document",
		Long: `Reads a conversion request (YAML or JSON) and prints the converted vector.

Use -f - to read the request from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req codec.ConvertRequest
			if err := a.read(cmd.InOrStdin(), &req); err != nil {
				return err
			}
			resp, err := codec.Execute(a.conv, &req)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVarP(&a.file, "file", "f", "", "request document")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) jacobianCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jacobian",
		Short: "Print the Jacobians of a position conversion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req codec.JacobianRequest
			if err := a.read(cmd.InOrStdin(), &req); err != nil {
				return err
			}
			resp, err := codec.Jacobian(a.conv, &req)
			if err != nil {
				return err
			}
			return a.write(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVarP(&a.file, "file", "f", "", "request document")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) read(stdin io.Reader, v any) error {
	var (
		data []byte
		err  error
	)
	if a.file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(a.file)
	}
	if err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return codec.Unmarshal(data, codec.FormatOf(a.file), v)
}

func (a *app) write(w io.Writer, v any) error {
	data, err := codec.Marshal(v, codec.Format(a.output), true)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if codec.Format(a.output) == codec.JSON {
		_, err = io.WriteString(w, "\n")
	}
	return err
}
