package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/beltworks/camber/internal/calc"
	"github.com/beltworks/camber/internal/payload"
	"github.com/beltworks/camber/internal/sanitize"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Rules string
}

// CalcOutput is the JSON shape for a calc run.
type CalcOutput struct {
	Success  bool                   `json:"success"`
	Removed  []sanitize.RemovedKey  `json:"removed"`
	Outputs  map[string]any         `json:"outputs,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	Errors   []calc.ValidationError `json:"errors,omitempty"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc <payload.json>",
		Short: "Sanitize a payload and run the sizing calculation",
		Long: `Read a raw JSON input payload, sanitize it, and run the drive sizing
calculation. Pass "-" to read the payload from stdin.

Exit codes:
  0 - Calculation succeeded
  1 - Validation or tube stress failure
  2 - Command error (unreadable payload, bad rule table, etc.)

Examples:
  camber calc order.json
  camber calc order.json --rules rules.cue --format json
  cat order.json | camber calc -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Rules, "rules", "", "path to a CUE sanitizer rule table (default: built-in rules)")

	return cmd
}

func runCalc(opts *CalcOptions, cmd *cobra.Command, path string) error {
	raw, err := readPayload(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read payload", err)
	}

	rules := sanitize.DefaultRules()
	if opts.Rules != "" {
		rules, err = sanitize.LoadRuleTable(opts.Rules)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load rule table", err)
		}
	}

	cleaned := sanitize.Sanitize(raw, rules)
	slog.Debug("payload sanitized", "removed", len(cleaned.Removed))

	result := calc.Calculate(cleaned.Cleaned)

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		resp := CalcOutput{
			Success:  result.Success,
			Removed:  cleaned.Removed,
			Warnings: result.Warnings,
			Errors:   result.Errors,
		}
		if result.Outputs != nil {
			resp.Outputs = payload.ToGo(result.Outputs).(map[string]any)
		}
		if err := out.Success(resp); err != nil {
			return err
		}
	} else {
		writeCalcText(out, cleaned, result)
	}

	if !result.Success {
		return NewExitError(ExitFailure, "calculation failed")
	}
	return nil
}

func writeCalcText(out *OutputFormatter, cleaned sanitize.Result, result calc.Result) {
	w := out.Writer
	for _, rk := range cleaned.Removed {
		out.VerboseLog("sanitizer removed %q (%s)", rk.Key, rk.Reason)
	}
	if result.Success {
		fmt.Fprintln(w, "OK")
		fmt.Fprint(w, payload.CanonicalizePayload(result.Outputs))
		fmt.Fprintln(w)
	} else {
		fmt.Fprintln(w, "FAILED")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  [%s] %s: %s\n", e.Code, e.Field, e.Message)
		}
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}

func readPayload(path string) (payload.Object, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return payload.ObjectFromJSON(data)
}
