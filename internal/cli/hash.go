package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beltworks/camber/internal/payload"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	*RootOptions
	Canonical bool
}

// HashOutput is the JSON shape for a hash run.
type HashOutput struct {
	Hash      string `json:"hash"`
	Canonical string `json:"canonical,omitempty"`
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash <payload.json>",
		Short: "Print the canonical hash of a JSON payload",
		Long: `Canonicalize a JSON payload and print its SHA-256 hash. Two payloads
that differ only in key order or number spelling hash identically.
Pass "-" to read the payload from stdin.

Examples:
  camber hash order.json
  camber hash order.json --canonical`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "also print the canonical form")

	return cmd
}

func runHash(opts *HashOptions, cmd *cobra.Command, path string) error {
	obj, err := readPayload(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read payload", err)
	}

	hash := payload.HashCanonical(obj)

	if opts.Format == "json" {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		resp := HashOutput{Hash: hash}
		if opts.Canonical {
			resp.Canonical = payload.CanonicalizePayload(obj)
		}
		return out.Success(resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	if opts.Canonical {
		fmt.Fprintln(cmd.OutOrStdout(), payload.CanonicalizePayload(obj))
	}
	return nil
}
