package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "block [user-identifier]",
		Short: "Block a user",
		Long:  "Block a user in prevent-trigger or full mode. Without --duration the configured default applies; --permanent requests a block with no expiry (needs ALLOW_PERMANENT_BLOCK).",
		Args:  cobra.ExactArgs(1),
		Run:   runBlock,
	}

	cmd.Flags().StringP("mode", "m", "prevent-trigger", "Block mode: prevent-trigger or full")
	cmd.Flags().StringP("reason", "r", "", "Block reason")
	cmd.Flags().Int64P("duration", "t", 0, "Block duration in seconds")
	cmd.Flags().Bool("permanent", false, "Request a permanent block")

	RootCmd.AddCommand(cmd)
}

func runBlock(cmd *cobra.Command, args []string) {
	mode, _ := cmd.Flags().GetString("mode")
	reason, _ := cmd.Flags().GetString("reason")
	duration, _ := cmd.Flags().GetInt64("duration")
	permanent, _ := cmd.Flags().GetBool("permanent")

	var durationSeconds *int64
	switch {
	case permanent:
		// nil requests a permanent block
	case cmd.Flags().Changed("duration"):
		durationSeconds = &duration
	default:
		// nil also triggers the default-duration fallback when permanent
		// blocks are not allowed
	}

	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	var result string
	switch mode {
	case "prevent-trigger":
		result, err = e.svc.BlockPreventTrigger(cmd.Context(), scope(), args[0], reason, durationSeconds)
	case "full":
		result, err = e.svc.BlockFull(cmd.Context(), scope(), args[0], reason, durationSeconds)
	default:
		exitErr("block", fmt.Errorf("unknown mode %q (use prevent-trigger or full)", mode))
	}
	if err != nil {
		exitErr("block", err)
	}

	fmt.Println(result)
}
