package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Emit the blocked-user prompt section",
		Long:  "Emit the compact blocked-user summary a host injects into the agent's prompt on every turn. Output is empty when nothing is blocked or the feature is off; this path never fails.",
		Run:   runPrompt,
	}

	RootCmd.AddCommand(cmd)
}

func runPrompt(cmd *cobra.Command, args []string) {
	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	if out := e.svc.PromptSummary(cmd.Context(), scope()); out != "" {
		fmt.Println(out)
	}
}
