package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "unblock [user-identifier]",
		Short: "Remove a user's block",
		Args:  cobra.ExactArgs(1),
		Run:   runUnblock,
	}

	RootCmd.AddCommand(cmd)
}

func runUnblock(cmd *cobra.Command, args []string) {
	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	result, err := e.svc.Unblock(cmd.Context(), scope(), args[0])
	if err != nil {
		exitErr("unblock", err)
	}

	fmt.Println(result)
}
