package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List currently blocked users",
		Run:   runList,
	}

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	result, err := e.svc.ListBlocked(cmd.Context(), scope())
	if err != nil {
		exitErr("list", err)
	}

	fmt.Println(result)
}
