package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User directory management",
	}

	addCmd := &cobra.Command{
		Use:   "add [platform-userid]",
		Short: "Register a user in the directory",
		Args:  cobra.ExactArgs(1),
		Run:   runUserAdd,
	}
	addCmd.Flags().StringP("name", "n", "", "Display name (defaults to the platform id)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Run:   runUserList,
	}

	userCmd.AddCommand(addCmd)
	userCmd.AddCommand(listCmd)
	RootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = args[0]
	}

	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	user, err := e.dir.CreateUser(cmd.Context(), adapterKey, args[0], name)
	if err != nil {
		exitErr("user add", err)
	}

	b, _ := json.Marshal(user)
	fmt.Println(string(b))
}

func runUserList(cmd *cobra.Command, args []string) {
	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	users, err := e.dir.ListUsers(cmd.Context())
	if err != nil {
		exitErr("user list", err)
	}

	b, _ := json.MarshalIndent(users, "", "  ")
	fmt.Println(string(b))
}
