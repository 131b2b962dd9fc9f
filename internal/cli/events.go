package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent block events",
		Run:   runEvents,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max events")
	cmd.Flags().Bool("all-chats", false, "Include events from every conversation scope")

	RootCmd.AddCommand(cmd)
}

func runEvents(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	allChats, _ := cmd.Flags().GetBool("all-chats")

	e, err := openEnv()
	if err != nil {
		exitErr("setup", err)
	}
	defer e.close()

	key := chatKey
	if allChats {
		key = ""
	}

	events, err := e.auditLog.Recent(cmd.Context(), key, limit)
	if err != nil {
		exitErr("events", err)
	}

	b, _ := json.MarshalIndent(events, "", "  ")
	fmt.Println(string(b))
}
