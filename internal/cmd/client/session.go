package client

import (
	"github.com/spf13/cobra"
)

// NewSessionCommand constructs the `session` command group.
func NewSessionCommand(baseURL BaseURLFunc) *cobra.Command {
	sessionCmd := &cobra.Command{Use: "session", Short: "Session operations"}
	sessionCmd.AddCommand(
		newSessionCreateCommand(baseURL),
		newSessionEndCommand(baseURL),
	)
	return sessionCmd
}

func newSessionCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new session under a tenant's log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			logName, _ := cmd.Flags().GetString("log")
			title, _ := cmd.Flags().GetString("title")

			var created map[string]any
			err := postJSON(baseURL(), "/v1/sessions/create", map[string]string{
				"tenant": tenant,
				"log":    logName,
				"title":  title,
			}, &created)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	createCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	createCmd.Flags().String("log", "", "Log name")
	createCmd.Flags().String("title", "", "Session title")
	return createCmd
}

func newSessionEndCommand(baseURL BaseURLFunc) *cobra.Command {
	endCmd := &cobra.Command{
		Use:   "end",
		Short: "End a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			var ended map[string]any
			err := postJSON(baseURL(), "/v1/sessions/end", map[string]string{
				"session": session,
			}, &ended)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), ended)
		},
	}
	endCmd.Flags().String("session", "", "Session ID")
	return endCmd
}
