package client

import (
	"net/url"

	"github.com/spf13/cobra"
)

// NewTenantCommand constructs the `tenant` command group.
func NewTenantCommand(baseURL BaseURLFunc) *cobra.Command {
	tenantCmd := &cobra.Command{Use: "tenant", Short: "Tenant operations"}
	tenantCmd.AddCommand(
		newTenantListCommand(baseURL),
		newTenantLogsCommand(baseURL),
		newTenantPurgeCommand(baseURL),
	)
	return tenantCmd
}

func newTenantListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered tenants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result map[string]any
			if err := getJSON(baseURL(), "/v1/tenants", &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newTenantLogsCommand(baseURL BaseURLFunc) *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "List a tenant's logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			withSessions, _ := cmd.Flags().GetBool("sessions")
			path := "/v1/tenants/logs?tenant=" + url.QueryEscape(tenant)
			if withSessions {
				path += "&sessions=true"
			}
			var result map[string]any
			if err := getJSON(baseURL(), path, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	logsCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	logsCmd.Flags().Bool("sessions", false, "Include sessions")
	return logsCmd
}

func newTenantPurgeCommand(baseURL BaseURLFunc) *cobra.Command {
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all of a tenant's logs, sessions, and entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			var stats map[string]any
			err := postJSON(baseURL(), "/v1/tenants/purge", map[string]string{
				"tenant": tenant,
			}, &stats)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
	purgeCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	return purgeCmd
}
