package client

import (
	"bufio"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewEntryCommand constructs the `entry` command group and subcommands.
func NewEntryCommand(baseURL BaseURLFunc) *cobra.Command {
	entryCmd := &cobra.Command{Use: "entry", Short: "Entry operations"}
	entryCmd.AddCommand(
		newEntryAddCommand(baseURL),
		newEntryDeleteCommand(baseURL),
		newEntryListCommand(baseURL),
		newEntryExportCommand(baseURL),
		newEntryTailCommand(baseURL),
	)
	return entryCmd
}

func newEntryAddCommand(baseURL BaseURLFunc) *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Write one entry into a log or session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			logName, _ := cmd.Flags().GetString("log")
			session, _ := cmd.Flags().GetString("session")
			message, _ := cmd.Flags().GetString("message")
			severity, _ := cmd.Flags().GetInt("severity")

			body := map[string]any{
				"tenant":   tenant,
				"log":      logName,
				"message":  message,
				"severity": severity,
			}
			if session != "" {
				body["session"] = session
			}
			var created map[string]any
			if err := postJSON(baseURL(), "/v1/entries/add", body, &created); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	addCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	addCmd.Flags().String("log", "", "Log name")
	addCmd.Flags().String("session", "", "Session ID (writes into a session instead of --log)")
	addCmd.Flags().StringP("message", "m", "", "Message text")
	addCmd.Flags().Int("severity", 0, "Severity (server default when 0)")
	return addCmd
}

func newEntryDeleteCommand(baseURL BaseURLFunc) *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete entries from a log or session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			logName, _ := cmd.Flags().GetString("log")
			session, _ := cmd.Flags().GetString("session")

			body := map[string]any{"ids": args}
			if session != "" {
				body["session"] = session
			} else {
				body["tenant"] = tenant
				body["log"] = logName
			}
			var result map[string]any
			if err := postJSON(baseURL(), "/v1/entries/delete", body, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	deleteCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	deleteCmd.Flags().String("log", "", "Log name")
	deleteCmd.Flags().String("session", "", "Session ID (deletes from a session instead of --log)")
	return deleteCmd
}

func newEntryListCommand(baseURL BaseURLFunc) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Query entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var result map[string]any
			if err := getJSON(baseURL(), "/v1/entries/query?"+queryString(cmd), &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	addQueryFlags(listCmd)
	return listCmd
}

func newEntryExportCommand(baseURL BaseURLFunc) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export all of a tenant's entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			var result map[string]any
			path := "/v1/entries/export?tenant=" + url.QueryEscape(tenant)
			if err := getJSON(baseURL(), path, &result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	exportCmd.Flags().StringP("tenant", "t", "", "Tenant name")
	return exportCmd
}

func newEntryTailCommand(baseURL BaseURLFunc) *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow matching entries as they are written",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet,
				baseURL()+"/v1/entries/tail?"+queryString(cmd), nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %s", resp.Status)
			}
			sc := bufio.NewScanner(resp.Body)
			for sc.Scan() {
				line := sc.Text()
				if strings.HasPrefix(line, "data: ") {
					fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(line, "data: "))
				}
			}
			if cmd.Context().Err() != nil {
				return nil
			}
			return sc.Err()
		},
	}
	addQueryFlags(tailCmd)
	return tailCmd
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("tenant", "t", "", "Filter by tenant")
	cmd.Flags().String("log", "", "Filter by log name (requires --tenant)")
	cmd.Flags().String("session", "", "Filter by session ID")
	cmd.Flags().String("search", "", "Substring search on messages")
	cmd.Flags().String("expr", "", "CEL filter expression")
	cmd.Flags().String("sort", "", "Sort: date|tenant|severity")
	cmd.Flags().Bool("asc", false, "Sort ascending (oldest first)")
	cmd.Flags().Int("page", 0, "Page number (1-based)")
	cmd.Flags().Int("per-page", 0, "Page size")
	cmd.Flags().Bool("unpaged", false, "Return everything")
}

func queryString(cmd *cobra.Command) string {
	v := url.Values{}
	setString := func(flag, param string) {
		if s, _ := cmd.Flags().GetString(flag); s != "" {
			v.Set(param, s)
		}
	}
	setString("tenant", "tenant")
	setString("log", "log")
	setString("session", "session")
	setString("search", "search")
	setString("expr", "expr")
	setString("sort", "sort")
	if b, _ := cmd.Flags().GetBool("asc"); b {
		v.Set("asc", "true")
	}
	if b, _ := cmd.Flags().GetBool("unpaged"); b {
		v.Set("unpaged", "true")
	}
	if n, _ := cmd.Flags().GetInt("page"); n > 0 {
		v.Set("page", strconv.Itoa(n))
	}
	if n, _ := cmd.Flags().GetInt("per-page"); n > 0 {
		v.Set("per_page", strconv.Itoa(n))
	}
	return v.Encode()
}
