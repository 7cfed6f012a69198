// Package client contains Cobra CLI commands for pluglog.
package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the pluglog client.
// It registers the entry, session, and tenant command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "pluglog",
		Short: "pluglog client commands",
	}
	root.AddCommand(NewEntryCommand(baseURL))
	root.AddCommand(NewSessionCommand(baseURL))
	root.AddCommand(NewTenantCommand(baseURL))
	return root
}
