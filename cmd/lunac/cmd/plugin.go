package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zyanho/lunac/internal/command"
)

func newAddCmd(a *app) *cobra.Command {
	return workspaceCmd(&cobra.Command{
		Use:   "add <plugin>",
		Short: "Add a plugin dependency",
		Long:  "Add a plugin dependency by name or path.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher.Dispatch(cmd.Context(), command.AddPlugin{Plugin: args[0]})
		},
	})
}

func newRemoveCmd(a *app) *cobra.Command {
	return workspaceCmd(&cobra.Command{
		Use:   "remove <plugin>",
		Short: "Remove a plugin dependency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher.Dispatch(cmd.Context(), command.RemovePlugin{Plugin: args[0]})
		},
	})
}

func newAlignCmd(a *app) *cobra.Command {
	return workspaceCmd(&cobra.Command{
		Use:   "align",
		Short: "Align plugin versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher.Dispatch(cmd.Context(), command.Align{})
		},
	})
}

func newValidateCmd(a *app) *cobra.Command {
	return workspaceCmd(&cobra.Command{
		Use:   "validate",
		Short: "Validate lunaris.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher.Dispatch(cmd.Context(), command.Validate{})
		},
	})
}

func newNewCmd(a *app) *cobra.Command {
	return workspaceCmd(&cobra.Command{
		Use:   "new <plugin_type> <name>",
		Short: "Create new plugin",
		Long:  "Create a new plugin. plugin_type is one of effect, timeline, codec, etc.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatcher.Dispatch(cmd.Context(), command.NewPlugin{Type: args[0], Name: args[1]})
		},
	})
}
