// Package models implements the model listing and download subcommands.
package models

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yolovision/yolovision/internal/analysis"
	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/model"
)

// Command creates the models subcommand with its list and get children.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage detection models",
	}

	cmd.AddCommand(listCommand(settings), getCommand(settings))
	return cmd
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List local models and the remote catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.New(settings).ListModels()
		},
	}
}

func getCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "get <identifier>",
		Short: "Download a pretrained model if not already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := model.NewRegistry(settings)
			provisioner := model.NewProvisioner(settings)

			desc, err := registry.Resolve(args[0])
			if err != nil {
				return err
			}
			desc, err = provisioner.EnsureLocal(cmd.Context(), desc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s ready at %s (%.1f MB)\n",
				desc.Identifier, desc.LocalPath, float64(desc.SizeBytes)/(1024*1024))
			return nil
		},
	}
}
