package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagDisplayName string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage owners",
}

var userAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Create an owner and print its id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.svc.CreateUser(cmd.Context(), args[0], flagDisplayName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %q with id %d\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	userAddCmd.Flags().StringVar(&flagDisplayName, "display-name", "", "Display name")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
