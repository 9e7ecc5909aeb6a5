package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-showcase-backend/api"
	"github.com/rpupo63/portfolio-showcase-backend/client"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Admin operations, requires an admin token",
	}
	cmd.AddCommand(newAdminBulkCommand())
	return cmd
}

func newAdminBulkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Apply one action to several projects",
		Long:  `Apply publish, unpublish, delete or assign_categories to the listed projects. Deleting needs --confirm.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, _ := cmd.Flags().GetString("action")
			rawIDs, _ := cmd.Flags().GetStringSlice("ids")
			rawCategories, _ := cmd.Flags().GetStringSlice("categories")
			confirm, _ := cmd.Flags().GetBool("confirm")

			ids, err := parseIDs(rawIDs)
			if err != nil {
				return err
			}
			categories, err := parseIDs(rawCategories)
			if err != nil {
				return err
			}

			selection := client.NewSelection()
			selection.SelectAll(ids)
			if selection.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing selected")
				return nil
			}
			res, err := selection.Apply(cmd.Context(), newClient(cmd), api.BulkAction(action), categories, confirm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d affected\n", res.Action, res.Affected)
			return nil
		},
	}
	cmd.Flags().String("action", "", "publish, unpublish, delete or assign_categories")
	cmd.Flags().StringSlice("ids", nil, "Project ids")
	cmd.Flags().StringSlice("categories", nil, "Category ids for assign_categories")
	cmd.Flags().Bool("confirm", false, "Confirm a destructive action")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}
