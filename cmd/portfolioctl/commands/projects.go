package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Browse published projects",
	}
	cmd.AddCommand(newProjectsListCommand(), newProjectsLikeCommand(), newProjectsCommentCommand())
	return cmd
}

func newProjectsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of published projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			rawCategories, _ := cmd.Flags().GetStringSlice("category")
			categories, err := parseIDs(rawCategories)
			if err != nil {
				return err
			}

			list, err := newClient(cmd).Projects(cmd.Context(), page, categories)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range list.Projects {
				names := make([]string, 0, len(p.Categories))
				for _, c := range p.Categories {
					names = append(names, c.Name)
				}
				fmt.Fprintf(out, "%s\t%s\t%d likes\t%d comments\t%s\n",
					p.ID, p.Title, p.Stats.Likes, p.Stats.Comments, strings.Join(names, ","))
			}
			fmt.Fprintf(out, "page %d, %d total", list.Page, list.Total)
			if list.HasMore {
				fmt.Fprint(out, ", more available")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
	cmd.Flags().Int("page", 0, "Zero-based page number")
	cmd.Flags().StringSlice("category", nil, "Only projects in these categories")
	return cmd
}

func newProjectsLikeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "like <project-id>",
		Short: "Toggle your like on a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id: %w", err)
			}
			like, err := newClient(cmd).ToggleLike(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "unliked"
			if like.Liked {
				state = "liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d likes)\n", state, like.Count)
			return nil
		},
	}
}

func newProjectsCommentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <project-id> <text>",
		Short: "Comment on a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id: %w", err)
			}
			comment, err := newClient(cmd).AddComment(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", comment.ID, comment.AuthorName)
			return nil
		},
	}
}
