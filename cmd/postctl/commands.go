package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ftsanjuan/modern-react-redux-blog/client"
	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, showIndex)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := store.ID(args[0])
			return a.run(cmd, func(ctx context.Context, c *client.Client, out io.Writer) error {
				err := c.RequestFetchOne(ctx, id)
				renderDetail(out, c.Detail(id))
				return err
			})
		},
	}
}

func newNewCmd(a *app) *cobra.Command {
	var fields store.Fields

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(ctx context.Context, c *client.Client, out io.Writer) error {
				post, err := c.RequestCreate(ctx, fields)
				var verrs store.ValidationErrors
				if errors.As(err, &verrs) {
					renderValidation(cmd.ErrOrStderr(), verrs)
					return errReported
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created post %s\n\n", post.ID)
				return showIndex(ctx, c, out)
			})
		},
	}

	cmd.Flags().StringVar(&fields.Title, "title", "", "Post title")
	cmd.Flags().StringVar(&fields.Categories, "categories", "", "Post categories")
	cmd.Flags().StringVar(&fields.Content, "content", "", "Post content")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := store.ID(args[0])
			return a.run(cmd, func(ctx context.Context, c *client.Client, out io.Writer) error {
				if err := c.RequestDelete(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted post %s\n\n", id)
				return showIndex(ctx, c, out)
			})
		},
	}
}

// showIndex refreshes the store and prints the listing.
func showIndex(ctx context.Context, c *client.Client, out io.Writer) error {
	if err := c.RequestFetchAll(ctx); err != nil {
		return err
	}
	renderList(out, c.List())
	return nil
}

func renderList(out io.Writer, posts []store.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(out, "No posts")
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORIES")
	for _, p := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Title, p.Categories)
	}
	w.Flush()
}

func renderDetail(out io.Writer, d client.Detail) {
	switch d.Status {
	case client.StatusLoaded:
		fmt.Fprintln(out, d.Post.Title)
		fmt.Fprintf(out, "Categories: %s\n\n", d.Post.Categories)
		fmt.Fprintln(out, d.Post.Content)
	case client.StatusNotFound:
		fmt.Fprintln(out, "Post not found")
	default:
		fmt.Fprintln(out, "Loading...")
	}
}

func renderValidation(out io.Writer, errs store.ValidationErrors) {
	for _, field := range []string{store.FieldTitle, store.FieldCategories, store.FieldContent} {
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(out, "%s: %s\n", field, msg)
		}
	}
}
