package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/depselect/svc/selection"
)

// NewCategoriesCommand creates "categories list".
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories through the selection loader",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, done, err := newCoordinator(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer done()

			v, err := c.WaitCategories(cmd.Context())
			if err != nil {
				return err
			}
			if v.Error != "" {
				return errors.Join(selection.ErrFetchFailed, errors.New(v.Error))
			}

			rows := make([][]string, 0, len(v.Categories))
			for _, cat := range v.Categories {
				rows = append(rows, []string{cat.ID.String(), cat.Name})
			}
			return printTable(cmd.OutOrStdout(), rootOpts.Format, v.Categories, []string{"ID", "NAME"}, rows)
		},
	})
	return cmd
}

// NewSubCategoriesCommand creates "subcategories list <categoryId>".
func NewSubCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subcategories",
		Short: "Inspect subcategories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <categoryId>",
		Short: "List the subcategories of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, done, err := newCoordinator(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer done()

			if err := c.SelectCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			v, err := c.WaitSubCategories(cmd.Context())
			if err != nil {
				return err
			}
			if v.Error != "" {
				return errors.Join(selection.ErrFetchFailed, errors.New(v.Error))
			}

			rows := make([][]string, 0, len(v.SubCategories))
			for _, s := range v.SubCategories {
				rows = append(rows, []string{s.ID.String(), s.CategoryID.String(), s.Name})
			}
			return printTable(cmd.OutOrStdout(), rootOpts.Format, v.SubCategories, []string{"ID", "CATEGORY", "NAME"}, rows)
		},
	})
	return cmd
}

// newCoordinator opens the configured catalog behind a coordinator using
// the form's retry settings.
func newCoordinator(cmd *cobra.Command, o *RootOptions) (*selection.Coordinator, func(), error) {
	b, err := openBackend(cmd.Context(), o)
	if err != nil {
		return nil, nil, err
	}
	c := selection.New(b.repo,
		selection.WithLogger(o.Log),
		selection.WithRetry(o.Config.Form.RetryCount, o.Config.Form.RetryDelay),
	)
	return c, func() {
		c.Close()
		b.close()
	}, nil
}
