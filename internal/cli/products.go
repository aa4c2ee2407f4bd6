package cli

import (
	"github.com/spf13/cobra"

	"github.com/caffeinecoffee/storefront/internal/service"
)

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := service.NewProductService(a.repos, a.logger).ListProducts(cmd.Context())
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), products)
			}
			writeProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}
}
