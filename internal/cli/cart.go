package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/caffeinecoffee/storefront/internal/service"
)

// NewCartCommand creates the cart command and its subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, func(a *app, cart *service.CartStore) error {
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				q, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				quantity = q
			}

			return withCart(cmd, rootOpts, func(a *app, cart *service.CartStore) error {
				product, err := service.NewProductService(a.repos, a.logger).AddProductToCart(cmd.Context(), cart, args[0], quantity)
				if err != nil {
					return err
				}
				if rootOpts.Format == "text" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s has been added to your cart\n", product.Name)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a cart line; zero or less removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			return withCart(cmd, rootOpts, func(a *app, cart *service.CartStore) error {
				return cart.UpdateQuantity(cmd.Context(), args[0], quantity)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, func(a *app, cart *service.CartStore) error {
				cart.RemoveFromCart(cmd.Context(), args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(cmd, rootOpts, func(a *app, cart *service.CartStore) error {
				cart.ClearCart(cmd.Context())
				return nil
			})
		},
	})

	return cmd
}

// withCart runs fn against the session cart and prints the cart afterwards
func withCart(cmd *cobra.Command, opts *RootOptions, fn func(a *app, cart *service.CartStore) error) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	cart := a.sessions.Get(cmd.Context(), opts.Session).Cart
	if err := fn(a, cart); err != nil {
		return err
	}

	view := cartView{
		Items:     cart.Items(),
		ItemCount: cart.ItemCount(),
		Total:     cart.CalculateTotal(),
	}
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	writeCart(cmd.OutOrStdout(), view)
	return nil
}
