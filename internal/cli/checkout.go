package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/receipt"
	"github.com/caffeinecoffee/storefront/internal/service"
	apperrors "github.com/caffeinecoffee/storefront/pkg/errors"
)

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var form service.CheckoutForm
	var payment string

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart and print the receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form.PaymentMethod = domain.PaymentMethod(payment)
			return runCheckout(cmd, rootOpts, form)
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&form.Email, "email", "", "customer email")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "customer phone")
	cmd.Flags().StringVar(&form.Address, "address", "", "shipping address")
	cmd.Flags().StringVar(&payment, "payment", string(domain.DefaultPaymentMethod), "payment method (bank|cod|ovo|gopay|dana)")

	return cmd
}

func runCheckout(cmd *cobra.Command, opts *RootOptions, form service.CheckoutForm) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	flow := a.sessions.Get(cmd.Context(), opts.Session).Checkout
	flow.SetForm(form)

	data, err := flow.Submit(cmd.Context())
	if err != nil {
		var validation *apperrors.ErrValidation
		if errors.As(err, &validation) {
			return fmt.Errorf("%s: %v", apperrors.UserMessage(err), validation.Fields)
		}
		if msg := flow.LastError(); msg != "" {
			return errors.New(msg)
		}
		return errors.New(apperrors.UserMessage(err))
	}

	view := receipt.Build(*data)
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), receipt.Text(view))
	return err
}
