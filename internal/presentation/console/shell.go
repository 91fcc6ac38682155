package consolepresentation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/marketplace-console/internal/application/marketplace"
	apppurchase "github.com/Zhima-Mochi/marketplace-console/internal/application/purchase"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/customer"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/payment"
	"github.com/Zhima-Mochi/marketplace-console/internal/domain/seller"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability"
	"github.com/Zhima-Mochi/marketplace-console/internal/observability/logctx"
	"github.com/shopspring/decimal"
)

const componentConsole = "console"

// Registry is the marketplace surface the menu drives.
type Registry interface {
	AddSeller(ctx context.Context, name string) (int, error)
	AddCustomer(ctx context.Context, name string, balance decimal.Decimal) (int, error)
	ResolveSeller(ctx context.Context, id int) (*seller.Seller, error)
	ResolveCustomer(ctx context.Context, id int) (*customer.Customer, error)
	ListProduct(ctx context.Context, sellerID int, name string, price decimal.Decimal, quantity int) (marketplace.Listing, error)
	ListProducts(ctx context.Context) ([]marketplace.Listing, error)
	ListProductsOf(ctx context.Context, sellerID int) ([]marketplace.Listing, error)
	FilterProductsByPrice(ctx context.Context, min, max decimal.Decimal) ([]marketplace.Listing, error)
	DeleteProduct(ctx context.Context, index int) error
	UpdateProduct(ctx context.Context, index int, price decimal.Decimal, quantity int) error
	Balance(ctx context.Context, customerID int) (decimal.Decimal, error)
	PurchaseHistory(ctx context.Context, customerID int) ([]string, error)
	Sellers(ctx context.Context) ([]*seller.Seller, error)
	Customers(ctx context.Context) ([]*customer.Customer, error)
}

type Purchaser interface {
	Execute(ctx context.Context, in apppurchase.Input) (*apppurchase.Result, error)
}

// inputError marks failures reading from the terminal, as opposed to
// rejected operations. io.EOF ends the session cleanly.
type inputError struct{ err error }

func (e *inputError) Error() string { return "console: read input: " + e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

type command struct {
	name   string
	title  string
	handle func(ctx context.Context) error
}

// Shell is the numbered-menu front end. Numeric input is re-prompted until it
// parses; the core only ever sees well-formed integers and decimals.
type Shell struct {
	registry  Registry
	purchaser Purchaser
	in        *bufio.Reader
	out       io.Writer
	log       observability.Logger
	runner    *commandRunner
	commands  []command
}

func NewShell(registry Registry, purchaser Purchaser, in io.Reader, out io.Writer, tel observability.Observability) *Shell {
	baseLogger := observability.NopLogger()
	if tel != nil {
		baseLogger = tel.Logger()
	}
	log := baseLogger.With(observability.F("component", componentConsole))

	s := &Shell{
		registry:  registry,
		purchaser: purchaser,
		in:        bufio.NewReader(in),
		out:       out,
		log:       log,
		runner:    newCommandRunner(log, tel),
	}
	s.commands = []command{
		{"add_seller", "Add seller", s.addSeller},
		{"add_customer", "Add customer", s.addCustomer},
		{"add_product", "Add product", s.addProduct},
		{"list_products", "List products", s.listProducts},
		{"purchase", "Buy product", s.purchase},
		{"list_seller_products", "View seller products", s.listSellerProducts},
		{"delete_product", "Delete product", s.deleteProduct},
		{"update_product", "Update product", s.updateProduct},
		{"view_balance", "View customer balance", s.viewBalance},
		{"filter_by_price", "Filter products by price", s.filterByPrice},
		{"view_history", "View customer purchase history", s.viewHistory},
		{"list_sellers", "View all sellers", s.listSellers},
		{"list_customers", "View all customers", s.listCustomers},
	}
	return s
}

// Run serves menu selections until the user exits, input reaches EOF or ctx
// is cancelled. Rejected operations are reported and never end the loop.
func (s *Shell) Run(ctx context.Context) error {
	logctx.FromOr(ctx, s.log).Info("console_session_start")
	defer logctx.FromOr(ctx, s.log).Info("console_session_end")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		s.printMenu()
		choice, err := s.readInt("Choose an action: ")
		if err != nil {
			return s.endOfInput(err)
		}

		if choice == 0 {
			s.println("Goodbye.")
			return nil
		}
		if choice < 1 || choice > len(s.commands) {
			s.println("Invalid choice. Try again.")
			continue
		}

		cmd := s.commands[choice-1]
		err = s.runner.run(ctx, cmd.name, cmd.handle)
		var ie *inputError
		if errors.As(err, &ie) {
			return s.endOfInput(err)
		}
	}
}

func (s *Shell) endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		s.println("")
		return nil
	}
	return err
}

func (s *Shell) printMenu() {
	var b strings.Builder
	b.WriteString("\nMenu:\n")
	for i, c := range s.commands {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.title)
	}
	b.WriteString("0. Exit\n")
	fmt.Fprint(s.out, b.String())
}

func (s *Shell) addSeller(ctx context.Context) error {
	name, err := s.readLine("Enter seller name: ")
	if err != nil {
		return err
	}
	id, err := s.registry.AddSeller(ctx, name)
	if err != nil {
		return s.fail(err)
	}
	s.printf("Seller %q added with ID %d.\n", name, id)
	return nil
}

func (s *Shell) addCustomer(ctx context.Context) error {
	name, err := s.readLine("Enter customer name: ")
	if err != nil {
		return err
	}
	balance, err := s.readDecimal("Enter customer balance: ")
	if err != nil {
		return err
	}
	id, err := s.registry.AddCustomer(ctx, name, balance)
	if err != nil {
		return s.fail(err)
	}
	s.printf("Customer %q added with ID %d.\n", name, id)
	return nil
}

func (s *Shell) addProduct(ctx context.Context) error {
	sellerID, err := s.readInt("Enter seller ID: ")
	if err != nil {
		return err
	}
	if _, err := s.registry.ResolveSeller(ctx, sellerID); err != nil {
		return s.fail(err)
	}
	name, err := s.readLine("Enter product name: ")
	if err != nil {
		return err
	}
	price, err := s.readDecimal("Enter product price: ")
	if err != nil {
		return err
	}
	quantity, err := s.readInt("Enter product quantity: ")
	if err != nil {
		return err
	}

	if _, err := s.registry.ListProduct(ctx, sellerID, name, price, quantity); err != nil {
		return s.fail(err)
	}
	s.printf("Product %q added to the marketplace.\n", name)
	return nil
}

func (s *Shell) listProducts(ctx context.Context) error {
	listings, err := s.registry.ListProducts(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.println("\nProducts:")
	if len(listings) == 0 {
		s.println("No products to display.")
		return nil
	}
	for _, l := range listings {
		s.printf("%d. %s (Price: %s, Quantity: %d, Seller ID: %d)\n",
			l.Index+1, l.Product.Name, money(l.Product.Price), l.Product.Quantity, l.Product.SellerID)
	}
	return nil
}

func (s *Shell) purchase(ctx context.Context) error {
	customerID, err := s.readInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	if _, err := s.registry.ResolveCustomer(ctx, customerID); err != nil {
		return s.fail(err)
	}
	index, err := s.readInt("Enter product index to buy: ")
	if err != nil {
		return err
	}
	quantity, err := s.readInt("Enter quantity to buy: ")
	if err != nil {
		return err
	}
	choice, err := s.readInt("Choose payment method (1 - cash, 2 - card, 3 - crypto): ")
	if err != nil {
		return err
	}
	method, err := payment.ParseChoice(choice)
	if err != nil {
		return s.fail(err)
	}

	res, err := s.purchaser.Execute(ctx, apppurchase.Input{
		CustomerID:   customerID,
		ProductIndex: index - 1,
		Quantity:     quantity,
		Method:       method,
	})
	if err != nil {
		return s.fail(err)
	}

	s.println("Purchase completed!")
	s.printf("Product: %s, Quantity: %d, Total cost: %s, Payment method: %s, Remaining balance: %s\n",
		res.Record.ProductName, res.Record.Quantity, money(res.Record.Total), res.Record.MethodLabel, money(res.Balance))
	if res.ReceiptErr != nil {
		s.println("Could not save the receipt.")
	} else if res.ReceiptPath != "" {
		s.printf("Receipt saved to file: %s\n", res.ReceiptPath)
	}
	return nil
}

func (s *Shell) listSellerProducts(ctx context.Context) error {
	sellerID, err := s.readInt("Enter seller ID: ")
	if err != nil {
		return err
	}
	listings, err := s.registry.ListProductsOf(ctx, sellerID)
	if err != nil {
		return s.fail(err)
	}
	s.printf("\nProducts of seller ID %d:\n", sellerID)
	if len(listings) == 0 {
		s.println("Seller has no products.")
		return nil
	}
	s.printListings(listings)
	return nil
}

func (s *Shell) deleteProduct(ctx context.Context) error {
	index, err := s.readInt("Enter product index to delete: ")
	if err != nil {
		return err
	}
	if err := s.registry.DeleteProduct(ctx, index-1); err != nil {
		return s.fail(err)
	}
	s.println("Product deleted.")
	return nil
}

func (s *Shell) updateProduct(ctx context.Context) error {
	index, err := s.readInt("Enter product index to update: ")
	if err != nil {
		return err
	}
	price, err := s.readDecimal("Enter new product price: ")
	if err != nil {
		return err
	}
	quantity, err := s.readInt("Enter new product quantity: ")
	if err != nil {
		return err
	}
	if err := s.registry.UpdateProduct(ctx, index-1, price, quantity); err != nil {
		return s.fail(err)
	}
	s.println("Product updated.")
	return nil
}

func (s *Shell) viewBalance(ctx context.Context) error {
	customerID, err := s.readInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	balance, err := s.registry.Balance(ctx, customerID)
	if err != nil {
		return s.fail(err)
	}
	s.printf("Customer balance: %s\n", money(balance))
	return nil
}

func (s *Shell) filterByPrice(ctx context.Context) error {
	min, err := s.readDecimal("Enter minimum product price: ")
	if err != nil {
		return err
	}
	max, err := s.readDecimal("Enter maximum product price: ")
	if err != nil {
		return err
	}
	listings, err := s.registry.FilterProductsByPrice(ctx, min, max)
	if err != nil {
		return s.fail(err)
	}
	s.printf("\nProducts priced from %s to %s:\n", money(min), money(max))
	if len(listings) == 0 {
		s.println("No products in this price range.")
		return nil
	}
	s.printListings(listings)
	return nil
}

func (s *Shell) viewHistory(ctx context.Context) error {
	customerID, err := s.readInt("Enter customer ID: ")
	if err != nil {
		return err
	}
	history, err := s.registry.PurchaseHistory(ctx, customerID)
	if err != nil {
		return s.fail(err)
	}
	s.println("Purchase history:")
	for _, line := range history {
		s.println(line)
	}
	return nil
}

func (s *Shell) listSellers(ctx context.Context) error {
	sellers, err := s.registry.Sellers(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.println("\nAll sellers:")
	if len(sellers) == 0 {
		s.println("No sellers.")
		return nil
	}
	for _, sl := range sellers {
		s.printf("ID: %d, Name: %s\n", sl.ID, sl.Name)
	}
	return nil
}

func (s *Shell) listCustomers(ctx context.Context) error {
	customers, err := s.registry.Customers(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.println("\nAll customers:")
	if len(customers) == 0 {
		s.println("No customers.")
		return nil
	}
	for _, c := range customers {
		s.printf("ID: %d, Name: %s\n", c.ID, c.Name)
	}
	return nil
}

func (s *Shell) printListings(listings []marketplace.Listing) {
	for _, l := range listings {
		s.printf("- %s (Price: %s, Quantity: %d)\n", l.Product.Name, money(l.Product.Price), l.Product.Quantity)
	}
}

// fail prints the user-facing message for err and hands it back for the
// command's outcome accounting.
func (s *Shell) fail(err error) error {
	s.println(describeError(err))
	return err
}

func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", &inputError{err: err}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Shell) readInt(prompt string) (int, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return 0, err
		}
		v, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil {
			return v, nil
		}
		s.println("Input error! Please enter a number.")
	}
}

func (s *Shell) readDecimal(prompt string) (decimal.Decimal, error) {
	for {
		line, err := s.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		v, convErr := decimal.NewFromString(strings.TrimSpace(line))
		if convErr == nil {
			return v, nil
		}
		s.println("Input error! Please enter a number.")
	}
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
