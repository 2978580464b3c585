package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ammi749/gamekeys/internal/api"
	"github.com/ammi749/gamekeys/internal/cart"
	"github.com/ammi749/gamekeys/internal/catalog"
	"github.com/ammi749/gamekeys/internal/checkout"
	"github.com/ammi749/gamekeys/internal/config"
	"github.com/ammi749/gamekeys/internal/domain"
	"github.com/ammi749/gamekeys/internal/orders"
	"github.com/ammi749/gamekeys/internal/session"
	"github.com/ammi749/gamekeys/internal/storage"
)

type app struct {
	catalog  *catalog.Client
	cart     *cart.Store
	session  *session.Manager
	orders   *orders.Client
	checkout *checkout.Orchestrator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	var store storage.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		store = storage.NewRedisStore(redisClient, cfg.StateOwner)
	} else {
		fileStore, err := storage.NewFileStore(cfg.StateDir)
		if err != nil {
			log.Fatalf("Failed to open state dir: %v", err)
		}
		store = fileStore
	}

	tokens := session.NewTokens(store)
	apiClient := api.NewClient(cfg.APIBaseURL, tokens)
	sessionMgr := session.NewManager(apiClient, tokens)
	if err := sessionMgr.Restore(ctx); err != nil {
		log.Printf("restore session error, starting anonymous: %v \n", err)
	}
	cartStore := cart.NewStore(ctx, store)
	ordersClient := orders.NewClient(apiClient)

	a := &app{
		catalog:  catalog.NewClient(apiClient),
		cart:     cartStore,
		session:  sessionMgr,
		orders:   ordersClient,
		checkout: checkout.NewOrchestrator(apiClient, cartStore, sessionMgr, ordersClient, store),
	}
	defer cartStore.Flush()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "products":
		return a.listProducts(ctx, args)
	case "featured":
		return a.showProducts(a.catalog.Featured(ctx))
	case "sale":
		return a.showProducts(a.catalog.OnSale(ctx))
	case "login":
		return a.login(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("Logged out.")
		return nil
	case "me":
		return a.me(ctx)
	case "cart":
		return a.cartCommand(ctx, args)
	case "checkout":
		return a.checkoutCommand(ctx, args)
	case "confirm":
		return a.confirmCommand(ctx, args)
	case "pending":
		return a.pendingCommand(ctx)
	case "orders":
		return a.myOrders(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) listProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	search := fs.String("search", "", "search term")
	category := fs.String("category", "", "category slug")
	platform := fs.String("platform", "", "platform slug")
	page := fs.Int("page", 0, "page number")
	fs.Parse(args)

	result, err := a.catalog.Products(ctx, catalog.ListParams{
		Search:   *search,
		Category: *category,
		Platform: *platform,
		Page:     *page,
	})
	if err != nil {
		return err
	}
	return a.showProducts(result.Results, nil)
}

func (a *app) showProducts(list []domain.Product, err error) error {
	if err != nil {
		return err
	}
	for _, p := range list {
		price := p.CurrentPrice()
		fmt.Printf("%-8d %-40s %-10s $%s\n", p.ID, p.Name, p.Platform, price.StringFixed(2))
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: storefront login <email>")
	}
	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	profile, err := a.session.Login(ctx, args[0], strings.TrimSpace(password))
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (cashback balance $%s)\n", profile.Email, profile.CashbackBalance.StringFixed(2))
	return nil
}

func (a *app) me(ctx context.Context) error {
	profile, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s>\ncashback balance: $%s\n",
		profile.FirstName, profile.LastName, profile.Email, profile.CashbackBalance.StringFixed(2))
	return nil
}

func (a *app) cartCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		for _, item := range a.cart.Items() {
			fmt.Printf("%-8d %-40s x%-3d $%s\n",
				item.ProductID, item.Name, item.Quantity, item.LineTotal().StringFixed(2))
		}
		fmt.Printf("subtotal: $%s (%d items)\n", a.cart.Subtotal().StringFixed(2), a.cart.Count())
		return nil
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart add <slug> [quantity]")
		}
		quantity := 1
		if len(args) > 2 {
			q, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[2])
			}
			quantity = q
		}
		product, err := a.catalog.ProductBySlug(ctx, args[1])
		if err != nil {
			return err
		}
		if err := a.cart.Add(*product, quantity); err != nil {
			return err
		}
		fmt.Printf("Added %s x%d\n", product.Name, quantity)
		return nil
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart rm <product-id>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		a.cart.Remove(id)
		return nil
	case "set":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront cart set <product-id> <quantity>")
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		a.cart.SetQuantity(id, quantity)
		return nil
	case "clear":
		a.cart.Clear()
		return nil
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) checkoutCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	email := fs.String("email", "", "delivery email for the keys")
	method := fs.String("method", "STRIPE", "payment method: STRIPE or PAYPAL")
	useCashback := fs.Bool("cashback", false, "apply cashback balance")
	fs.Parse(args)

	if *email == "" {
		if profile := a.session.Profile(); profile != nil {
			*email = profile.Email
		}
	}

	if a.cart.IsEmpty() {
		return checkout.ErrEmptyCart
	}

	input := checkout.Input{
		Email:         *email,
		PaymentMethod: domain.PaymentMethod(*method),
		UseCashback:   *useCashback,
	}
	if *useCashback {
		fmt.Printf("estimated total: $%s (cashback applied: $%s)\n",
			a.checkout.EstimatedTotal(true).StringFixed(2),
			a.checkout.CashbackApplicable().StringFixed(2))
	}

	outcome, err := a.checkout.Submit(ctx, input)
	if err != nil {
		return err
	}

	switch result := outcome.(type) {
	case domain.Paid:
		fmt.Printf("Order %d completed, paid in full with cashback.\n", result.OrderID)
	case domain.PendingStripe:
		fmt.Printf("Order %d awaiting Stripe payment of $%s.\nclient secret: %s\n",
			result.OrderID, result.Amount.StringFixed(2), result.ClientSecret)
		fmt.Printf("Run `storefront confirm %d -method STRIPE -intent <id>` after paying.\n", result.OrderID)
	case domain.PendingPayPal:
		fmt.Printf("Order %d awaiting PayPal payment of $%s.\n", result.OrderID, result.Amount.StringFixed(2))
		fmt.Printf("Run `storefront confirm %d -method PAYPAL` after paying.\n", result.OrderID)
	}
	return nil
}

func (a *app) confirmCommand(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: storefront confirm <order-id> [-method STRIPE|PAYPAL] [-intent <id>]")
	}
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id %q", args[0])
	}

	fs := flag.NewFlagSet("confirm", flag.ExitOnError)
	method := fs.String("method", "STRIPE", "payment method used")
	intent := fs.String("intent", "", "Stripe payment intent id")
	fs.Parse(args[1:])

	err = a.checkout.ConfirmPayment(ctx, orderID, orders.ConfirmPaymentInput{
		PaymentMethod:   domain.PaymentMethod(*method),
		PaymentIntentID: *intent,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Order %d confirmed.\n", orderID)
	return nil
}

func (a *app) pendingCommand(ctx context.Context) error {
	order, err := a.checkout.PendingOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Order %d: %s, total $%s\n", order.ID, order.Status, order.Total.StringFixed(2))
	return nil
}

func (a *app) myOrders(ctx context.Context) error {
	list, err := a.orders.MyOrders(ctx)
	if err != nil {
		return err
	}
	for _, order := range list {
		fmt.Printf("%-8d %-20s $%-10s %s\n",
			order.ID, order.Status, order.Total.StringFixed(2), order.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command> [args]

commands:
  products [-search s] [-category c] [-platform p] [-page n]
  featured | sale
  login <email> | logout | me
  cart [show|add <slug> [qty]|rm <id>|set <id> <qty>|clear]
  checkout [-email e] [-method STRIPE|PAYPAL] [-cashback]
  confirm <order-id> [-method m] [-intent id]
  pending
  orders`)
}
