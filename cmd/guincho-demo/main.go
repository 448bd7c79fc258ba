// README: Demo runner; drives a full dispatch flow against a running API and prints progress.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	BaseURL     string
	Origin      string
	Destination string
	Method      string
	Rating      int
	Timeout     time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("GUINCHO_DEMO_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.Origin, "origin", "Rua A, 123", "Origin address")
	flag.StringVar(&cfg.Destination, "destination", "Rua B, 456", "Destination address")
	flag.StringVar(&cfg.Method, "method", "pix", "Payment method (pix|card|cash)")
	flag.IntVar(&cfg.Rating, "rating", 5, "Trip rating 1..5")
	flag.DurationVar(&cfg.Timeout, "timeout", 60*time.Second, "Total timeout")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client := NewClient(cfg.BaseURL)
	if err := run(ctx, client, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *Client, cfg Config) error {
	fmt.Printf("== Requesting tow from %q to %q\n", cfg.Origin, cfg.Destination)

	if err := client.EditOrigin(ctx, cfg.Origin); err != nil {
		return err
	}
	if err := client.EditDestination(ctx, cfg.Destination); err != nil {
		return err
	}

	snap, err := client.WaitFor(ctx, func(s Snapshot) bool { return s.Draft.DistanceKm != nil && !s.Computing })
	if err != nil {
		return fmt.Errorf("waiting for distance: %w", err)
	}
	fmt.Printf("estimated distance: %.1f km\n", *snap.Draft.DistanceKm)

	if err := client.RequestQuote(ctx); err != nil {
		return err
	}
	snap, err = client.WaitFor(ctx, func(s Snapshot) bool { return s.Quote != nil })
	if err != nil {
		return fmt.Errorf("waiting for quote: %w", err)
	}
	fmt.Printf("quote: %d.%02d %s (%s tier)\n",
		snap.Quote.Price.Amount/100, snap.Quote.Price.Amount%100, snap.Quote.Price.Currency, snap.Quote.Tier)

	if err := client.Confirm(ctx); err != nil {
		return err
	}

	last := ""
	_, err = client.WaitFor(ctx, func(s Snapshot) bool {
		if s.Request == nil {
			return false
		}
		if s.Request.Status != last {
			last = s.Request.Status
			fmt.Printf("status: %s (provider %s, plate %s, eta %d min)\n",
				s.Request.Status, s.Request.Provider.Name, s.Request.Provider.Plate, s.Request.ETAMinutes)
		}
		return s.Request.Status == "arrived"
	})
	if err != nil {
		return fmt.Errorf("waiting for arrival: %w", err)
	}

	if err := client.Finalize(ctx); err != nil {
		return err
	}
	receipt, err := client.Pay(ctx, cfg.Method, cfg.Rating)
	if err != nil {
		return err
	}
	fmt.Printf("== Done. Paid %d.%02d %s via %s, rated %d/5\n",
		receipt.Amount.Amount/100, receipt.Amount.Amount%100, receipt.Amount.Currency, receipt.Method, receipt.Rating)
	return nil
}
