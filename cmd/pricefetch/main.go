// pricefetch does a single ticker lookup and prints the result, handy
// for smoke-testing the upstream integration without the full service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"pricequote-service/internal/config"
	"pricequote-service/internal/domain"
	"pricequote-service/internal/infrastructure/binance"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	symbol := flag.String("symbol", domain.DefaultSymbol, "ticker symbol to fetch")
	baseURL := flag.String("base-url", cfg.BinanceAPIBase, "ticker endpoint base URL")
	flag.Parse()

	client := binance.New(*baseURL, cfg.ConnectTimeout, cfg.RequestTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout+cfg.RequestTimeout)
	defer cancel()

	res, err := client.Fetch(ctx, *symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fetch failed:", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(struct {
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		FetchedAt string `json:"fetchedAt"`
		Endpoint  string `json:"endpoint"`
		LatencyMs int64  `json:"latencyMs"`
	}{
		Symbol:    res.Quote.Symbol,
		Price:     res.Quote.Price.String(),
		FetchedAt: res.Quote.FetchedAt.Format(time.RFC3339Nano),
		Endpoint:  res.Endpoint,
		LatencyMs: res.Latency.Milliseconds(),
	}, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode result:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
