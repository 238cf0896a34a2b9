// README: Runs one prompt through intent extraction, and optionally the full answer pipeline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"mapchat/internal/ai"
	"mapchat/internal/config"
	"mapchat/internal/infra"
	"mapchat/internal/maps"
	"mapchat/internal/service"
)

func main() {
	compose := flag.Bool("compose", false, "also call Google Maps and print the final response (needs GOOGLE_MAPS_API_KEY)")
	timeout := flag.Duration("timeout", 60*time.Second, "overall timeout")
	flag.Parse()

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" {
		prompt = "how do i go to bandung from jakarta"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := infra.NewLogger(cfg.Log.Level, "development")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	completer, closeCompleter, err := ai.NewCompleter(ctx, ai.ProviderConfig{
		Provider:     cfg.LLM.Provider,
		OllamaURL:    cfg.LLM.OllamaURL(),
		OllamaModel:  cfg.LLM.OllamaModel,
		GeminiAPIKey: cfg.LLM.GeminiKey,
		GeminiModel:  cfg.LLM.GeminiModel,
	})
	if err != nil {
		logger.Warn("completion provider unavailable, using heuristic only", zap.Error(err))
	}
	defer closeCompleter()

	extractor := ai.NewExtractor(completer, logger)
	fmt.Printf("User: %s\n", prompt)

	if !*compose {
		printJSON(extractor.Extract(ctx, prompt))
		return
	}

	mapsClient, err := maps.NewClient(maps.Config{APIKey: cfg.Maps.APIKey}, logger)
	if err != nil {
		log.Fatalf("maps client: %v", err)
	}
	assistant := service.NewAssistant(extractor, service.NewComposer(mapsClient, logger))
	resp, err := assistant.Process(ctx, prompt)
	if err != nil {
		log.Fatalf("process: %v", err)
	}
	if resp.MapHTML != nil {
		html := fmt.Sprintf("<%d bytes of map html>", len(*resp.MapHTML))
		resp.MapHTML = &html
	}
	printJSON(resp)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal(err)
	}
}
