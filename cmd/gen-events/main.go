// Command gen-events writes a synthetic message event set to stdout, for
// demos and load tests. The same seed always produces the same events.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/chatwrapped/engine/internal/domain/event"
	"github.com/chatwrapped/engine/internal/testevents"
	"github.com/chatwrapped/engine/pkg/logger"
)

func main() {
	contacts := flag.Int("contacts", 40, "number of contacts to generate")
	days := flag.Int("days", 180, "length of the window in days")
	seed := flag.Int64("seed", 1, "random seed")
	start := flag.String("start", "2025-01-01", "first day of the window (YYYY-MM-DD)")
	platforms := flag.String("platforms", "imessage,whatsapp,instagram", "comma-separated platform pool")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get().Named("gen-events")
	ctx := context.Background()

	gen := testevents.New(
		testevents.WithNumContacts(*contacts),
		testevents.WithDays(*days),
		testevents.WithSeed(*seed),
		testevents.WithStartDay(*start),
		testevents.WithPlatforms(splitPlatforms(*platforms)),
	)
	events, err := gen.Generate(ctx)
	if err != nil {
		log.Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "generated events", logger.Int("count", len(events)))

	if err := json.NewEncoder(os.Stdout).Encode(events); err != nil {
		log.Error(ctx, "failed to write events", logger.Error(err))
		os.Exit(1)
	}
}

func splitPlatforms(s string) []event.Platform {
	var out []event.Platform
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, event.Platform(p))
		}
	}
	return out
}
