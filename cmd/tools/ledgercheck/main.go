// ledgercheck audits a conversation database: it recomputes the
// fingerprint of every stored turn and reports rows whose hash no
// longer matches their content. Exit status 1 when any row fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/surajkumar989/NeuralSync/internal/config"
	"github.com/surajkumar989/NeuralSync/internal/integrity"
	"github.com/surajkumar989/NeuralSync/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	dbPath := flag.String("db", cfg.Database.Path, "path to the conversation database")
	verbose := flag.Bool("v", false, "log every row, not only failures")
	flag.Parse()

	turns, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open conversation store: %v", err)
	}
	defer turns.Close()

	ctx := context.Background()

	total, err := turns.CountTurns(ctx)
	if err != nil {
		log.Fatalf("failed to count turns: %v", err)
	}

	failures := 0
	checked := 0
	// Walk the whole table in pages so huge histories stay bounded.
	for page := 1; ; page++ {
		batch, err := turns.ListTurns(ctx, store.ListOptions{
			SortBy:  store.SortByID,
			Order:   "asc",
			Page:    page,
			PerPage: 100,
		})
		if err != nil {
			log.Fatalf("failed to list turns: %v", err)
		}
		if len(batch.Turns) == 0 {
			break
		}

		for _, turn := range batch.Turns {
			checked++
			ok, err := integrity.Verify(turn, turn.Fingerprint)
			if err != nil {
				failures++
				log.Printf("[FAIL] turn %d: stored hash malformed: %q", turn.ID, turn.Fingerprint)
				continue
			}
			if !ok {
				failures++
				log.Printf("[FAIL] turn %d (%s): stored %s, recomputed %s",
					turn.ID, turn.Timestamp, turn.Fingerprint, integrity.FingerprintTurn(turn))
				continue
			}
			if *verbose {
				log.Printf("[OK]   turn %d (%s): %s", turn.ID, turn.Timestamp, turn.Fingerprint)
			}
		}
	}

	fmt.Printf("checked %d/%d turns, %d failed\n", checked, total, failures)
	if failures > 0 {
		os.Exit(1)
	}
}
