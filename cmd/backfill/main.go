// Command backfill assigns membership numbers to legacy records that were
// registered before numbering existed. Safe to re-run; already-numbered
// records are never touched.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pbm-backend/internal/config"
	"pbm-backend/internal/database"
	"pbm-backend/internal/repositories"
	"pbm-backend/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "List records that would be updated without changing them")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	pool := database.Connect(cfg)
	defer pool.Close()

	memberRepo := repositories.NewMemberRepository(pool)
	counterRepo := repositories.NewCounterRepository(pool)

	if *dryRun {
		missing, err := memberRepo.ListMissingMembership(ctx)
		if err != nil {
			log.Fatalf("Failed to list records: %v", err)
		}
		if len(missing) == 0 {
			fmt.Println("All records already have membership numbers")
			return
		}
		fmt.Printf("%d record(s) without a membership number:\n", len(missing))
		for _, m := range missing {
			fmt.Printf("  #%d %s (%s), registered %s\n", m.ID, m.Name, m.Mobile, m.CreatedAt.Format("2006-01-02"))
		}
		if cfg.Membership.Hardened {
			year := time.Now().Year()
			seq, err := counterRepo.CurrentSequence(ctx, year)
			if err != nil {
				log.Fatalf("Failed to read %d counter: %v", year, err)
			}
			fmt.Printf("Numbering would continue from %s\n",
				services.NextMembershipNumber(cfg.Membership.Prefix, year, int(seq)))
		}
		return
	}

	// Backfill does not store photos, so no blob store is wired.
	svc := services.NewMembershipService(memberRepo, counterRepo, nil, cfg.Membership)
	updated, err := svc.Backfill(ctx)
	if err != nil {
		log.Printf("Backfill stopped after %d update(s): %v", updated, err)
		os.Exit(1)
	}

	fmt.Printf("Assigned membership numbers to %d record(s)\n", updated)
}
