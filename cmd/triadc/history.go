package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer s.Close()

	records, err := s.History(context.Background(), 20)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(records) == 0 {
		printInfo("no compile jobs recorded yet")
		return nil
	}

	for _, rec := range records {
		fmt.Printf("%s  %-16s  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.Outcome, rec.JobID)
	}
	return nil
}
