// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mdhender/ijson/model"
	"github.com/mdhender/ijson/pipelines/stages"
	store "github.com/mdhender/ijson/stores/sqlite"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	defaultDBPath  = "ijson.db"
	defaultDataDir = "data"
)

func cmdInitDB() *cobra.Command {
	dbPath := defaultDBPath
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "init-db",
		Short:        "create a new database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(dbPath); err != nil {
				return err
			}
			log.Printf("%s: created database\n", dbPath)
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdCompactDB() *cobra.Command {
	dbPath := defaultDBPath
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "compact-db",
		Short:        "checkpoint and vacuum the database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			if err := store.CompactDatabase(dbPath); err != nil {
				return err
			}
			if sb, err := os.Stat(dbPath); err == nil {
				log.Printf("%s: compacted to %s in %v\n", dbPath, humanize.Bytes(uint64(sb.Size())), time.Since(started))
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdIngest() *cobra.Command {
	dbPath, dataDir := defaultDBPath, defaultDataDir
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		cmd.Flags().StringVar(&dataDir, "data", dataDir, "directory to copy documents into")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "ingest <file>...",
		Short:        "queue files for parsing",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1), // require path to input file
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			quiet, _ := cmd.Flags().GetBool("quiet")

			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			svc := stages.NewIngestService(s, dataDir)
			queued, duplicates := 0, 0
			for _, input := range args {
				result, err := svc.IngestPath(ctx, input)
				if err != nil {
					return fmt.Errorf("%s: %w", input, err)
				}
				if result.Duplicate {
					duplicates++
					if !quiet {
						log.Printf("%s: duplicate of document %d\n", input, result.DocumentID)
					}
					continue
				}
				queued++
				if !quiet {
					log.Printf("%s: document %d: queued (%s)\n", input, result.DocumentID, humanize.Bytes(uint64(result.Size)))
				}
			}
			log.Printf("ingest: %d queued, %d duplicates\n", queued, duplicates)
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdWork() *cobra.Command {
	var po parseOptions
	dbPath, dataDir := defaultDBPath, defaultDataDir
	resetFailed := false
	var resetStale time.Duration
	workerID := ""
	addFlags := func(cmd *cobra.Command) error {
		po.addFlags(cmd)
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		cmd.Flags().StringVar(&dataDir, "data", dataDir, "directory documents were copied into")
		cmd.Flags().BoolVar(&resetFailed, "reset-failed", resetFailed, "requeue failed jobs before starting")
		cmd.Flags().DurationVar(&resetStale, "reset-stale", resetStale, "requeue running jobs locked longer than this before starting (0 to skip)")
		cmd.Flags().StringVar(&workerID, "worker-id", workerID, "identifier used to lock jobs (default host:pid)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "work",
		Short:        "parse queued documents until the queue is empty",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			if resetFailed {
				n, err := s.ResetFailedWork(ctx, model.WorkStageParse)
				if err != nil {
					return err
				}
				log.Printf("work: requeued %d failed jobs\n", n)
			}
			if resetStale > 0 {
				n, err := s.ResetStaleWork(ctx, model.WorkStageParse, time.Now().Add(-resetStale))
				if err != nil {
					return err
				}
				log.Printf("work: requeued %d stale jobs\n", n)
			}

			worker := stages.NewWorkerService(s, dataDir, workerID, po.options(cmd)...)
			started := time.Now()
			dr, err := worker.Drain(ctx, model.WorkStageParse)
			log.Printf("work: %s: %d ok, %d failed in %v\n", worker.WorkerID(), dr.Ok, dr.Failed, time.Since(started))
			return err
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdStatus() *cobra.Command {
	dbPath := defaultDBPath
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "path to the database file")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "status",
		Short:        "show the state of the work queue",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("documents %s, jobs %s, results %s, values %s\n\n",
				humanize.Comma(int64(stats.Documents)), humanize.Comma(int64(stats.Work)),
				humanize.Comma(int64(stats.Results)), humanize.Comma(int64(stats.Nodes)))

			summary, err := s.GetWorkSummary(ctx)
			if err != nil {
				return err
			}
			var rows [][]string
			for stage, statuses := range summary {
				for status, count := range statuses {
					rows = append(rows, []string{stage, status, humanize.Comma(int64(count))})
				}
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i][0] != rows[j][0] {
					return rows[i][0] < rows[j][0]
				}
				return rows[i][1] < rows[j][1]
			})
			table := newTable("Stage", "Status", "Count")
			table.AppendBulk(rows)
			table.Render()

			failed, err := s.GetFailedWork(ctx, model.WorkStageParse)
			if err != nil {
				return err
			} else if len(failed) == 0 {
				return nil
			}
			fmt.Println()
			table = newTable("Job", "Document", "Attempt", "Code", "Message")
			for _, w := range failed {
				code, msg := "", ""
				if w.ErrorCode != nil {
					code = *w.ErrorCode
				}
				if w.ErrorMessage != nil {
					msg = *w.ErrorMessage
				}
				table.Append([]string{
					fmt.Sprintf("%d", w.ID), fmt.Sprintf("%d", w.DocumentID), fmt.Sprintf("%d", w.Attempt), code, msg,
				})
			}
			table.Render()
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	return table
}
