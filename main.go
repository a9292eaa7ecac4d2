package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"zone53/internal/config"
	"zone53/internal/database"
	"zone53/internal/importer"
	"zone53/internal/model"
	"zone53/internal/service"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		zoneFile   string
		domain     string
		zoneID     string
		recordType string
		comment    string
		strict     bool
		batchSize  int
		resumeFrom int
	)

	cmd := &cobra.Command{
		Use:           "zone53",
		Short:         "Import zone-file records into a Route53 hosted zone",
		Long:          "zone53 reads a DNS zone file and upserts its records into a Route53 hosted zone.\nRe-running the same import is safe: every change is an UPSERT.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if zoneFile == "" {
				return fmt.Errorf("no zone file defined, use -f to set the path")
			}
			if domain == "" {
				return fmt.Errorf("no domain defined, use -d to set the domain to import")
			}
			if zoneID == "" {
				return fmt.Errorf("no hosted zone ID provided, use -z to set it")
			}
			if recordType != model.TypeAll && !model.IsSupportedType(recordType) {
				return fmt.Errorf("unknown or unsupported record type %q", recordType)
			}

			cfg, err := loadConfig(configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("batch-size") {
				cfg.Import.MaxBatchSize = batchSize
			}
			if cmd.Flags().Changed("comment") {
				cfg.Import.Comment = comment
			}

			var db *database.DB
			var journal importer.Journal
			if cfg.Database.DSN != "" {
				db, err = database.Open(cfg.Database.DSN)
				if err != nil {
					return fmt.Errorf("failed to open journal database: %w", err)
				}
				defer db.Close()
				journal = db
			}

			svc, err := service.NewDNSService(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			log.Printf("zone53 %s", version)
			log.Printf("Importing %s records for %s from %s", recordType, domain, zoneFile)

			imp := importer.New(svc, journal)
			report, err := imp.Run(cmd.Context(), importer.Options{
				ZoneFile:     zoneFile,
				Domain:       domain,
				ZoneID:       zoneID,
				Filter:       recordType,
				Strict:       strict,
				Lenient:      cfg.Import.Lenient,
				MaxBatchSize: cfg.Import.MaxBatchSize,
				ResumeFrom:   resumeFrom,
			})
			if err != nil {
				var serr *importer.SubmissionError
				if errors.As(err, &serr) && db != nil {
					last, jerr := db.LastSubmittedBatch(zoneID, domain, recordType)
					if jerr == nil && last >= 0 {
						log.Printf("Journal shows last submitted batch index %d; re-run with --resume-from %d", last, last+1)
					}
				}
				return err
			}

			log.Printf("Done: %d record set(s) in %d batch(es) submitted to zone %s",
				report.RecordSets, report.BatchesSubmitted, zoneID)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	cmd.Flags().StringVarP(&zoneFile, "file", "f", "", "Path to the zone file to import")
	cmd.Flags().StringVarP(&domain, "domain", "d", "", "Domain the zone file describes")
	cmd.Flags().StringVarP(&zoneID, "zone-id", "z", "", "Hosted zone ID to submit records to")
	cmd.Flags().StringVarP(&recordType, "type", "t", model.TypeA, "Record type to import, or ALL")
	cmd.Flags().StringVar(&comment, "comment", "", "Change-batch comment")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unsupported record types instead of skipping them")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Maximum changes per submitted batch")
	cmd.Flags().IntVar(&resumeFrom, "resume-from", 0, "Skip this many leading batches (resume a failed run)")

	cmd.AddCommand(newRunsCmd(&configPath), newVersionCmd())
	return cmd
}

func newRunsCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent import runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return fmt.Errorf("no journal configured, set database.dsn in the config file")
			}
			db, err := database.Open(cfg.Database.DSN)
			if err != nil {
				return fmt.Errorf("failed to open journal database: %w", err)
			}
			defer db.Close()

			runs, err := db.ListRuns(limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%d\t%s\t%s\t%s\t%d batch(es)\t%s\t%s\n",
					r.ID, r.ZoneID, r.Domain, r.RecordType, r.BatchCount, r.Status,
					r.StartedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum runs to list")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the zone53 version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

// loadConfig reads the config file. A missing file at the default path is
// fine; an explicitly set --config must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
