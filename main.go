// Program aisingest cleans vessel transponder log files into a time-ordered,
// per-vessel-filterable set of navigation fixes and optionally persists the
// result to SQLite, a Pebble vessel registry, and JSON/CSV exports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"aisingest/archive"
	"aisingest/config"
	"aisingest/export"
	"aisingest/filter"
	"aisingest/ingest"
	"aisingest/nav"
	"aisingest/pipeline"
	"aisingest/registry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("aisingest", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (optional)")
	vessels := fs.String("vessels", "", "comma-separated vessel identifiers to keep (default: all)")
	vesselFile := fs.String("vessel-file", "", "YAML allow-list file (overridden by -vessels)")
	jsonPath := fs.String("json", "", "write the cleaned fix set as JSON lines")
	csvPath := fs.String("csv", "", "write the cleaned fix set as CSV")
	dbPath := fs.String("db", "", "archive the cleaned fix set into this SQLite database")
	registryDir := fs.String("registry", "", "update the Pebble vessel registry in this directory")
	noRepair := fs.Bool("no-repair", false, "skip the spurious-delimiter repair stage")
	showVariants := fs.Bool("name-variants", false, "log vessels observed under multiple ship-name spellings")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: aisingest [flags] file.log [file.log ...]")
		fs.PrintDefaults()
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Config: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	mergeFlags(cfg, *jsonPath, *csvPath, *dbPath, *registryDir, *noRepair)

	fanout, err := setupLogging(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: %v (continuing console-only)\n", err)
	}
	defer fanout.Close()
	installLogger(fanout)
	cfg.Print()

	allowList, err := resolveVessels(cfg, *vessels, *vesselFile)
	if err != nil {
		log.Printf("Filter: %v", err)
		return 1
	}

	opts := pipeline.Options{Vessels: allowList}
	if cfg.Repair.Disabled {
		opts.Rules = []ingest.RepairRule{}
	}

	res, err := pipeline.Run(paths, opts)
	if err != nil {
		log.Printf("Pipeline: %v", err)
		return 1
	}
	logSummary(res)

	if res.Format == pipeline.FormatLegacy {
		log.Printf("Legacy format input: not yet supported, empty result")
		return 0
	}

	if *showVariants {
		logNameVariants(res.Fixes)
	}
	if err := writeOutputs(cfg, res.Fixes); err != nil {
		log.Printf("Output: %v", err)
		return 1
	}
	return 0
}

// mergeFlags lets command-line output paths override the config file.
func mergeFlags(cfg *config.Config, jsonPath, csvPath, dbPath, registryDir string, noRepair bool) {
	if jsonPath != "" {
		cfg.Export.JSONPath = jsonPath
	}
	if csvPath != "" {
		cfg.Export.CSVPath = csvPath
	}
	if dbPath != "" {
		cfg.Archive.Enabled = true
		cfg.Archive.DBPath = dbPath
	}
	if registryDir != "" {
		cfg.Registry.Enabled = true
		cfg.Registry.Dir = registryDir
	}
	if noRepair {
		cfg.Repair.Disabled = true
	}
}

// resolveVessels picks the effective allow-list: -vessels beats -vessel-file
// beats the config file. An empty result means all vessels pass.
func resolveVessels(cfg *config.Config, flagList, flagFile string) ([]uint32, error) {
	if flagList != "" {
		return filter.ParseVesselList(flagList)
	}
	if flagFile != "" {
		return filter.LoadList(flagFile)
	}
	if len(cfg.Filter.Vessels) > 0 {
		return cfg.Filter.Vessels, nil
	}
	if cfg.Filter.ListFile != "" {
		return filter.LoadList(cfg.Filter.ListFile)
	}
	return nil, nil
}

func logSummary(res *pipeline.Result) {
	a := &res.Audit
	log.Printf("Ingest: %d files, %s lines, %s lexical dups, %s repaired, %s tokenize drops",
		a.FilesRead,
		humanize.Comma(int64(a.LinesRead)),
		humanize.Comma(int64(a.LexicalDuplicates)),
		humanize.Comma(int64(a.LinesRepaired)),
		humanize.Comma(int64(a.TokenizeDrops)))
	log.Printf("Clean: %s semantic dups, %s decode sentinels, %s filtered out, %s timestamp-collapsed",
		humanize.Comma(int64(a.SemanticDuplicates)),
		humanize.Comma(int64(a.Decode.Total())),
		humanize.Comma(int64(a.FilteredOut)),
		humanize.Comma(int64(a.TimestampCollapsed)))
	log.Printf("Result: %s fixes (%s format)", humanize.Comma(int64(len(res.Fixes))), res.Format)
}

func logNameVariants(fixes []nav.Fix) {
	variants := nav.NameVariants(fixes)
	if len(variants) == 0 {
		log.Printf("Name variants: none")
		return
	}
	for _, v := range variants {
		marker := ""
		if v.Suspect {
			marker = " (suspect)"
		}
		log.Printf("Name variants: MMSI %d has %d spellings%s: %q", v.MMSI, len(v.Names), marker, v.Names)
	}
}

func writeOutputs(cfg *config.Config, fixes []nav.Fix) error {
	if cfg.Export.JSONPath != "" {
		if err := export.WriteJSONLines(cfg.Export.JSONPath, fixes); err != nil {
			return err
		}
		log.Printf("Export: wrote %s", cfg.Export.JSONPath)
	}
	if cfg.Export.CSVPath != "" {
		if err := export.WriteCSV(cfg.Export.CSVPath, fixes); err != nil {
			return err
		}
		log.Printf("Export: wrote %s", cfg.Export.CSVPath)
	}
	if cfg.Archive.Enabled {
		w, err := archive.NewWriter(cfg.Archive.DBPath)
		if err != nil {
			return err
		}
		if err := w.Store(fixes); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		log.Printf("Archive: stored %s fixes in %s", humanize.Comma(int64(len(fixes))), cfg.Archive.DBPath)
	}
	if cfg.Registry.Enabled {
		store, err := registry.Open(cfg.Registry.Dir)
		if err != nil {
			return err
		}
		if err := store.Update(fixes); err != nil {
			store.Close()
			return err
		}
		count, err := store.Count()
		if err == nil {
			log.Printf("Registry: %s vessels tracked", humanize.Comma(int64(count)))
		}
		if err := store.Close(); err != nil {
			return err
		}
	}
	return nil
}
