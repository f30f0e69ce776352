// Command anvilctl is a small operator tool over the region engine:
// inspect a region's slot table, read one chunk's raw payload length,
// or run a maintenance scan immediately. None of this is part of the
// engine itself — it exists only as the ambient entry point every
// daemon or library in this shape gets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/nickheyer/anvilstore/internal/config"
	"github.com/nickheyer/anvilstore/internal/maintenance"
	"github.com/nickheyer/anvilstore/internal/provider"
	"github.com/nickheyer/anvilstore/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "anvilctl: %v\n", err)
		os.Exit(1)
	}

	var log *logger.Logger
	if cfg.Logging.Enabled {
		log = logger.NewWithConfig(&logger.Config{
			Enabled:    true,
			FilePath:   cfg.Logging.FilePath,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAge:     cfg.Logging.MaxAge,
			Compress:   cfg.Logging.Compress,
		})
	} else {
		log = logger.New()
	}
	defer log.Close()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var cmdErr error
	switch args[0] {
	case "inspect":
		cmdErr = runInspect(cfg, log, args[1:])
	case "get":
		cmdErr = runGet(cfg, args[1:])
	case "scan":
		cmdErr = runScan(cfg, log, args[1:])
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fmt.Fprintf(os.Stderr, "anvilctl: %v\n", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: anvilctl [-config dir] <inspect|get|scan> ...")
	fmt.Fprintln(os.Stderr, "  inspect <region-x> <region-z>")
	fmt.Fprintln(os.Stderr, "  get <region-x> <region-z> <local-x> <local-z>")
	fmt.Fprintln(os.Stderr, "  scan")
}

func runInspect(cfg *config.Config, log *logger.Logger, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("inspect: expected <region-x> <region-z>")
	}
	rx, rz, err := parseCoordPair(args[0], args[1])
	if err != nil {
		return err
	}

	p, err := provider.NewFolderProvider(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	region, err := p.GetRegion(rx, rz)
	if err != nil {
		return err
	}
	defer region.Close()

	for _, coord := range region.ListChunks() {
		m := region.Meta(coord[0], coord[1])
		fmt.Printf("(%d,%d) start_sector=%d sector_count=%d last_modified=%d\n",
			coord[0], coord[1], m.StartSector, m.SectorCount, m.LastModified)
	}
	return nil
}

func runGet(cfg *config.Config, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("get: expected <region-x> <region-z> <local-x> <local-z>")
	}
	rx, rz, err := parseCoordPair(args[0], args[1])
	if err != nil {
		return err
	}
	lx, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("get: invalid local-x: %w", err)
	}
	lz, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("get: invalid local-z: %w", err)
	}

	p, err := provider.NewFolderProvider(cfg.Storage.DataDir)
	if err != nil {
		return err
	}
	region, err := p.GetRegion(rx, rz)
	if err != nil {
		return err
	}
	defer region.Close()

	payload, err := region.ReadChunk(lx, lz)
	if err != nil {
		return err
	}
	fmt.Printf("chunk (%d,%d) in region (%d,%d): %d decompressed bytes\n", lx, lz, rx, rz, len(payload))
	return nil
}

func runScan(cfg *config.Config, log *logger.Logger, args []string) error {
	p, err := provider.NewFolderProvider(cfg.Storage.DataDir)
	if err != nil {
		return err
	}

	cronExpr := cfg.Maintenance.CronExpr
	if cronExpr == "" {
		cronExpr = "0 */6 * * *"
	}
	scanner := maintenance.New(p, log, cronExpr)

	report, err := scanner.RunOnce(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("scan %s: %d regions scanned, %d violations\n",
		report.ExecutionID, report.RegionsScanned, len(report.Violations))
	for _, v := range report.Violations {
		fmt.Printf("  region(%d,%d) slot(%d,%d): %s\n", v.RegionX, v.RegionZ, v.LocalX, v.LocalZ, v.Detail)
	}
	return nil
}

func parseCoordPair(a, b string) (int32, int32, error) {
	x, err := strconv.ParseInt(a, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid region-x: %w", err)
	}
	z, err := strconv.ParseInt(b, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid region-z: %w", err)
	}
	return int32(x), int32(z), nil
}
