// Package maintenance runs periodic, read-only integrity scans over a
// folder provider's region files. It never repairs or compacts
// anything — proactive defragmentation is explicitly out of scope; this
// only reports invariant violations for the caller to act on.
package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/nickheyer/anvilstore/internal/anvil"
	"github.com/nickheyer/anvilstore/internal/provider"
	"github.com/nickheyer/anvilstore/pkg/logger"
)

// Violation describes one invariant breach found while scanning a slot.
type Violation struct {
	RegionX, RegionZ int32
	LocalX, LocalZ   int
	Detail           string
}

// Report is the result of one complete scan pass.
type Report struct {
	ExecutionID    string
	StartedAt      time.Time
	EndedAt        time.Time
	RegionsScanned int
	Violations     []Violation
}

// Scanner runs cron-scheduled scan passes over a FolderProvider.
type Scanner struct {
	provider   *provider.FolderProvider
	log        *logger.Logger
	cronExpr   string
	cronParser cron.Parser

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	lastReport *Report
}

// New builds a scanner over p. cronExpr follows the standard five-field
// cron format (minute hour dom month dow).
func New(p *provider.FolderProvider, log *logger.Logger, cronExpr string) *Scanner {
	return &Scanner{
		provider:   p,
		log:        log,
		cronExpr:   cronExpr,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}
}

// Start begins the scheduler loop in the background.
func (s *Scanner) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("maintenance: scanner already running")
	}

	schedule, err := s.cronParser.Parse(s.cronExpr)
	if err != nil {
		return fmt.Errorf("maintenance: invalid cron expression %q: %w", s.cronExpr, err)
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.runLoop(schedule)

	s.log.Info("Maintenance scanner started (schedule: %s)", s.cronExpr)
	return nil
}

// Stop signals the scheduler loop to exit and waits for it.
func (s *Scanner) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("Maintenance scanner stopped")
	return nil
}

func (s *Scanner) runLoop(schedule cron.Schedule) {
	defer s.wg.Done()

	next := schedule.Next(time.Now())
	for {
		select {
		case <-time.After(time.Until(next)):
			s.RunOnce(context.Background())
			next = schedule.Next(time.Now())
		case <-s.stopChan:
			return
		}
	}
}

// RunOnce performs a single scan pass immediately, independent of the
// cron schedule, and returns its report.
func (s *Scanner) RunOnce(ctx context.Context) (*Report, error) {
	executionID := uuid.New().String()
	report := &Report{ExecutionID: executionID, StartedAt: time.Now()}

	coords, err := s.provider.ListRegions()
	if err != nil {
		s.log.Error("Scan %s: failed to list regions: %v", executionID, err)
		return nil, err
	}

	s.log.Info("Scan %s: starting (%d region files)", executionID, len(coords))

	for _, c := range coords {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		violations, err := s.scanRegion(c[0], c[1])
		if err != nil {
			s.log.Error("Scan %s: region (%d,%d): %v", executionID, c[0], c[1], err)
			continue
		}
		report.RegionsScanned++
		report.Violations = append(report.Violations, violations...)
	}

	report.EndedAt = time.Now()
	s.log.Info("Scan %s: completed (%d regions, %d violations)", executionID, report.RegionsScanned, len(report.Violations))

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	return report, nil
}

// LastReport returns the most recently completed scan report, if any.
func (s *Scanner) LastReport() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

type claim struct {
	x, z int
}

// scanRegion opens one region and checks the slot/sector invariants
// without ever calling WriteChunk.
func (s *Scanner) scanRegion(regionX, regionZ int32) ([]Violation, error) {
	r, err := s.provider.GetRegion(regionX, regionZ)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var violations []Violation
	occupied := make(map[uint32]claim)

	for lz := 0; lz < anvil.RegionSize; lz++ {
		for lx := 0; lx < anvil.RegionSize; lx++ {
			m := r.Meta(lx, lz)
			if m.SectorCount == 0 {
				if m.StartSector != 0 {
					violations = append(violations, Violation{regionX, regionZ, lx, lz,
						fmt.Sprintf("sector_count=0 but start_sector=%d", m.StartSector)})
				}
				continue
			}
			if m.StartSector < 2 {
				violations = append(violations, Violation{regionX, regionZ, lx, lz,
					fmt.Sprintf("start_sector %d overlaps header", m.StartSector)})
				continue
			}
			for sec := m.StartSector; sec < m.StartSector+uint32(m.SectorCount); sec++ {
				if prev, ok := occupied[sec]; ok {
					violations = append(violations, Violation{regionX, regionZ, lx, lz,
						fmt.Sprintf("sector %d also claimed by slot (%d,%d)", sec, prev.x, prev.z)})
				}
				occupied[sec] = claim{lx, lz}
			}
		}
	}
	return violations, nil
}
