/*
scheduler.go - Automated infraction sweep

PURPOSE:
  Periodically scans every partner's tagged trip reports and raises an
  infraction for each report that carries an invariant tag but has no
  infraction linked to it yet. Keeps the scorecards current without
  waiting for a reviewer to file each infraction by hand.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - A report is "covered" when an infraction's SourceReportID points
    at it; covered reports are skipped, so the sweep is idempotent
  - Raised infractions default to the lowest severity; reviewers
    upgrade them manually when warranted

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 1 hour)
  - Enabled: Whether the sweep is active (default: true)

USAGE:
  sweep := NewInfractionSweep(store)
  sweep.Start()
  // ... later
  sweep.Stop()

SEE ALSO:
  - handlers.go: CreateInfraction endpoint (manual filing)
  - scoring/ledger.go: consumes the raised infractions
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/fleet-compliance/fleet"
)

// InfractionSweep raises infractions for tagged but unfiled reports.
type InfractionSweep struct {
	Store         fleet.Store
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewInfractionSweep creates a new sweep over the given store.
func NewInfractionSweep(store fleet.Store) *InfractionSweep {
	return &InfractionSweep{
		Store:         store,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweep.
func (is *InfractionSweep) Start() {
	is.mu.Lock()
	defer is.mu.Unlock()

	if !is.Enabled {
		log.Println("[Sweep] Disabled, not starting")
		return
	}

	is.ticker = time.NewTicker(is.CheckInterval)
	is.wg.Add(1)

	go is.run()

	log.Printf("[Sweep] Started with check interval: %v", is.CheckInterval)
}

// Stop stops the sweep.
func (is *InfractionSweep) Stop() {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.ticker != nil {
		is.ticker.Stop()
		close(is.stop)
		is.wg.Wait()
		log.Println("[Sweep] Stopped")
	}
}

func (is *InfractionSweep) run() {
	defer is.wg.Done()

	// Run immediately on start
	is.sweepAll()

	for {
		select {
		case <-is.ticker.C:
			is.sweepAll()
		case <-is.stop:
			return
		}
	}
}

func (is *InfractionSweep) sweepAll() {
	ctx := context.Background()

	partners, err := is.Store.ListPartners(ctx)
	if err != nil {
		log.Printf("[Sweep] Error listing partners: %v", err)
		return
	}

	raisedCount := 0
	for _, p := range partners {
		raised, err := is.SweepPartner(ctx, p.ID)
		if err != nil {
			log.Printf("[Sweep] Error sweeping partner %s: %v", p.ID, err)
			continue
		}
		raisedCount += raised
	}

	if raisedCount > 0 {
		log.Printf("[Sweep] Completed: %d infractions raised", raisedCount)
	}
}

// SweepPartner raises infractions for one partner's uncovered tagged
// reports and returns how many were raised.
func (is *InfractionSweep) SweepPartner(ctx context.Context, partnerID fleet.PartnerID) (int, error) {
	reports, err := is.Store.ListReports(ctx, partnerID)
	if err != nil {
		return 0, err
	}
	infractions, err := is.Store.ListInfractions(ctx, partnerID)
	if err != nil {
		return 0, err
	}

	covered := make(map[string]bool, len(infractions))
	for _, inf := range infractions {
		if inf.SourceReportID != "" {
			covered[inf.SourceReportID] = true
		}
	}

	raised := 0
	for _, rep := range reports {
		if rep.InvariantID == "" || covered[rep.ID] {
			continue
		}
		inf := fleet.Infraction{
			ID:             uuid.NewString(),
			PartnerID:      partnerID,
			Date:           rep.Date,
			DriverID:       rep.DriverID,
			InvariantID:    rep.InvariantID,
			Severity:       fleet.SeverityAlerte,
			Count:          1,
			SourceReportID: rep.ID,
		}
		if err := is.Store.SaveInfraction(ctx, inf); err != nil {
			return raised, err
		}
		raised++
	}
	return raised, nil
}

// RunNow triggers an immediate sweep (for testing/admin).
func (is *InfractionSweep) RunNow() {
	is.sweepAll()
}
