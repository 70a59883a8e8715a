package payment

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tiendalopez/pos-backend/pkg/enums"
)

// SimulatedGateway is the demo processor: it sleeps to mimic terminal latency
// and approves a configurable fraction of charges. Wired only in cmd/api so
// every other consumer depends on the Gateway interface.
type SimulatedGateway struct {
	successRate float64
	latency     time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedGateway builds the simulator. successRate is clamped to [0, 1].
func NewSimulatedGateway(successRate float64, latency time.Duration) *SimulatedGateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &SimulatedGateway{
		successRate: successRate,
		latency:     latency,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Charge waits out the simulated latency, then rolls for approval.
func (g *SimulatedGateway) Charge(ctx context.Context, method enums.PaymentMethod, _ decimal.Decimal) (Outcome, error) {
	if g.latency > 0 {
		timer := time.NewTimer(g.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()

	if roll < g.successRate {
		return Outcome{
			Success:   true,
			Reference: uuid.NewString(),
		}, nil
	}
	return Outcome{
		Success: false,
		Reason:  "charge declined by " + method.String() + " terminal",
	}, nil
}
