package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"cabbook/internal/domain"
)

// DistanceEstimator produces a distance in kilometers between two locations.
// Estimates are not required to be pure functions of their inputs.
type DistanceEstimator interface {
	Estimate(ctx context.Context, pickup, dropoff domain.Location) (float64, error)
}

// RandomEstimator is the stand-in for a real routing service: a
// pseudo-random whole number of kilometers in [2, 29]. Repeated calls with
// identical locations yield different results.
type RandomEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomEstimator creates an estimator seeded from the clock.
func NewRandomEstimator() *RandomEstimator {
	return &RandomEstimator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Estimate returns a pseudo-random distance in [2, 29] km.
func (e *RandomEstimator) Estimate(ctx context.Context, pickup, dropoff domain.Location) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.rng.Intn(28) + 2), nil
}

// ErrNoCoordinates is returned by the routing client when either location
// has no coordinates to route between.
var ErrNoCoordinates = errors.New("location has no coordinates")

// OSRMEstimator queries an OSRM-compatible routing server for the driving
// distance between two coordinate pairs.
type OSRMEstimator struct {
	endpoint string
	client   *http.Client
}

// NewOSRMEstimator creates a routing client for the given endpoint.
func NewOSRMEstimator(endpoint string, timeout time.Duration) *OSRMEstimator {
	return &OSRMEstimator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Estimate queries /route/v1/driving and returns the route distance in km.
func (e *OSRMEstimator) Estimate(ctx context.Context, pickup, dropoff domain.Location) (float64, error) {
	if pickup.Coordinates == nil || dropoff.Coordinates == nil {
		return 0, ErrNoCoordinates
	}

	url := fmt.Sprintf("%s/route/v1/driving/%.6f,%.6f;%.6f,%.6f?overview=false",
		e.endpoint,
		pickup.Coordinates.Lng, pickup.Coordinates.Lat,
		dropoff.Coordinates.Lng, dropoff.Coordinates.Lat,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out struct {
		Routes []struct {
			Distance float64 `json:"distance"` // meters
		} `json:"routes"`
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	if out.Code != "Ok" || len(out.Routes) == 0 {
		return 0, fmt.Errorf("osrm no route: %v", out.Code)
	}

	return out.Routes[0].Distance / 1000, nil
}
