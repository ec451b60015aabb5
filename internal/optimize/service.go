package optimize

import (
	"context"
	"time"

	"github.com/tourflow/optimizer/internal/allocate"
	"github.com/tourflow/optimizer/internal/observability"
	"github.com/tourflow/optimizer/internal/platform/logging"
	"github.com/tourflow/optimizer/internal/poi"
	"github.com/tourflow/optimizer/internal/schedule"
	"github.com/tourflow/optimizer/internal/travel"
)

// currentLocationKey is the sentinel origin id used to address "the
// caller's current location" in a travel.Matrix and in live-client
// lookups.
const currentLocationKey = "__current_location__"

// Service wires the filter pipeline, one of the two allocators, and the
// shared day sequencer behind the two request endpoints.
type Service struct {
	DistanceMatrixAPIKey string
	Logger               logging.Logger
	Metrics              *observability.PipelineMetrics
}

// NewService builds a Service. apiKey may be empty, in which case the
// live distance-matrix client is a permanent no-op and every lookup
// falls back to the haversine estimator.
func NewService(apiKey string, logger logging.Logger, metrics *observability.PipelineMetrics) *Service {
	return &Service{DistanceMatrixAPIKey: apiKey, Logger: logging.OrNop(logger), Metrics: metrics}
}

// RunA executes the function-quota pipeline.
func (s *Service) RunA(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := observability.StartStageSpan(ctx, observability.StageAllocate)
	defer span.End()
	resp, err := s.run(ctx, req, "A", false, func(candidates []poi.POI, moods []string, durationDays int, dayStart time.Time) [][]poi.POI {
		return allocate.FunctionQuotaAllocate(candidates, moods, durationDays, dayStart)
	})
	observability.MarkSpanResult(span, err)
	return resp, err
}

// RunB executes the k-means clustering pipeline.
func (s *Service) RunB(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := observability.StartStageSpan(ctx, observability.StageAllocate)
	defer span.End()

	current := poi.Location{Lat: req.CurrentLocation.Lat, Lng: req.CurrentLocation.Lng}
	poisPerDay := 3
	if req.PoisPerDay != nil && *req.PoisPerDay > 0 {
		poisPerDay = *req.PoisPerDay
	}
	resp, err := s.run(ctx, req, "B", true, func(candidates []poi.POI, moods []string, durationDays int, _ time.Time) [][]poi.POI {
		return allocate.ClusterAllocate(candidates, moods, durationDays, poisPerDay, current, true)
	})
	observability.MarkSpanResult(span, err)
	return resp, err
}

type allocatorFunc func(candidates []poi.POI, moods []string, durationDays int, dayStart time.Time) [][]poi.POI

func (s *Service) run(ctx context.Context, req *Request, endpoint string, defaultIncludeMissing bool, allocator allocatorFunc) (resp *Response, err error) {
	defer func() {
		if err != nil {
			s.Metrics.RecordRequest(endpoint, "error")
		} else {
			s.Metrics.RecordRequest(endpoint, "ok")
		}
	}()

	start := resolveStart(req)
	moods := DecodeMoods(req.UserMood)
	threshold := resolveThreshold(req.ECSScoreThreshold)

	candidates := make([]poi.POI, 0, len(req.POIList))
	for _, raw := range req.POIList {
		candidates = append(candidates, raw.ToPOI())
	}
	s.Logger.Info("filtering candidates", "total", len(candidates))
	s.Metrics.ObservePoisIn(endpoint, len(candidates))

	filtered := filterCandidates(candidates, moods, threshold, start, defaultIncludeMissing)
	s.Logger.Info("filter complete", "kept", len(filtered))

	if len(filtered) == 0 {
		return &Response{OptimizedRoute: []DayPlan{}}, nil
	}

	groups := allocator(filtered, moods, req.DurationDays, start)

	provider := s.buildProvider(ctx, req, filtered)
	currentPoint := travel.Point{ID: currentLocationKey, Lat: req.CurrentLocation.Lat, Lng: req.CurrentLocation.Lng, HasLocation: true}

	plans := make([]DayPlan, 0, len(groups))
	scheduled := 0
	for i, dayPois := range groups {
		dayStart := start.AddDate(0, 0, i)
		visits := schedule.SequenceDay(ctx, dayPois, dayStart, currentPoint, provider)
		if len(visits) == 0 {
			s.Logger.Info("day produced no schedulable activities", "day", i+1)
			continue
		}
		scheduled += len(visits)
		plans = append(plans, DayPlan{
			Day:          i + 1,
			DayStartTime: formatTimestamp(dayStart),
			Activities:   toActivities(visits),
		})
	}
	s.Metrics.ObservePoisScheduled(endpoint, scheduled)

	return &Response{OptimizedRoute: plans}, nil
}

func resolveStart(req *Request) time.Time {
	if t, ok := ParseStartDatetime(req.StartDatetime); ok {
		return t
	}
	return time.Now()
}

// buildProvider assembles the per-request travel-time provider: a
// caller-supplied matrix, a live distance-matrix client warmed with one
// batch for the current-location origin, and a haversine fallback.
func (s *Service) buildProvider(ctx context.Context, req *Request, candidates []poi.POI) travel.Provider {
	matrix := travel.Matrix{ByID: req.ETAMatrix, FromCurrent: req.ETAFromCurrent, CurrentKey: currentLocationKey}
	live := travel.NewLiveClient(s.DistanceMatrixAPIKey, req.TravelMode, s.Logger)

	if len(req.ETAFromCurrent) == 0 {
		currentPoint := travel.Point{ID: currentLocationKey, Lat: req.CurrentLocation.Lat, Lng: req.CurrentLocation.Lng, HasLocation: true}
		destinations := make([]travel.Point, 0, len(candidates))
		for _, p := range candidates {
			if p.HasLocation {
				destinations = append(destinations, travel.Point{ID: p.ID, Lat: p.Location.Lat, Lng: p.Location.Lng, HasLocation: true})
			}
		}
		live.WarmBatch(ctx, currentPoint, destinations)
	}

	return routingProvider{
		currentKey: currentLocationKey,
		withLive:   travel.Composite{Matrix: matrix, Live: live},
		matrixOnly: travel.Composite{Matrix: matrix},
	}
}

// routingProvider sends only current-location-origin lookups through the
// live distance-matrix client; POI-to-POI legs resolve via the
// caller-supplied matrix or haversine only, issuing one external batch
// call for current-location distances and always estimating POI-to-POI
// legs.
type routingProvider struct {
	currentKey string
	withLive   travel.Composite
	matrixOnly travel.Composite
}

func (p routingProvider) ETA(ctx context.Context, origin, destination travel.Point) float64 {
	if origin.ID == p.currentKey {
		return p.withLive.ETA(ctx, origin, destination)
	}
	return p.matrixOnly.ETA(ctx, origin, destination)
}
