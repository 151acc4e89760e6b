package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lead-insights-service/internal/model"
	"lead-insights-service/internal/repository"
	"lead-insights-service/internal/stats"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// LeadService wires business logic for leads, dashboards and clients.
type LeadService interface {
	BuildLead(req model.LeadRequest) (model.Lead, error)
	ProcessLead(ctx context.Context, lead model.Lead) (model.LeadResult, error)
	ListLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error)
	GetDashboard(ctx context.Context, filter model.LeadFilter) (model.DashboardResponse, error)
	ExportLeads(ctx context.Context, filter model.LeadFilter, w io.Writer) error
	ListClients(ctx context.Context) ([]model.Client, error)
	GenerateClientLink(ctx context.Context, clientID int64) (model.ClientLink, error)
}

type leadService struct {
	repo            repository.LeadRepository
	worker          BatchLeadWorker
	validate        *validator.Validate
	flights         *flightTracker
	log             zerolog.Logger
	now             func() time.Time
	futureTolerance time.Duration
	statsOpts       stats.Options
	baseURL         string
}

// NewLeadService constructs a leadService.
func NewLeadService(repo repository.LeadRepository, worker BatchLeadWorker, log zerolog.Logger, futureTolerance time.Duration, statsOpts stats.Options, baseURL string) LeadService {
	return &leadService{
		repo:            repo,
		worker:          worker,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		flights:         newFlightTracker(),
		log:             log,
		now:             time.Now,
		futureTolerance: futureTolerance,
		statsOpts:       statsOpts,
		baseURL:         baseURL,
	}
}

// BuildLead validates and constructs a Lead from an incoming request.
func (s *leadService) BuildLead(req model.LeadRequest) (model.Lead, error) {
	if err := s.validate.Struct(req); err != nil {
		return model.Lead{}, &ValidationError{Message: requestErrorMessage(err)}
	}

	ts := time.Unix(req.Timestamp, 0).UTC()
	if s.futureTolerance > 0 && ts.After(s.now().Add(s.futureTolerance)) {
		return model.Lead{}, &ValidationError{Message: "timestamp cannot be in the future"}
	}

	var browser model.Browser
	if len(req.Browser) > 0 {
		// UnmarshalJSON tolerates both wire shapes and never fails.
		_ = browser.UnmarshalJSON(req.Browser)
	}

	lead := model.Lead{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		ClientID:  *req.ClientID,
		Source:    req.Source,
		Campaign:  req.Campaign,
		AdSet:     req.AdSet,
		Ad:        req.Ad,
		Keyword:   req.Keyword,
		Device:    req.Device,
		Browser:   browser,
		Location:  req.Location,
		CreatedAt: ts,
	}
	return lead, nil
}

// ProcessLead hands a lead to the batch worker for asynchronous insert.
func (s *leadService) ProcessLead(ctx context.Context, lead model.Lead) (model.LeadResult, error) {
	s.worker.Enqueue(lead)
	return model.LeadResult{ID: lead.ID, Status: "accepted"}, nil
}

// ListLeads validates the filter and fetches the matching leads.
func (s *leadService) ListLeads(ctx context.Context, filter model.LeadFilter) ([]model.Lead, error) {
	filter, err := s.prepareFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repo.FetchLeads(ctx, filter)
}

// GetDashboard fetches the current and previous period record sets and
// computes the statistics snapshot. A fetch failure never propagates:
// the response degrades to a zero snapshot with a notice, and the error
// is logged. Rapid repeat requests for the same client follow a
// latest-wins discipline: a newer request cancels and supersedes the
// one in flight.
func (s *leadService) GetDashboard(ctx context.Context, filter model.LeadFilter) (model.DashboardResponse, error) {
	filter, err := s.prepareFilter(filter)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	resp := model.DashboardResponse{
		Meta: model.DashboardMeta{
			Period: model.Period{
				Start: filter.From.Format(time.RFC3339),
				End:   filter.To.Format(time.RFC3339),
			},
		},
		Stats: model.EmptyDashboardStats(),
	}

	key := dashboardKey(filter.ClientID)
	fctx, gen := s.flights.begin(ctx, key)
	defer s.flights.end(key, gen)

	current, err := s.repo.FetchLeads(fctx, filter)
	if err != nil {
		return s.degraded(resp, key, gen, err)
	}

	prevFilter := filter
	prevFilter.From, prevFilter.To = stats.PreviousPeriod(filter.From, filter.To)
	previous, err := s.repo.FetchLeads(fctx, prevFilter)
	if err != nil {
		return s.degraded(resp, key, gen, err)
	}

	if !s.flights.latest(key, gen) {
		resp.Meta.Notice = "superseded by a newer request"
		return resp, nil
	}

	resp.Stats = stats.Compute(current, previous, filter.From, filter.To, s.statsOpts)
	return resp, nil
}

// degraded builds the zero-snapshot response for a failed fetch,
// distinguishing supersession (cancelled by a newer request) from a
// real store error.
func (s *leadService) degraded(resp model.DashboardResponse, key string, gen uint64, err error) (model.DashboardResponse, error) {
	if errors.Is(err, context.Canceled) && !s.flights.latest(key, gen) {
		resp.Meta.Notice = "superseded by a newer request"
		return resp, nil
	}
	s.log.Error().Err(err).Str("key", key).Msg("dashboard fetch failed")
	resp.Meta.Notice = "could not load leads, showing empty dashboard"
	return resp, nil
}

// ListClients returns all clients.
func (s *leadService) ListClients(ctx context.Context) ([]model.Client, error) {
	return s.repo.ListClients(ctx)
}

// GenerateClientLink issues a shareable read-only dashboard link for an
// existing client.
func (s *leadService) GenerateClientLink(ctx context.Context, clientID int64) (model.ClientLink, error) {
	if _, err := s.repo.GetClient(ctx, clientID); err != nil {
		return model.ClientLink{}, err
	}
	token := uuid.NewString()
	return model.ClientLink{
		ClientID: clientID,
		Token:    token,
		URL:      fmt.Sprintf("%s/client-view?token=%s&client_id=%d", s.baseURL, token, clientID),
	}, nil
}

// prepareFilter applies range defaults and rejects inverted ranges.
func (s *leadService) prepareFilter(filter model.LeadFilter) (model.LeadFilter, error) {
	filter = filter.WithDefaults(s.now())
	if filter.From.After(filter.To) {
		return model.LeadFilter{}, &ValidationError{Message: "from must be before to"}
	}
	return filter, nil
}

// dashboardKey scopes the latest-wins discipline per client view. The
// zero id is a real client and keys separately from "all clients".
func dashboardKey(clientID *int64) string {
	if clientID == nil {
		return "all"
	}
	return fmt.Sprintf("client:%d", *clientID)
}

// requestErrorMessage flattens the first validator failure into a
// plain "field is required" message.
func requestErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		switch fe.Tag() {
		case "required":
			return fieldName(fe.Field()) + " is required"
		default:
			return fieldName(fe.Field()) + " is invalid"
		}
	}
	return "invalid payload"
}

func fieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Phone":
		return "phone"
	case "ClientID":
		return "client_id"
	case "Source":
		return "source"
	case "Timestamp":
		return "timestamp"
	default:
		return structField
	}
}
