package cmd

import (
	"fmt"
	"log/slog"

	"courieragent/internal/adapters/in/http"
	"courieragent/internal/adapters/out/backendapi"
	"courieragent/internal/adapters/out/gpsd"
	"courieragent/internal/adapters/out/memcache"
	"courieragent/internal/connectivity"
	"courieragent/internal/core/application/usecases/commands"
	"courieragent/internal/core/application/usecases/queries"
	"courieragent/internal/telemetry"
)

// StaticSession is the authenticated identity the agent runs under. The
// token and courier binding come from configuration and never change for the
// lifetime of the process.
type StaticSession struct {
	token     string
	courierID string
}

func (s StaticSession) Token() string     { return s.token }
func (s StaticSession) CourierID() string { return s.courierID }

// CompositionRoot wires the adapters and use case handlers together.
type CompositionRoot struct {
	config  Config
	logger  *slog.Logger
	cache   *memcache.AssignmentCache
	backend *backendapi.Client
	source  *gpsd.Source
	monitor *connectivity.Monitor
	agent   *telemetry.Agent
}

// NewCompositionRoot builds the object graph from the configuration.
func NewCompositionRoot(config Config, logger *slog.Logger) (*CompositionRoot, error) {
	session := StaticSession{token: config.BackendToken, courierID: config.CourierID}

	backend, err := backendapi.NewClient(config.BackendBaseURL, session)
	if err != nil {
		return nil, fmt.Errorf("backend client: %w", err)
	}

	source, err := gpsd.NewSource(config.GpsdAddress, logger)
	if err != nil {
		return nil, fmt.Errorf("position source: %w", err)
	}

	monitor := connectivity.NewMonitor(logger,
		connectivity.WithSchedule(config.ConnectivitySchedule))

	agent := telemetry.NewAgent(source, backend, monitor, logger,
		telemetry.WithPollInterval(config.PollInterval),
		telemetry.WithFixTimeout(config.FixTimeout),
	)

	return &CompositionRoot{
		config:  config,
		logger:  logger,
		cache:   memcache.NewAssignmentCache(),
		backend: backend,
		source:  source,
		monitor: monitor,
		agent:   agent,
	}, nil
}

// Monitor returns the connectivity monitor for lifecycle control.
func (c *CompositionRoot) Monitor() *connectivity.Monitor {
	return c.monitor
}

// Agent returns the telemetry agent for lifecycle control.
func (c *CompositionRoot) Agent() *telemetry.Agent {
	return c.agent
}

func (c *CompositionRoot) CreateLoadAssignmentCommandHandler() commands.LoadAssignmentCommandHandler {
	return commands.NewLoadAssignmentCommandHandler(c.backend, c.cache, c.agent)
}

func (c *CompositionRoot) CreateRequestTransitionCommandHandler() *commands.RequestTransitionCommandHandler {
	return commands.NewRequestTransitionCommandHandler(c.backend, c.cache, c.agent, c.source)
}

func (c *CompositionRoot) CreateGetMyAssignmentsQueryHandler() queries.GetMyAssignmentsQueryHandler {
	return queries.NewGetMyAssignmentsQueryHandler(c.backend, c.cache)
}

func (c *CompositionRoot) CreateGetTrackingSessionQueryHandler() queries.GetTrackingSessionQueryHandler {
	return queries.NewGetTrackingSessionQueryHandler(c.agent, c.monitor)
}

// CreateServer assembles the control API server over the use case handlers.
func (c *CompositionRoot) CreateServer() *http.Server {
	return http.NewServer(
		c.CreateLoadAssignmentCommandHandler(),
		c.CreateRequestTransitionCommandHandler(),
		c.CreateGetMyAssignmentsQueryHandler(),
		c.CreateGetTrackingSessionQueryHandler(),
		c.cache,
		c.monitor,
		c.logger,
	)
}
