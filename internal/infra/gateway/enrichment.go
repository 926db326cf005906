package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/resonancehq/archetype-api/client"
	"github.com/resonancehq/archetype-api/internal/config"
	"github.com/resonancehq/archetype-api/internal/domain"
	"github.com/resonancehq/archetype-api/internal/usecase"
)

var tracer = otel.Tracer("enrichment")

// EnrichmentGateway drives the external automation job: launch, poll to a
// terminal status or the wall-clock deadline, locate the run's result
// data, and match a candidate against the requested profile URL.
//
// Every failure mode returns (nil, nil): missing credentials, launch
// failure, timeout, and no-match all mean "proceed without enrichment",
// never an error. Only ctx plumbing can make it return early, and even
// then the outcome is nil. An abandoned run is not cancelled remotely; it
// is simply ignored past the deadline.
type EnrichmentGateway struct {
	client *client.Client
	conf   config.Enrichment
}

func NewEnrichmentGateway(cl *client.Client, conf config.Enrichment) *EnrichmentGateway {
	return &EnrichmentGateway{
		client: cl,
		conf:   conf,
	}
}

type candidate struct {
	URL            string `json:"url"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	ProfilePicture string `json:"profilePicture"`
}

func (g *EnrichmentGateway) Enrich(ctx context.Context, profileURL string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Enrichment.Gateway.Enrich")
	defer span.End()

	if !g.client.HasCredentials() {
		slog.Debug("enrichment unavailable: no credentials configured")
		return nil, nil
	}

	tmpl, err := g.client.FetchTemplate(ctx, g.conf.JobID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "template fetch failed"))
		slog.Warn("enrichment template fetch failed", "error", err)
		return nil, nil
	}

	launch := *tmpl
	input := make(map[string]any, len(tmpl.Input)+2)
	for k, v := range tmpl.Input {
		input[k] = v
	}
	input["profileUrl"] = profileURL
	input["maxResults"] = 1
	launch.Input = input

	run, err := g.client.Launch(ctx, g.conf.JobID, launch)
	if err != nil {
		span.RecordError(errors.Wrap(err, "launch failed"))
		slog.Warn("enrichment launch failed", "job", g.conf.JobID, "error", err)
		return nil, nil
	}

	status, ok := g.await(ctx, run.ContainerID)
	if !ok {
		return nil, nil
	}
	if status.ExitCode != 0 {
		slog.Warn("enrichment run finished with non-zero exit", "container", run.ContainerID, "exit", status.ExitCode)
		return nil, nil
	}

	// Results must come from this run's container log, never the
	// job-level aggregate: a concurrent run of the same job definition
	// would cross-contaminate it.
	logText, err := g.client.ContainerLog(ctx, run.ContainerID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "container log fetch failed"))
		return nil, nil
	}

	location, ok := g.locate(logText, *run, tmpl.StorageBase)
	if !ok {
		slog.Warn("no result location in container log", "container", run.ContainerID)
		return nil, nil
	}

	var candidates []candidate
	if err := g.client.FetchResult(ctx, location, &candidates); err != nil {
		span.RecordError(errors.Wrap(err, "result fetch failed"))
		return nil, nil
	}

	want := domain.NormalizeProfileURL(profileURL)
	for _, c := range candidates {
		if domain.NormalizeProfileURL(c.URL) == want {
			return &domain.Profile{
				FirstName:  c.FirstName,
				LastName:   c.LastName,
				Company:    c.CompanyName,
				Title:      c.JobTitle,
				ImageURL:   c.ProfilePicture,
				ProfileURL: c.URL,
			}, nil
		}
	}

	slog.Info("enrichment produced no matching candidate", "candidates", len(candidates))
	return nil, nil
}

// await polls the container until a terminal status or the deadline.
// Poll transport errors are treated as non-terminal; the deadline bounds
// them too.
func (g *EnrichmentGateway) await(ctx context.Context, containerID string) (*client.RunStatus, bool) {
	deadline := time.Now().Add(g.conf.Deadline)

	for {
		status, err := g.client.Poll(ctx, containerID)
		if err == nil {
			switch status.Status {
			case client.StatusSuccess, client.StatusFinished:
				return status, true
			case client.StatusError, client.StatusLaunchError:
				slog.Warn("enrichment run failed", "container", containerID, "status", status.Status)
				return nil, false
			}
		}

		if time.Now().After(deadline) {
			slog.Warn("abandoning enrichment run past deadline", "container", containerID)
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(g.conf.PollInterval):
		}
	}
}

func (g *EnrichmentGateway) locate(logText string, run client.Run, storageBase string) (string, bool) {
	strategies := []locationStrategy{
		logPatternStrategy{re: datasetURLPattern},
		reconstructStrategy{storageBase: storageBase},
	}

	for _, s := range strategies {
		if loc, ok := s.Try(logText, run); ok {
			return loc, true
		}
	}
	return "", false
}

var _ usecase.EnrichmentGateway = (*EnrichmentGateway)(nil)
