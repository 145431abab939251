// Package envelope resolves the budget envelope of projects and reports
// how approved and pending transfers change it.
package envelope

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/budgetflow/backend/internal/hierarchy"
	"github.com/budgetflow/backend/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrAggregation wraps failures while reading the data for a resolution.
// The result is unknown, not zero, and the request can be retried.
var ErrAggregation = errors.New("the envelope could not be calculated, please try again")

// DefaultControllableRoots are the account roots for Man Power, Non Man Power
// and Capex.
var DefaultControllableRoots = []string{"TC11100T", "TC11200T", "TC13000T"}

var resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "envelope_resolutions_total",
		Help: "How many envelope resolutions were computed, partitioned by outcome.",
	},
	[]string{"outcome"},
)

// Metrics returns the collectors of this package.
func Metrics() []prometheus.Collector {
	return []prometheus.Collector{resolutions}
}

// Totals are the aggregated amounts of one bucket. TotalFrom is negative,
// TotalTo positive and Total their sum.
type Totals struct {
	Total     decimal.Decimal `json:"total"`
	TotalFrom decimal.Decimal `json:"total_from"`
	TotalTo   decimal.Decimal `json:"total_to"`
}

func (t *Totals) add(l Line) {
	t.TotalFrom = t.TotalFrom.Sub(l.FromAmount)
	t.TotalTo = t.TotalTo.Add(l.ToAmount)
	t.Total = t.TotalFrom.Add(t.TotalTo)
}

// ProjectTotals splits the activity of a project by workflow status.
type ProjectTotals struct {
	Approved  Totals `json:"approved"`
	Submitted Totals `json:"submitted"`
}

// Result is the resolved envelope of a project.
type Result struct {
	ProjectCode       string                   `json:"project_code"`
	EnvelopeProject   string                   `json:"envelope_project"`
	InitialEnvelope   decimal.Decimal          `json:"initial_envelope"`
	CurrentEnvelope   decimal.Decimal          `json:"current_envelope"`
	EstimatedEnvelope decimal.Decimal          `json:"estimated_envelope"`
	ProjectTotals     map[string]ProjectTotals `json:"project_totals"`
}

// Options control a resolution.
type Options struct {
	Filter

	// ControllableOnly restricts aggregation to the controllable accounts.
	ControllableOnly bool
}

// Engine resolves envelopes. It keeps no state between calls, every
// resolution reads the current data from the store.
type Engine struct {
	store             Store
	controllableRoots []string
}

// NewEngine returns an engine. With no roots, DefaultControllableRoots are used.
func NewEngine(store Store, controllableRoots []string) *Engine {
	if len(controllableRoots) == 0 {
		controllableRoots = DefaultControllableRoots
	}

	return &Engine{
		store:             store,
		controllableRoots: controllableRoots,
	}
}

// ControllableAccounts returns the controllable roots, their descendants
// and all legacy accounts mapped onto any of them.
func (e *Engine) ControllableAccounts(ctx context.Context) ([]string, error) {
	tree, err := e.store.AccountTree(ctx)
	if err != nil {
		return nil, err
	}

	mappings, err := e.store.AccountMappings(ctx)
	if err != nil {
		return nil, err
	}

	var accounts []string
	for _, root := range e.controllableRoots {
		accounts = append(accounts, root)
		accounts = append(accounts, tree.Descendants(root)...)
	}

	return ExpandViaMapping(accounts, mappings), nil
}

// FindEnvelope returns the nearest project, starting with code itself, that
// has an envelope. ok is false when no project on the chain has one.
func (e *Engine) FindEnvelope(ctx context.Context, tree *hierarchy.Tree, code string) (project string, amount decimal.Decimal, ok bool, err error) {
	envelopes, err := e.store.Envelopes(ctx)
	if err != nil {
		return "", decimal.Zero, false, err
	}

	return hierarchy.AncestorChainUntil(tree, code, func(c string) (decimal.Decimal, bool) {
		amount, ok := envelopes[c]
		return amount, ok
	})
}

// Scope returns the projects whose activity counts against the envelope
// of project: its leaf descendants, or the project itself if it has no
// children. The result is never nil. It is empty when a cycle hides every
// leaf below project.
func Scope(tree *hierarchy.Tree, project string) []string {
	leaves := tree.LeafDescendants(project)
	if len(leaves) == 0 && tree.IsLeaf(project) {
		return []string{project}
	}
	return leaves
}

// ActiveProjects returns the projects of codes with at least one transfer
// line matching the filter.
func (e *Engine) ActiveProjects(ctx context.Context, codes []string, filter Filter) ([]string, error) {
	return e.store.ActiveProjects(ctx, codes, filter)
}

// Resolve computes the envelope for project. A nil result without error
// means that no envelope is configured for the project or any ancestor.
//
// A cycle in the project hierarchy is returned as hierarchy.ErrCycle,
// failures of the store as ErrAggregation.
func (e *Engine) Resolve(ctx context.Context, project string, opts Options) (*Result, error) {
	result, err := e.resolve(ctx, project, opts)
	switch {
	case err != nil:
		resolutions.WithLabelValues("error").Inc()
	case result == nil:
		resolutions.WithLabelValues("unconfigured").Inc()
	default:
		resolutions.WithLabelValues("resolved").Inc()
	}

	return result, err
}

func (e *Engine) resolve(ctx context.Context, project string, opts Options) (*Result, error) {
	tree, err := e.store.ProjectTree(ctx)
	if err != nil {
		return nil, e.aggregationError(project, err)
	}

	envelopeProject, initial, ok, err := e.FindEnvelope(ctx, tree, project)
	if errors.Is(err, hierarchy.ErrCycle) {
		log.Error().Str("project", project).Err(err).Msg("project hierarchy is inconsistent")
		return nil, err
	}
	if err != nil {
		return nil, e.aggregationError(project, err)
	}
	if !ok {
		return nil, nil
	}

	scope := Scope(tree, envelopeProject)
	if len(scope) == 0 {
		log.Warn().Str("project", project).Str("envelope-project", envelopeProject).Msg("envelope project has no leaf projects")
		return &Result{
			ProjectCode:       project,
			EnvelopeProject:   envelopeProject,
			InitialEnvelope:   initial,
			CurrentEnvelope:   initial,
			EstimatedEnvelope: initial,
			ProjectTotals:     map[string]ProjectTotals{},
		}, nil
	}

	active, err := e.store.ActiveProjects(ctx, scope, opts.Filter)
	if err != nil {
		return nil, e.aggregationError(project, err)
	}

	var accounts []string
	if opts.ControllableOnly {
		accounts, err = e.ControllableAccounts(ctx)
		if err != nil {
			return nil, e.aggregationError(project, err)
		}
	}

	lines, err := e.store.Lines(ctx, active, accounts, opts.Filter)
	if err != nil {
		return nil, e.aggregationError(project, err)
	}

	totals := aggregate(active, lines)

	result := &Result{
		ProjectCode:       project,
		EnvelopeProject:   envelopeProject,
		InitialEnvelope:   initial,
		CurrentEnvelope:   initial,
		EstimatedEnvelope: initial,
		ProjectTotals:     totals,
	}

	for _, t := range totals {
		result.CurrentEnvelope = result.CurrentEnvelope.Add(t.Approved.Total)
		result.EstimatedEnvelope = result.EstimatedEnvelope.Add(t.Approved.Total).Add(t.Submitted.Total)
	}

	return result, nil
}

func (e *Engine) aggregationError(project string, err error) error {
	log.Error().Str("project", project).Err(err).Msg("envelope aggregation failed")
	return fmt.Errorf("%w: %w", ErrAggregation, err)
}

// aggregate sums the lines per project. Every project in active gets an
// entry, even without matching lines.
func aggregate(active []string, lines []Line) map[string]ProjectTotals {
	totals := make(map[string]ProjectTotals, len(active))
	for _, p := range active {
		totals[p] = ProjectTotals{}
	}

	for _, l := range lines {
		t, ok := totals[l.ProjectCode]
		if !ok {
			continue
		}

		switch l.Status {
		case models.WorkflowApproved:
			t.Approved.add(l)
		case models.WorkflowInProgress:
			t.Submitted.add(l)
		default:
			continue
		}
		totals[l.ProjectCode] = t
	}

	return totals
}

// EnvelopeProjects returns the sorted codes of projects that have an
// envelope. With roots, only the roots and their descendants are considered.
func (e *Engine) EnvelopeProjects(ctx context.Context, roots []string) ([]string, error) {
	envelopes, err := e.store.Envelopes(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []string
	if len(roots) == 0 {
		for code := range envelopes {
			candidates = append(candidates, code)
		}
	} else {
		tree, err := e.store.ProjectTree(ctx)
		if err != nil {
			return nil, err
		}

		for _, root := range roots {
			candidates = append(candidates, root)
			candidates = append(candidates, tree.Descendants(root)...)
		}
	}

	seen := make(map[string]bool)
	codes := []string{}
	for _, c := range candidates {
		if _, ok := envelopes[c]; ok && !seen[c] {
			seen[c] = true
			codes = append(codes, c)
		}
	}

	sort.Strings(codes)
	return codes, nil
}
