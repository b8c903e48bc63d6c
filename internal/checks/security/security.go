// Package security implements the security check battery. Groups are
// independent: each is a pure function over the shared page (plus its own
// auxiliary probes) appending to the ordered result list, and no group reads
// another group's findings.
package security

import (
	"context"

	"github.com/raysh454/siteaudit/internal/checks"
	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/model"
	"github.com/raysh454/siteaudit/internal/webclient"
)

// Config controls the battery's active behavior.
type Config struct {
	// AllowActiveProbing gates everything beyond the main fetch: crafted
	// payloads (form submission, parameter fuzzing) and path probing.
	// Passive inspection is unaffected. Disable when scanning third-party
	// sites without consent.
	AllowActiveProbing bool

	// MaxForms caps how many discovered forms are actively probed.
	MaxForms int
}

func DefaultConfig() Config {
	return Config{
		AllowActiveProbing: true,
		MaxForms:           3,
	}
}

// Battery runs the security check groups in a fixed declaration order.
type Battery struct {
	cfg    Config
	prober *webclient.Prober
	logger logging.Logger
}

func NewBattery(cfg Config, prober *webclient.Prober, logger logging.Logger) *Battery {
	if cfg.MaxForms <= 0 {
		cfg.MaxForms = DefaultConfig().MaxForms
	}
	return &Battery{
		cfg:    cfg,
		prober: prober,
		logger: logging.OrNop(logger).With(logging.Field{Key: "component", Value: "security"}),
	}
}

// Run executes every group and concatenates their results. The order below
// is an observable contract: consumers may assert on check positions.
func (b *Battery) Run(ctx context.Context, page *checks.Page) []model.CheckResult {
	results := []model.CheckResult{}
	results = append(results, b.accessControl(ctx, page)...)
	results = append(results, b.cryptography(page)...)
	results = append(results, b.injectionPassive(page)...)
	results = append(results, b.injectionActive(ctx, page)...)
	results = append(results, b.insecureDesign(ctx, page)...)
	results = append(results, b.misconfiguration(ctx, page)...)
	results = append(results, b.outdatedComponents(ctx, page)...)
	results = append(results, b.authentication(ctx, page)...)
	results = append(results, b.dataIntegrity(ctx, page)...)
	results = append(results, b.monitoring(ctx, page)...)
	results = append(results, b.ssrfSurface(ctx, page)...)
	return results
}

// pass/warn/fail keep the group code terse. Recommendation is only ever set
// on problem statuses, matching the CheckResult invariant.
func pass(name, description string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusPass, Description: description}
}

func warn(name, description, recommendation string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusWarning, Description: description, Recommendation: recommendation}
}

func fail(name, description, recommendation string) model.CheckResult {
	return model.CheckResult{Name: name, Status: model.StatusFail, Description: description, Recommendation: recommendation}
}
