package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// ModelName tags a prediction model. Targets and indicators are registered
// under a tag at startup instead of being resolved by class name at call
// time.
type ModelName string

// Registered models.
const (
	ModelLateSubmission ModelName = "late_assign_submission"
)

// Target computes the supervised-learning label for samples of a model and
// gates which activities and samples may contribute to the dataset.
type Target interface {
	// IsValidActivity decides whether the activity can contribute any
	// samples at all. On rejection the second value is a short
	// machine-readable reason.
	IsValidActivity(activity models.Activity, forTraining bool) (bool, string)
	// IsValidSample applies per-sample enrollment and staleness checks.
	IsValidSample(ctx context.Context, bundle models.SampleBundle, forTraining bool) (bool, error)
	// CalculateLabel returns the label for a sample, or nil when the sample
	// must be excluded from the labeled dataset.
	CalculateLabel(ctx context.Context, bundle models.SampleBundle, activity models.Activity) (*int, error)
}

// Indicator computes one discrete feature value per sample.
type Indicator interface {
	// RequiredSampleData names the bundle keys the indicator reads.
	RequiredSampleData() []string
	// Calculate returns the feature value, or nil when there is no signal.
	Calculate(ctx context.Context, bundle models.SampleBundle) (*int, error)
}

// Registry holds the target and indicators of each model. It is populated
// once during startup and read-only afterwards.
type Registry struct {
	targets    map[ModelName]Target
	indicators map[ModelName][]Indicator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		targets:    make(map[ModelName]Target),
		indicators: make(map[ModelName][]Indicator),
	}
}

// RegisterTarget binds a target to a model name. Registering the same name
// twice is a wiring mistake and fails.
func (r *Registry) RegisterTarget(name ModelName, target Target) error {
	if _, exists := r.targets[name]; exists {
		return fmt.Errorf("target already registered for model %q", name)
	}
	r.targets[name] = target
	return nil
}

// RegisterIndicator appends an indicator to a model.
func (r *Registry) RegisterIndicator(name ModelName, indicator Indicator) {
	r.indicators[name] = append(r.indicators[name], indicator)
}

// Target returns the target registered under the model name.
func (r *Registry) Target(name ModelName) (Target, bool) {
	target, ok := r.targets[name]
	return target, ok
}

// Indicators returns the indicators registered under the model name.
func (r *Registry) Indicators(name ModelName) []Indicator {
	return r.indicators[name]
}

// Models lists the registered model names in stable order.
func (r *Registry) Models() []ModelName {
	names := make([]ModelName, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
