package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/jaspreet-dot-casa/botvm/pkg/config"
	"github.com/jaspreet-dot-casa/botvm/pkg/execx"
)

// Context carries everything a step needs to run.
type Context struct {
	Host   *Host
	Config *config.Config
	Runner execx.Runner
	DryRun bool

	progress ProgressCallback
	stepID   string
	percent  int
}

// Infof emits an informational progress event for the current step.
func (c *Context) Infof(format string, args ...interface{}) {
	c.emit(ProgressEvent{Message: fmt.Sprintf(format, args...)})
}

// Warnf emits a warning progress event for the current step.
func (c *Context) Warnf(format string, args ...interface{}) {
	c.emit(ProgressEvent{Message: fmt.Sprintf(format, args...), IsWarning: true})
}

// Commandf emits an event describing the command about to run.
func (c *Context) Commandf(format string, args ...interface{}) {
	c.emit(ProgressEvent{Command: fmt.Sprintf(format, args...)})
}

func (c *Context) emit(e ProgressEvent) {
	if c.progress == nil {
		return
	}
	e.StepID = c.stepID
	e.Percent = c.percent
	e.Timestamp = time.Now()
	c.progress(e)
}

// Step is one provisioning stage with observable side effects.
type Step interface {
	// ID is a stable machine-readable identifier, e.g. "system".
	ID() string
	// Name is the display name, e.g. "System packages".
	Name() string
	// Run applies the step. A returned error aborts the whole pipeline.
	Run(ctx context.Context, pctx *Context) error
}

// StepResult records the outcome of a single step.
type StepResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Err      string        `json:"error,omitempty"`
	Skipped  bool          `json:"skipped,omitempty"`
}

// FailedStepCancelled is the FailedStep value for runs stopped by context
// cancellation rather than a failing step.
const FailedStepCancelled = "cancelled"

// Result records the outcome of a whole provisioning run.
type Result struct {
	Success    bool          `json:"success"`
	FailedStep string        `json:"failed_step,omitempty"`
	Duration   time.Duration `json:"duration"`
	Steps      []StepResult  `json:"steps"`
}

// Pipeline runs provisioning steps in order, stopping at the first failure.
type Pipeline struct {
	steps []Step
}

// NewPipeline builds the standard pipeline for a config. Step order matches
// the provisioning procedure: system packages, workspace, templates,
// dependencies, service, control scripts, firewall.
func NewPipeline(cfg *config.Config) *Pipeline {
	steps := []Step{
		&SystemStep{},
		&WorkspaceStep{},
		&TemplatesStep{},
		&DependenciesStep{},
		&ServiceStep{},
		&ScriptsStep{},
	}
	if !cfg.SkipFirewall {
		steps = append(steps, &FirewallStep{})
	}
	return &Pipeline{steps: steps}
}

// NewPipelineWithSteps builds a pipeline from explicit steps, for tests and
// partial runs.
func NewPipelineWithSteps(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Steps returns the pipeline's steps in order.
func (p *Pipeline) Steps() []Step {
	return p.steps
}

// Run executes the pipeline. The first failing step stops the run; steps
// after it are recorded as skipped.
func (p *Pipeline) Run(ctx context.Context, pctx *Context, progress ProgressCallback) *Result {
	start := time.Now()
	result := &Result{Steps: make([]StepResult, 0, len(p.steps))}

	pctx.progress = progress
	failed := false

	for i, step := range p.steps {
		if failed || ctx.Err() != nil {
			result.Steps = append(result.Steps, StepResult{
				ID:      step.ID(),
				Name:    step.Name(),
				Skipped: true,
			})
			continue
		}

		pctx.stepID = step.ID()
		pctx.percent = i * 100 / len(p.steps)
		pctx.Infof("%s", step.Name())

		stepStart := time.Now()
		err := step.Run(ctx, pctx)

		sr := StepResult{
			ID:       step.ID(),
			Name:     step.Name(),
			Duration: time.Since(stepStart),
		}
		if err != nil {
			sr.Err = err.Error()
			failed = true
			result.FailedStep = step.ID()
			pctx.emit(ProgressEvent{
				Message: fmt.Sprintf("%s failed: %v", step.Name(), err),
				IsError: true,
			})
		}
		result.Steps = append(result.Steps, sr)
	}

	result.Success = !failed && ctx.Err() == nil
	if !result.Success && result.FailedStep == "" {
		// No step failed, so the run was stopped by context cancellation.
		result.FailedStep = FailedStepCancelled
	}
	result.Duration = time.Since(start)

	if result.Success {
		pctx.stepID = "complete"
		pctx.percent = 100
		pctx.Infof("Provisioning complete")
	}

	return result
}
