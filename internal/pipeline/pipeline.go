// Package pipeline provides the generation orchestrator: it resolves input
// files, runs extraction and normalization, assembles the prompt, invokes
// the completion service, and persists the artifact.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/sales-assistant/internal/catalog"
	"github.com/jonathan/sales-assistant/internal/config"
	"github.com/jonathan/sales-assistant/internal/document"
	"github.com/jonathan/sales-assistant/internal/extract"
	"github.com/jonathan/sales-assistant/internal/llm"
	"github.com/jonathan/sales-assistant/internal/normalize"
	"github.com/jonathan/sales-assistant/internal/observability"
	"github.com/jonathan/sales-assistant/internal/prompt"
)

// State names the orchestrator's position in the request lifecycle. A
// request moves forward through the states in order; Failed is reachable
// from every non-terminal one.
type State string

const (
	StateResolving  State = "resolving"
	StateExtracting State = "extracting"
	StatePrompting  State = "prompting"
	StateCompleting State = "completing"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// StageError wraps a failure with the state it occurred in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Request is one validated generation request from the caller.
type Request struct {
	Mode    prompt.Mode
	Inputs  map[prompt.Role]string
	Options prompt.Options
}

// Artifact is the outcome of a successful run. It is created once and
// never mutated or deleted by the system.
type Artifact struct {
	Mode        prompt.Mode
	OutputPath  string
	GeneratedAt time.Time
	Prompt      string
	RawResponse string
}

// Orchestrator ties the components together. It is stateless between runs;
// every request re-scans and re-extracts.
type Orchestrator struct {
	cfg     config.Config
	client  llm.Client
	index   *catalog.Index
	norm    *normalize.Normalizer
	printer *observability.Printer
	retry   llm.RetryPolicy
	timeout time.Duration
}

// New builds an Orchestrator from the process configuration and a
// completion client.
func New(cfg config.Config, client llm.Client, printer *observability.Printer) *Orchestrator {
	retry := llm.DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return &Orchestrator{
		cfg:     cfg,
		client:  client,
		index:   catalog.NewIndex(cfg.DataDir),
		norm:    normalize.New(cfg.ExtractedDataDir()),
		printer: printer,
		retry:   retry,
		timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
	}
}

// Run executes the request to completion or failure. There is no partial
// checkpoint: a failed request is re-issued from the start.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Artifact, error) {
	resolved, err := o.resolve(req)
	if err != nil {
		return nil, &StageError{Stage: StateResolving, Err: err}
	}

	docs, err := o.extractAll(req.Mode, resolved)
	if err != nil {
		return nil, &StageError{Stage: StateExtracting, Err: err}
	}

	spec, err := prompt.Build(req.Mode, docs, req.Options)
	if err != nil {
		return nil, &StageError{Stage: StatePrompting, Err: err}
	}

	response, err := o.complete(ctx, spec)
	if err != nil {
		return nil, &StageError{Stage: StateCompleting, Err: err}
	}

	artifact, err := o.persist(req, docs, spec, response)
	if err != nil {
		return nil, &StageError{Stage: StatePersisting, Err: err}
	}
	return artifact, nil
}

// resolve maps every declared role to a path, consulting the discovery
// index for roles without an explicit one. Unresolved required roles fail
// the request here, before any extraction. A discovery failure for an
// optional role drops the role with a warning, same as a broken optional
// input later on.
func (o *Orchestrator) resolve(req Request) (map[prompt.Role]string, error) {
	if !req.Mode.Valid() {
		return nil, &prompt.AssemblyError{Message: "unknown mode " + string(req.Mode)}
	}
	if err := req.Options.Validate(); err != nil {
		return nil, err
	}

	required := make(map[prompt.Role]bool)
	for _, role := range req.Mode.RequiredRoles() {
		required[role] = true
	}

	resolved := make(map[prompt.Role]string)
	roles := append(req.Mode.RequiredRoles(), req.Mode.OptionalRoles()...)
	for _, role := range roles {
		if path := req.Inputs[role]; path != "" {
			resolved[role] = path
			continue
		}
		category, ok := role.Category()
		if !ok {
			continue // explicit-only role
		}
		latest, err := o.index.Latest(category)
		if err != nil {
			if required[role] {
				return nil, err
			}
			o.printer.Warnf("skipping optional %s input: %v", role, err)
			continue
		}
		if latest != nil {
			resolved[role] = latest.Path
			o.printer.Stepf("resolved %s input: %s", role, latest.Path)
		}
	}

	for _, role := range req.Mode.RequiredRoles() {
		if resolved[role] == "" {
			return nil, &prompt.MissingInputError{Mode: req.Mode, Role: role}
		}
	}
	return resolved, nil
}

// extractAll runs extraction and normalization for every resolved input.
// A required input's failure is fatal; an optional input's failure drops
// the input with a warning.
func (o *Orchestrator) extractAll(mode prompt.Mode, resolved map[prompt.Role]string) (map[prompt.Role]*document.ExtractedDocument, error) {
	required := make(map[prompt.Role]bool)
	for _, role := range mode.RequiredRoles() {
		required[role] = true
	}

	docs := make(map[prompt.Role]*document.ExtractedDocument)
	roles := append(mode.RequiredRoles(), mode.OptionalRoles()...)
	for _, role := range roles {
		path, ok := resolved[role]
		if !ok {
			continue
		}

		doc, err := o.extractOne(role, path)
		if err != nil {
			if required[role] {
				return nil, err
			}
			o.printer.Warnf("dropping optional %s input %s: %v", role, path, err)
			continue
		}
		docs[role] = doc
	}
	return docs, nil
}

func (o *Orchestrator) extractOne(role prompt.Role, path string) (*document.ExtractedDocument, error) {
	content, format, err := extract.Extract(path)
	if err != nil {
		return nil, err
	}

	category, ok := role.Category()
	if !ok {
		category = catalog.Classify(path)
	}
	doc := o.norm.Normalize(content, path, category, format)

	jsonPath, _, err := o.norm.Persist(doc)
	if err != nil {
		return nil, err
	}
	o.printer.Stepf("extracted %s -> %s", path, jsonPath)
	return doc, nil
}

// complete sends the prompt to the completion service with bounded retry.
// Extraction artifacts are already durable at this point, so cancelling
// here leaves nothing half-written.
func (o *Orchestrator) complete(ctx context.Context, spec *prompt.Spec) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	return llm.WithRetry(ctx, o.retry, func(ctx context.Context) (string, error) {
		return o.client.Complete(ctx, llm.Request{
			SystemInstructions: spec.SystemInstructions,
			UserContent:        spec.UserContent,
		})
	})
}

func (o *Orchestrator) persist(req Request, docs map[prompt.Role]*document.ExtractedDocument, spec *prompt.Spec, response string) (*Artifact, error) {
	generatedAt := time.Now()
	report := buildReport(req.Mode, req.Options, docs, response, generatedAt)

	dir := filepath.Join(o.cfg.OutputDir, outputSubdir(req.Mode))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &normalize.PersistError{Path: dir, Cause: err}
	}

	base := artifactBase(req.Mode, req.Options)
	path := filepath.Join(dir, normalize.UniqueBase(base)+".txt")
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return nil, &normalize.PersistError{Path: path, Cause: err}
	}

	o.printer.Stepf("artifact saved: %s", path)
	return &Artifact{
		Mode:        req.Mode,
		OutputPath:  path,
		GeneratedAt: generatedAt,
		Prompt:      spec.SystemInstructions + "\n\n" + spec.UserContent,
		RawResponse: response,
	}, nil
}
