package application

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentvet/agentvet/internal/domain"
	"github.com/agentvet/agentvet/internal/domain/validators"
)

// Options selects validators and tunes their behavior for one run.
type Options struct {
	// Validators restricts execution to the named subset. Empty means all.
	Validators []string

	// Strict counts semantic warnings toward invalidity.
	Strict bool

	// StrictHTTPS escalates plain http links from warning to error.
	StrictHTTPS bool

	// ExpectedHash bypasses the registry lookup for a direct tamper check.
	ExpectedHash string

	// UpdateRegistry persists the new hash/version after validation.
	UpdateRegistry bool
}

func (o Options) selected() map[string]bool {
	sel := make(map[string]bool)
	if len(o.Validators) == 0 {
		for _, v := range domain.ValidatorOrder() {
			sel[v] = true
		}
		return sel
	}
	for _, v := range o.Validators {
		sel[v] = true
	}
	return sel
}

// ValidateService orchestrates the four validators over one component or a
// collection, merging findings into an overall verdict and score.
type ValidateService struct {
	structural *validators.StructuralValidator
	integrity  *validators.IntegrityValidator
	semantic   *validators.SemanticValidator
	reference  *validators.ReferenceValidator
	gitInfo    domain.GitInfo
	root       string
}

// NewValidateService wires the validators against a registry store rooted at
// root. registry may be nil for registry-less runs; gitInfo may be nil when
// commit stamping is not wanted.
func NewValidateService(registry domain.RegistryStore, cfg domain.VetConfig, root string, gitInfo domain.GitInfo) *ValidateService {
	return &ValidateService{
		structural: validators.NewStructuralValidator(),
		integrity:  validators.NewIntegrityValidator(registry, root),
		semantic:   validators.NewSemanticValidator(cfg.SeverityOverrides),
		reference:  validators.NewReferenceValidator(),
		gitInfo:    gitInfo,
		root:       root,
	}
}

// ValidateComponent runs the selected validators independently over one
// component and merges their results. A malformed document never aborts the
// run; every defect surfaces as a finding.
func (s *ValidateService) ValidateComponent(c domain.Component, opts Options) *domain.AggregateResult {
	sel := opts.selected()
	agg := &domain.AggregateResult{
		Path:       c.Path,
		Type:       c.Type,
		Validators: make(map[string]*domain.ValidatorResult),
		RunID:      uuid.NewString(),
		Timestamp:  time.Now(),
	}

	if sel[domain.ValidatorStructural] {
		agg.Validators[domain.ValidatorStructural] = s.structural.Validate(c)
	}
	if sel[domain.ValidatorIntegrity] {
		ir := s.integrity.Validate(c, validators.IntegrityOptions{
			ExpectedHash:   opts.ExpectedHash,
			UpdateRegistry: opts.UpdateRegistry,
		})
		agg.Validators[domain.ValidatorIntegrity] = &ir.ValidatorResult
		agg.Hash = ir.Hash
	}
	if sel[domain.ValidatorSemantic] {
		agg.Validators[domain.ValidatorSemantic] = s.semantic.Validate(c, validators.SemanticOptions{Strict: opts.Strict})
	}
	if sel[domain.ValidatorReference] {
		agg.Validators[domain.ValidatorReference] = s.reference.Validate(c, validators.ReferenceOptions{StrictHTTPS: opts.StrictHTTPS})
	}

	agg.Merge()
	return agg
}

// ValidateComponents validates each component independently on a bounded
// worker pool and tallies pass/fail. Result order matches input order. The
// registry store is the only shared-mutation point; stores serialize writes
// internally.
func (s *ValidateService) ValidateComponents(components []domain.Component, opts Options) *domain.BatchResult {
	batch := &domain.BatchResult{
		Components: make([]domain.AggregateResult, len(components)),
		RunID:      uuid.NewString(),
		Timestamp:  time.Now(),
	}

	workers := runtime.NumCPU()
	if workers > len(components) {
		workers = len(components)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				batch.Components[i] = *s.ValidateComponent(components[i], opts)
			}
		}()
	}
	for i := range components {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	batch.Tally()
	if s.gitInfo != nil && s.gitInfo.IsGitRepo(s.root) {
		if hash, err := s.gitInfo.CommitHash(s.root); err == nil {
			batch.CommitHash = hash
		}
	}
	return batch
}

// SecurityReport exposes the semantic validator's dedicated risk view.
func (s *ValidateService) SecurityReport(c domain.Component) validators.SecurityReport {
	return s.semantic.GenerateSecurityReport(c)
}

// LinkStats exposes the reference validator's reporting helper.
func (s *ValidateService) LinkStats(c domain.Component) validators.LinkStats {
	return s.reference.Stats(c)
}

// JSONReport serializes an AggregateResult so that it round-trips through
// parse/serialize without loss.
func JSONReport(agg *domain.AggregateResult) (string, error) {
	data, err := json.MarshalIndent(agg, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// BatchJSONReport serializes a BatchResult.
func BatchJSONReport(batch *domain.BatchResult) (string, error) {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
