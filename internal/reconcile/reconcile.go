package reconcile

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modsync/modsync/internal/config"
	"github.com/modsync/modsync/internal/fingerprint"
	"github.com/modsync/modsync/internal/modmeta"
	"github.com/modsync/modsync/internal/modrinth"
	"github.com/modsync/modsync/internal/replace"
	"github.com/rs/zerolog"
)

// Registry is the subset of the registry client the reconciler needs.
type Registry interface {
	ResolveByHash(hash string) (*modrinth.Version, error)
	ListReleases(projectID string) ([]modrinth.Version, error)
	SearchByName(text string) ([]string, error)
}

// Extractor reads an artifact's embedded descriptor. It returns nil, nil
// when the artifact has none.
type Extractor interface {
	Extract(path string) (*modmeta.Descriptor, error)
}

// Installer performs the backup-then-download replacement.
type Installer interface {
	EnsureBackupDir() error
	Replace(artifactPath string, release *modrinth.Version, ext string) (*replace.Installation, error)
}

// Reconciler runs the identify → look up → decide → replace pipeline.
type Reconciler struct {
	cfg       config.Config
	registry  Registry
	extractor Extractor
	installer Installer
	logger    zerolog.Logger
	runID     string
	now       func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for per-artifact progress.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = l
	}
}

// WithRunID sets the id stamped on the report.
func WithRunID(id string) Option {
	return func(r *Reconciler) {
		r.runID = id
	}
}

// WithClock overrides time.Now (useful for testing).
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

// New creates a Reconciler. cfg is copied and never modified.
func New(cfg config.Config, registry Registry, extractor Extractor, installer Installer, opts ...Option) *Reconciler {
	r := &Reconciler{
		cfg:       cfg,
		registry:  registry,
		extractor: extractor,
		installer: installer,
		logger:    zerolog.Nop(),
		runID:     uuid.NewString(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes every artifact in the mods directory, one at a time.
// The returned error is non-nil only for directory-level failures; every
// per-artifact problem is recorded in the report instead.
func (r *Reconciler) Run() (*Report, error) {
	report := &Report{
		RunID:     r.runID,
		Target:    r.cfg.Target,
		ModsDir:   r.cfg.ModsDir,
		BackupDir: r.cfg.BackupDir,
		DryRun:    r.cfg.DryRun,
		Started:   r.now(),
	}

	artifacts, err := Scan(r.cfg.ModsDir, r.cfg.Extension)
	if err != nil {
		return nil, err
	}
	r.logger.Info().
		Str("dir", r.cfg.ModsDir).
		Str("target", r.cfg.Target.String()).
		Int("artifacts", len(artifacts)).
		Bool("dry_run", r.cfg.DryRun).
		Msg("scanning mods")

	if !r.cfg.DryRun {
		if err := r.installer.EnsureBackupDir(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
		}
	}

	for _, a := range artifacts {
		res := r.Evaluate(a)
		if res.Decision == UpdateAvailable && !r.cfg.DryRun {
			r.apply(&res)
		}
		r.logResult(&res)
		report.Results = append(report.Results, res)
	}

	report.Finished = r.now()
	return report, nil
}

// Evaluate identifies a single artifact and decides whether it needs an
// update. It never modifies the filesystem.
func (r *Reconciler) Evaluate(a Artifact) Result {
	res := Result{Artifact: a}

	hash, err := fingerprint.File(a.Path)
	if err != nil {
		res.Decision = LookupFailed
		res.Err = err
		return res
	}
	res.Hash = hash

	// The descriptor is local and cheap; it feeds the fallback chain and the
	// downgrade check.
	desc, descErr := r.extractor.Extract(a.Path)
	res.Descriptor = desc

	release, identity, err := r.identify(hash, desc)
	if err != nil {
		res.Decision = LookupFailed
		res.Err = err
		return res
	}
	if release == nil {
		res.Decision = Unresolved
		res.Err = descErr
		return res
	}
	res.Identity = identity
	res.Release = release

	file, ok := release.PrimaryFile(r.cfg.Extension)
	if !ok {
		res.Decision = LookupFailed
		res.Err = fmt.Errorf("%w: release %s", replace.ErrNoPrimaryFile, release.ID)
		return res
	}
	res.Latest = file.Filename

	if desc != nil {
		older, known := release.IsOlderThan(desc.Version)
		res.Downgrade = known && older
	}

	// Name equality is the only sameness check; bytes are not compared.
	if file.Filename == a.Name {
		res.Decision = UpToDate
	} else {
		res.Decision = UpdateAvailable
	}
	return res
}

// identify walks the fallback chain: content hash, descriptor id, then a
// name search. A nil release with a nil error means nothing matched.
func (r *Reconciler) identify(hash string, desc *modmeta.Descriptor) (*modrinth.Version, Identity, error) {
	release, err := r.registry.ResolveByHash(hash)
	if err != nil {
		return nil, Identity{}, err
	}
	if release != nil {
		return release, Identity{Kind: IdentityHash, Value: hash, Project: release.ProjectID}, nil
	}

	if desc == nil {
		return nil, Identity{}, nil
	}

	if desc.ID != "" {
		versions, err := r.registry.ListReleases(desc.ID)
		if err != nil {
			return nil, Identity{}, err
		}
		if len(versions) > 0 {
			return &versions[0], Identity{Kind: IdentityProject, Value: desc.ID, Project: desc.ID}, nil
		}
	}

	text := desc.SearchText()
	if text == "" {
		return nil, Identity{}, nil
	}
	ids, err := r.registry.SearchByName(text)
	if err != nil {
		return nil, Identity{}, err
	}
	if len(ids) == 0 {
		return nil, Identity{}, nil
	}

	// The top hit is taken on trust.
	versions, err := r.registry.ListReleases(ids[0])
	if err != nil {
		return nil, Identity{}, err
	}
	if len(versions) == 0 {
		return nil, Identity{}, nil
	}
	return &versions[0], Identity{Kind: IdentitySearch, Value: text, Project: ids[0]}, nil
}

// apply hands an UpdateAvailable result to the installer and records the outcome.
func (r *Reconciler) apply(res *Result) {
	res.Attempted = true
	inst, err := r.installer.Replace(res.Artifact.Path, res.Release, r.cfg.Extension)
	if err != nil {
		res.Err = err
		var ufe *replace.UpdateFailedError
		if errors.As(err, &ufe) {
			res.Failed = true
			res.BackupPath = ufe.BackupPath
		}
		return
	}
	res.Installed = inst.Name
	res.BackupPath = inst.BackupPath
	res.Bytes = inst.Bytes
}

func (r *Reconciler) logResult(res *Result) {
	status := res.Status()

	var ev *zerolog.Event
	switch status {
	case StatusUpdateFailed:
		ev = r.logger.Error()
	case StatusLookupFailed, StatusUpdateAborted:
		ev = r.logger.Warn()
	default:
		ev = r.logger.Info()
	}

	ev = ev.Str("artifact", res.Artifact.Name).
		Str("identity", res.Identity.String()).
		Str("decision", res.Decision.String()).
		Str("status", string(status))
	if res.Latest != "" {
		ev = ev.Str("latest", res.Latest)
	}
	if res.BackupPath != "" {
		ev = ev.Str("backup", res.BackupPath)
	}
	if res.Downgrade {
		ev = ev.Bool("downgrade", true)
	}
	if res.Err != nil {
		ev = ev.Err(res.Err)
	}
	ev.Msg("processed")
}
