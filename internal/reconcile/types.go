package reconcile

import (
	"fmt"
	"time"

	"github.com/modsync/modsync/internal/modmeta"
	"github.com/modsync/modsync/internal/modrinth"
)

// Artifact is one installed mod file.
type Artifact struct {
	Name string // file name as installed
	Path string // absolute path
}

// IdentityKind says how an artifact was matched to a registry project.
type IdentityKind int

const (
	IdentityNone IdentityKind = iota
	IdentityHash
	IdentityProject
	IdentitySearch
)

func (k IdentityKind) String() string {
	switch k {
	case IdentityHash:
		return "hash"
	case IdentityProject:
		return "project"
	case IdentitySearch:
		return "search"
	default:
		return "none"
	}
}

// Identity is the registry identity an artifact resolved to.
type Identity struct {
	Kind    IdentityKind
	Value   string // content hash, project id, or search text
	Project string // project whose releases were consulted, when known
}

func (id Identity) String() string {
	switch id.Kind {
	case IdentityHash:
		v := id.Value
		if len(v) > 12 {
			v = v[:12]
		}
		return "hash:" + v
	case IdentityProject:
		return "project:" + id.Value
	case IdentitySearch:
		return fmt.Sprintf("search:%q->%s", id.Value, id.Project)
	default:
		return "none"
	}
}

// Decision is the verdict reached for an artifact before anything is changed.
type Decision int

const (
	Unresolved Decision = iota
	UpToDate
	UpdateAvailable
	LookupFailed
)

func (d Decision) String() string {
	switch d {
	case UpToDate:
		return "up_to_date"
	case UpdateAvailable:
		return "update_available"
	case LookupFailed:
		return "lookup_failed"
	default:
		return "unresolved"
	}
}

// Status is the final state of an artifact after a run.
type Status string

const (
	StatusUpToDate        Status = "up_to_date"
	StatusUpdated         Status = "updated"
	StatusUpdateAvailable Status = "update_available" // dry run only
	StatusUnresolved      Status = "unresolved"
	StatusLookupFailed    Status = "lookup_failed"
	StatusUpdateFailed    Status = "update_failed"  // backed up, new file missing
	StatusUpdateAborted   Status = "update_aborted" // refused before touching the file
)

// Statuses lists every status in report order.
var Statuses = []Status{
	StatusUpdated,
	StatusUpdateAvailable,
	StatusUpToDate,
	StatusUnresolved,
	StatusLookupFailed,
	StatusUpdateAborted,
	StatusUpdateFailed,
}

// Result is everything learned and done for one artifact.
type Result struct {
	Artifact   Artifact
	Hash       string
	Descriptor *modmeta.Descriptor
	Identity   Identity
	Decision   Decision
	Release    *modrinth.Version
	Latest     string // primary file name of Release

	// Populated when the replacer ran.
	Attempted  bool
	Installed  string
	BackupPath string
	Bytes      int64
	Failed     bool // true when the old file is in backup and no new file arrived

	Downgrade bool // registry's latest is semantically older than the installed version
	Err       error
}

// Status folds the decision and the replacement outcome into one value.
func (r *Result) Status() Status {
	switch r.Decision {
	case UpToDate:
		return StatusUpToDate
	case LookupFailed:
		return StatusLookupFailed
	case UpdateAvailable:
		switch {
		case !r.Attempted:
			return StatusUpdateAvailable
		case r.Failed:
			return StatusUpdateFailed
		case r.Err != nil:
			return StatusUpdateAborted
		default:
			return StatusUpdated
		}
	default:
		return StatusUnresolved
	}
}

// Report collects the results of one run.
type Report struct {
	RunID     string
	Target    modrinth.Target
	ModsDir   string
	BackupDir string
	DryRun    bool
	Started   time.Time
	Finished  time.Time
	Results   []Result
}

// Counts returns how many artifacts ended in each status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for i := range r.Results {
		counts[r.Results[i].Status()]++
	}
	return counts
}

// BytesDownloaded sums the bytes fetched by successful replacements.
func (r *Report) BytesDownloaded() int64 {
	var total int64
	for i := range r.Results {
		total += r.Results[i].Bytes
	}
	return total
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
