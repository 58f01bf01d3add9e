// Package artifact implements the per-feature artifact state machine:
// Missing -> Draft -> {Approved, Rejected, NeedsFix}, with Rejected and
// NeedsFix going back to Draft on revision and Waived reachable only
// from Missing. It is
// pure state — it never reads or writes the markdown content a
// separate persistence collaborator keeps at the conventional path.
package artifact

import (
	"time"

	"github.com/sdlcstack/sdlc/internal/taxonomy"
)

// Artifact is one typed document tracked on a Feature.
type Artifact struct {
	Type      taxonomy.ArtifactType   `yaml:"type" json:"type"`
	Status    taxonomy.ArtifactStatus `yaml:"status" json:"status"`
	Path      string                  `yaml:"path" json:"path"`
	ApprovedBy string                 `yaml:"approved_by,omitempty" json:"approved_by,omitempty"`
	Reason    string                  `yaml:"reason,omitempty" json:"reason,omitempty"`
	UpdatedAt time.Time               `yaml:"updated_at" json:"updated_at"`
}

// New creates an Artifact of the given type at path, status Missing.
func New(t taxonomy.ArtifactType, path string) Artifact {
	return Artifact{
		Type:      t,
		Status:    taxonomy.Missing,
		Path:      path,
		UpdatedAt: time.Now().UTC(),
	}
}

// MarkDraft moves the artifact into Draft: from Missing (first draft)
// or from Rejected or NeedsFix (a revision). Idempotent when already
// Draft; Approved and Waived artifacts are left unchanged.
func (a *Artifact) MarkDraft() {
	switch a.Status {
	case taxonomy.Missing, taxonomy.ArtifactDraft, taxonomy.Rejected, taxonomy.NeedsFix:
		a.Status = taxonomy.ArtifactDraft
		a.UpdatedAt = time.Now().UTC()
	}
}

// Approve transitions any status to Approved, recording who approved it.
func (a *Artifact) Approve(by string) {
	a.Status = taxonomy.Approved
	a.ApprovedBy = by
	a.Reason = ""
	a.UpdatedAt = time.Now().UTC()
}

// Reject transitions any status to Rejected, recording why.
func (a *Artifact) Reject(reason string) {
	a.Status = taxonomy.Rejected
	a.Reason = reason
	a.UpdatedAt = time.Now().UTC()
}

// NeedsFix transitions any status to NeedsFix, recording why.
func (a *Artifact) NeedsFix(reason string) {
	a.Status = taxonomy.NeedsFix
	a.Reason = reason
	a.UpdatedAt = time.Now().UTC()
}

// Waive transitions a never-drafted artifact to Waived. It requires no
// prior content: an artifact that already moved past Missing is not
// waivable, since waiving exists to skip artifacts nobody will write.
func (a *Artifact) Waive(reason string) bool {
	if a.Status != taxonomy.Missing {
		return false
	}
	a.Status = taxonomy.Waived
	a.Reason = reason
	a.UpdatedAt = time.Now().UTC()
	return true
}

// IsSatisfied reports whether the artifact gates nothing further:
// Approved or Waived.
func (a Artifact) IsSatisfied() bool {
	return a.Status == taxonomy.Approved || a.Status == taxonomy.Waived
}
