package changelog

import "time"

// SectionKind identifies what a render plan section holds.
type SectionKind int

const (
	// SectionNoChange is the sole section of a plan built from no commits.
	SectionNoChange SectionKind = iota + 1
	// SectionCategory lists the commits of one category.
	SectionCategory
	// SectionRelease carries the release descriptor.
	SectionRelease
	// SectionNonStandard warns that only Ignored/Unclassified commits exist.
	SectionNonStandard
)

// Section is one entry of a render plan.
type Section struct {
	Kind    SectionKind
	Type    ChangeType         // SectionCategory only
	Commits []Commit           // SectionCategory only
	Release *ReleaseDescriptor // SectionRelease only
}

// RenderPlan is the ordered, presentation-agnostic description of a changelog.
type RenderPlan struct {
	Sections []Section
	Changes  ChangeSet
	Release  *ReleaseDescriptor
}

// IsNoChange reports whether the plan was built from an empty commit list.
func (p RenderPlan) IsNoChange() bool {
	return len(p.Sections) == 1 && p.Sections[0].Kind == SectionNoChange
}

// IsNonStandard reports whether the plan ends with the non-standard warning.
func (p RenderPlan) IsNonStandard() bool {
	n := len(p.Sections)
	return n > 0 && p.Sections[n-1].Kind == SectionNonStandard
}

// Assembler builds render plans. Labels name the release types and Now
// supplies the release date.
type Assembler struct {
	Labels Labels
	Now    func() time.Time
}

// NewAssembler returns an Assembler using labels and the wall clock.
func NewAssembler(labels Labels) *Assembler {
	return &Assembler{Labels: labels, Now: time.Now}
}

// Assemble categorizes commits, computes the next release from previous
// (0.0.0 when nil), and lays out the sections in their fixed order:
// Ignored, Unclassified, release header, then the standard categories.
func (a *Assembler) Assemble(commits []Commit, previous *VersionNumber) RenderPlan {
	if len(commits) == 0 {
		return RenderPlan{Sections: []Section{{Kind: SectionNoChange}}}
	}

	set := Categorize(commits)
	release := Describe(set, previous, a.Labels, a.now())

	var sections []Section
	sections = appendCategory(sections, set, Ignored)
	sections = appendCategory(sections, set, Unclassified)
	sections = append(sections, Section{Kind: SectionRelease, Release: &release})
	for _, t := range StandardTypes() {
		sections = appendCategory(sections, set, t)
	}

	if !set.HasStandard() {
		sections = append(sections, Section{Kind: SectionNonStandard})
	}

	return RenderPlan{Sections: sections, Changes: set, Release: &release}
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func appendCategory(sections []Section, set ChangeSet, t ChangeType) []Section {
	if !set.Has(t) {
		return sections
	}
	return append(sections, Section{Kind: SectionCategory, Type: t, Commits: set[t]})
}
