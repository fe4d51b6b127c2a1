package schema

import (
	"fmt"
	"strings"

	"github.com/campusgraph/campusgraph/pkg/normalize"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// Terms returns the table for academic terms. Terms are derived from
// the registrar feed's term codes and keyed by their display name, so
// every section of "Fall 2012" shares one term entity.
func Terms() *reconcile.Table {
	return &reconcile.Table{
		Name:         "terms",
		Types:        []string{vocab.VivoAcademicTerm},
		Key:          reconcile.Property{Field: "term_name", Predicate: vocab.RDFSLabel},
		Retire:       reconcile.RetireNone,
		HarvestAgent: "campusgraph-courses",
	}
}

// Courses returns the table for course catalog entries, keyed by
// course number.
func Courses() *reconcile.Table {
	return &reconcile.Table{
		Name:  "courses",
		Types: []string{vocab.LocalCourse},
		Key:   reconcile.Property{Field: "course_number", Predicate: vocab.LocalCourseNum},
		Properties: []reconcile.Property{
			{Field: "course_name", Predicate: vocab.RDFSLabel},
		},
		Retire:       reconcile.RetireNone,
		HarvestAgent: "campusgraph-courses",
	}
}

// Sections returns the table for course sections. A section is keyed
// by course, term, and section number together, references its course
// and term, and owns the teacher roles of its instructors.
func Sections() *reconcile.Table {
	return &reconcile.Table{
		Name:  "sections",
		Types: []string{vocab.LocalCourseSection},
		Key:   reconcile.Property{Field: "section_name", Predicate: vocab.LocalSectionNum},
		Properties: []reconcile.Property{
			{Field: "section_name", Predicate: vocab.RDFSLabel},
			{Field: "course", Predicate: vocab.LocalSectionForCourse, Resource: true},
			{Field: "term", Predicate: vocab.LocalSectionInTerm, Resource: true},
		},
		References: []reconcile.Reference{
			{Field: "course", SourceField: "course_number", Dictionary: "courses", Required: true},
			{Field: "term", SourceField: "term_name", Dictionary: "terms", Required: true},
		},
		Collections: []reconcile.Collection{{
			Name:          "instructors",
			Field:         "instructors",
			LinkPredicate: vocab.VivoRelates,
			Tuple: []reconcile.Property{
				{Field: "person", Predicate: vocab.VivoTeacherRoleOf, Resource: true},
			},
			References: []reconcile.Reference{
				{Field: "person", SourceField: "ufid", Dictionary: "people", Required: true},
			},
			Build: buildTeacherRole,
		}},
		Retire:       reconcile.RetireNone,
		HarvestAgent: "campusgraph-courses",
	}
}

// TermName renders a registrar term code such as "20128" as its
// display name "Fall 2012". Summer sessions share one term.
func TermName(code string) (string, error) {
	if len(code) < 5 {
		return "", fmt.Errorf("malformed term code %q", code)
	}
	year := code[:4]
	switch code[4] {
	case '1':
		return "Spring " + year, nil
	case '5', '6', '7':
		return "Summer " + year, nil
	case '8':
		return "Fall " + year, nil
	default:
		return "", fmt.Errorf("malformed term code %q", code)
	}
}

// CourseFeeds derives the three course-ingest feeds from the raw
// registrar rows, one row per taught section. Instructors of the same
// section fold into one section record. Rows with malformed term
// codes surface at run time as unresolvable term references.
func CourseFeeds(rows []*source.Record) (terms, courses, sections source.SliceFeed) {
	termSeen := make(map[string]bool)
	courseSeen := make(map[string]bool)
	sectionIndex := make(map[string]*source.Record)

	for _, row := range rows {
		ufid := row.Get("ufid")
		if len(ufid) > 0 && len(ufid) < 8 {
			ufid = ufid + strings.Repeat("0", 8-len(ufid))
		}
		courseNumber := row.Get("course_number")
		if courseNumber == "" {
			continue
		}
		termName, err := TermName(row.Get("term"))
		if err == nil && !termSeen[termName] {
			termSeen[termName] = true
			term := source.NewRecord(termName)
			term.Set("term_name", termName)
			terms = append(terms, term)
		}

		if !courseSeen[courseNumber] {
			courseSeen[courseNumber] = true
			course := source.NewRecord(courseNumber)
			course.Set("course_number", courseNumber)
			course.Set("course_name", courseNumber+" "+normalize.Title(row.Get("course_name")))
			courses = append(courses, course)
		}

		sectionName := courseNumber + " " + termName + " " + row.Get("section_number")
		section, ok := sectionIndex[sectionName]
		if !ok {
			section = source.NewRecord(sectionName)
			section.Set("section_name", sectionName)
			section.Set("course_number", courseNumber)
			section.Set("term_name", termName)
			sectionIndex[sectionName] = section
			sections = append(sections, section)
		}
		if ufid != "" && !hasInstructor(section, ufid) {
			section.AddMember("instructors", source.Member{Fields: map[string]string{"ufid": ufid}})
		}
	}
	return terms, courses, sections
}

func hasInstructor(section *source.Record, ufid string) bool {
	for _, m := range section.Members["instructors"] {
		if m.Fields["ufid"] == ufid {
			return true
		}
	}
	return false
}

// buildTeacherRole emits one teacher role linking a section to an
// instructor.
func buildTeacherRole(b *reconcile.Build, parentID string, m source.Member) string {
	id := b.Mint()
	b.Add.Add(triples.Resource(id, vocab.RDFType, vocab.VivoTeacherRole))
	b.Add.Add(triples.Resource(parentID, vocab.VivoRelates, id))
	b.Add.Add(triples.Resource(id, vocab.VivoTeacherRoleOf, m.Fields["person"]))
	b.Add.Add(triples.Resource(id, vocab.VivoRoleRealizedIn, parentID))
	return id
}
