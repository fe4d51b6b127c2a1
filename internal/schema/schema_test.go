package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgraph/campusgraph/pkg/source"
)

func TestTermName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"20121", "Spring 2012"},
		{"20125", "Summer 2012"},
		{"20126", "Summer 2012"},
		{"20127", "Summer 2012"},
		{"20128", "Fall 2012"},
	}
	for _, tt := range tests {
		got, err := TermName(tt.code)
		require.NoError(t, err, tt.code)
		assert.Equal(t, tt.want, got)
	}
}

func TestTermNameRejectsMalformedCodes(t *testing.T) {
	for _, code := range []string{"", "2012", "20123", "2012X"} {
		_, err := TermName(code)
		assert.Error(t, err, code)
	}
}

func TestPeopleFeedFoldsAppointments(t *testing.T) {
	row := func(fields map[string]string) *source.Record {
		r := source.NewRecord("")
		for k, v := range fields {
			r.Set(k, v)
		}
		return r
	}
	rows := []*source.Record{
		row(map[string]string{
			"ufid": "12345678", "display_name": "Gator, Albert",
			"salary_plan": "FA12", "dept_id": "16010000",
			"job_title": "PROFESSOR", "start_date": "2010-08-16",
		}),
		row(map[string]string{
			"ufid": "12345678", "dept_id": "16020000",
			"job_title": "AFFILIATE PROFESSOR", "start_date": "2012-01-01",
		}),
		row(map[string]string{
			"ufid": "87654321", "display_name": "Gator, Alberta", "salary_plan": "FA09",
		}),
		row(map[string]string{"display_name": "No UFID"}),
	}

	feed := PeopleFeed(rows)
	records, err := feed.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)

	albert := records[0]
	assert.Equal(t, "12345678", albert.Key)
	assert.Equal(t, "Gator, Albert", albert.Get("display_name"))
	require.Len(t, albert.Members["positions"], 2)
	assert.Equal(t, "16010000", albert.Members["positions"][0].Fields["dept_id"])
	assert.Equal(t, "AFFILIATE PROFESSOR", albert.Members["positions"][1].Fields["title"])

	// A row without a department contributes no position.
	assert.Empty(t, records[1].Members["positions"])
}

func TestPeopleFeedScalarsFromFirstRow(t *testing.T) {
	first := source.NewRecord("")
	first.Set("ufid", "12345678")
	first.Set("email", "agator@ufl.edu")
	second := source.NewRecord("")
	second.Set("ufid", "12345678")
	second.Set("email", "other@ufl.edu")

	feed := PeopleFeed([]*source.Record{first, second})
	records, err := feed.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "agator@ufl.edu", records[0].Get("email"))
}

func TestValidatePersonRepairsFields(t *testing.T) {
	rec := source.NewRecord("12345678")
	rec.Set("salary_plan", "FA12")
	rec.Set("phone", "392-1234")
	rec.Set("email", `"AGATOR@UFL.EDU" `)
	rec.Set("title", "ASSOC PROF,DEPARTMENT CHAIR")
	rec.Set("last_name", "Gator")
	rec.Set("first_name", "Albert")

	errs := validatePerson(rec)
	require.Empty(t, errs)

	assert.Equal(t, "(352) 392-1234", rec.Get("phone"))
	assert.Equal(t, "AGATOR@ufl.edu", rec.Get("email"))
	assert.Equal(t, "Assoc Prof, Department Chair", rec.Get("title"))
	assert.Equal(t, "Gator, Albert", rec.Get("display_name"))
}

func TestValidatePersonRejectsPrivate(t *testing.T) {
	rec := source.NewRecord("12345678")
	rec.Set("privacy", "Y")

	errs := validatePerson(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "private")
}

func TestValidatePersonRejectsUnknownSalaryPlan(t *testing.T) {
	rec := source.NewRecord("12345678")
	rec.Set("salary_plan", "XXXX")

	errs := validatePerson(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unknown salary plan")
}

func TestValidatePersonRejectsUnpublishedSalaryPlan(t *testing.T) {
	rec := source.NewRecord("12345678")
	rec.Set("salary_plan", "STAS")

	errs := validatePerson(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "not published")
}

func TestValidatePersonCollectsEveryBadField(t *testing.T) {
	rec := source.NewRecord("123") // short ufid
	rec.Set("phone", "not a number")
	rec.Set("email", "no-at-sign")
	rec.AddMember("positions", source.Member{Fields: map[string]string{
		"dept_id": "16010000", "start_date": "bogus",
	}})

	errs := validatePerson(rec)
	assert.Len(t, errs, 4)
}

func TestPersonTypeFromSalaryPlan(t *testing.T) {
	rec := source.NewRecord("12345678")
	rec.Set("salary_plan", "FAPD")
	types := personType(rec)
	require.Len(t, types, 1)
	assert.Contains(t, types[0], "Postdoc")

	rec.Set("salary_plan", "STAS")
	assert.Nil(t, personType(rec))
}

func TestGrantFeedSplitsInvestigators(t *testing.T) {
	row := source.NewRecord("")
	row.Set("local_award_id", "AWD-1")
	row.Set("title", "CITRUS GREENING RESPONSE")
	row.Set("pi_ufid", "11111111")
	row.Set("copi_ufids", "22222222; 33333333")
	row.Set("inv_ufids", "44444444;;")

	feed := GrantFeed([]*source.Record{row})
	records, err := feed.Records()
	require.NoError(t, err)
	require.Len(t, records, 1)

	members := records[0].Members["investigators"]
	require.Len(t, members, 4)
	assert.Equal(t, "PI", members[0].Fields["role"])
	assert.Equal(t, "11111111", members[0].Fields["ufid"])
	assert.Equal(t, "COPI", members[1].Fields["role"])
	assert.Equal(t, "COPI", members[2].Fields["role"])
	assert.Equal(t, "33333333", members[2].Fields["ufid"])
	assert.Equal(t, "INV", members[3].Fields["role"])
}

func TestValidateGrantNormalizesAmounts(t *testing.T) {
	rec := source.NewRecord("AWD-1")
	rec.Set("title", "SOIL CARBON DYNAMICS")
	rec.Set("total_award_amount", "$1,500,000.00")
	rec.Set("direct_costs", "1000000")

	errs := validateGrant(rec)
	require.Empty(t, errs)
	assert.Equal(t, "1500000", rec.Get("total_award_amount"))
	assert.Equal(t, "Soil Carbon Dynamics", rec.Get("title"))
}

func TestValidateGrantRejectsBadAmounts(t *testing.T) {
	rec := source.NewRecord("AWD-2")
	rec.Set("title", "X")
	rec.Set("total_award_amount", "lots")
	errs := validateGrant(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "not a number")

	rec = source.NewRecord("AWD-3")
	rec.Set("title", "X")
	rec.Set("direct_costs", "-100")
	errs = validateGrant(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "negative")
}

func TestValidateGrantRejectsTotalBelowDirect(t *testing.T) {
	rec := source.NewRecord("AWD-4")
	rec.Set("title", "X")
	rec.Set("total_award_amount", "100")
	rec.Set("direct_costs", "200")

	errs := validateGrant(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "less than direct costs")
}

func TestValidateGrantRequiresTitle(t *testing.T) {
	rec := source.NewRecord("AWD-5")
	errs := validateGrant(rec)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "title")
}

func TestCourseFeedsDeriveThreeFeeds(t *testing.T) {
	row := func(fields map[string]string) *source.Record {
		r := source.NewRecord("")
		for k, v := range fields {
			r.Set(k, v)
		}
		return r
	}
	rows := []*source.Record{
		row(map[string]string{
			"ufid": "123456", "term": "20128", "course_number": "ABE2062",
			"course_name": "BIOLOGY AND AGRICULTURE", "section_number": "0001",
		}),
		row(map[string]string{
			"ufid": "12345600", "term": "20128", "course_number": "ABE2062",
			"course_name": "BIOLOGY AND AGRICULTURE", "section_number": "0001",
		}),
		row(map[string]string{
			"ufid": "12345600", "term": "20121", "course_number": "ABE2062",
			"course_name": "BIOLOGY AND AGRICULTURE", "section_number": "0002",
		}),
	}

	terms, courses, sections := CourseFeeds(rows)

	require.Len(t, terms, 2)
	assert.Equal(t, "Fall 2012", terms[0].Get("term_name"))
	assert.Equal(t, "Spring 2012", terms[1].Get("term_name"))

	require.Len(t, courses, 1)
	assert.Equal(t, "ABE2062", courses[0].Get("course_number"))
	assert.Equal(t, "ABE2062 Biology and Agriculture", courses[0].Get("course_name"))

	require.Len(t, sections, 2)
	fall := sections[0]
	assert.Equal(t, "ABE2062 Fall 2012 0001", fall.Key)
	assert.Equal(t, "Fall 2012", fall.Get("term_name"))

	// Short UFIDs are right-padded to eight characters; both rows name
	// the same person, so the section carries one instructor.
	require.Len(t, fall.Members["instructors"], 1)
	assert.Equal(t, "12345600", fall.Members["instructors"][0].Fields["ufid"])
}

func TestCourseFeedsDistinctInstructors(t *testing.T) {
	a := source.NewRecord("")
	a.Set("ufid", "11111111")
	a.Set("term", "20128")
	a.Set("course_number", "CHM2045")
	a.Set("course_name", "GENERAL CHEMISTRY")
	a.Set("section_number", "1234")
	b := source.NewRecord("")
	b.Set("ufid", "22222222")
	b.Set("term", "20128")
	b.Set("course_number", "CHM2045")
	b.Set("course_name", "GENERAL CHEMISTRY")
	b.Set("section_number", "1234")

	_, _, sections := CourseFeeds([]*source.Record{a, b})
	require.Len(t, sections, 1)
	assert.Len(t, sections[0].Members["instructors"], 2)
}

func TestDictionariesCoverEveryTableReference(t *testing.T) {
	dicts := Dictionaries()
	for _, name := range []string{"orgs", "sponsors", "people", "courses", "terms"} {
		spec, ok := dicts[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, spec.TypeIRI)
		assert.NotEmpty(t, spec.KeyPredicate)
	}
}
