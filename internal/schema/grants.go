package schema

import (
	"strconv"
	"strings"

	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/normalize"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// investigatorRoles maps feed role codes to role class IRIs. Unlisted
// codes fall back to the generic investigator role.
var investigatorRoles = map[string]string{
	"PI":   vocab.VivoPIRole,
	"COPI": vocab.VivoCoPIRole,
	"INV":  vocab.VivoInvestigatorRole,
}

// Grants returns the table for the sponsored research feed. Records
// are keyed by the local award identifier. Awards leave the feed when
// closed out, which says nothing about the award itself, so there is
// no retirement.
func Grants() *reconcile.Table {
	return &reconcile.Table{
		Name:  "grants",
		Types: []string{vocab.VivoGrant},
		Key:   reconcile.Property{Field: "local_award_id", Predicate: vocab.VivoLocalAwardID},
		Properties: []reconcile.Property{
			{Field: "title", Predicate: vocab.RDFSLabel},
			{Field: "total_award_amount", Predicate: vocab.VivoTotalAwardAmount},
			{Field: "direct_costs", Predicate: vocab.VivoGrantDirectCosts},
			{Field: "sponsor_award_id", Predicate: vocab.VivoSponsorAwardID},
			{Field: "admin_dept", Predicate: vocab.VivoAdministeredBy, Resource: true},
			{Field: "sponsor", Predicate: vocab.VivoGrantAwardedBy, Resource: true},
			{Field: "dti", Predicate: vocab.VivoDateTimeInterval, Resource: true},
		},
		References: []reconcile.Reference{
			{Field: "admin_dept", SourceField: "dept_id", Dictionary: "orgs", Required: true},
			{Field: "sponsor", SourceField: "sponsor_id", Dictionary: "sponsors", Required: true},
		},
		Interval: &reconcile.IntervalSpec{
			StartField: "start_date",
			EndField:   "end_date",
			Field:      "dti",
			Precision:  dates.YearMonthDay,
		},
		Collections: []reconcile.Collection{{
			Name:          "investigators",
			Field:         "investigators",
			LinkPredicate: vocab.VivoRelates,
			Tuple: []reconcile.Property{
				{Field: "person", Predicate: vocab.VivoInvRoleOf, Resource: true},
			},
			References: []reconcile.Reference{
				{Field: "person", SourceField: "ufid", Dictionary: "people", Required: true},
			},
			Build: buildInvestigatorRole,
		}},
		Retire:       reconcile.RetireNone,
		HarvestAgent: "campusgraph-grants",
		Validate:     validateGrant,
	}
}

// grantScalars are the sponsored research extract columns copied onto
// the grant record.
var grantScalars = []string{
	"local_award_id", "title", "total_award_amount", "direct_costs",
	"sponsor_award_id", "dept_id", "sponsor_id", "start_date", "end_date",
}

// GrantFeed shapes the sponsored research extract, one row per award,
// into grant records. The principal investigator column and the
// semicolon-separated co-investigator columns become role members.
func GrantFeed(rows []*source.Record) source.SliceFeed {
	var feed source.SliceFeed
	for _, row := range rows {
		key := row.Get("local_award_id")
		if key == "" {
			continue
		}
		rec := source.NewRecord(key)
		for _, field := range grantScalars {
			if v := row.Get(field); v != "" {
				rec.Set(field, v)
			}
		}
		if pi := row.Get("pi_ufid"); pi != "" {
			rec.AddMember("investigators", source.Member{Fields: map[string]string{"ufid": pi, "role": "PI"}})
		}
		for _, ufid := range splitList(row.Get("copi_ufids")) {
			rec.AddMember("investigators", source.Member{Fields: map[string]string{"ufid": ufid, "role": "COPI"}})
		}
		for _, ufid := range splitList(row.Get("inv_ufids")) {
			rec.AddMember("investigators", source.Member{Fields: map[string]string{"ufid": ufid, "role": "INV"}})
		}
		feed = append(feed, rec)
	}
	return source.SliceFeed(source.Dedupe(feed))
}

// splitList splits a semicolon-separated column, dropping empties.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// validateGrant normalizes a grant record in place and reports every
// bad field. Amounts must be non-negative numbers and the total award
// must cover direct costs.
func validateGrant(rec *source.Record) []error {
	var errs []error
	fail := func(field, value, msg string) {
		errs = append(errs, &errors.InvalidValueError{Key: rec.Key, Field: field, Value: value, Message: msg})
	}

	if title := rec.Get("title"); title == "" {
		fail("title", "", "required")
	} else {
		rec.Set("title", normalize.Title(title))
	}

	total, ok := checkAmount(rec, "total_award_amount", fail)
	direct, okDirect := checkAmount(rec, "direct_costs", fail)
	if ok && okDirect && rec.Get("total_award_amount") != "" && rec.Get("direct_costs") != "" && total < direct {
		fail("total_award_amount", rec.Get("total_award_amount"), "less than direct costs")
	}
	return errs
}

// checkAmount parses a currency field, rejecting non-numeric and
// negative values, and writes back the canonical form.
func checkAmount(rec *source.Record, field string, fail func(field, value, msg string)) (float64, bool) {
	raw := rec.Get(field)
	if raw == "" {
		return 0, true
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(raw)
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		fail(field, raw, "not a number")
		return 0, false
	}
	if amount < 0 {
		fail(field, raw, "negative amount")
		return 0, false
	}
	rec.Set(field, strconv.FormatFloat(amount, 'f', -1, 64))
	return amount, true
}

// buildInvestigatorRole emits one investigator role linking a grant to
// a person, typed by the feed's role code.
func buildInvestigatorRole(b *reconcile.Build, parentID string, m source.Member) string {
	id := b.Mint()
	roleType := investigatorRoles[m.Fields["role"]]
	if roleType == "" {
		roleType = vocab.VivoInvestigatorRole
	}
	b.Add.Add(triples.Resource(id, vocab.RDFType, roleType))
	b.Add.Add(triples.Resource(parentID, vocab.VivoRelates, id))
	b.Add.Add(triples.Resource(id, vocab.VivoInvRoleOf, m.Fields["person"]))
	b.Add.Add(triples.Resource(id, vocab.VivoRoleContributesTo, parentID))
	return id
}
