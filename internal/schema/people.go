package schema

import (
	"github.com/campusgraph/campusgraph/pkg/dates"
	"github.com/campusgraph/campusgraph/pkg/errors"
	"github.com/campusgraph/campusgraph/pkg/normalize"
	"github.com/campusgraph/campusgraph/pkg/reconcile"
	"github.com/campusgraph/campusgraph/pkg/source"
	"github.com/campusgraph/campusgraph/pkg/triples"
	"github.com/campusgraph/campusgraph/pkg/vocab"
)

// positionTypes maps HR salary plan codes to position kinds. Plans
// mapped to "" (fellowships, hourly staff, student assistants) are not
// published at all.
var positionTypes = map[string]string{
	"CPFI": "postdoc",
	"CTSY": "courtesy-faculty",
	"FA09": "faculty",
	"FA9M": "clinical-faculty",
	"FA10": "faculty",
	"FA12": "faculty",
	"FACM": "clinical-faculty",
	"FAPD": "postdoc",
	"FASU": "faculty",
	"FELL": "",
	"FWSP": "",
	"GA09": "",
	"GA12": "",
	"GASU": "",
	"HOUS": "housestaff",
	"ISCR": "",
	"OF09": "temp-faculty",
	"OF12": "temp-faculty",
	"OFSU": "temp-faculty",
	"OPSE": "",
	"OPSN": "",
	"STAS": "",
	"STBW": "",
	"TA09": "non-academic",
	"TA10": "non-academic",
	"TA12": "non-academic",
	"TASU": "non-academic",
	"TU1E": "non-academic",
	"TU2E": "non-academic",
	"TU9E": "non-academic",
	"TUSE": "non-academic",
	"TU1N": "",
	"TU2N": "",
	"TU9N": "",
	"TUSN": "",
	"US1N": "",
	"US2N": "",
	"US9N": "",
	"USSN": "",
	"US2E": "non-academic",
}

// personTypes maps position kinds to person class IRIs.
var personTypes = map[string]string{
	"faculty":          vocab.VivoFaculty,
	"postdoc":          vocab.VivoPostdoc,
	"courtesy-faculty": vocab.VivoCourtesyFac,
	"clinical-faculty": vocab.LocalClinicalFaculty,
	"housestaff":       vocab.LocalHousestaff,
	"temp-faculty":     vocab.LocalTemporaryFaculty,
	"non-academic":     vocab.VivoNonAcademic,
}

// People returns the table for the HR person feed. Records are keyed
// by UFID; retirement retracts currency and contact details but keeps
// the person and their history. Keys in exclusions are never touched
// in either direction.
func People(exclusions map[string]bool) *reconcile.Table {
	return &reconcile.Table{
		Name:          "people",
		Types:         []string{vocab.FOAFPerson},
		CurrentMarker: vocab.LocalCurrentEntity,
		Key:           reconcile.Property{Field: "ufid", Predicate: vocab.LocalUFID},
		Properties: []reconcile.Property{
			{Field: "display_name", Predicate: vocab.RDFSLabel},
			{Field: "gatorlink", Predicate: vocab.LocalGatorlink},
			{Field: "privacy", Predicate: vocab.LocalPrivacyFlag},
			{Field: "home_dept", Predicate: vocab.LocalHomeDept, Resource: true},
		},
		References: []reconcile.Reference{
			{Field: "home_dept", SourceField: "home_dept_id", Dictionary: "orgs"},
		},
		Contact: &reconcile.ContactSpec{
			Name: []reconcile.Property{
				{Field: "first_name", Predicate: vocab.VCardGivenName},
				{Field: "last_name", Predicate: vocab.VCardFamilyName},
				{Field: "middle_name", Predicate: vocab.VCardAdditionalName},
				{Field: "name_prefix", Predicate: vocab.VCardHonorificPre},
				{Field: "name_suffix", Predicate: vocab.VCardHonorificSuf},
			},
			Entries: []reconcile.ContactEntry{
				{Field: "email", HasPredicate: vocab.VCardHasEmail, TypeIRI: vocab.VCardEmailType, ValuePredicate: vocab.VCardEmail},
				{Field: "phone", HasPredicate: vocab.VCardHasTelephone, TypeIRI: vocab.VCardTelephoneType, ValuePredicate: vocab.VCardTelephone},
				{Field: "fax", HasPredicate: vocab.VCardHasTelephone, TypeIRI: vocab.VCardFaxType, ValuePredicate: vocab.VCardTelephone},
				{Field: "title", HasPredicate: vocab.VCardHasTitle, TypeIRI: vocab.VCardTitleType, ValuePredicate: vocab.VCardTitle},
			},
		},
		Collections: []reconcile.Collection{{
			Name:          "positions",
			Field:         "positions",
			LinkPredicate: vocab.VivoPersonInPosition,
			Tuple: []reconcile.Property{
				{Field: "org", Predicate: vocab.VivoPositionInOrganization, Resource: true},
				{Field: "title", Predicate: vocab.RDFSLabel},
			},
			References: []reconcile.Reference{
				{Field: "org", SourceField: "dept_id", Dictionary: "orgs", Required: true},
			},
			Build: buildPosition,
		}},
		Retire:       reconcile.RetireClose,
		HarvestAgent: "campusgraph-people",
		TypeOf:       personType,
		Exclude: func(key string) bool {
			return exclusions[key]
		},
		Validate: validatePerson,
	}
}

// personScalars are the HR extract columns copied onto the person
// record from its first row.
var personScalars = []string{
	"ufid", "gatorlink", "privacy", "salary_plan", "home_dept_id",
	"first_name", "last_name", "middle_name", "name_prefix", "name_suffix",
	"display_name", "email", "phone", "fax", "title",
}

// PeopleFeed folds the HR extract, one row per appointment, into one
// record per person carrying their positions. Scalar fields come from
// the person's first row.
func PeopleFeed(rows []*source.Record) source.SliceFeed {
	index := make(map[string]*source.Record)
	var feed source.SliceFeed
	for _, row := range rows {
		ufid := row.Get("ufid")
		if ufid == "" {
			continue
		}
		person, ok := index[ufid]
		if !ok {
			person = source.NewRecord(ufid)
			for _, field := range personScalars {
				if v := row.Get(field); v != "" {
					person.Set(field, v)
				}
			}
			index[ufid] = person
			feed = append(feed, person)
		}
		if deptID := row.Get("dept_id"); deptID != "" {
			person.AddMember("positions", source.Member{Fields: map[string]string{
				"dept_id":    deptID,
				"title":      row.Get("job_title"),
				"start_date": row.Get("start_date"),
				"end_date":   row.Get("end_date"),
			}})
		}
	}
	return feed
}

// personType derives the person class from the record's salary plan.
func personType(rec *source.Record) []string {
	kind := positionTypes[rec.Get("salary_plan")]
	iri := personTypes[kind]
	if iri == "" {
		return nil
	}
	return []string{iri}
}

// validatePerson normalizes a person record in place and reports every
// bad field. HR delivers titles in caps, phone numbers in several
// layouts, and the occasional mangled email; anything unrepairable
// skips the record so it never publishes half-cleaned.
func validatePerson(rec *source.Record) []error {
	var errs []error
	fail := func(field, value, msg string) {
		errs = append(errs, &errors.InvalidValueError{Key: rec.Key, Field: field, Value: value, Message: msg})
	}

	if len(rec.Key) != 8 {
		fail("ufid", rec.Key, "must be eight characters")
	}
	if rec.Get("privacy") == "Y" {
		fail("privacy", "Y", "flagged private, not published")
	}
	if plan := rec.Get("salary_plan"); plan != "" {
		kind, known := positionTypes[plan]
		if !known {
			fail("salary_plan", plan, "unknown salary plan")
		} else if kind == "" {
			fail("salary_plan", plan, "plan not published")
		}
	}

	if v := rec.Get("phone"); v != "" {
		repaired, err := normalize.Phone(v)
		if err != nil {
			fail("phone", v, "unrepairable phone number")
		} else {
			rec.Set("phone", repaired)
		}
	}
	if v := rec.Get("fax"); v != "" {
		repaired, err := normalize.Phone(v)
		if err != nil {
			fail("fax", v, "unrepairable fax number")
		} else {
			rec.Set("fax", repaired)
		}
	}
	if v := rec.Get("email"); v != "" {
		repaired, err := normalize.Email(v)
		if err != nil {
			fail("email", v, "unrepairable email")
		} else {
			rec.Set("email", repaired)
		}
	}
	if v := rec.Get("title"); v != "" {
		rec.Set("title", normalize.CommaSpace(normalize.Title(v)))
	}

	if rec.Get("display_name") == "" {
		rec.Set("display_name", displayName(rec))
	}

	for _, m := range rec.Members["positions"] {
		if v := m.Fields["title"]; v != "" {
			m.Fields["title"] = normalize.CommaSpace(normalize.Title(v))
		}
		for _, field := range []string{"start_date", "end_date"} {
			if v := m.Fields[field]; v != "" {
				if _, err := dates.Parse(v); err != nil {
					fail("positions."+field, v, "malformed date")
				}
			}
		}
	}
	return errs
}

// displayName assembles "Last, First Middle" from the name parts.
func displayName(rec *source.Record) string {
	name := rec.Get("last_name")
	if first := rec.Get("first_name"); first != "" {
		name += ", " + first
		if middle := rec.Get("middle_name"); middle != "" {
			name += " " + middle
		}
	}
	return name
}

// buildPosition emits one position owned by a person, with its label,
// organization, and service interval.
func buildPosition(b *reconcile.Build, parentID string, m source.Member) string {
	id := b.Mint()
	b.Add.Add(triples.Resource(id, vocab.RDFType, vocab.VivoPosition))
	b.Add.Add(triples.Resource(parentID, vocab.VivoPersonInPosition, id))
	b.Add.Add(triples.Resource(id, vocab.VivoPositionForPerson, parentID))
	b.Add.Add(triples.Resource(id, vocab.VivoPositionInOrganization, m.Fields["org"]))
	if title := m.Fields["title"]; title != "" {
		b.Add.Add(triples.Data(id, vocab.RDFSLabel, title))
	}
	if iv := b.NewInterval(m.Fields["start_date"], m.Fields["end_date"], dates.YearMonthDay); iv != "" {
		b.Add.Add(triples.Resource(id, vocab.VivoDateTimeInterval, iv))
	}
	return id
}
