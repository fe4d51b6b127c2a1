// Package vocab holds the RDF vocabulary used by the reconciliation
// engine: namespace prefixes, predicate IRIs, and entity type IRIs for
// the people, grant, and course ingests. Tagged names ("vivo:Grant")
// are expanded to full IRIs with Expand.
package vocab

import "strings"

// Namespace prefixes known to the engine.
var namespaces = map[string]string{
	"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":  "http://www.w3.org/2000/01/rdf-schema#",
	"owl":   "http://www.w3.org/2002/07/owl#",
	"xsd":   "http://www.w3.org/2001/XMLSchema#",
	"foaf":  "http://xmlns.com/foaf/0.1/",
	"bibo":  "http://purl.org/ontology/bibo/",
	"vivo":  "http://vivoweb.org/ontology/core#",
	"vcard": "http://www.w3.org/2006/vcard/ns#",
	"obo":   "http://purl.obolibrary.org/obo/",
	"local": "http://campusgraph.org/ontology/local#",
}

// Expand converts a tagged name such as "vivo:Grant" to its full IRI.
// Names that carry no known prefix are returned unchanged, so full IRIs
// pass through.
func Expand(tagged string) string {
	i := strings.Index(tagged, ":")
	if i < 0 {
		return tagged
	}
	prefix, local := tagged[:i], tagged[i+1:]
	ns, ok := namespaces[prefix]
	if !ok {
		return tagged
	}
	return ns + local
}

// Prefix returns the namespace IRI registered for a prefix, or "".
func Prefix(p string) string {
	return namespaces[p]
}

// Core predicates.
const (
	RDFType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel = "http://www.w3.org/2000/01/rdf-schema#label"
	OWLThing  = "http://www.w3.org/2002/07/owl#Thing"
)

// VIVO predicates and types.
const (
	VivoDateTime          = "http://vivoweb.org/ontology/core#dateTime"
	VivoDateTimePrecision = "http://vivoweb.org/ontology/core#dateTimePrecision"
	VivoDateTimeValue     = "http://vivoweb.org/ontology/core#DateTimeValue"
	VivoDateTimeInterval  = "http://vivoweb.org/ontology/core#dateTimeInterval"
	VivoIntervalType      = "http://vivoweb.org/ontology/core#DateTimeInterval"
	VivoStart             = "http://vivoweb.org/ontology/core#start"
	VivoEnd               = "http://vivoweb.org/ontology/core#end"
	VivoRelates           = "http://vivoweb.org/ontology/core#relates"
	VivoContributingRole  = "http://vivoweb.org/ontology/core#contributingRole"
	VivoRoleContributesTo = "http://vivoweb.org/ontology/core#roleContributesTo"

	YearPrecision         = "http://vivoweb.org/ontology/core#yearPrecision"
	YearMonthPrecision    = "http://vivoweb.org/ontology/core#yearMonthPrecision"
	YearMonthDayPrecision = "http://vivoweb.org/ontology/core#yearMonthDayPrecision"
)

// Contact card (vCard) predicates and types.
const (
	VCardIndividual     = "http://www.w3.org/2006/vcard/ns#Individual"
	VCardName           = "http://www.w3.org/2006/vcard/ns#Name"
	VCardHasName        = "http://www.w3.org/2006/vcard/ns#hasName"
	HasContactInfo      = "http://purl.obolibrary.org/obo/ARG_2000028"
	ContactInfoOf       = "http://purl.obolibrary.org/obo/ARG_2000029"
	VCardGivenName      = "http://www.w3.org/2006/vcard/ns#givenName"
	VCardFamilyName     = "http://www.w3.org/2006/vcard/ns#familyName"
	VCardAdditionalName = "http://www.w3.org/2006/vcard/ns#additionalName"
	VCardHonorificPre   = "http://www.w3.org/2006/vcard/ns#honorificPrefix"
	VCardHonorificSuf   = "http://www.w3.org/2006/vcard/ns#honorificSuffix"
	VCardHasEmail       = "http://www.w3.org/2006/vcard/ns#hasEmail"
	VCardEmail          = "http://www.w3.org/2006/vcard/ns#email"
	VCardEmailType      = "http://www.w3.org/2006/vcard/ns#Email"
	VCardHasTelephone   = "http://www.w3.org/2006/vcard/ns#hasTelephone"
	VCardTelephone      = "http://www.w3.org/2006/vcard/ns#telephone"
	VCardTelephoneType  = "http://www.w3.org/2006/vcard/ns#Telephone"
	VCardFaxType        = "http://www.w3.org/2006/vcard/ns#Fax"
	VCardHasTitle       = "http://www.w3.org/2006/vcard/ns#hasTitle"
	VCardTitle          = "http://www.w3.org/2006/vcard/ns#title"
	VCardTitleType      = "http://www.w3.org/2006/vcard/ns#Title"
)

// Local ontology predicates and types. These carry the natural keys and
// institutional markers the systems of record reconcile on.
const (
	LocalUFID             = "http://campusgraph.org/ontology/local#ufid"
	LocalDeptID           = "http://campusgraph.org/ontology/local#deptID"
	LocalSponsorID        = "http://campusgraph.org/ontology/local#sponsorID"
	LocalContractNumber   = "http://campusgraph.org/ontology/local#contractNumber"
	LocalCourseNum        = "http://campusgraph.org/ontology/local#courseNum"
	LocalSectionNum       = "http://campusgraph.org/ontology/local#sectionNum"
	LocalSectionForCourse = "http://campusgraph.org/ontology/local#sectionForCourse"
	LocalGatorlink        = "http://campusgraph.org/ontology/local#glid"
	LocalPrivacyFlag      = "http://campusgraph.org/ontology/local#privacyFlag"
	LocalHomeDept         = "http://campusgraph.org/ontology/local#homeDept"
	LocalHarvestedBy      = "http://campusgraph.org/ontology/local#harvestedBy"
	LocalDateHarvested    = "http://campusgraph.org/ontology/local#dateHarvested"
	LocalEntity           = "http://campusgraph.org/ontology/local#Entity"
	LocalCurrentEntity    = "http://campusgraph.org/ontology/local#CurrentEntity"
	LocalCourse           = "http://campusgraph.org/ontology/local#Course"
	LocalCourseSection    = "http://campusgraph.org/ontology/local#CourseSection"
	LocalSectionInTerm    = "http://campusgraph.org/ontology/local#sectionInTerm"

	LocalClinicalFaculty  = "http://campusgraph.org/ontology/local#ClinicalFaculty"
	LocalHousestaff       = "http://campusgraph.org/ontology/local#Housestaff"
	LocalTemporaryFaculty = "http://campusgraph.org/ontology/local#TemporaryFaculty"
)

// Grant predicates and types.
const (
	VivoGrant            = "http://vivoweb.org/ontology/core#Grant"
	VivoTotalAwardAmount = "http://vivoweb.org/ontology/core#totalAwardAmount"
	VivoGrantDirectCosts = "http://vivoweb.org/ontology/core#grantDirectCosts"
	VivoSponsorAwardID   = "http://vivoweb.org/ontology/core#sponsorAwardId"
	VivoLocalAwardID     = "http://vivoweb.org/ontology/core#localAwardId"
	VivoAdministeredBy   = "http://vivoweb.org/ontology/core#administeredBy"
	VivoGrantAwardedBy   = "http://vivoweb.org/ontology/core#grantAwardedBy"

	VivoRole             = "http://vivoweb.org/ontology/core#Role"
	VivoResearcherRole   = "http://vivoweb.org/ontology/core#ResearcherRole"
	VivoInvestigatorRole = "http://vivoweb.org/ontology/core#InvestigatorRole"
	VivoPIRole           = "http://vivoweb.org/ontology/core#PrincipalInvestigatorRole"
	VivoCoPIRole         = "http://vivoweb.org/ontology/core#CoPrincipalInvestigatorRole"
	VivoPIRoleOf         = "http://vivoweb.org/ontology/core#principalInvestigatorRoleOf"
	VivoCoPIRoleOf       = "http://vivoweb.org/ontology/core#co-PrincipalInvestigatorRoleOf"
	VivoInvRoleOf        = "http://vivoweb.org/ontology/core#investigatorRoleOf"

	VivoTeacherRole    = "http://vivoweb.org/ontology/core#TeacherRole"
	VivoTeacherRoleOf  = "http://vivoweb.org/ontology/core#teacherRoleOf"
	VivoRoleRealizedIn = "http://vivoweb.org/ontology/core#roleRealizedIn"
	VivoAcademicTerm   = "http://vivoweb.org/ontology/core#AcademicTerm"
)

// People types and position predicates.
const (
	FOAFPerson       = "http://xmlns.com/foaf/0.1/Person"
	FOAFOrganization = "http://xmlns.com/foaf/0.1/Organization"
	VivoFaculty      = "http://vivoweb.org/ontology/core#FacultyMember"
	VivoPostdoc      = "http://vivoweb.org/ontology/core#Postdoc"
	VivoCourtesyFac  = "http://vivoweb.org/ontology/core#CourtesyFaculty"
	VivoNonAcademic  = "http://vivoweb.org/ontology/core#NonAcademic"
	VivoPosition     = "http://vivoweb.org/ontology/core#Position"

	VivoPersonInPosition       = "http://vivoweb.org/ontology/core#personInPosition"
	VivoPositionForPerson      = "http://vivoweb.org/ontology/core#positionForPerson"
	VivoPositionInOrganization = "http://vivoweb.org/ontology/core#positionInOrganization"
)
