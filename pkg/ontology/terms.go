package ontology

// rdf, rdfs, owl
const (
	RDFType            = RDF + "type"
	RDFSLabel          = RDFS + "label"
	RDFSComment        = RDFS + "comment"
	RDFSSubClassOf     = RDFS + "subClassOf"
	RDFSClass          = RDFS + "Class"
	OWLClass           = OWL + "Class"
	OWLNamedIndividual = OWL + "NamedIndividual"
)

// xsd datatypes
const (
	XSDString   = XSD + "string"
	XSDInteger  = XSD + "integer"
	XSDInt      = XSD + "int"
	XSDBoolean  = XSD + "boolean"
	XSDDate     = XSD + "date"
	XSDDateTime = XSD + "dateTime"
	XSDDecimal  = XSD + "decimal"
)

// dublin core, foaf, time, geosparql
const (
	DCTermsCreated     = DCTerms + "created"
	DCTermsCreator     = DCTerms + "creator"
	DCTermsDescription = DCTerms + "description"
	FOAFHomepage       = FOAF + "homepage"
	TimeHasTime        = Time + "hasTime"
	GeoWKTLiteral      = GeoSPARQL + "wktLiteral"
)

// Web Annotation
const (
	OAAnnotation  = OA + "Annotation"
	OAMotivation  = OA + "Motivation"
	OAMotivatedBy = OA + "motivatedBy"
	OABodyValue   = OA + "bodyValue"
	OAHasTarget   = OA + "hasTarget"
)

// SHACL
const (
	SHNodeShape   = SHACL + "NodeShape"
	SHTargetClass = SHACL + "targetClass"
	SHProperty    = SHACL + "property"
	SHPath        = SHACL + "path"
	SHMinCount    = SHACL + "minCount"
	SHMaxCount    = SHACL + "maxCount"
	SHDatatype    = SHACL + "datatype"
	SHNodeKind    = SHACL + "nodeKind"
	SHIRI         = SHACL + "IRI"

	// named graph of RDF4J holding SHACL shapes
	SHACLShapeGraph = "http://rdf4j.org/schema/rdf4j#SHACLShapeGraph"
)

// OESO generic properties
const (
	OESOStartDate  = OESO + "startDate"
	OESOEndDate    = OESO + "endDate"
	OESOHasKeyword = OESO + "hasKeyword"
	OESOHasPart    = OESO + "hasPart"
	OESOIsPartOf   = OESO + "isPartOf"
	OESOHasId      = OESO + "hasId"
)

// OESO variables
const (
	OESOVariable             = OESO + "Variable"
	OESOEntity               = OESO + "Entity"
	OESOQuality              = OESO + "Quality"
	OESOMethod               = OESO + "Method"
	OESOUnit                 = OESO + "Unit"
	OESOHasLongName          = OESO + "hasLongName"
	OESOHasSynonym           = OESO + "hasSynonym"
	OESOHasEntity            = OESO + "hasEntity"
	OESOHasQuality           = OESO + "hasQuality"
	OESOHasMethod            = OESO + "hasMethod"
	OESOHasUnit              = OESO + "hasUnit"
	OESOHasTraitURI          = OESO + "hasTraitUri"
	OESOHasTraitName         = OESO + "hasTraitName"
	OESOHasDimension         = OESO + "hasDimension"
	OESOHasSymbol            = OESO + "hasSymbol"
	OESOHasAlternativeSymbol = OESO + "hasAlternativeSymbol"
)

// OESO projects
const (
	OESOProject                  = OESO + "Project"
	OESOHasShortname             = OESO + "hasShortname"
	OESOHasObjective             = OESO + "hasObjective"
	OESOHasExperiment            = OESO + "hasExperiment"
	OESOHasAdministrativeContact = OESO + "hasAdministrativeContact"
	OESOHasCoordinator           = OESO + "hasCoordinator"
	OESOHasScientificContact     = OESO + "hasScientificContact"
	OESOHasRelatedProject        = OESO + "hasRelatedProject"
	OESOHasFinancialFunding      = OESO + "hasFinancialFunding"
)

// OESO experiments
const (
	OESOExperiment              = OESO + "Experiment"
	OESOScientificSupervisor    = OESO + "ScientificSupervisor"
	OESOTechnicalSupervisor     = OESO + "TechnicalSupervisor"
	OESOHasDevice               = OESO + "hasDevice"
	OESOHasInfrastructure       = OESO + "hasInfrastructure"
	OESOHasProject              = OESO + "hasProject"
	OESOHasScientificSupervisor = OESO + "hasScientificSupervisor"
	OESOHasTechnicalSupervisor  = OESO + "hasTechnicalSupervisor"
	OESOHasCampaign             = OESO + "hasCampaign"
	OESOHasSpecies              = OESO + "hasSpecies"
	OESOHasGroup                = OESO + "hasGroup"
	OESOHasSensor               = OESO + "hasSensor"
	OESOIsPublic                = OESO + "isPublic"
	OESOMeasures                = OESO + "measures"
	OESOParticipatesIn          = OESO + "participatesIn"
	OESOStudyEffectOf           = OESO + "studyEffectOf"
)

// OESO infrastructures, factors, devices and germplasm
const (
	OESOInfrastructure         = OESO + "Infrastructure"
	OESOInfrastructureFacility = OESO + "InfrastructureFacility"
	OESOInfrastructureTeam     = OESO + "InfrastructureTeam"
	OESOInstallation           = OESO + "Installation"
	OESOHasFacility            = OESO + "hasFacility"
	OESOFactor                 = OESO + "Factor"
	OESOFactorLevel            = OESO + "FactorLevel"
	OESOHasFactorLevel         = OESO + "hasFactorLevel"
	OESOHasFactor              = OESO + "hasFactor"
	OESOHasCategory            = OESO + "hasCategory"
	OESOSensingDevice          = OESO + "SensingDevice"
	OESOGermplasm              = OESO + "Germplasm"
	OESOSpecies                = OESO + "Species"
	OESOVariety                = OESO + "Variety"
	OESOAccession              = OESO + "Accession"
	OESOPlantMaterialLot       = OESO + "PlantMaterialLot"
	OESOFromSpecies            = OESO + "fromSpecies"
	OESOFromVariety            = OESO + "fromVariety"
	OESOFromAccession          = OESO + "fromAccession"
	OESOFromInstitute          = OESO + "fromInstitute"
	OESOHasProductionYear      = OESO + "hasProductionYear"
	OESOHasGermplasm           = OESO + "hasGermplasm"
)

// OESO vectors, scientific objects, events, data files
const (
	OESOVector             = OESO + "Vector"
	OESOHasBrand           = OESO + "hasBrand"
	OESOHasSerialNumber    = OESO + "hasSerialNumber"
	OESOInServiceDate      = OESO + "inServiceDate"
	OESODateOfPurchase     = OESO + "dateOfPurchase"
	OESOPersonInCharge     = OESO + "personInCharge"
	OESOScientificObject   = OESO + "ScientificObject"
	OESOHasGeometry        = OESO + "hasGeometry"
	OESOEvent              = OESO + "Event"
	OESOConcerns           = OESO + "concerns"
	OESOProvenance         = OESO + "Provenance"
	OESOSensor             = OESO + "Sensor"
	OESOImage              = OESO + "Image"
	OESOHemisphericalImage = OESO + "HemisphericalImage"
	OESODataFile           = OESO + "DataFile"
)
