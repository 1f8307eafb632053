package classification

const (
	TagCarteIdentite        = "Carte Nationale d'Identité"
	TagPasseport            = "Passeport"
	TagTitreSejour          = "Titre de Séjour"
	TagPermisConduire       = "Permis de Conduire"
	TagActeNaissance        = "Acte de Naissance"
	TagLivretFamille        = "Livret de Famille"
	TagJustificatifDomicile = "Justificatif de Domicile"
	TagQuittanceLoyer       = "Quittance de Loyer"
	TagFactureElectricite   = "Facture Électricité"
	TagFactureGaz           = "Facture Gaz"
	TagFactureEau           = "Facture Eau"
	TagFactureInternet      = "Facture Internet"
	TagFactureTelephone     = "Facture Téléphone"
	TagAssuranceHabitation  = "Assurance Habitation"
	TagTaxeFonciere         = "Taxe Foncière"
	TagContratTravail       = "Contrat de Travail"
	TagFichePaie            = "Fiche de Paie"
	TagAttestationEmployeur = "Attestation Employeur"
	TagAvisImposition       = "Avis d'Imposition"
	TagRIB                  = "RIB (Relevé d'Identité Bancaire)"
	TagKbis                 = "Extrait Kbis"
	TagCarteVitale          = "Carte Vitale"
	TagAttestationMutuelle  = "Attestation Mutuelle"
	TagOrdonnanceMedicale   = "Ordonnance Médicale"
	TagCarteGrise           = "Carte Grise (Certificat d'Immatriculation)"
	TagAssuranceVehicule    = "Assurance Véhicule"
	TagDiplome              = "Diplôme"
	TagCertificatScolarite  = "Certificat de Scolarité"
	TagCV                   = "CV (Curriculum Vitae)"
	TagLettreMotivation     = "Lettre de Motivation"
	TagReleveBancaire       = "Relevé de Compte Bancaire"
	TagDocumentImportant    = "Document Important"
	TagFactureGenerale      = "Facture Générale"
	TagAttestationGenerale  = "Attestation Générale"

	TagDocumentPaiement = "Document de Paiement"
	TagImage            = "Image"
)

type tagKeywords struct {
	tag      string
	keywords []string
}

// tagDictionary is ordered so generated tag sets are stable.
var tagDictionary = []tagKeywords{
	{TagCarteIdentite, []string{"carte nationale", "cni", "identité", "id card", "national id"}},
	{TagPasseport, []string{"passeport", "passport"}},
	{TagTitreSejour, []string{"titre de séjour", "carte de séjour", "residence permit"}},
	{TagPermisConduire, []string{"permis de conduire", "permis b", "driver's license", "driving license"}},
	{TagActeNaissance, []string{"acte de naissance", "birth certificate"}},
	{TagLivretFamille, []string{"livret de famille", "family record book"}},
	{TagQuittanceLoyer, []string{"quittance de loyer", "rent receipt"}},
	{TagFactureElectricite, []string{"facture d'électricité", "électricité", "edf", "engie electricite", "totalenergies electricite", "electricity bill"}},
	{TagFactureGaz, []string{"facture de gaz", "gaz", "engie gaz", "totalenergies gaz", "gas bill"}},
	{TagFactureEau, []string{"facture d'eau", "eau", "suez", "veolia eau", "water bill"}},
	{TagFactureInternet, []string{"facture internet", "freebox", "livebox", "sfr box", "bouygues box", "internet bill", "isp bill"}},
	{TagFactureTelephone, []string{"facture téléphone", "facture mobile", "phone bill", "mobile bill"}},
	{TagAssuranceHabitation, []string{"assurance habitation", "home insurance", "maif habitation", "macif habitation", "matmut habitation"}},
	{TagTaxeFonciere, []string{"taxe foncière", "property tax"}},
	{TagContratTravail, []string{"contrat de travail", "employment contract"}},
	{TagFichePaie, []string{"fiche de paie", "bulletin de salaire", "payslip", "paystub"}},
	{TagAttestationEmployeur, []string{"attestation employeur", "certificat de travail", "employer certificate"}},
	{TagAvisImposition, []string{"avis d'imposition", "impôt sur le revenu", "tax assessment", "tax return"}},
	{TagRIB, []string{"rib", "relevé d'identité bancaire", "bank account details"}},
	{TagKbis, []string{"kbis", "extrait kbis", "company registration"}},
	{TagCarteVitale, []string{"carte vitale", "attestation de droits", "sécurité sociale", "social security card"}},
	{TagAttestationMutuelle, []string{"attestation mutuelle", "mutuelle santé", "health insurance certificate"}},
	{TagOrdonnanceMedicale, []string{"ordonnance médicale", "prescription"}},
	{TagCarteGrise, []string{"carte grise", "certificat d'immatriculation", "vehicle registration"}},
	{TagAssuranceVehicule, []string{"assurance véhicule", "assurance auto", "assurance moto", "vehicle insurance"}},
	{TagDiplome, []string{"diplôme", "diploma", "degree certificate"}},
	{TagCertificatScolarite, []string{"certificat de scolarité", "school certificate", "proof of enrollment"}},
	{TagCV, []string{"cv", "curriculum vitae", "resume"}},
	{TagLettreMotivation, []string{"lettre de motivation", "cover letter"}},
	{TagReleveBancaire, []string{"relevé de compte", "relevé bancaire", "bank statement"}},
}

// housingTags trigger the Justificatif de Domicile umbrella tag.
var housingTags = []string{
	TagFactureElectricite,
	TagFactureGaz,
	TagFactureEau,
	TagQuittanceLoyer,
	TagAssuranceHabitation,
}

const housingTaxKeyword = "taxe d'habitation"

var (
	invoiceFamilyMarkers = []string{"facture"}
	paymentFamilyMarkers = []string{"paiement", "fiche de paie", "rib"}
)

// genericDocumentTypes are placeholders that never become a synthesized tag.
var genericDocumentTypes = []string{"generic document", "generic_document", "document"}

// Catalog lists every predefined tag.
func Catalog() []string {
	out := make([]string, 0, len(tagDictionary)+4)
	for _, entry := range tagDictionary {
		out = append(out, entry.tag)
	}
	return append(out, TagJustificatifDomicile, TagDocumentImportant, TagFactureGenerale, TagAttestationGenerale)
}
