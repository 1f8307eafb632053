package extraction

import "strings"

const visionPrompt = `Analyze the following document image.
1.  Identify the specific type of document. Use clear, common French terms where applicable (e.g., "Carte Nationale d'Identité", "Passeport Français", "Facture EDF", "Fiche de Paie", "Avis d'Imposition", "RIB", "Carte Grise").
2.  Extract all key information relevant to this document type.
3.  Return the information ONLY as a JSON object. The JSON object should have a primary field named "documentType" containing your identification from step 1. Include other fields like "fullName", "dateOfBirth", "expiryDate", "documentNumber", "address", "providerName", "amount", "issueDate", "nationality", etc., as appropriate for the identified document.

Example for an ID card:
{
  "documentType": "Carte Nationale d'Identité Française",
  "lastName": "Dupont",
  "firstName": "Jean",
  "dateOfBirth": "01/01/1980",
  "documentNumber": "1234567890AB",
  "issueDate": "10/01/2020",
  "expiryDate": "09/01/2030"
}

Example for an electricity bill:
{
  "documentType": "Facture Électricité",
  "providerName": "EDF",
  "customerName": "Michelle Martin",
  "address": "123 Rue de Paris, 75001 Paris",
  "billDate": "15/04/2025",
  "amountEUR": "75.50",
  "consumptionPeriod": "01/02/2025 - 31/03/2025"
}
`

func buildTextPrompt(content, hint string) string {
	var b strings.Builder
	b.WriteString("You are a document analysis assistant. Extract key information from the document.\n")
	if hint != "" {
		b.WriteString("This document is a " + hint + ".\n")
	} else {
		b.WriteString("Determine the document type first.\n")
	}
	b.WriteString(`
Return ONLY a JSON object with appropriate fields based on the document type.
For ID cards include: fullName, dateOfBirth, issueDate, expiryDate.
For passports include: fullName, passportNumber, nationality, dateOfBirth, issueDate, expiryDate.
For bills/invoices include: provider, customerName, address, billDate, amount.
For other documents, extract what seems relevant.

Here is the document content:
`)
	b.WriteString(content)
	return b.String()
}
