package application

import "fmt"

const contactPromptTemplate = `You are an intelligent contact information extractor.

Given the following web page text,
extract all relevant contact information (phone and email, exclude facsimile numbers).

Return exactly a single JSON array and nothing else:
[
  {
    "type": "phone" | "email",
    "value": "actual contact info",
  },
  ...
]

Web page text:
"""
%s
"""
`

const legalDocumentPromptTemplate = `Create a simple legal document for filing a formal complaint and requesting resolution.

COMPANY/INDIVIDUAL: %s
COMPLAINT DETAILS: %s

Please generate a formal legal document that only includes the following sections:

1. BACKGROUND: Detail the facts and circumstances of the complaint
2. SPECIFIC COMPLAINTS: List each specific issue with clear descriptions
3. LEGAL BASIS: Reference relevant consumer protection laws or regulations
4. DEMAND FOR RESOLUTION: Specific, actionable steps required to resolve the complaint
5. TIMELINE: Reasonable deadlines for response and resolution
6. CONSEQUENCES OF NON-COMPLIANCE: What actions will be taken if unresolved

Make the document professional, legally sound, and focused on complete resolution.
Include specific deadlines and clear expectations. Use formal legal language
while remaining clear and actionable. Ensure all demands are reasonable and
directly related to resolving the complaint described. Remove any markdown and output normal text.
Do not include any sections other than those listed above. Do not include a signature/date section or a title.
`

// ContactPrompt pede ao modelo o array JSON de contatos da janela.
func ContactPrompt(window string) string {
	return fmt.Sprintf(contactPromptTemplate, window)
}

// LegalDocumentPrompt pede o corpo da carta (sem título nem assinatura,
// que o compositor adiciona).
func LegalDocumentPrompt(respondent, resolution string) string {
	return fmt.Sprintf(legalDocumentPromptTemplate, respondent, resolution)
}
