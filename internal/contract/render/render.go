// Package render assembles the final contract document text.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/halaltools/amanah/internal/clock"
	"github.com/halaltools/amanah/internal/contract/template"
)

const footer = "IN WITNESS WHEREOF, the parties have executed this Agreement:\n\n" +
	"Signature of Party A: _________________________\n\n" +
	"Signature of Party B: _________________________"

// Renderer turns a contract type plus form fields into document text.
type Renderer struct {
	clock clock.Clock
}

func New(clk clock.Clock) *Renderer {
	return &Renderer{clock: clk}
}

// Render builds the document. Unknown types return template.ErrUnknownType;
// missing fields render as the blank placeholder, never an error.
func (r *Renderer) Render(contractType string, fields template.Fields) (string, error) {
	clauses, err := template.Get(contractType)
	if err != nil {
		return "", err
	}

	var doc strings.Builder
	doc.WriteString(header(fields, r.clock.Now()))
	doc.WriteString(partyBlock(contractType, fields))

	rendered := make([]string, 0, len(clauses))
	for i, clause := range clauses {
		rendered = append(rendered, fmt.Sprintf("%d. %s\n%s\n", i+1, clause.Title, clause.Render(fields)))
	}
	doc.WriteString(strings.Join(rendered, "\n"))

	doc.WriteString("\n")
	doc.WriteString(footer)
	return doc.String(), nil
}

func header(fields template.Fields, now time.Time) string {
	date := fields.GetOr("Agreement Date", now.Format("2 January 2006"))
	return fmt.Sprintf("\n\nThis Agreement is entered into on %s between:\n\n", date)
}

func partyBlock(contractType string, f template.Fields) string {
	switch contractType {
	case "NDA":
		return fmt.Sprintf("Party A: %s\nParty B: %s\n\n", f.Get("Party A"), f.Get("Party B"))
	case "Freelance":
		return fmt.Sprintf("Client: %s\nFreelancer: %s\n\n", f.Get("Client Name"), f.Get("Freelancer Name"))
	case "Partnership":
		return fmt.Sprintf("Partner A: %s\nPartner B: %s\nBusiness Name: %s\n\n",
			f.Get("Partner A"), f.Get("Partner B"), f.Get("Business Name"))
	case "Mudarabah":
		return fmt.Sprintf("Investor: %s\nEntrepreneur: %s\n\n", f.Get("Investor Name"), f.Get("Entrepreneur Name"))
	case "Musharakah":
		return fmt.Sprintf("Partner A: %s\nPartner B: %s\n\n", f.Get("Partner A"), f.Get("Partner B"))
	case "QardHasan":
		return fmt.Sprintf("Lender: %s\nBorrower: %s\n\n", f.Get("Lender"), f.Get("Borrower"))
	case "Employment":
		return fmt.Sprintf("Employer: %s\nEmployee: %s\n\n", f.Get("Employer Name"), f.Get("Employee Name"))
	default:
		return fmt.Sprintf("Party A: %s\nParty B: %s\n\n", template.Placeholder, template.Placeholder)
	}
}
