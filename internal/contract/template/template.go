// Package template holds the clause library for every supported contract type.
// The library is built at init and shared read-only.
package template

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder substitutes any field the caller did not supply.
const Placeholder = "__________"

var ErrUnknownType = errors.New("unknown contract type")

// Fields carries the caller-supplied form values.
type Fields map[string]string

// Get returns the trimmed value for key, or the blank placeholder.
func (f Fields) Get(key string) string {
	if v := strings.TrimSpace(f[key]); v != "" {
		return v
	}
	return Placeholder
}

// GetOr returns the trimmed value for key, or fallback when absent.
func (f Fields) GetOr(key, fallback string) string {
	if v := strings.TrimSpace(f[key]); v != "" {
		return v
	}
	return fallback
}

// Clause is one numbered section of a contract.
type Clause struct {
	ID       string
	Title    string
	Required bool
	Render   func(Fields) string
}

// Get returns the ordered clause list for a contract type.
func Get(contractType string) ([]Clause, error) {
	clauses, ok := library[contractType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, contractType)
	}
	return clauses, nil
}

// Types lists the supported contract types.
func Types() []string {
	types := make([]string, 0, len(library))
	for t := range library {
		types = append(types, t)
	}
	return types
}

func static(text string) func(Fields) string {
	return func(Fields) string { return text }
}

var library = map[string][]Clause{
	"NDA": {
		{
			ID: "purpose", Title: "Purpose", Required: true,
			Render: static("The Parties wish to explore a business relationship and may disclose confidential information."),
		},
		{
			ID: "confidential_info", Title: "Definition of Confidential Information", Required: true,
			Render: static(`"Confidential Information" means any non-public information disclosed in any form, including written, oral, or digital.`),
		},
		{
			ID: "obligations", Title: "Obligations of Receiving Party", Required: true,
			Render: static("Each Party agrees not to disclose confidential information to third parties without prior written consent."),
		},
		{
			ID: "term", Title: "Term and Termination", Required: false,
			Render: static("This Agreement shall remain in effect for 2 years unless terminated earlier in writing by either Party."),
		},
		{
			ID: "governing_law", Title: "Governing Law", Required: false,
			Render: static("This Agreement shall be governed by the laws of the Islamic Republic of Pakistan."),
		},
	},

	"Freelance": {
		{
			ID: "scope", Title: "Scope of Work", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Freelancer agrees to perform the following services: %s.", f.Get("Service Description"))
			},
		},
		{
			ID: "payment", Title: "Payment Terms", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Client agrees to pay a total of %s upon successful completion of the service.", f.Get("Amount"))
			},
		},
		{
			ID: "deadline", Title: "Delivery Deadline", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The service must be completed by %s.", f.Get("Deadline"))
			},
		},
		{
			ID: "ownership", Title: "Ownership of Work", Required: false,
			Render: static("All deliverables produced under this Agreement shall be the exclusive property of the Client upon final payment."),
		},
		{
			ID: "termination", Title: "Termination Clause", Required: false,
			Render: static("Either party may terminate this Agreement with a 7-day written notice."),
		},
	},

	"Partnership": {
		{
			ID: "purpose", Title: "Purpose", Required: true,
			Render: static("The Partners agree to operate a business together for mutual benefit under the business name provided."),
		},
		{
			ID: "capital", Title: "Capital Contribution", Required: true,
			Render: static("Each Partner agrees to contribute capital to the business as mutually decided."),
		},
		{
			ID: "profit_sharing", Title: "Profit Sharing", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Profits and losses shall be shared as follows: %s to each Partner.", f.Get("Share Percentage"))
			},
		},
		{
			ID: "management", Title: "Management Responsibilities", Required: false,
			Render: static("All major business decisions will be made jointly and documented."),
		},
		{
			ID: "governing_law", Title: "Governing Law", Required: false,
			Render: static("This Agreement shall be governed by the laws of the Islamic Republic of Pakistan."),
		},
	},

	"Mudarabah": {
		{
			ID: "parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This Agreement is made between the Investor (Rabb-ul-Maal): %s, and the Entrepreneur (Mudarib): %s.",
					f.Get("Investor Name"), f.Get("Entrepreneur Name"))
			},
		},
		{
			ID: "investment", Title: "Investment Amount", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Investor agrees to provide a capital of %s for the business venture.", f.Get("Investment Amount"))
			},
		},
		{
			ID: "profit_sharing", Title: "Profit Sharing Ratio", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Profits will be shared as follows: %s to the Mudarib, and the remainder to the Rabb-ul-Maal.", f.Get("Profit Ratio"))
			},
		},
		{
			ID: "duration", Title: "Duration of Agreement", Required: false,
			Render: func(f Fields) string {
				return fmt.Sprintf("This Agreement shall remain in effect for %s unless terminated earlier.", f.Get("Duration"))
			},
		},
		{
			ID: "termination", Title: "Termination Conditions", Required: false,
			Render: static("Either party may terminate the Agreement with due notice, provided all financial matters are settled."),
		},
	},

	"Musharakah": {
		{
			ID: "partners", Title: "Partners and Contributions", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Partner A: %s and Partner B: %s agree to jointly invest in the business.",
					f.Get("Partner A"), f.Get("Partner B"))
			},
		},
		{
			ID: "capital_split", Title: "Capital Contributions", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Partner A contributes %s, and Partner B contributes %s.", f.Get("Capital A"), f.Get("Capital B"))
			},
		},
		{
			ID: "profit_loss", Title: "Profit and Loss Sharing", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Profits and losses will be shared as agreed: %s.", f.Get("Profit Ratio"))
			},
		},
		{
			ID: "management_roles", Title: "Roles and Responsibilities", Required: false,
			Render: static("Both partners shall participate in management, unless otherwise agreed."),
		},
		{
			ID: "termination", Title: "Termination Clause", Required: false,
			Render: static("The partnership may be dissolved with mutual consent or breach of terms."),
		},
	},

	"QardHasan": {
		{
			ID: "loan_parties", Title: "Parties Involved", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Lender: %s, Borrower: %s.", f.Get("Lender"), f.Get("Borrower"))
			},
		},
		{
			ID: "loan_amount", Title: "Loan Amount and Purpose", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Borrower acknowledges receipt of %s for the purpose: %s.", f.Get("Loan Amount"), f.Get("Purpose"))
			},
		},
		{
			ID: "repayment_terms", Title: "Repayment Terms", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Borrower agrees to repay the loan by %s without interest.", f.Get("Repayment Date"))
			},
		},
		{
			ID: "collateral", Title: "Collateral (if any)", Required: false,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Borrower pledges the following collateral: %s.", f.GetOr("Collateral", "None"))
			},
		},
		{
			ID: "governing_law", Title: "Governing Law", Required: false,
			Render: static("This Agreement is governed by Islamic Shariah and the laws of the Islamic Republic of Pakistan."),
		},
	},

	"Ijarah": {
		{
			ID: "lease_parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This lease is made between the Lessor: %s, and the Lessee: %s.", f.Get("Lessor"), f.Get("Lessee"))
			},
		},
		{
			ID: "leased_asset", Title: "Description of Leased Asset", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Lessor leases the following asset to the Lessee: %s.", f.Get("Asset Description"))
			},
		},
		{
			ID: "rental", Title: "Rental and Payment Schedule", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Lessee agrees to pay a rental of %s payable %s.", f.Get("Rental Amount"), f.GetOr("Payment Schedule", "monthly"))
			},
		},
		{
			ID: "maintenance", Title: "Maintenance and Ownership Risk", Required: false,
			Render: static("Ownership of the asset and major maintenance remain with the Lessor, as required by Shariah for a valid Ijarah."),
		},
		{
			ID: "termination", Title: "Termination", Required: false,
			Render: static("The lease ends on the agreed date, and the asset shall be returned in good condition, normal wear excepted."),
		},
	},

	"Wakalah": {
		{
			ID: "agency_parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This agency agreement is made between the Principal (Muwakkil): %s, and the Agent (Wakeel): %s.",
					f.Get("Principal"), f.Get("Agent"))
			},
		},
		{
			ID: "mandate", Title: "Scope of Agency", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Principal appoints the Agent to act on their behalf for: %s.", f.Get("Mandate"))
			},
		},
		{
			ID: "fee", Title: "Agency Fee", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Agent shall receive a fee of %s for services performed under this mandate.", f.Get("Fee"))
			},
		},
		{
			ID: "duty_of_care", Title: "Duty of Care", Required: false,
			Render: static("The Agent shall act honestly and with reasonable care, and shall not exceed the authority granted."),
		},
		{
			ID: "revocation", Title: "Revocation", Required: false,
			Render: static("Either party may revoke this agency with notice, subject to settlement of completed work."),
		},
	},

	"Murabaha": {
		{
			ID: "sale_parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This cost-plus sale is made between the Seller: %s, and the Buyer: %s.", f.Get("Seller"), f.Get("Buyer"))
			},
		},
		{
			ID: "subject_matter", Title: "Subject of Sale", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Seller sells the following goods to the Buyer: %s.", f.Get("Goods Description"))
			},
		},
		{
			ID: "price_disclosure", Title: "Cost and Profit Disclosure", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The cost price is %s and the agreed profit margin is %s, making the total sale price %s.",
					f.Get("Cost Price"), f.Get("Profit Margin"), f.Get("Sale Price"))
			},
		},
		{
			ID: "payment_terms", Title: "Payment Terms", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Buyer shall pay the sale price by %s. No penalty interest applies to late payment.", f.Get("Payment Date"))
			},
		},
		{
			ID: "governing_law", Title: "Governing Law", Required: false,
			Render: static("This Agreement is governed by Islamic Shariah and the laws of the Islamic Republic of Pakistan."),
		},
	},

	"Istisna": {
		{
			ID: "manufacture_parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This manufacturing contract is made between the Buyer (Mustasni): %s, and the Manufacturer (Sani): %s.",
					f.Get("Buyer"), f.Get("Manufacturer"))
			},
		},
		{
			ID: "specification", Title: "Specification of Goods", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Manufacturer agrees to produce the following per agreed specification: %s.", f.Get("Specification"))
			},
		},
		{
			ID: "price", Title: "Price and Payment", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The agreed price is %s, payable as %s.", f.Get("Price"), f.GetOr("Payment Plan", "agreed between the parties"))
			},
		},
		{
			ID: "delivery", Title: "Delivery Date", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The finished goods shall be delivered by %s.", f.Get("Delivery Date"))
			},
		},
		{
			ID: "conformity", Title: "Conformity and Rejection", Required: false,
			Render: static("Goods not conforming to the specification may be rejected by the Buyer upon delivery."),
		},
	},

	"Salam": {
		{
			ID: "salam_parties", Title: "Parties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("This forward sale is made between the Buyer: %s, and the Seller: %s.", f.Get("Buyer"), f.Get("Seller"))
			},
		},
		{
			ID: "advance_payment", Title: "Advance Payment", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Buyer pays the full price of %s in advance at the session of the contract, as required for a valid Salam.", f.Get("Price"))
			},
		},
		{
			ID: "goods_spec", Title: "Goods and Quantity", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Seller undertakes to deliver %s of %s meeting the agreed quality.", f.Get("Quantity"), f.Get("Goods Description"))
			},
		},
		{
			ID: "delivery", Title: "Delivery Date and Place", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Delivery shall take place on %s at %s.", f.Get("Delivery Date"), f.GetOr("Delivery Place", "the agreed location"))
			},
		},
		{
			ID: "default", Title: "Failure to Deliver", Required: false,
			Render: static("If the Seller cannot deliver, the advance shall be refunded in full without increase."),
		},
	},

	"Employment": {
		{
			ID: "position", Title: "Position and Duties", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Employee is engaged as %s and shall perform the duties reasonably assigned to that role.", f.Get("Position"))
			},
		},
		{
			ID: "compensation", Title: "Compensation", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("The Employer shall pay a salary of %s per %s.", f.Get("Salary"), f.GetOr("Pay Period", "month"))
			},
		},
		{
			ID: "start_date", Title: "Commencement", Required: true,
			Render: func(f Fields) string {
				return fmt.Sprintf("Employment commences on %s.", f.Get("Start Date"))
			},
		},
		{
			ID: "working_hours", Title: "Working Hours and Leave", Required: false,
			Render: static("Working hours and leave entitlements follow the Employer's policy and applicable labor law."),
		},
		{
			ID: "termination", Title: "Termination", Required: false,
			Render: func(f Fields) string {
				return fmt.Sprintf("Either party may terminate this Agreement with %s written notice.", f.GetOr("Notice Period", "30 days'"))
			},
		},
	},
}
