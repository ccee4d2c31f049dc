package clauses

var catalogEn = Catalog{
	Version: "1.0.0",
	Sections: []Section{
		{
			ID:        "5",
			Title:     "Intellectual Property",
			ToggleKey: "ip_ownership",
			Subsections: []Subsection{
				{
					ID:      "5.1",
					Title:   "Work Product",
					Content: `In this Agreement, "Work Product" means all designs, developments, inventions, works of authorship, software, source code, documentation and other deliverables that {serviceprovider} creates in the performance of the Services.`,
				},
				{
					ID:      "5.2",
					Title:   "Assignment of Work Product",
					Content: "Upon full payment of all amounts due under this Agreement, {serviceprovider} irrevocably assigns to {company} all right, title and interest in and to the Work Product. Until such full payment, {serviceprovider} retains ownership of the Work Product.",
				},
				{
					ID:      "5.3",
					Title:   "Pre-existing Materials",
					Content: "{serviceprovider} retains all rights in materials, tools and libraries owned or licensed prior to the Effective Date. To the extent such materials are incorporated into the Work Product, {serviceprovider} grants {company} a non-exclusive, royalty-free, perpetual licence to use them as part of the Work Product.",
				},
				{
					ID:      "5.4",
					Title:   "Portfolio Rights",
					Content: "{serviceprovider} retains the right to display and describe the Work Product, excluding Confidential Information, in {serviceprovider}'s portfolio and marketing materials unless {company} provides written notice to the contrary.",
				},
			},
		},
		{
			ID:        "6",
			Title:     "Confidentiality",
			ToggleKey: "confidentiality",
			Subsections: []Subsection{
				{
					ID:      "6.1",
					Title:   "Definition",
					Content: `"Confidential Information" means any non-public information disclosed by one party to the other in connection with this Agreement that is designated as confidential or that reasonably should be understood to be confidential given the nature of the information.`,
				},
				{
					ID:      "6.2",
					Title:   "Obligations",
					Content: "The receiving party shall hold the Confidential Information in strict confidence, use it only for purposes of this Agreement, and protect it with no less than reasonable care.",
				},
				{
					ID:      "6.3",
					Title:   "Exceptions",
					Content: "Confidential Information does not include information that is or becomes publicly available through no fault of the receiving party, was rightfully known prior to disclosure, or is independently developed without use of the Confidential Information.",
				},
			},
		},
		{
			ID:        "7",
			Title:     "Ownership and Return of Materials",
			ToggleKey: "confidentiality",
			Subsections: []Subsection{
				{
					ID:      "7.1",
					Title:   "Return of Materials",
					Content: "Upon termination of this Agreement or upon written request, each party shall promptly return or destroy all Confidential Information of the other party and certify in writing that it has done so.",
				},
			},
		},
		{
			ID:        "8",
			Title:     "Indemnification and Limitation of Liability",
			ToggleKey: "limitation_of_liability",
			Subsections: []Subsection{
				{
					ID:      "8.1",
					Title:   "Limitation of Liability",
					Content: "Neither party shall be liable for any indirect, incidental, special or consequential damages arising out of this Agreement, even if advised of the possibility of such damages.",
				},
				{
					ID:      "8.2",
					Title:   "Liability Cap",
					Content: "Each party's aggregate liability under this Agreement shall not exceed the total fees paid or payable by {company} to {serviceprovider} under this Agreement.",
				},
			},
		},
		{
			ID:        "9",
			Title:     "No Conflict of Interest",
			ToggleKey: "non_solicitation",
			Subsections: []Subsection{
				{
					ID:      "9.1",
					Title:   "Non-Solicitation",
					Content: "During the term of this Agreement and for twelve (12) months thereafter, neither party shall solicit for employment any employee or contractor of the other party who was directly involved in the Services.",
				},
			},
		},
		{
			ID:    "10",
			Title: "Term and Termination",
			Subsections: []Subsection{
				{
					ID:      "10.1",
					Title:   "Term",
					Content: "This Agreement takes effect on {effectivedate} and continues until {terminationdate} or until the Services are complete, unless terminated earlier in accordance with this Section.",
				},
				{
					ID:      "10.2",
					Title:   "Termination for Convenience",
					Content: "Either party may terminate this Agreement for convenience on {noticeperiod} days' written notice. {company} shall pay for all Services performed up to the effective date of termination.",
				},
				{
					ID:      "10.3",
					Title:   "Termination for Cause",
					Content: "Either party may terminate this Agreement immediately on written notice if the other party materially breaches this Agreement and fails to cure the breach within {noticeperiod} days of receiving notice of it.",
				},
			},
		},
		{
			ID:    "11",
			Title: "Support and Warranty Period",
			Subsections: []Subsection{
				{
					ID:      "11.1",
					Title:   "Support Period",
					Content: "{serviceprovider} will correct defects in the Work Product reported within {supportperiod} of delivery, at no additional charge, provided the Work Product has not been modified by anyone other than {serviceprovider}.",
				},
				{
					ID:      "11.2",
					Title:   "Warranty Disclaimer",
					Content: `Except as expressly stated in this Agreement, the Services and Work Product are provided "as is" and {serviceprovider} disclaims all other warranties, express or implied, including merchantability and fitness for a particular purpose.`,
				},
			},
		},
		{
			ID:    "12",
			Title: "General Provisions",
			Subsections: []Subsection{
				{
					ID:      "12.1",
					Title:   "Governing Law",
					Content: "This Agreement is governed by the laws of {governinglaw}, without regard to its conflict of laws principles.",
				},
				{
					ID:      "12.2",
					Title:   "Entire Agreement",
					Content: "This Agreement constitutes the entire agreement between {serviceprovider} and {company} with respect to its subject matter and supersedes all prior agreements and understandings.",
				},
				{
					ID:      "12.3",
					Title:   "Severability",
					Content: "If any provision of this Agreement is held unenforceable, the remaining provisions remain in full force and effect.",
				},
			},
		},
	},
}
