package clauses

var catalogAr = Catalog{
	Version: "1.0.0",
	Sections: []Section{
		{
			ID:        "5",
			Title:     "الملكية الفكرية",
			ToggleKey: "ip_ownership",
			Subsections: []Subsection{
				{
					ID:      "5.1",
					Title:   "نتاج العمل",
					Content: "يقصد بنتاج العمل جميع التصاميم والتطويرات والبرمجيات والوثائق وغيرها من المخرجات التي ينشئها {serviceprovider} في سياق تنفيذ الخدمات.",
				},
				{
					ID:      "5.2",
					Title:   "نقل الملكية",
					Content: "عند سداد جميع المبالغ المستحقة بموجب هذه الاتفاقية، يتنازل {serviceprovider} بشكل نهائي إلى {company} عن جميع الحقوق في نتاج العمل. وقبل السداد الكامل يحتفظ {serviceprovider} بملكية نتاج العمل.",
				},
			},
		},
		{
			ID:        "6",
			Title:     "السرية",
			ToggleKey: "confidentiality",
			Subsections: []Subsection{
				{
					ID:      "6.1",
					Title:   "الالتزامات",
					Content: "يلتزم كل طرف بالحفاظ على سرية المعلومات غير العلنية التي يفصح عنها الطرف الآخر في إطار هذه الاتفاقية وعدم استخدامها إلا لأغراض تنفيذها.",
				},
			},
		},
		{
			ID:        "7",
			Title:     "إعادة المواد",
			ToggleKey: "confidentiality",
			Subsections: []Subsection{
				{
					ID:      "7.1",
					Content: "عند انتهاء هذه الاتفاقية أو بناء على طلب كتابي، يعيد كل طرف أو يتلف جميع المعلومات السرية الخاصة بالطرف الآخر.",
				},
			},
		},
		{
			ID:        "8",
			Title:     "تحديد المسؤولية",
			ToggleKey: "limitation_of_liability",
			Subsections: []Subsection{
				{
					ID:      "8.1",
					Content: "لا يتحمل أي طرف المسؤولية عن الأضرار غير المباشرة أو التبعية، ولا تتجاوز المسؤولية الإجمالية لأي طرف إجمالي المبالغ المدفوعة من {company} إلى {serviceprovider} بموجب هذه الاتفاقية.",
				},
			},
		},
		{
			ID:        "9",
			Title:     "عدم استقطاب العاملين",
			ToggleKey: "non_solicitation",
			Subsections: []Subsection{
				{
					ID:      "9.1",
					Content: "خلال مدة هذه الاتفاقية ولمدة اثني عشر (12) شهرا بعدها، يمتنع كل طرف عن استقطاب موظفي الطرف الآخر المشاركين في الخدمات.",
				},
			},
		},
		{
			ID:    "10",
			Title: "المدة والإنهاء",
			Subsections: []Subsection{
				{
					ID:      "10.1",
					Title:   "المدة",
					Content: "تسري هذه الاتفاقية اعتبارا من {effectivedate} وتستمر حتى {terminationdate} أو حتى اكتمال الخدمات، ما لم يتم إنهاؤها قبل ذلك.",
				},
				{
					ID:      "10.2",
					Title:   "الإنهاء",
					Content: "يجوز لأي طرف إنهاء هذه الاتفاقية بإشعار كتابي مدته {noticeperiod} يوما، ويدفع {company} مقابل جميع الخدمات المنفذة حتى تاريخ الإنهاء.",
				},
			},
		},
		{
			ID:    "11",
			Title: "فترة الدعم والضمان",
			Subsections: []Subsection{
				{
					ID:      "11.1",
					Content: "يقوم {serviceprovider} بتصحيح العيوب المبلغ عنها خلال {supportperiod} من التسليم دون مقابل إضافي، بشرط عدم تعديل نتاج العمل من قبل غيره.",
				},
			},
		},
		{
			ID:    "12",
			Title: "أحكام عامة",
			Subsections: []Subsection{
				{
					ID:      "12.1",
					Title:   "القانون الواجب التطبيق",
					Content: "تخضع هذه الاتفاقية لقوانين {governinglaw}.",
				},
				{
					ID:      "12.2",
					Title:   "كامل الاتفاق",
					Content: "تمثل هذه الاتفاقية كامل الاتفاق بين {serviceprovider} و{company} فيما يتعلق بموضوعها.",
				},
			},
		},
	},
}
