package clauses

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"dealdesk/internal/domain"
)

// Subsection is one numbered clause body (e.g. 5.1).
type Subsection struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Section is a main clause section. A section with a ToggleKey is included
// only when the matching snapshot toggle is on; sections without one are
// always included.
type Section struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	ToggleKey   string       `json:"toggle_key,omitempty"`
	Subsections []Subsection `json:"subsections"`
}

// Catalog is the clause set for one language.
type Catalog struct {
	Version  string    `json:"version"`
	Sections []Section `json:"sections"`
}

const blankDate = "_______________"

var placeholderRe = regexp.MustCompile(`\{[A-Za-z]+\}`)

// Variables builds the interpolation map from a snapshot. Keys are
// lowercase; lookup is case-insensitive.
func Variables(s domain.Snapshot) map[string]string {
	provider := s.ProfileName
	if provider == "" {
		provider = "Service Provider"
	}
	counterparty := s.ClientName
	if counterparty == "" {
		counterparty = "Client"
	}
	notice := s.TerminationNoticeDays
	if notice == 0 {
		notice = 14
	}
	law := "the applicable jurisdiction"
	if s.GoverningLaw != nil && *s.GoverningLaw != "" {
		law = *s.GoverningLaw
	}
	return map[string]string{
		"serviceprovider": provider,
		"company":         counterparty,
		"effectivedate":   formatLegalDate(s.StartDate),
		"terminationdate": formatLegalDate(s.EndDate),
		"noticeperiod":    strconv.Itoa(notice),
		"governinglaw":    law,
		"supportperiod":   "six (6) months",
	}
}

func formatLegalDate(date *string) string {
	if date == nil || *date == "" {
		return blankDate
	}
	t, err := time.Parse("2006-01-02", *date)
	if err != nil {
		return blankDate
	}
	return t.Format("02 January 2006")
}

// Interpolate replaces {placeholder} tokens case-insensitively. Unknown
// placeholders are left intact.
func Interpolate(text string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		key := strings.ToLower(match[1 : len(match)-1])
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// ForLanguage returns the catalog for a language, falling back to English.
func ForLanguage(language string) Catalog {
	if language == "ar" {
		return catalogAr
	}
	return catalogEn
}

func toggleValue(s domain.Snapshot, key string) bool {
	switch key {
	case "ip_ownership":
		return s.IPOwnership
	case "confidentiality":
		return s.Confidentiality
	case "warranty_disclaimer":
		return s.WarrantyDisclaimer
	case "limitation_of_liability":
		return s.LimitationOfLiability
	case "non_solicitation":
		return s.NonSolicitation
	default:
		return true
	}
}

// ActiveSections filters the catalog down to sections whose toggle is
// absent or enabled in the snapshot.
func ActiveSections(cat Catalog, s domain.Snapshot) []Section {
	var out []Section
	for _, sec := range cat.Sections {
		if sec.ToggleKey == "" || toggleValue(s, sec.ToggleKey) {
			out = append(out, sec)
		}
	}
	return out
}

// Process selects and interpolates the clause sections for export. The
// returned sections are plain data for the document renderer; no business
// logic remains downstream.
func Process(language string, s domain.Snapshot) []Section {
	cat := ForLanguage(language)
	vars := Variables(s)
	active := ActiveSections(cat, s)

	out := make([]Section, 0, len(active))
	for _, sec := range active {
		p := Section{
			ID:        sec.ID,
			Title:     Interpolate(sec.Title, vars),
			ToggleKey: sec.ToggleKey,
		}
		for _, sub := range sec.Subsections {
			p.Subsections = append(p.Subsections, Subsection{
				ID:      sub.ID,
				Title:   Interpolate(sub.Title, vars),
				Content: Interpolate(sub.Content, vars),
			})
		}
		out = append(out, p)
	}
	return out
}
