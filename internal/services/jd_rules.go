package services

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/storage"
)

const (
	UnknownPosition = "Unknown Position"
	UnknownCompany  = "Unknown Company"

	rulesConfidence = 0.45
	descriptionCap  = 500
)

var skillVocabulary = []string{
	"python", "javascript", "typescript", "java", "c++", "c#", "go", "rust", "sql",
	"react", "vue", "angular", "nodejs", "fastapi", "django", "flask", "spring",
	"aws", "gcp", "azure", "docker", "kubernetes", "terraform", "ci/cd",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"git", "linux", "shell", "bash", "machine learning", "nlp", "pytorch", "tensorflow",
	"html", "css", "tailwind", "bootstrap", "figma", "sketch",
}

type seniorityRule struct {
	level    string
	patterns []*regexp.Regexp
}

func mustAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

var (
	// Checked in order; the first level with a hit wins.
	seniorityRules = []seniorityRule{
		{"entry", mustAll(`entry.{0,5}level`, `junior`, `fresh`, `graduate`, `0.{0,5}2\s+years`)},
		{"mid", mustAll(`mid.{0,5}level`, `mid-senior`, `intermediate`, `3.{0,5}7\s+years`)},
		{"senior", mustAll(`senior`, `staff`, `principal`, `lead`, `8\+\s+years`, `10\+\s+years`)},
	}

	skillPatterns = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(skillVocabulary))
		for _, s := range skillVocabulary {
			m[s] = regexp.MustCompile(`\b` + regexp.QuoteMeta(s) + `\b`)
		}
		return m
	}()

	titleLabelRe     = regexp.MustCompile(`(?i)^(job|position|role|hiring)[:\s]*`)
	companyLabelRe   = regexp.MustCompile(`(?im)^\s*company:\s*([^,\n]+)`)
	companyPhraseRe  = regexp.MustCompile(`(?:at|for)\s+([A-Z][A-Za-z0-9\s&]+?)(?:\s+is\s+hiring|[.,\n])`)
	locationLabelRe  = regexp.MustCompile(`(?:location|based in):\s*([^,\n]+)`)
	locationModeRe   = regexp.MustCompile(`(remote|hybrid|on-site)`)
	salaryRe         = regexp.MustCompile(`([$ksh]+[\d,]+(?:\s*-\s*[\d,]+)?)`)
	urlRe            = regexp.MustCompile(`https?://[^\s<>"']+`)
	preferredURLHint = []string{"apply", "careers", "job"}
)

// ParseJDRules extracts job fields with fixed patterns. It never fails; any
// field it cannot find is null or a placeholder.
func ParseJDRules(raw, url string) *dtos.ParsedJob {
	lower := strings.ToLower(strings.TrimSpace(raw))

	job := &dtos.ParsedJob{
		Title:          jdTitle(raw),
		Company:        jdCompany(raw),
		Location:       jdLocation(lower),
		SalaryRange:    jdSalary(lower),
		SeniorityLevel: jdSeniority(lower),
		Skills:         jdSkills(lower),
		Description:    strings.TrimSpace(storage.Truncate(raw, descriptionCap)),
		ApplyURL:       jdApplyURL(lower),
		Confidence:     rulesConfidence,
		Method:         "rules",
	}
	if job.ApplyURL == nil && url != "" {
		job.ApplyURL = &url
	}
	return job
}

func jdTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		clean := strings.TrimSpace(line)
		n := utf8.RuneCountInString(clean)
		if n > 5 && n < 80 && !strings.Contains(clean, "http") {
			return strings.TrimSpace(titleLabelRe.ReplaceAllString(clean, ""))
		}
	}
	return UnknownPosition
}

func jdCompany(text string) string {
	if m := companyLabelRe.FindStringSubmatch(text); m != nil {
		if c := strings.TrimSpace(m[1]); c != "" {
			return c
		}
	}
	if m := companyPhraseRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return UnknownCompany
}

func jdLocation(lower string) *string {
	for _, re := range []*regexp.Regexp{locationLabelRe, locationModeRe} {
		if m := re.FindStringSubmatch(lower); m != nil {
			loc := cases.Title(language.English).String(strings.TrimSpace(m[1]))
			return &loc
		}
	}
	return nil
}

func jdSalary(lower string) *string {
	if m := salaryRe.FindStringSubmatch(lower); m != nil {
		s := strings.ToUpper(m[1])
		return &s
	}
	return nil
}

func jdSeniority(lower string) *string {
	for _, rule := range seniorityRules {
		for _, re := range rule.patterns {
			if re.MatchString(lower) {
				level := rule.level
				return &level
			}
		}
	}
	return nil
}

func jdSkills(lower string) []string {
	found := []string{}
	for _, s := range skillVocabulary {
		if skillPatterns[s].MatchString(lower) {
			found = append(found, s)
		}
	}
	sort.Strings(found)
	return found
}

func jdApplyURL(lower string) *string {
	urls := urlRe.FindAllString(lower, -1)
	if len(urls) == 0 {
		return nil
	}
	for _, u := range urls {
		for _, hint := range preferredURLHint {
			if strings.Contains(u, hint) {
				return &u
			}
		}
	}
	return &urls[0]
}
