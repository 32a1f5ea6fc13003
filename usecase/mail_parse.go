package usecase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"creator-ops/domain/model"

	"github.com/tidwall/gjson"
)

var defaultDealKeywords = []string{
	"partnership", "collab", "collaboration", "sponsorship", "sponsor",
	"brand deal", "influencer", "campaign", "ambassador",
}

var freeMailDomains = map[string]struct{}{
	"gmail": {}, "googlemail": {}, "yahoo": {}, "hotmail": {}, "outlook": {}, "live": {}, "icloud": {}, "aol": {}, "proton": {}, "protonmail": {},
}

const fallbackInboxQuery = "in:inbox newer_than:365d -in:spam -in:trash"

type sender struct {
	Name  string
	Email string
}

var fromPattern = regexp.MustCompile(`^(?:"?([^"<]*)"?\s*)?<?([^>]+)>?$`)

// parseSender reads a From header in either "Name <addr>" or bare address form.
func parseSender(header string) sender {
	header = strings.TrimSpace(header)
	if addr, err := mail.ParseAddress(header); err == nil {
		return sender{Name: addr.Name, Email: addr.Address}
	}
	if m := fromPattern.FindStringSubmatch(header); m != nil {
		return sender{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
	}
	return sender{Email: header}
}

// brandName guesses the company from the sender's domain; free-mail senders fall back to their name.
func brandName(s sender) string {
	local, domain, _ := strings.Cut(s.Email, "@")
	labels := strings.Split(strings.ToLower(domain), ".")
	if len(labels) >= 2 && labels[0] != "" {
		if _, free := freeMailDomains[labels[0]]; !free {
			r, size := utf8.DecodeRuneInString(labels[0])
			return string(unicode.ToUpper(r)) + labels[0][size:]
		}
	}
	if s.Name != "" {
		return s.Name
	}
	if local != "" {
		return local
	}
	return s.Email
}

// buildSearchQuery renders "(k1 OR "multi word" OR ...) after:YYYY/MM/DD".
func buildSearchQuery(keywords []string, since time.Time) string {
	terms := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(strings.ReplaceAll(k, `"`, ""))
		if k == "" {
			continue
		}
		if strings.ContainsAny(k, " \t") {
			k = `"` + k + `"`
		}
		terms = append(terms, k)
	}
	return fmt.Sprintf("(%s) after:%s", strings.Join(terms, " OR "), since.UTC().Format("2006/01/02"))
}

// matchesKeywords is the local case-insensitive substring test used by the fallback scan.
func matchesKeywords(subject, snippet string, keywords []string) bool {
	haystack := strings.ToLower(subject + "\n" + snippet)
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

var errExtractionShape = errors.New("extraction response is not a JSON object")

// parseDealExtraction coerces the generator output into a DealExtraction.
// Fields may be missing, null, strings, numbers or arrays.
func parseDealExtraction(raw string) (*model.DealExtraction, json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) {
		return nil, nil, errExtractionShape
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return nil, nil, errExtractionShape
	}
	e := &model.DealExtraction{
		Summary:      scalar(res.Get("summary")),
		ContactName:  scalar(res.Get("contact_name")),
		Deliverables: list(res.Get("deliverables")),
		Timeline:     scalar(res.Get("timeline")),
		Budget:       scalar(res.Get("budget")),
		Links:        list(res.Get("links")),
		NextSteps:    scalar(res.Get("next_steps")),
	}
	return e, json.RawMessage(raw), nil
}

func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return strings.TrimSpace(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			return strings.Join(list(r), ", ")
		}
		return r.Raw
	default:
		return r.Raw
	}
}

func list(r gjson.Result) []string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if !r.IsArray() {
		if s := scalar(r); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range r.Array() {
		if s := scalar(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var amountPattern = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(k|m)?\b`)

// maxProposedRate is the largest value deals.proposed_rate NUMERIC(12,2) holds.
const maxProposedRate = 9_999_999_999.99

// parseBudget returns the first amount mentioned in a free-form budget, honouring k/m suffixes.
// Amounts too large to store are dropped.
func parseBudget(budget string) *float64 {
	m := amountPattern.FindStringSubmatch(budget)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "k":
		v *= 1_000
	case "m":
		v *= 1_000_000
	}
	if v > maxProposedRate {
		return nil
	}
	return &v
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
