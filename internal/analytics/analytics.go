// Package analytics derives operational signals from the feedback corpus for
// the administrator dashboard. The aggregation is a single synchronous pass
// over in-memory entries and is recomputed on every request.
package analytics

import (
	"fmt"
	"sort"
	"strings"

	"campus-feedback-backend/internal/models"
	"campus-feedback-backend/internal/sentiment"
)

const topLimit = 10

// Fixed vocabulary of facility and teaching-quality issue keywords, matched
// as substrings of lower-cased negative feedback text.
var issueKeywords = []string{
	"pc", "computer", "laptop", "system", "lab", "projector",
	"ac", "fan", "light", "bench", "chair", "board", "marker",
	"wifi", "internet", "network", "not working", "broken", "damaged",
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type IssueCount struct {
	Issue string `json:"issue"`
	Count int    `json:"count"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// SentimentBreakdown counts each label for one faculty across all entries.
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
	Total    int `json:"total"`
}

type Report struct {
	TopKeywords      []KeywordCount                 `json:"topKeywords"`
	TopFacultyIssues []IssueCount                   `json:"topFacultyIssues"`
	TopSubjectIssues []SubjectCount                 `json:"topSubjectIssues"`
	FacultyStats     map[string]*SentimentBreakdown `json:"facultyStats"`
}

// Aggregate runs the full analytics pass. Keyword and issue extraction is
// restricted to negative entries; the per-faculty breakdown covers all
// entries. An empty corpus yields empty collections, not an error.
func Aggregate(entries []models.Feedback) Report {
	keywords := newCounter()
	facultyIssues := newCounter()
	subjectIssues := newCounter()
	facultyStats := make(map[string]*SentimentBreakdown)

	for _, entry := range entries {
		breakdown, ok := facultyStats[entry.FacultyName]
		if !ok {
			breakdown = &SentimentBreakdown{}
			facultyStats[entry.FacultyName] = breakdown
		}
		switch sentiment.Label(entry.Sentiment) {
		case sentiment.Positive:
			breakdown.Positive++
		case sentiment.Negative:
			breakdown.Negative++
		default:
			breakdown.Neutral++
		}
		breakdown.Total++

		if sentiment.Label(entry.Sentiment) != sentiment.Negative {
			continue
		}

		text := strings.ToLower(entry.FeedbackText)
		for _, keyword := range issueKeywords {
			if strings.Contains(text, keyword) {
				keywords.add(keyword)
				facultyIssues.add(fmt.Sprintf("%s - %s", keyword, entry.FacultyName))
			}
		}
		subjectIssues.add(fmt.Sprintf("%s - %s", entry.Subject, entry.FacultyName))
	}

	report := Report{
		TopKeywords:      []KeywordCount{},
		TopFacultyIssues: []IssueCount{},
		TopSubjectIssues: []SubjectCount{},
		FacultyStats:     facultyStats,
	}
	for _, ranked := range keywords.top(topLimit) {
		report.TopKeywords = append(report.TopKeywords, KeywordCount{Keyword: ranked.key, Count: ranked.count})
	}
	for _, ranked := range facultyIssues.top(topLimit) {
		report.TopFacultyIssues = append(report.TopFacultyIssues, IssueCount{Issue: ranked.key, Count: ranked.count})
	}
	for _, ranked := range subjectIssues.top(topLimit) {
		report.TopSubjectIssues = append(report.TopSubjectIssues, SubjectCount{Subject: ranked.key, Count: ranked.count})
	}
	return report
}

// counter tallies keys while remembering first-encountered order, so ranking
// ties break stably.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

type rankedKey struct {
	key   string
	count int
}

func (c *counter) top(limit int) []rankedKey {
	ranked := make([]rankedKey, 0, len(c.order))
	for _, key := range c.order {
		ranked = append(ranked, rankedKey{key: key, count: c.counts[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
