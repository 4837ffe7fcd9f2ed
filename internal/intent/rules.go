package intent

import "regexp"

// rule is one scoring signal. Exactly one of keyword or pattern is set.
// Keyword rules match as substrings of the lowercased query and add 1;
// pattern rules add 2; domain rules carry their own weight. Rules with
// raw set match against the original query so capitalization survives.
type rule struct {
	keyword string
	pattern *regexp.Regexp
	raw     bool
	weight  float64
	intent  Intent
}

var sqlRules = []rule{
	{keyword: "count", weight: 1, intent: IntentSQL},
	{keyword: "sum", weight: 1, intent: IntentSQL},
	{keyword: "average", weight: 1, intent: IntentSQL},
	{keyword: "total", weight: 1, intent: IntentSQL},
	{keyword: "how many", weight: 1, intent: IntentSQL},
	{keyword: "show me all", weight: 1, intent: IntentSQL},
	{keyword: "list all", weight: 1, intent: IntentSQL},
	{keyword: "find cases where", weight: 1, intent: IntentSQL},
	{keyword: "filter", weight: 1, intent: IntentSQL},
	{keyword: "group by", weight: 1, intent: IntentSQL},
	{keyword: "aggregate", weight: 1, intent: IntentSQL},
	{keyword: "greater than", weight: 1, intent: IntentSQL},
	{keyword: "less than", weight: 1, intent: IntentSQL},
	{keyword: "between", weight: 1, intent: IntentSQL},
	{keyword: "in the last", weight: 1, intent: IntentSQL},
	{keyword: "during", weight: 1, intent: IntentSQL},
	{keyword: "statistics", weight: 1, intent: IntentSQL},
	{keyword: "breakdown", weight: 1, intent: IntentSQL},
	{keyword: "distribution", weight: 1, intent: IntentSQL},
	{keyword: "compare", weight: 1, intent: IntentSQL},

	{pattern: regexp.MustCompile(`how many .* (cases|projects|clients|contacts|documents)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`show me .* (cases|projects) (where|with|that)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`list .* (with|having|where)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`find .* (greater than|less than|between|exceeding|over|under)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`what is the (total|average|sum|count)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`(medical expenses|settlement|damages|fees) (over|under|above|below|exceeding)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`cases in (discovery|trial|settlement|appeal)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`(last|past) \d+ (days|weeks|months|years)`), weight: 2, intent: IntentSQL},

	// Entity table names lean structured even without an aggregation verb.
	{keyword: "time entries", weight: 1, intent: IntentSQL},
	{keyword: "expenses", weight: 1, intent: IntentSQL},
	{keyword: "invoices", weight: 1, intent: IntentSQL},
	{keyword: "billable", weight: 1, intent: IntentSQL},

	// Numeric thresholds almost always want a WHERE clause.
	{pattern: regexp.MustCompile(`\d+\s*(hours?|days?|entries)`), weight: 2, intent: IntentSQL},
	{pattern: regexp.MustCompile(`\$\s?[\d,]+(\.\d+)?k?`), weight: 2, intent: IntentSQL},

	// Anaphora over a prior result set: prefer re-querying with the
	// previous SQL as context over re-running a document search.
	{pattern: regexp.MustCompile(`\b(these|those) (cases|projects|results|matters|clients)\b`), weight: 3, intent: IntentSQL},
}

var documentRules = []rule{
	{keyword: "search", weight: 1, intent: IntentDocumentSearch},
	{keyword: "find documents", weight: 1, intent: IntentDocumentSearch},
	{keyword: "look for", weight: 1, intent: IntentDocumentSearch},
	{keyword: "document containing", weight: 1, intent: IntentDocumentSearch},
	{keyword: "pleading", weight: 1, intent: IntentDocumentSearch},
	{keyword: "motion", weight: 1, intent: IntentDocumentSearch},
	{keyword: "brief", weight: 1, intent: IntentDocumentSearch},
	{keyword: "contract", weight: 1, intent: IntentDocumentSearch},
	{keyword: "correspondence", weight: 1, intent: IntentDocumentSearch},
	{keyword: "evidence", weight: 1, intent: IntentDocumentSearch},
	{keyword: "exhibit", weight: 1, intent: IntentDocumentSearch},

	{pattern: regexp.MustCompile(`search (for|documents|files|through)`), weight: 2, intent: IntentDocumentSearch},
	{pattern: regexp.MustCompile(`find documents? (about|containing|with|mentioning|for)`), weight: 2, intent: IntentDocumentSearch},
	{pattern: regexp.MustCompile(`what documents? (mention|contain|reference)`), weight: 2, intent: IntentDocumentSearch},
	{pattern: regexp.MustCompile(`show me documents? (where|that|containing|about)`), weight: 2, intent: IntentDocumentSearch},
	{pattern: regexp.MustCompile(`(pleading|motion|brief|contract|correspondence)s? (about|regarding|for|mentioning)`), weight: 2, intent: IntentDocumentSearch},
}

var searchRules = []rule{
	{keyword: "look up", weight: 1, intent: IntentSearch},
	{keyword: "pull up", weight: 1, intent: IntentSearch},
	{keyword: "open case", weight: 1, intent: IntentSearch},

	// A bare two-token capitalized name is a person lookup, never an
	// aggregation. Matched against the raw query; the surname class covers
	// interior capitals and apostrophes (McLaughlin, O'Brien).
	{pattern: regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][A-Za-z'\-]+$`), raw: true, weight: 3, intent: IntentSearch},
	{pattern: regexp.MustCompile(`^[A-Z][a-z]+ [A-Z]\.? [A-Z][A-Za-z'\-]+$`), raw: true, weight: 3, intent: IntentSearch},

	// Case numbers in the TYPE-YYYY-NNNNN convention, anywhere in the query.
	{pattern: regexp.MustCompile(`\b[a-z]{2,4}-\d{4}-\d{3,6}\b`), weight: 3, intent: IntentSearch},
}

var generalRules = []rule{
	{keyword: "what is", weight: 1, intent: IntentGeneral},
	{keyword: "who is", weight: 1, intent: IntentGeneral},
	{keyword: "when did", weight: 1, intent: IntentGeneral},
	{keyword: "why", weight: 1, intent: IntentGeneral},
	{keyword: "how does", weight: 1, intent: IntentGeneral},
	{keyword: "explain", weight: 1, intent: IntentGeneral},
	{keyword: "tell me about", weight: 1, intent: IntentGeneral},
	{keyword: "describe", weight: 1, intent: IntentGeneral},
	{keyword: "summarize", weight: 1, intent: IntentGeneral},
	{keyword: "overview", weight: 1, intent: IntentGeneral},
	{keyword: "status of", weight: 1, intent: IntentGeneral},
	{keyword: "update on", weight: 1, intent: IntentGeneral},
	{keyword: "what happened", weight: 1, intent: IntentGeneral},

	{pattern: regexp.MustCompile(`^(what|who|when|where|why|how) (is|are|was|were|did|does)`), weight: 2, intent: IntentGeneral},
	{pattern: regexp.MustCompile(`tell me (about|more)`), weight: 2, intent: IntentGeneral},
	{pattern: regexp.MustCompile(`what('s| is) the (status|update|latest) (on|for)`), weight: 2, intent: IntentGeneral},
	{pattern: regexp.MustCompile(`can you (help|show|explain|tell)`), weight: 2, intent: IntentGeneral},
}

// anaphoraPattern and mentionPattern combine into an extra structured-query
// boost: "which of these cases mention asbestos" is a follow-up filter over
// the previous rows, not a fresh document search.
var (
	anaphoraPattern = regexp.MustCompile(`\b(these|those|them|it)\b`)
	mentionPattern  = regexp.MustCompile(`\b(mention|mentions|involve|involving|reference|references|relate|related)\b`)
)

// allRules is the table the local classifier folds over.
func allRules() []rule {
	out := make([]rule, 0, len(sqlRules)+len(documentRules)+len(searchRules)+len(generalRules))
	out = append(out, sqlRules...)
	out = append(out, documentRules...)
	out = append(out, searchRules...)
	out = append(out, generalRules...)
	return out
}
