// Package categorizer assigns a topic label to notice text using weighted keyword sets.
package categorizer

import "strings"

// General is returned when no category scores at least MinScore.
const General = "general"

// MinScore is the lowest score a category needs to be chosen.
const MinScore = 2.0

const (
	primaryWeight   = 3.0
	secondaryWeight = 1.5
	titlePrimary    = 2.0
	titleSecondary  = 1.0
)

// Category is a topic with its keyword sets.
type Category struct {
	Name      string
	Primary   []string
	Secondary []string
}

// Categories is evaluated in order; on equal scores the earlier category wins.
var Categories = []Category{
	{
		Name:      "health",
		Primary:   []string{"health", "medical", "hospital", "doctor", "medicine", "vaccine", "covid", "disease", "healthcare", "clinic", "treatment", "patient", "drug", "pharmacy", "ayush", "medical college", "nursing", "ambulance"},
		Secondary: []string{"wellness", "mental health", "therapy", "diagnosis", "surgery", "emergency"},
	},
	{
		Name:      "education",
		Primary:   []string{"education", "school", "college", "university", "student", "exam", "admission", "scholarship", "degree", "certificate", "academic", "learning", "teacher", "faculty", "curriculum", "ugc", "cbse", "icse", "board", "entrance"},
		Secondary: []string{"study", "research", "training", "course", "syllabus", "marks", "grade"},
	},
	{
		Name:      "employment",
		Primary:   []string{"job", "employment", "recruitment", "vacancy", "career", "hiring", "work", "salary", "wage", "pension", "retirement", "ssc", "upsc", "railway", "government job", "application", "interview", "selection", "posting"},
		Secondary: []string{"employee", "employer", "staff", "officer", "clerk", "manager", "director"},
	},
	{
		Name:      "taxation",
		Primary:   []string{"tax", "gst", "income tax", "return", "refund", "assessment", "compliance", "tds", "advance tax", "penalty", "notice", "audit", "exemption", "deduction", "itr", "pan", "aadhaar"},
		Secondary: []string{"financial", "revenue", "duty", "customs", "excise", "service tax"},
	},
	{
		Name:      "legal",
		Primary:   []string{"legal", "court", "law", "act", "rule", "regulation", "policy", "order", "judgment", "case", "litigation", "advocate", "lawyer", "justice", "supreme court", "high court", "tribunal", "amendment", "bill"},
		Secondary: []string{"rights", "constitution", "statute", "ordinance", "notification", "circular"},
	},
	{
		Name:      "welfare",
		Primary:   []string{"welfare", "scheme", "benefit", "subsidy", "allowance", "grant", "aid", "support", "assistance", "relief", "compensation", "pension", "insurance", "social security", "disability", "widow", "elderly", "child"},
		Secondary: []string{"help", "care", "protection", "safety", "security", "family"},
	},
	{
		Name:      "infrastructure",
		Primary:   []string{"infrastructure", "road", "bridge", "transport", "railway", "airport", "port", "construction", "development", "project", "tender", "contract", "electricity", "water", "sewage", "metro", "bus"},
		Secondary: []string{"building", "facility", "maintenance", "repair", "upgrade", "expansion"},
	},
	{
		Name:      "agriculture",
		Primary:   []string{"agriculture", "farmer", "crop", "farming", "irrigation", "fertilizer", "seed", "harvest", "rural", "village", "kisan", "mandi", "procurement", "subsidy", "loan"},
		Secondary: []string{"weather", "drought", "flood", "soil", "organic", "pesticide", "cattle"},
	},
	{
		Name:      "finance",
		Primary:   []string{"finance", "bank", "banking", "loan", "credit", "investment", "budget", "fund", "money", "financial", "economic", "economy", "market", "stock", "bond"},
		Secondary: []string{"interest", "deposit", "account", "transaction", "payment", "currency"},
	},
	{
		Name:      "environment",
		Primary:   []string{"environment", "pollution", "climate", "green", "forest", "wildlife", "conservation", "renewable", "solar", "wind", "waste", "recycling"},
		Secondary: []string{"nature", "ecology", "sustainable", "carbon", "emission", "clean"},
	},
}

// Scores returns the score of every category, keyed by name.
func Scores(title, content string) map[string]float64 {
	text := strings.ToLower(title + " " + content)
	lowerTitle := strings.ToLower(title)

	scores := make(map[string]float64, len(Categories))
	for _, c := range Categories {
		scores[c.Name] = score(c, text, lowerTitle)
	}
	return scores
}

// Categorize returns the best matching category name, or General.
func Categorize(title, content string) string {
	text := strings.ToLower(title + " " + content)
	lowerTitle := strings.ToLower(title)

	best, bestScore := General, 0.0
	for _, c := range Categories {
		if s := score(c, text, lowerTitle); s > bestScore {
			best, bestScore = c.Name, s
		}
	}
	if bestScore < MinScore {
		return General
	}
	return best
}

func score(c Category, text, title string) float64 {
	var s float64
	s += float64(countMatches(c.Primary, text)) * primaryWeight
	s += float64(countMatches(c.Secondary, text)) * secondaryWeight
	s += float64(countMatches(c.Primary, title)) * titlePrimary
	s += float64(countMatches(c.Secondary, title)) * titleSecondary
	return s
}

// countMatches counts the keywords occurring anywhere in text.
func countMatches(keywords []string, text string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			n++
		}
	}
	return n
}
