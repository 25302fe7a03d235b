package category

import "strings"

// MatchKind selects how a Rule compares a file name against its tokens.
type MatchKind int

const (
	// MatchSuffix matches when the lower-cased name ends with a token.
	MatchSuffix MatchKind = iota
	// MatchExact matches when the lower-cased name equals a token.
	MatchExact
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	default:
		return "suffix"
	}
}

// Rule binds a category (and optional subcategory) to a set of tokens.
type Rule struct {
	Category    string
	Subcategory string
	Kind        MatchKind
	Tokens      []string
}

func (r Rule) matches(lowerName string) bool {
	for _, token := range r.Tokens {
		switch r.Kind {
		case MatchExact:
			if lowerName == token {
				return true
			}
		default:
			if strings.HasSuffix(lowerName, token) {
				return true
			}
		}
	}
	return false
}

// Built-in category names.
const (
	Images     = "images"
	Documents  = "documents"
	Audio      = "audio"
	Video      = "video"
	Archives   = "archives"
	Scripts    = "scripts"
	Installers = "installers"
	Setups     = "setups"
)

// Folder names under the root that are not produced by category rules.
const (
	Duplicates = "duplicates"
	Others     = "others"
)

// IsReserved reports whether name is one of the folders the organizer owns
// outside the rule table.
func IsReserved(name string) bool {
	return name == Duplicates || name == Others
}

// DefaultRules returns the built-in rule table in evaluation order.
//
// The setups rule is shadowed by installers for every name it can match; it is
// kept so the table stays identical to the folder layout users already have.
func DefaultRules() []Rule {
	return []Rule{
		{Category: Images, Tokens: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
		{Category: Documents, Subcategory: "word", Tokens: []string{".doc", ".docx"}},
		{Category: Documents, Subcategory: "excel", Tokens: []string{".xls", ".xlsx"}},
		{Category: Documents, Subcategory: "pdf", Tokens: []string{".pdf"}},
		{Category: Documents, Subcategory: "text", Tokens: []string{".txt"}},
		{Category: Documents, Subcategory: "ppt", Tokens: []string{".ppt", ".pptx"}},
		{Category: Audio, Tokens: []string{".mp3", ".wav", ".aac"}},
		{Category: Video, Tokens: []string{".mp4", ".mov", ".avi"}},
		{Category: Archives, Tokens: []string{".zip", ".rar", ".tar", ".gz"}},
		{Category: Scripts, Tokens: []string{".py", ".js", ".sh"}},
		{Category: Installers, Tokens: []string{".exe", ".msi", ".dmg"}},
		{Category: Setups, Kind: MatchExact, Tokens: []string{"setup.exe", "setup.msi"}},
	}
}

// Categories returns the distinct top-level category names of rules in first
// appearance order.
func Categories(rules []Rule) []string {
	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if _, ok := seen[rule.Category]; ok {
			continue
		}
		seen[rule.Category] = struct{}{}
		out = append(out, rule.Category)
	}
	return out
}
