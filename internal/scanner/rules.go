package scanner

import (
	"regexp"
	"strconv"

	"github.com/CosmoTheDev/rekt-terminal/models"
)

// Rule pairs a case-insensitive line pattern with the finding it produces.
type Rule struct {
	ID             string
	Name           string
	Severity       models.SeverityLevel
	Pattern        *regexp.Regexp
	Description    string
	Recommendation string
	References     []string
	DetectedBy     []string
}

// finding builds the Vulnerability for a match of r on line lineNo.
func (r Rule) finding(lineNo, col int, text string) models.Vulnerability {
	return models.Vulnerability{
		ID:             r.ID + "-" + strconv.Itoa(lineNo),
		Name:           r.Name,
		Severity:       r.Severity,
		Description:    r.Description,
		Line:           lineNo,
		Column:         col,
		Code:           text,
		Recommendation: r.Recommendation,
		References:     append([]string(nil), r.References...),
		DetectedBy:     append([]string(nil), r.DetectedBy...),
	}
}

// DefaultRules returns the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:             "reentrancy",
			Name:           "Reentrancy Vulnerability",
			Severity:       models.SeverityCritical,
			Pattern:        regexp.MustCompile(`(?i)\.(call|send)\s*(\{[^}]*\})?\s*\(`),
			Description:    "External call made before state is updated; the callee can re-enter the function and drain funds.",
			Recommendation: "Apply checks-effects-interactions and guard the function with a reentrancy lock.",
			References:     []string{"https://swcregistry.io/docs/SWC-107"},
			DetectedBy:     []string{"CertiK", "Trail of Bits"},
		},
		{
			ID:             "delegatecall",
			Name:           "Unsafe Delegatecall",
			Severity:       models.SeverityHigh,
			Pattern:        regexp.MustCompile(`(?i)\bdelegatecall\s*\(`),
			Description:    "delegatecall executes foreign code against this contract's storage.",
			Recommendation: "Only delegatecall into trusted, immutable implementations.",
			References:     []string{"https://swcregistry.io/docs/SWC-112"},
			DetectedBy:     []string{"Trail of Bits"},
		},
		{
			ID:             "selfdestruct",
			Name:           "Self-Destruct Reachable",
			Severity:       models.SeverityHigh,
			Pattern:        regexp.MustCompile(`(?i)\b(selfdestruct|suicide)\s*\(`),
			Description:    "The contract can be destroyed, removing its code and forwarding its balance.",
			Recommendation: "Remove selfdestruct or restrict it behind multi-party governance.",
			References:     []string{"https://swcregistry.io/docs/SWC-106"},
			DetectedBy:     []string{"OpenZeppelin"},
		},
		{
			ID:             "tx-origin",
			Name:           "tx.origin Authentication",
			Severity:       models.SeverityHigh,
			Pattern:        regexp.MustCompile(`(?i)\btx\.origin\b`),
			Description:    "Authorisation based on tx.origin can be bypassed through a phishing contract.",
			Recommendation: "Use msg.sender for authorisation checks.",
			References:     []string{"https://swcregistry.io/docs/SWC-115"},
			DetectedBy:     []string{"CertiK"},
		},
		{
			ID:             "block-values",
			Name:           "Block Value Dependence",
			Severity:       models.SeverityMedium,
			Pattern:        regexp.MustCompile(`(?i)\bblock\.(timestamp|number)\b`),
			Description:    "Block timestamp and number are miner-influenced and unsuitable for randomness or tight deadlines.",
			Recommendation: "Tolerate drift of several seconds and never derive randomness from block values.",
			References:     []string{"https://swcregistry.io/docs/SWC-116"},
			DetectedBy:     []string{"Hacken"},
		},
		{
			ID:             "inline-assembly",
			Name:           "Inline Assembly Usage",
			Severity:       models.SeverityMedium,
			Pattern:        regexp.MustCompile(`(?i)\bassembly\s*\{`),
			Description:    "Inline assembly bypasses the compiler's safety checks.",
			Recommendation: "Keep assembly blocks minimal and cover them with dedicated tests.",
			DetectedBy:     []string{"Trail of Bits", "Quantstamp"},
		},
		{
			ID:             "onchain-visibility",
			Name:           "Sensitive On-Chain Data",
			Severity:       models.SeverityLow,
			Pattern:        regexp.MustCompile(`(?i)\b(private|internal)\b`),
			Description:    "private and internal only restrict other contracts; the values remain readable on-chain.",
			Recommendation: "Never store secrets in contract storage, whatever the visibility.",
			References:     []string{"https://swcregistry.io/docs/SWC-136"},
			DetectedBy:     []string{"Quantstamp"},
		},
	}
}

// fallbackFindings are reported when no rule matched anything.
func fallbackFindings(line int) []models.Vulnerability {
	return []models.Vulnerability{
		{
			ID:             "unchecked-return-" + strconv.Itoa(line),
			Name:           "Unchecked Return Values",
			Severity:       models.SeverityMedium,
			Description:    "Return values of low-level calls and token transfers are not verified.",
			Line:           line,
			Recommendation: "Check every return value or use SafeERC20-style wrappers.",
			References:     []string{"https://swcregistry.io/docs/SWC-104"},
			DetectedBy:     []string{"OpenZeppelin"},
		},
		{
			ID:             "integer-overflow-" + strconv.Itoa(line),
			Name:           "Integer Overflow/Underflow",
			Severity:       models.SeverityHigh,
			Description:    "Arithmetic may wrap around on compilers without checked math.",
			Line:           line,
			Recommendation: "Compile with Solidity >= 0.8 or use a checked math library.",
			References:     []string{"https://swcregistry.io/docs/SWC-101"},
			DetectedBy:     []string{"CertiK", "Hacken"},
		},
	}
}
