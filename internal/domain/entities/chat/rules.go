// Package chat defines the domain entities for chat triage and escalation.
package chat

import (
	"fmt"
	"strings"
)

// KnowledgeBase holds the company facts interpolated into canned responses.
type KnowledgeBase struct {
	Company  string
	Services []string
	Website  string
	Contact  string
}

// DefaultKnowledgeBase returns the NOWA Systems knowledge base.
func DefaultKnowledgeBase() KnowledgeBase {
	return KnowledgeBase{
		Company:  "NOWA Systems",
		Services: []string{"Digital transformation", "software development", "AI automation", "IT consulting"},
		Website:  "nowa-systems.vercel.app",
		Contact:  "info@nowasystems.com",
	}
}

// IntentRule is one entry in the ordered triage table. Rules are evaluated
// top-to-bottom and the first rule with a keyword contained in the normalized
// message wins. This is a priority list, not a classifier.
type IntentRule struct {
	Keywords   []string
	Response   string
	Confidence float64
}

// Matches reports whether any of the rule's keywords appears as a substring
// of the normalized (lowercased) message.
func (r IntentRule) Matches(normalized string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// EscalationPrompt is returned whenever triage decides to hand off to a human.
const EscalationPrompt = "I need to escalate this to our human support team. Could you please provide your details?"

// InvalidMessagePrompt is returned for empty or fully-sanitized-away input.
const InvalidMessagePrompt = "Please enter a valid message."

// FallbackResponse is the low-confidence answer for unmatched input.
const FallbackResponse = "I'm not sure about that. Would you like me to connect you with our human support team?"

// HumanKeywords force an escalation regardless of any rule match.
var HumanKeywords = []string{"help", "human", "speak to someone"}

// DefaultRules builds the ordered rule table from a knowledge base.
func DefaultRules(kb KnowledgeBase) []IntentRule {
	return []IntentRule{
		{
			Keywords:   []string{"hello", "hi"},
			Response:   fmt.Sprintf("Hello! How can I help you with %s today?", kb.Company),
			Confidence: 1,
		},
		{
			Keywords:   []string{"services", "what do you do"},
			Response:   fmt.Sprintf("%s offers: %s. How can I assist you with these services?", kb.Company, strings.Join(kb.Services, ", ")),
			Confidence: 0.9,
		},
		{
			Keywords:   []string{"contact", "email"},
			Response:   fmt.Sprintf("You can contact us at %s or visit our website at https://%s.", kb.Contact, kb.Website),
			Confidence: 0.9,
		},
		{
			Keywords:   []string{"website", "site"},
			Response:   fmt.Sprintf("Our website is https://%s. Feel free to explore our services there!", kb.Website),
			Confidence: 0.9,
		},
		{
			Keywords:   []string{"digital transformation"},
			Response:   "Digital transformation involves modernizing business processes with technology. We help companies adapt to digital changes efficiently.",
			Confidence: 0.8,
		},
		{
			Keywords:   []string{"ai", "automation"},
			Response:   "AI automation streamlines processes and improves efficiency. We specialize in implementing AI solutions for businesses.",
			Confidence: 0.8,
		},
		{
			Keywords:   []string{"software development"},
			Response:   "We provide custom software development services tailored to your business needs. From web apps to mobile solutions.",
			Confidence: 0.8,
		},
		{
			Keywords:   []string{"consulting"},
			Response:   "Our IT consulting services help you make informed technology decisions and optimize your IT infrastructure.",
			Confidence: 0.8,
		},
		{
			// Explicit request for a human: forced escalation
			Keywords:   HumanKeywords,
			Response:   "",
			Confidence: 0.1,
		},
	}
}
