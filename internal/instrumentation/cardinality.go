package instrumentation

import "strings"

// ContextType groups kubeconfig context names for metric labels.
type ContextType string

const (
	ContextTypeProduction  ContextType = "production"
	ContextTypeStaging     ContextType = "staging"
	ContextTypeDevelopment ContextType = "development"
	ContextTypeLocal       ContextType = "local"
	ContextTypeOther       ContextType = "other"
)

// ClassifyContextName maps a context name onto a small set of types so a
// kubeconfig with hundreds of contexts cannot explode metric cardinality.
//
//	ClassifyContextName("prod-eu-1")      // "production"
//	ClassifyContextName("gke_acme_stg")   // "staging"
//	ClassifyContextName("kind-dev")       // "local"
//	ClassifyContextName("team-a")         // "other"
func ClassifyContextName(name string) string {
	n := strings.ToLower(name)
	tokens := strings.FieldsFunc(n, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == '@' || r == '/' || r == ':'
	})
	has := func(words ...string) bool {
		for _, tok := range tokens {
			for _, w := range words {
				if tok == w {
					return true
				}
			}
		}
		return false
	}

	switch {
	case n == "":
		return string(ContextTypeOther)
	case has("kind", "minikube", "k3d", "docker", "desktop", "localhost", "local"):
		return string(ContextTypeLocal)
	case has("prod", "production", "prd", "live"):
		return string(ContextTypeProduction)
	case has("staging", "stg", "stage", "uat"):
		return string(ContextTypeStaging)
	case has("dev", "development", "test", "sandbox", "demo"):
		return string(ContextTypeDevelopment)
	default:
		return string(ContextTypeOther)
	}
}
