package pipeline

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// Sanitize strips scripts, event handlers and unsafe URLs from fragment
// markup while keeping the layout elements and class/id attributes the
// site's styling and data binding rely on.
func Sanitize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return fragmentSanitizer().Sanitize(trimmed)
}

func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowElements(
			"header", "footer", "nav", "main", "section", "article", "aside",
			"figure", "figcaption", "button", "mark",
		)
		policy.AllowAttrs("class", "id").Globally()
		policy.AllowAttrs("type").OnElements("button")
		policy.AllowAttrs("aria-label", "aria-hidden", "role").Globally()
		policy.RequireNoFollowOnLinks(false)

		fragmentPolicy = policy
	})
	return fragmentPolicy
}
