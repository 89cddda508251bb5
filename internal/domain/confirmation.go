package domain

import "strings"

// In-page anchors.
const (
	FragmentHome     = "home"
	FragmentThankYou = "thank-you"
	FragmentOrder    = "order"
)

// ConfirmationGuard is the result of checking a navigation against the
// submission flag.
type ConfirmationGuard struct {
	// Visible is true when the thank-you view should render.
	Visible bool
	// Rewrite is the fragment the client must be sent to instead, or empty.
	Rewrite string
}

// GuardConfirmation decides whether the thank-you view is shown for a
// navigation to fragment. The view is visible only when the fragment is the
// confirmation marker and a submission completed in this session. Landing on
// the marker without the flag rewrites the navigation to home.
func GuardConfirmation(fragment string, submitted bool) ConfirmationGuard {
	if strings.TrimPrefix(fragment, "#") != FragmentThankYou {
		return ConfirmationGuard{}
	}
	if !submitted {
		return ConfirmationGuard{Rewrite: FragmentHome}
	}
	return ConfirmationGuard{Visible: true}
}
