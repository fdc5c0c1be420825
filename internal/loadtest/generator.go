package loadtest

import (
	"github.com/google/uuid"
)

const emailDomain = "@mergington.edu"

// generateEmails returns n distinct student emails.
func generateEmails(n int) []string {
	emails := make([]string, n)
	for i := range emails {
		emails[i] = "load-" + uuid.NewString() + emailDomain
	}
	return emails
}
