// Package email delivers contact-form submissions through a transactional
// email provider. The only implementation is the SendGrid v3 API, but the
// Sender interface keeps the HTTP handlers decoupled from the provider.
package email

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Message is a contact-form submission ready to be relayed. Fields other than
// Name, Email and Message are optional and omitted from the body when empty.
type Message struct {
	Name     string
	Email    string
	Message  string
	Website  string
	Timeline string
	Budget   string
}

// Subject returns the subject line for the relayed email.
func (m Message) Subject() string {
	return fmt.Sprintf("Portfolio contact from %s", m.Name)
}

// Body renders the submission as a plain-text email body. Optional fields
// appear as labeled lines before the message itself, in a stable order.
func (m Message) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", m.Name)
	fmt.Fprintf(&b, "Email: %s\n", m.Email)

	optional := map[string]string{
		"Website":  m.Website,
		"Timeline": m.Timeline,
		"Budget":   m.Budget,
	}
	keys := make([]string, 0, len(optional))
	for k, v := range optional {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, optional[k])
	}

	b.WriteString("\nMessage:\n")
	b.WriteString(m.Message)
	return b.String()
}

// Sender relays a contact-form message to the site owner.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
