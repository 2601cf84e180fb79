package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Ticket numbers are four digits behind the hostel prefix.
const (
	TicketPrefix = "HSTL-"
	ticketMin    = 1000
	ticketMax    = 9999

	defaultTicketAttempts = 64
)

var ticketPattern = regexp.MustCompile(`^HSTL-\d{4}$`)

// TicketSource yields candidate ticket numbers in [1000, 9999]
type TicketSource func() (int, error)

// RandomTicketNumber draws a ticket number from crypto/rand
func RandomTicketNumber() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(ticketMax-ticketMin+1))
	if err != nil {
		return 0, fmt.Errorf("generate ticket number: %w", err)
	}
	return ticketMin + int(n.Int64()), nil
}

// FormatTicket renders a ticket number as HSTL-####
func FormatTicket(n int) string {
	return fmt.Sprintf("%s%04d", TicketPrefix, n)
}

// IsTicketID reports whether s has the HSTL-#### shape
func IsTicketID(s string) bool {
	return ticketPattern.MatchString(s)
}
