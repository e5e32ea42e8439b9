// Package address extracts street, neighborhood and city from provider
// formatted addresses.
//
// Limitation: a Parser recognises exactly one formatting convention,
//
//	"<route>, <number> - <neighborhood>, <Locality> - <State>, <postal code>"
//
// for a single locality/state pair. Addresses in any other shape, or from any
// other locality, do not match and yield no components. This is intentional;
// broader formats need their own parser rather than a looser pattern.
package address

import (
	"fmt"
	"regexp"

	"github.com/octobees/leads-generator/collector/internal/entity"
)

// Components holds the parts of a matched address. Fields are empty when the
// address did not match.
type Components struct {
	Route        string
	StreetNumber string
	Neighborhood string
	Locality     string
}

// OrNA returns a copy where every empty field is replaced by entity.NotAvailable.
func (c Components) OrNA() Components {
	return Components{
		Route:        orNA(c.Route),
		StreetNumber: orNA(c.StreetNumber),
		Neighborhood: orNA(c.Neighborhood),
		Locality:     orNA(c.Locality),
	}
}

// Parser matches addresses for one locality.
type Parser struct {
	pattern *regexp.Regexp
}

// NewParser builds a parser for addresses ending in "<locality> - <state>".
func NewParser(locality, state string) *Parser {
	expr := fmt.Sprintf(`^(.*?),\s*(\d+).*?-\s*(.*?),\s*(%s)\s+-\s+%s\b.*$`,
		regexp.QuoteMeta(locality), regexp.QuoteMeta(state))
	return &Parser{pattern: regexp.MustCompile(expr)}
}

// NewSantosParser returns the parser for Santos - SP addresses.
func NewSantosParser() *Parser {
	return NewParser("Santos", "SP")
}

// Parse extracts components from formatted. The boolean is false when the
// address does not follow the supported convention.
func (p *Parser) Parse(formatted string) (Components, bool) {
	m := p.pattern.FindStringSubmatch(formatted)
	if m == nil {
		return Components{}, false
	}
	return Components{
		Route:        m[1],
		StreetNumber: m[2],
		Neighborhood: m[3],
		Locality:     m[4],
	}, true
}

func orNA(value string) string {
	if value == "" {
		return entity.NotAvailable
	}
	return value
}
