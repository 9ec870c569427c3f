package billing

import (
	"strings"

	"github.com/enkelfaktura/faktura-api/internal/domain/entity"
)

// Endpoint identifier schemes used in the Peppol party blocks.
const (
	// SchemeOrgNumber is the Norwegian organization number scheme
	// (Enhetsregisteret, ICD 0192).
	SchemeOrgNumber = "0192"
	// SchemeGeneric is the mutually-agreed fallback scheme used for
	// individuals, who have no registry identifier.
	SchemeGeneric = "ZZZ"
)

// DefaultCountryCode is the local jurisdiction fallback.
const DefaultCountryCode = "NO"

// CountryCode canonicalizes a stored country string into an ISO 3166-1
// alpha-2 code. Anything that is not exactly two letters after trimming
// falls back to "NO": party forms accept free text ("Norge", "France"), and
// both serializers must agree on the coding.
func CountryCode(country string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(country))
	if len(trimmed) == 2 {
		return trimmed
	}
	return DefaultCountryCode
}

// EndpointScheme returns the party identification scheme emitted for the
// party: registration-number based for organizations, name based otherwise.
func EndpointScheme(p *entity.Party) string {
	if p.IsOrganization() {
		return SchemeOrgNumber
	}
	return SchemeGeneric
}

// EndpointID returns the endpoint identifier value matching EndpointScheme.
func EndpointID(p *entity.Party) string {
	if p.IsOrganization() {
		return p.OrgNumber
	}
	return p.Name
}
