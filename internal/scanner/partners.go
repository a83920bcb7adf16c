package scanner

import "github.com/CosmoTheDev/rekt-terminal/models"

var partnerRegistry = []models.SecurityPartner{
	{
		ID:          "certik",
		Name:        "CertiK",
		Description: "Formal verification and on-chain monitoring.",
		Specialty:   "Formal verification",
		APIEndpoint: "https://api.certik.example/v1/scan",
	},
	{
		ID:          "trailofbits",
		Name:        "Trail of Bits",
		Description: "Deep manual review backed by Slither and Echidna.",
		Specialty:   "Static analysis and fuzzing",
		APIEndpoint: "https://api.trailofbits.example/v1/analyze",
	},
	{
		ID:          "openzeppelin",
		Name:        "OpenZeppelin",
		Description: "Audits and battle-tested contract libraries.",
		Specialty:   "Library hardening",
		APIEndpoint: "https://api.openzeppelin.example/defender",
	},
	{
		ID:          "hacken",
		Name:        "Hacken",
		Description: "Smart contract audits and penetration testing.",
		Specialty:   "Penetration testing",
	},
	{
		ID:          "quantstamp",
		Name:        "Quantstamp",
		Description: "Automated and manual smart contract auditing.",
		Specialty:   "Automated auditing",
		APIEndpoint: "https://api.quantstamp.example/v2/audit",
	},
}

// Partners returns a copy of the static partner registry.
func Partners() []models.SecurityPartner {
	return append([]models.SecurityPartner(nil), partnerRegistry...)
}

// partnersFor returns the registry entries named by any finding's
// DetectedBy list, in registry order.
func partnersFor(registry []models.SecurityPartner, vulns []models.Vulnerability) []models.SecurityPartner {
	named := make(map[string]struct{})
	for _, v := range vulns {
		for _, name := range v.DetectedBy {
			named[name] = struct{}{}
		}
	}
	out := make([]models.SecurityPartner, 0, len(named))
	for _, p := range registry {
		if _, ok := named[p.Name]; ok {
			out = append(out, p)
		}
	}
	return out
}
