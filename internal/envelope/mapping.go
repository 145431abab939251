package envelope

// Mapping is a legacy account (Source) that was replaced by Target.
type Mapping struct {
	Source string
	Target string
}

// ExpandViaMapping adds the source account of every mapping whose target
// is in accounts. Added sources are expanded as well, so chains of legacy
// codes are followed. The direction is fixed: a target is never added
// because its source is allowed.
//
// The result keeps the order of accounts followed by the added sources
// and contains every code once.
func ExpandViaMapping(accounts []string, mappings []Mapping) []string {
	sources := make(map[string][]string)
	for _, m := range mappings {
		sources[m.Target] = append(sources[m.Target], m.Source)
	}

	seen := make(map[string]bool, len(accounts))
	result := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if !seen[a] {
			seen[a] = true
			result = append(result, a)
		}
	}

	for i := 0; i < len(result); i++ {
		for _, source := range sources[result[i]] {
			if !seen[source] {
				seen[source] = true
				result = append(result, source)
			}
		}
	}

	return result
}
