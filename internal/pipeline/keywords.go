package pipeline

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Keywords holds the ownership-signal vocabulary the local verification
// heuristic runs on when no synthesis backend is reachable.
type Keywords struct {
	// Ownership phrases searched for in lowercased snippet text.
	Ownership []string `yaml:"ownership"`
	// LeadVerbs precede a group name ("owned by Torrisi Restaurant Group").
	LeadVerbs []string `yaml:"lead_verbs"`
	// TailVerbs follow a group name ("Torrisi Restaurant Group operates").
	TailVerbs []string `yaml:"tail_verbs"`
	// Suffixes terminate a capitalized company phrase.
	Suffixes []string `yaml:"suffixes"`
}

// DefaultKeywords returns the built-in vocabulary.
func DefaultKeywords() Keywords {
	return Keywords{
		Ownership: []string{
			"restaurant group",
			"hospitality group",
			"parent company",
			"owned by",
			"operates",
			"portfolio",
			"management company",
			"dining group",
			"restaurant family",
			"restaurant collection",
		},
		LeadVerbs: []string{"owned by", "part of", "managed by"},
		TailVerbs: []string{"owns", "operates", "manages"},
		Suffixes: []string{
			"Group", "Hospitality", "Restaurant", "Management",
			"Collection", "Dining", "Company", "LLC", "Inc",
		},
	}
}

// LoadKeywords reads vocabulary overrides from a YAML file. Lists absent
// from the file keep their built-in values.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, eris.Wrapf(err, "pipeline: read keywords %s", path)
	}

	// The YAML has a top-level "keywords" key.
	var wrapper struct {
		Keywords Keywords `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Keywords{}, eris.Wrap(err, "pipeline: parse keywords")
	}

	kw := wrapper.Keywords
	defaults := DefaultKeywords()
	if len(kw.Ownership) == 0 {
		kw.Ownership = defaults.Ownership
	}
	if len(kw.LeadVerbs) == 0 {
		kw.LeadVerbs = defaults.LeadVerbs
	}
	if len(kw.TailVerbs) == 0 {
		kw.TailVerbs = defaults.TailVerbs
	}
	if len(kw.Suffixes) == 0 {
		kw.Suffixes = defaults.Suffixes
	}
	return kw, nil
}
