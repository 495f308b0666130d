package facts

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/imoveis-cli/internal/textnorm"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary holds the keyword lists used by the classifiers.
type Vocabulary struct {
	PropertyTypes TypeKeywords      `yaml:"property_types"`
	Financing     FinancingKeywords `yaml:"financing"`
}

// TypeKeywords lists the keywords per property type. The struct field order
// is the detection order.
type TypeKeywords struct {
	House      []string `yaml:"house"`
	Apartment  []string `yaml:"apartment"`
	Land       []string `yaml:"land"`
	Commercial []string `yaml:"commercial"`
}

// FinancingKeywords lists financing-benefit keywords and the negation
// phrases that cancel them.
type FinancingKeywords struct {
	Keywords  []string `yaml:"keywords"`
	Negations []string `yaml:"negations"`
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		// vocabulary.yaml is embedded at build time.
		panic(err)
	}
	return v
}

// LoadVocabulary reads a vocabulary file. An empty path returns the built-in
// vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "facts: read vocabulary %s", path)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML vocabulary and normalizes its keywords.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "facts: parse vocabulary")
	}

	pt := &v.PropertyTypes
	for _, list := range []*[]string{&pt.House, &pt.Apartment, &pt.Land, &pt.Commercial, &v.Financing.Keywords, &v.Financing.Negations} {
		*list = normalizeKeywords(*list)
	}

	if len(pt.House)+len(pt.Apartment)+len(pt.Land)+len(pt.Commercial) == 0 {
		return nil, eris.New("facts: vocabulary has no property type keywords")
	}
	return &v, nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = textnorm.Normalize(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
