package author

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

type keywordFile struct {
	Keywords []string `yaml:"keywords" validate:"required,min=1,dive,min=2,keyword"`
}

// Keywords is a validated list of institution/affiliation keywords.
type Keywords struct {
	list []string
}

// DefaultKeywords returns the keyword list embedded in the binary.
func DefaultKeywords() (*Keywords, error) {
	return ParseKeywords(strings.NewReader(string(defaultKeywordsYAML)))
}

// LoadKeywords reads and validates a keyword file.
func LoadKeywords(path string) (*Keywords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword file: %w", err)
	}
	defer f.Close()

	kw, err := ParseKeywords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return kw, nil
}

// ParseKeywords decodes a YAML document of the form
//
//	keywords:
//	  - university
//	  - institute
//
// Every entry must be lower case and at least two characters long. Phrases
// such as "et al." are allowed; their words are separated by single spaces. Duplicates and entries that contain another entry are
// rejected: substring matching makes them redundant, and they usually come
// from two keywords that were accidentally written as one.
func ParseKeywords(r io.Reader) (*Keywords, error) {
	var file keywordFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}

	if err := newValidator().Struct(file); err != nil {
		return nil, describeValidation(file, err)
	}

	for i, a := range file.Keywords {
		for j, b := range file.Keywords {
			if i == j {
				continue
			}
			if a == b && i < j {
				return nil, fmt.Errorf("keyword %q (entry %d) is duplicated at entry %d", a, i+1, j+1)
			}
			if a != b && strings.Contains(a, b) {
				return nil, fmt.Errorf("keyword %q (entry %d) contains keyword %q (entry %d)", a, i+1, b, j+1)
			}
		}
	}

	return &Keywords{list: file.Keywords}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("keyword", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == strings.ToLower(s) && strings.Join(strings.Fields(s), " ") == s
	})
	return v
}

func describeValidation(file keywordFile, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid keywords: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "min":
		if fe.Field() == "Keywords" {
			return errors.New("keyword list is empty")
		}
		return fmt.Errorf("keyword %q is shorter than two characters", fe.Value())
	case "keyword":
		return fmt.Errorf("keyword %q must be lower case with single spaces between words", fe.Value())
	}
	return fmt.Errorf("invalid keyword %v: failed %s", fe.Value(), fe.Tag())
}

// Match returns the first keyword contained in lower, which must already be
// lower case.
func (k *Keywords) Match(lower string) (string, bool) {
	for _, kw := range k.list {
		if strings.Contains(lower, kw) {
			return kw, true
		}
	}
	return "", false
}

// Len returns the number of keywords.
func (k *Keywords) Len() int {
	return len(k.list)
}
