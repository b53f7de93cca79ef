package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
)

// The data files below are YAML. JSON is accepted too, being valid YAML.

// affiliation is a plain organization name or a full organization mapping.
type affiliation codemeta.Organization

func (a *affiliation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Name = strings.TrimSpace(value.Value)
		return nil
	}
	return value.Decode((*codemeta.Organization)(a))
}

type authorFile struct {
	Name        string       `yaml:"name"`
	GivenName   string       `yaml:"givenName"`
	FamilyName  string       `yaml:"familyName"`
	Email       string       `yaml:"email"`
	ID          string       `yaml:"id"`
	ORCID       string       `yaml:"orcid"`
	Affiliation *affiliation `yaml:"affiliation"`
}

// LoadAuthors reads a list of people:
//
//	# authors.yaml
//	- name: Ada Lovelace
//	  orcid: 0000-0002-1825-0097
//	  affiliation: University of London
func LoadAuthors(path string) ([]codemeta.Person, error) {
	var entries []authorFile
	if err := decodeFile(path, &entries); err != nil {
		return nil, err
	}
	out := make([]codemeta.Person, 0, len(entries))
	for i, e := range entries {
		id := e.ID
		if e.ORCID != "" {
			id = e.ORCID
		}
		p := codemeta.NewPerson(e.Name, id)
		if e.GivenName != "" {
			p.GivenName = e.GivenName
		}
		if e.FamilyName != "" {
			p.FamilyName = e.FamilyName
		}
		p.Email = strings.TrimSpace(e.Email)
		if e.Affiliation != nil {
			org := codemeta.Organization(*e.Affiliation)
			p.Affiliation = &org
		}
		if p.DisplayName() == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: author %d has no name", path, i+1)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadOrganization reads a single organization mapping.
func LoadOrganization(path string) (codemeta.Organization, error) {
	var org codemeta.Organization
	if err := decodeFile(path, &org); err != nil {
		return codemeta.Organization{}, err
	}
	if org.Name == "" {
		return codemeta.Organization{}, errors.New(errors.ErrCodeInvalidInput, "%s: organization has no name", path)
	}
	return org, nil
}

// requirementEntry is either a requirement spec string ("numpy>=1.20") or a
// full requirement mapping.
type requirementEntry codemeta.SoftwareRequirement

func (r *requirementEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = requirementEntry(codemeta.NewRequirement(value.Value))
		return nil
	}
	return value.Decode((*codemeta.SoftwareRequirement)(r))
}

// LoadRequirementsMap reads a package name to requirement mapping used to
// rewrite plain-string softwareRequirements entries. Entries without a name
// take the key.
func LoadRequirementsMap(path string) (map[string]codemeta.SoftwareRequirement, error) {
	var raw map[string]requirementEntry
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]codemeta.SoftwareRequirement, len(raw))
	for key, entry := range raw {
		req := codemeta.SoftwareRequirement(entry)
		if req.Name == "" {
			req.Name = key
		}
		if req.Identifier == "" {
			req.Identifier = strings.ToLower(req.Name)
		}
		out[key] = req
	}
	return out, nil
}

// publications is one publication or a list of them.
type publications []codemeta.Publication

func (p *publications) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		return value.Decode((*[]codemeta.Publication)(p))
	}
	var one codemeta.Publication
	if err := value.Decode(&one); err != nil {
		return err
	}
	*p = publications{one}
	return nil
}

// LoadPublicationsMap reads a project name to publications mapping.
func LoadPublicationsMap(path string) (map[string][]codemeta.Publication, error) {
	var raw map[string]publications
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string][]codemeta.Publication, len(raw))
	for project, pubs := range raw {
		for i, p := range pubs {
			if p.DOI == "" && p.URL == "" && p.Title == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "%s: %s publication %d is empty", path, project, i+1)
			}
		}
		out[project] = pubs
	}
	return out, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	return nil
}
