package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codemeta/pkg/errors"
)

func TestLoadAuthors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "authors.yaml", `
- name: Ada Lovelace
  orcid: 0000-0002-1825-0097
  email: ada@example.org
  affiliation: University of London
- name: Hopper, Grace
  affiliation:
    name: US Navy
    url: https://navy.example
`)
	authors, err := LoadAuthors(path)
	require.NoError(t, err)
	require.Len(t, authors, 2)

	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097", authors[0].ID)
	assert.Equal(t, "Ada", authors[0].GivenName)
	assert.Equal(t, "Lovelace", authors[0].FamilyName)
	assert.Equal(t, "ada@example.org", authors[0].Email)
	require.NotNil(t, authors[0].Affiliation)
	assert.Equal(t, "University of London", authors[0].Affiliation.Name)

	assert.Equal(t, "Grace Hopper", authors[1].Name)
	require.NotNil(t, authors[1].Affiliation)
	assert.Equal(t, "https://navy.example", authors[1].Affiliation.URL)
}

func TestLoadAuthorsJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "authors.json", `[{"givenName": "Alan", "familyName": "Turing"}]`)
	authors, err := LoadAuthors(path)
	require.NoError(t, err)
	require.Len(t, authors, 1)
	assert.Equal(t, "Alan Turing", authors[0].DisplayName())
}

func TestLoadAuthorsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAuthors(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))

	_, err = LoadAuthors(writeFile(t, dir, "bad.yaml", "name: [unterminated"))
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))

	_, err = LoadAuthors(writeFile(t, dir, "anon.yaml", "- email: x@example.org\n"))
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestLoadOrganization(t *testing.T) {
	dir := t.TempDir()
	org, err := LoadOrganization(writeFile(t, dir, "org.yaml", `
name: Open Science Lab
url: https://lab.example
parentOrganization:
  name: Example University
`))
	require.NoError(t, err)
	assert.Equal(t, "Open Science Lab", org.Name)
	require.NotNil(t, org.ParentOrganization)
	assert.Equal(t, "Example University", org.ParentOrganization.Name)

	_, err = LoadOrganization(writeFile(t, dir, "empty.yaml", "url: https://x.example\n"))
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}

func TestLoadRequirementsMap(t *testing.T) {
	path := writeFile(t, t.TempDir(), "requirements.yaml", `
numpy: numpy>=1.20
mylib:
  id: https://github.com/me/mylib
  codeRepository: https://github.com/me/mylib
  version: "2.1"
`)
	reqs, err := LoadRequirementsMap(path)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, "numpy", reqs["numpy"].Name)
	assert.Equal(t, ">=1.20", reqs["numpy"].Version)
	assert.Equal(t, "https://github.com/numpy/numpy", reqs["numpy"].CodeRepository)

	assert.Equal(t, "mylib", reqs["mylib"].Name)
	assert.Equal(t, "mylib", reqs["mylib"].Identifier)
	assert.Equal(t, "2.1", reqs["mylib"].Version)
	assert.Equal(t, "https://github.com/me/mylib", reqs["mylib"].ID)
}

func TestLoadPublicationsMap(t *testing.T) {
	dir := t.TempDir()
	pubs, err := LoadPublicationsMap(writeFile(t, dir, "pubs.yaml", `
alpha:
  doi: 10.1000/alpha
  title: Alpha paper
beta:
  - doi: 10.1000/beta1
    year: "2021"
  - url: https://example.org/beta2
`))
	require.NoError(t, err)
	require.Len(t, pubs["alpha"], 1)
	assert.Equal(t, "Alpha paper", pubs["alpha"][0].Title)
	require.Len(t, pubs["beta"], 2)
	assert.Equal(t, "2021", pubs["beta"][0].Year)
	assert.Equal(t, "https://example.org/beta2", pubs["beta"][1].URL)

	_, err = LoadPublicationsMap(writeFile(t, dir, "empty.yaml", "alpha:\n  year: \"2020\"\n"))
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
}
