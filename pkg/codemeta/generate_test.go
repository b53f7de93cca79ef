package codemeta

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codemeta/pkg/errors"
)

func staticSource(facts *RepositoryFacts, err error) RepositorySource {
	return RepositorySourceFunc(func(context.Context, string) (*RepositoryFacts, error) {
		return facts, err
	})
}

func TestGenerateFromFacts(t *testing.T) {
	src := staticSource(&RepositoryFacts{Name: "demo", Description: "x", License: "MIT"}, nil)

	doc, err := Generate(context.Background(), src, "https://github.com/owner/demo", V3)
	require.NoError(t, err)

	assert.Equal(t, ContextV3, doc["@context"])
	assert.Equal(t, "SoftwareSourceCode", doc["@type"])
	assert.Equal(t, "demo", doc["name"])
	assert.Equal(t, "x", doc["description"])
	assert.Equal(t, "MIT", doc["license"])
	assert.Equal(t, "https://github.com/owner/demo", doc["url"])
	assert.Equal(t, "https://github.com/owner/demo", doc["codeRepository"])

	assert.Equal(t, []string{"missing required field: author"}, Validate(doc, ProfileFor(V3)).Messages())
	assert.Empty(t, Validate(doc, ProfileFor(V2)).Messages())
}

func TestGenerateOptionalFacts(t *testing.T) {
	created := time.Date(2021, 3, 4, 23, 0, 0, 0, time.UTC)
	src := staticSource(&RepositoryFacts{
		Name:            "demo",
		Homepage:        "https://demo.example.org",
		License:         "NOASSERTION",
		PrimaryLanguage: "Go",
		Topics:          []string{"cli", "metadata"},
		CreatedAt:       created,
	}, nil)

	doc, err := Generate(context.Background(), src, "https://github.com/owner/demo.git", V2)
	require.NoError(t, err)

	assert.Equal(t, ContextV2, doc["@context"])
	assert.Equal(t, "https://demo.example.org", doc["url"])
	assert.Equal(t, "https://github.com/owner/demo", doc["codeRepository"])
	assert.Equal(t, []any{"Go"}, doc["programmingLanguage"])
	assert.Equal(t, []any{"cli", "metadata"}, doc["keywords"])
	assert.Equal(t, "2021-03-04", doc["dateCreated"])
	assert.NotContains(t, doc, "license")
	assert.NotContains(t, doc, "description")
	assert.NotContains(t, doc, "dateModified")
}

func TestGenerateSourceUnavailable(t *testing.T) {
	_, err := Generate(context.Background(), staticSource(nil, stderrors.New("connection refused")), "https://github.com/o/r", V3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeSourceUnavailable))
	assert.Contains(t, err.Error(), "connection refused")

	_, err = Generate(context.Background(), staticSource(nil, nil), "https://github.com/o/r", V3)
	assert.True(t, errors.Is(err, errors.ErrCodeSourceUnavailable))

	wrapped := errors.SourceUnavailable(nil, "github down")
	_, err = Generate(context.Background(), staticSource(nil, wrapped), "https://github.com/o/r", V3)
	assert.Same(t, wrapped, err)
}

func TestGenerateUnsupportedVersion(t *testing.T) {
	called := false
	src := RepositorySourceFunc(func(context.Context, string) (*RepositoryFacts, error) {
		called = true
		return &RepositoryFacts{}, nil
	})
	_, err := Generate(context.Background(), src, "https://github.com/o/r", Version("2.5"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))
	assert.False(t, called)
}
