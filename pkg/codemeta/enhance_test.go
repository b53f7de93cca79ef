package codemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codemeta/pkg/errors"
)

func legacyDocument() Document {
	return Document{
		"@context":        "https://doi.org/10.5063/schema/codemeta-2.0",
		"@type":           "SoftwareSourceCode",
		"name":            "demo",
		"description":     "Data analysis helpers",
		"url":             "https://github.com/owner/demo",
		"author":          "Ada Lovelace and Alan Turing",
		"contIntegration": "https://github.com/owner/demo/actions",
		"embargoDate":     "2025-01-01",
		"license":         "MIT",
		"keywords":        "statistics",
		"version":         1.2,
	}
}

func TestEnhanceMigratesV2ToV3(t *testing.T) {
	out, report, err := Enhance(legacyDocument(), V3)
	require.NoError(t, err)

	assert.Equal(t, ContextV3, out["@context"])
	assert.Equal(t, "https://github.com/owner/demo/actions", out["continuousIntegration"])
	assert.Equal(t, "2025-01-01", out["embargoEndDate"])
	assert.NotContains(t, out, "contIntegration")
	assert.NotContains(t, out, "embargoDate")
	assert.Equal(t, []any{
		map[string]any{"@type": "Person", "name": "Ada Lovelace"},
		map[string]any{"@type": "Person", "name": "Alan Turing"},
	}, out["author"])
	assert.Equal(t, []any{"statistics"}, out["keywords"])
	assert.Equal(t, "1.2", out["version"])
	assert.True(t, report.Empty(), "unexpected issues: %v", report.Messages())
}

func TestEnhanceMigratesV3ToV2(t *testing.T) {
	doc := validV3()
	doc["continuousIntegration"] = "https://ci.example.org/demo"

	out, report, err := Enhance(doc, V2)
	require.NoError(t, err)
	assert.Equal(t, ContextV2, out["@context"])
	assert.Equal(t, "https://ci.example.org/demo", out["contIntegration"])
	assert.NotContains(t, out, "continuousIntegration")
	assert.True(t, report.Empty(), "unexpected issues: %v", report.Messages())
}

func TestEnhanceIsIdempotent(t *testing.T) {
	inputs := map[string]Document{
		"legacy":   legacyDocument(),
		"current":  validV3(),
		"empty":    {},
		"messy":    looseDocuments()["nulls and empties"],
		"scalars":  looseDocuments()["scalars everywhere"],
		"gitlab":   {"name": "g", "url": "https://gitlab.com/group/g", "codeRepository": []any{}, "maintainer": []any{}},
		"ctx list": {"@context": []any{"https://w3id.org/codemeta/3.0", map[string]any{"ex": "https://example.org/"}}, "name": "x"},
	}
	options := map[string][]EnhanceOption{
		"plain":    nil,
		"complete": {WithCompletion()},
	}

	for name, doc := range inputs {
		for optName, opts := range options {
			t.Run(name+"/"+optName, func(t *testing.T) {
				once, r1, err := Enhance(doc, V3, opts...)
				require.NoError(t, err)
				twice, r2, err := Enhance(once, V3, opts...)
				require.NoError(t, err)
				assert.Equal(t, once, twice)
				assert.Equal(t, r1, r2)
			})
		}
	}
}

func TestEnhanceDoesNotModifyInput(t *testing.T) {
	doc := legacyDocument()
	_, _, err := Enhance(doc, V3, WithCompletion())
	require.NoError(t, err)
	assert.Equal(t, legacyDocument(), doc)
}

func TestEnhanceWithCompletion(t *testing.T) {
	out, _, err := Enhance(legacyDocument(), V3, WithCompletion())
	require.NoError(t, err)

	assert.Equal(t, "https://spdx.org/licenses/MIT", out["license"])
	assert.Equal(t, "active", out["developmentStatus"])
	assert.Equal(t, []any{"Data Science"}, out["applicationCategory"])
	assert.Equal(t, "https://github.com/owner/demo", out["codeRepository"])
	assert.Equal(t, "https://github.com/owner/demo/issues", out["issueTracker"])
	assert.Equal(t, []any{map[string]any{"@type": "Person", "name": "Ada Lovelace"}}, out["maintainer"])
	assert.NotContains(t, out, "softwareVersion")
}

func TestEnhanceUnsupportedVersion(t *testing.T) {
	_, _, err := Enhance(validV3(), Version("1.0"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))

	_, _, err = EnhanceBytes([]byte(`{}`), Version("4.0"))
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))
}

func TestEnhanceBytes(t *testing.T) {
	out, report, err := EnhanceBytes([]byte(`{"name": "demo", "author": "Ada"}`), V3)
	require.NoError(t, err)
	assert.Equal(t, "demo", out["name"])
	assert.Equal(t, []string{
		"missing required field: description",
		"missing required field: url",
	}, report.Messages())

	for _, in := range []string{`{"name": `, `[1, 2]`, `"text"`, `{} {}`} {
		_, _, err := EnhanceBytes([]byte(in), V3)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, errors.ErrCodeMalformedDocument), in)
	}
}
