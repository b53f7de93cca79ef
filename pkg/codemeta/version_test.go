package codemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/codemeta/pkg/errors"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"2.0", V2, false},
		{"3.0", V3, false},
		{"3", V3, false},
		{"v2.0", V2, false},
		{"", V3, false},
		{"1.0", "", true},
		{"4.0", "", true},
		{"latest", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrCodeUnsupportedVersion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name string
		ctx  any
		want Version
	}{
		{"absent", nil, V2},
		{"v2 doi", ContextV2, V2},
		{"v3 w3id", ContextV3, V3},
		{"v3 doi", "https://doi.org/10.5063/schema/codemeta-3.0", V3},
		{"trailing slash", ContextV3 + "/", V3},
		{"unknown", "https://schema.org", V2},
		{"list", []any{"https://schema.org", ContextV3}, V3},
		{"list picks newest", []any{ContextV2, ContextV3}, V3},
		{"object", map[string]any{"@vocab": "https://schema.org/"}, V2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{}
			if tt.ctx != nil {
				doc["@context"] = tt.ctx
			}
			assert.Equal(t, tt.want, DetectVersion(doc))
		})
	}
}

func TestSetContextKeepsExtraEntries(t *testing.T) {
	doc := Document{"@context": []any{ContextV2, "https://w3id.org/software-iodata"}}
	setContext(doc, V3)
	assert.Equal(t, []any{ContextV3, "https://w3id.org/software-iodata"}, doc["@context"])

	setContext(doc, V3)
	assert.Equal(t, []any{ContextV3, "https://w3id.org/software-iodata"}, doc["@context"])

	doc = Document{"@context": map[string]any{"@vocab": "https://schema.org/"}}
	setContext(doc, V3)
	assert.Equal(t, V3, DetectVersion(doc))
}
