package codemeta

import (
	"github.com/matzehuels/codemeta/pkg/errors"
)

// EnhanceOption adjusts Enhance.
type EnhanceOption func(*enhanceConfig)

type enhanceConfig struct {
	complete bool
	validate []ValidateOption
}

// WithCompletion fills absent fields with Complete before normalizing.
func WithCompletion() EnhanceOption {
	return func(c *enhanceConfig) { c.complete = true }
}

// WithValidateOptions passes options to the final validation.
func WithValidateOptions(opts ...ValidateOption) EnhanceOption {
	return func(c *enhanceConfig) { c.validate = append(c.validate, opts...) }
}

// Enhance upgrades a copy of doc to target: it detects the current version,
// applies the migration steps between the two, normalizes against the target
// profile, optionally completes missing fields and validates the result.
// doc itself is not modified. Enhancing an already enhanced document returns
// an equal document.
func Enhance(doc Document, target Version, opts ...EnhanceOption) (Document, Report, error) {
	if !target.Valid() {
		return nil, Report{}, errors.UnsupportedVersion(string(target))
	}
	var cfg enhanceConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	out := doc.Clone()
	if out == nil {
		out = Document{}
	}
	Migrate(out, DetectVersion(out), target)

	p := ProfileFor(target)
	out = Normalize(out, p)
	if cfg.complete {
		// Complete only fills absent keys, so it must see the normalized
		// document or a dropped empty value would be filled on the next run.
		Complete(out, target)
		out = Normalize(out, p)
	}
	return out, Validate(out, p, cfg.validate...), nil
}

// EnhanceBytes decodes data and enhances it. Undecodable input is reported
// as a MALFORMED_DOCUMENT error.
func EnhanceBytes(data []byte, target Version, opts ...EnhanceOption) (Document, Report, error) {
	if !target.Valid() {
		return nil, Report{}, errors.UnsupportedVersion(string(target))
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, Report{}, err
	}
	return Enhance(doc, target, opts...)
}
