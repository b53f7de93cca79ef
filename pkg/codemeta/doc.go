// Package codemeta models CodeMeta JSON-LD documents and the pipeline that
// produces and repairs them.
//
// A [Document] is plain decoded JSON. Every field the schema knows about is
// described by a [Profile]; there is one immutable profile per supported
// [Version] (2.0 and 3.0). Code that needs to look at a field's value first
// runs it through [Classify], which yields a [Value] tagged with a [Kind].
// The normalizer and validator switch on that kind and nothing else.
//
// The pipeline stages are:
//
//	Generate   repository facts -> base document
//	Add*       merge authors, requirements, publications, organizations
//	Enhance    detect version -> migrate -> complete -> Normalize -> Validate
//
// Validation never fails: problems are collected as [Issue] values in a
// [Report] and the document is still usable. Only undecodable input and
// unsupported versions are Go errors.
package codemeta
