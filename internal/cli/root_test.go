package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/codemeta/pkg/codemeta"
	"github.com/matzehuels/codemeta/pkg/errors"
	"github.com/matzehuels/codemeta/pkg/observability"
)

const testDocV3 = `{
  "@context": "https://w3id.org/codemeta/3.0",
  "@type": "SoftwareSourceCode",
  "name": "demo",
  "description": "A demo package",
  "url": "https://github.com/owner/demo",
  "author": [{"@type": "Person", "@id": "https://orcid.org/0000-0002-1825-0097", "name": "Josiah Carberry"}]
}`

const testDocV2 = `{
  "@context": "https://doi.org/10.5063/schema/codemeta-2.0",
  "@type": "SoftwareSourceCode",
  "name": "demo",
  "description": "A demo package",
  "codeRepository": "https://github.com/owner/demo",
  "author": [{"@type": "Person", "givenName": "Josiah", "familyName": "Carberry"}]
}`

// execute runs the root command with args in an isolated environment and
// returns what it printed to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithLog(t, io.Discard, args...)
}

// executeWithLog is execute with log output sent to logw.
func executeWithLog(t *testing.T, logw io.Writer, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	for _, key := range []string{
		"GITHUB_TOKEN", "GITLAB_TOKEN", "CODEMETA_SCHEMA", "CODEMETA_CACHE", "CODEMETA_CACHE_DIR",
		"CODEMETA_CACHE_TTL", "CODEMETA_REDIS_ADDR", "CODEMETA_MONGO_URI", "CODEMETA_LOG_LEVEL",
		"CODEMETA_ADDR", "CODEMETA_WORKERS",
	} {
		t.Setenv(key, "")
	}

	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() {
		stdout = prev
		observability.Reset()
	})

	root := New(logw, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readDoc(t *testing.T, path string) codemeta.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := codemeta.Decode(data)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return doc
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"cancelled", context.Canceled, ExitInterrupted},
		{"wrapped cancel", fmt.Errorf("run: %w", context.Canceled), ExitInterrupted},
		{"reported", reported(fmt.Errorf("2 items failed")), ExitItemErrors},
		{"reported cancel", reported(context.Canceled), ExitInterrupted},
		{"usage", usage(fmt.Errorf("bad flag")), ExitUsage},
		{"unsupported version", errors.UnsupportedVersion("4.0"), ExitUsage},
		{"config", errors.New(errors.ErrCodeConfig, "bad"), ExitUsage},
		{"file not found", errors.New(errors.ErrCodeFileNotFound, "gone"), ExitUsage},
		{"source unavailable", errors.SourceUnavailable(nil, "down"), ExitItemErrors},
		{"plain", fmt.Errorf("boom"), ExitItemErrors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestReported(t *testing.T) {
	if Reported(fmt.Errorf("x")) {
		t.Error("plain error reported")
	}
	if !Reported(fmt.Errorf("wrap: %w", reported(fmt.Errorf("x")))) {
		t.Error("wrapped reported error not detected")
	}
}

func TestUsageNil(t *testing.T) {
	if usage(nil) != nil {
		t.Error("usage(nil) != nil")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "version:") {
		t.Errorf("output missing build info: %q", out)
	}
	if !strings.Contains(out, "default 3.0") {
		t.Errorf("output missing default schema: %q", out)
	}
}

func TestSchemaFlag(t *testing.T) {
	out, err := execute(t, "version", "--schema", "2.0")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "default 2.0") {
		t.Errorf("--schema not applied: %q", out)
	}

	_, err = execute(t, "version", "--schema", "4.0")
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("bad --schema exit = %d, want %d (err %v)", got, ExitUsage, err)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"validate", "--nope", "x.json"}},
		{"missing argument", []string{"enhance"}},
		{"extra argument", []string{"version", "extra"}},
		{"bulk without mode", []string{"bulk", "--progress=false"}},
		{"bulk with both modes", []string{"bulk", "--progress=false", "--repos-file", "r.txt", "--directory", "."}},
		{"missing file", []string{"validate", filepath.Join(os.TempDir(), "does-not-exist.json")}},
		{"missing config", []string{"version", "--config", filepath.Join(os.TempDir(), "missing-config.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := ExitCode(err); got != ExitUsage {
				t.Errorf("exit = %d, want %d (err %v)", got, ExitUsage, err)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, filepath.Join(dir, "valid.json"), testDocV3)
	noName := writeFile(t, filepath.Join(dir, "noname.json"), strings.Replace(testDocV3, `"name": "demo",`, "", 1))
	malformed := writeFile(t, filepath.Join(dir, "malformed.json"), `{"name": `)
	array := writeFile(t, filepath.Join(dir, "array.json"), `[1, 2]`)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"valid", []string{"validate", valid}, ExitOK},
		{"warnings only", []string{"validate", noName}, ExitOK},
		{"strict warnings", []string{"validate", "--strict", noName}, ExitItemErrors},
		{"malformed", []string{"validate", malformed}, ExitItemErrors},
		{"not an object", []string{"validate", array}, ExitItemErrors},
		{"mixed", []string{"validate", valid, malformed}, ExitItemErrors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := ExitCode(err); got != tt.want {
				t.Errorf("exit = %d, want %d (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestValidateReportsMissingField(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "codemeta.json"), strings.Replace(testDocV3, `"name": "demo",`, "", 1))
	out, err := execute(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, codemeta.MsgMissingRequired+"name") {
		t.Errorf("output does not name the missing field:\n%s", out)
	}
}

func TestValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "codemeta.json"), testDocV3)
	writeFile(t, filepath.Join(dir, "b", "codemeta.json"), `not json`)
	writeFile(t, filepath.Join(dir, "b", "package.json"), `not json either`)

	_, err := execute(t, "validate", dir)
	if got := ExitCode(err); got != ExitItemErrors {
		t.Errorf("exit = %d, want %d (err %v)", got, ExitItemErrors, err)
	}
}

func TestEnhanceCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "codemeta.json"), testDocV2)
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "enhance", in, "-o", out, "--schema", "3.0"); err != nil {
		t.Fatalf("enhance: %v", err)
	}
	doc := readDoc(t, out)
	if got := codemeta.DetectVersion(doc); got != codemeta.V3 {
		t.Errorf("enhanced version = %q, want %q", got, codemeta.V3)
	}
	if doc["name"] != "demo" {
		t.Errorf("name = %v", doc["name"])
	}

	// The input is untouched when -o is given.
	if got := codemeta.DetectVersion(readDoc(t, in)); got != codemeta.V2 {
		t.Errorf("input rewritten to %q", got)
	}
}

func TestEnhanceToStdoutLogsReport(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "codemeta.json"), `{
  "@context": "https://w3id.org/codemeta/3.0",
  "@type": "SoftwareSourceCode",
  "name": "demo",
  "description": "A demo package",
  "url": "https://github.com/owner/demo"
}`)

	var logs bytes.Buffer
	out, err := executeWithLog(t, &logs, "enhance", path, "-o", "-")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	doc, err := codemeta.Decode([]byte(out))
	if err != nil {
		t.Fatalf("stdout is not a document: %v\n%s", err, out)
	}
	if doc["name"] != "demo" {
		t.Errorf("name = %v", doc["name"])
	}
	if !strings.Contains(logs.String(), "missing required field: author") {
		t.Errorf("report not logged; log output:\n%s", logs.String())
	}
}

func TestEnhanceIdempotent(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "codemeta.json"), testDocV2)

	if _, err := execute(t, "enhance", path); err != nil {
		t.Fatalf("first enhance: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "enhance", path); err != nil {
		t.Fatalf("second enhance: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("second enhance changed the document:\n%s\n---\n%s", first, second)
	}
}

func TestEnhanceMalformed(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "codemeta.json"), `{"name":`)
	_, err := execute(t, "enhance", path)
	if got := ExitCode(err); got != ExitItemErrors {
		t.Errorf("exit = %d, want %d (err %v)", got, ExitItemErrors, err)
	}
	if !Reported(err) {
		t.Error("malformed input error was not reported to the user")
	}
}

func TestEnhanceUnknownOrganization(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "codemeta.json"), testDocV3)
	_, err := execute(t, "enhance", path, "--organization", "no-such-org")
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("exit = %d, want %d (err %v)", got, ExitUsage, err)
	}
}

func TestBulkDirectory(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "a", "codemeta.json"), testDocV2)
	writeFile(t, filepath.Join(dir, "b", "codemeta.json"), `{"broken": `)
	report := filepath.Join(t.TempDir(), "report.json")

	_, err := execute(t, "bulk", "--progress=false", "--directory", dir, "--report", report, "-w", "2")
	if got := ExitCode(err); got != ExitItemErrors {
		t.Fatalf("exit = %d, want %d (err %v)", got, ExitItemErrors, err)
	}

	// The failing item does not stop the other one.
	if got := codemeta.DetectVersion(readDoc(t, good)); got != codemeta.V3 {
		t.Errorf("good document version = %q, want %q", got, codemeta.V3)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var got struct {
		Summary struct {
			Total  int `json:"total"`
			Failed int `json:"failed"`
		} `json:"summary"`
		Items []struct {
			Status string `json:"status"`
			Code   string `json:"code"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if got.Summary.Total != 2 || got.Summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 total with 1 failed", got.Summary)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[1].Code != string(errors.ErrCodeMalformedDocument) {
		t.Errorf("failed item code = %q, want %q", got.Items[1].Code, errors.ErrCodeMalformedDocument)
	}
}

func TestBulkDirectoryEmpty(t *testing.T) {
	out, err := execute(t, "bulk", "--progress=false", "--directory", t.TempDir())
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if !strings.Contains(out, "Nothing to do") {
		t.Errorf("output = %q", out)
	}
}

func TestBulkWorkersRange(t *testing.T) {
	_, err := execute(t, "bulk", "--progress=false", "--directory", t.TempDir(), "-w", "1000")
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("exit = %d, want %d (err %v)", got, ExitUsage, err)
	}
}

func TestBulkUpdateRequirements(t *testing.T) {
	dir := t.TempDir()
	doc := strings.Replace(testDocV3, `"name": "demo",`, `"name": "demo", "softwareRequirements": ["numpy"],`, 1)
	path := writeFile(t, filepath.Join(dir, "demo", "codemeta.json"), doc)
	mapping := writeFile(t, filepath.Join(t.TempDir(), "packages.yaml"), `
numpy:
  version: "1.26"
  codeRepository: https://github.com/numpy/numpy
`)

	if _, err := execute(t, "bulk", "--progress=false", "--directory", dir, "--update-requirements", mapping); err != nil {
		t.Fatalf("bulk: %v", err)
	}

	reqs, ok := readDoc(t, path)["softwareRequirements"].([]any)
	if !ok || len(reqs) != 1 {
		t.Fatalf("softwareRequirements = %v", readDoc(t, path)["softwareRequirements"])
	}
	req, ok := reqs[0].(map[string]any)
	if !ok {
		t.Fatalf("requirement not rewritten: %v", reqs[0])
	}
	if req["name"] != "numpy" || req["version"] != "1.26" {
		t.Errorf("requirement = %v", req)
	}
}

func TestGraphCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "codemeta.json"), testDocV3)
	out := filepath.Join(dir, "credits.dot")

	if _, err := execute(t, "graph", in, "-o", out, "--roles"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph credits {") {
		t.Errorf("not a DOT graph:\n%s", data)
	}
	if !strings.Contains(string(data), "Josiah Carberry") {
		t.Errorf("author missing from graph:\n%s", data)
	}

	_, err = execute(t, "graph", in, "-o", filepath.Join(dir, "credits.png"))
	if got := ExitCode(err); got != ExitUsage {
		t.Errorf("unsupported format exit = %d, want %d", got, ExitUsage)
	}
}

func TestConfigShowMasksTokens(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	cfg := writeFile(t, filepath.Join(dir, "config.toml"), `
workers = 8

[github]
token = "ghp_secret"
`)
	out, err := execute(t, "config", "show", "--config", cfg)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "ghp_secret") {
		t.Errorf("token leaked:\n%s", out)
	}
	if !strings.Contains(out, "****") {
		t.Errorf("token not masked:\n%s", out)
	}
	if !strings.Contains(out, "workers = 8") {
		t.Errorf("config file not applied:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("codemeta", "config.toml")) {
		t.Errorf("path = %q", out)
	}
}
