package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"mini/interpreter-go/pkg/driver"
	"mini/interpreter-go/pkg/interpreter"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()
	return code, string(outBytes), string(errBytes)
}

func scriptDir(t *testing.T) string {
	t.Helper()
	t.Setenv(driver.ConfigEnvVar, "")
	return t.TempDir()
}

func TestRunPrintsOutput(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "main.mini")
	writeFile(t, path, `
function add(a, b) { return a + b; }
print add(2, 3);
print "done";
`)
	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 {
		t.Fatalf("run exit code %d, stderr: %s", code, stderr)
	}
	if stdout != "5\ndone\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestRunShortcutAcceptsSourceFile(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "solo.mini")
	writeFile(t, path, `print "solo";`)
	code, stdout, _ := captureCLI(t, []string{path})
	if code != 0 || stdout != "solo\n" {
		t.Fatalf("shortcut run = %d %q", code, stdout)
	}
}

func TestRunReportsRuntimeDiagnostic(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "bad.mini")
	writeFile(t, path, "print 1;\nconst y = 1;\ny = 2;")
	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if stdout != "1\n" {
		t.Fatalf("output before the failure should be kept, got %q", stdout)
	}
	want := "runtime error: " + path + ":3: cannot assign to constant 'y'"
	if !strings.Contains(stderr, want) {
		t.Fatalf("stderr %q does not contain %q", stderr, want)
	}
}

func TestRunMissingFile(t *testing.T) {
	dir := scriptDir(t)
	code, _, stderr := captureCLI(t, []string{"run", filepath.Join(dir, "absent.mini")})
	if code != 1 || !strings.Contains(stderr, "load error:") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	scriptDir(t)
	cases := [][]string{
		nil,
		{"--bogus"},
		{"run"},
		{"run", "a.mini", "b.mini"},
		{"run", "--max-steps", "many", "a.mini"},
		{"tokens", "--format", "xml", "a.mini"},
	}
	for _, args := range cases {
		if code, _, _ := captureCLI(t, args); code != 2 {
			t.Fatalf("%v: expected exit code 2, got %d", args, code)
		}
	}
}

func TestVersion(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 || strings.TrimSpace(stdout) != cliToolVersion {
		t.Fatalf("unexpected version output %d %q", code, stdout)
	}
}

func TestConfigFileAndFlagOverride(t *testing.T) {
	dir := scriptDir(t)
	writeFile(t, filepath.Join(dir, driver.ConfigFileName), `
parser:
  associativity: right
`)
	path := filepath.Join(dir, "assoc.mini")
	writeFile(t, path, "print 10 - 3 - 2;")

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 || stdout != "9\n" {
		t.Fatalf("config associativity not applied: %d %q %s", code, stdout, stderr)
	}
	code, stdout, stderr = captureCLI(t, []string{"run", "--assoc", "left", path})
	if code != 0 || stdout != "5\n" {
		t.Fatalf("flag should override config: %d %q %s", code, stdout, stderr)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	dir := scriptDir(t)
	writeFile(t, filepath.Join(dir, driver.ConfigFileName), `
interpreter:
  duplicate_check: nowhere
`)
	path := filepath.Join(dir, "main.mini")
	writeFile(t, path, "print 1;")
	code, _, stderr := captureCLI(t, []string{"run", path})
	if code != 1 || !strings.Contains(stderr, "config validation failed") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestDuplicateCheckFlag(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "shadow.mini")
	writeFile(t, path, "let v = 0; function f() { let v = 1; return v; } print f();")
	if code, _, _ := captureCLI(t, []string{"run", path}); code != 1 {
		t.Fatalf("stack check should reject shadowing, got %d", code)
	}
	code, stdout, stderr := captureCLI(t, []string{"run", "--duplicate-check", "frame", path})
	if code != 0 || stdout != "1\n" {
		t.Fatalf("frame check run = %d %q %s", code, stdout, stderr)
	}
}

func TestMaxStepsFlag(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "loop.mini")
	writeFile(t, path, "while (true) { }")
	code, _, stderr := captureCLI(t, []string{"run", "--max-steps", "50", path})
	if code != 1 || !strings.Contains(stderr, "runtime error:") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestNestingFlags(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "nested.mini")
	writeFile(t, path, "print "+strings.Repeat("(", 10)+"- - - - - 1"+strings.Repeat(")", 10)+";")

	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 0 || stdout != "-1\n" {
		t.Fatalf("default limits = %d %q %q", code, stdout, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"run", "--max-depth", "5", path})
	if code != 1 || !strings.Contains(stderr, "parse error:") || !strings.Contains(stderr, "nesting exceeds 5 levels") {
		t.Fatalf("max-depth run = %d %q", code, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"run", "--max-nesting-depth", "3", path})
	if code != 1 || !strings.Contains(stderr, "runtime error:") || !strings.Contains(stderr, "nesting limit of 3 exceeded") {
		t.Fatalf("max-nesting-depth run = %d %q", code, stderr)
	}
}

func TestTraceWritesToStderr(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "trace.mini")
	writeFile(t, path, "function f() { return 1; } print f();")
	code, stdout, stderr := captureCLI(t, []string{"run", "--trace", path})
	if code != 0 || stdout != "1\n" {
		t.Fatalf("trace run = %d %q", code, stdout)
	}
	if !strings.Contains(stderr, "msg=call") {
		t.Fatalf("expected trace output, got %q", stderr)
	}
}

func TestTokensCommand(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "tokens.mini")
	writeFile(t, path, "print 7;")
	code, stdout, stderr := captureCLI(t, []string{"tokens", path})
	if code != 0 {
		t.Fatalf("tokens exit %d: %s", code, stderr)
	}
	for _, want := range []string{`"kind": "keyword"`, `"value": 7`, `"kind": "end-of-input"`} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("tokens output missing %s:\n%s", want, stdout)
		}
	}

	code, stdout, _ = captureCLI(t, []string{"tokens", "--format", "yaml", path})
	if code != 0 || !strings.Contains(stdout, "kind: keyword") {
		t.Fatalf("unexpected yaml tokens %d:\n%s", code, stdout)
	}
}

func TestTokensReportsLexError(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "bad.mini")
	writeFile(t, path, "let a = 1;\nlet b = $;")
	code, _, stderr := captureCLI(t, []string{"tokens", path})
	if code != 1 || !strings.Contains(stderr, "lex error: "+path+":2: illegal character '$'") {
		t.Fatalf("unexpected result %d %q", code, stderr)
	}
}

func TestASTCommand(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "tree.mini")
	writeFile(t, path, "print -x;")
	code, stdout, stderr := captureCLI(t, []string{"ast", path})
	if code != 0 {
		t.Fatalf("ast exit %d: %s", code, stderr)
	}
	var tree map[string]any
	if err := json.Unmarshal([]byte(stdout), &tree); err != nil {
		t.Fatalf("ast output is not JSON: %v\n%s", err, stdout)
	}
	if tree["type"] != "Program" {
		t.Fatalf("unexpected root %v", tree["type"])
	}

	code, stdout, _ = captureCLI(t, []string{"ast", "--format", "yaml", path})
	if code != 0 || !strings.Contains(stdout, "type: UnaryExpression") {
		t.Fatalf("unexpected yaml ast %d:\n%s", code, stdout)
	}
}

func TestCheckCommand(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "ok.mini")
	writeFile(t, path, "let a = 1;\nprint a;")
	code, stdout, _ := captureCLI(t, []string{"check", path})
	if code != 0 || !strings.Contains(stdout, ": ok (2 statements, 9 tokens)") {
		t.Fatalf("unexpected check output %d %q", code, stdout)
	}

	bad := filepath.Join(dir, "bad.mini")
	writeFile(t, bad, "print 1")
	code, _, stderr := captureCLI(t, []string{"check", bad})
	if code != 1 || !strings.Contains(stderr, `parse error: `+bad+`:1: expected semicolon ";", got end-of-input`) {
		t.Fatalf("unexpected check failure %d %q", code, stderr)
	}
}

func TestCheckReportsStaticDiagnostics(t *testing.T) {
	dir := scriptDir(t)
	path := filepath.Join(dir, "static.mini")
	writeFile(t, path, "function f(a) { return a; }\nprint f(1, 2);")
	code, stdout, stderr := captureCLI(t, []string{"check", path})
	if code != 1 || stdout != "" {
		t.Fatalf("unexpected check result %d %q", code, stdout)
	}
	want := "check error: " + path + ":2: function 'f' is declared with 1 parameter, called with 2"
	if !strings.Contains(stderr, want) {
		t.Fatalf("stderr %q does not contain %q", stderr, want)
	}
}

func TestRunFromGitRepository(t *testing.T) {
	dir := scriptDir(t)
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	writeFile(t, filepath.Join(dir, "hello.mini"), `print "committed";`)
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if _, err := worktree.Add("hello.mini"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := worktree.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Mini CLI", Email: "mini@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	// The working copy diverges; the committed text must win.
	writeFile(t, filepath.Join(dir, "hello.mini"), `print "dirty";`)

	code, stdout, stderr := captureCLI(t, []string{"run", "--git", dir, "hello.mini"})
	if code != 0 || stdout != "committed\n" {
		t.Fatalf("git run = %d %q %s", code, stdout, stderr)
	}
	code, _, stderr = captureCLI(t, []string{"run", "--git", dir, "missing.mini"})
	if code != 1 || !strings.Contains(stderr, "load error:") {
		t.Fatalf("missing git file = %d %q", code, stderr)
	}
}

type fakePrompter struct {
	lines   []string
	prompts []string
	history []string
}

func (f *fakePrompter) Prompt(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakePrompter) AppendHistory(item string) {
	f.history = append(f.history, item)
}

func replOptions() driver.Options {
	return driver.Options{Interpreter: interpreter.DefaultOptions()}
}

func TestReplPersistsStateAcrossEntries(t *testing.T) {
	p := &fakePrompter{lines: []string{
		"let x = 2;",
		"function double(n) {",
		"  return n * 2;",
		"}",
		"print double(x);",
		":bindings",
		":functions",
	}}
	var out, errOut bytes.Buffer
	if code := repl(p, &out, &errOut, replOptions()); code != 0 {
		t.Fatalf("repl exit code %d", code)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected errors: %s", errOut.String())
	}
	want := "4\nlet x = 2\nfunction double(n)\n\n"
	if out.String() != want {
		t.Fatalf("unexpected repl output %q, want %q", out.String(), want)
	}
	if p.prompts[2] != promptCont || p.prompts[3] != promptCont {
		t.Fatalf("expected continuation prompts, got %q", p.prompts)
	}
	if len(p.history) != 3 || p.history[1] != "function double(n) {   return n * 2; }" {
		t.Fatalf("unexpected history %q", p.history)
	}
}

func TestReplReportsErrorsAndKeepsGoing(t *testing.T) {
	p := &fakePrompter{lines: []string{
		"print missing;",
		"print )",
		"let s = \"two",
		"lines\";",
		"print s;",
		":reset",
		"print s;",
		":quit",
		"print 99;",
	}}
	var out, errOut bytes.Buffer
	repl(p, &out, &errOut, replOptions())
	if out.String() != "two\nlines\ninterpreter reset.\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	errs := errOut.String()
	for _, want := range []string{
		"runtime error: <repl>:1: identifier 'missing' is not defined",
		"parse error: <repl>:1:",
	} {
		if !strings.Contains(errs, want) {
			t.Fatalf("errors %q missing %q", errs, want)
		}
	}
	if strings.Count(errs, "\n") != 3 {
		t.Fatalf("expected three diagnostics, got %q", errs)
	}
}

func TestHistoryPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path, ok := historyPath()
	if !ok || path != filepath.Join(home, historyFile) {
		t.Fatalf("historyPath() = %q, %v", path, ok)
	}

	t.Setenv("HOME", "")
	if path, ok := historyPath(); ok || path != "" {
		t.Fatalf("expected no history without a home directory, got %q", path)
	}
}

func TestReadUntilParsedStopsOnEOF(t *testing.T) {
	p := &fakePrompter{lines: []string{"if (true) {"}}
	if _, ok := readUntilParsed(p, promptMain, promptCont, replOptions().Parser); ok {
		t.Fatalf("expected end of input")
	}
}

func TestReadUntilParsedReturnsOnAbort(t *testing.T) {
	aborted := &abortPrompter{}
	src, ok := readUntilParsed(aborted, promptMain, promptCont, replOptions().Parser)
	if !ok || src != "" {
		t.Fatalf("abort should drop the entry, got %q %v", src, ok)
	}
}

type abortPrompter struct{}

func (abortPrompter) Prompt(string) (string, error) { return "", errors.New("prompt aborted") }
func (abortPrompter) AppendHistory(string)          {}

// playgroundReply mirrors runResponse with the views left undecoded.
type playgroundReply struct {
	Output []string          `json:"output"`
	Tokens []json.RawMessage `json:"tokens"`
	AST    *struct {
		Type string            `json:"type"`
		Body []json.RawMessage `json:"body"`
	} `json:"ast"`
	Error *driver.Diagnostic `json:"error"`
}

func postRun(t *testing.T, srv *httptest.Server, body string) (int, playgroundReply) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/run", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /run: %v", err)
	}
	defer resp.Body.Close()
	var out playgroundReply
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode, out
}

func TestPlaygroundRun(t *testing.T) {
	srv := httptest.NewServer(newPlaygroundHandler(replOptions(), time.Second))
	defer srv.Close()

	status, resp := postRun(t, srv, `{"source":"print 1 + 2; print \"x\";"}`)
	if status != http.StatusOK || resp.Error != nil {
		t.Fatalf("unexpected response %d %#v", status, resp.Error)
	}
	if len(resp.Output) != 2 || resp.Output[0] != "3" || resp.Output[1] != "x" {
		t.Fatalf("unexpected output %v", resp.Output)
	}
	if len(resp.Tokens) == 0 || resp.AST == nil || resp.AST.Type != "Program" || len(resp.AST.Body) != 2 {
		t.Fatalf("expected token and tree views, got %d tokens %#v", len(resp.Tokens), resp.AST)
	}

	_, resp = postRun(t, srv, `{"source":"print 10 - 3 - 2;","associativity":"right"}`)
	if len(resp.Output) != 1 || resp.Output[0] != "9" {
		t.Fatalf("associativity override ignored: %v", resp.Output)
	}
}

func TestPlaygroundReportsDiagnostics(t *testing.T) {
	srv := httptest.NewServer(newPlaygroundHandler(replOptions(), time.Second))
	defer srv.Close()

	_, resp := postRun(t, srv, `{"source":"print 1;\nconst y = 1;\ny = 2;"}`)
	if resp.Error == nil || resp.Error.Stage != driver.StageRuntime || resp.Error.Kind != "ImmutableAssignment" || resp.Error.Line != 3 {
		t.Fatalf("unexpected diagnostic %#v", resp.Error)
	}
	if len(resp.Output) != 1 || resp.Output[0] != "1" {
		t.Fatalf("partial output should be returned, got %v", resp.Output)
	}

	_, resp = postRun(t, srv, `{"source":"let a = ;"}`)
	if resp.Error == nil || resp.Error.Stage != driver.StageParse || resp.AST != nil || len(resp.Tokens) == 0 {
		t.Fatalf("unexpected parse response %#v", resp)
	}
}

func TestPlaygroundSurvivesDeepNesting(t *testing.T) {
	srv := httptest.NewServer(newPlaygroundHandler(replOptions(), 5*time.Second))
	defer srv.Close()

	src := "print " + strings.Repeat("(", 500000) + "1" + strings.Repeat(")", 500000) + ";"
	body, err := json.Marshal(map[string]string{"source": src})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	status, resp := postRun(t, srv, string(body))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if resp.Error == nil || resp.Error.Stage != driver.StageParse || resp.Error.Kind != driver.KindNestingTooDeep || resp.AST != nil {
		t.Fatalf("unexpected deep nesting diagnostic %#v", resp.Error)
	}

	status, resp = postRun(t, srv, `{"source":"print (1 + 2);"}`)
	if status != http.StatusOK || resp.Error != nil || len(resp.Output) != 1 || resp.Output[0] != "3" {
		t.Fatalf("server unhealthy after deep input: %d %#v", status, resp)
	}
}

func TestPlaygroundTimeout(t *testing.T) {
	srv := httptest.NewServer(newPlaygroundHandler(replOptions(), 30*time.Millisecond))
	defer srv.Close()
	_, resp := postRun(t, srv, `{"source":"while (true) { }"}`)
	if resp.Error == nil || resp.Error.Kind != string(interpreter.ErrorCanceled) {
		t.Fatalf("expected canceled diagnostic, got %#v", resp.Error)
	}
}

func TestPlaygroundRejectsBadRequests(t *testing.T) {
	srv := httptest.NewServer(newPlaygroundHandler(replOptions(), time.Second))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/run")
	if err != nil {
		t.Fatalf("GET /run: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if status, _ := postRun(t, srv, `{"source":`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for truncated JSON, got %d", status)
	}
	if status, _ := postRun(t, srv, `{"source":"print 1;","associativity":"up"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad associativity, got %d", status)
	}

	health, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Fatalf("healthz status %d", health.StatusCode)
	}
}
