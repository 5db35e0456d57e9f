package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/temirov/scantree/internal/types"
	"github.com/temirov/scantree/internal/utils"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type commandHarness struct {
	workingDirectory string
	stdout           bytes.Buffer
	stderr           bytes.Buffer
	copier           recordingCopier
}

func newHarness(t *testing.T) *commandHarness {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	projectDirectory := filepath.Join(t.TempDir(), "project")
	if err := os.MkdirAll(projectDirectory, 0o755); err != nil {
		t.Fatalf("create project directory: %v", err)
	}
	return &commandHarness{workingDirectory: projectDirectory}
}

func (harness *commandHarness) write(t *testing.T, relativePath string, content string) {
	t.Helper()
	target := filepath.Join(harness.workingDirectory, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if err := os.WriteFile(target, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", target, err)
	}
}

func (harness *commandHarness) run(arguments ...string) error {
	rootCommand := NewRootCommand(Dependencies{
		Stdout: &harness.stdout,
		Stderr: &harness.stderr,
		Copier: &harness.copier,
		WorkingDirectory: func() (string, error) {
			return harness.workingDirectory, nil
		},
	})
	rootCommand.SetArgs(normalizeCopyFlagArguments(arguments))
	return rootCommand.Execute()
}

func TestRootCommandPrintsTree(t *testing.T) {
	testCases := []struct {
		name     string
		files    []string
		expected string
	}{
		{
			name:  "case insensitive order with nested directory",
			files: []string{"b.txt", "A.txt", "sub/x.txt"},
			expected: "project/\n" +
				"├── A.txt\n" +
				"├── b.txt\n" +
				"└── sub\n" +
				"    └── x.txt\n" +
				"\n" +
				"Scan Complete.\n",
		},
		{
			name:  "ignored directory only leaves readme",
			files: []string{"node_modules/left-pad/index.js", "readme.md"},
			expected: "project/\n" +
				"└── readme.md\n" +
				"\n" +
				"Scan Complete.\n",
		},
		{
			name:  "empty directory prints header and banner",
			files: nil,
			expected: "project/\n" +
				"\n" +
				"Scan Complete.\n",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			harness := newHarness(t)
			for _, file := range testCase.files {
				harness.write(t, file, "data")
			}
			if err := harness.run(); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if harness.stdout.String() != testCase.expected {
				t.Fatalf("unexpected output\nexpected:\n%s\nactual:\n%s", testCase.expected, harness.stdout.String())
			}
			if len(harness.copier.copied) != 0 {
				t.Fatalf("clipboard must not be used without --copy")
			}
		})
	}
}

func TestRootCommandIsIdempotent(t *testing.T) {
	harness := newHarness(t)
	harness.write(t, "src/main.go", "package main")
	harness.write(t, ".git/HEAD", "ref")
	harness.write(t, "Readme.md", "# readme")

	if err := harness.run(); err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	first := harness.stdout.String()
	harness.stdout.Reset()
	if err := harness.run(); err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if harness.stdout.String() != first {
		t.Fatalf("expected identical output\nfirst:\n%s\nsecond:\n%s", first, harness.stdout.String())
	}
}

func TestRootCommandFormats(t *testing.T) {
	harness := newHarness(t)
	harness.write(t, "docs/guide.md", "guide")

	if err := harness.run("--format", "JSON"); err != nil {
		t.Fatalf("json run failed: %v", err)
	}
	var decoded types.TreeOutputNode
	if err := json.Unmarshal(harness.stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, harness.stdout.String())
	}
	if decoded.Name != "project" || len(decoded.Children) != 1 || decoded.Children[0].Name != "docs" {
		t.Fatalf("unexpected json tree %+v", decoded)
	}

	harness.stdout.Reset()
	if err := harness.run("--format", "xml"); err != nil {
		t.Fatalf("xml run failed: %v", err)
	}
	if !strings.Contains(harness.stdout.String(), "<name>guide.md</name>") {
		t.Fatalf("expected xml node for guide.md, got %s", harness.stdout.String())
	}

	if err := harness.run("--format", "yaml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestRootCommandRejectsPositionalArguments(t *testing.T) {
	harness := newHarness(t)
	if err := harness.run("some/path"); err == nil {
		t.Fatalf("expected error for positional argument")
	}
}

func TestRootCommandCopiesOutput(t *testing.T) {
	harness := newHarness(t)
	harness.write(t, "a.txt", "a")

	if err := harness.run("--copy"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(harness.copier.copied) != 1 {
		t.Fatalf("expected one clipboard write, got %d", len(harness.copier.copied))
	}
	if harness.copier.copied[0] != harness.stdout.String() {
		t.Fatalf("clipboard content differs from printed output")
	}
}

func TestRootCommandCopyOnlySuppressesStdout(t *testing.T) {
	harness := newHarness(t)
	harness.write(t, "a.txt", "a")

	if err := harness.run("--copy-only"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if harness.stdout.Len() != 0 {
		t.Fatalf("expected no stdout output, got %q", harness.stdout.String())
	}
	if len(harness.copier.copied) != 1 || !strings.Contains(harness.copier.copied[0], "└── a.txt") {
		t.Fatalf("expected tree on clipboard, got %v", harness.copier.copied)
	}
}

func TestRootCommandClipboardFailureIsNotFatal(t *testing.T) {
	harness := newHarness(t)
	harness.copier.err = errors.New("no clipboard")
	if err := harness.run("--copy", "yes"); err != nil {
		t.Fatalf("clipboard failure must not fail the scan: %v", err)
	}
	if !strings.Contains(harness.stdout.String(), "Scan Complete.") {
		t.Fatalf("expected tree output, got %q", harness.stdout.String())
	}
}

func TestRootCommandAppliesConfiguration(t *testing.T) {
	harness := newHarness(t)
	harness.write(t, "a.txt", "a")
	harness.write(t, utils.ConfigFileName, "tree:\n  format: json\n")

	if err := harness.run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(harness.stdout.String()), "{") {
		t.Fatalf("expected configuration to select json, got %q", harness.stdout.String())
	}

	harness.stdout.Reset()
	if err := harness.run("--format", "raw"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(harness.stdout.String(), "project/\n") {
		t.Fatalf("expected explicit flag to override configuration, got %q", harness.stdout.String())
	}
}

func TestRootCommandReportsWorkingDirectoryFailure(t *testing.T) {
	rootCommand := NewRootCommand(Dependencies{
		Stdout: io.Discard,
		Stderr: io.Discard,
		WorkingDirectory: func() (string, error) {
			return "", errors.New("gone")
		},
	})
	rootCommand.SetArgs(nil)
	if err := rootCommand.Execute(); err == nil {
		t.Fatalf("expected working directory error")
	}
}

func TestRootCommandFailsWhenDirectoryVanishes(t *testing.T) {
	harness := newHarness(t)
	harness.workingDirectory = filepath.Join(harness.workingDirectory, "missing")
	err := harness.run()
	if err == nil {
		t.Fatalf("expected error for missing working directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if strings.Contains(harness.stdout.String(), "Scan Complete.") {
		t.Fatalf("completion banner must not be printed after a failure")
	}
}

func TestConfigInitCommandWritesFile(t *testing.T) {
	harness := newHarness(t)
	if err := harness.run("config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	expectedPath := filepath.Join(harness.workingDirectory, utils.ConfigFileName)
	if _, err := os.Stat(expectedPath); err != nil {
		t.Fatalf("expected configuration at %s: %v", expectedPath, err)
	}
	if !strings.Contains(harness.stdout.String(), expectedPath) {
		t.Fatalf("expected written path in output, got %q", harness.stdout.String())
	}
	if err := harness.run("config", "init"); err == nil {
		t.Fatalf("expected error when configuration exists")
	}
}

func TestVersionFlag(t *testing.T) {
	harness := newHarness(t)
	if err := harness.run("--version"); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(harness.stdout.String(), "scantree version: ") {
		t.Fatalf("unexpected version output %q", harness.stdout.String())
	}
}

func TestRegisterCopyFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_false_with_no", arguments: []string{"--copy", "no"}, expected: false},
		{name: "sets_true_with_yes", arguments: []string{"--copy", "yes"}, expected: true},
		{name: "rejects_invalid_text", arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var flagValue bool
			flagSet := pflag.NewFlagSet("copy-flag", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			registerCopyFlag(flagSet, &flagValue)
			parseErr := flagSet.Parse(normalizeCopyFlagArguments(testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected value %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeCopyFlagArgumentsLeavesTerminatorAlone(t *testing.T) {
	arguments := []string{"--format", "raw", "--", "--copy", "no"}
	normalized := normalizeCopyFlagArguments(arguments)
	if strings.Join(normalized, " ") != strings.Join(arguments, " ") {
		t.Fatalf("expected arguments after -- to be untouched, got %v", normalized)
	}
}
