package scaffold_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halia-ca/sassy/internal/adapters"
	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/core/repo"
	"github.com/halia-ca/sassy/internal/core/scaffold"
	"github.com/halia-ca/sassy/internal/layout"
)

type fixture struct {
	fs      *adapters.MemoryFS
	exec    *adapters.MockExec
	out     *adapters.BufferOutput
	handler *scaffold.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmpl, err := layout.Default("1.0.0")
	require.NoError(t, err)
	return newFixtureWith(t, tmpl, scaffold.Config{})
}

func newFixtureWith(t *testing.T, tmpl *layout.Template, cfg scaffold.Config) *fixture {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	f := &fixture{
		fs:   adapters.NewMemoryFS(),
		exec: adapters.NewMockExec(),
		out:  adapters.NewBufferOutput(),
	}
	deps := core.Deps{FS: f.fs, Exec: f.exec, Output: f.out}
	f.handler = scaffold.NewHandler(deps, tmpl, catalog.NewService(cat), cfg)
	return f
}

// gitOK makes every git call of the initial commit succeed
func (f *fixture) gitOK() {
	f.exec.AddResponse("git", []string{"init"}, nil, nil)
	f.exec.AddResponse("git", []string{"add", "-A"}, nil, nil)
	f.exec.AddResponse("git", []string{"commit", "-m", repo.InitialCommitMessage}, nil, nil)
	f.exec.AddResponse("git", []string{"rev-parse", "HEAD"}, []byte("0a1b2c3\n"), nil)
}

func (f *fixture) content(t *testing.T, path string) string {
	t.Helper()
	data, err := f.fs.ReadFile(path)
	require.NoError(t, err, "expected %s to exist", path)
	return string(data)
}

func (f *fixture) exists(path string) bool {
	_, err := f.fs.Stat(path)
	return err == nil
}

func countCode(r *core.Report, code int) int {
	n := 0
	for _, c := range r.Codes() {
		if c == code {
			n++
		}
	}
	return n
}

func indexOf(codes []int, code int) int {
	for i, c := range codes {
		if c == code {
			return i
		}
	}
	return -1
}

func TestCreateStructure_Shop(t *testing.T) {
	f := newFixture(t)
	f.gitOK()

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.Equal(t, `"""Init for shop."""`+"\n", f.content(t, "shop/applications/__init__.py"))
	assert.Equal(t, `"""Tests for shop."""`+"\n", f.content(t, "shop/tests/unit/domains/__init__.py"))
	assert.Equal(t, "# shop\n", f.content(t, "shop/README.md"))
	assert.Equal(t, "name: shop\n", f.content(t, "shop/configs/config.yml"))
	assert.Empty(t, f.content(t, "shop/requirements.txt"))
	assert.Contains(t, f.content(t, "shop/setup.py"), `name="shop"`)

	codes := report.Codes()
	require.GreaterOrEqual(t, len(codes), 2)
	assert.Equal(t, []int{105, 107}, codes[len(codes)-2:])
	assert.Equal(t, 15, countCode(report, 102), "project root plus every declared directory")
	assert.Equal(t, 20, countCode(report, 101))
	assert.False(t, report.Failed())

	for path, data := range f.fs.Files() {
		assert.False(t, layout.HasToken(path), path)
		assert.False(t, layout.HasToken(string(data)), path)
	}
}

func TestCreateStructure_WritesEveryResultToOutput(t *testing.T) {
	f := newFixture(t)
	f.gitOK()

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.Equal(t, report.Codes(), f.out.Codes())
	assert.Equal(t, "Clean architecure structure successfully created!", report.Results[len(report.Results)-2].Message.Text)
}

func TestCreateStructure_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.gitOK()

	_, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)
	require.NoError(t, f.fs.MkdirAll("shop/.git", 0755))
	before := f.fs.Files()
	f.exec.ClearCalls()

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.Equal(t, before, f.fs.Files(), "no file is overwritten")
	assert.Zero(t, countCode(report, 101))
	assert.Zero(t, countCode(report, 102))
	assert.Equal(t, 15, countCode(report, 201))
	assert.Equal(t, 20, countCode(report, 200))
	codes := report.Codes()
	assert.Equal(t, []int{105, 206}, codes[len(codes)-2:])
	assert.False(t, report.Failed())
	assert.Empty(t, f.exec.GetCalls())
}

func TestCreateStructure_DirectoryFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.gitOK()
	f.fs.Fail("shop/docs", errors.New("permission denied"))

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.Equal(t, 1, countCode(report, 302))
	assert.Equal(t, 1, countCode(report, 301))
	assert.False(t, f.exists("shop/docs/index.md"))
	assert.True(t, f.exists("shop/configs/config.yml"), "later structs are still built")

	codes := report.Codes()
	i := indexOf(codes, 302)
	require.GreaterOrEqual(t, i, 0)
	require.Less(t, i+1, len(codes))
	assert.Equal(t, 301, codes[i+1], "the file below the failed directory still gets a Result")
	assert.Contains(t, report.Results[i+1].Message.Text, "shop/docs/index.md")

	assert.Equal(t, []int{306, 107}, codes[len(codes)-2:])
	failed := report.Results[len(report.Results)-2].Message
	assert.Equal(t, "Clean architecture structure incomplete: 2 operation(s) failed!", failed.Text)
	assert.True(t, report.Failed())
}

func TestCreateStructure_RepoFailureIsReported(t *testing.T) {
	f := newFixture(t) // git has no responses

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	codes := report.Codes()
	assert.Equal(t, []int{105, 304}, codes[len(codes)-2:])
	assert.True(t, report.Failed())
}

func TestCreateStructure_Root(t *testing.T) {
	tmpl, err := layout.Default("1.0.0")
	require.NoError(t, err)
	f := newFixtureWith(t, tmpl, scaffold.Config{Root: "work"})
	require.NoError(t, f.fs.MkdirAll("work", 0755))
	f.gitOK()

	_, err = f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.True(t, f.exists("work/shop/domains/__init__.py"))
	calls := f.exec.GetCalls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "work/shop", calls[0].Dir)
}

func TestCreateFeature_SelectedLayer(t *testing.T) {
	f := newFixture(t)
	f.gitOK()
	_, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	report, err := f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{101, 101}, report.Codes())
	assert.Equal(t, `"""Feature billing for shop."""`+"\n", f.content(t, "shop/applications/billing.py"))
	assert.Equal(t, `"""Tests for feature billing."""`+"\n", f.content(t, "shop/tests/unit/applications/test_billing.py"))
	assert.False(t, f.exists("shop/domains/billing.py"))

	report, err = f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)
	assert.Equal(t, []int{200, 200}, report.Codes())
	assert.Equal(t, "File 'shop/applications/billing.py' already exists!", report.Results[0].Message.Text)
}

func TestCreateFeature_AllLayers(t *testing.T) {
	f := newFixture(t)

	report, err := f.handler.CreateFeature("shop", "billing", nil)
	require.NoError(t, err)

	for _, layer := range []string{"applications", "domains", "interfaces", "providers"} {
		assert.True(t, f.exists("shop/"+layer+"/billing.py"), layer)
		assert.True(t, f.exists("shop/tests/unit/"+layer+"/test_billing.py"), layer)
	}
	assert.Equal(t, 8, countCode(report, 101))
	assert.Equal(t, 8, countCode(report, 102), "missing layer directories are created")
	assert.Empty(t, f.exec.GetCalls(), "feature operations never touch git")
}

func TestCreateFeature_NormalizesName(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.CreateFeature("shop", "Billing-Report", []string{"*d"})
	require.NoError(t, err)

	assert.True(t, f.exists("shop/domains/billing_report.py"))
	assert.True(t, f.exists("shop/tests/unit/domains/test_billing_report.py"))
}

func TestCreateFeature_BadSelectors(t *testing.T) {
	f := newFixture(t)

	report, err := f.handler.CreateFeature("shop", "billing", []string{"*x", "*api", "*p"})
	require.NoError(t, err)

	codes := report.Codes()
	require.GreaterOrEqual(t, len(codes), 2)
	assert.Equal(t, []int{202, 204}, codes[:2])
	assert.Equal(t, "Keyword '*x' missing!", report.Results[0].Message.Text)
	assert.True(t, f.exists("shop/providers/billing.py"), "valid tokens still apply")
	assert.False(t, report.Failed())
}

func TestCreateFeature_FileFailureContinues(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.MkdirAll("shop/applications", 0755))
	require.NoError(t, f.fs.MkdirAll("shop/tests/unit/applications", 0755))
	f.fs.Fail("shop/applications/billing.py", errors.New("disk full"))

	report, err := f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{301, 101}, report.Codes())
	assert.Contains(t, report.Results[0].Message.Text, "disk full")
	assert.True(t, report.Failed())
}

func TestCreateFeature_DirectoryFailureStillReportsFiles(t *testing.T) {
	f := newFixture(t)
	f.fs.Fail("shop/applications", errors.New("permission denied"))

	report, err := f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{302, 301, 102, 101}, report.Codes())
	assert.Contains(t, report.Results[1].Message.Text, "shop/applications/billing.py")
	assert.True(t, f.exists("shop/tests/unit/applications/test_billing.py"))
	assert.True(t, report.Failed())
}

func TestCreateFeature_DirectoryInTheWay(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.fs.MkdirAll("shop/applications/billing.py", 0755))

	report, err := f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{301, 102, 101}, report.Codes())
	assert.Equal(t, core.SeverityError, report.Results[0].Message.Severity)
	assert.Contains(t, report.Results[0].Message.Text, "is a directory")
	assert.True(t, report.Failed())
}

func TestCreateFile_KeepsTrailingNewlines(t *testing.T) {
	tmpl := &layout.Template{
		Version:      1,
		Placeholders: layout.Placeholders{Apps: "__APPS__", Feature: "__FEAT__"},
		Structure: []layout.Struct{{
			Name:  "root",
			Files: []layout.File{{Name: "NOTES.md", Content: "# notes\n\n"}},
		}},
	}
	f := newFixtureWith(t, tmpl, scaffold.Config{})
	f.gitOK()

	_, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)

	assert.Equal(t, "# notes\n\n\n", f.content(t, "shop/NOTES.md"))
}

func TestDeleteFeature_StatFailureIsAnError(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.CreateFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)
	f.fs.FailStat("shop/applications/billing.py", fs.ErrPermission)

	report, err := f.handler.DeleteFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{303, 106}, report.Codes())
	assert.Equal(t, core.SeverityError, report.Results[0].Message.Severity)
	assert.Contains(t, f.fs.Files(), "shop/applications/billing.py")
	assert.True(t, report.Failed())
}

func TestDeleteFeature_NeverCreated(t *testing.T) {
	f := newFixture(t)

	report, err := f.handler.DeleteFeature("shop", "billing", []string{"*a"})
	require.NoError(t, err)

	assert.Equal(t, []int{203, 203}, report.Codes())
	assert.Equal(t, core.SeverityWarning, report.Results[0].Message.Severity)
	assert.False(t, report.Failed())
}

func TestDeleteFeature_RoundTrip(t *testing.T) {
	f := newFixture(t)
	f.gitOK()
	_, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)
	before := f.fs.Files()
	dirs := f.fs.Dirs()

	_, err = f.handler.CreateFeature("shop", "billing", []string{"*a", "*d"})
	require.NoError(t, err)
	report, err := f.handler.DeleteFeature("shop", "billing", []string{"*a", "*d"})
	require.NoError(t, err)

	assert.Equal(t, []int{106, 106, 106, 106}, report.Codes())
	assert.Equal(t, before, f.fs.Files())
	assert.Equal(t, dirs, f.fs.Dirs(), "directories are left in place")
}

func TestDeleteFeature_RemoveFailure(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.CreateFeature("shop", "billing", []string{"*i"})
	require.NoError(t, err)
	f.fs.Fail("shop/interfaces/billing.py", errors.New("busy"))

	report, err := f.handler.DeleteFeature("shop", "billing", []string{"*i"})
	require.NoError(t, err)

	assert.Equal(t, []int{303, 106}, report.Codes())
	assert.True(t, report.Failed())
}

func TestUnresolvedPlaceholderSkipsItem(t *testing.T) {
	tmpl := &layout.Template{
		Version:      1,
		Placeholders: layout.Placeholders{Apps: "__APPS__", Feature: "__FEAT__"},
		Structure: []layout.Struct{{
			Name: "root",
			Files: []layout.File{
				{Name: "__OWNER__.txt"},
				{Name: "README.md", Content: "# __APPS__"},
			},
		}},
		Features: layout.Features{
			App: layout.Struct{Dirs: []string{"domains"}, Files: []layout.File{{Name: "__FEAT__.py", Content: "__VERSION__"}}},
		},
	}
	f := newFixtureWith(t, tmpl, scaffold.Config{})
	f.gitOK()

	report, err := f.handler.CreateStructure("shop")
	require.NoError(t, err)
	assert.Equal(t, []int{102, 305, 101, 306, 107}, report.Codes())
	assert.Equal(t, "Unresolved placeholder in 'shop/__OWNER__.txt'!", report.Results[1].Message.Text)

	report, err = f.handler.CreateFeature("shop", "billing", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{305}, report.Codes())
	assert.False(t, f.exists("shop/domains/billing.py"))
}

func TestInvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		run  func() (*core.Report, error)
	}{
		{"empty project", func() (*core.Report, error) { return f.handler.CreateStructure("  ") }},
		{"path separator", func() (*core.Report, error) { return f.handler.CreateStructure("a/b") }},
		{"placeholder project", func() (*core.Report, error) { return f.handler.CreateStructure("__APPS__") }},
		{"placeholder feature", func() (*core.Report, error) { return f.handler.CreateFeature("shop", "__FEAT__", nil) }},
		{"missing feature", func() (*core.Report, error) { return f.handler.DeleteFeature("shop", "", nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := tt.run()
			assert.Nil(t, report)
			assert.True(t, errors.Is(err, scaffold.ErrInvalidInput), "got %v", err)
		})
	}
	assert.Empty(t, f.fs.Files())
	assert.Empty(t, f.fs.Dirs())
	assert.Empty(t, f.out.Messages)
}

func TestRun_Dispatch(t *testing.T) {
	f := newFixture(t)
	f.gitOK()

	report, err := f.handler.Run(scaffold.Input{Project: " shop "})
	require.NoError(t, err)
	assert.Equal(t, 107, report.Codes()[len(report.Codes())-1])

	report, err = f.handler.Run(scaffold.Input{Project: "shop", Feature: "billing", Selectors: []string{"*p"}})
	require.NoError(t, err)
	assert.Equal(t, []int{101, 101}, report.Codes())

	report, err = f.handler.Run(scaffold.Input{Project: "shop", Feature: "billing", Action: scaffold.ActionDelete, Selectors: []string{"*p"}})
	require.NoError(t, err)
	assert.Equal(t, []int{106, 106}, report.Codes())

	_, err = f.handler.Run(scaffold.Input{Project: "shop", Action: scaffold.ActionDelete})
	assert.True(t, errors.Is(err, scaffold.ErrInvalidInput))
}
