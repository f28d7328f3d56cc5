package repo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halia-ca/sassy/internal/adapters"
	"github.com/halia-ca/sassy/internal/catalog"
	"github.com/halia-ca/sassy/internal/core"
	"github.com/halia-ca/sassy/internal/core/repo"
)

func newInitializer(t *testing.T, fs core.FS, exec core.Exec, id repo.Identity) *repo.Initializer {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	deps := core.Deps{FS: fs, Exec: exec, Output: adapters.NewBufferOutput()}
	return repo.NewInitializer(deps, catalog.NewService(cat), id)
}

func gitSucceeds(mock *adapters.MockExec, commitArgs []string) {
	mock.AddResponse("git", []string{"init"}, []byte("Initialized empty Git repository"), nil)
	mock.AddResponse("git", []string{"add", "-A"}, nil, nil)
	mock.AddResponse("git", commitArgs, nil, nil)
	mock.AddResponse("git", []string{"rev-parse", "HEAD"}, []byte("0a1b2c3\n"), nil)
}

func TestInit_CreatesRepository(t *testing.T) {
	fs := adapters.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("shop", 0755))
	mock := adapters.NewMockExec()
	gitSucceeds(mock, []string{"commit", "-m", repo.InitialCommitMessage})

	res := newInitializer(t, fs, mock, repo.Identity{}).Init("shop")

	assert.True(t, res.OK)
	assert.Equal(t, 107, res.Message.Code)
	assert.Equal(t, core.SeverityInfo, res.Message.Severity)
	assert.Equal(t, "Repository 'shop' successfully initialized with commit 0a1b2c3!", res.Message.Text)

	calls := mock.GetCalls()
	require.Len(t, calls, 4)
	for _, c := range calls {
		assert.Equal(t, "shop", c.Dir)
	}
}

func TestInit_UsesIdentity(t *testing.T) {
	fs := adapters.NewMemoryFS()
	mock := adapters.NewMockExec()
	commit := []string{"-c", "user.name=Ada", "-c", "user.email=ada@example.com", "commit", "-m", repo.InitialCommitMessage}
	gitSucceeds(mock, commit)

	res := newInitializer(t, fs, mock, repo.Identity{Name: "Ada", Email: "ada@example.com"}).Init("shop")

	assert.True(t, res.OK)
	assert.True(t, mock.WasCalled("git", commit...))
}

func TestInit_ExistingRepository(t *testing.T) {
	fs := adapters.NewMemoryFS()
	require.NoError(t, fs.MkdirAll("shop/.git", 0755))
	mock := adapters.NewMockExec()

	res := newInitializer(t, fs, mock, repo.Identity{}).Init("shop")

	assert.False(t, res.OK)
	assert.Equal(t, 206, res.Message.Code)
	assert.Equal(t, core.SeverityWarning, res.Message.Severity)
	assert.Empty(t, mock.GetCalls())
}

func TestInit_GitFailure(t *testing.T) {
	fs := adapters.NewMemoryFS()
	mock := adapters.NewMockExec()
	mock.AddResponse("git", []string{"init"}, nil, nil)
	mock.AddResponse("git", []string{"add", "-A"}, nil, nil)
	mock.AddResponse("git", []string{"commit", "-m", repo.InitialCommitMessage},
		[]byte("Author identity unknown"), adapters.MockError("exit status 128"))

	res := newInitializer(t, fs, mock, repo.Identity{}).Init("shop")

	assert.False(t, res.OK)
	assert.Equal(t, 304, res.Message.Code)
	assert.Equal(t, core.SeverityError, res.Message.Severity)
	assert.Contains(t, res.Message.Text, "Unable to initialize repository 'shop'!")
	assert.Contains(t, res.Message.Text, "Author identity unknown")
	assert.False(t, mock.WasCalled("git", "rev-parse", "HEAD"))
}

func TestInit_GitMissing(t *testing.T) {
	fs := adapters.NewMemoryFS()
	mock := adapters.NewMockExec() // no responses: every call fails

	res := newInitializer(t, fs, mock, repo.Identity{}).Init("shop")

	assert.Equal(t, 304, res.Message.Code)
	assert.Len(t, mock.GetCalls(), 1)
}
