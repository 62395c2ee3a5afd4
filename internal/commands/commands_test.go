package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastocerto/internal/app"
	"gastocerto/internal/config"
	"gastocerto/internal/logger"
	"gastocerto/internal/session"
)

func init() {
	logger.Init("test")
}

// newTestDeps points the CLI at a temporary database and session file.
func newTestDeps(t *testing.T) *deps {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Port:       "0",
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(dir, "ledger.db"),
	}
	return &deps{
		store: session.NewFileStore(filepath.Join(dir, "session.yaml")),
		open: func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, cfg)
		},
	}
}

func runCLI(t *testing.T, d *deps, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(d)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, d *deps, args ...string) string {
	t.Helper()
	out, err := runCLI(t, d, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestHousehold_Lifecycle(t *testing.T) {
	d := newTestDeps(t)

	_, err := runCLI(t, d, "", "household", "show")
	require.ErrorIs(t, err, session.ErrNoHousehold)

	out := mustRun(t, d, "household", "new")
	id := regexp.MustCompile(`familia-[0-9a-f]{8}`).FindString(out)
	require.NotEmpty(t, id, out)

	out = mustRun(t, d, "household", "show")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "anonymous")

	mustRun(t, d, "household", "join", "familia-0000beef", "--user", "ana")
	out = mustRun(t, d, "household", "show")
	assert.Contains(t, out, "familia-0000beef")
	assert.Contains(t, out, "ana")

	mustRun(t, d, "household", "leave")
	_, err = runCLI(t, d, "", "summary")
	require.ErrorIs(t, err, session.ErrNoHousehold)
}

func TestAdd_HoldsDuplicatesUntilAnswered(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000001")

	out := mustRun(t, d, "add", "-d", "Aluguel", "-a", "1500", "--date", "2024-03-05")
	assert.Contains(t, out, "1500.00")

	out, err := runCLI(t, d, "n\n", "add", "-d", "Aluguel", "-a", "1500.00", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "An identical entry already exists")
	assert.Contains(t, out, "Discarded.")

	out, err = runCLI(t, d, "s\n", "add", "-d", "Aluguel", "-a", "1500.00", "--date", "2024-03-05")
	require.NoError(t, err)
	assert.NotContains(t, out, "Discarded.")

	mustRun(t, d, "add", "-d", "Aluguel", "-a", "1500.00", "--date", "2024-03-05", "--yes")

	out = mustRun(t, d, "summary")
	assert.Contains(t, out, "4500.00")
	assert.Regexp(t, `Records\s+3`, out)
}

func TestAdd_Installments(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000002")

	out := mustRun(t, d, "add", "-d", "Notebook", "-a", "1000", "--date", "2024-01-31", "-n", "3")
	assert.Contains(t, out, "Notebook (1/3)")
	assert.Contains(t, out, "2024-02-01")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "2024-04-01")

	_, err := runCLI(t, d, "", "add", "-d", "Salário", "-a", "5000", "-k", "income", "-n", "3")
	assert.Error(t, err, "income cannot be split")

	_, err = runCLI(t, d, "", "add", "-d", "Notebook", "-a", "1000", "-n", "1000")
	assert.Error(t, err)

	out = mustRun(t, d, "add", "-d", "Sofá", "-a", "900", "-n", "1")
	assert.NotContains(t, out, "(1/1)")
}

func TestAdd_RejectsInvalidInput(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000003")

	_, err := runCLI(t, d, "", "add", "-d", "Luz", "-a", "abc")
	assert.Error(t, err)
	_, err = runCLI(t, d, "", "add", "-d", "Luz", "-a", "10", "--date", "31/02/2024")
	assert.Error(t, err)
	_, err = runCLI(t, d, "", "add", "-a", "10")
	assert.Error(t, err, "description is required")
}

func TestImport_FromStatementFile(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000004")
	mustRun(t, d, "add", "-d", "Aluguel", "-a", "1500", "--date", "2024-03-05")

	statement := filepath.Join(t.TempDir(), "extrato.yaml")
	require.NoError(t, os.WriteFile(statement, []byte(`lines:
  - {description: Mercado, amount: "350.40", date: 2024-03-10, kind: expense}
  - {description: Aluguel, amount: "1500.00", date: 2024-03-05, kind: expense}
  - {description: Salário, amount: "5000", date: 2024-03-01, kind: income}
`), 0o600))

	out := mustRun(t, d, "import", statement, "--dry-run")
	assert.Contains(t, out, "3 lines, 2 selected, 1 likely duplicates")
	assert.Contains(t, out, "already recorded")

	out = mustRun(t, d, "import", statement, "--select", "0")
	assert.Contains(t, out, "Imported 1 of 3 lines.")

	_, err := runCLI(t, d, "", "import", statement, "--select", "9")
	assert.Error(t, err)

	out = mustRun(t, d, "summary")
	assert.Contains(t, out, "1850.40")
	assert.Regexp(t, `Records\s+2`, out)
}

func TestImport_DefaultSelectionSkipsDuplicates(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000005")
	mustRun(t, d, "add", "-d", "Aluguel", "-a", "1500", "--date", "2024-03-05")

	statement := filepath.Join(t.TempDir(), "extrato.yml")
	require.NoError(t, os.WriteFile(statement, []byte(`lines:
  - {description: Aluguel, amount: "1500.00", date: 2024-03-05}
  - {description: Farmácia, amount: "42.90", date: 2024-03-12}
`), 0o600))

	out := mustRun(t, d, "import", statement)
	assert.Contains(t, out, "Imported 1 of 2 lines.")

	out = mustRun(t, d, "import", statement, "--all")
	assert.Contains(t, out, "Imported 2 of 2 lines.")
}

func TestListAndDelete(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000006")
	mustRun(t, d, "add", "-d", "Luz", "-a", "80", "--date", "2024-03-02")
	mustRun(t, d, "add", "-d", "Salário", "-a", "5000", "-k", "income", "--date", "2024-03-01")

	out := mustRun(t, d, "list")
	luz := strings.Index(out, "Luz")
	salario := strings.Index(out, "Salário")
	require.True(t, luz >= 0 && salario >= 0, out)
	assert.Less(t, luz, salario, "newest first")
	assert.Contains(t, out, "(2 records)")

	out = mustRun(t, d, "list", "--kind", "income")
	assert.NotContains(t, out, "Luz")

	id := regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).FindString(mustRun(t, d, "list", "--kind", "expense"))
	require.NotEmpty(t, id)
	mustRun(t, d, "delete", id)

	out = mustRun(t, d, "list")
	assert.NotContains(t, out, "Luz")

	_, err := runCLI(t, d, "", "delete", id)
	assert.Error(t, err)
}

func TestDescriptions(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000007")

	mustRun(t, d, "descriptions", "add", "Academia")
	_, err := runCLI(t, d, "", "descriptions", "add", "academia")
	assert.Error(t, err)

	out := mustRun(t, d, "descriptions")
	assert.Contains(t, out, "Academia")
	assert.Contains(t, out, "Aluguel")
}

func TestScan_WithoutRecognition(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000008")

	receipt := filepath.Join(t.TempDir(), "cupom.jpg")
	require.NoError(t, os.WriteFile(receipt, []byte{0xff, 0xd8, 0xff}, 0o600))

	_, err := runCLI(t, d, "", "scan", receipt)
	assert.Error(t, err)
}

func TestReadDocument_GuessesType(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "extrato.PDF")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600))
	noExt := filepath.Join(dir, "cupom")
	require.NoError(t, os.WriteFile(noExt, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))

	doc, err := readDocument(pdf)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
	assert.Equal(t, "extrato.PDF", doc.Name)

	doc, err = readDocument(noExt)
	require.NoError(t, err)
	assert.Equal(t, "image/png", doc.MIMEType)
}

func TestWatch_RequiresBroker(t *testing.T) {
	d := newTestDeps(t)
	mustRun(t, d, "household", "join", "familia-00000009")

	_, err := runCLI(t, d, "", "watch")
	assert.ErrorIs(t, err, errNoEvents)
}
