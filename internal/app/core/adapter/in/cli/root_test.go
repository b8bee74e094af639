package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-lock-ledger/internal/app/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
}

// writeTestConfig 在暫存目錄建立設定檔，帳本檔案也放在同一個目錄
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`ledger:
  capacity: 2
storage:
  accounts_file: %s
  log_file: %s
  sync: false
log:
  level: crit
`, filepath.Join(dir, "accounts.txt"), filepath.Join(dir, "transaction_log.txt"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, configPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{now: fixedClock})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_Golden(t *testing.T) {
	configPath := writeTestConfig(t)

	steps := []struct {
		args    []string
		wantErr error
	}{
		{[]string{"history"}, nil},
		{[]string{"create", "100"}, nil},
		{[]string{"deposit", "0", "50"}, nil},
		{[]string{"withdraw", "0", "200"}, domain.ErrInsufficientBalance},
		{[]string{"create", "0"}, nil},
		{[]string{"create", "5"}, domain.ErrCapacityExceeded},
		{[]string{"transfer", "0", "1", "150"}, nil},
		{[]string{"transfer", "0", "0", "1"}, domain.ErrInvalidAccountID},
		{[]string{"deposit", "1", "0"}, domain.ErrInvalidAmount},
		{[]string{"balance", "1"}, nil},
		{[]string{"balance", "5"}, domain.ErrInvalidAccountID},
		{[]string{"accounts"}, nil},
		{[]string{"history"}, nil},
	}

	var transcript bytes.Buffer
	for _, step := range steps {
		out, err := execute(t, configPath, "", step.args...)
		if step.wantErr == nil {
			require.NoError(t, err, "ledger %s", strings.Join(step.args, " "))
		} else {
			require.ErrorIs(t, err, step.wantErr, "ledger %s", strings.Join(step.args, " "))
		}
		fmt.Fprintf(&transcript, "$ ledger %s\n%s", strings.Join(step.args, " "), out)
	}

	g := goldie.New(t)
	g.Assert(t, "commands", transcript.Bytes())
}

func TestMenu_Golden(t *testing.T) {
	configPath := writeTestConfig(t)

	input := "1 100\n1 50\n3 0 25\n4 1 100\n5 0 1 10\n2 1\n6\n9\n7\n"
	out, err := execute(t, configPath, input, "menu")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "menu", []byte(out))

	// Exit 時快照已寫入
	accounts, err := execute(t, configPath, "", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "Account ID = 0, Balance = 115.00\nAccount ID = 1, Balance = 60.00\n", accounts)
}

func TestMenu_EndOfInput(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := execute(t, configPath, "3 0", "menu")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Enter account ID and amount to deposit: \n"))
}

func TestMenu_BadToken(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := execute(t, configPath, "2 abc 7", "menu")
	require.NoError(t, err)
	assert.Contains(t, out, `Warning: invalid account id "abc"`)
}

func TestParseErrors(t *testing.T) {
	configPath := writeTestConfig(t)

	_, err := execute(t, configPath, "", "deposit", "x", "1")
	assert.EqualError(t, err, `invalid account id "x"`)

	_, err = execute(t, configPath, "", "create", "lots")
	assert.EqualError(t, err, `invalid amount "lots"`)

	_, err = execute(t, configPath, "", "transfer", "0", "1")
	assert.Error(t, err)
}
