package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const erc20ABI = `[
	{"type":"constructor","inputs":[{"name":"supply","type":"uint256"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
	 {"name":"from","type":"address","indexed":true},
	 {"name":"to","type":"address","indexed":true},
	 {"name":"value","type":"uint256","indexed":false}]}
]`

func writeABI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erc20.abi.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config
		want string
	}{
		{"missing abi", config{TypeName: "ERC20"}, "--abi"},
		{"missing type", config{ABI: "x.json"}, "--type"},
		{"unexported type", config{ABI: "x.json", TypeName: "erc20"}, "exported Go identifier"},
		{"bad package", config{ABI: "x.json", TypeName: "ERC20", Package: "erc-20"}, "not a valid Go identifier"},
		{"negative parallelism", config{ABI: "x.json", TypeName: "ERC20", Parallelism: -1}, "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, tt.cfg.validate(), tt.want)
		})
	}

	cfg := config{ABI: "x.json", TypeName: "ERC20"}
	require.NoError(t, cfg.validate())
	assert.Equal(t, "erc20", cfg.Package)
	assert.True(t, cfg.stdout())
}

func TestGenerateToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "erc20_bindings.go")
	cfg := &config{ABI: writeABI(t, erc20ABI), TypeName: "ERC20", Out: out, Parallelism: 2}
	require.NoError(t, cfg.validate())

	var stdout bytes.Buffer
	require.NoError(t, generate(cfg, zap.NewNop(), &stdout))
	assert.Empty(t, stdout.String())

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package erc20")
	assert.Contains(t, string(src), "func ERC20BalanceOfCall[T0 ~[20]byte]")
	assert.Contains(t, string(src), "func ParseERC20TransferEvent(log types.Log)")
	assert.Contains(t, string(src), `var ERC20Constructor = lib.MustConstructor([]string{"uint256"})`)
	assert.Contains(t, string(src), "func ERC20ConstructorArgs[T0 lib.Integer](supply T0) []lib.Token {")
	assert.Contains(t, string(src), "func ERC20Deploy[T0 lib.Integer](bytecode []byte, supply T0) ([]byte, error) {")
}

func TestGenerateNothingWrittenOnError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.go")
	bad := `[{"type":"function","name":"f","inputs":[{"name":"p","type":"tuple","components":[{"name":"a","type":"uint256"}]}],"outputs":[]}]`
	cfg := &config{ABI: writeABI(t, bad), TypeName: "Bad", Out: out}
	require.NoError(t, cfg.validate())

	err := generate(cfg, zap.NewNop(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported parameter type")
	assert.NoFileExists(t, out)
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--abi", writeABI(t, erc20ABI), "--type", "ERC20", "--pkg", "token", "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "package token")
	assert.Contains(t, stdout.String(), "// Code generated by abibind. DO NOT EDIT.")
}

func TestRootCommandRequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--type", "ERC20"})
	assert.ErrorContains(t, cmd.Execute(), `required flag(s) "abi" not set`)
}

func TestRootCommandBadLogLevel(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--abi", writeABI(t, erc20ABI), "--type", "ERC20", "--log-level", "loud"})
	assert.ErrorContains(t, cmd.Execute(), "invalid log level 'loud'")
}
