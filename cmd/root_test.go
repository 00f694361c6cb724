package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"serve", "migrate", "import", "seed", "evaluate"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "coach", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestImportCommand_Flags(t *testing.T) {
	for name, def := range map[string]string{
		"h1b":       "",
		"bls":       "",
		"limit-h1b": "0",
		"limit-bls": "0",
		"replace":   "false",
	} {
		flag := importCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "import command should have --%s flag", name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestSeedCommand_Flags(t *testing.T) {
	flag := seedCmd.Flags().Lookup("seed")
	require.NotNil(t, flag)
	assert.Equal(t, "42", flag.DefValue)

	require.NotNil(t, seedCmd.Flags().Lookup("replace"))
}

func TestEvaluateCommand_RequiredFlags(t *testing.T) {
	for _, name := range []string{"title", "location", "offer"} {
		flag := evaluateCmd.Flags().Lookup(name)
		require.NotNil(t, flag, "evaluate command should have --%s flag", name)
		assert.Equal(t, []string{"true"}, flag.Annotations[cobra.BashCompOneRequiredFlag], name)
	}
	require.NotNil(t, evaluateCmd.Flags().Lookup("remote"))
	require.NotNil(t, evaluateCmd.Flags().Lookup("years"))
}
