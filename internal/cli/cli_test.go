package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/svc/catalog"
)

func testEnv() map[string]string {
	return map[string]string{
		"CATALOG_SOURCE":          SourceMemory,
		"CATALOG_MOCK_LATENCY":    "0s",
		"CATALOG_MOCK_FAULT_RATE": "0",
		"LOG_LEVEL":               "error",
	}
}

func execute(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(env)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	t.Parallel()
	cmd := NewRootCommand()
	for _, path := range [][]string{
		{"serve"},
		{"migrate"},
		{"categories", "list"},
		{"subcategories", "list"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)
}

func TestCategoriesList(t *testing.T) {
	t.Parallel()
	out, err := execute(t, testEnv(), "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "cat-tech")
	assert.Contains(t, out, "Deportes")
}

func TestCategoriesList_JSON(t *testing.T) {
	t.Parallel()
	out, err := execute(t, testEnv(), "categories", "list", "--format", "json")
	require.NoError(t, err)

	var cats []catalog.Category
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	assert.Len(t, cats, 4)
	assert.Equal(t, catalog.CategoryID("cat-tech"), cats[0].ID)
}

func TestSubCategoriesList(t *testing.T) {
	t.Parallel()
	out, err := execute(t, testEnv(), "subcategories", "list", "cat-home")
	require.NoError(t, err)
	assert.Contains(t, out, "sub-furniture")
	assert.Contains(t, out, "Jardinería")
	assert.NotContains(t, out, "sub-backend")

	_, err = execute(t, testEnv(), "subcategories", "list", "bad id")
	assert.ErrorIs(t, err, catalog.ErrInvalidID)
}

func TestSubCategoriesList_Failure(t *testing.T) {
	t.Parallel()
	env := testEnv()
	env["CATALOG_MOCK_FAULT_RATE"] = "1"
	env["SELECTFORM_RETRY_COUNT"] = "0"

	_, err := execute(t, env, "subcategories", "list", "cat-tech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.ErrSimulatedNetwork.Error())
}

func TestInvalidFormat(t *testing.T) {
	t.Parallel()
	_, err := execute(t, testEnv(), "categories", "list", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestUnknownSource(t *testing.T) {
	t.Parallel()
	env := testEnv()
	env["CATALOG_SOURCE"] = "mongo"
	_, err := execute(t, env, "categories", "list")
	assert.ErrorContains(t, err, "unknown catalog source")
}

func TestMigrate_InvalidDirection(t *testing.T) {
	t.Parallel()
	_, err := execute(t, testEnv(), "migrate", "sideways")
	assert.Error(t, err)
}
