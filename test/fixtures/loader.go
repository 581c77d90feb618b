package fixtures

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// LoadABI returns the raw bytes of a contract ABI under abis/.
func LoadABI(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixturesDir(), "abis", filename))
	require.NoError(t, err, "failed to load fixture ABI: %s", filename)
	return data
}

// LoadRPCResponses loads a method -> result map under rpc/, ready to seed
// a mock JSON-RPC server.
func LoadRPCResponses(t *testing.T, filename string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixturesDir(), "rpc", filename))
	require.NoError(t, err, "failed to load fixture RPC responses: %s", filename)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}
