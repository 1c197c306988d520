package ty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveString(t *testing.T) {

	t.Setenv("LOVE", "love")
	t.Setenv("BLIND", "visible")

	ms := MS{
		"test": "${LOVE}-is-${BLIND}",
	}

	resolvedMs := ms.ResolveVariables()

	assert.Equal(t, "love-is-visible", resolvedMs["test"], "failed to correctlty resolved varialbes")

}

func TestResolveNoEnv(t *testing.T) {

	ms := MS{
		"test": "${LOVE}-is-${BLIND}",
	}

	resolvedMs := ms.ResolveVariables()

	assert.Equal(t, "${LOVE}-is-${BLIND}", resolvedMs["test"], "failed to correctlty resolved varialbes")

}

func TestResolveStringDefault(t *testing.T) {

	t.Setenv("LOVE", "love")

	ms := MS{
		"test": "${LOVE}-is-${BLIND:-blind}",
	}

	resolvedMs := ms.ResolveVariables()

	assert.Equal(t, "love-is-blind", resolvedMs["test"], "failed to correctlty resolved varialbes")

}

func TestMS_ResolveVariablesWith_Priority(t *testing.T) {
	// Set an environment variable that will be overridden
	t.Setenv("SESSION_ID", "env_session_id")

	ms := MS{
		"query": "SELECT * FROM logs WHERE session_id = '${SESSION_ID}'",
	}

	runtimeVars := map[string]string{
		"SESSION_ID": "runtime_session_id",
	}

	resolvedMS := ms.ResolveVariablesWith(runtimeVars)

	expected := MS{
		"query": "SELECT * FROM logs WHERE session_id = 'runtime_session_id'",
	}

	assert.Equal(t, expected, resolvedMS)
}
