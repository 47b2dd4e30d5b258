package chains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveEndpoint(t *testing.T) {
	t.Run("Known chains", func(t *testing.T) {
		assert.Equal(t, "https://polygon.hub.orbs.network", ResolveEndpoint(Polygon))
		assert.Equal(t, "https://bsc.hub.orbs.network", ResolveEndpoint(BSC))
		assert.Equal(t, "https://base.hub.orbs.network", ResolveEndpoint(Base))
		assert.Equal(t, "https://zkevm.hub.orbs.network", ResolveEndpoint(ZkEVM))
	})

	t.Run("Every listed chain has its own endpoint", func(t *testing.T) {
		for _, chainID := range ChainList {
			endpoint := ResolveEndpoint(chainID)
			assert.NotEmpty(t, endpoint)
			assert.NotEqual(t, DefaultEndpoint, endpoint, "chain %d", chainID)
		}
	})

	t.Run("Unknown chains fall back to default", func(t *testing.T) {
		for _, chainID := range []int{0, -1, Ethereum, 42161, 999999999} {
			assert.Equal(t, DefaultEndpoint, ResolveEndpoint(chainID), "chain %d", chainID)
		}
	})
}

func TestResolver(t *testing.T) {
	t.Run("No override uses table", func(t *testing.T) {
		r := NewResolver("")
		assert.Equal(t, ResolveEndpoint(Blast), r.Endpoint(Blast))
		assert.Equal(t, DefaultEndpoint, r.Endpoint(12345))
	})

	t.Run("Override supersedes table", func(t *testing.T) {
		r := NewResolver(" http://localhost:8080/ ")
		assert.Equal(t, "http://localhost:8080", r.Endpoint(Polygon))
		assert.Equal(t, "http://localhost:8080", r.Endpoint(12345))
		assert.Equal(t, "http://localhost:8080", r.Override())
	})

	t.Run("Nil resolver", func(t *testing.T) {
		var r *Resolver
		assert.Equal(t, ResolveEndpoint(Linea), r.Endpoint(Linea))
	})
}

func TestGetChainName(t *testing.T) {
	assert.Equal(t, "POLYGON", GetChainName(Polygon))
	assert.Equal(t, "", GetChainName(424242))
}
