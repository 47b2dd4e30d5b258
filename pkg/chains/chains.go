// Package chains maps chain identifiers to liquidity hub endpoints.
package chains

import "strings"

const (
	Ethereum = 1
	BSC      = 56
	Polygon  = 137
	Fantom   = 250
	ZkEVM    = 1101
	Base     = 8453
	Linea    = 59144
	Blast    = 81457
)

// DefaultEndpoint is used for every chain without a dedicated hub
const DefaultEndpoint = "https://hub.orbs.network"

// ChainList contains the list of chains with a dedicated hub endpoint
var ChainList = []int{
	Polygon,
	BSC,
	Fantom,
	Base,
	Linea,
	Blast,
	ZkEVM,
}

// chainNames maps chain IDs to their names
var chainNames = map[int]string{
	Ethereum: "ETHEREUM",
	BSC:      "BSC",
	Polygon:  "POLYGON",
	Fantom:   "FANTOM",
	ZkEVM:    "ZKEVM",
	Base:     "BASE",
	Linea:    "LINEA",
	Blast:    "BLAST",
}

var hubEndpoints = map[int]string{
	Polygon: "https://polygon.hub.orbs.network",
	BSC:     "https://bsc.hub.orbs.network",
	Fantom:  "https://ftm.hub.orbs.network",
	Base:    "https://base.hub.orbs.network",
	Linea:   "https://linea.hub.orbs.network",
	Blast:   "https://blast.hub.orbs.network",
	ZkEVM:   "https://zkevm.hub.orbs.network",
}

// GetChainName returns the name of the chain for a given chain ID
func GetChainName(chainID int) string {
	name, exists := chainNames[chainID]
	if !exists {
		return ""
	}
	return name
}

// ResolveEndpoint returns the hub base URL for a chain, falling back to DefaultEndpoint
func ResolveEndpoint(chainID int) string {
	endpoint, exists := hubEndpoints[chainID]
	if !exists {
		return DefaultEndpoint
	}
	return endpoint
}

// Resolver resolves hub endpoints, honoring a locally configured override
type Resolver struct {
	override string
}

// NewResolver creates a resolver. A non-empty override supersedes the chain table.
func NewResolver(override string) *Resolver {
	return &Resolver{override: strings.TrimRight(strings.TrimSpace(override), "/")}
}

// Endpoint returns the base URL to use for chainID
func (r *Resolver) Endpoint(chainID int) string {
	if r != nil && r.override != "" {
		return r.override
	}
	return ResolveEndpoint(chainID)
}

// Override returns the configured override URL, if any
func (r *Resolver) Override() string {
	if r == nil {
		return ""
	}
	return r.override
}
