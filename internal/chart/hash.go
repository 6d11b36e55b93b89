package chart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
)

// Domain prefixes for content-addressed identity. The version suffix allows
// the algorithm to change without colliding with old hashes.
const (
	DomainPosition = "almagest/position/v1"
	DomainChart    = "almagest/chart/v1"
	DomainQuery    = "almagest/query/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data). The null separator
// prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PositionHash is the content hash of a single position record.
func PositionHash(p *Position) (string, error) {
	canonical, err := MarshalCanonical(PositionMap(p))
	if err != nil {
		return "", fmt.Errorf("PositionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPosition, canonical), nil
}

// ChartHash hashes a set of positions independently of their order.
func ChartHash(ps []*Position) (string, error) {
	sorted := slices.Clone(ps)
	slices.SortFunc(sorted, func(a, b *Position) int { return Compare(a.Index, b.Index) })
	arr := make([]any, len(sorted))
	for i, p := range sorted {
		arr[i] = PositionMap(p)
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("ChartHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainChart, canonical), nil
}

// QueryKey hashes the scalar arguments of a memoized call. It is the key
// used by persistent cache tiers. Floats are keyed at full precision, not at
// FloatPrecision, so distinct instants never share a key.
func QueryKey(fn string, args ...any) (string, error) {
	keyed := make([]any, len(args))
	for i, a := range args {
		if f, ok := a.(float64); ok {
			keyed[i] = strconv.FormatFloat(f, 'g', -1, 64)
			continue
		}
		keyed[i] = a
	}
	canonical, err := MarshalCanonical(map[string]any{"fn": fn, "args": keyed})
	if err != nil {
		return "", fmt.Errorf("QueryKey: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}
