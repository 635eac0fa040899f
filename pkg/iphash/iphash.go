// Package iphash derives stable, non-reversible identifiers from client IP
// addresses so that abuse controls never store raw addresses.
package iphash

import (
	"encoding/hex"
	"net"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Sum returns a keyed BLAKE2b-256 digest of ip. The salt is truncated to the
// 64 byte key limit. An empty ip yields an empty string.
func Sum(ip, salt string) string {
	ip = normalize(ip)
	if ip == "" {
		return ""
	}
	key := []byte(salt)
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	h, err := blake2b.New256(key)
	if err != nil {
		sum := blake2b.Sum256([]byte(salt + ip))
		return hex.EncodeToString(sum[:])
	}
	_, _ = h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil))
}

func normalize(ip string) string {
	ip = strings.TrimSpace(ip)
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}
	return ip
}
