// Package utils holds small helpers shared across packages.
package utils

// MaskSecret masks a credential for display, keeping only the edges.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
