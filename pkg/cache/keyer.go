package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins the NUL-separated digest of parts to kind, e.g. "specifiers:3f2a...".
func hashKey(kind string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Keyer derives cache keys for every cached entry type.
type Keyer interface {
	// SpecifiersKey identifies the raw import specifiers a parser found in
	// contents. The key does not depend on the file's path, so identical
	// sources share an entry.
	SpecifiersKey(parser string, contents []byte) string
	// ArtifactKey identifies a rendered artifact for a dependency map hash.
	ArtifactKey(mapHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format string
	Sorted bool
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key layout.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SpecifiersKey hashes the parser name and the file contents.
func (DefaultKeyer) SpecifiersKey(parser string, contents []byte) string {
	return hashKey("specifiers", parser, Hash(contents))
}

// ArtifactKey hashes the map hash together with the render options.
func (DefaultKeyer) ArtifactKey(mapHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", mapHash, opts.Format, strconv.FormatBool(opts.Sorted))
}

var _ Keyer = DefaultKeyer{}
