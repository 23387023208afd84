package exprfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/opal-lang/expr/core/ast"
)

// Document identification. Readers accept any version with the same major.
const (
	Format  = "opal-expr-ast"
	Version = "v1.0.0"
)

var (
	// ErrFormat is returned for input that is not an expression document.
	ErrFormat = errors.New("exprfmt: not an expression document")
	// ErrVersion is returned for documents of an unsupported major version.
	ErrVersion = errors.New("exprfmt: unsupported document version")
)

// Document is the envelope around a serialized tree.
type Document struct {
	Format  string `cbor:"format" json:"format" yaml:"format"`
	Version string `cbor:"version" json:"version" yaml:"version"`
	Root    *Node  `cbor:"root" json:"root" yaml:"root"`
}

// NewDocument wraps t in a current-version envelope.
func NewDocument(t ast.Token) *Document {
	return &Document{Format: Format, Version: Version, Root: FromToken(t)}
}

// Tree checks the envelope and rebuilds the tree.
func (d *Document) Tree() (ast.Token, error) {
	if d.Format != Format {
		return nil, fmt.Errorf("%w: format %q", ErrFormat, d.Format)
	}
	if !semver.IsValid(d.Version) || semver.Major(d.Version) != semver.Major(Version) {
		return nil, fmt.Errorf("%w: %q (reader supports %s.x)", ErrVersion, d.Version, semver.Major(Version))
	}
	root, err := d.Root.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return root, nil
}

// cborMaxNesting allows trees as deep as the parser can produce; the
// library default of 32 levels is far too shallow for a recursive node.
const cborMaxNesting = 65535

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("exprfmt: CBOR encoder: %v", err))
	}
	decMode, err = cbor.DecOptions{
		MaxNestedLevels: cborMaxNesting,
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("exprfmt: CBOR decoder: %v", err))
	}
}

// EncodeCBOR produces the deterministic CBOR encoding of t. Equal trees
// always encode to identical bytes.
func EncodeCBOR(t ast.Token) ([]byte, error) {
	data, err := encMode.Marshal(NewDocument(t))
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// DecodeCBOR reads a tree written by EncodeCBOR.
func DecodeCBOR(data []byte) (ast.Token, error) {
	var doc Document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return doc.Tree()
}

// Digest computes the BLAKE2b-256 hash of the canonical CBOR encoding.
func Digest(t ast.Token) ([32]byte, error) {
	data, err := EncodeCBOR(t)
	if err != nil {
		return [32]byte{}, err
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to create BLAKE2b hasher: %w", err)
	}
	hasher.Write(data)

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}

// FormatDigest renders a digest as "blake2b:<hex>".
func FormatDigest(sum [32]byte) string {
	return fmt.Sprintf("blake2b:%x", sum)
}

// MarshalJSON encodes t as a JSON document.
func MarshalJSON(t ast.Token) ([]byte, error) {
	return json.Marshal(NewDocument(t))
}

// MarshalIndentJSON is MarshalJSON with two-space indentation.
func MarshalIndentJSON(t ast.Token) ([]byte, error) {
	return json.MarshalIndent(NewDocument(t), "", "  ")
}

// UnmarshalJSON validates data against the document schema and rebuilds
// the tree.
func UnmarshalJSON(data []byte) (ast.Token, error) {
	if err := validateJSON(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return doc.Tree()
}

// MarshalYAML encodes t as a YAML document.
func MarshalYAML(t ast.Token) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(t)); err != nil {
		return nil, fmt.Errorf("YAML encoding failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("YAML encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}
