// Package tzenc encodes the policies and zones of a tzmodel.Database into the
// fixed-width records of the compact zone tables.
//
// An Encoder is a single run: it owns the string tables that are built while
// encoding and can be used for one database only. Policies and zones are always
// processed in sorted name order, so the same input produces the same indices.
//
// Encoding has two passes. The collection pass interns every string that needs a
// table index, the emission pass encodes the records and looks the indices up.
// A string that the emission pass cannot find is an inconsistency between the two
// passes and fails the run with tzintern.ErrLookupMiss.
package tzenc

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/ngrash/go-zonedb/tzcode"
	"github.com/ngrash/go-zonedb/tzintern"
	"github.com/ngrash/go-zonedb/tzmem"
	"github.com/ngrash/go-zonedb/tzmodel"
)

// MaxPolicyLetters is the number of distinct multi-character letters a policy
// can have in Basic mode. Letter indices are stored in a 5-bit field.
const MaxPolicyLetters = 31

var (
	// ErrInvalidLetter is returned for a rule whose letter is empty.
	ErrInvalidLetter = errors.New("invalid letter")
	// ErrUnknownPolicy is returned for an era that references a policy that does not exist.
	ErrUnknownPolicy = errors.New("unknown policy")
	// ErrEncoderUsed is returned by Encode when the Encoder has already been used.
	ErrEncoderUsed = errors.New("encoder already used")
)

// Mode selects the table layout.
type Mode int

const (
	// Basic keeps one letter table per policy and stores formats inline.
	Basic Mode = iota
	// Extended deduplicates all formats and letters in one global string table.
	Extended
)

func (m Mode) String() string {
	switch m {
	case Basic:
		return "Basic"
	case Extended:
		return "Extended"
	default:
		return "<UNDEFINED>"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case Basic:
		return []byte("basic"), nil
	case Extended:
		return []byte("extended"), nil
	default:
		return nil, fmt.Errorf("invalid mode: %d", int(m))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "basic":
		*m = Basic
	case "extended":
		*m = Extended
	default:
		return fmt.Errorf("invalid mode: %q", text)
	}
	return nil
}

// EncodeError attributes an encoding failure to a policy rule or a zone era.
type EncodeError struct {
	Policy string // Set for failures of a policy.
	Zone   string // Set for failures of a zone.
	Index  int    // Index of the rule or era, -1 if the failure concerns the whole entity.
	Field  string // Column that failed to encode, if known.
	Err    error
}

func (e *EncodeError) Error() string {
	var b strings.Builder
	switch {
	case e.Policy != "":
		fmt.Fprintf(&b, "policy %q", e.Policy)
		if e.Index >= 0 {
			fmt.Fprintf(&b, " rule %d", e.Index)
		}
	case e.Zone != "":
		fmt.Fprintf(&b, "zone %q", e.Zone)
		if e.Index >= 0 {
			fmt.Fprintf(&b, " era %d", e.Index)
		}
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " %s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

func ruleError(policy string, index int, field string, err error) error {
	return &EncodeError{Policy: policy, Index: index, Field: field, Err: err}
}

func eraError(zone string, index int, field string, err error) error {
	return &EncodeError{Zone: zone, Index: index, Field: field, Err: err}
}

// Encoder encodes one database. Create an Encoder with New.
// It is not safe for concurrent use.
type Encoder struct {
	mode  Mode
	codec *tzcode.Codec
	sizes *tzmem.Sizes
	log   *slog.Logger

	global  *tzintern.Table            // Extended only
	letters map[string]*tzintern.Table // Basic only, policies with multi-character letters
	used    bool
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithSizes overrides the record sizes used for footprints.
// The default depends on the mode.
func WithSizes(s tzmem.Sizes) Option {
	return func(e *Encoder) {
		e.sizes = &s
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(e *Encoder) {
		e.log = l
	}
}

// New returns an Encoder for the given mode and code configuration.
// The configuration is validated once and holds for the whole run.
func New(mode Mode, cfg tzcode.Config, opts ...Option) (*Encoder, error) {
	if mode != Basic && mode != Extended {
		return nil, fmt.Errorf("invalid mode: %d", int(mode))
	}
	codec, err := tzcode.New(cfg)
	if err != nil {
		return nil, err
	}
	e := &Encoder{
		mode:    mode,
		codec:   codec,
		letters: make(map[string]*tzintern.Table),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sizes == nil {
		s := tzmem.BasicSizes
		if mode == Extended {
			s = tzmem.ExtendedSizes
		}
		e.sizes = &s
	}
	if err := e.sizes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid record sizes: %w", err)
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	if mode == Extended {
		e.global = tzintern.New()
	}
	return e, nil
}

// Mode returns the mode of the encoder.
func (e *Encoder) Mode() Mode {
	return e.mode
}

// Encode encodes all policies and zones of db.
// Errors abort the run and no partial result is returned.
func (e *Encoder) Encode(db *tzmodel.Database) (*Database, error) {
	if e.used {
		return nil, ErrEncoderUsed
	}
	e.used = true

	policyNames := db.PolicyNames()
	zoneNames := db.ZoneNames()

	// Collection pass. The order of this traversal defines the table indices.
	for _, name := range policyNames {
		if err := e.collectPolicy(name, db.Policies[name]); err != nil {
			return nil, err
		}
	}
	for _, name := range zoneNames {
		if err := e.collectZone(name, db.Zones[name]); err != nil {
			return nil, err
		}
	}

	// Emission pass.
	out := &Database{
		Mode:            e.mode,
		Config:          e.codec.Config(),
		Sizes:           *e.sizes,
		Version:         db.Version,
		Policies:        make([]EncodedPolicy, 0, len(policyNames)),
		Zones:           make([]EncodedZone, 0, len(zoneNames)),
		RemovedPolicies: maps.Clone(db.RemovedPolicies),
		RemovedZones:    maps.Clone(db.RemovedZones),
		NotablePolicies: maps.Clone(db.NotablePolicies),
		NotableZones:    maps.Clone(db.NotableZones),
	}
	for _, name := range policyNames {
		p, err := e.encodePolicy(name, db.Policies[name])
		if err != nil {
			return nil, err
		}
		e.log.Debug("encoded policy",
			slog.String("policy", name),
			slog.Int("rules", len(p.Rules)),
			slog.Int("letters", len(p.Letters)),
			slog.Int("bytes8", p.Footprint.Bits8),
			slog.Int("bytes32", p.Footprint.Bits32))
		out.Policies = append(out.Policies, p)
	}
	for _, name := range zoneNames {
		z, err := e.encodeZone(name, db.Zones[name], db.Policies)
		if err != nil {
			return nil, err
		}
		e.log.Debug("encoded zone",
			slog.String("zone", name),
			slog.Int("eras", len(z.Eras)),
			slog.Int("bytes8", z.Footprint.Bits8),
			slog.Int("bytes32", z.Footprint.Bits32))
		out.Zones = append(out.Zones, z)
	}
	if e.global != nil {
		out.Strings = e.global.Strings()
		out.StringsOrigSize = e.global.OrigSize()
	}

	fp := out.Footprint()
	e.log.Info("encoded database",
		slog.String("mode", e.mode.String()),
		slog.String("version", db.Version),
		slog.Int("policies", len(out.Policies)),
		slog.Int("zones", len(out.Zones)),
		slog.Int("strings", len(out.Strings)),
		slog.Int("bytes8", fp.Bits8),
		slog.Int("bytes32", fp.Bits32))
	return out, nil
}
