package validate

// MetadataPolicy names how opaque/unrecognized metadata envelopes
// surfaced by the codec are to be treated (spec.md §6). It is carried in
// RuntimeProfile only: no lane reads it, so it does not change findings.
type MetadataPolicy int

const (
	AllowOpaque MetadataPolicy = iota
	RejectUnknown
)

// TransportProfile carries transport-level thresholds. lineSeparator and
// maxFrameBytes are tracked for the runtime adapter's benefit but are
// informational for the core (spec.md §4.3); only MaxMessageBytes feeds
// a rule here.
type TransportProfile struct {
	LineSeparator   string
	MaxFrameBytes   int
	MaxMessageBytes int
	MetaEnvelope    string
}

// RuntimeProfile is the caller-supplied configuration bundle for the
// driver (spec.md §6).
type RuntimeProfile struct {
	Metadata MetadataPolicy
	// Transport is nil when the caller supplies no transport policy; the
	// transport lane then never fires.
	Transport *TransportProfile
	// AllowUnstableFeatures governs the severity of
	// ACP.SEMANTIC.UNKNOWN_UPDATE_VARIANT: Info when true, Warning
	// otherwise (spec.md §4.3, §9 Open Questions).
	AllowUnstableFeatures bool
}

// DefaultRuntimeProfile returns a RuntimeProfile with no transport policy
// and stable-only semantics.
func DefaultRuntimeProfile() RuntimeProfile {
	return RuntimeProfile{Metadata: AllowOpaque}
}

// EvalProfile configures the heuristic Eval lane (spec.md §4.3).
type EvalProfile struct {
	RequireNonEmptyInstruction bool
	FSharpLexChecks            bool
	MaxUnknownTokenRatio       float64
}

// DefaultEvalProfile enables the non-empty-instruction check and leaves
// the heuristic lexical checks off, matching a validator that hasn't
// opted into the noisier heuristics.
func DefaultEvalProfile() EvalProfile {
	return EvalProfile{
		RequireNonEmptyInstruction: true,
		FSharpLexChecks:            false,
		MaxUnknownTokenRatio:       0.4,
	}
}
